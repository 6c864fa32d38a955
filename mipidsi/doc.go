// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mipidsi defines the interface between a MIPI-DSI host controller
// and a command mode panel driver.
//
// The package does not implement a host. It provides the Dev interface a
// platform binding has to satisfy, the standard DCS opcodes, and helpers
// for the handful of DCS operations every panel needs.
package mipidsi
