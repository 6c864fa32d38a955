// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package st7703 controls MIPI-DSI panels built on the Sitronix ST7703
// controller, such as the Rocktech JH057N00900 and the Xingbangda XBD599.
//
// The driver sequences the panel through its lifecycle: Prepare powers it up
// and releases reset, Enable transmits the vendor initialization sequence
// and starts video output, Disable blanks the output, Unprepare cuts power.
// The initialization sequences are vendor supplied, empirically tuned, and
// differ per panel model; their command order and interleaved delays are
// load bearing and must not be reordered.
//
// Datasheet
//
// https://www.startek-lcd.com/res/starteklcd/pdres/201705/20170512144242904.pdf
package st7703
