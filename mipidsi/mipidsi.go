// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mipidsi

import (
	"errors"
	"fmt"
)

// Standard DCS opcodes used by command mode panel drivers.
const (
	CmdNop               byte = 0x00
	CmdSoftReset         byte = 0x01
	CmdGetPowerMode      byte = 0x0A
	CmdEnterSleepMode    byte = 0x10
	CmdExitSleepMode     byte = 0x11
	CmdSetDisplayOff     byte = 0x28
	CmdSetDisplayOn      byte = 0x29
	CmdEnterInvertMode   byte = 0x21
	CmdExitInvertMode    byte = 0x20
	CmdSetTearOff        byte = 0x34
	CmdSetTearOn         byte = 0x35
	CmdGetDisplayID1     byte = 0xDA
	CmdGetDisplayID2     byte = 0xDB
	CmdGetDisplayID3     byte = 0xDC
)

// ErrShortRead is returned by a Dev when a DCS read completed with fewer
// bytes than requested.
var ErrShortRead = errors.New("mipidsi: short read")

// PixelFormat is the wire format of a pixel in video mode.
type PixelFormat int

// Supported PixelFormat.
const (
	RGB888 PixelFormat = iota
	RGB666
	RGB666Packed
	RGB565
)

// Bits returns the number of bits per pixel on the wire.
func (f PixelFormat) Bits() int {
	switch f {
	case RGB888:
		return 24
	case RGB666:
		return 24
	case RGB666Packed:
		return 18
	case RGB565:
		return 16
	default:
		return 0
	}
}

// String implements fmt.Stringer.
func (f PixelFormat) String() string {
	switch f {
	case RGB888:
		return "RGB888"
	case RGB666:
		return "RGB666"
	case RGB666Packed:
		return "RGB666-packed"
	case RGB565:
		return "RGB565"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(f))
	}
}

// ModeFlag is a bit set of operating mode flags for the link.
type ModeFlag uint

const (
	// ModeVideo selects video mode, with pixel data streamed continuously
	// by the host's video engine.
	ModeVideo ModeFlag = 1 << iota
	// ModeVideoBurst sends pixel data in high speed bursts with the link
	// idle in between.
	ModeVideoBurst
	// ModeVideoSyncPulse transmits explicit sync pulse packets instead of
	// sync events.
	ModeVideoSyncPulse
	// ModeLPM sends commands in low power mode signaling.
	ModeLPM
)

// Config describes how the host must drive the link for a given panel.
type Config struct {
	// Lanes is the number of data lanes the panel is wired with.
	Lanes int
	// Format is the pixel format for video data.
	Format PixelFormat
	// Flags is the set of mode flags the panel requires.
	Flags ModeFlag
}

// Dev is a single peripheral on a MIPI-DSI link, as seen by a panel driver.
//
// It is implemented by the DSI host binding of the platform. Every write is
// one discrete bus transaction; the interface performs no buffering or
// coalescing.
type Dev interface {
	// GenericWrite sends p as a generic write packet. The payload carries
	// its own framing, there is no opcode outside of it.
	GenericWrite(p []byte) error
	// DCSWrite sends a DCS command with an optional parameter payload.
	DCSWrite(cmd byte, p []byte) error
	// DCSRead issues a DCS read of cmd and fills p with the reply. A reply
	// shorter than len(p) fails with ErrShortRead.
	DCSRead(cmd byte, p []byte) error
	// Configure sets the lane count, pixel format and mode flags.
	Configure(c Config) error
	// SetLowPowerMode switches command transmission between low power and
	// high speed signaling.
	SetLowPowerMode(on bool) error
}

// ExitSleepMode takes the panel out of its low power sleep state.
func ExitSleepMode(d Dev) error {
	return d.DCSWrite(CmdExitSleepMode, nil)
}

// EnterSleepMode puts the panel into its low power sleep state.
func EnterSleepMode(d Dev) error {
	return d.DCSWrite(CmdEnterSleepMode, nil)
}

// SetDisplayOn starts displaying the frame memory.
func SetDisplayOn(d Dev) error {
	return d.DCSWrite(CmdSetDisplayOn, nil)
}

// SetDisplayOff blanks the display output.
func SetDisplayOff(d Dev) error {
	return d.DCSWrite(CmdSetDisplayOff, nil)
}
