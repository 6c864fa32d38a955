// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7703

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/dsidev/panels/mipidsi"
)

// Model lists the supported panel models. The ST7703 is sold under several
// vendor names; the init sequences below were supplied by the respective
// panel vendors and are not interchangeable.
type Model int

// Supported Model.
const (
	// JH057N is the Rocktech JH057N00900 5.5" 720x1440 panel.
	JH057N Model = iota
	// XBD599 is the Xingbangda XBD599 5.99" 720x1440 panel.
	XBD599
	// KD035 is the DLC DLC350V11 3.5" 640x960 panel.
	KD035
)

// String implements fmt.Stringer.
func (m Model) String() string {
	switch m {
	case JH057N:
		return "JH057N"
	case XBD599:
		return "XBD599"
	case KD035:
		return "KD035"
	default:
		return fmt.Sprintf("Model(%d)", int(m))
	}
}

// Set sets the Model to a value represented by the string s. Set implements the flag.Value interface.
func (m *Model) Set(s string) error {
	switch s {
	case "JH057N":
		*m = JH057N
	case "XBD599":
		*m = XBD599
	case "KD035":
		*m = KD035
	default:
		return fmt.Errorf("unknown model %q: expected JH057N, XBD599 or KD035", s)
	}
	return nil
}

// Compatible returns the devicetree compatible string the model is matched
// by.
func (m Model) Compatible() string {
	if v, ok := m.desc(); ok {
		return v.compatible
	}
	return ""
}

// Mode returns the video timing the model requires. The zero value is
// returned for unknown models.
func (m Model) Mode() DisplayMode {
	if v, ok := m.desc(); ok {
		return v.mode
	}
	return DisplayMode{}
}

// Models returns all supported models.
func Models() []Model {
	return []Model{JH057N, XBD599, KD035}
}

// ModelByCompatible returns the model registered for the given devicetree
// compatible string.
func ModelByCompatible(compat string) (Model, error) {
	for _, m := range Models() {
		if m.Compatible() == compat {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: no panel matches %q", ErrUnknownModel, compat)
}

func (m Model) desc() (*variant, bool) {
	if m < 0 || int(m) >= len(variants) {
		return nil, false
	}
	return &variants[m], true
}

// variant is the static per-model descriptor: geometry, bus configuration
// and the initialization sequence. Instances are immutable and shared.
type variant struct {
	compatible string
	mode       DisplayMode
	lanes      int
	format     mipidsi.PixelFormat
	flags      mipidsi.ModeFlag
	init       func(s sequencer)
}

var variants = [...]variant{
	JH057N: {
		compatible: "rocktech,jh057n00900",
		mode: DisplayMode{
			PixelClock:  75276 * physic.KiloHertz,
			HActive:     720,
			HFrontPorch: 90,
			HSyncLen:    20,
			HBackPorch:  20,
			VActive:     1440,
			VFrontPorch: 20,
			VSyncLen:    4,
			VBackPorch:  12,
			Width:       65 * physic.MilliMetre,
			Height:      130 * physic.MilliMetre,
		},
		lanes:  4,
		format: mipidsi.RGB888,
		flags:  mipidsi.ModeVideo | mipidsi.ModeVideoBurst | mipidsi.ModeVideoSyncPulse,
		init:   jh057nInit,
	},
	XBD599: {
		compatible: "xingbangda,xbd599",
		mode: DisplayMode{
			PixelClock:  69000 * physic.KiloHertz,
			HActive:     720,
			HFrontPorch: 40,
			HSyncLen:    40,
			HBackPorch:  40,
			VActive:     1440,
			VFrontPorch: 18,
			VSyncLen:    10,
			VBackPorch:  17,
			Width:       68 * physic.MilliMetre,
			Height:      136 * physic.MilliMetre,
		},
		lanes:  4,
		format: mipidsi.RGB888,
		flags:  mipidsi.ModeVideo | mipidsi.ModeVideoSyncPulse,
		init:   xbd599Init,
	},
	KD035: {
		compatible: "dlc,dlc350v11",
		mode: DisplayMode{
			PixelClock:  48308 * physic.KiloHertz,
			HActive:     640,
			HFrontPorch: 84,
			HSyncLen:    2,
			HBackPorch:  84,
			VActive:     960,
			VFrontPorch: 16,
			VSyncLen:    2,
			VBackPorch:  16,
			Width:       75 * physic.MilliMetre,
			Height:      50 * physic.MilliMetre,
		},
		lanes:  4,
		format: mipidsi.RGB888,
		flags:  mipidsi.ModeVideo | mipidsi.ModeVideoSyncPulse,
		init:   kd035Init,
	},
}

// jh057nInit is the vendor supplied init sequence for the JH057N00900.
// Most of the commands resemble the ST7703 but the parameter counts often
// don't match, so the controller is likely a clone. All writes are generic.
func jh057nInit(s sequencer) {
	s.genericWrite(cmdSetEXTC, 0xF1, 0x12, 0x83)
	s.genericWrite(cmdSetRGBIF,
		0x10, 0x10, 0x05, 0x05, 0x03, 0xFF, 0x00, 0x00,
		0x00, 0x00)
	s.genericWrite(cmdSetSCR,
		0x73, 0x73, 0x50, 0x50, 0x00, 0x00, 0x08, 0x70,
		0x00)
	s.genericWrite(cmdSetVDC, 0x4E)
	s.genericWrite(cmdSetPanel, 0x0B)
	s.genericWrite(cmdSetCyc, 0x80)
	s.genericWrite(cmdSetDisp, 0xF0, 0x12, 0x30)
	s.genericWrite(cmdSetEQ,
		0x07, 0x07, 0x0B, 0x0B, 0x03, 0x0B, 0x00, 0x00,
		0x00, 0x00, 0xFF, 0x00, 0xC0, 0x10)
	s.genericWrite(cmdSetBGP, 0x08, 0x08)
	s.sleep(20 * time.Millisecond)

	s.genericWrite(cmdSetVCOM, 0x3F, 0x3F)
	s.genericWrite(cmdUnknownBF, 0x02, 0x11, 0x00)
	s.genericWrite(cmdSetGIP1,
		0x82, 0x10, 0x06, 0x05, 0x9E, 0x0A, 0xA5, 0x12,
		0x31, 0x23, 0x37, 0x83, 0x04, 0xBC, 0x27, 0x38,
		0x0C, 0x00, 0x03, 0x00, 0x00, 0x00, 0x0C, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x75, 0x75, 0x31, 0x88,
		0x88, 0x88, 0x88, 0x88, 0x88, 0x13, 0x88, 0x64,
		0x64, 0x20, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88,
		0x02, 0x88, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	s.genericWrite(cmdSetGIP2,
		0x02, 0x21, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x02, 0x46, 0x02, 0x88,
		0x88, 0x88, 0x88, 0x88, 0x88, 0x64, 0x88, 0x13,
		0x57, 0x13, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88,
		0x75, 0x88, 0x23, 0x14, 0x00, 0x00, 0x02, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x30, 0x0A,
		0xA5, 0x00, 0x00, 0x00, 0x00)
	s.genericWrite(cmdSetGamma,
		0x00, 0x09, 0x0E, 0x29, 0x2D, 0x3C, 0x41, 0x37,
		0x07, 0x0B, 0x0D, 0x10, 0x11, 0x0F, 0x10, 0x11,
		0x18, 0x00, 0x09, 0x0E, 0x29, 0x2D, 0x3C, 0x41,
		0x37, 0x07, 0x0B, 0x0D, 0x10, 0x11, 0x0F, 0x10,
		0x11, 0x18)
}

// xbd599Init is the vendor supplied init sequence for the XBD599. Writes
// are DCS, each followed by the codec's settle delay.
func xbd599Init(s sequencer) {
	// Magic sequence to unlock user commands below.
	s.dcsWrite(cmdSetEXTC, 0xF1, 0x12, 0x83)
	s.dcsWrite(cmdUnknownB1, 0x00, 0x00, 0x00, 0xDA, 0x80)
	// Display resolution.
	s.dcsWrite(cmdSetDisp, 0x78, 0x13, 0xF0)
	// RGB I/F porch timing.
	s.dcsWrite(cmdSetRGBIF,
		0x1A, 0x1E, 0x28, 0x28, 0x03, 0xFF,
		0x00, 0x00,
		0x00, 0x00)
	// Zig-Zag Type C column inversion.
	s.dcsWrite(cmdSetCyc, 0x80)
	// Reference voltage.
	s.dcsWrite(cmdSetBGP, 0x10, 0x10)
	s.sleep(20 * time.Millisecond)

	s.dcsWrite(cmdSetVCOM, 0x48, 0x48)
	s.dcsWrite(cmdSetPowerExt, 0x2E, 0x22, 0xF0, 0x13)
	s.dcsWrite(cmdSetMIPI,
		0x33, 0x81, 0x05, 0xF9, 0x0E, 0x0E,
		0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x44, 0x25, 0x00, 0x90, 0x0A, 0x00, 0x00, 0x01,
		0x4F, 0x01, 0x00, 0x00, 0x37)
	s.dcsWrite(cmdSetVDC, 0x4F)
	s.dcsWrite(cmdUnknownBF, 0x02, 0x11, 0x00)
	// Source driving settings.
	s.dcsWrite(cmdSetSCR,
		0x73, 0x73, 0x50, 0x50, 0x00, 0x00, 0x12, 0x70,
		0x00)
	s.dcsWrite(cmdSetPower,
		0x64, 0xC1, 0x2C, 0x2C, 0x77, 0xE4, 0xCF, 0xCF,
		0x7E, 0x7E, 0x3E, 0x3E)
	s.dcsWrite(cmdSetPanel, 0x0B)
	s.dcsWrite(cmdSetCyc, 0x80)
	s.dcsWrite(cmdSetEQ,
		0x00, 0x00, 0x0B, 0x0B, 0x10, 0x10, 0x00, 0x00,
		0x00, 0x00, 0xFF, 0x00, 0xC0, 0x10)
	s.dcsWrite(cmdUnknownC6, 0x01, 0x00, 0xFF, 0xFF, 0x00)
	// Forward GIP timing.
	s.dcsWrite(cmdSetGIP1,
		0x82, 0x10, 0x06, 0x05, 0xA2, 0x0A, 0xA5, 0x12,
		0x31, 0x23, 0x37, 0x83, 0x04, 0xBC, 0x27, 0x38,
		0x0C, 0x00, 0x03, 0x00, 0x00, 0x00, 0x0C, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x75, 0x75, 0x31, 0x88,
		0x88, 0x88, 0x88, 0x88, 0x88, 0x13, 0x88, 0x64,
		0x64, 0x20, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88,
		0x02, 0x88, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00)
	// Backward GIP timing.
	s.dcsWrite(cmdSetGIP2,
		0x02, 0x21, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x02, 0x46, 0x02, 0x88,
		0x88, 0x88, 0x88, 0x88, 0x88, 0x64, 0x88, 0x13,
		0x57, 0x13, 0x88, 0x88, 0x88, 0x88, 0x88, 0x88,
		0x75, 0x88, 0x23, 0x14, 0x00, 0x00, 0x02, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0x0A,
		0xA5, 0x00, 0x00, 0x00, 0x00)
	s.dcsWrite(cmdSetGamma,
		0x00, 0x09, 0x0D, 0x23, 0x27, 0x3C, 0x41, 0x35,
		0x07, 0x0D, 0x0E, 0x12, 0x13, 0x10, 0x12, 0x12,
		0x18, 0x00, 0x09, 0x0D, 0x23, 0x27, 0x3C, 0x41,
		0x35, 0x07, 0x0D, 0x0E, 0x12, 0x13, 0x10, 0x12,
		0x12, 0x18)
}

// kd035Init is the vendor supplied init sequence for the DLC350V11.
func kd035Init(s sequencer) {
	// Magic sequence to unlock user commands below.
	s.dcsWrite(cmdSetEXTC, 0xF1, 0x12, 0x83)
	s.dcsWrite(cmdUnknownB1, 0x00, 0x00, 0x00, 0xDA, 0x80)
	// Display resolution.
	s.dcsWrite(cmdSetDisp, 0x78, 0x13, 0xF0)
	// RGB I/F porch timing.
	s.dcsWrite(cmdSetRGBIF,
		0x1A, 0x1E, 0x28, 0x28, 0x03, 0xFF,
		0x00, 0x00,
		0x00, 0x00)
	// Zig-Zag Type C column inversion.
	s.dcsWrite(cmdSetCyc, 0x80)
	// Reference voltage.
	s.dcsWrite(cmdSetBGP, 0x10, 0x10)
	s.dcsWrite(cmdSetVCOM, 0x48, 0x48)
	s.dcsWrite(cmdSetPowerExt, 0x2E, 0x22, 0xF0, 0x13)
	s.dcsWrite(cmdSetMIPI,
		0x33, 0x81, 0x05, 0xF9, 0x0E, 0x0E,
		0x20, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x44, 0x25, 0x00, 0x90, 0x0A, 0x00, 0x00, 0x01,
		0x4F, 0x01, 0x00, 0x00, 0x37)
	s.dcsWrite(cmdSetVDC, 0x4F)
	s.dcsWrite(cmdUnknownBF, 0x02, 0x11, 0x00)
	// Source driving settings.
	s.dcsWrite(cmdSetSCR,
		0x73, 0x73, 0x50, 0x50, 0x00, 0x00, 0x12, 0x70,
		0x00)
	s.dcsWrite(cmdSetPower,
		0x64, 0xC1, 0x2C, 0x2C, 0x77, 0xE4, 0xCF, 0xCF,
		0x7E, 0x7E, 0x3E, 0x3E)
	s.dcsWrite(cmdUnknownC6, 0x82, 0x00, 0xBF, 0xFF, 0x00, 0xFF)
	// CABC PWM output and sync delays.
	s.dcsWrite(cmdSetIO, 0xB8, 0x00, 0x0A, 0x00, 0x00, 0x00)
	// Content adaptive brightness control.
	s.dcsWrite(cmdSetCABC, 0x10, 0x40, 0x1E, 0x02)
	s.dcsWrite(cmdSetPanel, 0x0B)
	s.dcsWrite(cmdSetGamma,
		0x00, 0x0B, 0x10, 0x24, 0x29, 0x38,
		0x44, 0x39, 0x0A, 0x0D, 0x0D, 0x12, 0x14, 0x13,
		0x15, 0x10, 0x15, 0x00, 0x0B, 0x10, 0x24, 0x29,
		0x38, 0x44, 0x39, 0x0A, 0x0D, 0x0D, 0x12, 0x14,
		0x13, 0x15, 0x10, 0x15)
	s.dcsWrite(cmdSetEQ,
		0x07, 0x07, 0x0B, 0x0B, 0x0B, 0x0B, 0x00, 0x00,
		0x00, 0x00, 0xFF, 0x00, 0xC0, 0x10)
	// Forward GIP timing.
	s.dcsWrite(cmdSetGIP1,
		0xC8, 0x10, 0x11, 0x03, 0xC3, 0x80,
		0x81, 0x12, 0x31, 0x23, 0xAF, 0x8E, 0xAD, 0x6D,
		0x8F, 0x10, 0x03, 0x00, 0x19, 0x00, 0x00, 0x00,
		0x03, 0x00, 0x19, 0x00, 0x00, 0x00, 0x9F, 0x84,
		0x6A, 0xB6, 0x48, 0x20, 0x64, 0x20, 0x20, 0x88,
		0x88, 0x9F, 0x85, 0x7A, 0xB7, 0x58, 0x31, 0x75,
		0x31, 0x31, 0x88, 0x88, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x80, 0x81, 0x5F, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00)
	// Backward GIP timing.
	s.dcsWrite(cmdSetGIP2,
		0x96, 0x1C, 0x01, 0x01, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x98, 0xF3,
		0x1A, 0xB1, 0x38, 0x57, 0x13, 0x57, 0x57, 0x88,
		0x88, 0x98, 0xF2, 0x0A, 0xB0, 0x28, 0x46, 0x02,
		0x46, 0x46, 0x88, 0x88, 0x23, 0x10, 0x00, 0x00,
		0xF4, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x0D,
		0x80, 0x00, 0xF0, 0x00, 0x03, 0xCF, 0x12, 0x30,
		0x70, 0x80, 0x81, 0x40, 0x80, 0x81, 0x00, 0x00,
		0x00, 0x00)
	s.dcsWrite(cmdUnknownEF, 0xFF, 0xFF, 0x01)
}
