// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7703

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// DisplayMode is the video timing a panel requires from the DSI host's
// video engine. The values are part of the panel's electrical contract and
// must be reproduced exactly.
type DisplayMode struct {
	// PixelClock drives the line and frame rate.
	PixelClock physic.Frequency

	// Horizontal timing, in pixels.
	HActive     int
	HFrontPorch int
	HSyncLen    int
	HBackPorch  int

	// Vertical timing, in lines.
	VActive     int
	VFrontPorch int
	VSyncLen    int
	VBackPorch  int

	// Physical size of the active area.
	Width  physic.Distance
	Height physic.Distance
}

// HTotal returns the full line length including blanking, in pixels.
func (m *DisplayMode) HTotal() int {
	return m.HActive + m.HFrontPorch + m.HSyncLen + m.HBackPorch
}

// VTotal returns the full frame height including blanking, in lines.
func (m *DisplayMode) VTotal() int {
	return m.VActive + m.VFrontPorch + m.VSyncLen + m.VBackPorch
}

// RefreshRate returns the vertical refresh rate implied by the pixel clock
// and the blanking intervals.
func (m *DisplayMode) RefreshRate() physic.Frequency {
	t := m.HTotal() * m.VTotal()
	if t == 0 {
		return 0
	}
	return m.PixelClock / physic.Frequency(t)
}

// String implements fmt.Stringer.
func (m *DisplayMode) String() string {
	return fmt.Sprintf("%dx%d@%s", m.HActive, m.VActive, m.RefreshRate())
}
