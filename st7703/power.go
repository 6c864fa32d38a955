// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7703

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
)

// Rail is a voltage supply feeding the panel. Integrations that hardwire a
// rail leave the corresponding handle nil.
type Rail interface {
	Enable() error
	Disable() error
}

const (
	// railSettle is the wait after enabling a supply rail.
	railSettle = 20 * time.Millisecond
	// powerOffSettle is the wait after cutting power before the panel may
	// be powered again.
	powerOffSettle = 40 * time.Millisecond
)

// power sequences the reset line and the supply rails. RESX on the ST7703
// is active low: the line is driven low to hold the controller in reset.
//
// The reset line and both rail handles are owned exclusively by one power
// instance; nothing else may toggle them.
type power struct {
	rst   gpio.PinOut
	vcc   Rail
	iovcc Rail
	log   zerolog.Logger

	powered bool
}

// up powers the panel and releases reset. Once it returns the bus is usable
// for commands. Calling it while already powered does nothing; the reset
// line and the rails are not touched again.
func (p *power) up() error {
	if p.powered {
		return nil
	}
	if err := p.rst.Out(gpio.Low); err != nil {
		return fmt.Errorf("st7703: asserting reset: %w", err)
	}
	if p.vcc != nil {
		if err := p.vcc.Enable(); err != nil {
			return fmt.Errorf("st7703: enabling vcc: %w", err)
		}
	}
	time.Sleep(railSettle)
	if p.iovcc != nil {
		if err := p.iovcc.Enable(); err != nil {
			// Never leave the panel half powered.
			p.rollbackVCC()
			return fmt.Errorf("st7703: enabling iovcc: %w", err)
		}
	}
	time.Sleep(railSettle)
	if err := p.rst.Out(gpio.High); err != nil {
		p.rollbackIOVCC()
		p.rollbackVCC()
		return fmt.Errorf("st7703: releasing reset: %w", err)
	}
	time.Sleep(wakeSettle)
	p.powered = true
	return nil
}

// down asserts reset and cuts the rails in reverse order of up. Every step
// is attempted even when an earlier one failed; the first error is
// returned. Calling it while unpowered does nothing.
func (p *power) down() error {
	if !p.powered {
		return nil
	}
	p.powered = false
	var first error
	if err := p.rst.Out(gpio.Low); err != nil {
		first = fmt.Errorf("st7703: asserting reset: %w", err)
	}
	if p.iovcc != nil {
		if err := p.iovcc.Disable(); err != nil && first == nil {
			first = fmt.Errorf("st7703: disabling iovcc: %w", err)
		}
	}
	if p.vcc != nil {
		if err := p.vcc.Disable(); err != nil && first == nil {
			first = fmt.Errorf("st7703: disabling vcc: %w", err)
		}
	}
	time.Sleep(powerOffSettle)
	return first
}

func (p *power) rollbackVCC() {
	if p.vcc == nil {
		return
	}
	if err := p.vcc.Disable(); err != nil {
		p.log.Error().Err(err).Msg("vcc disable during rollback failed")
	}
}

func (p *power) rollbackIOVCC() {
	if p.iovcc == nil {
		return
	}
	if err := p.iovcc.Disable(); err != nil {
		p.log.Error().Err(err).Msg("iovcc disable during rollback failed")
	}
}
