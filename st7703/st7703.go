// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7703

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"

	"github.com/dsidev/panels/mipidsi"
)

var (
	// ErrUnknownModel is returned when the requested panel model is not
	// in the registry.
	ErrUnknownModel = errors.New("st7703: unknown panel model")

	// ErrInvalidState is returned when a lifecycle operation is called
	// from a state it is not valid in.
	ErrInvalidState = errors.New("st7703: invalid lifecycle state")
)

// State is the lifecycle state of a panel.
type State int

// Valid State. Transitions only occur along the cycle
// Unprepared → Prepared → Enabled → Prepared → Unprepared; Disable does not
// change the state, it only blanks the electrical output.
const (
	// Unprepared means the panel is unpowered.
	Unprepared State = iota
	// Prepared means power and reset sequencing completed and the bus is
	// usable for commands.
	Prepared
	// Enabled means the init sequence ran and video output is active.
	Enabled
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Unprepared:
		return "unprepared"
	case Prepared:
		return "prepared"
	case Enabled:
		return "enabled"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Opts holds the panel configuration.
type Opts struct {
	// Model selects the panel variant and with it the geometry, the bus
	// configuration and the init sequence.
	Model Model

	// VCC and IOVCC are the supply rails. Either may be nil when the
	// integration does not wire that rail through a controllable supply.
	VCC   Rail
	IOVCC Rail

	// Logger receives diagnostic output. Defaults to a disabled logger.
	Logger *zerolog.Logger
}

// Dev is an open handle to an ST7703 based panel.
//
// Lifecycle calls must be serialized by the caller. The hardware requires
// strictly ordered commands and the driver performs no internal locking;
// concurrent calls from multiple goroutines are undefined.
type Dev struct {
	d     mipidsi.Dev
	model Model
	v     *variant
	pwr   power
	log   zerolog.Logger

	state State
}

// New returns a panel driver for the given model attached to a DSI host.
//
// rst is the panel reset line (RESX); it is owned exclusively by the
// returned Dev. The DSI link is configured for the model's lane count,
// pixel format and mode flags. The panel starts Unprepared.
func New(d mipidsi.Dev, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	v, ok := opts.Model.desc()
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownModel, int(opts.Model))
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	if err := d.Configure(mipidsi.Config{Lanes: v.lanes, Format: v.format, Flags: v.flags}); err != nil {
		return nil, fmt.Errorf("st7703: configuring DSI host: %w", err)
	}
	dev := &Dev{
		d:     d,
		model: opts.Model,
		v:     v,
		pwr:   power{rst: rst, vcc: opts.VCC, iovcc: opts.IOVCC, log: log},
		log:   log,
	}
	log.Info().
		Str("model", opts.Model.String()).
		Str("mode", v.mode.String()).
		Int("bpp", v.format.Bits()).
		Int("lanes", v.lanes).
		Msg("panel ready")
	return dev, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("st7703.Dev{%s, %s}", d.model, d.v.mode.String())
}

// Mode returns the video timing the panel requires.
func (d *Dev) Mode() DisplayMode {
	return d.v.mode
}

// State returns the current lifecycle state.
func (d *Dev) State() State {
	return d.state
}

// Prepare powers the panel up and releases reset, after which the bus is
// usable. It is a no-op when the panel is already prepared: the reset line
// and the rails are not toggled again. On failure the panel stays
// Unprepared and fully unpowered.
func (d *Dev) Prepare() error {
	if d.state != Unprepared {
		return nil
	}
	d.log.Debug().Msg("resetting the panel")
	if err := d.pwr.up(); err != nil {
		return err
	}
	d.state = Prepared
	return nil
}

// Enable transmits the model's init sequence and starts video output. It is
// a no-op when already enabled and fails from Unprepared.
//
// On any failure the state stays Prepared but the partially applied
// register state is not usable; there is no way to undo register writes.
// The recovery path is a full Unprepare/Prepare/Enable cycle, not calling
// Enable again.
func (d *Dev) Enable() error {
	if d.state == Enabled {
		return nil
	}
	if d.state != Prepared {
		return fmt.Errorf("%w: enable from %s", ErrInvalidState, d.state)
	}
	if err := d.d.SetLowPowerMode(true); err != nil {
		return fmt.Errorf("st7703: entering low power mode: %w", err)
	}
	seq := &dsiSequencer{d: d.d, log: d.log}
	d.v.init(seq)
	if seq.err != nil {
		d.log.Error().Err(seq.err).Msg("panel init sequence failed")
		return fmt.Errorf("st7703: init sequence: %w", seq.err)
	}
	time.Sleep(dcsSettle)

	if err := mipidsi.ExitSleepMode(d.d); err != nil {
		return fmt.Errorf("st7703: exiting sleep mode: %w", err)
	}
	// Panel is operational 120 msec after leaving sleep.
	time.Sleep(wakeSettle)

	seq.readRegister(mipidsi.CmdGetDisplayID1)

	if err := mipidsi.SetDisplayOn(d.d); err != nil {
		return fmt.Errorf("st7703: turning display on: %w", err)
	}
	d.state = Enabled
	d.log.Debug().Msg("panel init sequence done")
	return nil
}

// Disable blanks the display output and puts the panel to sleep. Both bus
// commands are best effort during teardown: errors are logged, never
// returned, since failing to blank the screen must not block a power down.
// The lifecycle state is unchanged; call Unprepare to cut power.
func (d *Dev) Disable() error {
	if d.state != Enabled {
		return nil
	}
	if err := mipidsi.SetDisplayOff(d.d); err != nil {
		d.log.Warn().Err(err).Msg("failed to turn off the display")
	}
	if err := mipidsi.EnterSleepMode(d.d); err != nil {
		d.log.Warn().Err(err).Msg("failed to enter sleep mode")
	}
	return nil
}

// Unprepare powers the panel down. The transition to Unprepared always
// happens: a power sequencing failure is returned for logging, but the
// panel never stays stuck in a state the caller believes is torn down.
func (d *Dev) Unprepare() error {
	if d.state == Unprepared {
		return nil
	}
	err := d.pwr.down()
	d.state = Unprepared
	if err != nil {
		d.log.Warn().Err(err).Msg("power down reported failure")
	}
	return err
}

// AllPixelsOn drives the panel's all-pixels-on test pattern for the given
// duration, then power cycles the panel to restore video. The controller
// has no counterpart command that reliably restores the previous state, so
// a full reinitialization is the way back.
func (d *Dev) AllPixelsOn(hold time.Duration) error {
	if d.state != Enabled {
		return fmt.Errorf("%w: all pixels on from %s", ErrInvalidState, d.state)
	}
	d.log.Debug().Dur("hold", hold).Msg("setting all pixels on")
	if err := d.d.GenericWrite([]byte{cmdAllPixelsOn}); err != nil {
		return fmt.Errorf("st7703: all pixels on: %w", err)
	}
	time.Sleep(hold)

	// Reset the panel to get video back.
	if err := d.Disable(); err != nil {
		return err
	}
	if err := d.Unprepare(); err != nil {
		return err
	}
	if err := d.Prepare(); err != nil {
		return err
	}
	return d.Enable()
}

// Halt blanks the panel and powers it down.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	if err := d.Disable(); err != nil {
		return err
	}
	return d.Unprepare()
}

var _ conn.Resource = &Dev{}
