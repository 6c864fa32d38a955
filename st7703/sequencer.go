// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7703

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dsidev/panels/mipidsi"
)

const (
	// dcsSettle is the wait after every DCS write before the next command
	// may be issued; the controller needs it to commit the command.
	dcsSettle = 20 * time.Millisecond
	// wakeSettle is how long the panel takes to become operational after
	// leaving sleep or reset.
	wakeSettle = 120 * time.Millisecond
)

// sequencer is the capability set available to a variant initialization
// sequence.
type sequencer interface {
	genericWrite(data ...byte)
	dcsWrite(cmd byte, data ...byte)
	sleep(d time.Duration)
	readRegister(cmd byte)
}

// dsiSequencer drives a mipidsi.Dev, latching the first transport error.
// Once a write fails, every later call is skipped: the panel register state
// is already indeterminate and the only recovery is a full reset cycle.
type dsiSequencer struct {
	d   mipidsi.Dev
	log zerolog.Logger
	err error
}

func (s *dsiSequencer) genericWrite(data ...byte) {
	if s.err != nil {
		return
	}
	if err := s.d.GenericWrite(data); err != nil {
		s.err = fmt.Errorf("generic write 0x%02X: %w", data[0], err)
	}
}

func (s *dsiSequencer) dcsWrite(cmd byte, data ...byte) {
	if s.err != nil {
		return
	}
	err := s.d.DCSWrite(cmd, data)
	time.Sleep(dcsSettle)
	if err != nil {
		s.err = fmt.Errorf("dcs write 0x%02X: %w", cmd, err)
	}
}

func (s *dsiSequencer) sleep(d time.Duration) {
	if s.err != nil {
		return
	}
	time.Sleep(d)
}

// readRegister probes a register for logging only. The reply bytes are
// undocumented and opaque; a failed read never aborts the sequence.
func (s *dsiSequencer) readRegister(cmd byte) {
	if s.err != nil {
		return
	}
	var buf [1]byte
	if err := s.d.DCSRead(cmd, buf[:]); err != nil {
		s.log.Debug().Err(err).Uint8("reg", cmd).Msg("register read failed")
		return
	}
	s.log.Debug().Uint8("reg", cmd).Uint8("value", buf[0]).Msg("register read")
}
