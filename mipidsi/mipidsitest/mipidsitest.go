// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mipidsitest is meant to be used to test drivers over a fake
// MIPI-DSI link.
package mipidsitest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dsidev/panels/mipidsi"
)

// OpKind is the type of a recorded link operation.
type OpKind int

// Valid OpKind.
const (
	OpGenericWrite OpKind = iota
	OpDCSWrite
	OpDCSRead
	OpConfigure
	OpLowPower
)

// String implements fmt.Stringer.
func (k OpKind) String() string {
	switch k {
	case OpGenericWrite:
		return "generic"
	case OpDCSWrite:
		return "dcs"
	case OpDCSRead:
		return "read"
	case OpConfigure:
		return "configure"
	case OpLowPower:
		return "lowpower"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one recorded link operation.
type Op struct {
	Kind OpKind
	// Cmd is the DCS opcode for OpDCSWrite and OpDCSRead.
	Cmd  byte
	Data []byte
}

// String implements fmt.Stringer.
func (o Op) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-9s", o.Kind)
	if o.Kind == OpDCSWrite || o.Kind == OpDCSRead {
		fmt.Fprintf(&b, " %02X", o.Cmd)
	}
	for _, d := range o.Data {
		fmt.Fprintf(&b, " %02X", d)
	}
	return b.String()
}

// Fake implements mipidsi.Dev and records every operation.
//
// Write transactions (generic and DCS) are counted; setting FailAt to n
// makes the n-th write fail with FailErr, for fault injection in sequence
// tests. The failed transaction is still recorded, it reached the wire.
type Fake struct {
	// Ops is every operation in issue order.
	Ops []Op
	// ReadData provides canned replies for DCSRead, keyed by opcode. A
	// missing opcode or a canned reply shorter than requested fails with
	// mipidsi.ErrShortRead.
	ReadData map[byte][]byte
	// FailAt, when non zero, fails the FailAt-th write (1 based).
	FailAt int
	// FailErr is the error returned by the failed write. Defaults to a
	// generic transport error.
	FailErr error

	// Config is the last configuration applied.
	Config mipidsi.Config
	// LowPower is the last low power mode setting applied.
	LowPower bool

	writes int
}

// Writes returns the number of write transactions issued so far.
func (f *Fake) Writes() int {
	return f.writes
}

func (f *Fake) failWrite() error {
	f.writes++
	if f.FailAt != 0 && f.writes == f.FailAt {
		if f.FailErr != nil {
			return f.FailErr
		}
		return errors.New("mipidsitest: injected transport failure")
	}
	return nil
}

// GenericWrite implements mipidsi.Dev.
func (f *Fake) GenericWrite(p []byte) error {
	f.Ops = append(f.Ops, Op{Kind: OpGenericWrite, Data: append([]byte(nil), p...)})
	return f.failWrite()
}

// DCSWrite implements mipidsi.Dev.
func (f *Fake) DCSWrite(cmd byte, p []byte) error {
	f.Ops = append(f.Ops, Op{Kind: OpDCSWrite, Cmd: cmd, Data: append([]byte(nil), p...)})
	return f.failWrite()
}

// DCSRead implements mipidsi.Dev.
func (f *Fake) DCSRead(cmd byte, p []byte) error {
	f.Ops = append(f.Ops, Op{Kind: OpDCSRead, Cmd: cmd})
	d, ok := f.ReadData[cmd]
	if !ok || len(d) < len(p) {
		return fmt.Errorf("%w: register 0x%02X", mipidsi.ErrShortRead, cmd)
	}
	copy(p, d)
	return nil
}

// Configure implements mipidsi.Dev.
func (f *Fake) Configure(c mipidsi.Config) error {
	f.Ops = append(f.Ops, Op{Kind: OpConfigure})
	f.Config = c
	return nil
}

// SetLowPowerMode implements mipidsi.Dev.
func (f *Fake) SetLowPowerMode(on bool) error {
	f.Ops = append(f.Ops, Op{Kind: OpLowPower})
	f.LowPower = on
	return nil
}

var _ mipidsi.Dev = &Fake{}
