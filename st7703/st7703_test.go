// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package st7703

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"

	"github.com/dsidev/panels/mipidsi"
	"github.com/dsidev/panels/mipidsi/mipidsitest"
)

// fakeRail records enable/disable into a shared event log so rail and
// reset ordering can be asserted together.
type fakeRail struct {
	name        string
	events      *[]string
	failEnable  bool
	failDisable bool
}

func (r *fakeRail) Enable() error {
	if r.failEnable {
		return errors.New(r.name + " enable failed")
	}
	*r.events = append(*r.events, r.name+" on")
	return nil
}

func (r *fakeRail) Disable() error {
	if r.failDisable {
		return errors.New(r.name + " disable failed")
	}
	*r.events = append(*r.events, r.name+" off")
	return nil
}

// recordingPin is a gpiotest.Pin that also records level changes into the
// shared event log.
type recordingPin struct {
	gpiotest.Pin
	events *[]string
}

func (p *recordingPin) Out(l gpio.Level) error {
	if err := p.Pin.Out(l); err != nil {
		return err
	}
	if l == gpio.Low {
		*p.events = append(*p.events, "reset assert")
	} else {
		*p.events = append(*p.events, "reset deassert")
	}
	return nil
}

// testVariant issues exactly 3 generic writes and 2 DCS writes.
func testVariant() *variant {
	return &variant{
		compatible: "test,panel",
		mode: DisplayMode{
			PixelClock: 9 * physic.MegaHertz,
			HActive:    240, HFrontPorch: 10, HSyncLen: 10, HBackPorch: 10,
			VActive: 320, VFrontPorch: 8, VSyncLen: 4, VBackPorch: 8,
		},
		lanes:  2,
		format: mipidsi.RGB888,
		flags:  mipidsi.ModeVideo,
		init: func(s sequencer) {
			s.genericWrite(cmdSetEXTC, 0xF1, 0x12, 0x83)
			s.genericWrite(cmdSetCyc, 0x80)
			s.genericWrite(cmdSetBGP, 0x08, 0x08)
			s.dcsWrite(cmdSetVDC, 0x4E)
			s.dcsWrite(cmdSetPanel, 0x0B)
		},
	}
}

func newTestDev(f *mipidsitest.Fake, events *[]string, vcc, iovcc Rail) *Dev {
	return &Dev{
		d:     f,
		model: JH057N,
		v:     testVariant(),
		pwr: power{
			rst:   &recordingPin{events: events},
			vcc:   vcc,
			iovcc: iovcc,
			log:   zerolog.Nop(),
		},
		log: zerolog.Nop(),
	}
}

func writeOps(ops []mipidsitest.Op) []mipidsitest.Op {
	var out []mipidsitest.Op
	for _, o := range ops {
		if o.Kind == mipidsitest.OpGenericWrite || o.Kind == mipidsitest.OpDCSWrite {
			out = append(out, o)
		}
	}
	return out
}

func TestLifecycle(t *testing.T) {
	var events []string
	f := &mipidsitest.Fake{ReadData: map[byte][]byte{mipidsi.CmdGetDisplayID1: {0x38}}}
	vcc := &fakeRail{name: "vcc", events: &events}
	iovcc := &fakeRail{name: "iovcc", events: &events}
	d := newTestDev(f, &events, vcc, iovcc)

	if got := d.State(); got != Unprepared {
		t.Fatalf("State() = %s, want %s", got, Unprepared)
	}

	if err := d.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if got := d.State(); got != Prepared {
		t.Fatalf("State() after Prepare = %s, want %s", got, Prepared)
	}
	wantEvents := []string{"reset assert", "vcc on", "iovcc on", "reset deassert"}
	if diff := cmp.Diff(events, wantEvents); diff != "" {
		t.Errorf("power up events difference (-got +want):\n%s", diff)
	}

	if err := d.Enable(); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	if got := d.State(); got != Enabled {
		t.Fatalf("State() after Enable = %s, want %s", got, Enabled)
	}
	wantOps := []mipidsitest.Op{
		{Kind: mipidsitest.OpLowPower},
		{Kind: mipidsitest.OpGenericWrite, Data: []byte{cmdSetEXTC, 0xF1, 0x12, 0x83}},
		{Kind: mipidsitest.OpGenericWrite, Data: []byte{cmdSetCyc, 0x80}},
		{Kind: mipidsitest.OpGenericWrite, Data: []byte{cmdSetBGP, 0x08, 0x08}},
		{Kind: mipidsitest.OpDCSWrite, Cmd: cmdSetVDC, Data: []byte{0x4E}},
		{Kind: mipidsitest.OpDCSWrite, Cmd: cmdSetPanel, Data: []byte{0x0B}},
		{Kind: mipidsitest.OpDCSWrite, Cmd: mipidsi.CmdExitSleepMode},
		{Kind: mipidsitest.OpDCSRead, Cmd: mipidsi.CmdGetDisplayID1},
		{Kind: mipidsitest.OpDCSWrite, Cmd: mipidsi.CmdSetDisplayOn},
	}
	if diff := cmp.Diff(f.Ops, wantOps, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("enable ops difference (-got +want):\n%s", diff)
	}

	if err := d.Disable(); err != nil {
		t.Fatalf("Disable() failed: %v", err)
	}
	if got := d.State(); got != Enabled {
		t.Errorf("State() after Disable = %s, want %s (Disable only blanks output)", got, Enabled)
	}
	wantOps = append(wantOps,
		mipidsitest.Op{Kind: mipidsitest.OpDCSWrite, Cmd: mipidsi.CmdSetDisplayOff},
		mipidsitest.Op{Kind: mipidsitest.OpDCSWrite, Cmd: mipidsi.CmdEnterSleepMode},
	)
	if diff := cmp.Diff(f.Ops, wantOps, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("disable ops difference (-got +want):\n%s", diff)
	}

	if err := d.Unprepare(); err != nil {
		t.Fatalf("Unprepare() failed: %v", err)
	}
	if got := d.State(); got != Unprepared {
		t.Fatalf("State() after Unprepare = %s, want %s", got, Unprepared)
	}
	wantEvents = append(wantEvents, "reset assert", "iovcc off", "vcc off")
	if diff := cmp.Diff(events, wantEvents); diff != "" {
		t.Errorf("power down events difference (-got +want):\n%s", diff)
	}
}

func TestPrepareIdempotent(t *testing.T) {
	var events []string
	f := &mipidsitest.Fake{}
	vcc := &fakeRail{name: "vcc", events: &events}
	d := newTestDev(f, &events, vcc, nil)

	if err := d.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	n := len(events)
	if err := d.Prepare(); err != nil {
		t.Fatalf("second Prepare() failed: %v", err)
	}
	if len(events) != n {
		t.Errorf("second Prepare() touched the hardware: events %v", events[n:])
	}
}

func TestPrepareRollback(t *testing.T) {
	var events []string
	f := &mipidsitest.Fake{}
	vcc := &fakeRail{name: "vcc", events: &events}
	iovcc := &fakeRail{name: "iovcc", events: &events, failEnable: true}
	d := newTestDev(f, &events, vcc, iovcc)

	if err := d.Prepare(); err == nil {
		t.Fatal("Prepare() succeeded with failing iovcc")
	}
	if got := d.State(); got != Unprepared {
		t.Errorf("State() = %s, want %s", got, Unprepared)
	}
	want := []string{"reset assert", "vcc on", "vcc off"}
	if diff := cmp.Diff(events, want); diff != "" {
		t.Errorf("rollback events difference (-got +want):\n%s", diff)
	}
}

func TestUnprepareUnconditional(t *testing.T) {
	var events []string
	f := &mipidsitest.Fake{}
	vcc := &fakeRail{name: "vcc", events: &events, failDisable: true}
	d := newTestDev(f, &events, vcc, nil)

	if err := d.Unprepare(); err != nil {
		t.Fatalf("Unprepare() from Unprepared failed: %v", err)
	}

	if err := d.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if err := d.Unprepare(); err == nil {
		t.Fatal("Unprepare() succeeded with failing vcc")
	}
	if got := d.State(); got != Unprepared {
		t.Errorf("State() = %s, want %s (teardown is unconditional)", got, Unprepared)
	}
}

func TestEnableFaultInjection(t *testing.T) {
	var events []string
	f := &mipidsitest.Fake{FailAt: 3}
	d := newTestDev(f, &events, nil, nil)

	if err := d.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if err := d.Enable(); err == nil {
		t.Fatal("Enable() succeeded with a failing codec")
	}
	if got := d.State(); got != Prepared {
		t.Errorf("State() = %s, want %s", got, Prepared)
	}
	// The third write failed on the wire; nothing after it may be issued.
	if got := len(writeOps(f.Ops)); got != 3 {
		t.Errorf("write transactions = %d, want 3", got)
	}
	for _, o := range f.Ops {
		if o.Kind == mipidsitest.OpDCSWrite && o.Cmd == mipidsi.CmdExitSleepMode {
			t.Error("exit sleep issued after a failed init sequence")
		}
	}
}

func TestEnableFromUnprepared(t *testing.T) {
	var events []string
	d := newTestDev(&mipidsitest.Fake{}, &events, nil, nil)

	if err := d.Enable(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Enable() error = %v, want ErrInvalidState", err)
	}
}

func TestAllPixelsOn(t *testing.T) {
	var events []string
	f := &mipidsitest.Fake{}
	vcc := &fakeRail{name: "vcc", events: &events}
	d := newTestDev(f, &events, vcc, nil)

	if err := d.AllPixelsOn(0); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("AllPixelsOn() from Unprepared error = %v, want ErrInvalidState", err)
	}

	if err := d.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if err := d.Enable(); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	f.Ops = nil
	events = nil

	if err := d.AllPixelsOn(10 * time.Millisecond); err != nil {
		t.Fatalf("AllPixelsOn() failed: %v", err)
	}
	if got := d.State(); got != Enabled {
		t.Errorf("State() = %s, want %s", got, Enabled)
	}

	// Pattern command first, then blanking, then the full reinit ending in
	// display on.
	first := f.Ops[0]
	if first.Kind != mipidsitest.OpGenericWrite || len(first.Data) != 1 || first.Data[0] != cmdAllPixelsOn {
		t.Errorf("first op = %s, want the all-pixels-on command", first)
	}
	last := f.Ops[len(f.Ops)-1]
	if last.Kind != mipidsitest.OpDCSWrite || last.Cmd != mipidsi.CmdSetDisplayOn {
		t.Errorf("last op = %s, want display on", last)
	}
	wantEvents := []string{
		"reset assert", "vcc off",
		"reset assert", "vcc on", "reset deassert",
	}
	if diff := cmp.Diff(events, wantEvents); diff != "" {
		t.Errorf("power cycle events difference (-got +want):\n%s", diff)
	}
}

func TestHalt(t *testing.T) {
	var events []string
	f := &mipidsitest.Fake{}
	d := newTestDev(f, &events, nil, nil)

	if err := d.Prepare(); err != nil {
		t.Fatalf("Prepare() failed: %v", err)
	}
	if err := d.Enable(); err != nil {
		t.Fatalf("Enable() failed: %v", err)
	}
	if err := d.Halt(); err != nil {
		t.Fatalf("Halt() failed: %v", err)
	}
	if got := d.State(); got != Unprepared {
		t.Errorf("State() after Halt = %s, want %s", got, Unprepared)
	}
}

func TestNew(t *testing.T) {
	f := &mipidsitest.Fake{}
	d, err := New(f, &gpiotest.Pin{N: "RESX"}, &Opts{Model: JH057N})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	wantConfig := mipidsi.Config{
		Lanes:  4,
		Format: mipidsi.RGB888,
		Flags:  mipidsi.ModeVideo | mipidsi.ModeVideoBurst | mipidsi.ModeVideoSyncPulse,
	}
	if diff := cmp.Diff(f.Config, wantConfig); diff != "" {
		t.Errorf("bus config difference (-got +want):\n%s", diff)
	}
	if got, want := d.String(), "st7703.Dev{JH057N, 720x1440@60Hz}"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got := d.Mode().HActive; got != 720 {
		t.Errorf("Mode().HActive = %d, want 720", got)
	}
	if got := d.State(); got != Unprepared {
		t.Errorf("State() = %s, want %s", got, Unprepared)
	}
}

func TestNewUnknownModel(t *testing.T) {
	if _, err := New(&mipidsitest.Fake{}, &gpiotest.Pin{}, &Opts{Model: Model(42)}); !errors.Is(err, ErrUnknownModel) {
		t.Errorf("New() error = %v, want ErrUnknownModel", err)
	}
}
