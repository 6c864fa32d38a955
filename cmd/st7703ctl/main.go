// Copyright 2024 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// st7703ctl exercises the lifecycle of an ST7703 based MIPI-DSI panel.
//
// The DSI link itself is owned by the platform's display pipeline, so the
// tool drives the full power and command sequence against a recording link
// and prints every transaction: the exact bytes and their order, which is
// the part that matters when bringing up a new panel. With -live-pins the
// reset and rail GPIOs are driven for real so the wiring can be probed.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/host/v3"

	"github.com/dsidev/panels/mipidsi"
	"github.com/dsidev/panels/mipidsi/mipidsitest"
	"github.com/dsidev/panels/st7703"
)

// gpioRail adapts a GPIO gated supply to st7703.Rail.
type gpioRail struct {
	pin gpio.PinOut
}

func (r gpioRail) Enable() error {
	return r.pin.Out(gpio.High)
}

func (r gpioRail) Disable() error {
	return r.pin.Out(gpio.Low)
}

func railPin(name string) (st7703.Rail, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("rail pin %q not found", name)
	}
	return gpioRail{pin: p}, nil
}

func listModels() {
	for _, m := range st7703.Models() {
		mode := m.Mode()
		fmt.Printf("%-8s %-22s %-16s clock=%s lanes=4\n",
			m, m.Compatible(), mode.String(), mode.PixelClock)
	}
}

func mainImpl() error {
	confPath := flag.String("config", "", "YAML config file")
	list := flag.Bool("list", false, "list supported panel models and exit")
	compat := flag.String("compatible", "", "devicetree compatible of the panel (overrides config)")
	livePins := flag.Bool("live-pins", false, "drive the reset and rail GPIOs for real")
	allPixels := flag.Bool("allpixelson", false, "run the all-pixels-on diagnostic cycle")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()
	if flag.NArg() != 0 {
		return fmt.Errorf("unexpected argument: %s", flag.Arg(0))
	}

	if *list {
		listModels()
		return nil
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	conf, err := loadConfig(*confPath)
	if err != nil {
		return err
	}
	if *compat != "" {
		conf.Compatible = *compat
	}
	model, err := st7703.ModelByCompatible(conf.Compatible)
	if err != nil {
		return err
	}

	var rst gpio.PinOut = &gpiotest.Pin{N: "RESX"}
	var vcc, iovcc st7703.Rail
	if *livePins {
		if _, err := host.Init(); err != nil {
			return err
		}
		p := gpioreg.ByName(conf.ResetPin)
		if p == nil {
			return fmt.Errorf("reset pin %q not found", conf.ResetPin)
		}
		rst = p
		if vcc, err = railPin(conf.VCCPin); err != nil {
			return err
		}
		if iovcc, err = railPin(conf.IOVCCPin); err != nil {
			return err
		}
	}

	link := &mipidsitest.Fake{
		ReadData: map[byte][]byte{mipidsi.CmdGetDisplayID1: {0x00}},
	}
	dev, err := st7703.New(link, rst, &st7703.Opts{
		Model:  model,
		VCC:    vcc,
		IOVCC:  iovcc,
		Logger: &log,
	})
	if err != nil {
		return err
	}

	if err := dev.Prepare(); err != nil {
		return err
	}
	if err := dev.Enable(); err != nil {
		return err
	}
	if *allPixels {
		if err := dev.AllPixelsOn(time.Duration(conf.HoldSeconds) * time.Second); err != nil {
			return err
		}
	}
	if err := dev.Halt(); err != nil {
		return err
	}

	for _, op := range link.Ops {
		fmt.Println(op)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "st7703ctl: %v.\n", err)
		os.Exit(1)
	}
}
