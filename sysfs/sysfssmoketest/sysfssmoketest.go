// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfssmoketest verifies that GPIO sysfs pins and pin groups work as
// expected on real hardware.
//
// It requires two lines wired together: one is driven as an output, the other
// is read back as an input.
package sysfssmoketest

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"

	"periph.io/x/sysfsgpio/sysfs"
)

// SmokeTest is run by gpio-sysfs smoketest.
type SmokeTest struct {
	// C is the controller to test. Defaults to sysfs.Default().
	C *sysfs.Controller
}

// Name implements the SmokeTest interface.
func (s *SmokeTest) Name() string {
	return "sysfs-gpio"
}

// Description implements the SmokeTest interface.
func (s *SmokeTest) Description() string {
	return "Tests GPIO sysfs pins and pin groups with two lines wired together"
}

// Run implements the SmokeTest interface.
func (s *SmokeTest) Run(f *flag.FlagSet, args []string) (err error) {
	out := f.Int("out", -1, "line driven as an output")
	in := f.Int("in", -1, "line read back as an input, wired to -out")
	if err := f.Parse(args); err != nil {
		return err
	}
	if f.NArg() != 0 {
		f.Usage()
		return errors.New("unrecognized arguments")
	}
	if *out < 0 || *in < 0 {
		return errors.New("-out and -in are required")
	}
	if *out == *in {
		return errors.New("-out and -in must be different lines")
	}
	c := s.C
	if c == nil {
		if c = sysfs.Default(); c == nil {
			return errors.New("sysfs gpio is not initialized")
		}
	}
	for _, id := range []int{*out, *in} {
		if ok, err := c.Exported(id); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("line %d is already exported; free it first", id)
		}
	}
	if err := gpioTest(c, *out, *in); err != nil {
		return err
	}
	if err := edgeTest(c, *out, *in); err != nil {
		return err
	}
	if err := groupTest(c, *out, *in); err != nil {
		return err
	}
	return gpioPerfTest(c, *out, *in)
}

// gpioTest ensures connectivity works.
func gpioTest(c *sysfs.Controller, out, in int) error {
	w, err := c.OpenWriter(out)
	if err != nil {
		return err
	}
	defer w.Close()
	r, err := c.OpenReader(in)
	if err != nil {
		return err
	}
	defer r.Close()
	fmt.Printf("  GPIO functionality on %s and %s:\n", w, r)
	p1 := &loggingIn{r}
	p2 := &loggingOut{w}
	for _, l := range []gpio.Level{gpio.Low, gpio.High, gpio.Low} {
		if err := p2.Out(l); err != nil {
			return err
		}
		// There can be a small amount of skew. This should inject just enough time.
		time.Sleep(10 * time.Microsecond)
		got, err := p1.Read()
		if err != nil {
			return err
		}
		if got != l {
			return fmt.Errorf("%s: expected to read %s but got %s", r, l, got)
		}
	}
	return nil
}

// edgeTest ensures edges are reported and reset.
func edgeTest(c *sysfs.Controller, out, in int) error {
	w, err := c.OpenWriter(out)
	if err != nil {
		return err
	}
	defer w.Close()
	r, err := c.OpenWaitableReader(in, gpio.BothEdges)
	if err != nil {
		return err
	}
	defer r.Close()
	fmt.Printf("  Edge detection on %s:\n", r)
	if err := w.Out(gpio.Low); err != nil {
		return err
	}
	// The initial state is reported as an edge; consume it.
	if _, err := r.Wait(0); err != nil {
		return err
	}
	if err := r.Reset(); err != nil {
		return err
	}
	if ok, err := r.Wait(10 * time.Millisecond); err != nil {
		return err
	} else if ok {
		return fmt.Errorf("%s: unexpected edge without a transition", r)
	}
	for _, l := range []gpio.Level{gpio.High, gpio.Low} {
		if err := w.Out(l); err != nil {
			return err
		}
		start := time.Now()
		ok, err := r.Wait(time.Second)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%s: no edge after writing %s", r, l)
		}
		got, err := r.Read()
		if err != nil {
			return err
		}
		if err := r.Reset(); err != nil {
			return err
		}
		fmt.Printf("    %s edge to %s\n", time.Since(start), got)
		if got != l {
			return fmt.Errorf("%s: expected to read %s but got %s", r, l, got)
		}
	}
	return nil
}

// groupTest ensures single line groups round trip words and lists.
func groupTest(c *sysfs.Controller, out, in int) error {
	wg, err := c.OpenPinGroup([]int{out}, "wI")
	if err != nil {
		return err
	}
	defer wg.Close()
	rg, err := c.OpenPinGroup([]int{in}, "rS")
	if err != nil {
		return err
	}
	defer rg.Close()
	fmt.Printf("  Groups %s and %s:\n", wg, rg)
	w := wg.(*sysfs.WordWriter)
	r := rg.(*sysfs.ListReader)
	for _, v := range []uint64{1, 0, 1, 1, 0} {
		if err := w.Out(v); err != nil {
			return err
		}
		time.Sleep(10 * time.Microsecond)
		got, err := r.Read()
		if err != nil {
			return err
		}
		fmt.Printf("    wrote %d read %v\n", v, got)
		if got[0] != (v == 1) {
			return fmt.Errorf("%s: expected to read %d but got %v", rg, v, got)
		}
	}
	return nil
}

// gpioPerfTest reads and write in a tight loop to evaluate performance.
//
// It doesn't evaluate correctness.
func gpioPerfTest(c *sysfs.Controller, out, in int) error {
	w, err := c.OpenWriter(out)
	if err != nil {
		return err
	}
	defer w.Close()
	r, err := c.OpenReader(in)
	if err != nil {
		return err
	}
	defer r.Close()
	fmt.Printf("  GPIO performance on %s and %s:\n", w, r)
	const loops = 1000
	fmt.Printf("    %d reads:  ", loops)
	start := time.Now()
	for i := 0; i < loops; i++ {
		if _, err := r.Read(); err != nil {
			return err
		}
	}
	s := time.Since(start)
	fmt.Printf("%s; %s/op\n", s, s/loops)
	fmt.Printf("    %d writes: ", loops)
	start = time.Now()
	for i := 0; i < loops; i++ {
		if err := w.Out(i&1 == 0); err != nil {
			return err
		}
	}
	s = time.Since(start)
	fmt.Printf("%s; %s/op\n", s, s/loops)
	return nil
}

// loggingIn logs each read.
type loggingIn struct {
	sysfs.PinIn
}

func (p *loggingIn) Read() (gpio.Level, error) {
	start := time.Now()
	l, err := p.PinIn.Read()
	if err != nil {
		fmt.Printf("    %s %s.Read() = %v\n", time.Since(start), p, err)
		return l, err
	}
	fmt.Printf("    %s %s.Read() = %s\n", time.Since(start), p, l)
	return l, nil
}

// loggingOut logs each write.
type loggingOut struct {
	sysfs.PinOut
}

func (p *loggingOut) Out(l gpio.Level) error {
	start := time.Now()
	if err := p.PinOut.Out(l); err != nil {
		fmt.Printf("    %s %s.Out(%s) = %v\n", time.Since(start), p, l, err)
		return err
	}
	fmt.Printf("    %s %s.Out(%s)\n", time.Since(start), p, l)
	return nil
}
