// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/driver/driverreg"

	"periph.io/x/sysfsgpio/hwinfo"
	"periph.io/x/sysfsgpio/pinid"
)

// readInt reads a pseudo-file (sysfs) that is known to contain an integer and
// returns the parsed number.
func readInt(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	var b [24]byte
	n, err := f.Read(b[:])
	if err != nil {
		return 0, err
	}
	raw := b[:n]
	if len(raw) == 0 || raw[len(raw)-1] != '\n' {
		return 0, errors.New("invalid value")
	}
	return strconv.Atoi(string(raw[:len(raw)-1]))
}

// parseGPIOChip returns the line range of one gpiochipN directory.
func parseGPIOChip(path string) (pinid.ChipRange, error) {
	base, err := readInt(filepath.Join(path, "base"))
	if err != nil {
		return pinid.ChipRange{}, err
	}
	number, err := readInt(filepath.Join(path, "ngpio"))
	if err != nil {
		return pinid.ChipRange{}, err
	}
	return pinid.ChipRange{Base: base, NGPIO: number}, nil
}

// scanChips lists the line ranges of every GPIO chip under paths.
//
// Some hosts have gaps in their line numbering, so the ranges are kept
// separate.
func scanChips(paths Paths) (pinid.Chips, error) {
	items, err := filepath.Glob(filepath.Join(paths.Root, "gpiochip*"))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.New("no GPIO pin found")
	}
	chips := make(pinid.Chips, 0, len(items))
	for _, item := range items {
		r, err := parseGPIOChip(item)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", item, err)
		}
		for _, o := range chips {
			if r.Base < o.Base+o.NGPIO && o.Base < r.Base+r.NGPIO {
				return nil, fmt.Errorf("found two chips with line %d", r.Base)
			}
		}
		chips = append(chips, r)
	}
	return chips, nil
}

// selectResolver prefers the header layout of a detected Raspberry Pi board.
//
// The header layout is only valid when the SoC lines are numbered from 0,
// which is not the case on kernels that offset the sysfs numbering.
func selectResolver(chips pinid.Chips, cpuinfo string, log *logrus.Entry) pinid.Resolver {
	rev, err := hwinfo.DetectFrom(cpuinfo)
	if err != nil {
		log.WithError(err).Debug("no board revision, using chip ranges")
		return chips
	}
	b, err := pinid.NewBoard(rev)
	if err != nil {
		log.WithError(err).Warn("unknown board revision, using chip ranges")
		return chips
	}
	for _, c := range chips {
		if c.Base == 0 {
			log.WithField("revision", rev.String()).Debug("using board header layout")
			return b
		}
	}
	log.WithField("revision", rev.String()).Warn("board lines are not numbered from 0, using chip ranges")
	return chips
}

// driverGPIO implements periph.Driver.
type driverGPIO struct {
	c *Controller
}

func (d *driverGPIO) String() string {
	return "sysfs-gpio"
}

func (d *driverGPIO) Prerequisites() []string {
	return nil
}

func (d *driverGPIO) After() []string {
	return nil
}

// Init initializes GPIO sysfs handling code.
//
// Uses gpio sysfs as described at
// https://www.kernel.org/doc/Documentation/gpio/sysfs.txt
//
// GPIO sysfs is often the only way to do edge triggered interrupts. Doing this
// requires cooperation from a driver in the kernel.
//
// The main drawback of GPIO sysfs is that it doesn't expose internal pull
// resistor and it is much slower than using memory mapped hardware registers.
func (d *driverGPIO) Init() (bool, error) {
	if !isLinux {
		return false, errors.New("sysfs-gpio is only supported on linux")
	}
	return d.setup(DefaultPaths, hwinfo.CPUInfo, logrus.NewEntry(logrus.StandardLogger()))
}

func (d *driverGPIO) setup(paths Paths, cpuinfo string, log *logrus.Entry) (bool, error) {
	chips, err := scanChips(paths)
	if err != nil {
		return false, err
	}
	f, err := os.OpenFile(paths.Export(), os.O_WRONLY, 0)
	if os.IsPermission(err) {
		return true, fmt.Errorf("need more access, try as root or setup udev rules: %w", err)
	}
	if err != nil {
		return true, err
	}
	_ = f.Close()
	d.c = New(paths, WithResolver(selectResolver(chips, cpuinfo, log)), WithLogger(log))
	return true, nil
}

func init() {
	if isLinux {
		driverreg.MustRegister(&drvGPIO)
	}
}

var drvGPIO driverGPIO
