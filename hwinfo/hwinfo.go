// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hwinfo reads the Raspberry Pi board revision from /proc/cpuinfo.
//
// Nothing is cached: callers detect the revision once and pass it along.
package hwinfo

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"periph.io/x/sysfsgpio/pinid"
)

// ErrNoRevision is returned when cpuinfo has no usable Revision field, which
// is the case on anything that is not a Raspberry Pi.
var ErrNoRevision = errors.New("hwinfo: no Revision field in cpuinfo")

// CPUInfo is where the kernel reports the board revision.
const CPUInfo = "/proc/cpuinfo"

// newStyle is set in revision codes of boards released from the Pi 2 onward.
const newStyle = 1 << 23

// ParseRevision extracts the raw hexadecimal Revision value from cpuinfo
// formatted text.
func ParseRevision(r io.Reader) (uint32, error) {
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		i := strings.Index(line, ":")
		if i < 0 {
			continue
		}
		if strings.TrimSpace(line[:i]) != "Revision" {
			continue
		}
		v, err := strconv.ParseUint(strings.TrimSpace(line[i+1:]), 16, 32)
		if err != nil {
			return 0, fmt.Errorf("hwinfo: invalid Revision %q: %w", line[i+1:], err)
		}
		return uint32(v), nil
	}
	if err := s.Err(); err != nil {
		return 0, err
	}
	return 0, ErrNoRevision
}

// MajorRevision maps a raw revision code to the board generation:
//
//	1: raw 1..3, original model A and B
//	2: raw 4..15, model A and B with the rev 2 P1 layout
//	3: raw 0x10 and 0x12, B+ and A+
//	4: raw 0x11, compute module
//	5: everything newer
//
// The overvolt (warranty) bit of old style codes is ignored. Zero is
// returned for a raw value of zero.
func MajorRevision(raw uint32) int {
	if raw&newStyle != 0 {
		return 5
	}
	raw &= 0xFFFF
	switch {
	case raw == 0:
		return 0
	case raw <= 3:
		return 1
	case raw <= 0xF:
		return 2
	case raw == 0x10 || raw == 0x12:
		return 3
	case raw == 0x11:
		return 4
	default:
		return 5
	}
}

// GPIORevision maps a raw revision code to the GPIO layout generation.
func GPIORevision(raw uint32) (pinid.Revision, error) {
	switch m := MajorRevision(raw); m {
	case 0:
		return 0, ErrNoRevision
	case 5:
		return pinid.Rev3, nil
	default:
		return pinid.Revision(m), nil
	}
}

// Detect reads CPUInfo and returns the GPIO revision of the board.
func Detect() (pinid.Revision, error) {
	return DetectFrom(CPUInfo)
}

// DetectFrom is Detect with an explicit cpuinfo path.
func DetectFrom(path string) (pinid.Revision, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	raw, err := ParseRevision(f)
	if err != nil {
		return 0, err
	}
	return GPIORevision(raw)
}
