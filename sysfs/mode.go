// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// Direction is the data direction of a line.
type Direction int

const (
	// In is the read direction, 'r' in a mode string.
	In Direction = 0
	// Out is the write direction, 'w' in a mode string.
	Out Direction = 1
)

// String returns the value written to the direction file.
func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// Format selects how a group presents its values.
type Format int

const (
	// Word packs member k into bit k of an integer; 'I' in a mode string.
	Word Format = 0
	// List presents one level per member; 'S' in a mode string.
	List Format = 1
)

func (f Format) String() string {
	if f == List {
		return "list"
	}
	return "word"
}

// PinMode is a validated single line open mode.
type PinMode struct {
	Direction Direction
	Edge      gpio.Edge
}

// String returns the canonical two character mode string.
func (m PinMode) String() string {
	d := byte('r')
	if m.Direction == Out {
		d = 'w'
	}
	return string([]byte{d, edgeChars[m.Edge]})
}

// GroupMode is a validated group open mode.
type GroupMode struct {
	PinMode
	Format Format
}

// String returns the canonical three character mode string.
func (m GroupMode) String() string {
	f := "I"
	if m.Format == List {
		f = "S"
	}
	return m.PinMode.String() + f
}

// ParsePinMode parses a single line mode string, [r|w][N|R|F|B].
//
// The empty string is "rN". Only 'N' is accepted with 'w'.
func ParsePinMode(s string) (PinMode, error) {
	m := PinMode{Direction: In, Edge: gpio.NoEdge}
	if len(s) >= 1 {
		var err error
		if m.Direction, err = parseDirection(s[0]); err != nil {
			return PinMode{}, modeError(s, err)
		}
		switch {
		case len(s) == 2:
			if m.Edge, err = parseEdge(s[1]); err != nil {
				return PinMode{}, modeError(s, err)
			}
		case len(s) > 2:
			return PinMode{}, modeError(s, ErrPinOpenModeInvalid)
		}
	}
	if err := m.validate(); err != nil {
		return PinMode{}, modeError(s, err)
	}
	return m, nil
}

// ParseGroupMode parses a group mode string, [r|w][N|R|F|B]?[I|S]?.
//
// The empty string is "rNI". A two character string is first tried as
// direction and wait mode, then as direction and format.
func ParseGroupMode(s string) (GroupMode, error) {
	m := GroupMode{PinMode: PinMode{Direction: In, Edge: gpio.NoEdge}, Format: Word}
	if len(s) >= 1 {
		var err error
		if m.Direction, err = parseDirection(s[0]); err != nil {
			return GroupMode{}, modeError(s, err)
		}
		switch {
		case len(s) == 3:
			if m.Edge, err = parseEdge(s[1]); err != nil {
				return GroupMode{}, modeError(s, err)
			}
			if m.Format, err = parseFormat(s[2]); err != nil {
				return GroupMode{}, modeError(s, err)
			}
		case len(s) == 2:
			if e, err := parseEdge(s[1]); err == nil {
				m.Edge = e
			} else if f, err := parseFormat(s[1]); err == nil {
				m.Format = f
			} else {
				return GroupMode{}, modeError(s, ErrPinGroupOpenModeInvalid)
			}
		case len(s) > 3:
			return GroupMode{}, modeError(s, ErrPinGroupOpenModeInvalid)
		}
	}
	if err := m.validate(); err != nil {
		return GroupMode{}, modeError(s, err)
	}
	return m, nil
}

// validate rejects edge detection on outputs; it makes no sense to wait on
// a line the process drives itself.
func (m PinMode) validate() error {
	if m.Direction == Out && m.Edge != gpio.NoEdge {
		return ErrPinWaitModeInvalid
	}
	return nil
}

//

var edgeChars = map[gpio.Edge]byte{
	gpio.NoEdge:      'N',
	gpio.RisingEdge:  'R',
	gpio.FallingEdge: 'F',
	gpio.BothEdges:   'B',
}

func parseDirection(c byte) (Direction, error) {
	switch c {
	case 'r':
		return In, nil
	case 'w':
		return Out, nil
	}
	return In, ErrPinDirectionModeInvalid
}

func parseEdge(c byte) (gpio.Edge, error) {
	switch c {
	case 'N':
		return gpio.NoEdge, nil
	case 'R':
		return gpio.RisingEdge, nil
	case 'F':
		return gpio.FallingEdge, nil
	case 'B':
		return gpio.BothEdges, nil
	}
	return gpio.NoEdge, ErrPinWaitModeInvalid
}

func parseFormat(c byte) (Format, error) {
	switch c {
	case 'I':
		return Word, nil
	case 'S':
		return List, nil
	}
	return Word, ErrPinGroupFormatModeInvalid
}

// edgeValue returns the value written to the edge file.
func edgeValue(e gpio.Edge) []byte {
	switch e {
	case gpio.RisingEdge:
		return bRising
	case gpio.FallingEdge:
		return bFalling
	case gpio.BothEdges:
		return bBoth
	default:
		return bNone
	}
}

func directionValue(d Direction) []byte {
	if d == Out {
		return bOut
	}
	return bIn
}

func modeError(s string, err error) error {
	return fmt.Errorf("sysfs-gpio: mode %q: %w", s, err)
}

var (
	bIn      = []byte("in")
	bOut     = []byte("out")
	bNone    = []byte("none")
	bRising  = []byte("rising")
	bFalling = []byte("falling")
	bBoth    = []byte("both")
)
