// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

var (
	// ErrInvalid is returned when an id is not a valid GPIO line on this
	// system.
	ErrInvalid = errors.New("invalid GPIO pin id value for this system")
	// ErrRevisionInvalid is returned for an unknown board GPIO revision.
	ErrRevisionInvalid = errors.New("invalid Raspberry Pi GPIO revision value")
)

// LineID is a validated GPIO line number, as used by the kernel gpiolib and
// the sysfs GPIO tree.
//
// It can only be obtained from a Resolver.
type LineID int

// String returns the decimal form written to the sysfs export files.
func (l LineID) String() string {
	return strconv.Itoa(int(l))
}

// Resolver validates a raw line number and returns the canonical LineID.
type Resolver interface {
	Resolve(id int) (LineID, error)
}

// Validator is a predicate usable as a Resolver.
type Validator func(id int) bool

// Resolve implements Resolver.
func (v Validator) Resolve(id int) (LineID, error) {
	if !v(id) {
		return 0, fmt.Errorf("%w: %d", ErrInvalid, id)
	}
	return LineID(id), nil
}

// numChipLines is the number of GPIO lines of the BCM2835 family.
const numChipLines = 54

// AllChip accepts every line of the BCM2835 SoC, whether or not it is routed
// to a header.
func AllChip() Resolver {
	return Validator(func(id int) bool {
		return id >= 0 && id < numChipLines
	})
}

// ChipRange is a contiguous block of lines exposed by one gpiochip.
type ChipRange struct {
	Base  int
	NGPIO int
}

// Chips accepts any line that falls within one of the chip ranges.
//
// It is the generic resolver for boards without a header table.
type Chips []ChipRange

// Resolve implements Resolver.
func (c Chips) Resolve(id int) (LineID, error) {
	for _, r := range c {
		if id >= r.Base && id < r.Base+r.NGPIO {
			return LineID(id), nil
		}
	}
	return 0, fmt.Errorf("%w: %d", ErrInvalid, id)
}

// Board resolves ids against the lines routed to the user headers of one
// Raspberry Pi GPIO revision.
type Board struct {
	rev    Revision
	header []int
	ids    map[int]struct{}
}

// NewBoard returns the resolver for a GPIO revision.
//
// The revision is usually found with hwinfo.Detect. There is no process-wide
// default; callers keep the Board they need.
func NewBoard(rev Revision) (*Board, error) {
	b := &Board{rev: rev, ids: map[int]struct{}{}}
	switch rev {
	case Rev1:
		b.header = p1Rev1[:]
	case Rev2:
		b.header = p1Rev2[:]
		for _, id := range p5Rev2 {
			b.ids[id] = struct{}{}
		}
	case Rev3:
		b.header = j8[:]
	case ComputeModule:
		for id := 0; id < numChipLines; id++ {
			b.ids[id] = struct{}{}
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrRevisionInvalid, int(rev))
	}
	for _, id := range b.header {
		if id >= 0 {
			b.ids[id] = struct{}{}
		}
	}
	return b, nil
}

// Revision returns the GPIO revision the Board was built for.
func (b *Board) Revision() Revision {
	return b.rev
}

// Resolve implements Resolver.
func (b *Board) Resolve(id int) (LineID, error) {
	if _, ok := b.ids[id]; !ok {
		return 0, fmt.Errorf("%w: %d (%s)", ErrInvalid, id, b.rev)
	}
	return LineID(id), nil
}

// IDs returns the valid line numbers in ascending order.
func (b *Board) IDs() []int {
	out := make([]int, 0, len(b.ids))
	for id := range b.ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// HeaderPin returns the line routed to a physical pin of the main header (P1
// on 26 pin boards, J8 on 40 pin boards).
//
// Power, ground and unconnected pins return ErrInvalid.
func (b *Board) HeaderPin(pin HeaderPin) (LineID, error) {
	if int(pin) < 1 || int(pin) >= len(b.header) || b.header[pin] < 0 {
		return 0, fmt.Errorf("%w: header pin %d (%s)", ErrInvalid, int(pin), b.rev)
	}
	return LineID(b.header[pin]), nil
}

var _ Resolver = &Board{}
var _ Resolver = Chips{}
var _ Resolver = Validator(nil)
