// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pinid

import "strconv"

// Revision is the GPIO layout generation of a Raspberry Pi board. It differs
// from the board revision reported in /proc/cpuinfo: several board revisions
// share a GPIO layout.
type Revision int

const (
	// Rev1 is the original model A/B with a 26 pin P1 header.
	Rev1 Revision = 1
	// Rev2 changes a few P1 assignments and adds the P5 header.
	Rev2 Revision = 2
	// Rev3 is the 40 pin J8 header of the B+, A+ and later boards.
	Rev3 Revision = 3
	// ComputeModule has no header of its own; every SoC line is usable.
	ComputeModule Revision = 4
)

func (r Revision) String() string {
	switch r {
	case Rev1:
		return "rev1"
	case Rev2:
		return "rev2"
	case Rev3:
		return "rev3"
	case ComputeModule:
		return "compute-module"
	default:
		return "Revision(" + strconv.Itoa(int(r)) + ")"
	}
}

// HeaderPin is a physical pin number on the main header, starting at 1.
type HeaderPin int

// Named header pins. They are at the same physical position on every
// revision; the line behind them may differ.
const (
	SDA0     HeaderPin = 3
	SCL0     HeaderPin = 5
	GPIOGCLK HeaderPin = 7
	TXD0     HeaderPin = 8
	RXD0     HeaderPin = 10
	GPIOGEN0 HeaderPin = 11
	GPIOGEN1 HeaderPin = 12
	GPIOGEN2 HeaderPin = 13
	GPIOGEN3 HeaderPin = 15
	GPIOGEN4 HeaderPin = 16
	GPIOGEN5 HeaderPin = 18
	SPIMOSI  HeaderPin = 19
	SPIMISO  HeaderPin = 21
	GPIOGEN6 HeaderPin = 22
	SPISCLK  HeaderPin = 23
	SPICE0N  HeaderPin = 24
	SPICE1N  HeaderPin = 26
)

// Header tables are indexed by physical pin; -1 is power, ground or not
// connected. Index 0 is unused.
var (
	p1Rev1 = [27]int{
		-1,
		-1, -1, 0, -1, 1, -1, 4, 14, -1, 15,
		17, 18, 21, -1, 22, 23, -1, 24, 10, -1,
		9, 25, 11, 8, -1, 7,
	}
	p1Rev2 = [27]int{
		-1,
		-1, -1, 2, -1, 3, -1, 4, 14, -1, 15,
		17, 18, 27, -1, 22, 23, -1, 24, 10, -1,
		9, 25, 11, 8, -1, 7,
	}
	j8 = [41]int{
		-1,
		-1, -1, 2, -1, 3, -1, 4, 14, -1, 15,
		17, 18, 27, -1, 22, 23, -1, 24, 10, -1,
		9, 25, 11, 8, -1, 7, 0, 1, 5, -1,
		6, 12, 13, -1, 19, 16, 26, 20, -1, 21,
	}
	// P5 was only fitted on rev2 boards.
	p5Rev2 = []int{28, 29, 30, 31}
)
