// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// maxWordLen is the widest word group.
const maxWordLen = 64

// group is an ordered set of lines opened with the same mode. Member k is
// bit k of a word and index k of a list.
type group struct {
	c     *Controller
	lines []*line
}

// openGroup claims every line or none.
func (c *Controller) openGroup(ids []int, m GroupMode) (*group, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("sysfs-gpio: %w", ErrPinGroupIDsInvalid)
	}
	if m.Format == Word && len(ids) > maxWordLen {
		return nil, fmt.Errorf("sysfs-gpio: %d lines, at most %d in a word: %w", len(ids), maxWordLen, ErrPinGroupIDsInvalid)
	}
	g := &group{c: c, lines: make([]*line, 0, len(ids))}
	for _, id := range ids {
		l, err := c.claim(id, m.PinMode)
		if err != nil {
			if cerr := g.close(); cerr != nil {
				c.log.WithError(cerr).Warn("failed to release a partially opened group")
			}
			return nil, err
		}
		g.lines = append(g.lines, l)
	}
	return g, nil
}

// close closes every member even if some fail.
func (g *group) close() error {
	var errs []error
	for _, l := range g.lines {
		if err := l.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// closed relies on members always being closed together.
func (g *group) closed() bool {
	return len(g.lines) == 0 || g.lines[0].closed()
}

func (g *group) fds() []int {
	if g.closed() {
		return []int{}
	}
	out := make([]int, len(g.lines))
	for i, l := range g.lines {
		out[i] = l.fileno()
	}
	return out
}

func (g *group) readList() ([]gpio.Level, error) {
	out := make([]gpio.Level, len(g.lines))
	for i, l := range g.lines {
		v, err := l.read()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (g *group) readWord() (uint64, error) {
	var w uint64
	for i, l := range g.lines {
		v, err := l.read()
		if err != nil {
			return 0, err
		}
		if v {
			w |= 1 << uint(i)
		}
	}
	return w, nil
}

func (g *group) wait(timeout time.Duration) (bool, error) {
	if g.closed() {
		return false, g.wrap(ErrClosed)
	}
	ok, err := g.c.poll(g.fds(), timeout)
	if err != nil {
		return false, g.wrap(err)
	}
	return ok, nil
}

func (g *group) reset() error {
	for _, l := range g.lines {
		if err := l.reset(); err != nil {
			return err
		}
	}
	return nil
}

func (g *group) numbers() []int {
	out := make([]int, len(g.lines))
	for i, l := range g.lines {
		out[i] = int(l.id)
	}
	return out
}

func (g *group) String() string {
	names := make([]string, len(g.lines))
	for i, l := range g.lines {
		names[i] = l.String()
	}
	return strings.Join(names, ",")
}

func (g *group) wrap(err error) error {
	return fmt.Errorf("sysfs-gpio (%s): %w", g, err)
}

// mask returns the n low bits set.
func mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(n) - 1
}
