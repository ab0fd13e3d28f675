// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Forever is the timeout that makes Wait block until an edge occurs.
const Forever time.Duration = -1

// Resource is implemented by every pin and pin group.
type Resource interface {
	// Close releases the line(s). Calling it again is a no-op.
	Close() error
	// Closed reports whether Close was called.
	Closed() bool
	String() string
}

// PinIn is a single line opened for reading.
type PinIn interface {
	Resource
	Fd() int
	Read() (gpio.Level, error)
}

// PinOut is a single line opened for writing.
type PinOut interface {
	Resource
	Fd() int
	Out(l gpio.Level) error
	Write(v any) error
}

// Waiter is implemented by resources opened with an edge.
//
// Wait returns false when timeout elapsed without an edge; a negative timeout
// waits forever. Wait does not consume the notification; Reset does. A freshly
// opened resource reports an edge on its first Wait.
type Waiter interface {
	Wait(timeout time.Duration) (bool, error)
	Reset() error
}

// WordIn is a pin group read as an integer, bit k being member k.
type WordIn interface {
	Resource
	Fds() []int
	Len() int
	Read() (uint64, error)
}

// WordOut is a pin group written as an integer, bit k being member k.
type WordOut interface {
	Resource
	Fds() []int
	Len() int
	Out(v uint64) error
	Write(v any) error
}

// ListIn is a pin group read as one level per member.
type ListIn interface {
	Resource
	Fds() []int
	Len() int
	Read() ([]gpio.Level, error)
}

// ListOut is a pin group written as one level per member.
type ListOut interface {
	Resource
	Fds() []int
	Len() int
	Out(v []gpio.Level) error
	Write(v any) error
}

// pin implements the methods common to all single line types.
type pin struct {
	l *line
}

func (p *pin) Close() error {
	return p.l.close()
}

func (p *pin) Closed() bool {
	return p.l.closed()
}

// Fd returns the value file descriptor, or -1 once closed.
func (p *pin) Fd() int {
	return p.l.fileno()
}

// Number returns the line number.
func (p *pin) Number() int {
	return int(p.l.id)
}

func (p *pin) String() string {
	return p.l.String()
}

// Reader is a line opened with mode "r" or "rN".
type Reader struct {
	pin
}

// Read returns the current level.
func (r *Reader) Read() (gpio.Level, error) {
	return r.l.read()
}

// Writer is a line opened with mode "w" or "wN".
type Writer struct {
	pin
}

// Out sets the level.
func (w *Writer) Out(v gpio.Level) error {
	return w.l.out(v)
}

// Write sets the level from a loosely typed value.
//
// Zero numbers, false, nil, empty values and the string "0" are Low;
// anything else convertible is High.
func (w *Writer) Write(v any) error {
	if w.l.closed() {
		return w.l.wrap(ErrClosed)
	}
	lvl, err := toLevel(v)
	if err != nil {
		return w.l.wrap(err)
	}
	return w.l.out(lvl)
}

// WaitableReader is a line opened for reading with an edge, "rR", "rF" or
// "rB".
//
// Typical use is Wait, then Read, then Reset.
type WaitableReader struct {
	pin
}

// Read returns the current level. It does not wait.
func (w *WaitableReader) Read() (gpio.Level, error) {
	return w.l.read()
}

// Edge returns the configured edge.
func (w *WaitableReader) Edge() gpio.Edge {
	return w.l.edge
}

// Wait blocks until an edge is signalled or timeout elapses.
func (w *WaitableReader) Wait(timeout time.Duration) (bool, error) {
	if w.l.closed() {
		return false, w.l.wrap(ErrClosed)
	}
	ok, err := w.l.c.poll([]int{w.l.fileno()}, timeout)
	if err != nil {
		return false, w.l.wrap(err)
	}
	return ok, nil
}

// Reset clears the pending edge notification.
func (w *WaitableReader) Reset() error {
	return w.l.reset()
}

var (
	_ PinIn  = &Reader{}
	_ PinOut = &Writer{}
	_ PinIn  = &WaitableReader{}
	_ Waiter = &WaitableReader{}
)
