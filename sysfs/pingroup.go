// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// pinGroup implements the methods common to all group types.
type pinGroup struct {
	g *group
}

// Close closes all members. Errors from every member are joined.
func (p *pinGroup) Close() error {
	return p.g.close()
}

func (p *pinGroup) Closed() bool {
	return p.g.closed()
}

// Fds returns the value file descriptors in member order, or an empty slice
// once closed.
func (p *pinGroup) Fds() []int {
	return p.g.fds()
}

// Len returns the number of members.
func (p *pinGroup) Len() int {
	return len(p.g.lines)
}

// Numbers returns the line numbers in member order.
func (p *pinGroup) Numbers() []int {
	return p.g.numbers()
}

func (p *pinGroup) String() string {
	return p.g.String()
}

// WordReader is a group opened with mode "r", "rN", "rI" or "rNI".
type WordReader struct {
	pinGroup
}

// Read returns bit k set when member k is High.
func (r *WordReader) Read() (uint64, error) {
	return r.g.readWord()
}

// ListReader is a group opened with mode "rS" or "rNS".
type ListReader struct {
	pinGroup
}

// Read returns the level of every member.
func (r *ListReader) Read() ([]gpio.Level, error) {
	return r.g.readList()
}

// WordWriter is a group opened with mode "w", "wN", "wI" or "wNI".
//
// Only members whose bit changed since the last write are written.
type WordWriter struct {
	pinGroup
	last   uint64
	cached bool
}

// Out sets member k to bit k of v. v must fit in Len() bits.
func (w *WordWriter) Out(v uint64) error {
	if w.g.closed() {
		return w.g.wrap(ErrClosed)
	}
	m := mask(len(w.g.lines))
	if v&^m != 0 {
		return w.g.wrap(fmt.Errorf("%d does not fit in %d bits: %w", v, len(w.g.lines), ErrValueOutOfRange))
	}
	if !w.cached {
		w.last = ^v & m
		w.cached = true
	}
	for k, l := range w.g.lines {
		bit := uint64(1) << uint(k)
		if (v^w.last)&bit == 0 {
			continue
		}
		if err := l.out(v&bit != 0); err != nil {
			w.cached = false
			return err
		}
	}
	w.last = v
	return nil
}

// Write converts v to an integer then calls Out.
func (w *WordWriter) Write(v any) error {
	if w.g.closed() {
		return w.g.wrap(ErrClosed)
	}
	u, err := toWord(v)
	if err != nil {
		return w.g.wrap(err)
	}
	return w.Out(u)
}

// ListWriter is a group opened with mode "wS" or "wNS".
//
// Only members whose level changed since the last write are written.
type ListWriter struct {
	pinGroup
	last []gpio.Level
}

// Out sets member k to v[k]. v must have Len() elements.
func (w *ListWriter) Out(v []gpio.Level) error {
	if w.g.closed() {
		return w.g.wrap(ErrClosed)
	}
	if len(v) != len(w.g.lines) {
		return w.g.wrap(fmt.Errorf("got %d values for %d lines: %w", len(v), len(w.g.lines), ErrValueLength))
	}
	if w.last == nil {
		w.last = make([]gpio.Level, len(v))
		for i := range v {
			w.last[i] = !v[i]
		}
	}
	for k, l := range w.g.lines {
		if v[k] == w.last[k] {
			continue
		}
		if err := l.out(v[k]); err != nil {
			w.last = nil
			return err
		}
	}
	copy(w.last, v)
	return nil
}

// Write converts every element of a slice or array to a level then calls Out.
func (w *ListWriter) Write(v any) error {
	if w.g.closed() {
		return w.g.wrap(ErrClosed)
	}
	l, err := toLevels(v)
	if err != nil {
		return w.g.wrap(err)
	}
	return w.Out(l)
}

// waitGroup implements Waiter for groups.
type waitGroup struct {
	pinGroup
}

// Wait blocks until any member signals an edge or timeout elapses.
func (w *waitGroup) Wait(timeout time.Duration) (bool, error) {
	return w.g.wait(timeout)
}

// Reset clears the pending edge notification of every member.
func (w *waitGroup) Reset() error {
	return w.g.reset()
}

// Edge returns the configured edge.
func (w *waitGroup) Edge() gpio.Edge {
	return w.g.lines[0].edge
}

// WordWaitableReader is a word group opened with an edge, for example "rRI"
// or "rB".
type WordWaitableReader struct {
	waitGroup
}

// Read returns the current word. It does not wait.
func (r *WordWaitableReader) Read() (uint64, error) {
	return r.g.readWord()
}

// WaitRead waits for an edge on any member then reads the word. It returns
// false without a value when timeout elapsed.
func (r *WordWaitableReader) WaitRead(timeout time.Duration) (uint64, bool, error) {
	ok, err := r.Wait(timeout)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := r.g.readWord()
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}

// ListWaitableReader is a list group opened with an edge, for example "rFS".
type ListWaitableReader struct {
	waitGroup
}

// Read returns the level of every member. It does not wait.
func (r *ListWaitableReader) Read() ([]gpio.Level, error) {
	return r.g.readList()
}

// WaitRead waits for an edge on any member then reads every level. It returns
// false without a value when timeout elapsed.
func (r *ListWaitableReader) WaitRead(timeout time.Duration) ([]gpio.Level, bool, error) {
	ok, err := r.Wait(timeout)
	if err != nil || !ok {
		return nil, false, err
	}
	v, err := r.g.readList()
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

var (
	_ WordIn  = &WordReader{}
	_ ListIn  = &ListReader{}
	_ WordOut = &WordWriter{}
	_ ListOut = &ListWriter{}
	_ WordIn  = &WordWaitableReader{}
	_ Waiter  = &WordWaitableReader{}
	_ ListIn  = &ListWaitableReader{}
	_ Waiter  = &ListWaitableReader{}
)
