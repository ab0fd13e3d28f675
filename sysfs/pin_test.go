// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/sysfsgpio/pinid"
)

func TestOpenPinDispatch(t *testing.T) {
	c, _, _ := newTestController(t)
	data := []struct {
		mode string
		want func(r Resource) bool
	}{
		{"", func(r Resource) bool { _, ok := r.(*Reader); return ok }},
		{"r", func(r Resource) bool { _, ok := r.(*Reader); return ok }},
		{"rN", func(r Resource) bool { _, ok := r.(*Reader); return ok }},
		{"w", func(r Resource) bool { _, ok := r.(*Writer); return ok }},
		{"wN", func(r Resource) bool { _, ok := r.(*Writer); return ok }},
		{"rR", func(r Resource) bool { _, ok := r.(*WaitableReader); return ok }},
		{"rF", func(r Resource) bool { _, ok := r.(*WaitableReader); return ok }},
		{"rB", func(r Resource) bool { _, ok := r.(*WaitableReader); return ok }},
	}
	for _, line := range data {
		r, err := c.OpenPin(17, line.mode)
		if err != nil {
			t.Fatalf("OpenPin(17, %q) = %v", line.mode, err)
		}
		if !line.want(r) {
			t.Errorf("OpenPin(17, %q) = %T", line.mode, r)
		}
		if err := r.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOpenPinConfigures(t *testing.T) {
	c, k, _ := newTestController(t)
	data := []struct {
		mode      string
		direction string
		edge      string
	}{
		{"r", "in", "none"},
		{"w", "out", "none"},
		{"rR", "in", "rising"},
		{"rF", "in", "falling"},
		{"rB", "in", "both"},
	}
	for _, line := range data {
		r, err := c.OpenPin(4, line.mode)
		if err != nil {
			t.Fatal(err)
		}
		if got := k.file(4, "direction"); got != line.direction {
			t.Errorf("%q: direction = %q, want %q", line.mode, got, line.direction)
		}
		if got := k.file(4, "edge"); got != line.edge {
			t.Errorf("%q: edge = %q, want %q", line.mode, got, line.edge)
		}
		if err := r.Close(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestOpenPinInvalid(t *testing.T) {
	c, k, _ := newTestController(t)
	if _, err := c.OpenPin(17, "x"); !errors.Is(err, ErrPinDirectionModeInvalid) {
		t.Fatalf("got %v", err)
	}
	if _, err := c.OpenPin(54, "r"); !errors.Is(err, ErrPinIDInvalid) {
		t.Fatalf("got %v", err)
	}
	if _, err := c.OpenPin(-1, "r"); !errors.Is(err, ErrPinIDInvalid) {
		t.Fatalf("got %v", err)
	}
	if _, err := c.OpenWaitableReader(17, gpio.NoEdge); !errors.Is(err, ErrPinWaitModeInvalid) {
		t.Fatalf("got %v", err)
	}
	if k.exported(17) {
		t.Fatal("a failed open left the line exported")
	}
}

func TestOpenPinBoardResolver(t *testing.T) {
	c, _, _ := newTestController(t)
	b, err := pinid.NewBoard(pinid.Rev1)
	if err != nil {
		t.Fatal(err)
	}
	c.resolver = b
	// GPIO 27 is only routed to the header from revision 2.
	if _, err := c.OpenPin(27, "r"); !errors.Is(err, ErrPinIDInvalid) {
		t.Fatalf("got %v", err)
	}
	p, err := c.OpenPin(21, "r")
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
}

func TestWriter(t *testing.T) {
	c, k, _ := newTestController(t)
	r, err := c.OpenPin(17, "w")
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	w := r.(*Writer)
	if err := w.Write(1); err != nil {
		t.Fatal(err)
	}
	if got := k.value(17); got != '1' {
		t.Fatalf("value = %q, want '1'", got)
	}
	if err := w.Write("0"); err != nil {
		t.Fatal(err)
	}
	if got := k.value(17); got != '0' {
		t.Fatalf("value = %q, want '0'", got)
	}
	if err := w.Out(gpio.High); err != nil {
		t.Fatal(err)
	}
	if got := k.value(17); got != '1' {
		t.Fatalf("value = %q, want '1'", got)
	}
}

func TestWriterCoercion(t *testing.T) {
	c, k, _ := newTestController(t)
	w, err := c.OpenWriter(17)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	data := []struct {
		in   any
		want byte
	}{
		{true, '1'},
		{false, '0'},
		{nil, '0'},
		{0, '0'},
		{42, '1'},
		{int8(-1), '1'},
		{uint16(0), '0'},
		{0.0, '0'},
		{0.5, '1'},
		{"", '0'},
		{"0", '0'},
		{"1", '1'},
		{"00", '1'},
		{"false", '1'},
		{[]int{}, '0'},
		{[]int{0}, '1'},
		{gpio.High, '1'},
		{gpio.Low, '0'},
	}
	for _, line := range data {
		if err := w.Write(line.in); err != nil {
			t.Fatalf("Write(%#v) = %v", line.in, err)
		}
		if got := k.value(17); got != line.want {
			t.Errorf("Write(%#v): value = %q, want %q", line.in, got, line.want)
		}
	}
	if err := w.Write(struct{}{}); !errors.Is(err, ErrValueType) {
		t.Fatalf("got %v", err)
	}
}

func TestReader(t *testing.T) {
	c, k, _ := newTestController(t)
	r, err := c.OpenReader(22)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if v, err := r.Read(); err != nil || v != gpio.Low {
		t.Fatalf("Read() = %v, %v", v, err)
	}
	k.set(22, '1', r.Fd())
	if v, err := r.Read(); err != nil || v != gpio.High {
		t.Fatalf("Read() = %v, %v", v, err)
	}
	k.set(22, '0', r.Fd())
	if v, err := r.Read(); err != nil || v != gpio.Low {
		t.Fatalf("Read() = %v, %v", v, err)
	}
	if r.Number() != 22 || r.String() != "GPIO22" {
		t.Fatalf("%d %s", r.Number(), r.String())
	}
}

func TestClaimExclusive(t *testing.T) {
	c, k, _ := newTestController(t)
	p, err := c.OpenPin(17, "r")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.OpenPin(17, "w"); !errors.Is(err, ErrPinInUse) {
		t.Fatalf("got %v", err)
	}
	if !k.exported(17) {
		t.Fatal("the failed open released the other owner's line")
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if k.exported(17) {
		t.Fatal("Close did not unexport")
	}
	p, err = c.OpenPin(17, "w")
	if err != nil {
		t.Fatalf("reopen after release: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestClaimUnwind(t *testing.T) {
	for _, name := range []string{"edge", "direction", "value"} {
		t.Run(name, func(t *testing.T) {
			c, k, hook := newTestController(t)
			k.fail(5, name, syscall.EIO)
			if _, err := c.OpenPin(5, "rR"); !errors.Is(err, syscall.EIO) {
				t.Fatalf("got %v", err)
			}
			if k.exported(5) {
				t.Fatal("line left exported after a failed open")
			}
			for _, e := range hook.AllEntries() {
				if e.Level <= logrus.WarnLevel {
					t.Errorf("unexpected log: %s", e.Message)
				}
			}
		})
	}
}

func TestCloseIdempotent(t *testing.T) {
	c, k, _ := newTestController(t)
	for _, mode := range []string{"r", "w", "rB"} {
		p, err := c.OpenPin(9, mode)
		if err != nil {
			t.Fatal(err)
		}
		if p.Closed() {
			t.Fatal("freshly opened pin is closed")
		}
		for i := 0; i < 3; i++ {
			if err := p.Close(); err != nil {
				t.Fatalf("Close #%d = %v", i, err)
			}
			if !p.Closed() {
				t.Fatal("Closed() = false after Close")
			}
		}
		if k.exported(9) {
			t.Fatal("line still exported")
		}
	}
}

func TestCloseAfterForceFree(t *testing.T) {
	c, k, _ := newTestController(t)
	p, err := c.OpenPin(9, "w")
	if err != nil {
		t.Fatal(err)
	}
	if freed, err := c.ForceFree(9); err != nil || !freed {
		t.Fatalf("ForceFree() = %t, %v", freed, err)
	}
	if k.exported(9) {
		t.Fatal("ForceFree did not unexport")
	}
	// The line is not exported anymore, Close must not try to unexport it.
	if err := p.Close(); err != nil {
		t.Fatal(err)
	}
	if freed, err := c.ForceFree(9); err != nil || freed {
		t.Fatalf("ForceFree() = %t, %v", freed, err)
	}
}

func TestExported(t *testing.T) {
	c, _, _ := newTestController(t)
	if ok, err := c.Exported(3); err != nil || ok {
		t.Fatalf("Exported() = %t, %v", ok, err)
	}
	p, err := c.OpenPin(3, "r")
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := c.Exported(3); err != nil || !ok {
		t.Fatalf("Exported() = %t, %v", ok, err)
	}
	_ = p.Close()
	if _, err := c.Exported(100); !errors.Is(err, ErrPinIDInvalid) {
		t.Fatalf("got %v", err)
	}
}

func TestFd(t *testing.T) {
	c, _, _ := newTestController(t)
	r, err := c.OpenReader(17)
	if err != nil {
		t.Fatal(err)
	}
	if r.Fd() < 0 {
		t.Fatalf("Fd() = %d", r.Fd())
	}
	_ = r.Close()
	if r.Fd() != -1 {
		t.Fatalf("Fd() = %d after Close", r.Fd())
	}
}

func TestClosedPinErrors(t *testing.T) {
	c, _, _ := newTestController(t)
	r, err := c.OpenReader(1)
	if err != nil {
		t.Fatal(err)
	}
	w, err := c.OpenWriter(2)
	if err != nil {
		t.Fatal(err)
	}
	wr, err := c.OpenWaitableReader(3, gpio.BothEdges)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range []Resource{r, w, wr} {
		if err := p.Close(); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := r.Read(); !errors.Is(err, ErrClosed) {
		t.Errorf("Read() = %v", err)
	}
	if err := w.Write(1); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() = %v", err)
	}
	if err := w.Write(struct{}{}); !errors.Is(err, ErrClosed) {
		t.Errorf("Write() = %v", err)
	}
	if err := w.Out(gpio.Low); !errors.Is(err, ErrClosed) {
		t.Errorf("Out() = %v", err)
	}
	if _, err := wr.Read(); !errors.Is(err, ErrClosed) {
		t.Errorf("Read() = %v", err)
	}
	if _, err := wr.Wait(0); !errors.Is(err, ErrClosed) {
		t.Errorf("Wait() = %v", err)
	}
	if err := wr.Reset(); !errors.Is(err, ErrClosed) {
		t.Errorf("Reset() = %v", err)
	}
}

func TestWaitableReader(t *testing.T) {
	c, k, _ := newTestController(t)
	w, err := c.OpenWaitableReader(23, gpio.RisingEdge)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if w.Edge() != gpio.RisingEdge {
		t.Fatalf("Edge() = %s", w.Edge())
	}
	// The initial state counts as an edge.
	if ok, err := w.Wait(0); err != nil || !ok {
		t.Fatalf("first Wait() = %t, %v", ok, err)
	}
	// Wait does not consume the notification.
	if ok, err := w.Wait(0); err != nil || !ok {
		t.Fatalf("second Wait() = %t, %v", ok, err)
	}
	if err := w.Reset(); err != nil {
		t.Fatal(err)
	}
	if ok, err := w.Wait(time.Millisecond); err != nil || ok {
		t.Fatalf("Wait() after Reset = %t, %v", ok, err)
	}
	k.set(23, '1', w.Fd())
	if ok, err := w.Wait(Forever); err != nil || !ok {
		t.Fatalf("Wait() after edge = %t, %v", ok, err)
	}
	if v, err := w.Read(); err != nil || v != gpio.High {
		t.Fatalf("Read() = %v, %v", v, err)
	}
	if err := w.Reset(); err != nil {
		t.Fatal(err)
	}
	if ok, err := w.Wait(0); err != nil || ok {
		t.Fatalf("Wait() = %t, %v", ok, err)
	}
}

func TestFinalizerReleases(t *testing.T) {
	c, k, hook := newTestController(t)
	func() {
		if _, err := c.OpenPin(26, "w"); err != nil {
			t.Fatal(err)
		}
	}()
	for start := time.Now(); k.exported(26) && time.Since(start) < 2*time.Second; {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	if k.exported(26) {
		t.Fatal("finalizer did not release the line")
	}
	found := false
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["line"] == 26 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a warning about the leaked line")
	}
	// The line can be claimed again.
	p, err := c.OpenPin(26, "r")
	if err != nil {
		t.Fatal(err)
	}
	_ = p.Close()
}

func TestCloseClearsFinalizer(t *testing.T) {
	c, _, hook := newTestController(t)
	func() {
		p, err := c.OpenPin(26, "w")
		if err != nil {
			t.Fatal(err)
		}
		_ = p.Close()
	}()
	for i := 0; i < 5; i++ {
		runtime.GC()
		time.Sleep(10 * time.Millisecond)
	}
	for _, e := range hook.AllEntries() {
		if e.Level <= logrus.WarnLevel {
			t.Fatalf("unexpected warning: %s", e.Message)
		}
	}
}

func TestDefaultNotInitialized(t *testing.T) {
	if Default() != nil {
		t.Skip("driver initialized")
	}
	if _, err := OpenPin(17, "r"); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := OpenPinGroup([]int{17}, "r"); err == nil {
		t.Fatal("expected an error")
	}
}
