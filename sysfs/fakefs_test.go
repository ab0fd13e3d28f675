// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"periph.io/x/sysfsgpio/pinid"
)

// fakeKernel emulates the kernel side of a GPIO sysfs tree in a temporary
// directory.
//
// Writing a number to export creates gpioN with direction, edge and value
// files, writing it to unexport removes the directory. Value files are real
// files, so a real poll(2) on them never reports an edge; poll emulates the
// edge latch instead: opening or triggering a line latches an edge, and a read
// of the value file clears it.
type fakeKernel struct {
	t     *testing.T
	paths Paths

	latched map[int]bool   // fd -> edge pending
	writes  map[string]int // value path -> write count
	failing map[string]error
}

func newFakeKernel(t *testing.T) *fakeKernel {
	root := t.TempDir()
	for _, n := range []string{"export", "unexport"} {
		if err := os.WriteFile(root+"/"+n, nil, 0600); err != nil {
			t.Fatal(err)
		}
	}
	return &fakeKernel{
		t:       t,
		paths:   Paths{Root: root},
		latched: map[int]bool{},
		writes:  map[string]int{},
		failing: map[string]error{},
	}
}

// newTestController returns a controller on a fake tree that accepts any
// line of the SoC, and a hook capturing its logs.
func newTestController(t *testing.T) (*Controller, *fakeKernel, *test.Hook) {
	k := newFakeKernel(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	c := New(k.paths, WithLogger(logrus.NewEntry(logger)))
	c.fs = k
	c.poll = k.poll
	return c, k, hook
}

func (k *fakeKernel) open(path string, flag int) (fileIO, error) {
	if err := k.failing[path]; err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	switch path {
	case k.paths.Export():
		return &ctlFile{write: k.export}, nil
	case k.paths.Unexport():
		return &ctlFile{write: k.unexport}, nil
	}
	f, err := os.OpenFile(path, flag, 0600)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, "/value") {
		return f, nil
	}
	k.latched[int(f.Fd())] = true
	return &valueFile{File: f, k: k, path: path}, nil
}

func (k *fakeKernel) exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (k *fakeKernel) export(b []byte) error {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return syscall.EINVAL
	}
	dir := k.paths.Pin(pinid.LineID(n))
	if k.exists(dir) {
		return syscall.EBUSY
	}
	if err := os.Mkdir(dir, 0700); err != nil {
		return err
	}
	for name, content := range map[string]string{"direction": "in\n", "edge": "none\n", "value": "0\n"} {
		if err := os.WriteFile(dir+"/"+name, []byte(content), 0600); err != nil {
			return err
		}
	}
	return nil
}

func (k *fakeKernel) unexport(b []byte) error {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return syscall.EINVAL
	}
	dir := k.paths.Pin(pinid.LineID(n))
	if !k.exists(dir) {
		return syscall.EINVAL
	}
	return os.RemoveAll(dir)
}

// poll reports whether any of fds has a latched edge. It never blocks.
func (k *fakeKernel) poll(fds []int, timeout time.Duration) (bool, error) {
	for _, fd := range fds {
		if k.latched[fd] {
			return true, nil
		}
	}
	if timeout < 0 {
		return false, errors.New("fake poll would block forever")
	}
	return false, nil
}

// exported reports whether line n is exported.
func (k *fakeKernel) exported(n int) bool {
	return k.exists(k.paths.Pin(pinid.LineID(n)))
}

// file returns the content of a control file of line n.
func (k *fakeKernel) file(n int, name string) string {
	k.t.Helper()
	b, err := os.ReadFile(k.paths.Pin(pinid.LineID(n)) + "/" + name)
	if err != nil {
		k.t.Fatal(err)
	}
	return strings.TrimSpace(string(b))
}

// value returns the first byte of the value file of line n.
func (k *fakeKernel) value(n int) byte {
	k.t.Helper()
	b, err := os.ReadFile(k.paths.Value(pinid.LineID(n)))
	if err != nil {
		k.t.Fatal(err)
	}
	if len(b) == 0 {
		k.t.Fatalf("line %d: empty value file", n)
	}
	return b[0]
}

// set drives input line n and latches an edge on fd.
func (k *fakeKernel) set(n int, v byte, fd int) {
	k.t.Helper()
	if err := os.WriteFile(k.paths.Value(pinid.LineID(n)), []byte{v, '\n'}, 0600); err != nil {
		k.t.Fatal(err)
	}
	k.latched[fd] = true
}

// writeCount returns the number of writes done on the value file of line n.
func (k *fakeKernel) writeCount(n int) int {
	return k.writes[k.paths.Value(pinid.LineID(n))]
}

// fail makes opening the given file of line n fail with err.
func (k *fakeKernel) fail(n int, name string, err error) {
	k.failing[k.paths.Pin(pinid.LineID(n))+"/"+name] = err
}

// ctlFile is the export or unexport file.
type ctlFile struct {
	write func(b []byte) error
}

func (c *ctlFile) Fd() uintptr                                  { return ^uintptr(0) }
func (c *ctlFile) Read(b []byte) (int, error)                   { return 0, io.EOF }
func (c *ctlFile) Seek(offset int64, whence int) (int64, error) { return 0, nil }
func (c *ctlFile) Close() error                                 { return nil }

func (c *ctlFile) Write(b []byte) (int, error) {
	if err := c.write(b); err != nil {
		return 0, err
	}
	return len(b), nil
}

// valueFile counts writes and clears the edge latch on read.
type valueFile struct {
	*os.File
	k    *fakeKernel
	path string
}

func (v *valueFile) Read(b []byte) (int, error) {
	v.k.latched[int(v.File.Fd())] = false
	return v.File.Read(b)
}

func (v *valueFile) Write(b []byte) (int, error) {
	v.k.writes[v.path]++
	return v.File.Write(b)
}

func (v *valueFile) Close() error {
	delete(v.k.latched, int(v.File.Fd()))
	return v.File.Close()
}
