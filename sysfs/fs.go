// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"io"
	"os"
)

// fileIO is the subset of *os.File used on sysfs pseudo files.
type fileIO interface {
	Fd() uintptr
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
}

// filesystem is the access to the GPIO sysfs tree.
//
// The OS implementation is used outside of tests; tests emulate the kernel
// side of export and unexport.
type filesystem interface {
	open(path string, flag int) (fileIO, error)
	exists(path string) bool
}

type osFS struct{}

func (osFS) open(path string, flag int) (fileIO, error) {
	f, err := os.OpenFile(path, flag, 0600)
	if err != nil {
		// Do not return a typed nil.
		return nil, err
	}
	return f, nil
}

func (osFS) exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFile writes b to a control file in one write call, as the kernel
// parses each write separately.
func writeFile(fs filesystem, path string, b []byte) error {
	f, err := fs.open(path, os.O_WRONLY)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func seekRead(f fileIO, b []byte) (int, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}
	return f.Read(b)
}

func seekWrite(f fileIO, b []byte) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	_, err := f.Write(b)
	return err
}
