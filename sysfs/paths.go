// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"path/filepath"

	"periph.io/x/sysfsgpio/pinid"
)

// DefaultRoot is where the kernel exposes the GPIO sysfs tree.
const DefaultRoot = "/sys/class/gpio"

// Paths builds the file names of the GPIO sysfs tree rooted at Root.
//
// No validation is done on the LineID; it is expected to come from a
// pinid.Resolver.
type Paths struct {
	Root string
}

// DefaultPaths is the tree used by the driver.
var DefaultPaths = Paths{Root: DefaultRoot}

// Export is written with a line number to claim it.
func (p Paths) Export() string {
	return filepath.Join(p.Root, "export")
}

// Unexport is written with a line number to release it.
func (p Paths) Unexport() string {
	return filepath.Join(p.Root, "unexport")
}

// Pin is the directory that exists while a line is exported.
func (p Paths) Pin(id pinid.LineID) string {
	return filepath.Join(p.Root, "gpio"+id.String())
}

// Direction is the data direction control file of an exported line.
func (p Paths) Direction(id pinid.LineID) string {
	return filepath.Join(p.Pin(id), "direction")
}

// Edge is the edge notification mode file of an exported line.
func (p Paths) Edge(id pinid.LineID) string {
	return filepath.Join(p.Pin(id), "edge")
}

// Value is the data value file of an exported line.
func (p Paths) Value(id pinid.LineID) string {
	return filepath.Join(p.Pin(id), "value")
}
