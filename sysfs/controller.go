// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"time"

	"github.com/sirupsen/logrus"

	"periph.io/x/sysfsgpio/pinid"
)

// Controller opens pins and pin groups on one GPIO sysfs tree.
//
// It holds no per-line state: exclusive use of a line is enforced by the
// kernel export files, not by the Controller.
type Controller struct {
	paths    Paths
	resolver pinid.Resolver
	fs       filesystem
	poll     pollFunc
	log      *logrus.Entry
}

// pollFunc waits until one of fds reports an edge or timeout expires.
type pollFunc func(fds []int, timeout time.Duration) (bool, error)

// Option configures a Controller.
type Option func(*Controller)

// WithResolver sets the line number validation. The default accepts any line
// of the BCM2835 SoC.
func WithResolver(r pinid.Resolver) Option {
	return func(c *Controller) {
		c.resolver = r
	}
}

// WithLogger sets the logger used for claim and release tracing and for
// leaked resource warnings.
func WithLogger(l *logrus.Entry) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New returns a Controller for the tree described by paths.
func New(paths Paths, opts ...Option) *Controller {
	c := &Controller{
		paths:    paths,
		resolver: pinid.AllChip(),
		fs:       osFS{},
		poll:     pollEdges,
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithField("driver", "sysfs-gpio")
	return c
}

// Paths returns the sysfs tree the Controller operates on.
func (c *Controller) Paths() Paths {
	return c.paths
}

// Resolver returns the line number validation in use.
func (c *Controller) Resolver() pinid.Resolver {
	return c.resolver
}

// Exported reports whether a line is currently exported, by this process or
// another one.
func (c *Controller) Exported(id int) (bool, error) {
	l, err := c.resolver.Resolve(id)
	if err != nil {
		return false, err
	}
	return c.fs.exists(c.paths.Pin(l)), nil
}

// ForceFree unexports a line if it is exported and reports whether it had to.
//
// Pins back off from lines that are already exported, so a process that died
// without closing its pins leaves them unusable until they are freed.
func (c *Controller) ForceFree(id int) (bool, error) {
	l, err := c.resolver.Resolve(id)
	if err != nil {
		return false, err
	}
	if !c.fs.exists(c.paths.Pin(l)) {
		return false, nil
	}
	if err := writeFile(c.fs, c.paths.Unexport(), []byte(l.String())); err != nil {
		return false, wrapLine(l, err)
	}
	c.log.WithField("line", int(l)).Info("forced unexport")
	return true, nil
}
