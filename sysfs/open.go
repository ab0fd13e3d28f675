// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/gpio"
)

// OpenPin parses mode and opens a line with it.
//
// The returned value is a *Writer for "w" modes, a *Reader for "r" and "rN"
// and a *WaitableReader when an edge is requested.
func (c *Controller) OpenPin(id int, mode string) (Resource, error) {
	m, err := ParsePinMode(mode)
	if err != nil {
		return nil, err
	}
	// Typed nil pointers must not be returned in the Resource interface.
	switch {
	case m.Direction == Out:
		w, err := c.OpenWriter(id)
		if err != nil {
			return nil, err
		}
		return w, nil
	case m.Edge == gpio.NoEdge:
		r, err := c.OpenReader(id)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		r, err := c.OpenWaitableReader(id, m.Edge)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

// OpenReader opens a line for reading without edge detection.
func (c *Controller) OpenReader(id int) (*Reader, error) {
	l, err := c.claim(id, PinMode{Direction: In, Edge: gpio.NoEdge})
	if err != nil {
		return nil, err
	}
	return &Reader{pin{l}}, nil
}

// OpenWriter opens a line for writing.
func (c *Controller) OpenWriter(id int) (*Writer, error) {
	l, err := c.claim(id, PinMode{Direction: Out, Edge: gpio.NoEdge})
	if err != nil {
		return nil, err
	}
	return &Writer{pin{l}}, nil
}

// OpenWaitableReader opens a line for reading with edge detection. edge must
// not be gpio.NoEdge.
func (c *Controller) OpenWaitableReader(id int, edge gpio.Edge) (*WaitableReader, error) {
	if edge == gpio.NoEdge {
		return nil, fmt.Errorf("sysfs-gpio: %w", ErrPinWaitModeInvalid)
	}
	l, err := c.claim(id, PinMode{Direction: In, Edge: edge})
	if err != nil {
		return nil, err
	}
	return &WaitableReader{pin{l}}, nil
}

// OpenPinGroup parses mode and opens all ids with it, in order.
//
// The returned value is a *WordReader, *ListReader, *WordWriter, *ListWriter,
// *WordWaitableReader or *ListWaitableReader depending on the direction, edge
// and format. Either every line is claimed or none is.
func (c *Controller) OpenPinGroup(ids []int, mode string) (Resource, error) {
	m, err := ParseGroupMode(mode)
	if err != nil {
		return nil, err
	}
	g, err := c.openGroup(ids, m)
	if err != nil {
		return nil, err
	}
	return newGroupResource(g, m), nil
}

// OpenGroup opens all ids with an already parsed mode.
func (c *Controller) OpenGroup(ids []int, m GroupMode) (Resource, error) {
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("sysfs-gpio: %w", err)
	}
	g, err := c.openGroup(ids, m)
	if err != nil {
		return nil, err
	}
	return newGroupResource(g, m), nil
}

func newGroupResource(g *group, m GroupMode) Resource {
	p := pinGroup{g}
	switch {
	case m.Direction == Out && m.Format == List:
		return &ListWriter{pinGroup: p}
	case m.Direction == Out:
		return &WordWriter{pinGroup: p}
	case m.Edge == gpio.NoEdge && m.Format == List:
		return &ListReader{p}
	case m.Edge == gpio.NoEdge:
		return &WordReader{p}
	case m.Format == List:
		return &ListWaitableReader{waitGroup{p}}
	default:
		return &WordWaitableReader{waitGroup{p}}
	}
}

//

// Default returns the controller installed by the driver, or nil if the
// driver was not initialized.
func Default() *Controller {
	return drvGPIO.c
}

func defaultController() (*Controller, error) {
	if drvGPIO.c == nil {
		return nil, errors.New("sysfs gpio is not initialized")
	}
	return drvGPIO.c, nil
}

// OpenPin opens a line on the default controller.
//
// The driver must have been initialized, usually via sysfsgpio.Init().
func OpenPin(id int, mode string) (Resource, error) {
	c, err := defaultController()
	if err != nil {
		return nil, err
	}
	return c.OpenPin(id, mode)
}

// OpenPinGroup opens a group of lines on the default controller.
func OpenPinGroup(ids []int, mode string) (Resource, error) {
	c, err := defaultController()
	if err != nil {
		return nil, err
	}
	return c.OpenPinGroup(ids, mode)
}
