// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/sysfsgpio/pinid"
)

// line is one exported GPIO line with its value file held open.
//
// A line is not safe for concurrent use; each pin or group owns its lines.
type line struct {
	c    *Controller
	id   pinid.LineID
	dir  Direction
	edge gpio.Edge

	fValue fileIO // handle to gpioN/value; nil once closed
	fd     int
	buf    [4]byte // scratch buffer for read(), reset() and out()
}

// udevDelay bounds how long a freshly exported line may stay inaccessible.
//
// The gpioN directory is created synchronously when writing to export but udev
// rules that make it accessible to non-root users run asynchronously.
const udevDelay = 5 * time.Second

// claim exports and configures a line.
//
// The steps are: validate the number, fail if the line is already exported,
// export it, write edge then direction, then open the value file. If any step
// after the export fails, the line is unexported again.
func (c *Controller) claim(raw int, m PinMode) (*line, error) {
	id, err := c.resolver.Resolve(raw)
	if err != nil {
		return nil, fmt.Errorf("sysfs-gpio: %w", err)
	}
	l := &line{c: c, id: id, dir: m.Direction, edge: m.Edge, fd: -1}
	if c.fs.exists(c.paths.Pin(id)) {
		return nil, l.wrap(ErrPinInUse)
	}
	if err := writeFile(c.fs, c.paths.Export(), []byte(id.String())); err != nil {
		if os.IsPermission(err) {
			return nil, l.wrap(fmt.Errorf("need more access, try as root or setup udev rules: %w", err))
		}
		return nil, l.wrap(err)
	}
	if err := l.configure(); err != nil {
		if uerr := l.unexport(); uerr != nil {
			c.log.WithError(uerr).WithField("line", int(id)).Warn("failed to unexport after a failed claim")
		}
		return nil, l.wrap(err)
	}
	c.log.WithFields(logrus.Fields{"line": int(id), "mode": m.String()}).Debug("claimed")
	runtime.SetFinalizer(l, (*line).finalize)
	return l, nil
}

func (l *line) configure() error {
	p := l.c.paths
	var err error
	for start := time.Now(); ; {
		if err = writeFile(l.c.fs, p.Edge(l.id), edgeValue(l.edge)); err == nil || !os.IsPermission(err) || time.Since(start) > udevDelay {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		return err
	}
	if err := writeFile(l.c.fs, p.Direction(l.id), directionValue(l.dir)); err != nil {
		return err
	}
	flag := os.O_RDONLY
	if l.dir == Out {
		flag = os.O_WRONLY
	}
	f, err := l.c.fs.open(p.Value(l.id), flag)
	if err != nil {
		return err
	}
	l.fValue = f
	l.fd = int(f.Fd())
	return nil
}

func (l *line) unexport() error {
	return writeFile(l.c.fs, l.c.paths.Unexport(), []byte(l.id.String()))
}

// read returns the current level of the line.
func (l *line) read() (gpio.Level, error) {
	if l.fValue == nil {
		return gpio.Low, l.wrap(ErrClosed)
	}
	n, err := seekRead(l.fValue, l.buf[:])
	if err != nil {
		return gpio.Low, l.wrap(err)
	}
	return n > 0 && l.buf[0] == '1', nil
}

// reset consumes a pending edge notification.
func (l *line) reset() error {
	if l.fValue == nil {
		return l.wrap(ErrClosed)
	}
	if _, err := seekRead(l.fValue, l.buf[:]); err != nil {
		return l.wrap(err)
	}
	return nil
}

func (l *line) out(v gpio.Level) error {
	if l.fValue == nil {
		return l.wrap(ErrClosed)
	}
	if v {
		l.buf[0] = '1'
	} else {
		l.buf[0] = '0'
	}
	if err := seekWrite(l.fValue, l.buf[:1]); err != nil {
		return l.wrap(err)
	}
	return nil
}

// close closes the value file and unexports the line. It is a no-op on a
// closed line.
//
// The line is only unexported if its directory still exists, as another
// process may have forcibly freed it.
func (l *line) close() error {
	if l.fValue == nil {
		return nil
	}
	runtime.SetFinalizer(l, nil)
	err := l.fValue.Close()
	l.fValue = nil
	l.fd = -1
	if l.c.fs.exists(l.c.paths.Pin(l.id)) {
		if uerr := l.unexport(); uerr != nil {
			err = errors.Join(err, uerr)
		}
	}
	if err != nil {
		return l.wrap(err)
	}
	l.c.log.WithField("line", int(l.id)).Debug("released")
	return nil
}

func (l *line) closed() bool {
	return l.fValue == nil
}

// fileno returns the value file descriptor, or -1 once closed.
func (l *line) fileno() int {
	return l.fd
}

// finalize releases a line that became unreachable without being closed.
func (l *line) finalize() {
	l.c.log.WithField("line", int(l.id)).Warn("GPIO line was not closed, releasing it")
	if err := l.close(); err != nil {
		l.c.log.WithError(err).Warn("release failed")
	}
}

func (l *line) String() string {
	return "GPIO" + l.id.String()
}

func (l *line) wrap(err error) error {
	return wrapLine(l.id, err)
}

func wrapLine(id pinid.LineID, err error) error {
	return fmt.Errorf("sysfs-gpio (GPIO%s): %w", id, err)
}
