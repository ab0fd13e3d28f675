// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"time"

	"golang.org/x/sys/unix"
)

const isLinux = true

// pollEdges waits for an exceptional condition on any of fds.
//
// The kernel reports a GPIO edge on the value file as POLLPRI|POLLERR. A
// negative timeout waits forever. The wait is restarted with the remaining
// time when interrupted by a signal.
func pollEdges(fds []int, timeout time.Duration) (bool, error) {
	p := make([]unix.PollFd, len(fds))
	for i, fd := range fds {
		p[i] = unix.PollFd{Fd: int32(fd), Events: unix.POLLPRI | unix.POLLERR}
	}
	start := time.Now()
	for {
		ms := -1
		if timeout >= 0 {
			ms = toMillis(timeout - time.Since(start))
		}
		n, err := unix.Poll(p, ms)
		if err == unix.EINTR {
			if timeout >= 0 && time.Since(start) >= timeout {
				return false, nil
			}
			continue
		}
		if err != nil {
			return false, err
		}
		return n > 0, nil
	}
}

// toMillis rounds d up to the millisecond so that a short non-zero timeout
// still waits.
func toMillis(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Millisecond - 1) / time.Millisecond)
}
