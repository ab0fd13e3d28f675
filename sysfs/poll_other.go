// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build !linux

package sysfs

import (
	"errors"
	"time"
)

const isLinux = false

func pollEdges(fds []int, timeout time.Duration) (bool, error) {
	return false, errors.New("sysfs-gpio: edge detection is only supported on linux")
}
