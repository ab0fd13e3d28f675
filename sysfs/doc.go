// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfs exposes GPIO lines and groups of lines through the Linux GPIO
// sysfs interface.
//
// A line is claimed by writing its number to /sys/class/gpio/export, which
// fails with ErrPinInUse if another process already did. Each opened pin or
// group owns its lines until Close, which unexports them. Close is idempotent
// and should be deferred; a pin that becomes unreachable without being closed
// is released by a finalizer and a warning is logged.
//
// Modes are short strings: a direction 'r' or 'w', an optional edge 'N', 'R',
// 'F' or 'B' and, for groups, an optional format 'I' (integer word) or 'S'
// (list of levels). See ParsePinMode and ParseGroupMode.
//
// Resources are not safe for concurrent use.
package sysfs
