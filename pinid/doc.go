// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pinid validates GPIO line numbers before they are handed to the
// sysfs GPIO driver.
//
// Line numbers are the ones used by the kernel gpiolib. On a Raspberry Pi they
// match the BCM2835 GPIO numbers, not the physical header pin numbers; Board
// maps between the two for each GPIO revision of the board.
//
// # Physical
//
// https://www.raspberrypi.com/documentation/computers/raspberry-pi.html#gpio
package pinid
