// Copyright 2016 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package sysfsgpio registers the GPIO sysfs driver and initializes it.
//
// The pins themselves are in the sysfs package.
package sysfsgpio

import (
	"periph.io/x/conn/v3/driver/driverreg"

	// Make sure the sysfs driver is registered.
	_ "periph.io/x/sysfsgpio/sysfs"
)

// Init calls driverreg.Init() and returns it as-is.
//
// The only difference is that by calling sysfsgpio.Init(), you are guaranteed
// to have the sysfs GPIO driver implicitly loaded, so that sysfs.OpenPin and
// sysfs.OpenPinGroup can be used.
func Init() (*driverreg.State, error) {
	return driverreg.Init()
}
