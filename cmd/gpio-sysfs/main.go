// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gpio-sysfs reads, writes and waits on GPIO lines through the Linux GPIO
// sysfs interface.
package main

import (
	"fmt"
	"os"

	"periph.io/x/sysfsgpio/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gpio-sysfs: %s.\n", err)
		os.Exit(1)
	}
}
