// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package cli implements the gpio-sysfs command.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"periph.io/x/sysfsgpio"
	"periph.io/x/sysfsgpio/hwinfo"
	"periph.io/x/sysfsgpio/pinid"
	"periph.io/x/sysfsgpio/sysfs"
)

// app is the state shared by the subcommands of one invocation.
type app struct {
	v   *viper.Viper
	cfg Config
	log *logrus.Entry
	c   *sysfs.Controller
}

// NewRootCmd returns the gpio-sysfs command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "gpio-sysfs",
		Short: "Read, write and wait on GPIO lines through sysfs",
		Long: `gpio-sysfs claims GPIO lines through /sys/class/gpio, uses them and
releases them on exit.

Lines are numbered as the kernel does. By default only the lines routed to the
header of the detected Raspberry Pi board are accepted.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	f := root.PersistentFlags()
	f.StringP("config", "c", "", "config file (default is $HOME/.config/gpio-sysfs/config.yaml)")
	f.String("root", sysfs.DefaultRoot, "GPIO sysfs root")
	f.String("loglevel", "warning", "log level: panic, fatal, error, warning, info, debug or trace")
	f.Bool("any-chip", false, "accept any SoC line, not only the board header lines")
	_ = a.v.BindPFlag("config", f.Lookup("config"))
	_ = a.v.BindPFlag("root", f.Lookup("root"))
	_ = a.v.BindPFlag("loglevel", f.Lookup("loglevel"))
	_ = a.v.BindPFlag("any_chip", f.Lookup("any-chip"))

	root.AddCommand(
		a.readCmd(),
		a.writeCmd(),
		a.waitCmd(),
		a.groupCmd(),
		a.freeCmd(),
		a.revisionCmd(),
		a.smoketestCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(a.v)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// controller returns the controller for the configured root, creating it on
// first use.
func (a *app) controller() (*sysfs.Controller, error) {
	if a.c != nil {
		return a.c, nil
	}
	paths := sysfs.Paths{Root: a.cfg.Root}
	a.c = sysfs.New(paths, sysfs.WithResolver(a.resolver(paths)), sysfs.WithLogger(a.log))
	return a.c, nil
}

func (a *app) resolver(paths sysfs.Paths) pinid.Resolver {
	if a.cfg.AnyChip {
		return pinid.AllChip()
	}
	if paths == sysfs.DefaultPaths {
		state, err := sysfsgpio.Init()
		if err != nil {
			a.log.WithError(err).Warn("driver initialization failed")
		}
		if d := sysfs.Default(); d != nil {
			return d.Resolver()
		}
		if state != nil {
			for _, f := range state.Failed {
				a.log.WithError(f.Err).WithField("driver", f.D.String()).Warn("driver failed")
			}
		}
		a.log.Warn("sysfs-gpio driver not loaded, accepting any SoC line")
		return pinid.AllChip()
	}
	rev, err := hwinfo.Detect()
	if err != nil {
		a.log.WithError(err).Debug("no board revision, accepting any SoC line")
		return pinid.AllChip()
	}
	b, err := pinid.NewBoard(rev)
	if err != nil {
		a.log.WithError(err).Warn("unknown board revision, accepting any SoC line")
		return pinid.AllChip()
	}
	return b
}
