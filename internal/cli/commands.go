// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/gpio"

	"periph.io/x/sysfsgpio/hwinfo"
	"periph.io/x/sysfsgpio/pinid"
	"periph.io/x/sysfsgpio/sysfs"
	"periph.io/x/sysfsgpio/sysfs/sysfssmoketest"
)

var errTimeout = errors.New("timed out")

func (a *app) readCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read ID",
		Short: "Print the level of a line, 0 or 1",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.controller()
			if err != nil {
				return err
			}
			r, err := c.OpenReader(id)
			if err != nil {
				return err
			}
			defer r.Close()
			l, err := r.Read()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), levelString(l))
			return nil
		},
	}
}

func (a *app) writeCmd() *cobra.Command {
	var hold time.Duration
	cmd := &cobra.Command{
		Use:   "write ID LEVEL",
		Short: "Drive a line to a level",
		Long: `Drive a line to a level: 0, 1, low, high, false or true.

The line is released on exit; use --hold to keep it claimed for a while.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := parseLevel(args[1])
			if err != nil {
				return err
			}
			c, err := a.controller()
			if err != nil {
				return err
			}
			w, err := c.OpenWriter(id)
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Out(l); err != nil {
				return err
			}
			time.Sleep(hold)
			return nil
		},
	}
	cmd.Flags().DurationVar(&hold, "hold", 0, "keep the line claimed for this long")
	return cmd
}

func (a *app) waitCmd() *cobra.Command {
	var mode string
	var timeout time.Duration
	var count int
	cmd := &cobra.Command{
		Use:   "wait ID",
		Short: "Wait for edges on a line and print the level after each",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.controller()
			if err != nil {
				return err
			}
			p, err := c.OpenPin(id, mode)
			if err != nil {
				return err
			}
			defer p.Close()
			w, ok := p.(*sysfs.WaitableReader)
			if !ok {
				return fmt.Errorf("mode %q does not detect edges", mode)
			}
			return waitLoop(cmd.OutOrStdout(), w, timeout, count, func() (string, error) {
				l, err := w.Read()
				return levelString(l), err
			})
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "rB", "open mode: rR, rF or rB")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", sysfs.Forever, "timeout for each edge; negative waits forever")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of edges to wait for; 0 waits forever")
	return cmd
}

// waitLoop discards the edge reported at open, then prints the value read
// after each of count edges.
func waitLoop(out io.Writer, w sysfs.Waiter, timeout time.Duration, count int, read func() (string, error)) error {
	if _, err := w.Wait(0); err != nil {
		return err
	}
	if err := w.Reset(); err != nil {
		return err
	}
	for i := 0; count <= 0 || i < count; i++ {
		ok, err := w.Wait(timeout)
		if err != nil {
			return err
		}
		if !ok {
			return errTimeout
		}
		v, err := read()
		if err != nil {
			return err
		}
		if err := w.Reset(); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s\n", time.Now().Format("15:04:05.000000"), v)
	}
	return nil
}

func (a *app) groupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Read or write several lines at once",
		Long: `Read or write several lines at once.

The first line is bit 0 of a word, or the first element of a list.`,
	}
	cmd.AddCommand(a.groupReadCmd(), a.groupWriteCmd())
	return cmd
}

func (a *app) groupReadCmd() *cobra.Command {
	var mode string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "read ID...",
		Short: "Print the levels of lines as a word or a list",
		Long: `Print the levels of lines as a word (modes rI, rNI) or a list (rS, rNS).

With an edge (for example rBI) the levels are printed after the next edge on
any of the lines.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			c, err := a.controller()
			if err != nil {
				return err
			}
			g, err := c.OpenPinGroup(ids, mode)
			if err != nil {
				return err
			}
			defer g.Close()
			out := cmd.OutOrStdout()
			switch r := g.(type) {
			case *sysfs.WordReader:
				v, err := r.Read()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, v)
			case *sysfs.ListReader:
				v, err := r.Read()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, levelsString(v))
			case *sysfs.WordWaitableReader:
				return waitLoop(out, r, timeout, 1, func() (string, error) {
					v, err := r.Read()
					return strconv.FormatUint(v, 10), err
				})
			case *sysfs.ListWaitableReader:
				return waitLoop(out, r, timeout, 1, func() (string, error) {
					v, err := r.Read()
					return levelsString(v), err
				})
			default:
				return fmt.Errorf("mode %q is not a read mode", mode)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "rI", "open mode")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", sysfs.Forever, "timeout when waiting for an edge")
	return cmd
}

func (a *app) groupWriteCmd() *cobra.Command {
	var mode string
	var hold time.Duration
	cmd := &cobra.Command{
		Use:   "write VALUE ID...",
		Short: "Drive lines from a word or a list",
		Long: `Drive lines from a decimal word (modes wI, wNI) or from a comma separated
list of 0 and 1 (wS, wNS).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			c, err := a.controller()
			if err != nil {
				return err
			}
			g, err := c.OpenPinGroup(ids, mode)
			if err != nil {
				return err
			}
			defer g.Close()
			switch w := g.(type) {
			case *sysfs.WordWriter:
				err = w.Write(args[0])
			case *sysfs.ListWriter:
				err = w.Write(strings.Split(args[0], ","))
			default:
				return fmt.Errorf("mode %q is not a write mode", mode)
			}
			if err != nil {
				return err
			}
			time.Sleep(hold)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", "wI", "open mode: wI or wS")
	cmd.Flags().DurationVar(&hold, "hold", 0, "keep the lines claimed for this long")
	return cmd
}

func (a *app) freeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "free ID...",
		Short: "Unexport lines left exported, for example by a crashed process",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			c, err := a.controller()
			if err != nil {
				return err
			}
			for _, id := range ids {
				freed, err := c.ForceFree(id)
				if err != nil {
					return err
				}
				if freed {
					fmt.Fprintf(cmd.OutOrStdout(), "GPIO%d freed\n", id)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "GPIO%d not exported\n", id)
				}
			}
			return nil
		},
	}
}

func (a *app) revisionCmd() *cobra.Command {
	var cpuinfo string
	cmd := &cobra.Command{
		Use:   "revision",
		Short: "Print the Raspberry Pi GPIO revision and its usable lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rev, err := hwinfo.DetectFrom(cpuinfo)
			if err != nil {
				return err
			}
			b, err := pinid.NewBoard(rev)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "revision: %s\n", rev)
			ids := b.IDs()
			s := make([]string, len(ids))
			for i, id := range ids {
				s[i] = strconv.Itoa(id)
			}
			fmt.Fprintf(out, "lines: %s\n", strings.Join(s, " "))
			for p := pinid.HeaderPin(1); p <= 40; p++ {
				if l, err := b.HeaderPin(p); err == nil {
					fmt.Fprintf(out, "pin %2d: GPIO%s\n", int(p), l)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cpuinfo, "cpuinfo", hwinfo.CPUInfo, "cpuinfo file to read the revision from")
	return cmd
}

func (a *app) smoketestCmd() *cobra.Command {
	s := &sysfssmoketest.SmokeTest{}
	return &cobra.Command{
		Use:   s.Name() + " -out ID -in ID",
		Short: s.Description(),
		Long: s.Description() + `.

The arguments are passed as-is to the smoke test; set the sysfs root with the
config file or GPIO_SYSFS_ROOT.`,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller()
			if err != nil {
				return err
			}
			s.C = c
			f := flag.NewFlagSet(s.Name(), flag.ContinueOnError)
			f.SetOutput(cmd.ErrOrStderr())
			return s.Run(f, args)
		},
	}
}

//

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid line %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int, error) {
	ids := make([]int, 0, len(args))
	for _, s := range args {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseLevel(s string) (gpio.Level, error) {
	switch strings.ToLower(s) {
	case "0", "low", "false":
		return gpio.Low, nil
	case "1", "high", "true":
		return gpio.High, nil
	}
	return gpio.Low, fmt.Errorf("invalid level %q, expected 0 or 1", s)
}

func levelString(l gpio.Level) string {
	if l {
		return "1"
	}
	return "0"
}

func levelsString(l []gpio.Level) string {
	s := make([]string, len(l))
	for i, v := range l {
		s[i] = levelString(v)
	}
	return strings.Join(s, ",")
}
