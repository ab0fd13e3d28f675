// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"

	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the command line configuration. Each value comes from, in order
// of precedence, a flag, a GPIO_SYSFS_* environment variable, the config file
// or the flag default.
type Config struct {
	// Root is the GPIO sysfs root, /sys/class/gpio unless testing.
	Root string `mapstructure:"root"`
	// LogLevel is a logrus level name.
	LogLevel string `mapstructure:"loglevel"`
	// AnyChip accepts any SoC line instead of only the board header lines.
	AnyChip bool `mapstructure:"any_chip"`
}

func loadConfig(v *viper.Viper) (Config, error) {
	if f := v.GetString("config"); f != "" {
		v.SetConfigFile(f)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.config/gpio-sysfs")
		v.AddConfigPath("/etc/gpio-sysfs")
	}
	v.SetEnvPrefix("GPIO_SYSFS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return Config{}, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	return c, nil
}

// newLogger returns a logger writing human readable lines to stderr.
func newLogger(level string) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetLevel(lvl)
	f := new(prefixed.TextFormatter)
	f.TimestampFormat = "2006-01-02 15:04:05"
	f.FullTimestamp = true
	logger.SetFormatter(f)
	return logrus.NewEntry(logger).WithField("prefix", "gpio-sysfs"), nil
}
