// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/gpio"
)

// toLevel converts v to a level.
//
// The string "0" is Low even though it is not empty, so that values read from
// text (a file, a command line) can be written back as-is.
func toLevel(v any) (gpio.Level, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Invalid:
		return gpio.Low, nil
	case reflect.Bool:
		return gpio.Level(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0, nil
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0, nil
	case reflect.String:
		s := rv.String()
		return s != "" && s != "0", nil
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() != 0, nil
	}
	return gpio.Low, fmt.Errorf("%T: %w", v, ErrValueType)
}

// toWord converts v to a non-negative integer. Strings are parsed in base 10
// and floats are truncated.
func toWord(v any) (uint64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i < 0 {
			return 0, fmt.Errorf("%d: %w", i, ErrValueOutOfRange)
		}
		return uint64(i), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		f := math.Trunc(rv.Float())
		if math.IsNaN(f) {
			return 0, fmt.Errorf("%v: %w", f, ErrValueType)
		}
		if f < 0 || f >= math.MaxUint64 {
			return 0, fmt.Errorf("%v: %w", f, ErrValueOutOfRange)
		}
		return uint64(f), nil
	case reflect.String:
		s := strings.TrimSpace(rv.String())
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil && i < 0 {
			return 0, fmt.Errorf("%d: %w", i, ErrValueOutOfRange)
		}
		return 0, fmt.Errorf("%q: %w", s, ErrValueType)
	}
	return 0, fmt.Errorf("%T: %w", v, ErrValueType)
}

// toLevels converts a slice or array to one level per element.
func toLevels(v any) ([]gpio.Level, error) {
	if l, ok := v.([]gpio.Level); ok {
		return l, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%T: %w", v, ErrValueType)
	}
	out := make([]gpio.Level, rv.Len())
	for i := range out {
		lvl, err := toLevel(rv.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		out[i] = lvl
	}
	return out, nil
}
