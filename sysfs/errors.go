// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package sysfs

import "periph.io/x/sysfsgpio/pinid"

// gpioError is a sentinel error with an optional more general parent, so that
// errors.Is matches both the specific and the general condition.
type gpioError struct {
	msg    string
	parent error
}

func (e *gpioError) Error() string {
	return e.msg
}

func (e *gpioError) Unwrap() error {
	return e.parent
}

func newError(msg string, parent error) error {
	return &gpioError{msg: msg, parent: parent}
}

var (
	// ErrPinIDInvalid is returned when the resolver rejects a line number.
	ErrPinIDInvalid = pinid.ErrInvalid
	// ErrPinInUse is returned when a line is already exported, possibly by
	// another process.
	ErrPinInUse = newError("attempt to use a GPIO pin that is exported and maybe in use", nil)

	// ErrPinOpenModeInvalid is the parent of all mode string errors.
	ErrPinOpenModeInvalid = newError("invalid open mode, expected 'wN', 'rN', 'rR', 'rF' or 'rB'", nil)
	// ErrPinWaitModeInvalid is returned for an unknown wait (edge) character
	// or for a wait mode other than 'N' on an output.
	ErrPinWaitModeInvalid = newError("invalid wait mode, expected 'R', 'F', 'B', or 'N'", ErrPinOpenModeInvalid)
	// ErrPinDirectionModeInvalid is returned for an unknown direction
	// character.
	ErrPinDirectionModeInvalid = newError("invalid read-write mode, expected 'r' or 'w'", ErrPinOpenModeInvalid)
	// ErrPinGroupOpenModeInvalid is returned for a group mode string that is
	// too long or whose second character is neither a wait nor a format
	// character.
	ErrPinGroupOpenModeInvalid = newError("invalid open mode, expected 'w'|'r' + 'N'|'R'|'F'|'B' + 'I'|'S'", ErrPinOpenModeInvalid)
	// ErrPinGroupFormatModeInvalid is returned for an unknown format
	// character.
	ErrPinGroupFormatModeInvalid = newError("invalid pin group format mode, expected 'I' or 'S'", ErrPinGroupOpenModeInvalid)
	// ErrPinGroupIDsInvalid is returned for an empty id list, or one too
	// long for the word format.
	ErrPinGroupIDsInvalid = newError("invalid group of pin ids, expected non-empty sequence", nil)

	// ErrClosed is returned by any I/O on a closed pin or group.
	ErrClosed = newError("use of closed GPIO resource", nil)

	// ErrValueOutOfRange is returned when a word does not fit in the group.
	ErrValueOutOfRange = newError("value out of range for pin group", nil)
	// ErrValueLength is returned when a list does not have one element per
	// group member.
	ErrValueLength = newError("value length does not match pin group size", nil)
	// ErrValueType is returned when a value cannot be converted to a level or
	// a word.
	ErrValueType = newError("value cannot be converted", nil)
)
