// Copyright (C) 2024  Nexedi SA and Contributors.
//                     Kirill Smelkov <kirr@nexedi.com>
//
// This program is free software: you can Use, Study, Modify and Redistribute
// it under the terms of the GNU General Public License version 3, or (at your
// option) any later version, as published by the Free Software Foundation.
//
// You can also Link and Combine this program with other software covered by
// the terms of any of the Free Software licenses or any of the Open Source
// Initiative approved licenses and Convey the resulting work. Corresponding
// source of such a combination shall include the source code for all other
// software used.
//
// This program is distributed WITHOUT ANY WARRANTY; without even the implied
// warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
//
// See COPYING file for full licensing terms.
// See https://www.nexedi.com/licensing for rationale and options.

package wire
// error taxonomy shared by codec, connection and generated bindings

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrMalformed is the cause of every decode-time violation: short
	// payload, trailing bytes, invalid UTF-8, unknown enum value, absent
	// value in a non-nullable slot, missing file descriptor.
	ErrMalformed = errors.New("malformed payload")

	// ErrIDConflict is returned when a new_id is already allocated or
	// lies outside of the range of the side creating it.
	ErrIDConflict = errors.New("object id conflict")
)

// malformedf returns error describing a malformed payload.
//
// errors.Is(err, ErrMalformed) holds for the result.
func malformedf(format string, argv ...interface{}) error {
	return errors.Wrapf(ErrMalformed, format, argv...)
}

// Malformedf is malformedf for use by generated code and transports.
func Malformedf(format string, argv ...interface{}) error {
	return malformedf(format, argv...)
}

// UnknownOpcodeError is returned by dispatch for opcodes an interface does
// not declare.
type UnknownOpcodeError struct {
	Interface string
	Opcode    uint16
}

func (e *UnknownOpcodeError) Error() string {
	return fmt.Sprintf("%s: unknown opcode %d", e.Interface, e.Opcode)
}

// UnknownOpcode returns *UnknownOpcodeError for iface and opcode.
func UnknownOpcode(iface string, opcode uint16) error {
	return &UnknownOpcodeError{Interface: iface, Opcode: opcode}
}

// EnumError reports a value that is not declared by an enum.
//
// It is a malformed-payload error: errors.Is(err, ErrMalformed) holds.
type EnumError struct {
	Enum     string // interface-qualified enum name, e.g. "wl_shm.format"
	Value    uint32
	Bitfield bool
}

func (e *EnumError) Error() string {
	if e.Bitfield {
		return fmt.Sprintf("%s: %s: undeclared bits in %#x", ErrMalformed, e.Enum, e.Value)
	}
	return fmt.Sprintf("%s: %s: invalid value %d", ErrMalformed, e.Enum, e.Value)
}

func (e *EnumError) Unwrap() error { return ErrMalformed }

// InvalidEnum returns *EnumError for a plain enum.
func InvalidEnum(enum string, v uint32) error {
	return &EnumError{Enum: enum, Value: v}
}

// InvalidBits returns *EnumError for a bitfield.
func InvalidBits(enum string, v uint32) error {
	return &EnumError{Enum: enum, Value: v, Bitfield: true}
}

// IDConflictf returns error describing an object id conflict.
//
// errors.Is(err, ErrIDConflict) holds for the result.
func IDConflictf(format string, argv ...interface{}) error {
	return errors.Wrapf(ErrIDConflict, format, argv...)
}
