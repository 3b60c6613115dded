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

// Package protocol provides model of Wayland protocol descriptions.
//
// A protocol document (e.g. wayland.xml or xdg-shell.xml) is loaded with
// Parse into a Protocol. Protocols that reference each other's interfaces
// are combined into a Batch with Resolve, which binds every interface and
// enum reference. The resolved model is input of the code generator.
//
// Documentation is kept verbatim on every level so that it can be carried
// over into generated code.
package protocol

import (
	"fmt"
)

// Protocol is one protocol document.
type Protocol struct {
	Name        string
	Path        string // document the protocol was loaded from, if any
	Copyright   string
	Description Description
	Interfaces  []*Interface
}

// Description is documentation attached to a protocol element.
type Description struct {
	Summary string
	Text    string // verbatim, including indentation
}

// IsZero returns whether d carries no documentation.
func (d Description) IsZero() bool {
	return d.Summary == "" && d.Text == ""
}

// Interface is a named, versioned set of requests, events and enums.
type Interface struct {
	Protocol    *Protocol
	Name        string
	Version     uint32
	Description Description
	Requests    []*Message // in opcode order
	Events      []*Message // in opcode order
	Enums       []*Enum
}

func (i *Interface) String() string {
	return i.Name
}

// Messages returns requests or events of i.
func (i *Interface) Messages(dir Direction) []*Message {
	if dir == Request {
		return i.Requests
	}
	return i.Events
}

// Enum returns enum of i with name, or nil.
func (i *Interface) Enum(name string) *Enum {
	for _, e := range i.Enums {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// Direction tells who sends a message.
type Direction int

const (
	Request Direction = iota // client -> server
	Event                    // server -> client
)

func (d Direction) String() string {
	switch d {
	case Request:
		return "request"
	case Event:
		return "event"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Message is a request or an event.
//
// Its opcode is its position among messages of the same direction in the
// interface.
type Message struct {
	Interface       *Interface
	Direction       Direction
	Opcode          uint16
	Name            string
	Since           uint32
	DeprecatedSince uint32 // 0 if not deprecated
	Destructor      bool
	Description     Description
	Args            []*Arg
}

func (m *Message) String() string {
	return fmt.Sprintf("%s.%s", m.Interface.Name, m.Name)
}

// NumFDs returns number of fd arguments of m.
func (m *Message) NumFDs() int {
	n := 0
	for _, arg := range m.Args {
		if arg.Type == FD {
			n++
		}
	}
	return n
}

// Arg is an argument of a message.
type Arg struct {
	Name          string
	Type          ArgType
	Summary       string
	Description   Description
	Nullable      bool   // allow-null="true"
	InterfaceName string // interface="..." for object and new_id
	EnumName      string // enum="..." for int and uint; maybe "iface.enum"

	// bound by Resolve
	Interface *Interface
	Enum      *Enum
}

// Generic returns whether arg is new_id with interface chosen at runtime.
//
// On the wire such argument is preceded by interface name and version.
func (a *Arg) Generic() bool {
	return a.Type == NewID && a.InterfaceName == ""
}

// ArgType is type of a message argument.
type ArgType int

const (
	Int ArgType = iota
	Uint
	Fixed
	String
	Object
	NewID
	Array
	FD
)

var argTypeName = [...]string{
	Int:    "int",
	Uint:   "uint",
	Fixed:  "fixed",
	String: "string",
	Object: "object",
	NewID:  "new_id",
	Array:  "array",
	FD:     "fd",
}

func (t ArgType) String() string {
	if int(t) < len(argTypeName) {
		return argTypeName[t]
	}
	return fmt.Sprintf("ArgType(%d)", int(t))
}

// parseArgType converts type name as used in documents to ArgType.
func parseArgType(s string) (ArgType, bool) {
	for t, name := range argTypeName {
		if name == s {
			return ArgType(t), true
		}
	}
	return 0, false
}

// Nullable returns whether arguments of type t may be declared allow-null.
func (t ArgType) Nullable() bool {
	switch t {
	case String, Object, NewID, Array:
		return true
	}
	return false
}

// Enum is a set of named uint32 values.
type Enum struct {
	Interface   *Interface
	Name        string
	Since       uint32
	Bitfield    bool
	Description Description
	Entries     []*Entry
}

// FullName returns interface-qualified name, e.g. "wl_shm.format".
func (e *Enum) FullName() string {
	return e.Interface.Name + "." + e.Name
}

func (e *Enum) String() string {
	return e.FullName()
}

// Mask returns union of all entry values.
func (e *Enum) Mask() uint32 {
	var mask uint32
	for _, entry := range e.Entries {
		mask |= entry.Value
	}
	return mask
}

// Entry is one value of an enum.
type Entry struct {
	Name            string
	Value           uint32
	Summary         string
	Since           uint32
	DeprecatedSince uint32
	Description     Description
}
