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

package wlnet
// interface descriptors and their registry

import (
	"fmt"
	"sort"
	"sync"
)

// Interface describes a protocol interface for the connection runtime.
//
// Generated bindings define one Interface per protocol interface and
// register it on init.
type Interface struct {
	Name     string
	Version  uint32
	Requests []Op // indexed by opcode
	Events   []Op // indexed by opcode
}

// Op describes one request or event of an interface.
type Op struct {
	Name       string
	Since      uint32 // interface version the operation appeared in
	FDs        int    // number of fd arguments
	Destructor bool
}

func (i *Interface) String() string {
	return fmt.Sprintf("%s v%d", i.Name, i.Version)
}

// Inbound returns operations that the side playing role receives.
func (i *Interface) Inbound(role Role) []Op {
	if role == RoleClient {
		return i.Events
	}
	return i.Requests
}

// Outbound returns operations that the side playing role sends.
func (i *Interface) Outbound(role Role) []Op {
	return i.Inbound(role.Peer())
}

// opName returns name of op in ops or "?<opcode>" if opcode is out of range.
func opName(ops []Op, opcode uint16) string {
	if int(opcode) < len(ops) {
		return ops[opcode].Name
	}
	return fmt.Sprintf("?%d", opcode)
}

var registry struct {
	sync.RWMutex
	byName map[string]*Interface
}

// RegisterInterface makes iface known to the runtime by name.
//
// Client and server bindings of the same protocol describe identical
// interfaces; when a name is registered twice the first descriptor is kept
// and returned. Registering different interfaces under one name panics.
func RegisterInterface(iface *Interface) *Interface {
	registry.Lock()
	defer registry.Unlock()

	if registry.byName == nil {
		registry.byName = make(map[string]*Interface)
	}
	if have, ok := registry.byName[iface.Name]; ok {
		if have.Version != iface.Version ||
			len(have.Requests) != len(iface.Requests) ||
			len(have.Events) != len(iface.Events) {
			panic(fmt.Sprintf("wlnet: interface %s registered twice with different shape (%s, %s)", iface.Name, have, iface))
		}
		return have
	}
	registry.byName[iface.Name] = iface
	return iface
}

// LookupInterface returns interface registered under name.
func LookupInterface(name string) (*Interface, bool) {
	registry.RLock()
	defer registry.RUnlock()
	iface, ok := registry.byName[name]
	return iface, ok
}

// Interfaces returns names of all registered interfaces in sorted order.
func Interfaces() []string {
	registry.RLock()
	defer registry.RUnlock()
	namev := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		namev = append(namev, name)
	}
	sort.Strings(namev)
	return namev
}
