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

package protocol
// binding of references across protocols

import (
	"strings"

	"lab.nexedi.com/kirr/go123/xerr"
)

// Batch is a set of protocols generated together.
//
// Interfaces of all protocols in a batch share one namespace, and arguments
// may reference interfaces and enums of any protocol of the batch.
type Batch struct {
	Protocols []*Protocol

	ifaceTab map[string]*Interface
	protoTab map[string]*Protocol
}

// Resolve combines protocols into a Batch binding every interface and enum
// reference.
//
// It works in two passes: first all interface names are collected, then
// references are bound. This way protocols may reference each other in any
// order, including cyclically.
func Resolve(protov ...*Protocol) (*Batch, error) {
	b := &Batch{
		Protocols: protov,
		ifaceTab:  make(map[string]*Interface),
		protoTab:  make(map[string]*Protocol),
	}
	l := &loader{}

	// pass 1: names
	for _, proto := range protov {
		p := path{proto.Name}
		if have, dup := b.protoTab[proto.Name]; dup {
			l.fail(p, "protocol is also loaded from %s", have.Path)
			continue
		}
		b.protoTab[proto.Name] = proto

		for _, iface := range proto.Interfaces {
			if have, dup := b.ifaceTab[iface.Name]; dup {
				l.fail(p.with(iface.Name), "interface is also defined by protocol %s", have.Protocol.Name)
				continue
			}
			b.ifaceTab[iface.Name] = iface
		}
	}

	// pass 2: references
	for _, proto := range protov {
		for _, iface := range proto.Interfaces {
			for _, m := range append(iface.Requests[:len(iface.Requests):len(iface.Requests)], iface.Events...) {
				p := path{proto.Name, iface.Name, m.Direction.String() + " " + m.Name}
				for _, arg := range m.Args {
					b.bind(l, p.with("arg "+arg.Name), iface, arg)
				}
			}
		}
	}

	if err := l.errv.Err(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Batch) bind(l *loader, p path, iface *Interface, arg *Arg) {
	arg.Interface = nil
	if arg.InterfaceName != "" {
		arg.Interface = b.ifaceTab[arg.InterfaceName]
		if arg.Interface == nil {
			l.fail(p, "unknown interface %q", arg.InterfaceName)
		}
	}

	arg.Enum = nil
	if arg.EnumName != "" {
		owner, name := iface, arg.EnumName
		if i := strings.IndexByte(arg.EnumName, '.'); i >= 0 {
			owner = b.ifaceTab[arg.EnumName[:i]]
			name = arg.EnumName[i+1:]
		}
		if owner != nil {
			arg.Enum = owner.Enum(name)
		}
		switch {
		case arg.Enum == nil:
			l.fail(p, "unknown enum %q", arg.EnumName)
		case arg.Enum.Bitfield && arg.Type != Uint:
			l.fail(p, "bitfield enum %s requires uint; have %s", arg.Enum.FullName(), arg.Type)
		}
	}
}

// Interface returns interface with name from any protocol of b, or nil.
func (b *Batch) Interface(name string) *Interface {
	return b.ifaceTab[name]
}

// Protocol returns protocol with name, or nil.
func (b *Batch) Protocol(name string) *Protocol {
	return b.protoTab[name]
}

// Imports returns protocols other than proto whose interfaces or enums are
// referenced by proto, in batch order.
func (b *Batch) Imports(proto *Protocol) []*Protocol {
	need := map[*Protocol]bool{}
	for _, iface := range proto.Interfaces {
		for _, m := range append(iface.Requests[:len(iface.Requests):len(iface.Requests)], iface.Events...) {
			for _, arg := range m.Args {
				if arg.Interface != nil {
					need[arg.Interface.Protocol] = true
				}
				if arg.Enum != nil {
					need[arg.Enum.Interface.Protocol] = true
				}
			}
		}
	}

	var importv []*Protocol
	for _, other := range b.Protocols {
		if other != proto && need[other] {
			importv = append(importv, other)
		}
	}
	return importv
}

// CheckImports verifies that protocols of b do not import each other
// cyclically.
//
// Generated packages cannot import each other in a cycle, so such batches
// cannot be generated.
func (b *Batch) CheckImports() error {
	const (
		white = iota // not visited
		grey         // on current dfs path
		black        // done
	)
	color := map[*Protocol]int{}

	var errv xerr.Errorv
	var visit func(proto *Protocol, stack []string)
	visit = func(proto *Protocol, stack []string) {
		color[proto] = grey
		stack = append(stack, proto.Name)
		for _, dep := range b.Imports(proto) {
			switch color[dep] {
			case grey:
				errv.Appendif(&DocumentError{
					Path:   proto.Name,
					Reason: "import cycle: " + strings.Join(append(stack, dep.Name), " -> "),
				})
			case white:
				visit(dep, stack)
			}
		}
		color[proto] = black
	}

	for _, proto := range b.Protocols {
		if color[proto] == white {
			visit(proto, nil)
		}
	}
	return errv.Err()
}
