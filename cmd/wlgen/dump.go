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


package main
// wlgen dump

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"lab.nexedi.com/kirr/go123/prog"
	"lab.nexedi.com/kirr/go123/xerr"

	"github.com/verdiwm/waynest-sub003/protocol"
)

// Dump prints summary of protocols of batch b to w.
//
// Every message is printed with its opcode as generated code uses it.
func Dump(w io.Writer, b *protocol.Batch) (err error) {
	defer xerr.Context(&err, "dump")

	emitf := func(format string, argv ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, argv...)
		}
	}

	for _, proto := range b.Protocols {
		emitf("protocol %s\n", proto.Name)
		for _, iface := range proto.Interfaces {
			emitf("interface %s v%d\n", iface.Name, iface.Version)
			for _, m := range iface.Requests {
				emitf("\t%s\n", dumpMessage(m))
			}
			for _, m := range iface.Events {
				emitf("\t%s\n", dumpMessage(m))
			}
			for _, e := range iface.Enums {
				kind := "enum"
				if e.Bitfield {
					kind = "bitfield"
				}
				emitf("\t%s %s\n", kind, e.Name)
				for _, entry := range e.Entries {
					emitf("\t\t%s = %#x\n", entry.Name, entry.Value)
				}
			}
		}
	}
	return err
}

// dumpMessage returns one-line summary of m, e.g.
//
//	request 1 get_registry(registry new_id<wl_registry>)
func dumpMessage(m *protocol.Message) string {
	argv := make([]string, len(m.Args))
	for i, arg := range m.Args {
		argv[i] = arg.Name + " " + dumpArgType(arg)
	}
	s := fmt.Sprintf("%s %d %s(%s)", m.Direction, m.Opcode, m.Name, strings.Join(argv, ", "))
	if m.Since > 1 {
		s += fmt.Sprintf(" since %d", m.Since)
	}
	if m.DeprecatedSince != 0 {
		s += fmt.Sprintf(" deprecated %d", m.DeprecatedSince)
	}
	if m.Destructor {
		s += " destructor"
	}
	return s
}

func dumpArgType(arg *protocol.Arg) string {
	s := arg.Type.String()
	switch {
	case arg.Generic():
		s += "<*>"
	case arg.Interface != nil:
		s += "<" + arg.Interface.Name + ">"
	case arg.Enum != nil:
		s += "<" + arg.Enum.FullName() + ">"
	}
	if arg.Nullable {
		s += "?"
	}
	return s
}

// ----------------------------------------

const dumpSummary = "print summary of Wayland protocol documents"

func dumpUsage(w io.Writer) {
	fmt.Fprintf(w,
`Usage: wlgen dump [OPTIONS] <protocol.xml> ...
Print interfaces, messages with their opcodes, and enums of protocol documents.

Documents are resolved together, so references between them are checked.

Options:

	-h --help       this help text.
`)
}

func dumpMain(argv []string) {
	flags := flag.FlagSet{Usage: func() { dumpUsage(os.Stderr) }}
	flags.Init("", flag.ExitOnError)
	flags.Parse(argv[1:])

	argv = flags.Args()
	if len(argv) == 0 {
		flags.Usage()
		prog.Exit(2)
	}

	b, err := Load(argv)
	if err != nil {
		prog.Fatal(err)
	}
	err = Dump(os.Stdout, b)
	if err != nil {
		prog.Fatal(err)
	}
}
