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


// Wlgen generates Go bindings for Wayland protocols.
//
// For every protocol document and role wlgen emits a Go package
// <output>/<role>/<name> built on top of packages wire and wlnet. See
// 'wlgen help' for commands.
package main

import "lab.nexedi.com/kirr/go123/prog"

var commands = prog.CommandRegistry{
	{Name: "generate", Summary: generateSummary, Usage: generateUsage, Main: generateMain},
	{Name: "watch",    Summary: watchSummary,    Usage: watchUsage,    Main: watchMain},
	{Name: "dump",     Summary: dumpSummary,     Usage: dumpUsage,     Main: dumpMain},
}

var helpTopics = prog.HelpRegistry{
	{Name: "config", Summary: "batch config file", Text: helpConfig},
}

const helpConfig =
`A batch of protocols can be described in TOML config file, e.g.

    output        = "."
    import_prefix = "example.com/proj/protocols"
    roles         = ["client", "server"]
    protocols     = ["wayland.xml", "xdg-shell.xml"]

output is the directory receiving <role>/<name> packages, import_prefix is
its Go import path. import_prefix is required when protocols reference
interfaces of each other. roles lists "client", "server" or "both".

Relative paths are taken relative to directory of the config file. Missing
output defaults to that directory. Command line options override values
from the file, and documents given on command line are added to protocols.
`

func main() {
	prog := prog.MainProg{
		Name:       "wlgen",
		Summary:    "Wlgen is a tool to generate Go bindings for Wayland protocols",
		Commands:   commands,
		HelpTopics: helpTopics,
	}

	prog.Main()
}
