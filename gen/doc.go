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

package gen
// doc comments from protocol descriptions

import (
	"strings"

	"github.com/verdiwm/waynest-sub003/protocol"
)

// dedent removes blank lines around text and indentation common to all
// its non-blank lines.
func dedent(text string) []string {
	linev := strings.Split(strings.ReplaceAll(text, "\t", "        "), "\n")
	for i := range linev {
		linev[i] = strings.TrimRight(linev[i], " \r")
	}

	for len(linev) > 0 && linev[0] == "" {
		linev = linev[1:]
	}
	for len(linev) > 0 && linev[len(linev)-1] == "" {
		linev = linev[:len(linev)-1]
	}

	indent := -1
	for _, line := range linev {
		if line == "" {
			continue
		}
		n := len(line) - len(strings.TrimLeft(line, " "))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	for i, line := range linev {
		if len(line) >= indent && indent > 0 {
			linev[i] = line[indent:]
		}
	}
	return linev
}

// emitDoc emits doc comment starting with head followed by text of d.
//
// head is the first sentence, e.g. "Sync is wl_display.sync request".
func (b *Buffer) emitDoc(head string, d protocol.Description) {
	summary := strings.TrimSpace(d.Summary)
	if summary != "" {
		head += ": " + summary
	}
	b.comment(head)

	linev := dedent(d.Text)
	if len(linev) == 0 {
		return
	}
	b.emit("//")
	for _, line := range linev {
		b.comment(line)
	}
}

// comment emits one comment line.
func (b *Buffer) comment(line string) {
	line = strings.ReplaceAll(line, "\n", " ")
	if line == "" {
		b.emit("//")
		return
	}
	b.emit("// %s", line)
}

// trailing returns text suitable for a trailing comment, or "".
func trailing(summary string) string {
	summary = strings.Join(strings.Fields(summary), " ")
	if summary == "" {
		return ""
	}
	return " // " + summary
}
