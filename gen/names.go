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
// Go identifiers for protocol names

import (
	"go/token"
	"strings"
	"unicode"
)

// camel converts snake_case name to CamelCase: "shm_pool" -> "ShmPool".
func camel(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		r := []rune(part)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// lowerCamel converts snake_case name to lowerCamel: "callback_data" -> "callbackData".
func lowerCamel(name string) string {
	s := []rune(camel(name))
	if len(s) == 0 {
		return "_"
	}
	s[0] = unicode.ToLower(s[0])
	return string(s)
}

// ifaceIdent returns base Go name for interface: the core "wl_" prefix is
// dropped as the package already tells the protocol, "wl_shm_pool" ->
// "ShmPool". Other prefixes are kept: "xdg_wm_base" -> "XdgWmBase".
func ifaceIdent(name string) string {
	return camel(strings.TrimPrefix(name, "wl_"))
}

// pkgName returns Go package name for protocol: "xdg_shell" -> "xdgshell".
func pkgName(protoName string) string {
	name := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(protoName))
	if name == "" || !token.IsIdentifier(name) || token.Lookup(name).IsKeyword() {
		name = "p" + name
	}
	return name
}

// reservedLocal are names argument variables must not take in generated
// functions: keywords, predeclared identifiers, locals and imports of
// generated code.
var reservedLocal = map[string]bool{
	// locals
	"ctx": true, "o": true, "c": true, "h": true, "m": true, "r": true,
	"b": true, "err": true,
	// imports
	"context": true, "os": true, "runtime": true, "strconv": true,
	"wire": true, "wlnet": true,
	// predeclared
	"bool": true, "byte": true, "error": true, "int32": true, "uint32": true,
	"string": true, "len": true, "nil": true, "true": true, "false": true,
	"iota": true, "append": true, "make": true, "new": true,
}

// argIdent returns Go name for argument variable.
//
// imports are names of packages imported by the generated file.
func argIdent(name string, imports map[string]bool) string {
	id := lowerCamel(name)
	if token.Lookup(id).IsKeyword() || reservedLocal[id] || imports[id] {
		id += "_"
	}
	return id
}
