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
// loading of protocol documents

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"math/bits"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"lab.nexedi.com/kirr/go123/xerr"
)

// raw document structure as it is on disk.
type (
	xProtocol struct {
		XMLName     xml.Name      `xml:"protocol"`
		Name        string        `xml:"name,attr"`
		Copyright   string        `xml:"copyright"`
		Description *xDescription `xml:"description"`
		Interfaces  []xInterface  `xml:"interface"`
	}

	xDescription struct {
		Summary string `xml:"summary,attr"`
		Text    string `xml:",chardata"`
	}

	xInterface struct {
		Name        string        `xml:"name,attr"`
		Version     string        `xml:"version,attr"`
		Description *xDescription `xml:"description"`
		Requests    []xMessage    `xml:"request"`
		Events      []xMessage    `xml:"event"`
		Enums       []xEnum       `xml:"enum"`
	}

	xMessage struct {
		Name            string        `xml:"name,attr"`
		Type            string        `xml:"type,attr"`
		Since           string        `xml:"since,attr"`
		DeprecatedSince string        `xml:"deprecated-since,attr"`
		Description     *xDescription `xml:"description"`
		Args            []xArg        `xml:"arg"`
	}

	xArg struct {
		Name        string        `xml:"name,attr"`
		Type        string        `xml:"type,attr"`
		Summary     string        `xml:"summary,attr"`
		Interface   string        `xml:"interface,attr"`
		AllowNull   string        `xml:"allow-null,attr"`
		Enum        string        `xml:"enum,attr"`
		Description *xDescription `xml:"description"`
	}

	xEnum struct {
		Name        string        `xml:"name,attr"`
		Since       string        `xml:"since,attr"`
		Bitfield    string        `xml:"bitfield,attr"`
		Description *xDescription `xml:"description"`
		Entries     []xEntry      `xml:"entry"`
	}

	xEntry struct {
		Name            string        `xml:"name,attr"`
		Value           string        `xml:"value,attr"`
		Summary         string        `xml:"summary,attr"`
		Since           string        `xml:"since,attr"`
		DeprecatedSince string        `xml:"deprecated-since,attr"`
		Description     *xDescription `xml:"description"`
	}
)

// ParseFile loads protocol document from file at path.
func ParseFile(path string) (*Protocol, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse loads protocol document from r.
//
// path is used only in error messages and as Protocol.Path. All problems
// found in the document are reported together; see Errors.
func Parse(r io.Reader, path string) (*Protocol, error) {
	var xp xProtocol
	err := xml.NewDecoder(r).Decode(&xp)
	if err != nil {
		return nil, &DocumentError{Path: path, Reason: err.Error()}
	}

	l := &loader{}
	proto := l.protocol(&xp, path)
	if err := l.errv.Err(); err != nil {
		return nil, err
	}
	return proto, nil
}

// loader converts raw document into model collecting errors on the way.
type loader struct {
	errv xerr.Errorv
}

func (l *loader) fail(p path, format string, argv ...interface{}) {
	l.errv.Appendif(&DocumentError{Path: p.String(), Reason: fmt.Sprintf(format, argv...)})
}

func description(xd *xDescription) Description {
	if xd == nil {
		return Description{}
	}
	return Description{Summary: xd.Summary, Text: xd.Text}
}

func (l *loader) protocol(xp *xProtocol, docpath string) *Protocol {
	proto := &Protocol{
		Name:        xp.Name,
		Path:        docpath,
		Copyright:   xp.Copyright,
		Description: description(xp.Description),
	}

	p := path{xp.Name}
	if xp.Name == "" {
		p = path{filepath.Base(docpath)}
		l.fail(p, "protocol has no name")
	}

	seen := map[string]bool{}
	for i := range xp.Interfaces {
		iface := l.iface(p, &xp.Interfaces[i])
		if seen[iface.Name] {
			l.fail(p, "duplicate interface %q", iface.Name)
			continue
		}
		seen[iface.Name] = true
		iface.Protocol = proto
		proto.Interfaces = append(proto.Interfaces, iface)
	}
	return proto
}

func (l *loader) iface(p path, xi *xInterface) *Interface {
	p = p.with(xi.Name)
	iface := &Interface{
		Name:        xi.Name,
		Description: description(xi.Description),
	}
	if xi.Name == "" {
		l.fail(p, "interface has no name")
	}

	version, err := strconv.ParseUint(xi.Version, 10, 32)
	switch {
	case err != nil:
		l.fail(p, "invalid version %q", xi.Version)
	case version < 1:
		l.fail(p, "version must be >= 1")
	}
	iface.Version = uint32(version)

	for dir, xmv := range [...][]xMessage{Request: xi.Requests, Event: xi.Events} {
		dir := Direction(dir)
		if len(xmv) > math.MaxUint16+1 {
			l.fail(p, "too many %ss (%d)", dir, len(xmv))
			continue
		}

		seen := map[string]bool{}
		for i := range xmv {
			m := l.message(p.with(fmt.Sprintf("%s %s", dir, xmv[i].Name)), iface, &xmv[i])
			if seen[m.Name] {
				l.fail(p, "duplicate %s %q", dir, m.Name)
			}
			seen[m.Name] = true

			m.Interface = iface
			m.Direction = dir
			m.Opcode = uint16(i)
			if dir == Request {
				iface.Requests = append(iface.Requests, m)
			} else {
				iface.Events = append(iface.Events, m)
			}
		}
	}

	seen := map[string]bool{}
	for i := range xi.Enums {
		e := l.enum(p.with("enum "+xi.Enums[i].Name), iface, &xi.Enums[i])
		if seen[e.Name] {
			l.fail(p, "duplicate enum %q", e.Name)
			continue
		}
		seen[e.Name] = true
		e.Interface = iface
		iface.Enums = append(iface.Enums, e)
	}

	return iface
}

// since parses since-like attribute; "" means 1.
func (l *loader) since(p path, attr, s string, iface *Interface) uint32 {
	if s == "" {
		return 1
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil || v < 1 {
		l.fail(p, "invalid %s %q", attr, s)
		return 1
	}
	if iface.Version != 0 && uint32(v) > iface.Version {
		l.fail(p, "%s %d > interface version %d", attr, v, iface.Version)
	}
	return uint32(v)
}

func (l *loader) boolean(p path, attr, s string) bool {
	switch s {
	case "", "false":
		return false
	case "true":
		return true
	}
	l.fail(p, "invalid %s %q", attr, s)
	return false
}

func (l *loader) message(p path, iface *Interface, xm *xMessage) *Message {
	m := &Message{
		Name:        xm.Name,
		Description: description(xm.Description),
	}
	if xm.Name == "" {
		l.fail(p, "message has no name")
	}

	switch xm.Type {
	case "":
	case "destructor":
		m.Destructor = true
	default:
		l.fail(p, "invalid type %q", xm.Type)
	}

	m.Since = l.since(p, "since", xm.Since, iface)
	if xm.DeprecatedSince != "" {
		m.DeprecatedSince = l.since(p, "deprecated-since", xm.DeprecatedSince, iface)
	}

	seen := map[string]bool{}
	for i := range xm.Args {
		arg := l.arg(p.with("arg "+xm.Args[i].Name), &xm.Args[i])
		if seen[arg.Name] {
			l.fail(p, "duplicate arg %q", arg.Name)
		}
		seen[arg.Name] = true
		m.Args = append(m.Args, arg)
	}
	return m
}

func (l *loader) arg(p path, xa *xArg) *Arg {
	arg := &Arg{
		Name:          xa.Name,
		Summary:       xa.Summary,
		Description:   description(xa.Description),
		InterfaceName: xa.Interface,
		EnumName:      xa.Enum,
	}
	if xa.Name == "" {
		l.fail(p, "arg has no name")
	}

	typ, ok := parseArgType(xa.Type)
	if !ok {
		l.fail(p, "unknown type %q", xa.Type)
		return arg
	}
	arg.Type = typ

	arg.Nullable = l.boolean(p, "allow-null", xa.AllowNull)
	if arg.Nullable && !typ.Nullable() {
		l.fail(p, "allow-null is not valid for %s", typ)
	}
	if xa.Interface != "" && typ != Object && typ != NewID {
		l.fail(p, "interface is not valid for %s", typ)
	}
	if xa.Enum != "" && typ != Int && typ != Uint {
		l.fail(p, "enum is not valid for %s", typ)
	}
	return arg
}

func (l *loader) enum(p path, iface *Interface, xe *xEnum) *Enum {
	e := &Enum{
		Name:        xe.Name,
		Description: description(xe.Description),
	}
	if xe.Name == "" {
		l.fail(p, "enum has no name")
	}
	e.Since = l.since(p, "since", xe.Since, iface)
	e.Bitfield = l.boolean(p, "bitfield", xe.Bitfield)

	seen := map[string]bool{}
	for i := range xe.Entries {
		xentry := &xe.Entries[i]
		pe := p.with("entry " + xentry.Name)
		entry := &Entry{
			Name:        xentry.Name,
			Summary:     xentry.Summary,
			Description: description(xentry.Description),
		}
		if entry.Name == "" {
			l.fail(pe, "entry has no name")
		}
		if seen[entry.Name] {
			l.fail(p, "duplicate entry %q", entry.Name)
		}
		seen[entry.Name] = true

		v, err := parseValue(xentry.Value)
		if err != nil {
			l.fail(pe, "invalid value %q: %s", xentry.Value, err)
		}
		entry.Value = v
		if e.Bitfield && bits.OnesCount32(v) > 1 {
			l.fail(pe, "bitfield value %#x is not a power of two", v)
		}

		entry.Since = l.since(pe, "since", xentry.Since, iface)
		if xentry.DeprecatedSince != "" {
			entry.DeprecatedSince = l.since(pe, "deprecated-since", xentry.DeprecatedSince, iface)
		}
		e.Entries = append(e.Entries, entry)
	}
	return e
}

// parseValue parses enum entry value: decimal or 0x-prefixed hex uint32.
func parseValue(s string) (uint32, error) {
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		base = 16
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		if nerr, ok := err.(*strconv.NumError); ok {
			err = nerr.Err
		}
		return 0, err
	}
	return uint32(v), nil
}
