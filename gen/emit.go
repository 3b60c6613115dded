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
// emission of one protocol package

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"lab.nexedi.com/kirr/go123/xerr"

	"github.com/verdiwm/waynest-sub003/protocol"
)

const (
	wirePkg  = "github.com/verdiwm/waynest-sub003/wire"
	wlnetPkg = "github.com/verdiwm/waynest-sub003/wlnet"
)

// names of endpoint members other than outbound messages
var endpointReserved = map[string]bool{
	"Conn":       true,
	"ID":         true,
	"SetHandler": true,
}

// pkgGen generates package for one protocol and role.
type pkgGen struct {
	batch *protocol.Batch
	proto *protocol.Protocol
	role  Role
	opt   Options
	pkg   string

	imports     map[*protocol.Protocol]string // imported protocol -> package name
	importNames map[string]bool               // package names of imported protocols

	idents map[string]string // package-level identifier -> what it was generated for

	needOS      bool
	needRuntime bool
	needStrconv bool

	errv xerr.Errorv
}

func newPkgGen(b *protocol.Batch, proto *protocol.Protocol, role Role, opt Options) (*pkgGen, error) {
	g := &pkgGen{
		batch:       b,
		proto:       proto,
		role:        role,
		opt:         opt,
		pkg:         pkgName(proto.Name),
		imports:     make(map[*protocol.Protocol]string),
		importNames: make(map[string]bool),
		idents:      make(map[string]string),
	}

	for _, dep := range b.Imports(proto) {
		if opt.ImportPrefix == "" {
			return nil, errors.Errorf("protocol %s references protocol %s: import prefix is required", proto.Name, dep.Name)
		}
		name := pkgName(dep.Name)
		if name == g.pkg || g.importNames[name] || reservedLocal[name] {
			return nil, &protocol.DocumentError{
				Path:   proto.Name,
				Reason: fmt.Sprintf("package name %q of imported protocol %s is ambiguous", name, dep.Name),
			}
		}
		g.imports[dep] = name
		g.importNames[name] = true
	}
	return g, nil
}

// declare records package-level identifier ident generated for what.
func (g *pkgGen) declare(ident, what string) {
	if have, ok := g.idents[ident]; ok {
		g.errv.Appendif(&protocol.DocumentError{
			Path:   g.proto.Name,
			Reason: fmt.Sprintf("identifier %s is generated for both %s and %s", ident, have, what),
		})
		return
	}
	g.idents[ident] = what
}

// qual returns ident defined in package generated for proto as seen from
// the package being generated.
func (g *pkgGen) qual(proto *protocol.Protocol, ident string) string {
	if proto == g.proto {
		return ident
	}
	return g.imports[proto] + "." + ident
}

func (g *pkgGen) endpointType(iface *protocol.Interface) string {
	return g.qual(iface.Protocol, ifaceIdent(iface.Name))
}

func (g *pkgGen) idType(iface *protocol.Interface) string {
	return g.qual(iface.Protocol, ifaceIdent(iface.Name)+"ID")
}

func (g *pkgGen) descriptor(iface *protocol.Interface) string {
	return g.qual(iface.Protocol, ifaceIdent(iface.Name)+"Interface")
}

func (g *pkgGen) enumType(e *protocol.Enum) string {
	return g.qual(e.Interface.Protocol, enumIdent(e))
}

func enumIdent(e *protocol.Enum) string {
	return ifaceIdent(e.Interface.Name) + camel(e.Name)
}

// argType returns Go type of arg as passed to handlers and endpoint methods.
//
// Generic new_id is not handled here: it expands into several parameters.
func (g *pkgGen) argType(arg *protocol.Arg) string {
	switch arg.Type {
	case protocol.Int:
		if arg.Enum != nil {
			return g.enumType(arg.Enum)
		}
		return "int32"
	case protocol.Uint:
		if arg.Enum != nil {
			return g.enumType(arg.Enum)
		}
		return "uint32"
	case protocol.Fixed:
		return "wire.Fixed"
	case protocol.String:
		if arg.Nullable {
			return "*string"
		}
		return "string"
	case protocol.Object:
		if arg.Interface != nil {
			return g.idType(arg.Interface)
		}
		return "wire.ObjectID"
	case protocol.NewID:
		return "*" + g.endpointType(arg.Interface)
	case protocol.Array:
		return "[]byte"
	case protocol.FD:
		g.needOS = true
		return "*os.File"
	}
	panic(fmt.Sprintf("arg %s: unexpected type %s", arg.Name, arg.Type))
}

// argNames returns Go variables for arguments of m.
func (g *pkgGen) argNames(m *protocol.Message) []string {
	argv := make([]string, len(m.Args))
	for i, arg := range m.Args {
		argv[i] = argIdent(arg.Name, g.importNames)
	}
	return argv
}

// generate emits the whole package source.
func (g *pkgGen) generate() []byte {
	body := &Buffer{}
	for _, iface := range g.proto.Interfaces {
		g.emitInterface(body, iface)
	}

	b := &Buffer{}
	b.emit("// Code generated by %s; DO NOT EDIT.\n", g.opt.Generator)

	if linev := dedent(g.proto.Copyright); len(linev) > 0 {
		b.emit("// Protocol %s copyright:", g.proto.Name)
		b.emit("//")
		for _, line := range linev {
			b.comment(line)
		}
		b.emit("")
	}

	b.emitDoc(fmt.Sprintf("Package %s is %s side of Wayland protocol %s", g.pkg, g.role, g.proto.Name), g.proto.Description)
	b.emit("package %s\n", g.pkg)

	var stdv, ourv []string
	if len(g.proto.Interfaces) > 0 {
		stdv = append(stdv, "context")
		ourv = append(ourv, wirePkg, wlnetPkg)
	}
	if g.needOS {
		stdv = append(stdv, "os")
	}
	if g.needRuntime {
		stdv = append(stdv, "runtime")
	}
	if g.needStrconv {
		stdv = append(stdv, "strconv")
	}
	for dep, name := range g.imports {
		ourv = append(ourv, fmt.Sprintf("%s %q", name,
			strings.TrimSuffix(g.opt.ImportPrefix, "/")+"/"+PackagePath(g.role, dep)))
	}
	sort.Strings(stdv)
	sort.Strings(ourv)

	if len(stdv)+len(ourv) > 0 {
		b.emit("import (")
		for _, imp := range stdv {
			b.emit("%q", imp)
		}
		if len(stdv) > 0 && len(ourv) > 0 {
			b.emit("")
		}
		for _, imp := range ourv {
			if !strings.Contains(imp, " ") {
				imp = fmt.Sprintf("%q", imp)
			}
			b.emit("%s", imp)
		}
		b.emit(")\n")
	}

	b.Write(body.Bytes())
	return b.Bytes()
}

func (g *pkgGen) emitInterface(b *Buffer, iface *protocol.Interface) {
	name := ifaceIdent(iface.Name)
	lower := lowerCamel(name)
	g.declare(name, iface.Name)
	g.declare(name+"ID", iface.Name+" id")
	g.declare(name+"Version", iface.Name+" version")
	g.declare(name+"Interface", iface.Name+" descriptor")
	g.declare(name+"Handler", iface.Name+" handler")
	g.declare(name+"Dispatcher", iface.Name+" dispatcher")
	g.declare("Dispatch"+name, iface.Name+" dispatch")
	g.declare(lower+"DispatchTab", iface.Name+" dispatch table")

	b.emit("// ---- %s ----\n", iface.Name)

	b.emit("// %sID is id of %s object.", name, iface.Name)
	b.emit("type %sID wire.ObjectID\n", name)

	b.emit("// %sVersion is the highest version of %s this package implements.", name, iface.Name)
	b.emit("const %sVersion = %d\n", name, iface.Version)

	b.emit("// %sInterface describes %s to the connection runtime.", name, iface.Name)
	b.emit("var %sInterface = wlnet.RegisterInterface(&wlnet.Interface{", name)
	b.emit("Name: %q,", iface.Name)
	b.emit("Version: %d,", iface.Version)
	for _, dir := range []protocol.Direction{protocol.Request, protocol.Event} {
		field := "Requests"
		if dir == protocol.Event {
			field = "Events"
		}
		msgv := iface.Messages(dir)
		if len(msgv) == 0 {
			continue
		}
		b.emit("%s: []wlnet.Op{", field)
		for _, m := range msgv {
			op := fmt.Sprintf("Name: %q, Since: %d", m.Name, m.Since)
			if n := m.NumFDs(); n > 0 {
				op += fmt.Sprintf(", FDs: %d", n)
			}
			if m.Destructor {
				op += ", Destructor: true"
			}
			b.emit("{%s},", op)
		}
		b.emit("},")
	}
	b.emit("})\n")

	for _, e := range iface.Enums {
		g.emitEnum(b, iface, e)
	}

	g.emitHandler(b, iface)
	g.emitEndpoint(b, iface)
	g.emitDispatch(b, iface)
}

// ---- enums ----

// valueLit returns Go literal for enum value.
func valueLit(v uint32, hex bool) string {
	if hex || v >= 0x100 {
		return fmt.Sprintf("%#x", v)
	}
	return fmt.Sprintf("%d", v)
}

func (g *pkgGen) emitEnum(b *Buffer, iface *protocol.Interface, e *protocol.Enum) {
	typ := enumIdent(e)
	g.declare(typ, e.FullName())
	g.declare(typ+"FromUint32", e.FullName()+" converter")
	g.needStrconv = true

	kind := "enum"
	if e.Bitfield {
		kind = "bitfield"
	}
	b.emitDoc(fmt.Sprintf("%s is %s %s", typ, e.FullName(), kind), e.Description)
	if e.Since > 1 {
		b.emit("//")
		b.emit("// Since version %d.", e.Since)
	}
	b.emit("type %s uint32\n", typ)

	// entries with distinct values; first entry wins for aliases
	var uniqv []*protocol.Entry
	seen := map[uint32]bool{}
	if len(e.Entries) > 0 {
		b.emit("const (")
		for _, entry := range e.Entries {
			ident := typ + camel(entry.Name)
			g.declare(ident, e.FullName()+"."+entry.Name)
			if entry.Description.Text != "" {
				b.emitDoc(ident, entry.Description)
				b.emit("%s %s = %s", ident, typ, valueLit(entry.Value, e.Bitfield))
			} else {
				b.emit("%s %s = %s%s", ident, typ, valueLit(entry.Value, e.Bitfield), trailing(entry.Summary))
			}
			if !seen[entry.Value] {
				seen[entry.Value] = true
				uniqv = append(uniqv, entry)
			}
		}
		b.emit(")\n")
	}

	entryIdent := func(entry *protocol.Entry) string {
		return typ + camel(entry.Name)
	}

	if e.Bitfield {
		g.declare(typ+"Mask", e.FullName()+" mask")
		b.emit("// %sMask is union of all %s bits.", typ, e.FullName())
		b.emit("const %sMask %s = %s\n", typ, typ, valueLit(e.Mask(), true))

		b.emit("// %sFromUint32 converts v to %s.", typ, typ)
		b.emit("// Bits not declared by %s are rejected.", e.FullName())
		b.emit("func %sFromUint32(v uint32) (%s, error) {", typ, typ)
		b.emit("if v&^uint32(%sMask) != 0 {", typ)
		b.emit("return 0, wire.InvalidBits(%q, v)", e.FullName())
		b.emit("}")
		b.emit("return %s(v), nil", typ)
		b.emit("}\n")
	} else {
		b.emit("// %sFromUint32 converts v to %s.", typ, typ)
		b.emit("// Values not declared by %s are rejected.", e.FullName())
		b.emit("func %sFromUint32(v uint32) (%s, error) {", typ, typ)
		if len(uniqv) > 0 {
			b.emit("switch %s(v) {", typ)
			for i, entry := range uniqv {
				head, sep := "", ","
				if i == 0 {
					head = "case "
				}
				if i == len(uniqv)-1 {
					sep = ":"
				}
				b.emit("%s%s%s", head, entryIdent(entry), sep)
			}
			b.emit("return %s(v), nil", typ)
			b.emit("}")
		}
		b.emit("return 0, wire.InvalidEnum(%q, v)", e.FullName())
		b.emit("}\n")
	}

	b.emit("// Uint32 returns wire value of e.")
	b.emit("func (e %s) Uint32() uint32 {", typ)
	b.emit("return uint32(e)")
	b.emit("}\n")

	if e.Bitfield {
		b.emit("// Has returns whether all bits of f are set in e.")
		b.emit("func (e %s) Has(f %s) bool {", typ, typ)
		b.emit("return e&f == f")
		b.emit("}\n")

		b.emit("// Union returns e with bits of f added.")
		b.emit("func (e %s) Union(f %s) %s {", typ, typ, typ)
		b.emit("return e | f")
		b.emit("}\n")

		zero := "0"
		for _, entry := range uniqv {
			if entry.Value == 0 {
				zero = entry.Name
			}
		}
		b.emit("func (e %s) String() string {", typ)
		b.emit("if e == 0 {")
		b.emit("return %q", zero)
		b.emit("}")
		b.emit("s := \"\"")
		b.emit("add := func(name string) {")
		b.emit("if s != \"\" {")
		b.emit("s += \"|\"")
		b.emit("}")
		b.emit("s += name")
		b.emit("}")
		for _, entry := range uniqv {
			if entry.Value == 0 {
				continue
			}
			b.emit("if e&%s == %s {", entryIdent(entry), entryIdent(entry))
			b.emit("add(%q)", entry.Name)
			b.emit("}")
		}
		b.emit("if rest := e &^ %sMask; rest != 0 {", typ)
		b.emit("add(\"0x\" + strconv.FormatUint(uint64(rest), 16))")
		b.emit("}")
		b.emit("return s")
		b.emit("}\n")
	} else {
		b.emit("func (e %s) String() string {", typ)
		if len(uniqv) > 0 {
			b.emit("switch e {")
			for _, entry := range uniqv {
				b.emit("case %s:", entryIdent(entry))
				b.emit("return %q", entry.Name)
			}
			b.emit("}")
		}
		b.emit("return %q + strconv.FormatUint(uint64(e), 10) + \")\"", e.FullName()+"(")
		b.emit("}\n")
	}
}

// ---- messages ----

// emitMsgDoc emits doc comment of m with head as the first sentence.
func (g *pkgGen) emitMsgDoc(b *Buffer, head string, m *protocol.Message) {
	b.emitDoc(head, m.Description)

	var argdocv []string
	for _, arg := range m.Args {
		if summary := strings.Join(strings.Fields(arg.Summary), " "); summary != "" {
			argdocv = append(argdocv, fmt.Sprintf("  - %s: %s", argIdent(arg.Name, g.importNames), summary))
		}
	}
	if len(argdocv) > 0 {
		b.emit("//")
		b.emit("// Arguments:")
		b.emit("//")
		for _, doc := range argdocv {
			b.comment(doc)
		}
	}

	if m.Since > 1 {
		b.emit("//")
		b.emit("// Since version %d.", m.Since)
	}
	if m.DeprecatedSince != 0 {
		b.emit("//")
		b.emit("// Deprecated: deprecated since version %d.", m.DeprecatedSince)
	}
}

// handlerParams returns parameters of handler method for inbound m.
func (g *pkgGen) handlerParams(iface *protocol.Interface, m *protocol.Message) string {
	paramv := []string{"ctx context.Context", "o *" + ifaceIdent(iface.Name)}
	for i, v := range g.argNames(m) {
		arg := m.Args[i]
		if arg.Generic() {
			paramv = append(paramv,
				v+"Interface *wlnet.Interface",
				v+"Version uint32",
				v+" wire.ObjectID")
			continue
		}
		paramv = append(paramv, v+" "+g.argType(arg))
	}
	return strings.Join(paramv, ", ")
}

func (g *pkgGen) emitHandler(b *Buffer, iface *protocol.Interface) {
	name := ifaceIdent(iface.Name)
	dir := g.role.inbound()

	b.emit("// %sHandler handles %ss of %s.", name, dir, iface.Name)
	b.emit("//")
	b.emit("// Every method receives the object the %s was addressed to.", dir)
	b.emit("// Errors returned by methods are returned by Dispatch%s.", name)
	msgv := iface.Messages(dir)
	if len(msgv) == 0 {
		b.emit("type %sHandler interface{}\n", name)
		return
	}
	b.emit("type %sHandler interface {", name)
	for i, m := range msgv {
		if i > 0 {
			b.emit("")
		}
		method := camel(m.Name)
		g.emitMsgDoc(b, fmt.Sprintf("%s handles %s %s", method, m, dir), m)
		b.emit("%s(%s) error", method, g.handlerParams(iface, m))
	}
	b.emit("}\n")
}

func (g *pkgGen) emitEndpoint(b *Buffer, iface *protocol.Interface) {
	name := ifaceIdent(iface.Name)

	b.emitDoc(fmt.Sprintf("%s is %s object on a connection", name, iface.Name), iface.Description)
	b.emit("type %s struct {", name)
	b.emit("Conn *wlnet.Conn")
	b.emit("ID %sID", name)
	b.emit("}\n")

	b.emit("// SetHandler makes h handle %ss addressed to o.", g.role.inbound())
	b.emit("func (o *%s) SetHandler(h %sHandler) error {", name, name)
	b.emit("return o.Conn.Objects().Attach(wire.ObjectID(o.ID), %sDispatcher(h))", name)
	b.emit("}\n")

	for _, m := range iface.Messages(g.role.outbound()) {
		g.emitSend(b, iface, m)
	}
}

// emitSend emits endpoint method sending m.
func (g *pkgGen) emitSend(b *Buffer, iface *protocol.Interface, m *protocol.Message) {
	name := ifaceIdent(iface.Name)
	method := camel(m.Name)
	if endpointReserved[method] {
		method += "_"
	}
	argv := g.argNames(m)

	paramv := []string{"ctx context.Context"}
	var resultv, zerov, retv, newidv, tracev []string
	var fdv []string
	for i, v := range argv {
		arg := m.Args[i]
		switch {
		case arg.Generic():
			paramv = append(paramv, v+"Interface *wlnet.Interface", v+"Version uint32")
			resultv = append(resultv, "wire.ObjectID")
			zerov = append(zerov, "0")
			retv = append(retv, v)
			newidv = append(newidv, v)
			tracev = append(tracev, v+"Interface.Name", v+"Version", v)

		case arg.Type == protocol.NewID:
			typ := g.endpointType(arg.Interface)
			resultv = append(resultv, "*"+typ)
			zerov = append(zerov, "nil")
			retv = append(retv, fmt.Sprintf("&%s{Conn: o.Conn, ID: %s(%s)}", typ, g.idType(arg.Interface), v))
			newidv = append(newidv, v)
			tracev = append(tracev, v)

		default:
			paramv = append(paramv, v+" "+g.argType(arg))
			tracev = append(tracev, v)
			if arg.Type == protocol.FD {
				fdv = append(fdv, v)
			}
		}
	}
	resultv = append(resultv, "error")
	zerov = append(zerov, "err")
	retv = append(retv, "nil")

	results := strings.Join(resultv, ", ")
	if len(resultv) > 1 {
		results = "(" + results + ")"
	}

	g.emitMsgDoc(b, fmt.Sprintf("%s sends %s %s", method, m, m.Direction), m)
	if m.Destructor {
		b.emit("//")
		b.emit("// After the %s is sent o is released and must not be used.", m.Direction)
	}
	b.emit("func (o *%s) %s(%s) %s {", name, method, strings.Join(paramv, ", "), results)

	// allocate ids of created objects
	var allocated []string
	for i, v := range argv {
		arg := m.Args[i]
		if arg.Type != protocol.NewID {
			continue
		}
		var iface string
		if !arg.Generic() {
			iface = g.descriptor(arg.Interface)
		} else {
			iface = v + "Interface"
			b.emit("if %s == nil {", iface)
			g.emitRelease(b, allocated)
			b.emit("return %s, wire.Malformedf(%q)", strings.Join(zerov[:len(zerov)-1], ", "),
				fmt.Sprintf("%s: %s: nil interface", m, arg.Name))
			b.emit("}")
		}
		b.emit("%s, err := o.Conn.Objects().NewID(%s)", v, iface)
		b.emit("if err != nil {")
		g.emitRelease(b, allocated)
		b.emit("return %s", strings.Join(zerov, ", "))
		b.emit("}")
		allocated = append(allocated, v)
	}

	b.emit("var b wire.Builder")
	b.WriteString(generateCodecCode(m, argv, &encoder{commonCodeGen{g: g}}))

	b.emit("m, err := b.Build(wire.ObjectID(o.ID), %d)", m.Opcode)
	b.emit("if err == nil {")
	b.emit("if wlnet.Trace {")
	b.emit("o.Conn.Trace(wlnet.TraceSend, %sInterface, m%s)", name, prefixJoin(tracev))
	b.emit("}")
	b.emit("err = o.Conn.Send(ctx, m)")
	b.emit("}")
	if len(fdv) > 0 {
		g.needRuntime = true
		for _, v := range fdv {
			b.emit("runtime.KeepAlive(%s)", v)
		}
	}
	b.emit("if err != nil {")
	g.emitRelease(b, newidv)
	b.emit("return %s", strings.Join(zerov, ", "))
	b.emit("}")
	if m.Destructor {
		b.emit("o.Conn.Objects().Release(wire.ObjectID(o.ID))")
	}
	b.emit("return %s", strings.Join(retv, ", "))
	b.emit("}\n")
}

func (g *pkgGen) emitRelease(b *Buffer, idv []string) {
	for _, v := range idv {
		b.emit("o.Conn.Objects().Release(%s)", v)
	}
}

// prefixJoin returns ", a, b, c" for [a b c] and "" for [].
func prefixJoin(sv []string) string {
	if len(sv) == 0 {
		return ""
	}
	return ", " + strings.Join(sv, ", ")
}

// ---- dispatch ----

func (g *pkgGen) emitDispatch(b *Buffer, iface *protocol.Interface) {
	name := ifaceIdent(iface.Name)
	lower := lowerCamel(name)
	dir := g.role.inbound()
	tab := lower + "DispatchTab"
	sig := fmt.Sprintf("func(context.Context, *wlnet.Conn, %sHandler, *wire.Message) error", name)

	b.emit("// Dispatch%s decodes %s m addressed to %s object and invokes", name, dir, iface.Name)
	b.emit("// corresponding method of h.")
	b.emit("func Dispatch%s(ctx context.Context, c *wlnet.Conn, h %sHandler, m *wire.Message) error {", name, name)
	b.emit("if int(m.Opcode) >= len(%s) {", tab)
	b.emit("return wire.UnknownOpcode(%q, m.Opcode)", iface.Name)
	b.emit("}")
	b.emit("return %s[m.Opcode](ctx, c, h, m)", tab)
	b.emit("}\n")

	b.emit("// %sDispatcher returns dispatcher delivering %ss of %s object to h.", name, dir, iface.Name)
	b.emit("func %sDispatcher(h %sHandler) wlnet.Dispatcher {", name, name)
	b.emit("return wlnet.DispatcherFunc(func(ctx context.Context, c *wlnet.Conn, m *wire.Message) error {")
	b.emit("return Dispatch%s(ctx, c, h, m)", name)
	b.emit("})")
	b.emit("}\n")

	msgv := iface.Messages(dir)
	b.emit("// %ss of %s by opcode", dir, iface.Name)
	if len(msgv) == 0 {
		b.emit("var %s = [...]%s{}\n", tab, sig)
	} else {
		b.emit("var %s = [...]%s{", tab, sig)
		for _, m := range msgv {
			b.emit("%d: %sRecv%s,", m.Opcode, lower, camel(m.Name))
		}
		b.emit("}\n")
	}

	for _, m := range msgv {
		g.emitRecv(b, iface, m)
	}
}

// emitRecv emits function decoding inbound m and invoking the handler.
func (g *pkgGen) emitRecv(b *Buffer, iface *protocol.Interface, m *protocol.Message) {
	name := ifaceIdent(iface.Name)
	fn := lowerCamel(name) + "Recv" + camel(m.Name)
	g.declare(fn, m.String()+" decoder")
	argv := g.argNames(m)

	b.emit("func %s(ctx context.Context, c *wlnet.Conn, h %sHandler, m *wire.Message) error {", fn, name)
	b.emit("r := c.Reader(m)")
	b.WriteString(generateCodecCode(m, argv, &decoder{commonCodeGen{g: g}}))
	b.emit("if err := r.Finish(); err != nil {")
	b.emit("return err")
	b.emit("}")

	// register objects created by the peer
	callv := []string{"ctx", fmt.Sprintf("&%s{Conn: c, ID: %sID(m.Sender)}", name, name)}
	var tracev []string
	for i, v := range argv {
		arg := m.Args[i]
		switch {
		case arg.Generic():
			b.emit("%sInterface, err := c.Objects().RegisterName(%s, %sName)", v, v, v)
			b.emit("if err != nil {")
			b.emit("r.Discard()")
			b.emit("return err")
			b.emit("}")
			callv = append(callv, v+"Interface", v+"Version", v)
			tracev = append(tracev, v+"Name", v+"Version", v)

		case arg.Type == protocol.NewID:
			b.emit("if err := c.Objects().Register(%s, %s); err != nil {", v, g.descriptor(arg.Interface))
			b.emit("r.Discard()")
			b.emit("return err")
			b.emit("}")
			callv = append(callv, fmt.Sprintf("&%s{Conn: c, ID: %s(%s)}",
				g.endpointType(arg.Interface), g.idType(arg.Interface), v))
			tracev = append(tracev, v)

		default:
			callv = append(callv, v)
			tracev = append(tracev, v)
		}
	}

	b.emit("if wlnet.Trace {")
	b.emit("c.Trace(wlnet.TraceRecv, %sInterface, m%s)", name, prefixJoin(tracev))
	b.emit("}")
	if m.Destructor {
		b.emit("defer c.Objects().Release(m.Sender)")
	}
	b.emit("return h.%s(%s)", camel(m.Name), strings.Join(callv, ", "))
	b.emit("}\n")
}
