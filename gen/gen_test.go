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

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/maxatome/go-testdeep/td"

	"github.com/verdiwm/waynest-sub003/protocol"
)

const coreDoc = `<?xml version="1.0" encoding="UTF-8"?>
<protocol name="core">
  <copyright>
    Copyright © 2024 someone
  </copyright>

  <interface name="wl_display" version="1">
    <description summary="core global object">
      The core global object.
    </description>
    <request name="sync">
      <description summary="asynchronous roundtrip">
        Asks for done event.
      </description>
      <arg name="callback" type="new_id" interface="wl_callback" summary="callback object"/>
    </request>
    <request name="get_registry">
      <arg name="registry" type="new_id" interface="wl_registry"/>
    </request>
    <event name="error">
      <arg name="object_id" type="object" summary="object where the error occurred"/>
      <arg name="code" type="uint"/>
      <arg name="message" type="string"/>
    </event>
    <event name="delete_id">
      <arg name="id" type="uint"/>
    </event>
  </interface>

  <interface name="wl_registry" version="1">
    <request name="bind">
      <arg name="name" type="uint"/>
      <arg name="id" type="new_id"/>
    </request>
    <event name="global">
      <arg name="name" type="uint"/>
      <arg name="interface" type="string"/>
      <arg name="version" type="uint"/>
    </event>
  </interface>

  <interface name="wl_callback" version="1">
    <event name="done" type="destructor">
      <arg name="callback_data" type="uint"/>
    </event>
  </interface>

  <interface name="wl_shm" version="2">
    <enum name="format">
      <entry name="argb8888" value="0" summary="32-bit ARGB format"/>
      <entry name="xrgb8888" value="1"/>
      <entry name="c8" value="0x20203843"/>
    </enum>
    <enum name="flags" bitfield="true">
      <entry name="none" value="0"/>
      <entry name="a" value="1"/>
      <entry name="b" value="0x4"/>
    </enum>
    <request name="create_pool">
      <arg name="id" type="new_id" interface="wl_shm_pool"/>
      <arg name="fd" type="fd"/>
      <arg name="size" type="int"/>
    </request>
    <request name="set_title" since="2">
      <arg name="title" type="string" allow-null="true"/>
      <arg name="flags" type="uint" enum="flags"/>
      <arg name="data" type="array"/>
      <arg name="scale" type="fixed"/>
    </request>
    <event name="format">
      <arg name="format" type="uint" enum="format"/>
    </event>
  </interface>

  <interface name="wl_shm_pool" version="1">
    <request name="destroy" type="destructor"/>
    <request name="resize">
      <arg name="size" type="int"/>
    </request>
  </interface>
</protocol>
`

func xbatch(t *testing.T, docv ...string) *protocol.Batch {
	t.Helper()
	var protov []*protocol.Protocol
	for i, doc := range docv {
		proto, err := protocol.Parse(strings.NewReader(doc), fmt.Sprintf("doc%d.xml", i))
		if err != nil {
			t.Fatal(err)
		}
		protov = append(protov, proto)
	}
	b, err := protocol.Resolve(protov...)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func xgenerate(t *testing.T, b *protocol.Batch, role Role, opt Options) []File {
	t.Helper()
	filev, err := Generate(b, role, opt)
	if err != nil {
		t.Fatal(err)
	}
	return filev
}

// positions of all parsed generated files
var fset = token.NewFileSet()

func xparseGo(t *testing.T, f File) *ast.File {
	t.Helper()
	astf, err := parser.ParseFile(fset, f.Path, f.Source, parser.ParseComments)
	if err != nil {
		t.Fatalf("%s: %s\n%s", f.Path, err, f.Source)
	}
	return astf
}

// decls returns names of top-level declarations of f; methods as "T.M".
func decls(f *ast.File) map[string]bool {
	namev := map[string]bool{}
	for _, decl := range f.Decls {
		switch decl := decl.(type) {
		case *ast.FuncDecl:
			name := decl.Name.Name
			if decl.Recv != nil {
				typ := decl.Recv.List[0].Type
				if star, ok := typ.(*ast.StarExpr); ok {
					typ = star.X
				}
				name = typ.(*ast.Ident).Name + "." + name
			}
			namev[name] = true
		case *ast.GenDecl:
			for _, spec := range decl.Specs {
				switch spec := spec.(type) {
				case *ast.TypeSpec:
					namev[spec.Name.Name] = true
				case *ast.ValueSpec:
					for _, id := range spec.Names {
						namev[id.Name] = true
					}
				}
			}
		}
	}
	return namev
}

// methods returns method names of interface type typ declared in f.
func methods(f *ast.File, typ string) []string {
	var namev []string
	ast.Inspect(f, func(n ast.Node) bool {
		spec, ok := n.(*ast.TypeSpec)
		if !ok || spec.Name.Name != typ {
			return true
		}
		for _, field := range spec.Type.(*ast.InterfaceType).Methods.List {
			namev = append(namev, field.Names[0].Name)
		}
		return false
	})
	return namev
}

// funcSource returns printed source of function or method name ("T.M") in f.
func funcSource(t *testing.T, f *ast.File, name string) string {
	t.Helper()
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		fname := fn.Name.Name
		if fn.Recv != nil {
			typ := fn.Recv.List[0].Type
			if star, ok := typ.(*ast.StarExpr); ok {
				typ = star.X
			}
			fname = typ.(*ast.Ident).Name + "." + fname
		}
		if fname == name {
			var buf bytes.Buffer
			printer.Fprint(&buf, fset, fn)
			return buf.String()
		}
	}
	t.Fatalf("no func %s", name)
	return ""
}

// stripComments returns source with all comments removed.
func stripComments(t *testing.T, src []byte) string {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "", src, 0) // without comments
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, f); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestGenerateClient(t *testing.T) {
	b := xbatch(t, coreDoc)
	filev := xgenerate(t, b, Client, Options{})
	td.Cmp(t, len(filev), 1)
	f := filev[0]
	td.Cmp(t, f.Path, "client/core/core.go")
	td.Cmp(t, f.Protocol, b.Protocols[0])

	astf := xparseGo(t, f)
	td.Cmp(t, astf.Name.Name, "core")
	src := string(f.Source)
	td.CmpTrue(t, strings.HasPrefix(src, "// Code generated by wlgen; DO NOT EDIT.\n"))
	td.CmpContains(t, src, "Copyright © 2024 someone")

	namev := decls(astf)
	for _, name := range []string{
		"DisplayID", "DisplayVersion", "DisplayInterface", "DisplayHandler",
		"Display", "Display.SetHandler", "Display.Sync", "Display.GetRegistry",
		"DispatchDisplay", "DisplayDispatcher",
		"Registry.Bind", "Callback", "CallbackHandler",
		"ShmFormat", "ShmFormatArgb8888", "ShmFormatC8", "ShmFormatFromUint32",
		"ShmFormat.String", "ShmFormat.Uint32",
		"ShmFlags", "ShmFlagsMask", "ShmFlags.Has", "ShmFlags.Union",
		"ShmPool.Destroy", "ShmPool.Resize", "Shm.CreatePool", "Shm.SetTitle",
	} {
		if !namev[name] {
			t.Errorf("%s not generated", name)
		}
	}

	// client receives events: no request handlers, no event senders
	td.Cmp(t, methods(astf, "DisplayHandler"), []string{"Error", "DeleteId"})
	td.Cmp(t, methods(astf, "ShmPoolHandler"), []string(nil))
	for _, name := range []string{"Display.Error", "Callback.Done"} {
		if namev[name] {
			t.Errorf("client must not send %s", name)
		}
	}

	sync := funcSource(t, astf, "Display.Sync")
	td.CmpContains(t, sync, "(*Callback, error)")
	td.CmpContains(t, sync, "o.Conn.Objects().NewID(CallbackInterface)")
	td.CmpContains(t, sync, "b.Build(wire.ObjectID(o.ID), 0)")

	bind := funcSource(t, astf, "Registry.Bind")
	td.CmpContains(t, bind, "idInterface *wlnet.Interface, idVersion uint32) (wire.ObjectID, error)")
	td.CmpContains(t, bind, "if idInterface == nil {")
	td.CmpContains(t, bind, "id, err := o.Conn.Objects().NewID(idInterface)")
	td.CmpContains(t, bind, "b.PutGenericNewID(idInterface.Name, idVersion, id)")

	destroy := funcSource(t, astf, "ShmPool.Destroy")
	td.CmpContains(t, destroy, "o.Conn.Objects().Release(wire.ObjectID(o.ID))")

	createPool := funcSource(t, astf, "Shm.CreatePool")
	td.CmpContains(t, createPool, "fd *os.File")
	td.CmpContains(t, createPool, "runtime.KeepAlive(fd)")

	done := funcSource(t, astf, "callbackRecvDone")
	td.CmpContains(t, done, "defer c.Objects().Release(m.Sender)")
}

func TestGenerateServer(t *testing.T) {
	b := xbatch(t, coreDoc)
	f := xgenerate(t, b, Server, Options{Generator: "wltest"})[0]
	td.Cmp(t, f.Path, "server/core/core.go")
	astf := xparseGo(t, f)
	td.CmpTrue(t, bytes.HasPrefix(f.Source, []byte("// Code generated by wltest; DO NOT EDIT.\n")))

	namev := decls(astf)
	for _, name := range []string{"Display.Error", "Display.DeleteId", "Callback.Done", "Registry.Global"} {
		if !namev[name] {
			t.Errorf("%s not generated", name)
		}
	}
	td.Cmp(t, methods(astf, "DisplayHandler"), []string{"Sync", "GetRegistry"})
	td.Cmp(t, methods(astf, "RegistryHandler"), []string{"Bind"})

	sync := funcSource(t, astf, "displayRecvSync")
	td.CmpContains(t, sync, "c.Objects().Register(callback, CallbackInterface)")
	td.CmpContains(t, sync, "&Callback{Conn: c, ID: CallbackID(callback)}")

	bind := funcSource(t, astf, "registryRecvBind")
	td.CmpContains(t, bind, "idName, idVersion, id := r.GenericNewID()")
	td.CmpContains(t, bind, "c.Objects().RegisterName(id, idName)")

	// enum typed argument is validated while decoding
	title := funcSource(t, astf, "shmRecvSetTitle")
	td.CmpContains(t, title, "ShmFlagsFromUint32(r.Uint32())")
	td.CmpContains(t, title, "r.NullString()")

	// the destroy request is handled and releases the pool
	destroy := funcSource(t, astf, "shmPoolRecvDestroy")
	td.CmpContains(t, destroy, "defer c.Objects().Release(m.Sender)")
}

func TestEnumCoverage(t *testing.T) {
	b := xbatch(t, coreDoc)
	f := xgenerate(t, b, Client, Options{})[0]
	astf := xparseGo(t, f)

	for _, e := range b.Interface("wl_shm").Enums {
		typ := enumIdent(e)
		from := funcSource(t, astf, typ+"FromUint32")
		str := funcSource(t, astf, typ+".String")
		for _, entry := range e.Entries {
			ident := typ + camel(entry.Name)
			if !decls(astf)[ident] {
				t.Errorf("%s: entry %s not generated", e, entry.Name)
			}
			if !e.Bitfield {
				td.CmpContains(t, from, ident)
			}
			td.CmpContains(t, str, `"`+entry.Name+`"`)
		}
	}

	td.Cmp(t, string(f.Source), td.Re(`ShmFormatC8\s+ShmFormat = 0x20203843`))
	td.CmpContains(t, string(f.Source), "ShmFlagsMask ShmFlags = 0x5")
	td.CmpContains(t, funcSource(t, astf, "ShmFormatFromUint32"), `wire.InvalidEnum("wl_shm.format", v)`)
	td.CmpContains(t, funcSource(t, astf, "ShmFlagsFromUint32"), `wire.InvalidBits("wl_shm.flags", v)`)
}

// documentation does not influence generated code.
func TestOpcodeStabilityUnderDocs(t *testing.T) {
	redoc := strings.NewReplacer(
		`summary="asynchronous roundtrip"`, `summary="round trip"`,
		"Asks for done event.", "Completely\n    different text.",
		`summary="callback object"`, "",
		`summary="32-bit ARGB format"`, `summary="ARGB"`,
	).Replace(coreDoc)
	if redoc == coreDoc {
		t.Fatal("documentation not changed")
	}

	for _, role := range []Role{Client, Server} {
		f1 := xgenerate(t, xbatch(t, coreDoc), role, Options{})[0]
		f2 := xgenerate(t, xbatch(t, redoc), role, Options{})[0]
		if bytes.Equal(f1.Source, f2.Source) {
			t.Fatalf("%s: documentation did not reach generated code", role)
		}
		s1 := stripComments(t, f1.Source)
		s2 := stripComments(t, f2.Source)
		if s1 != s2 {
			t.Errorf("%s: code changed with documentation:\n%s", role, diff.Diff(s1, s2))
		}
	}
}

// reordering requests changes opcodes in a detectable way.
func TestOpcodeReorder(t *testing.T) {
	const pool = `    <request name="destroy" type="destructor"/>
    <request name="resize">
      <arg name="size" type="int"/>
    </request>
`
	const swapped = `    <request name="resize">
      <arg name="size" type="int"/>
    </request>
    <request name="destroy" type="destructor"/>
`
	redoc := strings.Replace(coreDoc, pool, swapped, 1)
	if redoc == coreDoc {
		t.Fatal("requests not reordered")
	}

	f1 := xparseGo(t, xgenerate(t, xbatch(t, coreDoc), Client, Options{})[0])
	f2 := xparseGo(t, xgenerate(t, xbatch(t, redoc), Client, Options{})[0])
	td.CmpContains(t, funcSource(t, f1, "ShmPool.Resize"), "b.Build(wire.ObjectID(o.ID), 1)")
	td.CmpContains(t, funcSource(t, f2, "ShmPool.Resize"), "b.Build(wire.ObjectID(o.ID), 0)")

	s1 := xgenerate(t, xbatch(t, coreDoc), Server, Options{})[0].Source
	s2 := xgenerate(t, xbatch(t, redoc), Server, Options{})[0].Source
	if stripComments(t, s1) == stripComments(t, s2) {
		t.Error("server code did not change with request order")
	}
	td.CmpContains(t, string(s2), "0: shmPoolRecvResize,")
}

const baseDoc = `<protocol name="base">
  <interface name="base_surface" version="1">
    <enum name="kind">
      <entry name="plain" value="0"/>
    </enum>
    <request name="commit"/>
  </interface>
</protocol>
`

const extDoc = `<protocol name="ext">
  <interface name="ext_decoration" version="1">
    <request name="attach">
      <arg name="surface" type="object" interface="base_surface"/>
      <arg name="kind" type="uint" enum="base_surface.kind"/>
    </request>
    <request name="get_subsurface">
      <arg name="id" type="new_id" interface="base_surface"/>
    </request>
  </interface>
</protocol>
`

// references to interfaces of another protocol are fully qualified.
func TestCrossProtocol(t *testing.T) {
	b := xbatch(t, baseDoc, extDoc)
	filev := xgenerate(t, b, Client, Options{ImportPrefix: "example.com/gen/"})
	td.Cmp(t, len(filev), 2)
	td.Cmp(t, filev[0].Path, "client/base/base.go")
	td.Cmp(t, filev[1].Path, "client/ext/ext.go")

	base := xparseGo(t, filev[0])
	td.Cmp(t, len(base.Imports) > 0, true)
	for _, imp := range base.Imports {
		td.CmpNot(t, imp.Path.Value, `"example.com/gen/client/ext"`)
	}

	ext := xparseGo(t, filev[1])
	var importv []string
	for _, imp := range ext.Imports {
		importv = append(importv, imp.Path.Value)
	}
	td.Cmp(t, importv, td.Contains(`"example.com/gen/client/base"`))

	attach := funcSource(t, ext, "ExtDecoration.Attach")
	td.CmpContains(t, attach, "surface base.BaseSurfaceID")
	td.CmpContains(t, attach, "kind base.BaseSurfaceKind")
	td.CmpContains(t, attach, "b.PutObject(wire.ObjectID(surface))")

	sub := funcSource(t, ext, "ExtDecoration.GetSubsurface")
	td.CmpContains(t, sub, "(*base.BaseSurface, error)")
	td.CmpContains(t, sub, "NewID(base.BaseSurfaceInterface)")

	srv := xparseGo(t, xgenerate(t, b, Server, Options{ImportPrefix: "example.com/gen"})[1])
	recv := funcSource(t, srv, "extDecorationRecvAttach")
	td.CmpContains(t, recv, "base.BaseSurfaceID(r.Object())")
	td.CmpContains(t, recv, "base.BaseSurfaceKindFromUint32(r.Uint32())")
}

func TestImportPrefixRequired(t *testing.T) {
	b := xbatch(t, baseDoc, extDoc)
	_, err := Generate(b, Client, Options{})
	td.CmpNotNil(t, err)
	td.CmpContains(t, err.Error(), "import prefix is required")
}

func TestImportCycle(t *testing.T) {
	const p = `<protocol name="p">
  <interface name="p_a" version="1">
    <request name="r"><arg name="b" type="object" interface="q_b"/></request>
  </interface>
</protocol>`
	const q = `<protocol name="q">
  <interface name="q_b" version="1">
    <request name="r"><arg name="a" type="object" interface="p_a"/></request>
  </interface>
</protocol>`
	b := xbatch(t, p, q)
	filev, err := Generate(b, Server, Options{ImportPrefix: "example.com/gen"})
	td.Cmp(t, filev, []File(nil))
	td.CmpNotNil(t, err)
	var derr *protocol.DocumentError
	td.CmpTrue(t, errors.As(err, &derr))
	td.CmpContains(t, err.Error(), "import cycle")
}

func TestIdentifierCollision(t *testing.T) {
	const doc = `<protocol name="clash">
  <interface name="wl_thing" version="1"><request name="a"/></interface>
  <interface name="thing" version="1"><request name="b"/></interface>
</protocol>`
	b := xbatch(t, doc)
	filev, err := Generate(b, Client, Options{})
	td.Cmp(t, filev, []File(nil))
	td.CmpNotNil(t, err)
	td.CmpContains(t, err.Error(), "identifier Thing is generated for both wl_thing and thing")
}

func TestInvalidRole(t *testing.T) {
	_, err := Generate(xbatch(t, baseDoc), Role(7), Options{})
	td.CmpNotNil(t, err)
}

// generation is a pure function of its input.
func TestDeterministic(t *testing.T) {
	b := xbatch(t, baseDoc, extDoc, coreDoc)
	opt := Options{ImportPrefix: "example.com/gen"}
	f1 := xgenerate(t, b, Server, opt)
	f2 := xgenerate(t, b, Server, opt)
	td.Cmp(t, len(f1), 3)
	for i := range f1 {
		td.Cmp(t, f1[i].Path, f2[i].Path)
		if !bytes.Equal(f1[i].Source, f2[i].Source) {
			t.Errorf("%s: output differs between runs:\n%s", f1[i].Path,
				diff.Diff(string(f1[i].Source), string(f2[i].Source)))
		}
	}
}

func TestNames(t *testing.T) {
	testv := []struct {
		in, camel, lower, iface, pkg string
	}{
		{"wl_shm_pool", "WlShmPool", "wlShmPool", "ShmPool", "wlshmpool"},
		{"xdg_wm_base", "XdgWmBase", "xdgWmBase", "XdgWmBase", "xdgwmbase"},
		{"a", "A", "a", "A", "a"},
		{"__x__y", "XY", "xY", "XY", "xy"},
	}
	for _, tt := range testv {
		td.Cmp(t, camel(tt.in), tt.camel, "camel %q", tt.in)
		td.Cmp(t, lowerCamel(tt.in), tt.lower, "lowerCamel %q", tt.in)
		td.Cmp(t, ifaceIdent(tt.in), tt.iface, "ifaceIdent %q", tt.in)
		td.Cmp(t, pkgName(tt.in), tt.pkg, "pkgName %q", tt.in)
	}

	td.Cmp(t, pkgName("xdg-shell"), "xdgshell")
	td.Cmp(t, pkgName("func"), "pfunc")
	td.Cmp(t, pkgName("9p"), "p9p")

	imports := map[string]bool{"base": true}
	td.Cmp(t, argIdent("interface", imports), "interface_")
	td.Cmp(t, argIdent("err", imports), "err_")
	td.Cmp(t, argIdent("base", imports), "base_")
	td.Cmp(t, argIdent("object_id", imports), "objectId")
}

func TestDedent(t *testing.T) {
	td.Cmp(t, dedent("\n\n    a\n      b\n\n    c\n  "), []string{"a", "  b", "", "c"})
	td.Cmp(t, dedent("\tx"), []string{"x"})
	td.Cmp(t, dedent(""), td.Empty())
}
