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

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"github.com/verdiwm/waynest-sub003/gen"
	"github.com/verdiwm/waynest-sub003/protocol"
)

const demoDoc = `<?xml version="1.0" encoding="UTF-8"?>
<protocol name="demo">
  <interface name="demo_thing" version="2">
    <request name="destroy" type="destructor"/>
    <request name="set_mode" since="2">
      <arg name="mode" type="uint" enum="mode"/>
      <arg name="label" type="string" allow-null="true"/>
    </request>
    <event name="child">
      <arg name="id" type="new_id" interface="demo_thing"/>
    </event>
    <enum name="mode" bitfield="true">
      <entry name="a" value="1"/>
      <entry name="b" value="2"/>
    </enum>
  </interface>
</protocol>
`

// demoDoc with one more event
const demoDoc2 = `<?xml version="1.0" encoding="UTF-8"?>
<protocol name="demo">
  <interface name="demo_thing" version="2">
    <request name="destroy" type="destructor"/>
    <event name="child">
      <arg name="id" type="new_id" interface="demo_thing"/>
    </event>
    <event name="gone"/>
  </interface>
</protocol>
`

// xwrite writes file at path replacing it atomically.
func xwrite(t *testing.T, path, data string) {
	t.Helper()
	err := writeFile(path, []byte(data))
	require.NoError(t, err)
}

func xread(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestParseRoles(t *testing.T) {
	testv := []struct {
		in   []string
		want []gen.Role
		ok   bool
	}{
		{[]string{"client"}, []gen.Role{gen.Client}, true},
		{[]string{"server"}, []gen.Role{gen.Server}, true},
		{[]string{"both"}, []gen.Role{gen.Client, gen.Server}, true},
		{[]string{"server", "client"}, []gen.Role{gen.Server, gen.Client}, true},
		{[]string{"server", "both"}, []gen.Role{gen.Server, gen.Client}, true},
		{[]string{"client", "client"}, []gen.Role{gen.Client}, true},
		{[]string{"compositor"}, nil, false},
		{nil, nil, false},
	}

	for _, tt := range testv {
		rolev, err := parseRoles(tt.in...)
		if !tt.ok {
			require.Error(t, err, "%q", tt.in)
			continue
		}
		require.NoError(t, err, "%q", tt.in)
		require.Equal(t, tt.want, rolev, "%q", tt.in)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wlgen.toml")
	xwrite(t, path, `
output        = "out"
import_prefix = "example.com/x/out/"
roles         = ["server"]
protocols     = ["a.xml", "/abs/b.xml"]
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, Config{
		Output:       filepath.Join(dir, "out"),
		ImportPrefix: "example.com/x/out",
		Roles:        []gen.Role{gen.Server},
		Protocols:    []string{filepath.Join(dir, "a.xml"), "/abs/b.xml"},
	}, cfg)

	// defaults
	xwrite(t, path, `protocols = ["a.xml"]`)
	cfg, err = loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, dir, cfg.Output)
	require.Equal(t, "", cfg.ImportPrefix)
	require.Equal(t, []gen.Role{gen.Client, gen.Server}, cfg.Roles)

	// errors
	for _, bad := range []string{
		`outptu = "x"`,
		`roles = ["both", "neither"]`,
		`protocols = "a.xml"`,
		`output = `,
	} {
		xwrite(t, path, bad)
		_, err = loadConfig(path)
		require.Error(t, err, "%s", bad)
		require.Contains(t, err.Error(), path)
	}

	_, err = loadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
}

func TestBatchFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wlgen.toml")
	xwrite(t, path, `
import_prefix = "example.com/x"
roles         = ["both"]
protocols     = ["a.xml"]
`)

	var bf batchFlags
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	bf.register(flags)
	err := flags.Parse([]string{"-config", path, "-role", "client", "-o", "/tmp/out", "b.xml"})
	require.NoError(t, err)

	cfg, configPath, err := bf.batchConfig(flags.Args())
	require.NoError(t, err)
	require.Equal(t, path, configPath)
	require.Equal(t, Config{
		Output:       "/tmp/out",
		ImportPrefix: "example.com/x",
		Roles:        []gen.Role{gen.Client},
		Protocols:    []string{filepath.Join(dir, "a.xml"), "b.xml"},
	}, cfg)

	// no documents at all
	bf = batchFlags{}
	_, _, err = bf.batchConfig(nil)
	require.Error(t, err)

	bf = batchFlags{roles: "client,bogus"}
	_, _, err = bf.batchConfig([]string{"a.xml"})
	require.Error(t, err)
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	doc := filepath.Join(dir, "demo.xml")
	xwrite(t, doc, demoDoc)
	out := filepath.Join(dir, "out")

	cfg := Config{
		Output:       out,
		ImportPrefix: "example.com/x",
		Roles:        []gen.Role{gen.Client, gen.Server},
		Protocols:    []string{doc},
	}
	clientGo := filepath.Join(out, "client", "demo", "demo.go")
	serverGo := filepath.Join(out, "server", "demo", "demo.go")

	written, err := Generate(ctx, cfg)
	require.NoError(t, err)
	require.Equal(t, []string{clientGo, serverGo}, written)

	b, err := Load([]string{doc})
	require.NoError(t, err)
	filev, err := gen.Generate(b, gen.Client, gen.Options{ImportPrefix: "example.com/x"})
	require.NoError(t, err)
	require.Len(t, filev, 1)
	require.Equal(t, string(filev[0].Source), xread(t, clientGo))
	require.True(t, strings.HasPrefix(xread(t, serverGo), "// Code generated by wlgen; DO NOT EDIT.\n"))

	// nothing changed -> nothing written
	written, err = Generate(ctx, cfg)
	require.NoError(t, err)
	require.Empty(t, written)

	// damaged output is restored
	xwrite(t, serverGo, "package demo\n")
	written, err = Generate(ctx, cfg)
	require.NoError(t, err)
	require.Equal(t, []string{serverGo}, written)

	// broken document leaves output intact
	client0 := xread(t, clientGo)
	xwrite(t, doc, `<protocol name="demo"><interface name="demo_thing" version="0"/></protocol>`)
	written, err = Generate(ctx, cfg)
	require.Error(t, err)
	require.Empty(t, written)
	require.True(t, strings.HasPrefix(err.Error(), "generate: "), "%s", err)
	require.Len(t, protocol.Errors(err), 1)
	require.Equal(t, client0, xread(t, clientGo))

	// no temporary files are left behind
	entryv, err := os.ReadDir(filepath.Dir(clientGo))
	require.NoError(t, err)
	require.Len(t, entryv, 1)
}

func TestLoadReportsAllDocuments(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.xml")
	b := filepath.Join(dir, "b.xml")
	xwrite(t, a, `<protocol name="a"><interface name="a_x" version="x"/></protocol>`)
	xwrite(t, b, `<protocol name="b"><interface name="b_x" version="1"><request name="r"><arg name="v" type="bogus"/></request></interface></protocol>`)

	_, err := Load([]string{a, b, filepath.Join(dir, "missing.xml")})
	require.Error(t, err)
	dev := protocol.Errors(err)
	require.Len(t, dev, 2)
	require.Equal(t, "a: a_x", dev[0].Path)
	require.True(t, strings.HasPrefix(dev[1].Path, "b: b_x: "), "%s", dev[1].Path)
	require.Contains(t, err.Error(), "missing.xml")
}

func TestDump(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "demo.xml")
	xwrite(t, doc, demoDoc)
	b, err := Load([]string{doc})
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	err = Dump(buf, b)
	require.NoError(t, err)

	want := `protocol demo
interface demo_thing v2
	request 0 destroy() destructor
	request 1 set_mode(mode uint<demo_thing.mode>, label string?) since 2
	event 0 child(id new_id<demo_thing>)
	bitfield mode
		a = 0x1
		b = 0x2
`
	if d := diff.Diff(buf.String(), want); d != "" {
		t.Errorf("dump mismatch (-got +want):\n%s", d)
	}
}

func TestWatch(t *testing.T) {
	defer func(d time.Duration) { settleTime = d }(settleTime)
	settleTime = 20 * time.Millisecond

	dir := t.TempDir()
	doc := filepath.Join(dir, "demo.xml")
	xwrite(t, doc, demoDoc)
	out := t.TempDir()
	clientGo := filepath.Join(out, "client", "demo", "demo.go")

	type regen struct {
		written []string
		err     error
	}
	regenq := make(chan regen, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, WatchOptions{
			Load: func() (Config, error) {
				return Config{
					Output:    out,
					Roles:     []gen.Role{gen.Client},
					Protocols: []string{doc},
				}, nil
			},
			Notify: func(written []string, err error) {
				regenq <- regen{written, err}
			},
		})
	}()

	next := func() regen {
		t.Helper()
		select {
		case r := <-regenq:
			return r
		case err := <-done:
			t.Fatalf("watch stopped: %v", err)
		case <-time.After(10 * time.Second):
			t.Fatal("timeout waiting for regeneration")
		}
		panic("unreachable")
	}

	// initial generation
	r := next()
	require.NoError(t, r.err)
	require.Equal(t, []string{clientGo}, r.written)

	// change
	xwrite(t, doc, demoDoc2)
	r = next()
	require.NoError(t, r.err)
	require.Equal(t, []string{clientGo}, r.written)
	require.Contains(t, xread(t, clientGo), "Gone(")

	// broken document is reported and watching continues
	xwrite(t, doc, "<protocol")
	r = next()
	require.Error(t, r.err)
	require.Empty(t, r.written)

	xwrite(t, doc, demoDoc)
	r = next()
	require.NoError(t, r.err)
	require.Equal(t, []string{clientGo}, r.written)
	require.NotContains(t, xread(t, clientGo), "Gone(")

	cancel()
	select {
	case err := <-done:
		require.True(t, errors.Is(err, context.Canceled), "%v", err)
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for watch to stop")
	}
}
