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


package protocols

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kylelemons/godebug/diff"
	"github.com/stretchr/testify/require"

	"github.com/verdiwm/waynest-sub003/gen"
	"github.com/verdiwm/waynest-sub003/protocol"
)

// checked-in bindings are what the generator currently produces.
func TestBindingsUpToDate(t *testing.T) {
	p, err := protocol.ParseFile("wayland.xml")
	require.NoError(t, err)
	b, err := protocol.Resolve(p)
	require.NoError(t, err)

	opt := gen.Options{
		ImportPrefix: "github.com/verdiwm/waynest-sub003/protocols",
		Generator:    "wlgen",
	}
	for _, role := range []gen.Role{gen.Client, gen.Server} {
		filev, err := gen.Generate(b, role, opt)
		require.NoError(t, err)
		require.Len(t, filev, 1)
		for _, f := range filev {
			have, err := os.ReadFile(filepath.FromSlash(f.Path))
			require.NoError(t, err)
			if string(have) != string(f.Source) {
				t.Errorf("%s: out of date; run go generate:\n%s", f.Path,
					diff.Diff(string(have), string(f.Source)))
			}
		}
	}
}
