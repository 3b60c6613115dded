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

// Package gen generates Go bindings for Wayland protocols.
//
// For every protocol of a batch, and for each role, Generate emits one Go
// package. Per interface the package provides:
//
//   - <I>ID type of object ids and <I>Version constant;
//   - <I>Interface descriptor registered with the connection runtime;
//   - one type per enum with conversion from and to uint32;
//   - <I>Handler interface with one method per inbound message;
//   - <I> endpoint with one method per outbound message;
//   - Dispatch<I> decoding inbound messages and invoking the handler.
//
// Client packages receive events and send requests; server packages the
// other way around. Opcodes follow declaration order in the document.
package gen

import (
	"bytes"
	"fmt"
	"go/format"
	"path"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/verdiwm/waynest-sub003/protocol"
)

// Role selects which side of the protocol the generated code implements.
type Role int

const (
	Client Role = iota
	Server
)

func (r Role) String() string {
	switch r {
	case Client:
		return "client"
	case Server:
		return "server"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// inbound returns direction of messages the role receives.
func (r Role) inbound() protocol.Direction {
	if r == Client {
		return protocol.Event
	}
	return protocol.Request
}

// outbound returns direction of messages the role sends.
func (r Role) outbound() protocol.Direction {
	if r == Client {
		return protocol.Request
	}
	return protocol.Event
}

// Options control code generation.
type Options struct {
	// ImportPrefix is import path of the directory holding generated
	// <role>/<package> directories. It is required when protocols of the
	// batch reference each other.
	ImportPrefix string

	// Generator is the program name put into "Code generated" header.
	// Default is "wlgen".
	Generator string
}

// File is one generated Go source file.
type File struct {
	Path     string // relative to output directory, slash-separated
	Protocol *protocol.Protocol
	Source   []byte
}

// Generate emits bindings for role for all protocols of batch b.
//
// Files are returned in batch order. On error no files are returned.
func Generate(b *protocol.Batch, role Role, opt Options) ([]File, error) {
	if role != Client && role != Server {
		return nil, errors.Errorf("generate: invalid role %d", int(role))
	}
	if opt.Generator == "" {
		opt.Generator = "wlgen"
	}
	if err := b.CheckImports(); err != nil {
		return nil, err
	}

	filev := make([]File, len(b.Protocols))
	wg := errgroup.Group{}
	for i, proto := range b.Protocols {
		i, proto := i, proto
		wg.Go(func() error {
			f, err := generateProtocol(b, proto, role, opt)
			if err != nil {
				return err
			}
			filev[i] = f
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}
	return filev, nil
}

// PackagePath returns path, relative to import prefix, of package generated
// for proto and role, e.g. "client/wayland".
func PackagePath(role Role, proto *protocol.Protocol) string {
	return path.Join(role.String(), pkgName(proto.Name))
}

// bytes.Buffer + bell & whistles
type Buffer struct {
	bytes.Buffer
}

func (b *Buffer) emit(format string, a ...interface{}) {
	fmt.Fprintf(b, format+"\n", a...)
}

func generateProtocol(b *protocol.Batch, proto *protocol.Protocol, role Role, opt Options) (_ File, err error) {
	defer func() {
		if err != nil {
			err = errors.Wrapf(err, "generate %s %s", role, proto.Name)
		}
	}()

	g, err := newPkgGen(b, proto, role, opt)
	if err != nil {
		return File{}, err
	}
	code := g.generate()
	if err := g.errv.Err(); err != nil {
		return File{}, err
	}

	src, err := format.Source(code)
	if err != nil {
		// generated code is broken; this is a bug in the generator
		return File{}, errors.Wrapf(err, "format")
	}

	pkgPath := PackagePath(role, proto)
	return File{
		Path:     path.Join(pkgPath, pkgName(proto.Name)+".go"),
		Protocol: proto,
		Source:   src,
	}, nil
}
