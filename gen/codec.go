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
// encoders and decoders of message arguments

import (
	"fmt"

	"github.com/verdiwm/waynest-sub003/protocol"
)

// interface of a codegenerator  (for encoder/decoder)
type CodeGenerator interface {
	// tell codegen it should generate code for which message
	setMessage(m *protocol.Message)

	// generate code to process one argument of corresponding type.
	// v is the Go variable holding the argument (to read from or assign to).
	genInt(v string, arg *protocol.Arg)
	genUint(v string, arg *protocol.Arg)
	genFixed(v string, arg *protocol.Arg)
	genString(v string, arg *protocol.Arg)
	genObject(v string, arg *protocol.Arg)
	genArray(v string, arg *protocol.Arg)
	genFD(v string, arg *protocol.Arg)

	// new_id with interface fixed by the protocol
	genNewID(v string, arg *protocol.Arg)

	// new_id with interface chosen at runtime; on the wire it is
	// preceded by interface name and version.
	genGenericNewID(v string, arg *protocol.Arg)

	// get generated code.
	generatedCode() string
}

// common part of codegenerators
type commonCodeGen struct {
	buf Buffer // code is emitted here
	g   *pkgGen
	m   *protocol.Message
}

func (c *commonCodeGen) emit(format string, a ...interface{}) {
	c.buf.emit(format, a...)
}

func (c *commonCodeGen) setMessage(m *protocol.Message) {
	c.m = m
	c.buf.Reset()
}

func (c *commonCodeGen) generatedCode() string {
	return c.buf.String()
}

// encoder generates code to put arguments into wire.Builder b.
type encoder struct {
	commonCodeGen
}

// decoder generates code to take arguments from wire.Reader r.
type decoder struct {
	commonCodeGen
}

var _ CodeGenerator = (*encoder)(nil)
var _ CodeGenerator = (*decoder)(nil)

// enum-typed arguments travel as uint32 whether declared int or uint
func (e *encoder) genInt(v string, arg *protocol.Arg) {
	if arg.Enum != nil {
		e.emit("b.PutUint32(%s.Uint32())", v)
		return
	}
	e.emit("b.PutInt32(%s)", v)
}

func (e *encoder) genUint(v string, arg *protocol.Arg) {
	if arg.Enum != nil {
		e.emit("b.PutUint32(%s.Uint32())", v)
		return
	}
	e.emit("b.PutUint32(%s)", v)
}

func (e *encoder) genFixed(v string, arg *protocol.Arg) {
	e.emit("b.PutFixed(%s)", v)
}

func (e *encoder) genString(v string, arg *protocol.Arg) {
	if arg.Nullable {
		e.emit("b.PutNullString(%s)", v)
	} else {
		e.emit("b.PutString(%s)", v)
	}
}

// interface reference of object is advisory: on the wire it is plain id
func (e *encoder) genObject(v string, arg *protocol.Arg) {
	if arg.Nullable {
		e.emit("b.PutNullObject(wire.ObjectID(%s))", v)
	} else {
		e.emit("b.PutObject(wire.ObjectID(%s))", v)
	}
}

func (e *encoder) genArray(v string, arg *protocol.Arg) {
	e.emit("b.PutArray(%s)", v)
}

func (e *encoder) genFD(v string, arg *protocol.Arg) {
	e.emit("b.PutFD(int(%s.Fd()))", v)
}

// v is the freshly allocated raw id
func (e *encoder) genNewID(v string, arg *protocol.Arg) {
	e.emit("b.PutNewID(%s)", v)
}

func (e *encoder) genGenericNewID(v string, arg *protocol.Arg) {
	e.emit("b.PutGenericNewID(%sInterface.Name, %sVersion, %s)", v, v, v)
}

// decoding of enum: converter errors are folded into reader state
func (d *decoder) genEnum(v string, arg *protocol.Arg) {
	d.emit("%s, err := %sFromUint32(r.Uint32())", v, d.g.enumType(arg.Enum))
	d.emit("r.Check(err)")
}

func (d *decoder) genInt(v string, arg *protocol.Arg) {
	if arg.Enum != nil {
		d.genEnum(v, arg)
		return
	}
	d.emit("%s := r.Int32()", v)
}

func (d *decoder) genUint(v string, arg *protocol.Arg) {
	if arg.Enum != nil {
		d.genEnum(v, arg)
		return
	}
	d.emit("%s := r.Uint32()", v)
}

func (d *decoder) genFixed(v string, arg *protocol.Arg) {
	d.emit("%s := r.Fixed()", v)
}

func (d *decoder) genString(v string, arg *protocol.Arg) {
	if arg.Nullable {
		d.emit("%s := r.NullString()", v)
	} else {
		d.emit("%s := r.String()", v)
	}
}

func (d *decoder) genObject(v string, arg *protocol.Arg) {
	get := "r.Object()"
	if arg.Nullable {
		get = "r.NullObject()"
	}
	if arg.Interface != nil {
		get = fmt.Sprintf("%s(%s)", d.g.idType(arg.Interface), get)
	}
	d.emit("%s := %s", v, get)
}

func (d *decoder) genArray(v string, arg *protocol.Arg) {
	d.emit("%s := r.Array()", v)
}

func (d *decoder) genFD(v string, arg *protocol.Arg) {
	d.emit("%s := r.FD()", v)
}

// new ids are registered after the whole message is decoded
func (d *decoder) genNewID(v string, arg *protocol.Arg) {
	d.emit("%s := r.NewID()", v)
}

func (d *decoder) genGenericNewID(v string, arg *protocol.Arg) {
	d.emit("%sName, %sVersion, %s := r.GenericNewID()", v, v, v)
}

// codegenArg dispatches code generation for arg held in variable v.
func codegenArg(v string, arg *protocol.Arg, codegen CodeGenerator) {
	switch arg.Type {
	case protocol.Int:
		codegen.genInt(v, arg)
	case protocol.Uint:
		codegen.genUint(v, arg)
	case protocol.Fixed:
		codegen.genFixed(v, arg)
	case protocol.String:
		codegen.genString(v, arg)
	case protocol.Object:
		codegen.genObject(v, arg)
	case protocol.NewID:
		if arg.Generic() {
			codegen.genGenericNewID(v, arg)
		} else {
			codegen.genNewID(v, arg)
		}
	case protocol.Array:
		codegen.genArray(v, arg)
	case protocol.FD:
		codegen.genFD(v, arg)
	default:
		panic(fmt.Sprintf("%T: arg %s: unexpected type %s", codegen, arg.Name, arg.Type))
	}
}

// generateCodecCode generates code to encode or decode all arguments of m.
func generateCodecCode(m *protocol.Message, argv []string, codegen CodeGenerator) string {
	codegen.setMessage(m)
	for i, arg := range m.Args {
		codegenArg(argv[i], arg, codegen)
	}
	return codegen.generatedCode()
}
