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

package wire
// payload encoding

import (
	"strings"
	"unicode/utf8"

	"lab.nexedi.com/kirr/go123/xbytes"
)

// Builder accumulates encoded arguments of one message in order.
//
// The first encoding error is remembered and reported by Build; all Put
// calls after an error are no-ops. The zero Builder is ready to use.
type Builder struct {
	buf  []byte
	fds  []int
	argc int // number of arguments put so far; for error messages
	err  error
}

// grow extends payload by n bytes and returns the new tail.
func (b *Builder) grow(n int) []byte {
	l := len(b.buf)
	b.buf = xbytes.Resize(b.buf, l+n)
	return b.buf[l:]
}

func (b *Builder) fail(format string, argv ...interface{}) {
	if b.err == nil {
		argv = append([]interface{}{b.argc}, argv...)
		b.err = malformedf("encode: arg #%d: "+format, argv...)
	}
}

func (b *Builder) PutUint32(v uint32) {
	b.argc++
	if b.err != nil {
		return
	}
	byteOrder.PutUint32(b.grow(4), v)
}

func (b *Builder) PutInt32(v int32) {
	b.PutUint32(uint32(v))
}

func (b *Builder) PutFixed(v Fixed) {
	b.PutUint32(uint32(v))
}

// PutObject puts reference to an existing non-null object.
func (b *Builder) PutObject(id ObjectID) {
	if id == 0 {
		b.argc++
		b.fail("null object in non-nullable slot")
		return
	}
	b.PutUint32(uint32(id))
}

// PutNullObject puts reference to an object or, if id=0, "no object".
func (b *Builder) PutNullObject(id ObjectID) {
	b.PutUint32(uint32(id))
}

// PutNewID puts id of an object being created.
func (b *Builder) PutNewID(id ObjectID) {
	if id == 0 {
		b.argc++
		b.fail("null new_id")
		return
	}
	b.PutUint32(uint32(id))
}

// PutGenericNewID puts a new_id whose interface is not fixed by the
// protocol. On the wire it takes 3 slots: interface name, version and id.
func (b *Builder) PutGenericNewID(iface string, version uint32, id ObjectID) {
	b.PutString(iface)
	b.PutUint32(version)
	b.PutNewID(id)
}

// PutString puts non-null string s.
func (b *Builder) PutString(s string) {
	b.argc++
	if b.err != nil {
		return
	}
	if strings.IndexByte(s, 0) >= 0 {
		b.fail("string contains NUL")
		return
	}
	if !utf8.ValidString(s) {
		b.fail("string is not valid UTF-8")
		return
	}
	n := len(s) + 1 // + NUL
	if n > MaxPayloadSize {
		b.fail("string too long (%d bytes)", len(s))
		return
	}
	data := b.grow(4 + pad4(n))
	byteOrder.PutUint32(data, uint32(n))
	copy(data[4:], s)
	for i := 4 + len(s); i < len(data); i++ {
		data[i] = 0
	}
}

// PutNullString puts string *s or, if s=nil, the absent string.
func (b *Builder) PutNullString(s *string) {
	if s == nil {
		b.PutUint32(0)
		return
	}
	b.PutString(*s)
}

// PutArray puts opaque array data.
func (b *Builder) PutArray(data []byte) {
	b.argc++
	if b.err != nil {
		return
	}
	if len(data) > MaxPayloadSize {
		b.fail("array too long (%d bytes)", len(data))
		return
	}
	out := b.grow(4 + pad4(len(data)))
	byteOrder.PutUint32(out, uint32(len(data)))
	copy(out[4:], data)
	for i := 4 + len(data); i < len(out); i++ {
		out[i] = 0
	}
}

// PutFD queues fd to be sent with the message. It takes no payload space.
func (b *Builder) PutFD(fd int) {
	b.argc++
	if b.err != nil {
		return
	}
	if fd < 0 {
		b.fail("invalid file descriptor %d", fd)
		return
	}
	b.fds = append(b.fds, fd)
}

// Err returns the first encoding error, if any.
func (b *Builder) Err() error {
	return b.err
}

// Build returns message from sender with opcode carrying everything put so far.
//
// The builder is reset and can be reused afterwards.
func (b *Builder) Build(sender ObjectID, opcode uint16) (*Message, error) {
	defer b.Reset()
	if b.err != nil {
		return nil, b.err
	}
	if len(b.buf) > MaxPayloadSize {
		return nil, malformedf("encode: %v:%d: payload too big (%d bytes)", sender, opcode, len(b.buf))
	}

	m := &Message{
		Sender:  sender,
		Opcode:  opcode,
		Payload: append([]byte(nil), b.buf...),
	}
	if len(b.fds) != 0 {
		m.FDs = append([]int(nil), b.fds...)
	}
	return m, nil
}

// Reset clears b keeping allocated memory.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
	b.fds = b.fds[:0]
	b.argc = 0
	b.err = nil
}
