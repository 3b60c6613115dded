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
// payload decoding

import (
	"os"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// FDSource provides file descriptors received alongside messages.
type FDSource interface {
	// PopFD removes and returns the oldest received descriptor.
	// ok=false means no descriptor is available.
	PopFD() (fd int, ok bool)
}

// Reader decodes arguments of one message payload in order.
//
// Like Builder, Reader is sticky: after the first error every accessor
// returns zero value and Finish reports that error. Generated code reads all
// arguments and then checks Finish once.
//
// File descriptors taken by FD are owned by the Reader until Finish returns
// successfully; if decoding fails they are closed.
type Reader struct {
	data []byte
	fds  FDSource
	argc int
	err  error

	taken []*os.File // fds taken from FDSource
}

// NewReader returns Reader decoding payload, with fds taken from fds.
//
// fds can be nil if the message carries no file descriptors.
func NewReader(payload []byte, fds FDSource) *Reader {
	return &Reader{data: payload, fds: fds}
}

func (r *Reader) fail(format string, argv ...interface{}) {
	if r.err == nil {
		argv = append([]interface{}{r.argc}, argv...)
		r.err = malformedf("decode: arg #%d: "+format, argv...)
	}
}

// Check records err as decoding error if there was no error before.
//
// It is used to fold converter errors, e.g. of enum conversions, into the
// reader state.
func (r *Reader) Check(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

// Err returns the first decoding error, if any.
func (r *Reader) Err() error {
	return r.err
}

// Len returns number of payload bytes not yet consumed.
func (r *Reader) Len() int {
	return len(r.data)
}

func (r *Reader) Uint32() uint32 {
	r.argc++
	if r.err != nil {
		return 0
	}
	if len(r.data) < 4 {
		r.fail("payload exhausted: need 4 bytes; have %d", len(r.data))
		return 0
	}
	v := byteOrder.Uint32(r.data)
	r.data = r.data[4:]
	return v
}

func (r *Reader) Int32() int32 {
	return int32(r.Uint32())
}

func (r *Reader) Fixed() Fixed {
	return Fixed(r.Uint32())
}

// Object decodes reference to an existing object in a non-nullable slot.
func (r *Reader) Object() ObjectID {
	id := ObjectID(r.Uint32())
	if id == 0 {
		r.fail("null object in non-nullable slot")
	}
	return id
}

// NullObject decodes reference to an object in a nullable slot.
// 0 means "no object".
func (r *Reader) NullObject() ObjectID {
	return ObjectID(r.Uint32())
}

// NewID decodes id of an object being created.
func (r *Reader) NewID() ObjectID {
	id := ObjectID(r.Uint32())
	if id == 0 {
		r.fail("null new_id")
	}
	return id
}

// GenericNewID decodes new_id whose interface is carried on the wire.
func (r *Reader) GenericNewID() (iface string, version uint32, id ObjectID) {
	iface = r.String()
	version = r.Uint32()
	id = r.NewID()
	return iface, version, id
}

// str decodes string body; ok=false means absent string.
func (r *Reader) str() (s string, ok bool) {
	n := r.Uint32()
	if r.err != nil {
		return "", false
	}
	if n == 0 {
		return "", false
	}
	if uint64(n) > uint64(len(r.data)) || pad4(int(n)) > len(r.data) {
		r.fail("string of length %d exceeds payload (%d bytes left)", n, len(r.data))
		return "", false
	}
	body := r.data[:n]
	r.data = r.data[pad4(int(n)):]
	if body[n-1] != 0 {
		r.fail("string is not NUL-terminated")
		return "", false
	}
	body = body[:n-1]
	for _, c := range body {
		if c == 0 {
			r.fail("string contains NUL")
			return "", false
		}
	}
	if !utf8.Valid(body) {
		r.fail("string is not valid UTF-8")
		return "", false
	}
	return string(body), true
}

// String decodes non-nullable string.
func (r *Reader) String() string {
	s, ok := r.str()
	if !ok && r.err == nil {
		r.fail("null string in non-nullable slot")
	}
	return s
}

// NullString decodes nullable string; nil means absent string.
//
// The absent string (length 0 on the wire) is different from the empty
// string (length 1: just NUL).
func (r *Reader) NullString() *string {
	s, ok := r.str()
	if !ok {
		return nil
	}
	return &s
}

// Array decodes opaque array. The result is a copy.
func (r *Reader) Array() []byte {
	n := r.Uint32()
	if r.err != nil {
		return nil
	}
	if uint64(n) > uint64(len(r.data)) || pad4(int(n)) > len(r.data) {
		r.fail("array of length %d exceeds payload (%d bytes left)", n, len(r.data))
		return nil
	}
	a := make([]byte, n)
	copy(a, r.data)
	r.data = r.data[pad4(int(n)):]
	return a
}

// FD takes next received file descriptor.
func (r *Reader) FD() *os.File {
	r.argc++
	if r.err != nil {
		return nil
	}
	if r.fds == nil {
		r.fail("file descriptor expected but none received")
		return nil
	}
	fd, ok := r.fds.PopFD()
	if !ok {
		r.fail("file descriptor expected but none received")
		return nil
	}
	f := os.NewFile(uintptr(fd), "wayland-fd")
	r.taken = append(r.taken, f)
	return f
}

// Finish verifies the whole payload was consumed without errors.
//
// On error all file descriptors taken by r are closed. On success they are
// handed to the caller, who can still drop them with Discard if the message
// is rejected later.
func (r *Reader) Finish() error {
	if r.err == nil && len(r.data) != 0 {
		r.err = malformedf("decode: %d trailing bytes", len(r.data))
	}
	if r.err != nil {
		r.Discard()
		return r.err
	}
	return nil
}

// Discard closes all file descriptors taken by r.
func (r *Reader) Discard() {
	for _, f := range r.taken {
		f.Close()
	}
	r.taken = nil
}

// CloseFD closes raw descriptor fd ignoring errors.
//
// It is used to drop descriptors of messages nobody consumes.
func CloseFD(fd int) {
	unix.Close(fd)
}
