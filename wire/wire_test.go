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

import (
	hexpkg "encoding/hex"
	"errors"
	"math"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

// decode string as hex; panic on error
func hex(s string) []byte {
	b, err := hexpkg.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		panic(err)
	}
	return b
}

func xbuild(t *testing.T, b *Builder, sender ObjectID, opcode uint16) []byte {
	t.Helper()
	m, err := b.Build(sender, opcode)
	require.NoError(t, err)
	data, err := m.Encode(nil)
	require.NoError(t, err)
	return data
}

// S1: request opcode 0 on object 3 with uint32 5.
func TestEncodeUint32Message(t *testing.T) {
	var b Builder
	b.PutUint32(5)
	data := xbuild(t, &b, 3, 0)

	want := hex("03000000 00000c00 05000000")
	if !reflect.DeepEqual(data, want) {
		t.Fatalf("encode:\nhave: % x\nwant: % x", data, want)
	}
}

// S2: event opcode 1 on object 2 with string "hi".
func TestEncodeStringMessage(t *testing.T) {
	var b Builder
	b.PutString("hi")
	data := xbuild(t, &b, 2, 1)

	want := hex("02000000 01001000 03000000 68690000")
	if !reflect.DeepEqual(data, want) {
		t.Fatalf("encode:\nhave: % x\nwant: % x", data, want)
	}

	h, err := DecodeHeader(data)
	require.NoError(t, err)
	if h.Size != 0x10 {
		t.Fatalf("size = %#x  ; want 0x10", h.Size)
	}
}

// S3: size 16 but the string declares length 5.
func TestDecodeShortString(t *testing.T) {
	data := hex("02000000 01001000 05000000 68690000")
	m, n, err := DecodeMessage(data)
	require.NoError(t, err)
	require.Equal(t, 16, n)

	r := NewReader(m.Payload, nil)
	_ = r.String()
	err = r.Finish()
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("decode: err = %v  ; want MalformedPayload", err)
	}
}

// S4: fd argument with empty queue.
func TestDecodeFDMissing(t *testing.T) {
	var q FDQueue
	r := NewReader(nil, &q)
	f := r.FD()
	err := r.Finish()
	if f != nil || !errors.Is(err, ErrMalformed) {
		t.Fatalf("decode fd from empty queue: f=%v err=%v  ; want MalformedPayload", f, err)
	}

	r = NewReader(nil, nil)
	r.FD()
	if err := r.Finish(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("decode fd without source: err=%v  ; want MalformedPayload", err)
	}
}

// S5: object id 0 in non-nullable vs nullable slot.
func TestDecodeNullObject(t *testing.T) {
	payload := hex("00000000")

	r := NewReader(payload, nil)
	r.Object()
	if err := r.Finish(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("non-nullable object 0: err = %v  ; want MalformedPayload", err)
	}

	r = NewReader(payload, nil)
	id := r.NullObject()
	require.NoError(t, r.Finish())
	require.Equal(t, ObjectID(0), id)
}

func TestNullStringVsEmpty(t *testing.T) {
	empty := ""
	var testv = []struct {
		s       *string
		encoded []byte
	}{
		{nil, hex("00000000")},
		{&empty, hex("01000000 00000000")},
	}

	for _, tt := range testv {
		var b Builder
		b.PutNullString(tt.s)
		m, err := b.Build(1, 0)
		require.NoError(t, err)
		if !reflect.DeepEqual(m.Payload, tt.encoded) {
			t.Errorf("%v: encode: % x  ; want % x", tt.s, m.Payload, tt.encoded)
		}

		r := NewReader(tt.encoded, nil)
		s := r.NullString()
		require.NoError(t, r.Finish())
		if (s == nil) != (tt.s == nil) || (s != nil && *s != *tt.s) {
			t.Errorf("%v: decode: %v", tt.s, s)
		}
	}

	// absent string in non-nullable slot
	r := NewReader(hex("00000000"), nil)
	_ = r.String()
	if err := r.Finish(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("non-nullable absent string: err = %v", err)
	}
}

// put puts v via the Builder method matching its type.
func put(b *Builder, v interface{}) {
	switch v := v.(type) {
	case int32:
		b.PutInt32(v)
	case uint32:
		b.PutUint32(v)
	case Fixed:
		b.PutFixed(v)
	case string:
		b.PutString(v)
	case []byte:
		b.PutArray(v)
	case ObjectID:
		b.PutNullObject(v)
	default:
		panic(v)
	}
}

// get decodes value of the same type as v.
func get(r *Reader, v interface{}) interface{} {
	switch v.(type) {
	case int32:
		return r.Int32()
	case uint32:
		return r.Uint32()
	case Fixed:
		return r.Fixed()
	case string:
		return r.String()
	case []byte:
		return r.Array()
	case ObjectID:
		return r.NullObject()
	default:
		panic(v)
	}
}

func TestRoundTrip(t *testing.T) {
	var testv = []struct {
		v       interface{}
		encoded []byte
	}{
		{int32(0), hex("00000000")},
		{int32(-1), hex("ffffffff")},
		{int32(math.MinInt32), hex("00000080")},
		{uint32(math.MaxUint32), hex("ffffffff")},
		{Fixed(math.MaxInt32), hex("ffffff7f")},
		{Fixed(math.MinInt32), hex("00000080")},
		{FixedFromInt(-1), hex("00ffffff")},
		{"", hex("01000000 00000000")},
		{"abc", hex("04000000 61626300")},
		{"abcd", hex("05000000 61626364 00000000")},
		{"жук", hex("07000000 d0b6d183 d0ba0000")},
		{[]byte{}, hex("00000000")},
		{[]byte{1, 2, 3, 4, 5}, hex("05000000 01020304 05000000")},
		{ObjectID(0), hex("00000000")},
		{ObjectID(math.MaxUint32), hex("ffffffff")},
	}

	for _, tt := range testv {
		var b Builder
		put(&b, tt.v)
		m, err := b.Build(1, 0)
		require.NoError(t, err)
		if !reflect.DeepEqual(m.Payload, tt.encoded) {
			t.Errorf("%T %v: encode: % x  ; want % x", tt.v, tt.v, m.Payload, tt.encoded)
		}
		if len(m.Payload)%4 != 0 {
			t.Errorf("%T %v: payload not aligned: %d", tt.v, tt.v, len(m.Payload))
		}

		r := NewReader(tt.encoded, nil)
		v := get(r, tt.v)
		if err := r.Finish(); err != nil {
			t.Errorf("%T %v: decode: %v", tt.v, tt.v, err)
			continue
		}
		if !reflect.DeepEqual(v, tt.v) {
			t.Errorf("%T %v: decode: %v", tt.v, tt.v, v)
		}

		// decode must detect short payload
		for l := len(tt.encoded) - 1; l >= 0; l-- {
			r := NewReader(tt.encoded[:l], nil)
			get(r, tt.v)
			if err := r.Finish(); !errors.Is(err, ErrMalformed) {
				t.Errorf("%T %v: decode [:%d]: err = %v  ; want MalformedPayload", tt.v, tt.v, l, err)
			}
		}

		// and trailing data
		r = NewReader(append(append([]byte(nil), tt.encoded...), 0, 0, 0, 0), nil)
		get(r, tt.v)
		if err := r.Finish(); !errors.Is(err, ErrMalformed) {
			t.Errorf("%T %v: decode +tail: err = %v  ; want MalformedPayload", tt.v, tt.v, err)
		}
	}
}

func TestFixed(t *testing.T) {
	// every 24.8 value is exactly representable in float64
	for _, v := range []int32{math.MinInt32, math.MinInt32 + 1, -257, -256, -1, 0, 1, 255, 256, 0x12345, math.MaxInt32} {
		f := Fixed(v)
		if g := FixedFromFloat(f.Float()); g != f {
			t.Errorf("fixed %d: float %v -> %d", v, f.Float(), g)
		}
	}
	var testv = []struct {
		f     Fixed
		float float64
		i     int
	}{
		{FixedFromInt(3), 3, 3},
		{FixedFromFloat(1.5), 1.5, 1},
		{FixedFromFloat(-1.5), -1.5, -2},
		{FixedFromFloat(0.00390625), 1.0 / 256, 0},
	}
	for _, tt := range testv {
		if tt.f.Float() != tt.float || tt.f.Int() != tt.i {
			t.Errorf("%d: float=%v int=%v  ; want %v %v", tt.f, tt.f.Float(), tt.f.Int(), tt.float, tt.i)
		}
	}
}

func TestDecodeStringInvalid(t *testing.T) {
	var testv = []struct {
		name    string
		payload []byte
	}{
		{"no NUL", hex("02000000 61620000")},
		{"inner NUL", hex("03000000 61000000")},
		{"bad utf8", hex("02000000 ff000000")},
		{"huge len", hex("ffffffff 00000000")},
	}
	for _, tt := range testv {
		r := NewReader(tt.payload, nil)
		_ = r.String()
		if err := r.Finish(); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: err = %v  ; want MalformedPayload", tt.name, err)
		}
	}
}

func TestBuilderReject(t *testing.T) {
	var testv = []struct {
		name string
		put  func(b *Builder)
	}{
		{"object 0", func(b *Builder) { b.PutObject(0) }},
		{"new_id 0", func(b *Builder) { b.PutNewID(0) }},
		{"NUL in string", func(b *Builder) { b.PutString("a\x00b") }},
		{"bad utf8", func(b *Builder) { b.PutString("\xff") }},
		{"negative fd", func(b *Builder) { b.PutFD(-1) }},
		{"too big", func(b *Builder) { b.PutArray(make([]byte, MaxPayloadSize)) }},
	}
	for _, tt := range testv {
		var b Builder
		b.PutUint32(1)
		tt.put(&b)
		b.PutUint32(2)
		if _, err := b.Build(1, 0); !errors.Is(err, ErrMalformed) {
			t.Errorf("%s: err = %v  ; want MalformedPayload", tt.name, err)
		}
		// builder is reset after Build
		if m, err := b.Build(1, 0); err != nil || len(m.Payload) != 0 {
			t.Errorf("%s: builder not reset: %v %v", tt.name, m, err)
		}
	}
}

func TestGenericNewID(t *testing.T) {
	var b Builder
	b.PutUint32(7)
	b.PutGenericNewID("wl_seat", 5, 0x10)
	m, err := b.Build(2, 0)
	require.NoError(t, err)
	want := hex("07000000 08000000 776c5f73 65617400 05000000 10000000")
	require.Equal(t, want, m.Payload)

	r := NewReader(m.Payload, nil)
	name := r.Uint32()
	iface, version, id := r.GenericNewID()
	require.NoError(t, r.Finish())
	require.Equal(t, uint32(7), name)
	require.Equal(t, "wl_seat", iface)
	require.Equal(t, uint32(5), version)
	require.Equal(t, ObjectID(0x10), id)
}

func TestHeader(t *testing.T) {
	var testv = []struct {
		data []byte
		ok   bool
	}{
		{hex("01000000 00000800"), true},
		{hex("01000000 00000400"), false}, // size < header
		{hex("01000000 00000a00"), false}, // unaligned
		{hex("01000000 0000"), false},     // short
	}
	for _, tt := range testv {
		_, err := DecodeHeader(tt.data)
		if (err == nil) != tt.ok {
			t.Errorf("% x: err = %v  ; want ok=%v", tt.data, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrMalformed) {
			t.Errorf("% x: err = %v  ; want MalformedPayload", tt.data, err)
		}
	}

	// truncated message
	if _, _, err := DecodeMessage(hex("01000000 00001000 00000000")); !errors.Is(err, ErrMalformed) {
		t.Errorf("truncated message: err = %v", err)
	}
}

// xpipefd returns read end of a new pipe as raw fd not owned by any *os.File.
func xpipefd(t *testing.T) int {
	t.Helper()
	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	t.Cleanup(func() { pw.Close() })
	fd, err := unix.Dup(int(pr.Fd()))
	require.NoError(t, err)
	return fd
}

func TestFDOrder(t *testing.T) {
	var fdv []int
	for i := 0; i < 3; i++ {
		fdv = append(fdv, xpipefd(t))
	}

	// message 1 consumes 2 fds, message 2 consumes 1: queue order is kept
	var q FDQueue
	q.Push(fdv...)

	r := NewReader(hex("01000000"), &q)
	f1 := r.FD()
	r.Uint32()
	f2 := r.FD()
	require.NoError(t, r.Finish())
	require.Equal(t, uintptr(fdv[0]), f1.Fd())
	require.Equal(t, uintptr(fdv[1]), f2.Fd())

	r = NewReader(nil, &q)
	f3 := r.FD()
	require.NoError(t, r.Finish())
	require.Equal(t, uintptr(fdv[2]), f3.Fd())
	require.Equal(t, 0, q.Len())

	for _, f := range []*os.File{f1, f2, f3} {
		f.Close()
	}
}

func TestFDClosedOnDecodeError(t *testing.T) {
	fd := xpipefd(t)

	var q FDQueue
	q.Push(fd)
	r := NewReader(nil, &q) // fd then uint32 - but payload is empty
	f := r.FD()
	r.Uint32()
	if err := r.Finish(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v  ; want MalformedPayload", err)
	}
	if _, err := f.Stat(); err == nil {
		t.Fatalf("fd was not closed after decode error")
	}
}

func TestEnumError(t *testing.T) {
	err := InvalidEnum("wl_shm.format", 77)
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("enum error is not MalformedPayload: %v", err)
	}
	var e *EnumError
	require.True(t, errors.As(err, &e))
	require.Equal(t, uint32(77), e.Value)

	err = UnknownOpcode("wl_display", 9)
	require.Equal(t, "wl_display: unknown opcode 9", err.Error())
}
