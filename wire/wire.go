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

// Package wire implements Wayland wire protocol values and message framing.
//
// A message on the wire is
//
//	<sender id: u32> <opcode: u16> <size: u16> <payload>
//
// where size counts the whole message including the 8-byte header. All
// integers are little-endian and the payload is always 4-byte aligned.
//
// Payloads are built with Builder and taken apart with Reader. File
// descriptors never travel inside the payload: Builder collects them into
// Message.FDs, and Reader takes them, in argument order, from an FDSource fed
// by the transport.
//
// This package is primarily intended to be used by generated bindings; see
// package github.com/verdiwm/waynest-sub003/gen.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	HeaderLen = 8 // sizeof(Header) on the wire

	// MaxMessageSize is the largest size a message header can describe.
	// The u16 size field limits it; alignment makes it 0xfffc.
	MaxMessageSize = math.MaxUint16 &^ 3

	// MaxPayloadSize is the largest payload that fits into one message.
	MaxPayloadSize = MaxMessageSize - HeaderLen
)

var byteOrder = binary.LittleEndian

// ObjectID identifies a protocol object on a connection.
//
// 0 is never a valid object; it encodes "no object" in nullable slots.
type ObjectID uint32

func (id ObjectID) String() string {
	return fmt.Sprintf("@%d", uint32(id))
}

// Fixed is a signed 24.8 fixed-point number.
type Fixed int32

// FixedFromInt returns i as Fixed.
//
// Values outside of the 24-bit integer range wrap.
func FixedFromInt(i int) Fixed {
	return Fixed(int32(i) << 8)
}

// FixedFromFloat returns f rounded to the nearest representable Fixed.
func FixedFromFloat(f float64) Fixed {
	return Fixed(int32(math.Round(f * 256)))
}

// Float returns f as float64. The conversion is exact.
func (f Fixed) Float() float64 {
	return float64(f) / 256
}

// Int returns the integer part of f, rounded toward negative infinity.
func (f Fixed) Int() int {
	return int(f >> 8)
}

func (f Fixed) String() string {
	return fmt.Sprintf("%g", f.Float())
}

// Header is the fixed part of every message.
type Header struct {
	Sender ObjectID
	Opcode uint16
	Size   uint16 // whole message size including header
}

// Encode puts h into b[:HeaderLen].
func (h Header) Encode(b []byte) {
	_ = b[HeaderLen-1]
	byteOrder.PutUint32(b[0:], uint32(h.Sender))
	byteOrder.PutUint16(b[4:], h.Opcode)
	byteOrder.PutUint16(b[6:], h.Size)
}

// DecodeHeader decodes message header from b[:HeaderLen].
//
// The size field is verified to describe a well-formed message: at least
// HeaderLen bytes and 4-byte aligned.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, malformedf("header: short read (%d bytes)", len(b))
	}
	h := Header{
		Sender: ObjectID(byteOrder.Uint32(b[0:])),
		Opcode: byteOrder.Uint16(b[4:]),
		Size:   byteOrder.Uint16(b[6:]),
	}
	if h.Size < HeaderLen {
		return h, malformedf("header: size %d < %d", h.Size, HeaderLen)
	}
	if h.Size%4 != 0 {
		return h, malformedf("header: size %d is not 4-byte aligned", h.Size)
	}
	return h, nil
}

// Message is one framed protocol message.
//
// FDs lists descriptors that travel with the message as ancillary data. On
// the receive side FDs is empty: received descriptors are queued on the
// connection and taken by the decoder of the message that consumes them.
type Message struct {
	Sender  ObjectID
	Opcode  uint16
	Payload []byte
	FDs     []int
}

// Size returns whole encoded size of m.
func (m *Message) Size() int {
	return HeaderLen + len(m.Payload)
}

// Header returns header describing m.
func (m *Message) Header() Header {
	return Header{Sender: m.Sender, Opcode: m.Opcode, Size: uint16(m.Size())}
}

// Encode appends encoded m (header + payload) to b and returns the result.
func (m *Message) Encode(b []byte) ([]byte, error) {
	if len(m.Payload)%4 != 0 {
		return b, malformedf("%v:%d: payload length %d is not 4-byte aligned",
			m.Sender, m.Opcode, len(m.Payload))
	}
	if len(m.Payload) > MaxPayloadSize {
		return b, malformedf("%v:%d: payload too big (%d bytes)",
			m.Sender, m.Opcode, len(m.Payload))
	}

	n := len(b)
	b = append(b, make([]byte, HeaderLen)...)
	m.Header().Encode(b[n:])
	return append(b, m.Payload...), nil
}

// DecodeMessage decodes one whole message from the beginning of data.
//
// It returns the message and the number of bytes consumed. The payload
// aliases data.
func DecodeMessage(data []byte) (*Message, int, error) {
	h, err := DecodeHeader(data)
	if err != nil {
		return nil, 0, err
	}
	if len(data) < int(h.Size) {
		return nil, 0, malformedf("%v:%d: message truncated: have %d bytes; size %d",
			h.Sender, h.Opcode, len(data), h.Size)
	}
	m := &Message{
		Sender:  h.Sender,
		Opcode:  h.Opcode,
		Payload: data[HeaderLen:h.Size],
	}
	return m, int(h.Size), nil
}

// pad4 returns n rounded up to multiple of 4.
func pad4(n int) int {
	return (n + 3) &^ 3
}
