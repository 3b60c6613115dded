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

// Package wlnet provides Wayland connections: framing of messages over a unix
// stream socket, passing of file descriptors, object id allocation and
// routing of inbound messages to per-object dispatchers.
//
// Conn is the central type. It owns the socket, the table of live objects
// and the queue of received file descriptors. Generated bindings build
// outbound messages with wire.Builder and hand them to Conn.Send; inbound
// messages are read by Conn.Dispatch and delivered to the Dispatcher attached
// to their target object.
//
// The receive and send halves of a Conn are independent: one goroutine can be
// blocked in Dispatch while others Send. Each half serializes its own users.
//
// Every blocking operation takes a context. Canceling it interrupts the
// operation without corrupting framing: a partially received message stays
// buffered for the next receive, and a send that did not transmit any byte can
// be retried. A send interrupted after some of its bytes hit the socket leaves
// the stream in unknown state and makes the connection unusable.
package wlnet

import (
	"errors"
	"fmt"

	"github.com/verdiwm/waynest-sub003/wire"
)

// Role is the side of a Wayland connection.
type Role int

const (
	RoleClient Role = iota // connection was dialed; we create ids in the client range
	RoleServer             // connection was accepted; we create ids in the server range
)

func (r Role) String() string {
	switch r {
	case RoleClient:
		return "client"
	case RoleServer:
		return "server"
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// Peer returns role of the other side.
func (r Role) Peer() Role {
	if r == RoleClient {
		return RoleServer
	}
	return RoleClient
}

// Object id ranges.
//
// Client-created ids live in [ClientIDMin, ClientIDMax]; server-created ids in
// [ServerIDMin, ServerIDMax]. Id 0 is never allocated: it encodes "no object".
const (
	ClientIDMin wire.ObjectID = 1
	ClientIDMax wire.ObjectID = 0xfeffffff
	ServerIDMin wire.ObjectID = 0xff000000
	ServerIDMax wire.ObjectID = 0xffffffff
)

// idRange returns range of ids created by role.
func idRange(role Role) (lo, hi wire.ObjectID) {
	if role == RoleServer {
		return ServerIDMin, ServerIDMax
	}
	return ClientIDMin, ClientIDMax
}

// InRange returns whether id belongs to the range of ids created by role.
func InRange(role Role, id wire.ObjectID) bool {
	lo, hi := idRange(role)
	return lo <= id && id <= hi
}

var (
	ErrClosed       = errors.New("connection is closed")
	ErrIDsExhausted = errors.New("object ids exhausted")
	ErrFDTruncated  = errors.New("file descriptors truncated by kernel")
)

// ConnError is returned by Conn operations that failed on IO level.
type ConnError struct {
	Conn *Conn
	Op   string
	Err  error
}

func (e *ConnError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Conn, e.Op, e.Err)
}

func (e *ConnError) Cause() error  { return e.Err }
func (e *ConnError) Unwrap() error { return e.Err }

func (c *Conn) err(op string, e error) error {
	if e == nil {
		return nil
	}
	return &ConnError{Conn: c, Op: op, Err: e}
}

// IsProtocolError returns whether err is a violation of the wire protocol by
// the peer: malformed payload, unknown opcode or object id conflict.
//
// Such errors leave the connection unusable.
func IsProtocolError(err error) bool {
	var eop *wire.UnknownOpcodeError
	return errors.Is(err, wire.ErrMalformed) ||
		errors.Is(err, wire.ErrIDConflict) ||
		errors.As(err, &eop)
}
