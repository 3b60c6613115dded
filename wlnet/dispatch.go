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

package wlnet
// routing of inbound messages

import (
	"context"

	"github.com/verdiwm/waynest-sub003/internal/log"
	"github.com/verdiwm/waynest-sub003/wire"
)

// Dispatcher handles messages addressed to one object.
//
// Generated bindings provide Dispatchers that decode the message according
// to the object's interface and invoke the matching handler method.
type Dispatcher interface {
	Dispatch(ctx context.Context, c *Conn, m *wire.Message) error
}

// DispatcherFunc adapts ordinary function to Dispatcher.
type DispatcherFunc func(ctx context.Context, c *Conn, m *wire.Message) error

func (f DispatcherFunc) Dispatch(ctx context.Context, c *Conn, m *wire.Message) error {
	return f(ctx, c, m)
}

// Dispatch receives next message and routes it to the Dispatcher of its
// target object.
//
// Messages for objects with no Dispatcher attached, and for released
// objects, are dropped together with their file descriptors. A message for
// an object that never existed is a protocol error.
//
// Protocol errors, returned either by routing or by the Dispatcher, are
// terminal. Other errors of the Dispatcher are returned as is.
func (c *Conn) Dispatch(ctx context.Context) error {
	m, err := c.Recv(ctx)
	if err != nil {
		return err
	}
	return c.DispatchMessage(ctx, m)
}

// DispatchMessage routes already received m. See Dispatch for details.
func (c *Conn) DispatchMessage(ctx context.Context, m *wire.Message) (err error) {
	defer func() {
		if err != nil && IsProtocolError(err) {
			err = c.fail(err)
			log.Warningf(ctx, "%s: %s", c, err)
		}
	}()

	iface, d, zombie, ok := c.objects.route(m.Sender)
	if !ok {
		return wire.Malformedf("message for unknown object %v", m.Sender)
	}

	if d == nil {
		ops := iface.Inbound(c.role)
		if int(m.Opcode) >= len(ops) {
			return wire.UnknownOpcode(iface.Name, m.Opcode)
		}
		c.fdq.Drop(ops[m.Opcode].FDs)
		if Trace {
			c.traceDrop(iface, m, zombie)
		}
		return nil
	}

	return d.Dispatch(ctx, c, m)
}

// Serve dispatches inbound messages until an error.
func (c *Conn) Serve(ctx context.Context) error {
	for {
		err := c.Dispatch(ctx)
		if err != nil {
			return err
		}
	}
}
