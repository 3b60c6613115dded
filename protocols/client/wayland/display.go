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

package wayland
// connection bootstrap

import (
	"context"

	"github.com/pkg/errors"

	"github.com/verdiwm/waynest-sub003/wire"
	"github.com/verdiwm/waynest-sub003/wlnet"
)

// DisplayObjectID is id of wl_display. The object exists on every
// connection without being created by a request.
const DisplayObjectID DisplayID = 1

// GetDisplay returns wl_display object of connection c.
//
// When the object is set up on c for the first time it gets a handler that
// frees ids confirmed by wl_display.delete_id; to receive display events
// use Listen, which keeps that.
func GetDisplay(c *wlnet.Conn) (*Display, error) {
	o := &Display{Conn: c, ID: DisplayObjectID}
	id := wire.ObjectID(DisplayObjectID)
	if iface, ok := c.Objects().Lookup(id); !ok || iface != DisplayInterface {
		if err := c.Objects().Add(id, DisplayInterface); err != nil {
			return nil, err
		}
		if err := o.Listen(nil); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Listen sets h to receive events of wl_display.
//
// Ids confirmed by wl_display.delete_id are freed before h is called. h may
// be nil; wl_display.error is then returned as error from dispatch.
func (o *Display) Listen(h DisplayHandler) error {
	return o.SetHandler(displayEvents{h})
}

type displayEvents struct {
	h DisplayHandler
}

func (d displayEvents) Error(ctx context.Context, o *Display, objectId wire.ObjectID, code uint32, message string) error {
	if d.h == nil {
		return errors.Errorf("%s: server error: object %v: code %d: %s", o.Conn, objectId, code, message)
	}
	return d.h.Error(ctx, o, objectId, code, message)
}

func (d displayEvents) DeleteId(ctx context.Context, o *Display, id uint32) error {
	err := o.Conn.Objects().Delete(wire.ObjectID(id))
	if err != nil {
		return err
	}
	if d.h == nil {
		return nil
	}
	return d.h.DeleteId(ctx, o, id)
}

// doneFunc is CallbackHandler calling itself on wl_callback.done.
type doneFunc func(callbackData uint32)

func (f doneFunc) Done(ctx context.Context, o *Callback, callbackData uint32) error {
	f(callbackData)
	return nil
}

// Roundtrip sends wl_display.sync and dispatches events until the server
// answers it. Every request sent before Roundtrip has been handled by the
// server when it returns.
func (o *Display) Roundtrip(ctx context.Context) error {
	cb, err := o.Sync(ctx)
	if err != nil {
		return err
	}

	done := false
	err = cb.SetHandler(doneFunc(func(uint32) { done = true }))
	if err != nil {
		return err
	}
	for !done {
		err = o.Conn.Dispatch(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}
