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

	"github.com/verdiwm/waynest-sub003/internal/log"
	"github.com/verdiwm/waynest-sub003/wire"
	"github.com/verdiwm/waynest-sub003/wlnet"
)

// DisplayObjectID is id of wl_display. The object exists on every
// connection without being created by a request.
const DisplayObjectID DisplayID = 1

// GetDisplay returns wl_display object of connection c.
//
// Requests of the client start to be handled once a handler is set on the
// returned object. Whenever an object created by the client is released,
// wl_display.delete_id is sent so the client can reuse its id.
func GetDisplay(c *wlnet.Conn) (*Display, error) {
	o := &Display{Conn: c, ID: DisplayObjectID}
	id := wire.ObjectID(DisplayObjectID)
	if iface, ok := c.Objects().Lookup(id); !ok || iface != DisplayInterface {
		if err := c.Objects().Add(id, DisplayInterface); err != nil {
			return nil, err
		}
		c.Objects().NotifyRelease(o.deleteID)
	}
	return o, nil
}

// deleteID tells the client that its object id is no longer used.
func (o *Display) deleteID(id wire.ObjectID) {
	ctx := context.Background()
	err := o.DeleteId(ctx, uint32(id))
	if err != nil && log.V(1) {
		log.Infof(ctx, "%s: delete_id %v: %s", o.Conn, id, err)
	}
}

// PostError sends wl_display.error about object id.
//
// The error is fatal: the client is expected to disconnect.
func (o *Display) PostError(ctx context.Context, id wire.ObjectID, code uint32, message string) error {
	err := o.Error(ctx, id, code, message)
	if err != nil {
		return err
	}
	log.Warningf(ctx, "%s: posted error to client: object %v: code %d: %s", o.Conn, id, code, message)
	return nil
}
