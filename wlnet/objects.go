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
// object table and id allocation

import (
	"sync"

	"github.com/verdiwm/waynest-sub003/wire"
)

// object is entry of ObjectMap.
type object struct {
	iface *Interface
	d     Dispatcher // nil = messages are dropped

	// zombie objects were released, but messages sent to them before the
	// peer noticed can still arrive; such messages are dropped.
	zombie bool
}

// firstClientID is the lowest id NewID hands out on client side; id 1 is
// taken by wl_display.
const firstClientID wire.ObjectID = 2

// ObjectMap is the table of objects live on a connection.
//
// It allocates ids for objects created by our side, records objects created
// by the peer and keeps the Dispatcher of each object. It is safe for
// concurrent use.
//
// Released ids of our range are recycled. On client side a released id is
// reused only after the server confirmed it with wl_display.delete_id (see
// Delete): until then events the server sent before it saw the destruction
// may still arrive for it. On server side the client never refers to an id
// after destroying it, so ids are recycled at once.
type ObjectMap struct {
	mu     sync.Mutex
	role   Role
	objtab map[wire.ObjectID]*object
	next   wire.ObjectID   // lowest never allocated id of our range; 0 after the last one
	free   []wire.ObjectID // released ids of our range ready for reuse

	onRelease func(id wire.ObjectID) // see NotifyRelease
}

func (m *ObjectMap) init(role Role) {
	m.role = role
	m.objtab = make(map[wire.ObjectID]*object)
	m.next, _ = idRange(role)
	if role == RoleClient {
		m.next = firstClientID
	}
}

// live returns object with id unless it was released.
func (m *ObjectMap) live(id wire.ObjectID) *object {
	obj := m.objtab[id]
	if obj == nil || obj.zombie {
		return nil
	}
	return obj
}

// succ returns id following id in a range ending at hi, or 0 past the end.
func succ(id, hi wire.ObjectID) wire.ObjectID {
	if id == hi {
		return 0
	}
	return id + 1
}

// NewID allocates id for a new object of interface iface created by our side.
//
// No Dispatcher is attached: until Attach, messages for the object are dropped.
func (m *ObjectMap) NewID(iface *Interface) (wire.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var id wire.ObjectID
	for id == 0 && len(m.free) > 0 {
		l := len(m.free) - 1
		id = m.free[l]
		m.free = m.free[:l]
		if m.live(id) != nil {
			id = 0 // reused via Add meanwhile
		}
	}

	if id == 0 {
		_, hi := idRange(m.role)
		for m.next != 0 && m.objtab[m.next] != nil {
			m.next = succ(m.next, hi)
		}
		if m.next == 0 {
			return 0, ErrIDsExhausted
		}
		id = m.next
		m.next = succ(id, hi)
	}

	m.objtab[id] = &object{iface: iface}
	return id, nil
}

// Register records object id of interface iface created by the peer.
//
// The id must lie in the peer's range and must not be in use; otherwise
// error with wire.ErrIDConflict cause is returned.
func (m *ObjectMap) Register(id wire.ObjectID, iface *Interface) error {
	peer := m.role.Peer()
	if !InRange(peer, id) {
		return wire.IDConflictf("%s: new id %v is outside of %s range", iface.Name, id, peer)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if have := m.live(id); have != nil {
		return wire.IDConflictf("%s: new id %v is already used by %s", iface.Name, id, have.iface.Name)
	}
	m.objtab[id] = &object{iface: iface}
	return nil
}

// RegisterName is Register for generic new_id whose interface is known only
// by name, e.g. wl_registry.bind. The interface must be registered with
// RegisterInterface.
func (m *ObjectMap) RegisterName(id wire.ObjectID, name string) (*Interface, error) {
	iface, ok := LookupInterface(name)
	if !ok {
		return nil, wire.Malformedf("new id %v: unknown interface %q", id, name)
	}
	return iface, m.Register(id, iface)
}

// Add records object that exists without being created by a message, for
// example wl_display with id 1.
func (m *ObjectMap) Add(id wire.ObjectID, iface *Interface) error {
	if id == 0 {
		return wire.IDConflictf("%s: object id 0", iface.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if have := m.live(id); have != nil {
		return wire.IDConflictf("%s: id %v is already used by %s", iface.Name, id, have.iface.Name)
	}
	m.objtab[id] = &object{iface: iface}
	return nil
}

// Attach sets d to receive messages for object id.
func (m *ObjectMap) Attach(id wire.ObjectID, d Dispatcher) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.live(id)
	if obj == nil {
		return wire.IDConflictf("attach: no object %v", id)
	}
	obj.d = d
	return nil
}

// Release forgets object id.
//
// Messages for a released object that are still in flight are dropped. An
// id of our range becomes free for reuse: on server side at once, on client
// side after Delete. For an id of the peer range the function registered
// with NotifyRelease is called.
func (m *ObjectMap) Release(id wire.ObjectID) {
	m.mu.Lock()
	obj := m.live(id)
	if obj == nil {
		m.mu.Unlock()
		return
	}
	obj.zombie = true
	obj.d = nil
	notify := m.onRelease
	own := InRange(m.role, id)
	if own && m.role == RoleServer {
		m.free = append(m.free, id)
	}
	m.mu.Unlock()

	if !own && notify != nil {
		notify(id)
	}
}

// Delete handles the peer's confirmation that it no longer uses id of our
// range, e.g. wl_display.delete_id. The id becomes free for reuse.
//
// If the object was not yet released, it is released now.
func (m *ObjectMap) Delete(id wire.ObjectID) error {
	if !InRange(m.role, id) {
		return wire.IDConflictf("delete id %v: outside of %s range", id, m.role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.objtab[id]
	if obj == nil {
		return wire.IDConflictf("delete id %v: no such object", id)
	}
	delete(m.objtab, id)
	if m.role == RoleClient || !obj.zombie {
		m.free = append(m.free, id)
	}
	return nil
}

// NotifyRelease arranges for f to be called whenever an object created by
// the peer is released. A server uses it to send wl_display.delete_id.
//
// f is called without internal locks held.
func (m *ObjectMap) NotifyRelease(f func(id wire.ObjectID)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRelease = f
}

// Lookup returns interface of live object id.
func (m *ObjectMap) Lookup(id wire.ObjectID) (*Interface, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.live(id)
	if obj == nil {
		return nil, false
	}
	return obj.iface, true
}

// Len returns number of live objects.
func (m *ObjectMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, obj := range m.objtab {
		if !obj.zombie {
			n++
		}
	}
	return n
}

// route returns interface and dispatcher for a message to id.
// zombie=true means the object was released.
func (m *ObjectMap) route(id wire.ObjectID) (iface *Interface, d Dispatcher, zombie, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj := m.objtab[id]
	if obj == nil {
		return nil, nil, false, false
	}
	return obj.iface, obj.d, obj.zombie, true
}
