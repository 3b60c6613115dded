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

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/verdiwm/waynest-sub003/wire"
)

var testDisplay = &Interface{
	Name:    "test_display",
	Version: 1,
	Requests: []Op{
		{Name: "ping"},
		{Name: "pass_fd", FDs: 1},
	},
	Events: []Op{
		{Name: "pong"},
		{Name: "two_fds", FDs: 2},
	},
}

func xobjects(role Role) *ObjectMap {
	m := &ObjectMap{}
	m.init(role)
	return m
}

func TestNewIDRanges(t *testing.T) {
	// id 1 is left for wl_display even if it is not added yet
	c := xobjects(RoleClient)
	for want := wire.ObjectID(2); want < 5; want++ {
		id, err := c.NewID(testDisplay)
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
	require.NoError(t, c.Add(1, testDisplay))

	s := xobjects(RoleServer)
	id, err := s.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, ServerIDMin, id)
	id, err = s.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, ServerIDMin+1, id)
}

func TestIDRecycling(t *testing.T) {
	m := xobjects(RoleClient)
	var idv []wire.ObjectID
	for i := 0; i < 4; i++ {
		id, err := m.NewID(testDisplay)
		require.NoError(t, err)
		idv = append(idv, id)
	}
	require.Equal(t, []wire.ObjectID{2, 3, 4, 5}, idv)
	require.Equal(t, 4, m.Len())

	m.Release(3)
	require.Equal(t, 3, m.Len())
	_, ok := m.Lookup(3)
	require.False(t, ok)

	// released id is not reused until the server confirms deletion
	id, err := m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, wire.ObjectID(6), id)

	require.NoError(t, m.Delete(3))
	id, err = m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, wire.ObjectID(3), id)

	// releasing twice is a no-op, deleting twice is an error
	m.Release(6)
	m.Release(6)
	require.NoError(t, m.Delete(6))
	err = m.Delete(6)
	require.True(t, errors.Is(err, wire.ErrIDConflict), "%v", err)
	id, err = m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, wire.ObjectID(6), id)

	// deletion of a live object releases it
	require.NoError(t, m.Delete(5))
	_, ok = m.Lookup(5)
	require.False(t, ok)
	id, err = m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, wire.ObjectID(5), id)

	for _, bad := range []wire.ObjectID{0, 100, ServerIDMin} {
		err = m.Delete(bad)
		require.True(t, errors.Is(err, wire.ErrIDConflict), "%v: %v", bad, err)
	}
}

func TestIDRecyclingServer(t *testing.T) {
	m := xobjects(RoleServer)
	a, err := m.NewID(testDisplay)
	require.NoError(t, err)
	b, err := m.NewID(testDisplay)
	require.NoError(t, err)

	// the client never refers to objects it destroyed: reuse at once
	m.Release(a)
	m.Release(b)
	id, err := m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, b, id)
	id, err = m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, a, id)
}

func TestNotifyRelease(t *testing.T) {
	s := xobjects(RoleServer)
	var released []wire.ObjectID
	s.NotifyRelease(func(id wire.ObjectID) {
		// no locks are held
		_, ok := s.Lookup(id)
		require.False(t, ok)
		released = append(released, id)
	})

	require.NoError(t, s.Register(7, testDisplay))
	own, err := s.NewID(testDisplay)
	require.NoError(t, err)

	s.Release(own) // created by us: nothing to notify
	s.Release(7)
	s.Release(7)
	s.Release(8) // unknown
	require.Equal(t, []wire.ObjectID{7}, released)
}

// an event sent before the server saw the destruction of an object must not
// reach an object created after it.
func TestStaleEventAfterRelease(t *testing.T) {
	client, server := xpipe(t)
	ctx := context.Background()

	a, err := client.Objects().NewID(testDisplay)
	require.NoError(t, err)
	require.NoError(t, server.Objects().Register(a, testDisplay))
	var deleted []wire.ObjectID
	server.Objects().NotifyRelease(func(id wire.ObjectID) {
		deleted = append(deleted, id)
	})

	// the server sends event to a while the client destroys it
	require.NoError(t, server.Send(ctx, xmsg(a, 0)))
	client.Objects().Release(a)

	b, err := client.Objects().NewID(testDisplay)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
	var got []wire.ObjectID
	require.NoError(t, client.Objects().Attach(b, DispatcherFunc(
		func(ctx context.Context, c *Conn, m *wire.Message) error {
			got = append(got, m.Sender)
			return c.Reader(m).Finish()
		})))

	require.NoError(t, client.Dispatch(ctx))
	require.Empty(t, got)
	require.NoError(t, client.Err())

	// the server handles the destruction and confirms it
	server.Objects().Release(a)
	require.Equal(t, []wire.ObjectID{a}, deleted)
	require.NoError(t, client.Objects().Delete(a))
	id, err := client.Objects().NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, a, id)

	require.NoError(t, server.Send(ctx, xmsg(b, 0)))
	require.NoError(t, client.Dispatch(ctx))
	require.Equal(t, []wire.ObjectID{b}, got)
}

func TestIDExhaustion(t *testing.T) {
	m := xobjects(RoleServer)
	m.next = ServerIDMax - 1

	id, err := m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, ServerIDMax-1, id)
	id, err = m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, ServerIDMax, id)

	_, err = m.NewID(testDisplay)
	require.Equal(t, ErrIDsExhausted, err)

	m.Release(ServerIDMax - 1)
	id, err = m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, ServerIDMax-1, id)
}

func TestRegister(t *testing.T) {
	s := xobjects(RoleServer)

	require.NoError(t, s.Register(3, testDisplay))
	iface, ok := s.Lookup(3)
	require.True(t, ok)
	require.Equal(t, testDisplay, iface)

	// already live
	err := s.Register(3, testDisplay)
	require.True(t, errors.Is(err, wire.ErrIDConflict), "%v", err)

	// outside of the client range
	err = s.Register(ServerIDMin+3, testDisplay)
	require.True(t, errors.Is(err, wire.ErrIDConflict), "%v", err)
	err = s.Register(0, testDisplay)
	require.True(t, errors.Is(err, wire.ErrIDConflict), "%v", err)

	// after release the peer may reuse the id
	s.Release(3)
	require.NoError(t, s.Register(3, testDisplay))

	c := xobjects(RoleClient)
	require.NoError(t, c.Register(ServerIDMin, testDisplay))
	err = c.Register(7, testDisplay)
	require.True(t, errors.Is(err, wire.ErrIDConflict), "%v", err)
}

func TestRegisterName(t *testing.T) {
	RegisterInterface(testDisplay)
	s := xobjects(RoleServer)

	iface, err := s.RegisterName(8, "test_display")
	require.NoError(t, err)
	require.Equal(t, testDisplay, iface)

	_, err = s.RegisterName(9, "no_such_interface")
	require.True(t, errors.Is(err, wire.ErrMalformed), "%v", err)
}

func TestAddAttach(t *testing.T) {
	m := xobjects(RoleClient)
	require.NoError(t, m.Add(1, testDisplay))
	require.True(t, errors.Is(m.Add(1, testDisplay), wire.ErrIDConflict))
	require.True(t, errors.Is(m.Add(0, testDisplay), wire.ErrIDConflict))

	require.NoError(t, m.Attach(1, DispatcherFunc(nil)))
	require.Error(t, m.Attach(2, DispatcherFunc(nil)))

	// NewID skips ids taken by Add
	require.NoError(t, m.Add(2, testDisplay))
	id, err := m.NewID(testDisplay)
	require.NoError(t, err)
	require.Equal(t, wire.ObjectID(3), id)
}

func TestRegistry(t *testing.T) {
	a := &Interface{Name: "test_registry_iface", Version: 2, Requests: []Op{{Name: "a"}}}
	b := &Interface{Name: "test_registry_iface", Version: 2, Requests: []Op{{Name: "a"}}}
	require.Equal(t, a, RegisterInterface(a))
	require.True(t, RegisterInterface(b) == a)

	iface, ok := LookupInterface("test_registry_iface")
	require.True(t, ok)
	require.True(t, iface == a)
	require.Contains(t, Interfaces(), "test_registry_iface")

	require.Panics(t, func() {
		RegisterInterface(&Interface{Name: "test_registry_iface", Version: 3})
	})
}

func TestDispatch(t *testing.T) {
	client, server := xpipe(t)
	ctx := context.Background()

	require.NoError(t, server.Objects().Add(1, testDisplay))
	require.NoError(t, client.Objects().Add(1, testDisplay))

	var got []uint16
	require.NoError(t, server.Objects().Attach(1, DispatcherFunc(
		func(ctx context.Context, c *Conn, m *wire.Message) error {
			require.True(t, c == server)
			got = append(got, m.Opcode)
			r := c.Reader(m)
			if m.Opcode == 1 {
				f := r.FD()
				if f != nil {
					defer f.Close()
				}
			}
			return r.Finish()
		})))

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	require.NoError(t, client.Send(ctx, xmsg(1, 0)))
	m := xmsg(1, 1)
	m.FDs = []int{int(pr.Fd())}
	require.NoError(t, client.Send(ctx, m))

	require.NoError(t, server.Dispatch(ctx))
	require.NoError(t, server.Dispatch(ctx))
	require.Equal(t, []uint16{0, 1}, got)
	require.Equal(t, 0, server.FDs().Len())
}

func TestDispatchDropsUnattached(t *testing.T) {
	client, server := xpipe(t)
	ctx := context.Background()

	// object known to the client but with no dispatcher
	id, err := server.Objects().NewID(testDisplay)
	require.NoError(t, err)
	require.NoError(t, client.Objects().Register(id, testDisplay))

	pr, pw, err := os.Pipe()
	require.NoError(t, err)
	defer pr.Close()
	defer pw.Close()

	m := xmsg(id, 1)
	m.FDs = []int{int(pr.Fd()), int(pw.Fd())}
	require.NoError(t, server.Send(ctx, m))
	require.NoError(t, client.Dispatch(ctx))
	require.Equal(t, 0, client.FDs().Len())
	require.NoError(t, client.Err())

	// same for released objects
	client.Objects().Release(id)
	require.NoError(t, server.Send(ctx, xmsg(id, 0)))
	require.NoError(t, client.Dispatch(ctx))
	require.NoError(t, client.Err())
}

func TestDispatchProtocolErrors(t *testing.T) {
	ctx := context.Background()

	// message for object that never existed
	client, server := xpipe(t)
	require.NoError(t, client.Send(ctx, xmsg(42, 0)))
	err := server.Dispatch(ctx)
	require.True(t, errors.Is(err, wire.ErrMalformed), "%v", err)
	require.True(t, errors.Is(server.Err(), wire.ErrMalformed))

	// unknown opcode on unattached object
	client, server = xpipe(t)
	require.NoError(t, server.Objects().Add(1, testDisplay))
	require.NoError(t, client.Send(ctx, xmsg(1, 9)))
	err = server.Dispatch(ctx)
	var eop *wire.UnknownOpcodeError
	require.True(t, errors.As(err, &eop), "%v", err)
	require.Equal(t, "test_display", eop.Interface)
	require.Error(t, server.Err())
}

func TestDispatchHandlerErrors(t *testing.T) {
	client, server := xpipe(t)
	ctx := context.Background()
	require.NoError(t, server.Objects().Add(1, testDisplay))

	errApp := errors.New("application says no")
	var ret error
	require.NoError(t, server.Objects().Attach(1, DispatcherFunc(
		func(context.Context, *Conn, *wire.Message) error {
			return ret
		})))

	// application errors are returned but the connection stays usable
	ret = errApp
	require.NoError(t, client.Send(ctx, xmsg(1, 0)))
	require.Equal(t, errApp, server.Dispatch(ctx))
	require.NoError(t, server.Err())

	// protocol errors are terminal
	ret = wire.Malformedf("bad")
	require.NoError(t, client.Send(ctx, xmsg(1, 0)))
	require.True(t, errors.Is(server.Dispatch(ctx), wire.ErrMalformed))
	require.True(t, errors.Is(server.Err(), wire.ErrMalformed))
}

func TestTraceArg(t *testing.T) {
	s := "hi"
	testv := []struct {
		arg  interface{}
		want string
	}{
		{uint32(7), "7"},
		{"hello", `"hello"`},
		{(*string)(nil), "nil"},
		{&s, `"hi"`},
		{[]byte{1, 2, 3}, "array[3]"},
		{wire.ObjectID(0), "nil"},
		{wire.ObjectID(5), "@5"},
		{wire.FixedFromInt(2), "2"},
	}
	for _, tt := range testv {
		got := traceArg(tt.arg)
		if got != tt.want {
			t.Errorf("traceArg(%#v) -> %q  ; want %q", tt.arg, got, tt.want)
		}
	}
}
