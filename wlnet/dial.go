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
// establishing connections

import (
	"context"
	"net"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// DefaultDisplay is the display name used when WAYLAND_DISPLAY is not set.
const DefaultDisplay = "wayland-0"

// DisplayPath returns path of the compositor socket as determined by
// environment: $WAYLAND_DISPLAY, relative to $XDG_RUNTIME_DIR unless it is
// absolute.
func DisplayPath() (string, error) {
	display := os.Getenv("WAYLAND_DISPLAY")
	if display == "" {
		display = DefaultDisplay
	}
	if filepath.IsAbs(display) {
		return display, nil
	}

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	if runtimeDir == "" {
		return "", errors.New("XDG_RUNTIME_DIR is not set")
	}
	return filepath.Join(runtimeDir, display), nil
}

// Dial connects to compositor listening on unix socket path.
func Dial(ctx context.Context, path string) (*Conn, error) {
	var d net.Dialer
	nc, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	return NewConn(nc.(*net.UnixConn), RoleClient), nil
}

// DialDisplay connects to compositor found via DisplayPath.
func DialDisplay(ctx context.Context) (*Conn, error) {
	path, err := DisplayPath()
	if err != nil {
		return nil, errors.Wrap(err, "dial")
	}
	return Dial(ctx, path)
}

// Listener accepts client connections on unix socket.
type Listener struct {
	l *net.UnixListener
}

// Listen creates unix socket at path and starts listening on it.
//
// The socket file is removed on Close.
func Listen(path string) (*Listener, error) {
	l, err := net.ListenUnix("unix", &net.UnixAddr{Name: path, Net: "unix"})
	if err != nil {
		return nil, err
	}
	return &Listener{l: l}, nil
}

// Accept waits for next client and returns server end of its connection.
func (l *Listener) Accept(ctx context.Context) (*Conn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stop := watchCtx(ctx, l.l.SetDeadline)
	defer stop()

	uc, err := l.l.AcceptUnix()
	if err != nil {
		if e, ok := ctxErr(ctx, err); ok {
			return nil, e
		}
		return nil, err
	}
	return NewConn(uc, RoleServer), nil
}

func (l *Listener) Addr() net.Addr { return l.l.Addr() }
func (l *Listener) Close() error   { return l.l.Close() }

// Pipe creates connected pair of client and server Conns over socketpair.
func Pipe() (client, server *Conn, err error) {
	fdv, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, errors.Wrap(os.NewSyscallError("socketpair", err), "pipe")
	}

	uc := func(fd int, name string) (*net.UnixConn, error) {
		f := os.NewFile(uintptr(fd), name)
		defer f.Close() // FileConn dups
		nc, err := net.FileConn(f)
		if err != nil {
			return nil, err
		}
		return nc.(*net.UnixConn), nil
	}

	cuc, err := uc(fdv[0], "wayland-client")
	if err != nil {
		unix.Close(fdv[1])
		return nil, nil, errors.Wrap(err, "pipe")
	}
	suc, err := uc(fdv[1], "wayland-server")
	if err != nil {
		cuc.Close()
		return nil, nil, errors.Wrap(err, "pipe")
	}

	return NewConn(cuc, RoleClient), NewConn(suc, RoleServer), nil
}
