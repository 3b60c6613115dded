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
// protocol tracing

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/verdiwm/waynest-sub003/wire"
)

// Direction of a traced message.
type Direction string

const (
	TraceSend Direction = "send"
	TraceRecv Direction = "recv"
)

var tracer struct {
	sync.Mutex
	log zerolog.Logger
}

func init() {
	tracer.log = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339Nano,
	}).With().Timestamp().Logger()
}

// SetTraceLogger sets logger receiving protocol trace records.
//
// Records are emitted only when the package is built with wltrace tag.
func SetTraceLogger(l zerolog.Logger) {
	tracer.Lock()
	tracer.log = l
	tracer.Unlock()
}

func traceLogger() *zerolog.Logger {
	tracer.Lock()
	defer tracer.Unlock()
	l := tracer.log
	return &l
}

// Trace records message m of interface iface sent or received on c.
//
// argv are the decoded arguments. Generated bindings call it under
//
//	if wlnet.Trace { ... }
//
// so that without wltrace tag tracing costs nothing.
func (c *Conn) Trace(dir Direction, iface *Interface, m *wire.Message, argv ...interface{}) {
	ops := iface.Inbound(c.role)
	if dir == TraceSend {
		ops = iface.Outbound(c.role)
	}

	traceLogger().Debug().
		Str("conn", c.String()).
		Str("dir", string(dir)).
		Str("interface", iface.Name).
		Uint32("sender", uint32(m.Sender)).
		Uint16("opcode", m.Opcode).
		Str("op", opName(ops, m.Opcode)).
		Strs("args", traceArgs(argv)).
		Int("fds", len(m.FDs)).
		Msg("wayland")
}

func (c *Conn) traceDrop(iface *Interface, m *wire.Message, zombie bool) {
	traceLogger().Debug().
		Str("conn", c.String()).
		Str("dir", string(TraceRecv)).
		Str("interface", iface.Name).
		Uint32("sender", uint32(m.Sender)).
		Uint16("opcode", m.Opcode).
		Str("op", opName(iface.Inbound(c.role), m.Opcode)).
		Bool("zombie", zombie).
		Msg("wayland: dropped")
}

// traceArgs summarizes arguments for trace records.
//
// Arrays are shown by length only.
func traceArgs(argv []interface{}) []string {
	sv := make([]string, len(argv))
	for i, arg := range argv {
		sv[i] = traceArg(arg)
	}
	return sv
}

func traceArg(arg interface{}) string {
	switch arg := arg.(type) {
	case []byte:
		return fmt.Sprintf("array[%d]", len(arg))
	case string:
		return fmt.Sprintf("%q", arg)
	case *string:
		if arg == nil {
			return "nil"
		}
		return fmt.Sprintf("%q", *arg)
	case *os.File:
		if arg == nil {
			return "fd nil"
		}
		return fmt.Sprintf("fd %d", arg.Fd())
	case wire.ObjectID:
		if arg == 0 {
			return "nil"
		}
		return arg.String()
	case fmt.Stringer:
		return arg.String()
	}
	return fmt.Sprint(arg)
}
