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
// Conn: message framing over unix socket with fd passing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/someonegg/gocontainer/rbuf"
	"golang.org/x/sys/unix"
	"lab.nexedi.com/kirr/go123/xbytes"

	"github.com/verdiwm/waynest-sub003/wire"
)

// maxFDsPerMsg is the most descriptors one sendmsg may carry.
const maxFDsPerMsg = 28

// Conn is one end of a Wayland connection.
//
// It is safe to use Conn from multiple goroutines simultaneously: receive
// operations are serialized among themselves, and so are send operations,
// but a receive and a send can proceed in parallel.
type Conn struct {
	uc   *net.UnixConn
	role Role

	objects ObjectMap

	// rx half
	rxMu  sync.Mutex
	rxbuf rbuf.RingBuf   // bytes read from socket ahead of current message
	rxdat []byte         // buffer for reading current message
	rxoob []byte         // buffer for control messages
	fdq   wire.FDQueue   // received descriptors not yet consumed

	// tx half
	txMu  sync.Mutex
	txdat []byte

	errMu  sync.Mutex
	errTerm error // sticky error after which the connection is unusable

	closeOnce sync.Once
	errClose  error
}

// NewConn returns Conn playing role over uc.
//
// Conn takes ownership of uc.
func NewConn(uc *net.UnixConn, role Role) *Conn {
	c := &Conn{
		uc:    uc,
		role:  role,
		rxoob: make([]byte, unix.CmsgSpace(maxFDsPerMsg*4)),
	}
	c.objects.init(role)
	return c
}

// Role returns role c plays on the connection.
func (c *Conn) Role() Role { return c.role }

// Objects returns table of objects live on c.
func (c *Conn) Objects() *ObjectMap { return &c.objects }

// FDs returns queue of received file descriptors not yet consumed by decoders.
func (c *Conn) FDs() *wire.FDQueue { return &c.fdq }

// Reader returns reader decoding payload of m with descriptors taken from c.
func (c *Conn) Reader(m *wire.Message) *wire.Reader {
	return wire.NewReader(m.Payload, &c.fdq)
}

func (c *Conn) String() string {
	return fmt.Sprintf("%s (%s)", c.uc.LocalAddr(), c.role)
}

// Err returns the error that made c unusable, or nil.
func (c *Conn) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.errTerm
}

// fail marks c as unusable because of err and returns the sticky error.
//
// The first failure wins: later calls return the originally recorded error.
func (c *Conn) fail(err error) error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.errTerm == nil {
		c.errTerm = err
	}
	return c.errTerm
}

// Close closes the socket and drops all not yet consumed descriptors.
//
// Blocked operations return with ErrClosed.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.fail(c.err("close", ErrClosed))
		c.errClose = c.uc.Close()
		c.fdq.Close()
	})
	return c.errClose
}

// ctxErr returns error to report when an IO operation failed with err while
// running under ctx. ok=false means the failure was not due to ctx.
func ctxErr(ctx context.Context, err error) (_ error, ok bool) {
	if e := ctx.Err(); e != nil {
		return e, true
	}
	// the deadline set from ctx may expire slightly before ctx is marked done
	if _, has := ctx.Deadline(); has && errors.Is(err, os.ErrDeadlineExceeded) {
		return context.DeadlineExceeded, true
	}
	return nil, false
}

// aLongTimeAgo is deadline in the past used to interrupt blocked IO.
var aLongTimeAgo = time.Unix(1, 0)

// watchCtx arranges for IO blocked via deadlines set by setDeadline to be
// interrupted when ctx is done. The returned stop must be called after IO.
func watchCtx(ctx context.Context, setDeadline func(time.Time) error) (stop func()) {
	if ctx.Done() == nil {
		return func() {}
	}
	if d, ok := ctx.Deadline(); ok {
		setDeadline(d)
	}

	fired := make(chan struct{})
	stopf := context.AfterFunc(ctx, func() {
		setDeadline(aLongTimeAgo)
		close(fired)
	})
	return func() {
		if !stopf() {
			<-fired
		}
		setDeadline(time.Time{})
	}
}

// ---- receive ----

// Recv receives next message.
//
// Descriptors that arrive with the message are appended to c.FDs(); it is
// the decoder that matches them to fd arguments.
//
// If ctx is canceled Recv returns ctx error and the connection stays
// usable: bytes of a partially received message are kept for the next Recv.
// IO errors and invalid message headers are terminal.
func (c *Conn) Recv(ctx context.Context) (*wire.Message, error) {
	c.rxMu.Lock()
	defer c.rxMu.Unlock()

	if err := c.Err(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stop := watchCtx(ctx, c.uc.SetReadDeadline)
	defer stop()

	m, err := c.recvMsg()
	if err != nil {
		if e, ok := ctxErr(ctx, err); ok {
			return nil, e
		}
		return nil, c.fail(err)
	}
	return m, nil
}

// recvMsg reads one message. Must be called with rxMu held.
func (c *Conn) recvMsg() (*wire.Message, error) {
	data := xbytes.Realloc(c.rxdat, 4096)
	data = data[:cap(data)]
	n := 0 // number of message bytes obtained so far

	// on error keep what was read; it is the beginning of the next message
	unread := func() {
		if n > 0 {
			c.rxbuf.Write(data[:n])
		}
		c.rxdat = data
	}

	n, err := c.fill(data, n, wire.HeaderLen)
	if err != nil {
		unread()
		return nil, err
	}

	h, err := wire.DecodeHeader(data[:wire.HeaderLen])
	if err != nil {
		return nil, err
	}
	size := int(h.Size)

	// resize data if we don't have enough room in it
	if size > cap(data) {
		data2 := make([]byte, size)
		copy(data2, data[:n])
		data = data2
	}

	n, err = c.fill(data, n, size)
	if err != nil {
		unread()
		return nil, err
	}

	// put overread data into rxbuf for next reader
	if n > size {
		c.rxbuf.Write(data[size:n])
	}
	c.rxdat = data

	m := &wire.Message{
		Sender:  h.Sender,
		Opcode:  h.Opcode,
		Payload: append([]byte(nil), data[wire.HeaderLen:size]...),
	}
	return m, nil
}

// fill reads into data until it has at least need bytes.
//
// Bytes prefetched into rxbuf are consumed first, and only up to need, so
// that whatever stays in rxbuf follows data[:need] in the stream. Reads from
// the socket may go past need up to cap(data).
func (c *Conn) fill(data []byte, n, need int) (int, error) {
	data = data[:cap(data)]
	for n < need {
		if c.rxbuf.Len() > 0 {
			δn, _ := c.rxbuf.Read(data[n:need])
			n += δn
			continue
		}

		δn, err := c.readSock(data[n:])
		n += δn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// readSock does one read from the socket queueing received descriptors.
func (c *Conn) readSock(p []byte) (int, error) {
	n, oobn, flags, _, err := c.uc.ReadMsgUnix(p, c.rxoob)
	if n < 0 {
		n = 0 // -1 on timeout or cancel
	}
	if oobn > 0 {
		// descriptors are ours even if the read failed
		if e := c.takeRights(c.rxoob[:oobn]); e != nil && err == nil {
			err = e
		}
	}
	if err == nil && flags&unix.MSG_CTRUNC != 0 {
		err = ErrFDTruncated
	}
	if err == nil && n == 0 {
		err = io.EOF
	}
	return n, c.err("recv", err)
}

// takeRights queues descriptors carried by SCM_RIGHTS control messages in oob.
func (c *Conn) takeRights(oob []byte) error {
	cmsgv, err := unix.ParseSocketControlMessage(oob)
	if err != nil {
		return err
	}
	for i := range cmsgv {
		fdv, err := unix.ParseUnixRights(&cmsgv[i])
		if err != nil {
			continue // not SCM_RIGHTS
		}
		c.fdq.Push(fdv...)
	}
	return nil
}

// ---- send ----

// Send transmits m together with its file descriptors.
//
// Descriptors in m.FDs stay owned by the caller; the peer receives copies.
//
// If ctx is canceled before any byte of m was written, Send returns ctx
// error and the connection stays usable. Cancellation after a partial write
// and IO errors are terminal.
func (c *Conn) Send(ctx context.Context, m *wire.Message) error {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	if err := c.Err(); err != nil {
		return err
	}
	if len(m.FDs) > maxFDsPerMsg {
		return wire.Malformedf("%v:%d: too many file descriptors (%d)", m.Sender, m.Opcode, len(m.FDs))
	}

	data, err := m.Encode(c.txdat[:0])
	if err != nil {
		return err
	}
	c.txdat = data

	if err := ctx.Err(); err != nil {
		return err
	}

	stop := watchCtx(ctx, c.uc.SetWriteDeadline)
	defer stop()

	var oob []byte
	if len(m.FDs) > 0 {
		oob = unix.UnixRights(m.FDs...)
	}

	// descriptors go with the first chunk; the rest is plain stream data
	n, _, err := c.uc.WriteMsgUnix(data, oob, nil)
	if n < 0 {
		n = 0 // -1 on timeout or cancel
	}
	for err == nil && n < len(data) {
		var δn int
		δn, err = c.uc.Write(data[n:])
		n += δn
	}

	if err != nil {
		if e, ok := ctxErr(ctx, err); ok && n == 0 {
			return e
		}
		return c.fail(c.err("send", err))
	}
	return nil
}
