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

package wire
// queue of received file descriptors

import "sync"

// FDQueue is FIFO of file descriptors received out of band.
//
// Descriptors may arrive before the bytes of the message consuming them; the
// queue keeps them until a decoder takes them. It is safe for concurrent use.
type FDQueue struct {
	mu  sync.Mutex
	fdv []int
}

var _ FDSource = (*FDQueue)(nil)

// Push appends fdv to the queue tail.
func (q *FDQueue) Push(fdv ...int) {
	q.mu.Lock()
	q.fdv = append(q.fdv, fdv...)
	q.mu.Unlock()
}

// PopFD removes the oldest descriptor from the queue.
func (q *FDQueue) PopFD() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.fdv) == 0 {
		return -1, false
	}
	fd := q.fdv[0]
	q.fdv = q.fdv[1:]
	if len(q.fdv) == 0 {
		q.fdv = nil
	}
	return fd, true
}

// Len returns number of queued descriptors.
func (q *FDQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fdv)
}

// Drop closes n oldest descriptors.
//
// It returns how many were actually dropped.
func (q *FDQueue) Drop(n int) int {
	i := 0
	for ; i < n; i++ {
		fd, ok := q.PopFD()
		if !ok {
			break
		}
		CloseFD(fd)
	}
	return i
}

// Close closes all queued descriptors.
func (q *FDQueue) Close() {
	q.mu.Lock()
	fdv := q.fdv
	q.fdv = nil
	q.mu.Unlock()

	for _, fd := range fdv {
		CloseFD(fd)
	}
}
