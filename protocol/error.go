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

package protocol
// errors

import (
	"errors"
	"strings"

	"lab.nexedi.com/kirr/go123/xerr"
)

// DocumentError reports invalid protocol document.
type DocumentError struct {
	Path   string // locator of the offending element, e.g. "wayland: wl_shm: enum format"
	Reason string
}

func (e *DocumentError) Error() string {
	if e.Path == "" {
		return "invalid document: " + e.Reason
	}
	return e.Path + ": " + e.Reason
}

// Errors returns all document errors reported by err.
//
// err may be a single error or a list collected while validating.
func Errors(err error) []*DocumentError {
	if errv, ok := err.(xerr.Errorv); ok {
		var dev []*DocumentError
		for _, e := range errv {
			dev = append(dev, Errors(e)...)
		}
		return dev
	}

	var de *DocumentError
	if errors.As(err, &de) {
		return []*DocumentError{de}
	}
	return nil
}

// path is locator of an element inside a document.
type path []string

func (p path) with(elem ...string) path {
	return append(p[:len(p):len(p)], elem...)
}

func (p path) String() string {
	return strings.Join(p, ": ")
}
