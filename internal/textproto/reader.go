// Copyright (C) 2020  Lukas Dietrich <lukas@lukasdietrich.com>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package textproto

import (
	"bytes"
	"io"
)

var (
	crlf       = []byte("\r\n")
	dotLine    = []byte(".\r\n")
	dotEndline = []byte("\r\n.\r\n")
)

// Terminator returns the length of the first complete unit at the start of b or -1, if b does
// not contain one yet. The bytes before offset have already been checked by a previous call and
// did not complete a unit.
type Terminator func(b []byte, offset int) int

// Line terminates at the first <CR> <LF>.
func Line(b []byte, offset int) int {
	from := max(offset-len(crlf)+1, 0)

	if i := bytes.Index(b[from:], crlf); i >= 0 {
		return from + i + len(crlf)
	}

	return -1
}

// DotLine terminates at the first line consisting of a single dot. The data is expected to
// start at the beginning of a line, so a leading "." <CR> <LF> ends an empty block.
func DotLine(b []byte, offset int) int {
	if bytes.HasPrefix(b, dotLine) {
		return len(dotLine)
	}

	from := max(offset-len(dotEndline)+1, 0)

	if i := bytes.Index(b[from:], dotEndline); i >= 0 {
		return from + i + len(dotEndline)
	}

	return -1
}

// Reader reads terminated units from a byte stream, that arrives in chunks of arbitrary size.
type Reader interface {
	// ReadUntil reads chunks into an accumulation buffer until the terminator matches and
	// returns the complete unit including its terminator. Data following the unit is kept for
	// the next call.
	ReadUntil(Terminator) ([]byte, error)
}

type reader struct {
	r       io.Reader
	chunk   []byte
	pending []byte
	limit   int
}

func newReader(r io.Reader, chunkSize, limit int) *reader {
	return &reader{
		r:     r,
		chunk: make([]byte, chunkSize),
		limit: limit,
	}
}

func (r *reader) ReadUntil(t Terminator) ([]byte, error) {
	var offset int

	for {
		if n := t(r.pending, offset); n >= 0 {
			if r.exceeds(n) {
				return nil, r.discard()
			}

			return r.take(n), nil
		}

		if r.exceeds(len(r.pending)) {
			return nil, r.discard()
		}

		offset = len(r.pending)

		n, err := r.r.Read(r.chunk)
		r.pending = append(r.pending, r.chunk[:n]...)

		if err != nil {
			if n > 0 && t(r.pending, offset) >= 0 {
				continue
			}

			return nil, wrapError("read", err)
		}

		if n == 0 {
			return nil, ErrConnectionClosed
		}
	}
}

// exceeds reports whether a unit of n bytes is larger than the limit.
func (r *reader) exceeds(n int) bool {
	return r.limit > 0 && n > r.limit
}

func (r *reader) discard() error {
	r.pending = nil
	return ErrReplyTooLong
}

// take splits off the first n pending bytes. The remainder is moved to a fresh slice, so the
// returned unit is never overwritten by later reads.
func (r *reader) take(n int) []byte {
	unit := r.pending[:n:n]

	if rest := r.pending[n:]; len(rest) > 0 {
		r.pending = append([]byte(nil), rest...)
	} else {
		r.pending = nil
	}

	return unit
}
