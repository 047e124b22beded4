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

package pop3

import (
	"bytes"
	"fmt"
	"strings"
)

var (
	okToken    = []byte("+OK")
	errToken   = []byte("-ERR")
	crlf       = []byte("\r\n")
	dotEndline = []byte("\r\n.\r\n")
)

// ReplyKind is the status of a server reply.
type ReplyKind uint8

const (
	// Negative is a "-ERR" reply. Everything not starting with "+OK" is negative.
	Negative ReplyKind = iota
	// Positive is a single-line "+OK" reply.
	Positive
	// PositiveMultiline is a "+OK" reply followed by a dot terminated block of lines.
	PositiveMultiline
)

func (k ReplyKind) String() string {
	return [...]string{
		"negative",
		"positive",
		"positive-multiline",
	}[k]
}

// Reply is a parsed server response.
type Reply struct {
	Kind ReplyKind
	// Line is the text of the status line following the status token.
	Line string
	// Content is the block of a multi-line reply up to, but excluding the final "." <CR> <LF>.
	// It references the parsed buffer.
	Content []byte
}

// IsPositive reports whether the server accepted the command.
func (r *Reply) IsPositive() bool {
	return r.Kind != Negative
}

// Lines splits the content of a multi-line reply into lines without line breaks.
func (r *Reply) Lines() []string {
	if len(r.Content) == 0 {
		return nil
	}

	return strings.Split(strings.TrimSuffix(string(r.Content), "\r\n"), "\r\n")
}

func isPositive(buf []byte) bool {
	return bytes.HasPrefix(buf, okToken)
}

// ParseReply parses one complete reply. The status is decided by the first three bytes alone.
// If multiline is true and the status is positive, buf has to contain the status line followed
// by a block terminated by <CR> <LF> "." <CR> <LF>. ParseReply does not modify buf.
func ParseReply(buf []byte, multiline bool) (Reply, error) {
	end := bytes.Index(buf, crlf)
	if end < 0 {
		return Reply{}, fmt.Errorf("%w: missing line break", ErrMalformedReply)
	}

	status := buf[:end]

	if !isPositive(buf) {
		return Reply{
			Kind: Negative,
			Line: statusText(status, errToken),
		}, nil
	}

	reply := Reply{
		Kind: Positive,
		Line: statusText(status, okToken),
	}

	if !multiline {
		return reply, nil
	}

	// the line break of the status line starts the terminator of an empty block
	i := bytes.Index(buf[end:], dotEndline)
	if i < 0 {
		return Reply{}, fmt.Errorf("%w: missing end of multi-line reply", ErrMalformedReply)
	}

	reply.Kind = PositiveMultiline
	reply.Content = buf[end+len(crlf) : end+i+len(crlf)]

	return reply, nil
}

// ParseGreeting parses the first reply of the server. The greeting has to be exactly one
// positive line ending in <CR> <LF>.
func ParseGreeting(buf []byte) (Reply, error) {
	if !isPositive(buf) || !bytes.HasSuffix(buf, crlf) || bytes.Index(buf, crlf) != len(buf)-len(crlf) {
		return Reply{}, fmt.Errorf("%w: %q", ErrBadGreeting, buf)
	}

	return ParseReply(buf, false)
}

func statusText(status, token []byte) string {
	if !bytes.HasPrefix(status, token) {
		return string(status)
	}

	return strings.TrimPrefix(string(status[len(token):]), " ")
}
