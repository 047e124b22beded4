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

import "errors"

var (
	// ErrProtocol is the root of all errors caused by unexpected server behaviour.
	ErrProtocol = errors.New("pop3: protocol error")

	// ErrBadGreeting is returned when the first line sent by the server is not a positive
	// single-line reply.
	ErrBadGreeting = wrapProtocol("bad greeting")

	// ErrAuthFailed is returned when the server rejected the username or password.
	ErrAuthFailed = wrapProtocol("authentication failed")

	// ErrNegativeReply is returned when the server rejected a command, that is required for
	// the session to continue.
	ErrNegativeReply = wrapProtocol("negative reply")

	// ErrMalformedReply is returned for replies, that cannot be parsed.
	ErrMalformedReply = wrapProtocol("malformed reply")

	errInvalidArgument = errors.New("pop3: command argument contains a line break")
)

type protocolError struct {
	text string
}

func wrapProtocol(text string) error {
	return &protocolError{text}
}

func (e *protocolError) Error() string {
	return "pop3: " + e.text
}

func (e *protocolError) Unwrap() error {
	return ErrProtocol
}
