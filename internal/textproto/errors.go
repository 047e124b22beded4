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
	"errors"
	"fmt"
	"io"
	"net"
)

var (
	// ErrTimeout is returned when a read or write did not complete before its deadline.
	ErrTimeout = errors.New("textproto: timed out")

	// ErrReplyTooLong is returned when more data than the configured limit was accumulated
	// without reaching a terminator.
	ErrReplyTooLong = errors.New("textproto: reply exceeds size limit")

	// ErrConnectionClosed is returned when the remote side closed the connection or a read
	// returned no data.
	ErrConnectionClosed = errors.New("textproto: connection closed")
)

func wrapError(op string, err error) error {
	if errors.Is(err, io.EOF) {
		return ErrConnectionClosed
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrTimeout, op, err)
	}

	return fmt.Errorf("textproto: %s: %w", op, err)
}
