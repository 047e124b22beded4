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
	"fmt"
	"strconv"
	"strings"
)

// Entry is a single line of a LIST reply.
type Entry struct {
	// ID is the message number assigned by the server.
	ID int
	// Size is the size of the message in octets.
	Size int64
}

// ParseListing parses the reply to a LIST command without argument. The status line has to
// start with the number of messages, which has to match the number of listed entries. Entries
// keep the order of the reply.
func ParseListing(reply Reply) ([]Entry, error) {
	if reply.Kind != PositiveMultiline {
		return nil, fmt.Errorf("%w: expected a multi-line listing", ErrMalformedReply)
	}

	fields := strings.Fields(reply.Line)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: missing message count in %q", ErrMalformedReply, reply.Line)
	}

	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return nil, fmt.Errorf("%w: invalid message count in %q", ErrMalformedReply, reply.Line)
	}

	lines := reply.Lines()
	entries := make([]Entry, 0, len(lines))

	for _, line := range lines {
		entry, err := parseEntry(line)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if len(entries) != count {
		return nil, fmt.Errorf("%w: announced %d messages, listed %d",
			ErrMalformedReply, count, len(entries))
	}

	return entries, nil
}

// parseEntry parses a scan listing of the form:
//
//     <id> <SP> <size>
func parseEntry(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Entry{}, fmt.Errorf("%w: invalid listing %q", ErrMalformedReply, line)
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id <= 0 {
		return Entry{}, fmt.Errorf("%w: invalid message number in %q", ErrMalformedReply, line)
	}

	size, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || size < 0 {
		return Entry{}, fmt.Errorf("%w: invalid message size in %q", ErrMalformedReply, line)
	}

	return Entry{ID: id, Size: size}, nil
}
