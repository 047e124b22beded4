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

import "bytes"

// Unstuff removes the leading dot of every line in a dot-encoded block, that starts with a dot.
// Lines are separated by <CR> <LF>. The input is not modified.
func Unstuff(block []byte) []byte {
	out := make([]byte, 0, len(block))

	for len(block) > 0 {
		var line []byte

		if i := bytes.Index(block, crlf); i >= 0 {
			line, block = block[:i+len(crlf)], block[i+len(crlf):]
		} else {
			line, block = block, nil
		}

		if len(line) > 0 && line[0] == '.' {
			line = line[1:]
		}

		out = append(out, line...)
	}

	return out
}
