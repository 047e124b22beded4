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
	"strings"

	"github.com/lukasdietrich/popcl/internal/textproto"
)

// command represents a command-line of the form:
//
//     <name> [<SP> <arg>]* <CR> <LF>
type command struct {
	name string
	args []string
}

var (
	cmdList = command{name: "LIST"}
	cmdQuit = command{name: "QUIT"}
)

func user(name string) *command {
	return &command{name: "USER", args: []string{name}}
}

func pass(secret string) *command {
	return &command{name: "PASS", args: []string{secret}}
}

func retr(id string) *command {
	return &command{name: "RETR", args: []string{id}}
}

func (c *command) validate() error {
	for _, arg := range c.args {
		if strings.ContainsAny(arg, "\r\n") {
			return errInvalidArgument
		}
	}

	return nil
}

func (c *command) writeTo(w textproto.Writer) error {
	if err := c.validate(); err != nil {
		return err
	}

	w.WriteString(c.name)

	for _, arg := range c.args {
		w.WriteString(" ")
		w.WriteString(arg)
	}

	w.Endline()

	return w.Flush()
}

// logName is the lowercase command name used for log context.
func (c *command) logName() string {
	return strings.ToLower(c.name)
}
