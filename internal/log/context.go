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

package log

import (
	"context"

	"github.com/rs/zerolog"
)

type fieldOrigin struct{}
type fieldCommand struct{}
type fieldRun struct{}
type fieldServer struct{}
type fieldMessage struct{}

// WithOrigin adds the origin of processing to the context.
func WithOrigin(ctx context.Context, origin string) context.Context {
	return context.WithValue(ctx, fieldOrigin{}, origin)
}

// WithCommand adds the command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, fieldCommand{}, command)
}

// WithRun adds the identifier of the current retrieval run to the context.
func WithRun(ctx context.Context, run string) context.Context {
	return context.WithValue(ctx, fieldRun{}, run)
}

// WithServer adds the remote server address to the context.
func WithServer(ctx context.Context, server string) context.Context {
	return context.WithValue(ctx, fieldServer{}, server)
}

// WithMessage adds the message number currently being processed to the context.
func WithMessage(ctx context.Context, message int) context.Context {
	return context.WithValue(ctx, fieldMessage{}, message)
}

// appendContextFields adds defined fields in the context to the log event.
func appendContextFields(ctx context.Context, event *zerolog.Event) *zerolog.Event {
	if run, ok := ctx.Value(fieldRun{}).(string); ok {
		event.Str("run", run)
	}

	if server, ok := ctx.Value(fieldServer{}).(string); ok {
		event.Str("server", server)
	}

	if origin, ok := ctx.Value(fieldOrigin{}).(string); ok {
		event.Str("origin", origin)
	}

	if command, ok := ctx.Value(fieldCommand{}).(string); ok {
		event.Str("command", command)
	}

	if message, ok := ctx.Value(fieldMessage{}).(int); ok {
		event.Int("mail", message)
	}

	return event
}
