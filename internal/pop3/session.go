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
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/lukasdietrich/popcl/internal/credentials"
	"github.com/lukasdietrich/popcl/internal/log"
	"github.com/lukasdietrich/popcl/internal/textproto"
)

func init() {
	viper.SetDefault("pop3.unstuff", false)
}

// State is the phase of a session.
type State uint8

const (
	StateConnecting State = iota
	StateGreeted
	StateUser
	StatePass
	StateListing
	StateRetrieving
	StateQuitting
	StateClosed
	StateFailed
)

func (s State) String() string {
	return [...]string{
		"connecting",
		"greeted",
		"user",
		"pass",
		"listing",
		"retrieving",
		"quitting",
		"closed",
		"failed",
	}[s]
}

// Message is a message retrieved from the server.
type Message struct {
	// ID is the message number from the listing.
	ID int
	// Size is the size announced by the listing.
	Size int64
	// Body is the raw message as delivered, without the final dot line.
	Body []byte
}

// DeliverFunc receives every retrieved message. Returning an error aborts the session.
type DeliverFunc func(context.Context, Message) error

// Outcome counts the messages of a session.
type Outcome struct {
	// Listed is the number of messages in the listing.
	Listed int
	// Retrieved is the number of messages retrieved and accepted by the DeliverFunc.
	Retrieved int
	// Skipped is the number of messages the server refused to send.
	Skipped int
}

// SessionOptions configure a session.
type SessionOptions struct {
	// Timeout is applied to every read and write. Zero disables timeouts.
	Timeout time.Duration
	// Unstuff removes the dot-stuffing from retrieved messages.
	Unstuff bool
}

// SessionOptionsFromViper returns SessionOptions using configuration from viper.
//
// `connection.timeout` is the timeout of every network operation.
// `pop3.unstuff` enables removal of dot-stuffing.
func SessionOptionsFromViper() SessionOptions {
	return SessionOptions{
		Timeout: viper.GetDuration("connection.timeout"),
		Unstuff: viper.GetBool("pop3.unstuff"),
	}
}

// Session drives a single pop3 exchange of greeting, authentication, listing, retrieval and
// quit over a connection. A session owns its connection and closes it when Run returns.
type Session struct {
	conn          textproto.Conn
	opts          SessionOptions
	state         State
	authenticated bool
}

// NewSession creates a new Session on an established connection.
func NewSession(conn textproto.Conn, opts SessionOptions) *Session {
	return &Session{
		conn:  conn,
		opts:  opts,
		state: StateConnecting,
	}
}

// State returns the current phase of the session.
func (s *Session) State() State {
	return s.state
}

// Run performs the whole session. Every message of the listing is retrieved in listing order and
// passed to deliver. Messages the server refuses to send are skipped. Any other failure ends
// the session with an error; the outcome up to that point is still returned.
//
// Canceling ctx interrupts a pending read and ends the session with the error of ctx.
func (s *Session) Run(ctx context.Context, creds credentials.Credentials, deliver DeliverFunc) (Outcome, error) {
	ctx = log.WithOrigin(ctx, "pop3")
	defer s.conn.Close()

	stop := context.AfterFunc(ctx, func() {
		if err := s.conn.Interrupt(); err != nil {
			log.DebugContext(ctx).
				Err(err).
				Msg("could not interrupt connection")
		}
	})
	defer stop()

	var outcome Outcome

	if err := s.run(ctx, creds, deliver, &outcome); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}

		s.fail(ctx, err)
		return outcome, err
	}

	s.state = StateClosed
	return outcome, nil
}

func (s *Session) run(ctx context.Context, creds credentials.Credentials, deliver DeliverFunc, outcome *Outcome) error {
	if err := s.conn.SetReadTimeout(s.opts.Timeout); err != nil {
		return err
	}

	if err := s.conn.SetWriteTimeout(s.opts.Timeout); err != nil {
		return err
	}

	if err := s.greet(ctx); err != nil {
		return err
	}

	if err := s.auth(ctx, creds); err != nil {
		return err
	}

	entries, err := s.list(ctx)
	if err != nil {
		return err
	}

	outcome.Listed = len(entries)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		ok, err := s.retrieve(ctx, entry, deliver)
		if err != nil {
			return err
		}

		if ok {
			outcome.Retrieved++
		} else {
			outcome.Skipped++
		}
	}

	s.quit(ctx)
	return nil
}

func (s *Session) greet(ctx context.Context) error {
	buf, err := s.conn.ReadUntil(textproto.Line)
	if err != nil {
		return err
	}

	greeting, err := ParseGreeting(buf)
	if err != nil {
		return err
	}

	log.DebugContext(ctx).
		Str("greeting", greeting.Line).
		Bool("tls", s.conn.IsTLS()).
		Msg("server is ready")

	s.state = StateGreeted
	return nil
}

func (s *Session) auth(ctx context.Context, creds credentials.Credentials) error {
	s.state = StateUser

	reply, err := s.exchange(ctx, user(creds.Username), false)
	if err != nil {
		return err
	}

	if !reply.IsPositive() {
		return fmt.Errorf("%w: user %q rejected: %s", ErrAuthFailed, creds.Username, reply.Line)
	}

	s.state = StatePass

	reply, err = s.exchange(ctx, pass(creds.Password), false)
	if err != nil {
		return err
	}

	if !reply.IsPositive() {
		s.sendQuit(ctx)
		return fmt.Errorf("%w: password rejected: %s", ErrAuthFailed, reply.Line)
	}

	s.authenticated = true

	log.InfoContext(ctx).
		Str("user", creds.Username).
		Msg("authenticated")

	return nil
}

func (s *Session) list(ctx context.Context) ([]Entry, error) {
	s.state = StateListing

	reply, err := s.exchange(ctx, &cmdList, true)
	if err != nil {
		return nil, err
	}

	if !reply.IsPositive() {
		return nil, fmt.Errorf("%w: LIST: %s", ErrNegativeReply, reply.Line)
	}

	entries, err := ParseListing(reply)
	if err != nil {
		return nil, err
	}

	log.InfoContext(ctx).
		Int("messages", len(entries)).
		Msg("listing received")

	return entries, nil
}

func (s *Session) retrieve(ctx context.Context, entry Entry, deliver DeliverFunc) (bool, error) {
	ctx = log.WithMessage(ctx, entry.ID)
	s.state = StateRetrieving

	reply, err := s.exchange(ctx, retr(strconv.Itoa(entry.ID)), true)
	if err != nil {
		return false, err
	}

	if !reply.IsPositive() {
		log.WarnContext(ctx).
			Str("reply", reply.Line).
			Msg("server refused message, skipping")

		return false, nil
	}

	body := reply.Content
	if s.opts.Unstuff {
		body = textproto.Unstuff(body)
	}

	log.DebugContext(ctx).
		Int64("listedSize", entry.Size).
		Int("size", len(body)).
		Msg("message retrieved")

	msg := Message{
		ID:   entry.ID,
		Size: entry.Size,
		Body: body,
	}

	if err := deliver(ctx, msg); err != nil {
		return false, err
	}

	return true, nil
}

// quit ends a successful session. The reply does not change the result.
func (s *Session) quit(ctx context.Context) {
	s.state = StateQuitting

	reply, err := s.exchange(ctx, &cmdQuit, false)
	if err != nil {
		log.WarnContext(ctx).
			Err(err).
			Msg("could not quit session")

		return
	}

	log.DebugContext(ctx).
		Stringer("kind", reply.Kind).
		Str("reply", reply.Line).
		Msg("session quit")
}

// fail moves the session into the failed state. A QUIT is sent without waiting for the reply,
// if the maildrop was already opened.
func (s *Session) fail(ctx context.Context, err error) {
	log.WarnContext(ctx).
		Err(err).
		Stringer("state", s.state).
		Msg("session failed")

	s.state = StateFailed

	if s.authenticated {
		s.sendQuit(ctx)
	}
}

func (s *Session) sendQuit(ctx context.Context) {
	if err := s.send(log.WithCommand(ctx, cmdQuit.logName()), &cmdQuit); err != nil {
		log.DebugContext(ctx).
			Err(err).
			Msg("could not send quit")
	}
}

func (s *Session) exchange(ctx context.Context, cmd *command, multiline bool) (Reply, error) {
	ctx = log.WithCommand(ctx, cmd.logName())

	if err := s.send(ctx, cmd); err != nil {
		return Reply{}, err
	}

	reply, err := s.readReply(multiline)
	if err != nil {
		return Reply{}, err
	}

	log.TraceContext(ctx).
		Stringer("kind", reply.Kind).
		Str("reply", reply.Line).
		Msg("reply received")

	return reply, nil
}

func (s *Session) send(ctx context.Context, cmd *command) error {
	log.TraceContext(ctx).Msg("sending command")
	return cmd.writeTo(s.conn)
}

// readReply reads a single status line. Only if a multi-line reply is expected and the status
// is positive, the dot terminated block is read as well.
func (s *Session) readReply(multiline bool) (Reply, error) {
	status, err := s.conn.ReadUntil(textproto.Line)
	if err != nil {
		return Reply{}, err
	}

	if !multiline || !isPositive(status) {
		return ParseReply(status, false)
	}

	block, err := s.conn.ReadUntil(textproto.DotLine)
	if err != nil {
		return Reply{}, err
	}

	return ParseReply(append(status, block...), true)
}
