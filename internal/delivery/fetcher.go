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

package delivery

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lukasdietrich/popcl/internal/credentials"
	"github.com/lukasdietrich/popcl/internal/journal"
	"github.com/lukasdietrich/popcl/internal/log"
	"github.com/lukasdietrich/popcl/internal/mails"
	"github.com/lukasdietrich/popcl/internal/pop3"
	"github.com/lukasdietrich/popcl/internal/textproto"
)

// Dialer opens the connection to a pop3 server.
type Dialer interface {
	Dial(ctx context.Context, host string, port int) (textproto.Conn, error)
}

// Store persists retrieved messages.
type Store interface {
	// Write stores the body of a message and returns the filename.
	Write(ctx context.Context, id int, body []byte) (string, error)
}

// Result counts the messages of a single run.
type Result struct {
	// RunID identifies the run in logs and the journal.
	RunID string
	// Listed is the number of messages on the server.
	Listed int
	// Stored is the number of messages written to the store.
	Stored int
	// Skipped is the number of messages the server refused to send.
	Skipped int
	// Failed is the number of retrieved messages that could not be stored.
	Failed int
}

// Fetcher downloads all messages of a maildrop into a Store.
type Fetcher struct {
	dialer  Dialer
	store   Store
	journal journal.Journal
	opts    FetcherOptions
	now     func() time.Time
}

// NewFetcher creates a new Fetcher.
func NewFetcher(dialer Dialer, store Store, journal journal.Journal, opts FetcherOptions) *Fetcher {
	return &Fetcher{
		dialer:  dialer,
		store:   store,
		journal: journal,
		opts:    opts,
		now:     time.Now,
	}
}

// Fetch runs one session against the configured server. Every retrieved message is written to
// the store. The result is valid even if an error is returned and counts everything up to the
// failure.
func (f *Fetcher) Fetch(ctx context.Context, creds credentials.Credentials) (Result, error) {
	result := Result{RunID: uuid.NewString()}
	server := net.JoinHostPort(f.opts.Host, strconv.Itoa(f.opts.Port))

	ctx = log.WithRun(ctx, result.RunID)
	ctx = log.WithServer(ctx, server)
	ctx = log.WithOrigin(ctx, "delivery")

	run := journal.RunEntity{
		ID:        result.RunID,
		Server:    server,
		Username:  creds.Username,
		StartedAt: f.now().Unix(),
	}

	if err := f.journal.BeginRun(ctx, &run); err != nil {
		return result, fmt.Errorf("could not begin journal run: %w", err)
	}

	err := f.fetch(ctx, creds, &result)
	f.finish(context.WithoutCancel(ctx), &run, result, err)

	return result, err
}

func (f *Fetcher) fetch(ctx context.Context, creds credentials.Credentials, result *Result) error {
	conn, err := f.dialer.Dial(ctx, f.opts.Host, f.opts.Port)
	if err != nil {
		return err
	}

	log.InfoContext(ctx).
		Stringer("remote", conn.RemoteAddr()).
		Bool("tls", conn.IsTLS()).
		Msg("connected")

	session := pop3.NewSession(conn, f.opts.Session)

	outcome, err := session.Run(ctx, creds, func(ctx context.Context, msg pop3.Message) error {
		return f.deliver(ctx, result, msg)
	})

	result.Listed = outcome.Listed
	result.Skipped = outcome.Skipped

	return err
}

func (f *Fetcher) deliver(ctx context.Context, result *Result, msg pop3.Message) error {
	filename, err := f.store.Write(ctx, msg.ID, msg.Body)
	if err != nil {
		if f.opts.OnError == PolicyAbort {
			return err
		}

		log.WarnContext(ctx).
			Err(err).
			Msg("could not store message, skipping")

		result.Failed++
		return nil
	}

	result.Stored++

	summary, err := mails.Summarize(msg.Body)
	if err != nil {
		log.DebugContext(ctx).
			Err(err).
			Msg("could not summarize message")
	}

	event := log.InfoContext(ctx).
		Str("filename", filename).
		Str("subject", summary.Subject).
		Str("sender", summary.Sender)

	var sentAt sql.NullInt64
	if !summary.Date.IsZero() {
		sentAt = sql.NullInt64{Int64: summary.Date.Unix(), Valid: true}
		event = event.Time("date", summary.Date)
	}

	event.Msg("message stored")

	entry := journal.MessageEntity{
		RunID:     result.RunID,
		MessageID: msg.ID,
		Size:      int64(len(msg.Body)),
		Filename:  filename,
		Subject:   summary.Subject,
		Sender:    summary.Sender,
		SentAt:    sentAt,
		StoredAt:  f.now().Unix(),
	}

	if err := f.journal.RecordMessage(ctx, &entry); err != nil {
		log.WarnContext(ctx).
			Err(err).
			Msg("could not record message in journal")
	}

	return nil
}

func (f *Fetcher) finish(ctx context.Context, run *journal.RunEntity, result Result, fetchErr error) {
	run.FinishedAt = sql.NullInt64{Int64: f.now().Unix(), Valid: true}
	run.Listed = result.Listed
	run.Stored = result.Stored
	run.Skipped = result.Skipped
	run.Failed = result.Failed

	if fetchErr != nil {
		run.Error = sql.NullString{String: fetchErr.Error(), Valid: true}
	}

	if err := f.journal.FinishRun(ctx, run); err != nil {
		log.WarnContext(ctx).
			Err(err).
			Msg("could not finish journal run")
	}

	log.InfoContext(ctx).
		Int("listed", result.Listed).
		Int("stored", result.Stored).
		Int("skipped", result.Skipped).
		Int("failed", result.Failed).
		Msg("run finished")
}
