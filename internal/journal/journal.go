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

package journal

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/viper"
)

func init() {
	viper.SetDefault("journal.filename", "")
	viper.SetDefault("journal.journalmode", "wal")
}

// Journal records runs and the messages stored during a run.
type Journal interface {
	// BeginRun inserts a new run.
	BeginRun(context.Context, *RunEntity) error
	// RecordMessage inserts a stored message of a run.
	RecordMessage(context.Context, *MessageEntity) error
	// FinishRun updates the counts, the error and the end time of a run.
	FinishRun(context.Context, *RunEntity) error
	// Close releases the underlying database.
	Close() error
}

// Options configure the journal.
type Options struct {
	// Filename is the sqlite database file. The journal is disabled if it is empty.
	Filename string
	// JournalMode is used for the journal_mode pragma.
	JournalMode string
}

// OptionsFromViper returns Options using configuration from viper.
//
// `journal.filename` is the filename of the sqlite database.
// `journal.journalmode` will be used for the journal_mode pragma.
func OptionsFromViper() Options {
	return Options{
		Filename:    viper.GetString("journal.filename"),
		JournalMode: viper.GetString("journal.journalmode"),
	}
}

// Open opens the journal and applies pending migrations. Without a filename a journal is returned,
// that records nothing.
func Open(opts Options) (Journal, error) {
	if opts.Filename == "" {
		return nopJournal{}, nil
	}

	db, err := openDatabase(opts)
	if err != nil {
		return nil, err
	}

	return &sqliteJournal{db: db}, nil
}

type nopJournal struct{}

func (nopJournal) BeginRun(context.Context, *RunEntity) error          { return nil }
func (nopJournal) RecordMessage(context.Context, *MessageEntity) error { return nil }
func (nopJournal) FinishRun(context.Context, *RunEntity) error         { return nil }
func (nopJournal) Close() error                                        { return nil }

// sqliteJournal is the sqlite implementation of Journal.
type sqliteJournal struct {
	db *sqlx.DB
}

func (j *sqliteJournal) BeginRun(ctx context.Context, run *RunEntity) error {
	const query = `
		insert into "runs" (
			"id" ,
			"server" ,
			"username" ,
			"started_at" ,
			"finished_at" ,
			"listed" ,
			"stored" ,
			"skipped" ,
			"failed" ,
			"error"
		) values (
			:id ,
			:server ,
			:username ,
			:started_at ,
			:finished_at ,
			:listed ,
			:stored ,
			:skipped ,
			:failed ,
			:error
		) ;
	`

	_, err := sqlx.NamedExecContext(ctx, j.db, query, run)
	return err
}

func (j *sqliteJournal) RecordMessage(ctx context.Context, message *MessageEntity) error {
	const query = `
		insert into "messages" (
			"run_id" ,
			"message_id" ,
			"size" ,
			"filename" ,
			"subject" ,
			"sender" ,
			"sent_at" ,
			"stored_at"
		) values (
			:run_id ,
			:message_id ,
			:size ,
			:filename ,
			:subject ,
			:sender ,
			:sent_at ,
			:stored_at
		) ;
	`

	result, err := sqlx.NamedExecContext(ctx, j.db, query, message)
	if err != nil {
		return err
	}

	message.ID, err = result.LastInsertId()
	return err
}

func (j *sqliteJournal) FinishRun(ctx context.Context, run *RunEntity) error {
	const query = `
		update "runs"
		set "finished_at" = :finished_at ,
			"listed"      = :listed ,
			"stored"      = :stored ,
			"skipped"     = :skipped ,
			"failed"      = :failed ,
			"error"       = :error
		where "id" = :id ;
	`

	result, err := sqlx.NamedExecContext(ctx, j.db, query, run)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (j *sqliteJournal) Close() error {
	return j.db.Close()
}

func ensureRowsAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
