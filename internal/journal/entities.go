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
	"database/sql"
)

// RunEntity is the entity for the "runs" table.
type RunEntity struct {
	ID         string         `db:"id"`
	Server     string         `db:"server"`
	Username   string         `db:"username"`
	StartedAt  int64          `db:"started_at"`
	FinishedAt sql.NullInt64  `db:"finished_at"`
	Listed     int            `db:"listed"`
	Stored     int            `db:"stored"`
	Skipped    int            `db:"skipped"`
	Failed     int            `db:"failed"`
	Error      sql.NullString `db:"error"`
}

// MessageEntity is the entity for the "messages" table.
type MessageEntity struct {
	ID        int64         `db:"id"`
	RunID     string        `db:"run_id"`
	MessageID int           `db:"message_id"`
	Size      int64         `db:"size"`
	Filename  string        `db:"filename"`
	Subject   string        `db:"subject"`
	Sender    string        `db:"sender"`
	SentAt    sql.NullInt64 `db:"sent_at"`
	StoredAt  int64         `db:"stored_at"`
}
