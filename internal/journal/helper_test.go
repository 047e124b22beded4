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

	"github.com/jmoiron/sqlx"
)

// FindRun returns a run by id.
func (j *sqliteJournal) FindRun(ctx context.Context, id string) (*RunEntity, error) {
	const query = `
		select *
		from "runs"
		where "id" = $1 ;
	`

	var run RunEntity
	if err := sqlx.GetContext(ctx, j.db, &run, query, id); err != nil {
		return nil, err
	}

	return &run, nil
}

// FindMessages returns all messages of a run in the order they were recorded.
func (j *sqliteJournal) FindMessages(ctx context.Context, runID string) ([]MessageEntity, error) {
	const query = `
		select *
		from "messages"
		where "run_id" = $1
		order by "id" asc ;
	`

	var messages []MessageEntity
	err := sqlx.SelectContext(ctx, j.db, &messages, query, runID)
	return messages, err
}
