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
	"net/url"

	rice "github.com/GeertJohan/go.rice"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	migrate "github.com/rubenv/sql-migrate"

	"github.com/lukasdietrich/popcl/internal/log"
)

const driverName = "sqlite3"

func init() {
	migrate.SetTable("migrations")
}

func openDatabase(opts Options) (*sqlx.DB, error) {
	sqliteVersion, _, _ := sqlite3.Version()

	dsn := createDataSourceName(opts)
	log.Info().
		Str("driver", driverName).
		Str("version", sqliteVersion).
		Str("dataSourceName", dsn).
		Msg("opening journal")

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	// In-memory databases exist per connection.
	db.SetMaxOpenConns(1)

	migrations, err := loadMigrations()
	if err != nil {
		db.Close()
		return nil, err
	}

	n, err := migrate.Exec(db.DB, driverName, migrations, migrate.Up)
	if err != nil {
		db.Close()
		return nil, err
	}

	if n > 0 {
		log.Info().
			Int("migrations", n).
			Msg("journal migrations applied")
	}

	return db, nil
}

func createDataSourceName(opts Options) string {
	values := make(url.Values)
	values.Add("_foreign_keys", "true")
	values.Add("_journal_mode", opts.JournalMode)

	dsn := url.URL{
		Scheme:   "file",
		Opaque:   opts.Filename,
		RawQuery: values.Encode(),
	}

	return dsn.String()
}

func loadMigrations() (migrate.MigrationSource, error) {
	box, err := rice.FindBox("../../migrations")
	if err != nil {
		return nil, err
	}

	source := migrate.HttpFileSystemMigrationSource{
		FileSystem: box.HTTPBox(),
	}

	return &source, nil
}
