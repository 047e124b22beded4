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

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/viper"

	"github.com/lukasdietrich/popcl/internal/credentials"
	"github.com/lukasdietrich/popcl/internal/delivery"
	"github.com/lukasdietrich/popcl/internal/journal"
	"github.com/lukasdietrich/popcl/internal/log"
	"github.com/lukasdietrich/popcl/internal/metrics"
)

type fetchCommand struct {
	Fetcher     *delivery.Fetcher
	Credentials credentials.Credentials
	Exporter    *metrics.Exporter
}

func (f *fetchCommand) run(ctx context.Context, stdout io.Writer) error {
	startedAt := time.Now()
	result, err := f.Fetcher.Fetch(ctx, f.Credentials)

	if exportErr := f.Exporter.Export(metrics.Run{
		Listed:     result.Listed,
		Stored:     result.Stored,
		Skipped:    result.Skipped,
		Failed:     result.Failed,
		Duration:   time.Since(startedAt),
		FinishedAt: time.Now(),
		Success:    err == nil,
	}); exportErr != nil {
		log.Warn().
			Err(exportErr).
			Msg("could not export metrics")
	}

	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, delivery.Summary(viper.GetString("output.language"), result.Stored))
	return nil
}

func provideJournal(opts journal.Options) (journal.Journal, func(), error) {
	j, err := journal.Open(opts)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if err := j.Close(); err != nil {
			log.Warn().
				Err(err).
				Msg("could not close journal")
		}
	}

	return j, cleanup, nil
}
