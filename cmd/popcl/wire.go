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

//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/lukasdietrich/popcl/internal/certs"
	"github.com/lukasdietrich/popcl/internal/credentials"
	"github.com/lukasdietrich/popcl/internal/delivery"
	"github.com/lukasdietrich/popcl/internal/journal"
	"github.com/lukasdietrich/popcl/internal/metrics"
	"github.com/lukasdietrich/popcl/internal/storage"
	"github.com/lukasdietrich/popcl/internal/textproto"
)

var wireSet = wire.NewSet(
	wire.Struct(new(fetchCommand), "*"),

	storage.NewFilesystem,
	storage.MessageStoreOptionsFromViper,
	storage.NewMessageStore,
	wire.Bind(new(delivery.Store), new(*storage.MessageStore)),

	certs.TLSOptionsFromViper,
	certs.NewTLSConfig,

	textproto.DialOptionsFromViper,
	textproto.NewDialer,
	wire.Bind(new(delivery.Dialer), new(*textproto.Dialer)),

	journal.OptionsFromViper,
	provideJournal,

	credentials.LoadFromViper,

	metrics.OptionsFromViper,
	metrics.NewExporter,

	delivery.FetcherOptionsFromViper,
	delivery.NewFetcher,
)

func newFetchCommand() (*fetchCommand, func(), error) {
	panic(wire.Build(wireSet))
}
