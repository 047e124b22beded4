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

	"github.com/stretchr/testify/mock"

	"github.com/lukasdietrich/popcl/internal/journal"
	"github.com/lukasdietrich/popcl/internal/textproto"
)

type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) Dial(ctx context.Context, host string, port int) (textproto.Conn, error) {
	args := m.Called(ctx, host, port)
	conn, _ := args.Get(0).(textproto.Conn)
	return conn, args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Write(ctx context.Context, id int, body []byte) (string, error) {
	args := m.Called(ctx, id, body)
	return args.String(0), args.Error(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) BeginRun(ctx context.Context, run *journal.RunEntity) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockJournal) RecordMessage(ctx context.Context, message *journal.MessageEntity) error {
	return m.Called(ctx, message).Error(0)
}

func (m *MockJournal) FinishRun(ctx context.Context, run *journal.RunEntity) error {
	return m.Called(ctx, run).Error(0)
}

func (m *MockJournal) Close() error {
	return m.Called().Error(0)
}
