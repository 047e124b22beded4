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

package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

func TestNewFilesystem(t *testing.T) {
	fs := NewFilesystem()

	assert.NotNil(t, fs)
	assert.Implements(t, (*afero.Fs)(nil), fs)
}

func TestMessageStoreOptionsFromViper(t *testing.T) {
	viper.Set("storage.messages.foldername", "mails/inbox")
	defer viper.Set("storage.messages.foldername", ".")

	assert.Equal(t, MessageStoreOptions{FolderName: "mails/inbox"}, MessageStoreOptionsFromViper())
}

func TestMessageStoreTestSuite(t *testing.T) {
	suite.Run(t, new(MessageStoreTestSuite))
}

type MessageStoreTestSuite struct {
	suite.Suite

	fs afero.Fs
}

func (s *MessageStoreTestSuite) SetupTest() {
	s.fs = afero.NewMemMapFs()
	s.Require().NoError(s.fs.MkdirAll("out", 0755))
}

func (s *MessageStoreTestSuite) assertFileContent(filename string, expectedContent string) {
	actualContent, err := afero.ReadFile(s.fs, filename)
	s.Require().NoError(err)
	s.Assert().EqualValues(expectedContent, actualContent)
}

func (s *MessageStoreTestSuite) TestNewMessageStore() {
	store, err := NewMessageStore(s.fs, MessageStoreOptions{FolderName: "out"})
	s.Require().NoError(err)
	s.Assert().NotNil(store)
}

func (s *MessageStoreTestSuite) TestNewMessageStoreMissingFolder() {
	_, err := NewMessageStore(s.fs, MessageStoreOptions{FolderName: "missing"})
	s.Assert().True(errors.Is(err, ErrNotADirectory))
}

func (s *MessageStoreTestSuite) TestNewMessageStoreFile() {
	s.Require().NoError(afero.WriteFile(s.fs, "file", []byte("x"), 0644))

	_, err := NewMessageStore(s.fs, MessageStoreOptions{FolderName: "file"})
	s.Assert().True(errors.Is(err, ErrNotADirectory))
}

func (s *MessageStoreTestSuite) TestFilename() {
	for _, folder := range []string{"out", "out/"} {
		store, err := NewMessageStore(s.fs, MessageStoreOptions{FolderName: folder})
		s.Require().NoError(err)

		s.Assert().Equal("out/7.txt", store.Filename(7), folder)
	}
}

func (s *MessageStoreTestSuite) TestWrite() {
	store, err := NewMessageStore(s.fs, MessageStoreOptions{FolderName: "out"})
	s.Require().NoError(err)

	filename, err := store.Write(context.TODO(), 3, []byte("Subject: hi\r\n\r\nbody\r\n"))
	s.Require().NoError(err)

	s.Assert().Equal("out/3.txt", filename)
	s.assertFileContent("out/3.txt", "Subject: hi\r\n\r\nbody\r\n")

	exists, err := afero.Exists(s.fs, "out/3.txt.part")
	s.Require().NoError(err)
	s.Assert().False(exists)
}

func (s *MessageStoreTestSuite) TestWriteEmpty() {
	store, err := NewMessageStore(s.fs, MessageStoreOptions{FolderName: "out"})
	s.Require().NoError(err)

	_, err = store.Write(context.TODO(), 1, []byte{})
	s.Require().NoError(err)

	s.assertFileContent("out/1.txt", "")
}

func (s *MessageStoreTestSuite) TestWriteReplaces() {
	s.Require().NoError(afero.WriteFile(s.fs, "out/5.txt", []byte("an older and longer message"), 0644))

	store, err := NewMessageStore(s.fs, MessageStoreOptions{FolderName: "out"})
	s.Require().NoError(err)

	_, err = store.Write(context.TODO(), 5, []byte("new"))
	s.Require().NoError(err)

	s.assertFileContent("out/5.txt", "new")
}

func (s *MessageStoreTestSuite) TestWriteReadOnly() {
	store, err := NewMessageStore(afero.NewReadOnlyFs(s.fs), MessageStoreOptions{FolderName: "out"})
	s.Require().NoError(err)

	_, err = store.Write(context.TODO(), 2, []byte("body"))
	s.Assert().Error(err)

	exists, err := afero.Exists(s.fs, "out/2.txt")
	s.Require().NoError(err)
	s.Assert().False(exists)
}
