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
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/popcl/internal/log"
)

const partialSuffix = ".part"

func init() {
	viper.SetDefault("storage.messages.foldername", ".")
}

// NewFilesystem returns the filesystem of the operating system.
func NewFilesystem() afero.Fs {
	return afero.NewOsFs()
}

// MessageStoreOptions configure a MessageStore.
type MessageStoreOptions struct {
	// FolderName is the output folder for retrieved messages.
	FolderName string
}

// MessageStoreOptionsFromViper returns MessageStoreOptions using configuration from viper.
//
// `storage.messages.foldername` is the output folder.
func MessageStoreOptionsFromViper() MessageStoreOptions {
	return MessageStoreOptions{
		FolderName: viper.GetString("storage.messages.foldername"),
	}
}

// MessageStore writes retrieved messages as files named "<id>.txt" into a single folder.
type MessageStore struct {
	fs     afero.Fs
	folder string
}

// NewMessageStore creates a new MessageStore. The folder has to exist.
func NewMessageStore(fs afero.Fs, opts MessageStoreOptions) (*MessageStore, error) {
	folder := opts.FolderName
	if folder == "" {
		folder = "."
	}

	ok, err := afero.IsDir(fs, folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotADirectory, err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotADirectory, folder)
	}

	return &MessageStore{fs: fs, folder: folder}, nil
}

// Filename returns the path of the file for a message id.
func (m *MessageStore) Filename(id int) string {
	return filepath.Join(m.folder, strconv.Itoa(id)+".txt")
}

// Write writes body verbatim to the file of message id and returns its path. An existing file is
// replaced. The body is written to a partial file first, so the final name only ever refers to a
// complete message.
func (m *MessageStore) Write(ctx context.Context, id int, body []byte) (string, error) {
	var (
		filename = m.Filename(id)
		partial  = filename + partialSuffix
	)

	log.DebugContext(ctx).
		Str("filename", filename).
		Int("size", len(body)).
		Msg("writing message")

	if err := m.writePartial(ctx, partial, body); err != nil {
		return "", fmt.Errorf("could not write message %d: %w", id, err)
	}

	if err := m.fs.Rename(partial, filename); err != nil {
		m.remove(ctx, partial)
		return "", fmt.Errorf("could not write message %d: %w", id, err)
	}

	return filename, nil
}

func (m *MessageStore) writePartial(ctx context.Context, partial string, body []byte) error {
	f, err := m.fs.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	if _, err := f.Write(body); err != nil {
		log.WarnContext(ctx).
			Str("filename", partial).
			Msg("could not write to message file")

		if err := f.Close(); err != nil {
			log.WarnContext(ctx).
				Str("filename", partial).
				Err(err).
				Msg("could not close partial message file")
		}

		m.remove(ctx, partial)
		return err
	}

	if err := f.Close(); err != nil {
		m.remove(ctx, partial)
		return err
	}

	return nil
}

func (m *MessageStore) remove(ctx context.Context, partial string) {
	if err := m.fs.Remove(partial); err != nil {
		log.WarnContext(ctx).
			Str("filename", partial).
			Err(err).
			Msg("could not remove partial message file")
	}
}
