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

package credentials

import (
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []string{
		"username = alice\npassword = hunter2\n",
		"username=alice password=hunter2",
		"  username   =\talice\r\n\r\npassword =   hunter2   \r\n",
		"\n\nusername = alice\npassword = hunter2",
	}

	for _, content := range tests {
		actual, err := Parse([]byte(content))
		require.NoError(t, err, "%q", content)
		assert.Equal(t, Credentials{Username: "alice", Password: "hunter2"}, actual)
	}
}

func TestParseKeepsSpecialCharacters(t *testing.T) {
	actual, err := Parse([]byte("username = alice@example.com\npassword = p=ss;w0rd!\n"))
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", actual.Username)
	assert.Equal(t, "p=ss;w0rd!", actual.Password)
}

func TestParseMalformed(t *testing.T) {
	tests := []string{
		"",
		"username = alice",
		"password = hunter2\nusername = alice\n",
		"username = alice\npassword =\n",
		"username = two words\npassword = hunter2\n",
		"user = alice\npass = hunter2\n",
		"username = alice\npassword = hunter2\nextra\n",
	}

	for _, content := range tests {
		_, err := Parse([]byte(content))
		assert.True(t, errors.Is(err, ErrMalformed), "%q", content)
	}
}

func TestCredentialsString(t *testing.T) {
	c := Credentials{Username: "alice", Password: "hunter2"}
	assert.Equal(t, "alice:***", c.String())
	assert.NotContains(t, c.String(), "hunter2")
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/alice/.popcl", []byte("username = alice\npassword = hunter2\n"), 0600))

	actual, err := Load(fs, "/home/alice/.popcl")
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "alice", Password: "hunter2"}, actual)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(afero.NewMemMapFs(), "/missing")
	assert.Error(t, err)
}

func TestLoadFromViper(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/auth", []byte("username = bob password = secret"), 0600))

	viper.Set("auth.filename", "/auth")
	actual, err := LoadFromViper(fs)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "bob", Password: "secret"}, actual)

	viper.Set("auth.filename", "")
	_, err = LoadFromViper(fs)
	assert.Error(t, err)
}
