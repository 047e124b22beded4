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
	"fmt"
	"regexp"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var (
	// ErrMalformed is returned for credential files not of the form
	//
	//     username = <name> password = <secret>
	ErrMalformed = errors.New("credentials: malformed auth file")

	pattern = regexp.MustCompile(`^\s*username\s*=\s*(\S+)\s+password\s*=\s*(\S+)\s*$`)
)

func init() {
	viper.SetDefault("auth.filename", "")
}

// Credentials are a username and password pair used for USER / PASS authentication.
type Credentials struct {
	Username string
	Password string
}

// String hides the password.
func (c Credentials) String() string {
	return fmt.Sprintf("%s:***", c.Username)
}

// Parse extracts the credentials from the content of an auth file. Whitespace around keys,
// values and the equal signs is insignificant.
func Parse(content []byte) (Credentials, error) {
	match := pattern.FindSubmatch(content)
	if match == nil {
		return Credentials{}, ErrMalformed
	}

	return Credentials{
		Username: string(match[1]),
		Password: string(match[2]),
	}, nil
}

// Load reads and parses the auth file at filename.
func Load(fs afero.Fs, filename string) (Credentials, error) {
	content, err := afero.ReadFile(fs, filename)
	if err != nil {
		return Credentials{}, fmt.Errorf("could not read auth file: %w", err)
	}

	return Parse(content)
}

// LoadFromViper loads the auth file configured by `auth.filename`.
func LoadFromViper(fs afero.Fs) (Credentials, error) {
	filename := viper.GetString("auth.filename")
	if filename == "" {
		return Credentials{}, errors.New("credentials: no auth file given")
	}

	return Load(fs, filename)
}
