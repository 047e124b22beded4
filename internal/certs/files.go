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

package certs

import (
	"crypto/x509"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/lukasdietrich/popcl/internal/log"
)

func appendFile(fs afero.Fs, pool *x509.CertPool, filename string) error {
	pem, err := afero.ReadFile(fs, filename)
	if err != nil {
		return fmt.Errorf("could not read certificate file: %w", err)
	}

	if !pool.AppendCertsFromPEM(pem) {
		return fmt.Errorf("%w in %q", ErrNoCertificates, filename)
	}

	log.Debug().
		Str("filename", filename).
		Msg("trusting certificates from file")

	return nil
}

func appendFolder(fs afero.Fs, pool *x509.CertPool, folder string) error {
	infos, err := afero.ReadDir(fs, folder)
	if err != nil {
		return fmt.Errorf("could not read certificate folder: %w", err)
	}

	var found int

	for _, info := range infos {
		if !info.Mode().IsRegular() {
			continue
		}

		filename := filepath.Join(folder, info.Name())

		pem, err := afero.ReadFile(fs, filename)
		if err != nil {
			return fmt.Errorf("could not read certificate file: %w", err)
		}

		if pool.AppendCertsFromPEM(pem) {
			found++
		} else {
			log.Debug().
				Str("filename", filename).
				Msg("skipping file without certificates")
		}
	}

	if found == 0 {
		return fmt.Errorf("%w in %q", ErrNoCertificates, folder)
	}

	log.Debug().
		Str("folder", folder).
		Int("files", found).
		Msg("trusting certificates from folder")

	return nil
}
