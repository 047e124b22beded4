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
	"crypto/tls"
	"crypto/x509"
	"errors"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/lukasdietrich/popcl/internal/log"
)

var (
	// ErrNoCertificates is returned when a configured certificate source contains no usable
	// pem encoded certificate.
	ErrNoCertificates = errors.New("certs: no certificates found")
)

func init() {
	viper.SetDefault("connection.tls", false)
	viper.SetDefault("tls.cafile", "")
	viper.SetDefault("tls.cadir", "")
}

// TLSOptions decide whether and how server certificates are verified.
type TLSOptions struct {
	// Enable wraps connections in tls (pop3s).
	Enable bool
	// CAFile is a pem file of trusted certificates.
	CAFile string
	// CADir is a folder of pem files of trusted certificates.
	CADir string
}

// TLSOptionsFromViper returns TLSOptions using configuration from viper.
//
// `connection.tls` enables implicit tls.
// `tls.cafile` is a file with trusted certificates.
// `tls.cadir` is a folder with trusted certificates.
func TLSOptionsFromViper() TLSOptions {
	return TLSOptions{
		Enable: viper.GetBool("connection.tls"),
		CAFile: viper.GetString("tls.cafile"),
		CADir:  viper.GetString("tls.cadir"),
	}
}

// NewTLSConfig creates the client tls configuration. If tls is disabled, nil is returned. If
// neither a file nor a folder is configured, the system roots are used.
func NewTLSConfig(fs afero.Fs, opts TLSOptions) (*tls.Config, error) {
	if !opts.Enable {
		return nil, nil
	}

	config := tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if opts.CAFile == "" && opts.CADir == "" {
		log.Debug().Msg("verifying server certificates with system roots")
		return &config, nil
	}

	pool := x509.NewCertPool()

	if opts.CAFile != "" {
		if err := appendFile(fs, pool, opts.CAFile); err != nil {
			return nil, err
		}
	}

	if opts.CADir != "" {
		if err := appendFolder(fs, pool, opts.CADir); err != nil {
			return nil, err
		}
	}

	config.RootCAs = pool
	return &config, nil
}
