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
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/lukasdietrich/popcl/internal/pop3"
)

const (
	pop3Port  = 110
	pop3sPort = 995
)

var (
	// ErrMissingServer is returned if no server to fetch from is configured.
	ErrMissingServer = errors.New("delivery: missing server")

	// ErrInvalidPolicy is returned for unknown values of `storage.messages.onerror`.
	ErrInvalidPolicy = errors.New("delivery: invalid storage error policy")
)

func init() {
	viper.SetDefault("connection.host", "")
	viper.SetDefault("connection.port", 0)
	viper.SetDefault("storage.messages.onerror", string(PolicySkip))
}

// ErrorPolicy decides what happens to a run, if a retrieved message cannot be stored.
type ErrorPolicy string

const (
	// PolicySkip counts the message as failed and continues with the next one.
	PolicySkip ErrorPolicy = "skip"
	// PolicyAbort ends the run with the storage error.
	PolicyAbort ErrorPolicy = "abort"
)

// ParseErrorPolicy parses "skip" or "abort", ignoring case and surrounding whitespace.
func ParseErrorPolicy(raw string) (ErrorPolicy, error) {
	switch policy := ErrorPolicy(strings.ToLower(strings.TrimSpace(raw))); policy {
	case PolicySkip, PolicyAbort:
		return policy, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPolicy, raw)
	}
}

// FetcherOptions configure a Fetcher.
type FetcherOptions struct {
	// Host is the name or address of the pop3 server.
	Host string
	// Port is the tcp port of the pop3 server.
	Port int
	// OnError is applied to messages that cannot be stored.
	OnError ErrorPolicy
	// Session configures the pop3 session.
	Session pop3.SessionOptions
}

// FetcherOptionsFromViper returns FetcherOptions using configuration from viper.
//
// `connection.host` is the pop3 server.
// `connection.port` is the port of the server. 0 selects 110, or 995 if `connection.tls` is set.
// `storage.messages.onerror` is either "skip" or "abort".
func FetcherOptionsFromViper() (FetcherOptions, error) {
	host := viper.GetString("connection.host")
	if host == "" {
		return FetcherOptions{}, ErrMissingServer
	}

	policy, err := ParseErrorPolicy(viper.GetString("storage.messages.onerror"))
	if err != nil {
		return FetcherOptions{}, err
	}

	port := viper.GetInt("connection.port")
	if port == 0 {
		port = pop3Port

		if viper.GetBool("connection.tls") {
			port = pop3sPort
		}
	}

	return FetcherOptions{
		Host:    host,
		Port:    port,
		OnError: policy,
		Session: pop3.SessionOptionsFromViper(),
	}, nil
}
