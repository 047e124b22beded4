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

package textproto

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/net/idna"
	"golang.org/x/net/proxy"

	"github.com/lukasdietrich/popcl/internal/log"
)

func init() {
	viper.SetDefault("connection.timeout", "5m")
	viper.SetDefault("connection.proxy", "")
}

// DialOptions configure how connections are established.
type DialOptions struct {
	// Timeout limits the connect and handshake phase as well as every later read and write.
	Timeout time.Duration
	// Proxy is the address of a SOCKS5 proxy. An empty string dials directly.
	Proxy string
	// Conn is passed to every created connection.
	Conn ConnOptions
}

// DialOptionsFromViper returns DialOptions using configuration from viper.
//
// `connection.timeout` is the timeout of every network operation.
// `connection.proxy` is the optional SOCKS5 proxy address.
func DialOptionsFromViper() DialOptions {
	return DialOptions{
		Timeout: viper.GetDuration("connection.timeout"),
		Proxy:   viper.GetString("connection.proxy"),
		Conn:    ConnOptionsFromViper(),
	}
}

// Dialer opens client connections. If a *tls.Config is present, every connection is wrapped in
// tls right after connecting.
type Dialer struct {
	opts      DialOptions
	tlsConfig *tls.Config
}

// NewDialer creates a new Dialer. tlsConfig may be nil for plain connections.
func NewDialer(opts DialOptions, tlsConfig *tls.Config) *Dialer {
	return &Dialer{
		opts:      opts,
		tlsConfig: tlsConfig,
	}
}

// Dial connects to host at port. Internationalized host names are converted to their ascii
// form first.
func (d *Dialer) Dial(ctx context.Context, host string, port int) (Conn, error) {
	asciiHost, err := hostToASCII(host)
	if err != nil {
		return nil, fmt.Errorf("textproto: invalid host %q: %w", host, err)
	}

	addr := net.JoinHostPort(asciiHost, strconv.Itoa(port))

	log.DebugContext(ctx).
		Str("addr", addr).
		Bool("tls", d.tlsConfig != nil).
		Bool("proxy", d.opts.Proxy != "").
		Msg("connecting")

	netConn, err := d.dial(ctx, addr)
	if err != nil {
		return nil, wrapError("dial", err)
	}

	if d.tlsConfig != nil {
		tlsConn, err := d.handshake(ctx, netConn, asciiHost)
		if err != nil {
			netConn.Close()
			return nil, wrapError("tls handshake", err)
		}

		netConn = tlsConn
	}

	return NewConn(netConn, d.opts.Conn), nil
}

func (d *Dialer) dial(ctx context.Context, addr string) (net.Conn, error) {
	direct := &net.Dialer{Timeout: d.opts.Timeout}

	if d.opts.Proxy == "" {
		return direct.DialContext(ctx, "tcp", addr)
	}

	socks, err := proxy.SOCKS5("tcp", d.opts.Proxy, nil, direct)
	if err != nil {
		return nil, err
	}

	if contextDialer, ok := socks.(proxy.ContextDialer); ok {
		return contextDialer.DialContext(ctx, "tcp", addr)
	}

	return socks.Dial("tcp", addr)
}

func (d *Dialer) handshake(ctx context.Context, netConn net.Conn, serverName string) (*tls.Conn, error) {
	config := d.tlsConfig.Clone()
	if config.ServerName == "" {
		config.ServerName = serverName
	}

	tlsConn := tls.Client(netConn, config)

	if err := tlsConn.SetDeadline(deadline(d.opts.Timeout)); err != nil {
		return nil, err
	}

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return nil, err
	}

	return tlsConn, tlsConn.SetDeadline(time.Time{})
}

func hostToASCII(host string) (string, error) {
	if net.ParseIP(host) != nil {
		return host, nil
	}

	return idna.Lookup.ToASCII(host)
}
