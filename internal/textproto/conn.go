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
	"crypto/tls"
	"net"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
)

func init() {
	viper.SetDefault("connection.chunksize", 4096)
	viper.SetDefault("connection.replylimit", "64mb")
}

// Conn is a client connection to a server speaking a text based protocol.
type Conn interface {
	Reader
	Writer

	// SetReadTimeout sets the deadline of every following read call to a time now + x. A zero
	// duration disables the deadline.
	SetReadTimeout(time.Duration) error

	// SetWriteTimeout sets the deadline of every following write call to a time now + x. A zero
	// duration disables the deadline.
	SetWriteTimeout(time.Duration) error

	// Interrupt makes a blocked read and every following read fail at once. Writes are not
	// affected, so a final command can still be sent.
	Interrupt() error

	// IsTLS reports whether the connection is encrypted.
	IsTLS() bool

	// RemoteAddr returns the address of the server.
	RemoteAddr() net.Addr

	// Close closes the underlying network connection.
	Close() error
}

// ConnOptions limit how data is read from the network.
type ConnOptions struct {
	// ChunkSize is the number of bytes requested per read.
	ChunkSize int
	// ReplyLimit is the maximum number of bytes accumulated while waiting for a terminator.
	ReplyLimit int
}

// ConnOptionsFromViper returns ConnOptions using configuration from viper.
//
// `connection.chunksize` is the size of a single read.
// `connection.replylimit` is the maximum size of a single reply.
func ConnOptionsFromViper() ConnOptions {
	return ConnOptions{
		ChunkSize:  viper.GetInt("connection.chunksize"),
		ReplyLimit: int(viper.GetSizeInBytes("connection.replylimit")),
	}
}

// timeoutConn applies the configured timeouts to every single read and write call.
type timeoutConn struct {
	net.Conn

	readTimeout  time.Duration
	writeTimeout time.Duration
	interrupted  atomic.Bool
}

func (t *timeoutConn) Read(b []byte) (int, error) {
	if t.readTimeout > 0 {
		if err := t.SetReadDeadline(deadline(t.readTimeout)); err != nil {
			return 0, err
		}
	}

	// checked after the deadline was set, so a concurrent interrupt is never overwritten
	if t.interrupted.Load() {
		if err := t.SetReadDeadline(time.Unix(1, 0)); err != nil {
			return 0, err
		}
	}

	return t.Conn.Read(b)
}

func (t *timeoutConn) interrupt() error {
	t.interrupted.Store(true)
	return t.SetReadDeadline(time.Unix(1, 0))
}

func (t *timeoutConn) Write(b []byte) (int, error) {
	if t.writeTimeout > 0 {
		if err := t.SetWriteDeadline(deadline(t.writeTimeout)); err != nil {
			return 0, err
		}
	}

	return t.Conn.Write(b)
}

type conn struct {
	raw *timeoutConn

	Reader
	Writer
}

// NewConn wraps an established network connection.
func NewConn(netConn net.Conn, opts ConnOptions) Conn {
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 4096
	}

	raw := &timeoutConn{Conn: netConn}

	return &conn{
		raw: raw,

		Reader: newReader(raw, chunkSize, opts.ReplyLimit),
		Writer: newWriter(raw),
	}
}

func (c *conn) SetReadTimeout(d time.Duration) error {
	c.raw.readTimeout = d
	return c.raw.SetReadDeadline(deadline(d))
}

func (c *conn) SetWriteTimeout(d time.Duration) error {
	c.raw.writeTimeout = d
	return c.raw.SetWriteDeadline(deadline(d))
}

func (c *conn) Interrupt() error {
	return c.raw.interrupt()
}

func (c *conn) IsTLS() bool {
	_, ok := c.raw.Conn.(*tls.Conn)
	return ok
}

func (c *conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}

func (c *conn) Close() error {
	return c.raw.Close()
}

func deadline(d time.Duration) time.Time {
	if d <= 0 {
		return time.Time{}
	}

	return time.Now().Add(d)
}
