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

package mails

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Summary describes a retrieved message by its header.
type Summary struct {
	// Subject is the decoded subject.
	Subject string
	// Sender is the first address of the "From" header.
	Sender string
	// Date is the origination date or the zero time.
	Date time.Time
}

// Summarize reads the header of a raw message. Unknown charsets and transfer encodings are not
// an error, since only the header is inspected.
func Summarize(body []byte) (Summary, error) {
	entity, err := message.Read(bytes.NewReader(body))
	if err != nil && !message.IsUnknownCharset(err) && !message.IsUnknownEncoding(err) {
		return Summary{}, fmt.Errorf("mails: could not read header: %w", err)
	}

	header := mail.Header{Header: entity.Header}

	var summary Summary

	if subject, err := header.Subject(); err == nil {
		summary.Subject = subject
	} else {
		summary.Subject = header.Get("Subject")
	}

	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		summary.Sender = formatSender(from[0])
	}

	if date, err := header.Date(); err == nil {
		summary.Date = date
	}

	return summary, nil
}

func formatSender(addr *mail.Address) string {
	address := addr.Address

	if normalized, err := ParseWithNormalizedDomain(address); err == nil {
		address = normalized.String()
	}

	if addr.Name == "" {
		return address
	}

	return fmt.Sprintf("%s <%s>", addr.Name, address)
}
