// mailer.go
//
// A single-binary Go replacement for the ComplianceGuard node/express dashboard server
// Copyright (c) 2026 ComplianceGuard contributors
//
// This file is part of regdash.
// regdash is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// regdash is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with regdash.
// If not, see <https://www.gnu.org/licenses/>.

// Package mailer is the notification dispatcher. Each Send picks a
// transport from the credentials as they are right now — SMTP when the SMTP
// account validates, SendGrid when it does not but the API key does, and a
// log-only demo transport when neither — then makes a single best-effort
// delivery attempt. No queue, no retry, no failover within one call.
package mailer

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/emaillog"
)

// Message is one outbound email.
type Message struct {
	To      string
	From    string
	Subject string
	HTML    string
	Text    string
}

// Transport identifiers as they appear in the email log.
const (
	TransportSMTP     = "smtp"
	TransportSendgrid = "sendgrid"
	TransportDemo     = "demo"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidAddress reports whether s looks like a deliverable email address.
// Shape check only, no MX lookup.
func ValidAddress(s string) bool {
	return emailShape.MatchString(strings.TrimSpace(s))
}

type transport interface {
	name() string
	send(ctx context.Context, msg Message) (messageID string, err error)
}

// Mailer dispatches messages over whichever transport currently validates
// and records every outcome in the shared email log.
type Mailer struct {
	cfg *config.Config
	log *emaillog.Log
}

// New creates a Mailer writing outcomes to elog.
func New(cfg *config.Config, elog *emaillog.Log) *Mailer {
	return &Mailer{cfg: cfg, log: elog}
}

// Send makes one delivery attempt and returns the real outcome: true only
// when the selected transport accepted the message. Demo mode — no valid
// credentials — dumps the message to stdout, records a credential-validation
// failure, and reports success so demo installs keep working end to end.
func (m *Mailer) Send(ctx context.Context, msg Message) bool {
	t := m.selectTransport()

	if t.name() == TransportDemo {
		id, _ := t.send(ctx, msg)
		m.log.Failure(msg.To, msg.Subject, TransportDemo,
			"Transport credentials validation failed, message dumped to stdout",
			errors.New("no valid SMTP or SendGrid credentials"))
		log.Printf("mail: demo delivery %s to %s", id, msg.To)
		return true
	}

	id, err := t.send(ctx, msg)
	if err != nil {
		m.log.Failure(msg.To, msg.Subject, t.name(), "Delivery failed", err)
		log.Printf("mail: %s delivery to %s failed: %v", t.name(), msg.To, err)
		return false
	}

	m.log.Success(msg.To, msg.Subject, t.name(), id)
	log.Printf("mail: %s delivered %s to %s", t.name(), id, msg.To)
	return true
}

// TransportState reports which transport the next Send would use. Exposed
// for the health endpoint.
func (m *Mailer) TransportState() string {
	return m.selectTransport().name()
}

// selectTransport evaluates credentials fresh on every call; a transport
// fixed at startup would mask credential rotation.
func (m *Mailer) selectTransport() transport {
	if user, pass, ok := m.smtpCredentials(); ok {
		return &smtpTransport{
			host:    m.cfg.SMTPHost,
			port:    m.cfg.SMTPPort,
			user:    user,
			pass:    pass,
			timeout: m.timeout(),
		}
	}
	if key, from, ok := m.sendgridCredentials(); ok {
		return &sendgridTransport{key: key, from: from}
	}
	return &demoTransport{}
}

// smtpCredentials format-validates the primary transport: account must be
// email-shaped, secret at least 8 characters once whitespace is stripped
// (Gmail app passwords are 16, but pasted variants with spaces are common).
func (m *Mailer) smtpCredentials() (user, pass string, ok bool) {
	user = strings.TrimSpace(m.cfg.SMTPUser)
	pass = stripWhitespace(m.cfg.SMTPPass)
	if user == "" || pass == "" {
		return "", "", false
	}
	if !emailShape.MatchString(user) {
		return "", "", false
	}
	if len(pass) < 8 {
		return "", "", false
	}
	return user, pass, true
}

// sendgridCredentials format-validates the fallback transport: the API key
// carries the "SG." prefix and the sender address is email-shaped.
func (m *Mailer) sendgridCredentials() (key, from string, ok bool) {
	key = strings.TrimSpace(m.cfg.SendgridKey)
	from = strings.TrimSpace(m.cfg.SendgridFrom)
	if !strings.HasPrefix(key, "SG.") {
		return "", "", false
	}
	if !emailShape.MatchString(from) {
		return "", "", false
	}
	return key, from, true
}

func (m *Mailer) timeout() time.Duration {
	if m.cfg.MailTimeout > 0 {
		return m.cfg.MailTimeout
	}
	return 15 * time.Second
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
