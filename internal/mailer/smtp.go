package mailer

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// smtpTransport delivers over authenticated SMTP with STARTTLS. This is the
// primary transport; credentials are typically a Gmail account plus app
// password, matching the original deployment.
type smtpTransport struct {
	host    string
	port    int
	user    string
	pass    string
	timeout time.Duration
}

func (t *smtpTransport) name() string {
	return TransportSMTP
}

func (t *smtpTransport) send(ctx context.Context, msg Message) (string, error) {
	client, err := gomail.NewClient(t.host,
		gomail.WithPort(t.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(t.user),
		gomail.WithPassword(t.pass),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(t.timeout),
	)
	if err != nil {
		return "", fmt.Errorf("smtp client: %w", err)
	}

	m := gomail.NewMsg()
	if err := m.FromFormat("ComplianceGuard", t.user); err != nil {
		return "", fmt.Errorf("smtp from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return "", fmt.Errorf("smtp to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetMessageID()

	if msg.HTML != "" {
		m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
		if msg.Text != "" {
			m.AddAlternativeString(gomail.TypeTextPlain, msg.Text)
		}
	} else {
		m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	}

	// DialAndSend covers the connectivity check the node version did with
	// transporter.verify(): dial and TLS handshake happen before delivery.
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return "", fmt.Errorf("smtp send: %w", err)
	}

	return m.GetMessageID(), nil
}
