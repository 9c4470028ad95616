package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendgridTransport delivers through the SendGrid v3 mail API. Used when
// SMTP credentials are absent or malformed but an API key is configured.
type sendgridTransport struct {
	key  string
	from string
}

func (t *sendgridTransport) name() string {
	return TransportSendgrid
}

func (t *sendgridTransport) send(ctx context.Context, msg Message) (string, error) {
	from := sgmail.NewEmail("ComplianceGuard", t.from)
	to := sgmail.NewEmail("", msg.To)

	text := msg.Text
	if text == "" {
		text = " "
	}
	mail := sgmail.NewSingleEmail(from, msg.Subject, to, text, msg.HTML)

	client := sendgrid.NewSendClient(t.key)
	resp, err := client.SendWithContext(ctx, mail)
	if err != nil {
		return "", fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	// SendGrid returns the message id in a response header; fall back to a
	// local correlation id when absent.
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		return ids[0], nil
	}
	return uuid.NewString(), nil
}
