package mailer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var htmlTags = regexp.MustCompile(`<[^>]*>`)
var manySpaces = regexp.MustCompile(`\s+`)

// demoTransport writes the message to stdout instead of sending it. Active
// when neither SMTP nor SendGrid credentials validate, so a fresh checkout
// works end to end without any mail account.
type demoTransport struct{}

func (t *demoTransport) name() string {
	return TransportDemo
}

func (t *demoTransport) send(_ context.Context, msg Message) (string, error) {
	id := uuid.NewString()

	banner := strings.Repeat("=", 120)
	fmt.Println()
	fmt.Println(banner)
	fmt.Println("EMAIL DELIVERY DEMO (configure GMAIL_USER/GMAIL_PASS or SENDGRID_API_KEY for real delivery)")
	fmt.Println(banner)
	fmt.Printf("From:    ComplianceGuard System <%s>\n", msg.From)
	fmt.Printf("To:      %s\n", msg.To)
	fmt.Printf("Subject: %s\n", msg.Subject)
	fmt.Println(banner)
	fmt.Println(renderPlain(msg))
	fmt.Println(banner)

	return id, nil
}

// renderPlain strips markup so the demo dump stays readable on a terminal.
func renderPlain(msg Message) string {
	if msg.HTML != "" {
		text := htmlTags.ReplaceAllString(msg.HTML, "")
		text = strings.ReplaceAll(text, "&nbsp;", " ")
		return strings.TrimSpace(manySpaces.ReplaceAllString(text, " "))
	}
	if msg.Text != "" {
		return msg.Text
	}
	return "(no content)"
}
