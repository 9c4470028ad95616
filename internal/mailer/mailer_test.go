package mailer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/complianceguard/regdash/internal/config"
	"github.com/complianceguard/regdash/internal/emaillog"
)

func newTestMailer(t *testing.T, cfg *config.Config) (*Mailer, *emaillog.Log) {
	t.Helper()
	elog := emaillog.New(filepath.Join(t.TempDir(), "logging.txt"))
	return New(cfg, elog), elog
}

func TestTransportSelection(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "valid smtp credentials",
			cfg:  config.Config{SMTPUser: "compliance@company.com", SMTPPass: "abcdefghijklmnop"},
			want: TransportSMTP,
		},
		{
			name: "smtp app password with spaces",
			cfg:  config.Config{SMTPUser: "compliance@company.com", SMTPPass: "abcd efgh ijkl mnop"},
			want: TransportSMTP,
		},
		{
			name: "smtp user not email shaped",
			cfg: config.Config{
				SMTPUser: "compliance", SMTPPass: "abcdefghijklmnop",
				SendgridKey: "SG.key", SendgridFrom: "noreply@company.com",
			},
			want: TransportSendgrid,
		},
		{
			name: "smtp password too short",
			cfg: config.Config{
				SMTPUser: "compliance@company.com", SMTPPass: "short",
				SendgridKey: "SG.key", SendgridFrom: "noreply@company.com",
			},
			want: TransportSendgrid,
		},
		{
			name: "smtp wins over sendgrid",
			cfg: config.Config{
				SMTPUser: "compliance@company.com", SMTPPass: "abcdefghijklmnop",
				SendgridKey: "SG.key", SendgridFrom: "noreply@company.com",
			},
			want: TransportSMTP,
		},
		{
			name: "sendgrid key without prefix",
			cfg:  config.Config{SendgridKey: "key-without-prefix", SendgridFrom: "noreply@company.com"},
			want: TransportDemo,
		},
		{
			name: "sendgrid sender not email shaped",
			cfg:  config.Config{SendgridKey: "SG.key", SendgridFrom: "noreply"},
			want: TransportDemo,
		},
		{
			name: "no credentials at all",
			cfg:  config.Config{},
			want: TransportDemo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMailer(t, &tt.cfg)
			if got := m.TransportState(); got != tt.want {
				t.Errorf("Expected transport %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSmtpCredentialsStripWhitespace(t *testing.T) {
	m, _ := newTestMailer(t, &config.Config{
		SMTPUser: "  compliance@company.com ",
		SMTPPass: "abcd efgh ijkl mnop",
	})

	user, pass, ok := m.smtpCredentials()
	if !ok {
		t.Fatal("Expected credentials to validate")
	}
	if user != "compliance@company.com" {
		t.Errorf("Expected trimmed user, got %q", user)
	}
	if pass != "abcdefghijklmnop" {
		t.Errorf("Expected whitespace-stripped password, got %q", pass)
	}
}

func TestDemoSendReportsSuccessAndLogsFailure(t *testing.T) {
	m, elog := newTestMailer(t, &config.Config{})

	sent := m.Send(context.Background(), Message{
		To:      "lead@company.com",
		Subject: "6월 법규 안내",
		HTML:    "<p>본문</p>",
	})
	if !sent {
		t.Error("Expected demo mode to report success")
	}

	data, err := os.ReadFile(elog.Path())
	if err != nil {
		t.Fatalf("Expected an email log entry: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "EMAIL ERROR LOG") {
		t.Error("Expected a credential-validation failure entry")
	}
	if !strings.Contains(text, "Transport: demo") {
		t.Error("Expected the demo transport recorded")
	}
	if !strings.Contains(text, "lead@company.com") {
		t.Error("Expected the recipient recorded")
	}
}

func TestValidAddress(t *testing.T) {
	valid := []string{"a@b.co", "compliance@company.com", " padded@company.com "}
	for _, s := range valid {
		if !ValidAddress(s) {
			t.Errorf("Expected %q to validate", s)
		}
	}

	invalid := []string{"", "plain", "missing@tld", "two@@company.com", "sp ace@company.com"}
	for _, s := range invalid {
		if ValidAddress(s) {
			t.Errorf("Expected %q to be rejected", s)
		}
	}
}
