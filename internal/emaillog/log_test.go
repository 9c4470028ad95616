package emaillog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "logging.txt"))
}

func TestSuccessEntry(t *testing.T) {
	l := newTestLog(t)

	l.Success("lead@company.com", "6월 법규 안내", "smtp", "<msg-1@regdash>")

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"EMAIL SUCCESS LOG",
		"Email To: lead@company.com",
		"Email Subject: 6월 법규 안내",
		"Transport: smtp",
		"Message ID: <msg-1@regdash>",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected log to contain %q", want)
		}
	}
}

func TestFailureEntry(t *testing.T) {
	l := newTestLog(t)

	l.Failure("lead@company.com", "6월 법규 안내", "sendgrid", "Delivery failed", os.ErrDeadlineExceeded)

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		"EMAIL ERROR LOG",
		"Context: Delivery failed",
		"Error Message: " + os.ErrDeadlineExceeded.Error(),
		"Transport: sendgrid",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected log to contain %q", want)
		}
	}
}

func TestEntriesAppend(t *testing.T) {
	l := newTestLog(t)

	l.Success("a@company.com", "first", "smtp", "id-1")
	l.Failure("b@company.com", "second", "smtp", "Delivery failed", nil)

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	text := string(data)

	firstIdx := strings.Index(text, "first")
	secondIdx := strings.Index(text, "second")
	if firstIdx < 0 || secondIdx < 0 || firstIdx > secondIdx {
		t.Error("Expected entries appended in order")
	}
	if !strings.Contains(text, "Error Message: No message") {
		t.Error("Expected nil error recorded as 'No message'")
	}
}

func TestTail(t *testing.T) {
	l := newTestLog(t)

	l.Success("a@company.com", "subject", "smtp", "id-1")

	lines, err := l.Tail(3)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d", len(lines))
	}

	// More than the file holds returns everything
	lines, err = l.Tail(10000)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(lines) == 0 || len(lines) >= 10000 {
		t.Errorf("Unexpected line count: %d", len(lines))
	}
}

func TestTailMissingFile(t *testing.T) {
	l := newTestLog(t)

	lines, err := l.Tail(50)
	if err != nil {
		t.Fatalf("Tail on a missing file failed: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("Expected an empty log, got %d lines", len(lines))
	}
}

func TestClear(t *testing.T) {
	l := newTestLog(t)

	l.Success("a@company.com", "subject", "smtp", "id-1")
	if err := l.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("Expected the log file removed")
	}

	// Clearing an already-missing file is a no-op
	if err := l.Clear(); err != nil {
		t.Errorf("Clear on a missing file failed: %v", err)
	}

	// And the log keeps accepting entries afterwards
	l.Failure("a@company.com", "subject", "demo", "Transport credentials validation failed", nil)
	lines, err := l.Tail(50)
	if err != nil {
		t.Fatalf("Tail failed: %v", err)
	}
	if len(lines) == 0 {
		t.Error("Expected entries after clearing")
	}
}
