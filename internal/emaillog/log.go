// Package emaillog appends dispatch outcomes to one shared plain-text file.
// Entries are free-text blocks tagged SUCCESS or ERROR in the text itself
// and are immutable once appended. There is no rotation; the admin surface
// can read the tail or delete the file outright.
package emaillog

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

const separator = "========================================"

// Log is the shared append-only email log. The original node service let
// concurrent writers race on the OS append; Go serves requests on many
// goroutines, so appends are serialized with a mutex instead.
type Log struct {
	mu   sync.Mutex
	path string
}

// New creates a Log writing to path. The file is created on first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Success appends a SUCCESS entry for a delivered message.
func (l *Log) Success(to, subject, transport, messageID string) {
	ts := time.Now().UTC().Format(time.RFC3339)
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", separator)
	fmt.Fprintf(&b, "EMAIL SUCCESS LOG - %s\n", ts)
	fmt.Fprintf(&b, "%s\n", separator)
	fmt.Fprintf(&b, "Context: Email sent successfully\n")
	fmt.Fprintf(&b, "Email To: %s\n", to)
	fmt.Fprintf(&b, "Email Subject: %s\n", subject)
	fmt.Fprintf(&b, "Transport: %s\n", transport)
	fmt.Fprintf(&b, "Message ID: %s\n", valueOrNA(messageID))
	fmt.Fprintf(&b, "%s\n\n", separator)
	l.append(b.String())
}

// Failure appends an ERROR entry for a failed or refused delivery.
func (l *Log) Failure(to, subject, transport, context string, err error) {
	ts := time.Now().UTC().Format(time.RFC3339)
	msg := "No message"
	if err != nil {
		msg = err.Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", separator)
	fmt.Fprintf(&b, "EMAIL ERROR LOG - %s\n", ts)
	fmt.Fprintf(&b, "%s\n", separator)
	fmt.Fprintf(&b, "Context: %s\n", context)
	fmt.Fprintf(&b, "Error Message: %s\n", msg)
	fmt.Fprintf(&b, "Email To: %s\n", valueOrNA(to))
	fmt.Fprintf(&b, "Email Subject: %s\n", valueOrNA(subject))
	fmt.Fprintf(&b, "Transport: %s\n", transport)
	fmt.Fprintf(&b, "%s\n\n", separator)
	l.append(b.String())
}

// Tail returns the last n lines of the log file. A missing file is an
// empty log, not an error.
func (l *Log) Tail(n int) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}

// Clear removes the log file entirely.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := os.Remove(l.path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *Log) append(entry string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("email log: open %s: %v", l.path, err)
		return
	}
	defer f.Close()

	if _, err := f.WriteString(entry); err != nil {
		log.Printf("email log: write %s: %v", l.path, err)
	}
}

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
