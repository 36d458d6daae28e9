// Package testsupport holds fixtures shared by package tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"
)

// ValidContact returns raw input that passes the contact schema once
// trimmed.
func ValidContact() map[string]string {
	return map[string]string{
		"name":    "Al",
		"email":   "a@b.com",
		"phone":   "9876543210",
		"service": "Website Development",
		"message": "I need a new website please",
	}
}

// InvalidContact returns input that fails every field.
func InvalidContact() map[string]string {
	return map[string]string{
		"name":    "A",
		"email":   "not-an-email",
		"phone":   "123",
		"service": "",
		"message": "short",
	}
}

// ValidContactMessage is the formatted hand-off text for ValidContact.
const ValidContactMessage = "Hi NEXORA DIGITAL!\n\n" +
	"Name: Al\nEmail: a@b.com\nPhone: 9876543210\nService: Website Development\n\n" +
	"Message: I need a new website please"

// Context returns a context cancelled when the test ends.
func Context(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
