package submission

import (
	"strings"

	"github.com/goliatone/go-contactform/pkg/schema"
)

const (
	// DefaultGreeting opens every formatted message.
	DefaultGreeting = "Hi NEXORA DIGITAL!"
	// QuickGreeting pre-fills the floating chat shortcut.
	QuickGreeting = "Hi! I want to know more about your services."
)

// FormatMessage interpolates the five contact values into the text block sent
// through the deep-link. The field order is fixed: name, email, phone,
// service, then the free-text message after a blank line. An empty greeting
// falls back to DefaultGreeting.
func FormatMessage(record map[string]string, greeting string) string {
	if strings.TrimSpace(greeting) == "" {
		greeting = DefaultGreeting
	}

	var b strings.Builder
	b.WriteString(greeting)
	b.WriteString("\n\nName: ")
	b.WriteString(record[schema.FieldName])
	b.WriteString("\nEmail: ")
	b.WriteString(record[schema.FieldEmail])
	b.WriteString("\nPhone: ")
	b.WriteString(record[schema.FieldPhone])
	b.WriteString("\nService: ")
	b.WriteString(record[schema.FieldService])
	b.WriteString("\n\nMessage: ")
	b.WriteString(record[schema.FieldMessage])
	return b.String()
}
