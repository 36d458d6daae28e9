package submission

import "strings"

const (
	DefaultBaseURL   = "https://wa.me"
	DefaultRecipient = "91XXXXXXXXXX"
)

// DeepLink targets a messaging service that accepts pre-filled text through a
// "text" query parameter.
type DeepLink struct {
	BaseURL   string `json:"baseUrl" yaml:"baseUrl"`
	Recipient string `json:"recipient" yaml:"recipient"`
}

// DefaultDeepLink returns the agency WhatsApp target.
func DefaultDeepLink() DeepLink {
	return DeepLink{BaseURL: DefaultBaseURL, Recipient: DefaultRecipient}
}

// URL returns "<base>/<recipient>?text=<encoded>". The query is omitted when
// text is empty.
func (l DeepLink) URL(text string) string {
	base := strings.TrimRight(strings.TrimSpace(l.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	recipient := strings.Trim(strings.TrimSpace(l.Recipient), "/")

	var b strings.Builder
	b.WriteString(base)
	if recipient != "" {
		b.WriteByte('/')
		b.WriteString(EncodeComponent(recipient))
	}
	if text != "" {
		b.WriteString("?text=")
		b.WriteString(EncodeComponent(text))
	}
	return b.String()
}

// QuickLink returns the floating chat shortcut URL.
func (l DeepLink) QuickLink() string {
	return l.URL(QuickGreeting)
}

const upperhex = "0123456789ABCDEF"

// EncodeComponent percent-encodes s the way browsers encode a URI component:
// the UTF-8 bytes of everything except A-Z a-z 0-9 and -_.!~*'() become %XX
// with uppercase hex digits. Spaces become %20 and newlines %0A.
func EncodeComponent(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if !unreserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if unreserved(c) {
			buf = append(buf, c)
			continue
		}
		buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
	}
	return string(buf)
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}
	return false
}
