// Package contact serves the contact intake over net/http.
//
// GET renders the contact page, showing the caller's session when it has
// one. POST accepts form-encoded or JSON input, validates it against the
// contact schema, and hands valid records off to the messaging deep-link of
// the current site config: HTML clients are redirected with a 303, JSON
// clients receive the URL in the body.
//
// Each browser session owns one form instance, keyed by a uuid cookie and
// opened by the first POST. Sessions expire after an idle TTL, are capped
// by Options.MaxSessions, and are closed when the component shuts down.
package contact
