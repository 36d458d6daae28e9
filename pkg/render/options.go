package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/submission"
)

// RenderOptions carry per-request data that customises output without
// touching the view.
type RenderOptions struct {
	// Method overrides the form method; defaults to POST.
	Method string
	// Values pre-populates controls by field name.
	Values map[string]string
	// Errors surfaces validation feedback keyed by field name. Renderers
	// show the first message inline.
	Errors map[string][]string
	// FormErrors are messages that belong to no single field.
	FormErrors []string
	// Hidden inputs emitted with the form.
	Hidden map[string]string
	// Notification is shown as a transient toast.
	Notification *submission.Notification
	// ChatURL overrides the floating chat link.
	ChatURL string
	// Theme overrides the theme derived from the site config.
	Theme *theme.RendererConfig
}
