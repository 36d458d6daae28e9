package render

import (
	"context"

	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
)

// Renderer turns a page view into bytes (HTML, plain text, and so on).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}

// View is everything a renderer needs for one page.
type View struct {
	Site *site.Config
	Page site.Page
	// Form is set on pages that embed the contact form.
	Form *FormView
}

// FormView is the render-time snapshot of one form instance.
type FormView struct {
	Action string
	Schema schema.Schema
	State  submission.State
}
