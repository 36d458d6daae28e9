package contact

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/html"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/submission"
)

// Component wraps the contact handler, its sessions, and routing helpers.
type Component struct {
	opts     Options
	schema   schema.Schema
	renderer render.Renderer
	sessions *sessions
}

var _ http.Handler = (*Component)(nil)

// New constructs a component with default options plus any overrides. The
// HTML renderer is built when none is supplied.
func New(fns ...OptionFn) (*Component, error) {
	return NewWithOptions(NewOptions(fns...))
}

// NewWithOptions builds a component from a pre-constructed Options value.
func NewWithOptions(opts Options) (*Component, error) {
	opts = NewOptions(func(o *Options) { *o = opts })

	renderer := opts.Renderer
	if renderer == nil {
		built, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("contact: build renderer: %w", err)
		}
		renderer = built
	}

	c := &Component{
		opts:     opts,
		schema:   schema.Contact(),
		renderer: renderer,
	}
	c.sessions = newSessions(opts.SessionTTL, opts.MaxSessions, opts.Now, c.newInstance, opts.Logger)
	return c, nil
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns the component as a net/http handler.
func (c *Component) Handler() http.Handler {
	return c
}

// RegisterRoutes registers the component handler under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("contact: missing mux")
	}
	pattern := mountPath(basePath, c.opts.RoutePath)
	mux.Handle(pattern, c)
	return pattern, nil
}

// Run expires idle sessions until ctx is done.
func (c *Component) Run(ctx context.Context) error {
	c.sessions.run(ctx, c.opts.SweepInterval)
	return nil
}

// Sweep closes idle sessions now and reports how many were removed.
func (c *Component) Sweep() int {
	return c.sessions.Sweep()
}

// Sessions reports the number of live sessions.
func (c *Component) Sessions() int {
	return c.sessions.Len()
}

// Close tears down every session. Later requests answer 503.
func (c *Component) Close() error {
	return c.sessions.Close()
}

func (c *Component) newInstance() *form.Instance {
	options := []submission.Option{
		submission.WithOpener(submission.RedirectOpener{}),
		submission.WithLogger(c.opts.Logger),
		submission.WithNotifier(submission.LogNotifier(c.opts.Logger)),
	}
	options = append(options, c.opts.HandlerOptions...)
	return form.New(c.schema, append(options, submission.WithSettings(c.contactSettings))...)
}

// contactSettings reads the current site config, so a reload reaches live
// sessions on their next submit.
func (c *Component) contactSettings() submission.Settings {
	contact := c.opts.Site().Contact
	return submission.Settings{
		DeepLink:      contact.DeepLink,
		Greeting:      contact.Greeting,
		DispatchDelay: contact.DispatchDelay,
		ResetDelay:    contact.ResetDelay,
	}
}
