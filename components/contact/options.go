package contact

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
)

const (
	defaultRoutePath     = "/contact"
	defaultCookieName    = "contactform_session"
	defaultSessionField  = "session"
	defaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = time.Minute
	defaultMaxSessions   = 10000
)

type GuardFunc func(r *http.Request) error

// SiteFunc returns the current site config. Servers that hot-reload the
// config pass a func reading the latest value.
type SiteFunc func() *site.Config

type Options struct {
	RoutePath     string
	PagePath      string
	CookieName    string
	SessionField  string
	SessionTTL    time.Duration
	SweepInterval time.Duration
	// MaxSessions bounds live sessions. New visitors get 503 while the
	// table is full of unexpired sessions.
	MaxSessions  int
	SecureCookie bool
	Guard         GuardFunc

	Site     SiteFunc
	Renderer render.Renderer
	Logger   *zap.Logger
	Now      func() time.Time

	// HandlerOptions configure every session's submission handler. The
	// deep-link, greeting and delays are re-read from Site on each submit
	// and take precedence over the same settings given here.
	HandlerOptions []submission.Option
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:     defaultRoutePath,
		PagePath:      defaultRoutePath,
		CookieName:    defaultCookieName,
		SessionField:  defaultSessionField,
		SessionTTL:    defaultSessionTTL,
		SweepInterval: defaultSweepInterval,
		MaxSessions:   defaultMaxSessions,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.RoutePath == "" {
		opts.RoutePath = defaultRoutePath
	}
	if opts.PagePath == "" {
		opts.PagePath = defaultRoutePath
	}
	if opts.CookieName == "" {
		opts.CookieName = defaultCookieName
	}
	if opts.SessionField == "" {
		opts.SessionField = defaultSessionField
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = defaultSessionTTL
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.Site == nil {
		defaults := site.Defaults()
		opts.Site = func() *site.Config { return defaults }
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.HandlerOptions != nil {
		opts.HandlerOptions = append([]submission.Option{}, opts.HandlerOptions...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

// WithPagePath selects which configured page frames the form.
func WithPagePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.PagePath = path
	}
}

func WithCookieName(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.CookieName = name
	}
}

func WithSecureCookie(secure bool) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SecureCookie = secure
	}
}

func WithSessionTTL(ttl time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SessionTTL = ttl
	}
}

func WithSweepInterval(d time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SweepInterval = d
	}
}

func WithMaxSessions(n int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxSessions = n
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

func WithSite(fn SiteFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Site = fn
	}
}

// WithSiteConfig pins a static site config.
func WithSiteConfig(cfg *site.Config) OptionFn {
	return func(o *Options) {
		if o == nil || cfg == nil {
			return
		}
		o.Site = func() *site.Config { return cfg }
	}
}

func WithRenderer(renderer render.Renderer) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Renderer = renderer
	}
}

func WithLogger(logger *zap.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithClock replaces the clock used for session expiry.
func WithClock(now func() time.Time) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Now = now
	}
}

func WithHandlerOptions(options ...submission.Option) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HandlerOptions = append(o.HandlerOptions, options...)
	}
}
