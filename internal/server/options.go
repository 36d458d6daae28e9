package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/components/contact"
	"github.com/goliatone/go-contactform/pkg/render"
)

const defaultShutdownTimeout = 10 * time.Second

type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer registers renderer and uses it for pages.
func WithRenderer(renderer render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.pending = append(s.pending, renderer)
			s.rendererName = renderer.Name()
		}
	}
}

// WithSiteFile hot-reloads the site config from path while serving.
func WithSiteFile(path string) Option {
	return func(s *Server) {
		s.sitePath = path
	}
}

func WithContactOptions(fns ...contact.OptionFn) Option {
	return func(s *Server) {
		s.contactOpts = append(s.contactOpts, fns...)
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}
