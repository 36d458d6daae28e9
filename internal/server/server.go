// Package server wires the site pages, the contact component, and the intake
// description onto a chi router.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-contactform/components/contact"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/html"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/site"
)

type Server struct {
	site     atomic.Pointer[site.Config]
	sitePath string

	logger          *zap.Logger
	registry        *render.Registry
	pending         []render.Renderer
	rendererName    string
	contactOpts     []contact.OptionFn
	contact         *contact.Component
	router          chi.Router
	shutdownTimeout time.Duration
}

// New builds a server for cfg. The HTML renderer is registered unless one
// named "html" is supplied.
func New(cfg *site.Config, options ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: site config is required")
	}
	s := &Server{
		logger:          zap.NewNop(),
		rendererName:    "html",
		shutdownTimeout: defaultShutdownTimeout,
	}
	s.site.Store(cfg)
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}

	registry, err := render.NewRegistry(s.pending...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	if _, err := registry.Get("html"); err != nil {
		htmlRenderer, err := html.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		if err := registry.Register(htmlRenderer); err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
	}
	s.registry = registry

	renderer, err := registry.Get(s.rendererName)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	contactOpts := append([]contact.OptionFn{
		contact.WithSite(s.Site),
		contact.WithRenderer(renderer),
		contact.WithLogger(s.logger.Named("contact")),
	}, s.contactOpts...)
	s.contact, err = contact.New(contactOpts...)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	s.router = s.routes(renderer)
	return s, nil
}

// Site returns the config currently served.
func (s *Server) Site() *site.Config {
	return s.site.Load()
}

// SetSite swaps the served config. Pages pick it up on the next request and
// contact sessions opened afterwards use its hand-off settings.
func (s *Server) SetSite(cfg *site.Config) {
	if cfg == nil {
		return
	}
	s.site.Store(cfg)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Renderers lists the registered renderer names.
func (s *Server) Renderers() []string {
	return s.registry.List()
}

func (s *Server) Contact() *contact.Component {
	return s.contact
}

func (s *Server) routes(renderer render.Renderer) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", s.openapi)
	r.Get("/chat", s.chat)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if _, err := s.contact.RegisterRoutes(r, "/"); err != nil {
		s.logger.Error("register contact routes", zap.Error(err))
	}
	r.Get("/*", s.page(renderer))
	return r
}

func (s *Server) page(renderer render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := s.Site()
		page, ok := cfg.Page(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		body, err := renderer.Render(r.Context(), render.View{Site: cfg, Page: page}, render.RenderOptions{})
		if err != nil {
			s.logger.Error("render page", zap.String("path", page.Path), zap.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", renderer.ContentType())
		_, _ = w.Write(body)
	}
}

func (s *Server) chat(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, s.Site().Contact.DeepLink.QuickLink(), http.StatusFound)
}

func (s *Server) openapi(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(schema.ContactOpenAPI())
}

// ListenAndServe listens on addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the HTTP server, the session sweeper, and the optional config
// watcher until ctx is done or one of them fails, then shuts down gracefully
// and closes every contact session.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return s.contact.Run(gctx)
	})
	if s.sitePath != "" {
		g.Go(func() error {
			return site.Watch(gctx, s.sitePath, s.SetSite, site.WithWatchLogger(s.logger.Named("site")))
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	return errors.Join(err, s.contact.Close())
}
