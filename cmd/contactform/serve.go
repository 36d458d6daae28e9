package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contactform/components/contact"
	"github.com/goliatone/go-contactform/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr         string
		watch        bool
		secureCookie bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site pages and the contact form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadSite()
			if err != nil {
				return err
			}

			options := []server.Option{
				server.WithLogger(a.logger),
				server.WithContactOptions(contact.WithSecureCookie(secureCookie)),
			}
			if watch && a.siteFile != "" {
				options = append(options, server.WithSiteFile(a.siteFile))
			}
			srv, err := server.New(cfg, options...)
			if err != nil {
				return err
			}

			a.logger.Info("starting server", zap.String("addr", addr), zap.Bool("watch", watch && a.siteFile != ""))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the site config when the file changes")
	cmd.Flags().BoolVar(&secureCookie, "secure-cookie", false, "mark the session cookie Secure")
	return cmd
}
