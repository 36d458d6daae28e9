package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/site"
)

type app struct {
	verbose  bool
	siteFile string
	logger   *zap.Logger
	// prompts replaces the survey driver in tests.
	prompts tui.PromptDriver
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&app{})
}

func newRootCmdWith(a *app) *cobra.Command {
	a.logger = zap.NewNop()

	root := &cobra.Command{
		Use:           "contactform",
		Short:         "NEXORA DIGITAL site and contact intake",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.siteFile, "site", "", "site config YAML (embedded defaults when empty)")

	root.AddCommand(
		newServeCmd(a),
		newPromptCmd(a),
		newLinkCmd(a),
		newSchemaCmd(a),
	)
	return root
}

func (a *app) loadSite() (*site.Config, error) {
	if a.siteFile == "" {
		return site.Defaults(), nil
	}
	return site.Load(a.siteFile)
}
