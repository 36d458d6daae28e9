package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/submission"
)

func newPromptCmd(a *app) *cobra.Command {
	var (
		open   bool
		dryRun bool
		format string
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Fill in the contact form in the terminal and hand it off",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadSite()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			driver := a.prompts
			if driver == nil {
				driver = tui.NewSurveyDriver(out)
			}
			renderer := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithOutputFormat(tui.OutputFormat(format)),
			)

			page, _ := cfg.Page("/contact")
			view := render.View{Site: cfg, Page: page, Form: &render.FormView{Schema: schema.Contact()}}

			if dryRun {
				body, err := renderer.Render(cmd.Context(), view, render.RenderOptions{})
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, string(body))
				return err
			}

			var opener submission.Opener = &submission.WriterOpener{W: out}
			if open {
				opener = submission.CommandOpener{}
			}
			inst := form.New(schema.Contact(),
				submission.WithOpener(opener),
				submission.WithDeepLink(cfg.Contact.DeepLink),
				submission.WithGreeting(cfg.Contact.Greeting),
				submission.WithDispatchDelay(cfg.Contact.DispatchDelay),
				submission.WithLogger(a.logger),
			)
			defer inst.Close()

			_, err = renderer.Submit(cmd.Context(), view, inst)
			if errors.Is(err, tui.ErrDeclined) {
				_, err = fmt.Fprintln(out, "Nothing sent.")
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&open, "open", false, "open the deep-link with the system URL handler instead of printing it")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "collect the answers and print them without handing off")
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "dry-run output format: json, form or pretty")
	return cmd
}
