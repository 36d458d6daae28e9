package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/submission"
	"github.com/goliatone/go-contactform/pkg/validation"
)

func newLinkCmd(a *app) *cobra.Command {
	values := map[string]*string{}

	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print the messaging deep-link for a contact record",
		Long: `Without field flags, prints the quick chat link. With any field flag set,
the record is validated and the pre-filled deep-link is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadSite()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			link := cfg.Contact.DeepLink

			input := map[string]string{}
			for name, value := range values {
				if cmd.Flags().Changed(name) {
					input[name] = *value
				}
			}
			if len(input) == 0 {
				_, err := fmt.Fprintln(out, link.QuickLink())
				return err
			}

			s := schema.Contact()
			result := validation.Validate(s, input)
			if !result.Valid {
				return fmt.Errorf("invalid contact record:\n%s", describeErrors(result))
			}
			_, err = fmt.Fprintln(out, link.URL(submission.FormatMessage(result.Record, cfg.Contact.Greeting)))
			return err
		},
	}

	for _, field := range schema.Contact().Fields {
		values[field.Name] = cmd.Flags().String(field.Name, "", field.Label)
	}
	return cmd
}

func describeErrors(result validation.Result) string {
	lines := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		lines = append(lines, "  "+issue.Field+": "+issue.Message)
	}
	return strings.Join(lines, "\n")
}
