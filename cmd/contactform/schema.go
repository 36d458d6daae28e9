package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/schema"
)

func newSchemaCmd(a *app) *cobra.Command {
	var (
		format      string
		fromOpenAPI bool
		raw         bool
		source      string
		operation   string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the contact field schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if raw {
				_, err := out.Write(schema.ContactOpenAPI())
				return err
			}

			s := schema.Contact()
			switch {
			case source != "":
				derived, err := loadSchema(cmd.Context(), source, operation)
				if err != nil {
					return err
				}
				s = derived
			case fromOpenAPI:
				derived, err := schema.ContactFromOpenAPI(cmd.Context())
				if err != nil {
					return err
				}
				s = derived
			}

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(s); err != nil {
					return fmt.Errorf("encode schema: %w", err)
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(s)
			default:
				return fmt.Errorf("unknown format %q (want yaml or json)", format)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&fromOpenAPI, "from-openapi", false, "derive the schema from the embedded OpenAPI description")
	cmd.Flags().BoolVar(&raw, "openapi", false, "print the embedded OpenAPI description itself")
	cmd.Flags().StringVar(&source, "source", "", "derive the schema from an OpenAPI file or http(s) URL")
	cmd.Flags().StringVar(&operation, "operation", schema.ContactOperationID, "operationId whose request body defines the form")
	return cmd
}

func loadSchema(ctx context.Context, ref, operationID string) (schema.Schema, error) {
	src, err := schema.ParseSource(ref)
	if err != nil {
		return schema.Schema{}, err
	}
	doc, err := schema.Load(ctx, src, schema.LoadOptions{
		HTTPClient:     http.DefaultClient,
		RequestTimeout: 15 * time.Second,
	})
	if err != nil {
		return schema.Schema{}, err
	}
	return schema.FromOpenAPI(ctx, doc.ForOperation(operationID), "")
}
