package contactform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-contactform/pkg/schema"
)

// LoadSchema reads an OpenAPI document from src and derives the field schema
// of operationID's request body. An empty operationID targets
// schema.ContactOperationID.
func LoadSchema(ctx context.Context, src schema.Source, operationID string, opts schema.LoadOptions) (Schema, error) {
	doc, err := schema.Load(ctx, src, opts)
	if err != nil {
		return Schema{}, fmt.Errorf("contactform: load schema: %w", err)
	}
	s, err := schema.FromOpenAPI(ctx, doc, operationID)
	if err != nil {
		return Schema{}, fmt.Errorf("contactform: load schema: %w", err)
	}
	return s, nil
}
