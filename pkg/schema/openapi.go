package schema

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	extensionKind        = "x-contactform-kind"
	extensionLabel       = "x-contactform-label"
	extensionPlaceholder = "x-contactform-placeholder"
	extensionMessages    = "x-contactform-messages"
	extensionOrder       = "x-contactform-order"
)

var errOperationNotFound = errors.New("schema openapi: operation not found")

// FromOpenAPI builds a Schema from the request body of operationID. String
// keywords map onto constraints in a fixed order: required, format (email),
// minLength, maxLength, pattern, enum. Messages come from the
// x-contactform-messages extension keyed by keyword; missing messages fall
// back to generic wording. An empty operationID uses doc.OperationID().
func FromOpenAPI(ctx context.Context, doc Document, operationID string) (Schema, error) {
	if err := ctx.Err(); err != nil {
		return Schema{}, err
	}
	if operationID == "" {
		operationID = doc.OperationID()
	}
	if operationID == "" {
		return Schema{}, errors.New("schema openapi: operation id is required")
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return Schema{}, errors.New("schema openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return Schema{}, fmt.Errorf("schema openapi: load %s: %w", doc.Location(), err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return Schema{}, fmt.Errorf("schema openapi: validate %s: %w", doc.Location(), err)
	}

	op := findOperation(spec, operationID)
	if op == nil {
		return Schema{}, fmt.Errorf("%w: %q", errOperationNotFound, operationID)
	}
	body := requestSchema(op)
	if body == nil {
		return Schema{}, fmt.Errorf("schema openapi: operation %q has no request body schema", operationID)
	}

	required := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		required[name] = struct{}{}
	}

	builder := NewBuilder(operationID)
	for _, name := range propertyOrder(body) {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		_, isRequired := required[name]
		kind := propertyKind(prop)
		label := stringExtension(prop.Extensions, extensionLabel)
		builder.Field(name, kind, propertyConstraints(name, label, prop, isRequired)...).
			Describe(label, stringExtension(prop.Extensions, extensionPlaceholder))
		if options := enumStrings(prop.Enum); len(options) > 0 {
			builder.Options(options...)
		}
	}
	return builder.Build()
}

// ContactFromOpenAPI derives the contact schema from the embedded description.
func ContactFromOpenAPI(ctx context.Context) (Schema, error) {
	s, err := FromOpenAPI(ctx, ContactDocument(), "")
	if err != nil {
		return Schema{}, err
	}
	s.ID = ContactID
	return s, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	if spec == nil || spec.Paths == nil {
		return nil
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, op := range item.Operations() {
			if op != nil && op.OperationID == operationID {
				return op
			}
		}
	}
	return nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// propertyOrder honours x-contactform-order and appends any remaining
// properties alphabetically, since JSON objects carry no order.
func propertyOrder(body *openapi3.Schema) []string {
	seen := make(map[string]struct{}, len(body.Properties))
	var out []string
	if list, ok := body.Extensions[extensionOrder].([]any); ok {
		for _, item := range list {
			name, ok := item.(string)
			if !ok {
				continue
			}
			if _, exists := body.Properties[name]; !exists {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	var rest []string
	for name := range body.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func propertyKind(prop *openapi3.Schema) Kind {
	if kind := Kind(stringExtension(prop.Extensions, extensionKind)); kind.Valid() {
		return kind
	}
	switch {
	case prop.Format == "email":
		return KindEmail
	case len(prop.Enum) > 0:
		return KindChoice
	case prop.MaxLength != nil && *prop.MaxLength > 255:
		return KindLongText
	default:
		return KindShortText
	}
}

func propertyConstraints(name, label string, prop *openapi3.Schema, required bool) []Constraint {
	messages := messageExtension(prop.Extensions)
	subject := label
	if subject == "" {
		subject = name
	}
	message := func(keyword, fallback string) string {
		if msg := strings.TrimSpace(messages[keyword]); msg != "" {
			return msg
		}
		return fallback
	}

	var out []Constraint
	if required {
		if msg, ok := messages["required"]; ok && strings.TrimSpace(msg) != "" {
			out = append(out, NonEmpty(msg))
		}
	}
	if prop.Format == "email" {
		out = append(out, Email(message("format", "Please enter a valid email")))
	}
	if prop.MinLength > 0 {
		out = append(out, MinLength(int(prop.MinLength), message("minLength", fmt.Sprintf("%s must be at least %d characters", subject, prop.MinLength))))
	}
	if prop.MaxLength != nil {
		out = append(out, MaxLength(int(*prop.MaxLength), message("maxLength", fmt.Sprintf("%s is too long", subject))))
	}
	if prop.Pattern != "" {
		out = append(out, Pattern(prop.Pattern, message("pattern", fmt.Sprintf("%s is not in the expected format", subject))))
	}
	if options := enumStrings(prop.Enum); len(options) > 0 {
		out = append(out, OneOf(options, message("enum", fmt.Sprintf("Please select a valid %s", strings.ToLower(subject)))))
	}
	return out
}

func enumStrings(values []any) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringExtension(ext map[string]any, key string) string {
	value, _ := ext[key].(string)
	return strings.TrimSpace(value)
}

func messageExtension(ext map[string]any) map[string]string {
	raw, ok := ext[extensionMessages].(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for key, value := range raw {
		if s, ok := value.(string); ok {
			out[key] = s
		}
	}
	return out
}
