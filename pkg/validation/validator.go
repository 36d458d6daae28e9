package validation

import (
	"strings"

	"github.com/goliatone/go-contactform/pkg/schema"
)

// Issue is a single field-level failure.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result is the outcome of checking a FormInput against a schema. Exactly one
// of Record (when Valid) or Errors (when not) is populated.
type Result struct {
	Valid bool `json:"valid"`
	// Record maps every declared field to its trimmed value.
	Record map[string]string `json:"record,omitempty"`
	// Errors maps each failing field to the message of its first failing
	// constraint.
	Errors map[string]string `json:"errors,omitempty"`
	// Issues lists the same failures in declaration order.
	Issues []Issue `json:"issues,omitempty"`
}

// FieldErrors adapts Errors to the map[string][]string shape renderers use.
func (r Result) FieldErrors() map[string][]string {
	if len(r.Errors) == 0 {
		return nil
	}
	out := make(map[string][]string, len(r.Errors))
	for field, message := range r.Errors {
		out[field] = []string{message}
	}
	return out
}

// Validator applies one schema to arbitrary inputs. It holds no mutable
// state, so a single value can be shared.
type Validator struct {
	schema schema.Schema
}

// New returns a Validator bound to s.
func New(s schema.Schema) *Validator {
	return &Validator{schema: s}
}

// Schema returns the schema the validator applies.
func (v *Validator) Schema() schema.Schema {
	return v.schema
}

// Validate checks input against the bound schema.
func (v *Validator) Validate(input map[string]string) Result {
	return Validate(v.schema, input)
}

// Validate checks every declared field independently. Values are trimmed
// before any constraint runs; missing fields validate as empty strings and
// undeclared keys are ignored. Within a field, constraints run in declaration
// order and the first failure is reported.
func Validate(s schema.Schema, input map[string]string) Result {
	record := make(map[string]string, len(s.Fields))
	var issues []Issue

	for _, field := range s.Fields {
		value := strings.TrimSpace(input[field.Name])
		if message, failed := firstFailure(field, value); failed {
			issues = append(issues, Issue{Field: field.Name, Message: message})
			continue
		}
		record[field.Name] = value
	}

	if len(issues) > 0 {
		errs := make(map[string]string, len(issues))
		for _, issue := range issues {
			errs[issue.Field] = issue.Message
		}
		return Result{Errors: errs, Issues: issues}
	}
	return Result{Valid: true, Record: record}
}

func firstFailure(field schema.Field, value string) (string, bool) {
	for _, constraint := range field.Constraints {
		if !constraint.Check(value) {
			return constraint.Message, true
		}
	}
	return "", false
}
