// Package contactform is the top-level entry point for the contact intake:
// validate raw input against the contact schema, format the hand-off text,
// and build the messaging deep-link.
package contactform

import (
	"context"

	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/submission"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Schema aliases schema.Schema for callers that only need the root package.
type Schema = schema.Schema

// Result is the outcome of validating one input.
type Result = validation.Result

// Outcome describes a completed hand-off.
type Outcome = submission.Outcome

// State is the submission state of a form instance.
type State = submission.State

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface validation errors.
type RenderOptions = render.RenderOptions

// ContactSchema returns a fresh copy of the contact form schema.
func ContactSchema() Schema {
	return schema.Contact()
}

// Validate checks input against the contact schema. Values are trimmed before
// any constraint runs and every failing field is reported.
func Validate(input map[string]string) Result {
	return validation.Validate(schema.Contact(), input)
}

// FormatMessage renders a validated record as the hand-off text with the
// default greeting.
func FormatMessage(record map[string]string) string {
	return submission.FormatMessage(record, submission.DefaultGreeting)
}

// DeepLink returns the default messaging URL pre-filled with record.
func DeepLink(record map[string]string) string {
	return submission.DefaultDeepLink().URL(FormatMessage(record))
}

// NewInstance returns an empty contact form instance. Handler options such as
// submission.WithOpener are passed through.
func NewInstance(options ...submission.Option) *form.Instance {
	return form.New(schema.Contact(), options...)
}

// Submit validates input and, when valid, hands it to opener in one shot. The
// instance used for the hand-off is closed before Submit returns.
func Submit(ctx context.Context, input map[string]string, opener submission.Opener, options ...submission.Option) (Result, Outcome, error) {
	inst := NewInstance(append(options, submission.WithOpener(opener))...)
	defer inst.Close()
	inst.SetAll(input)
	return inst.Submit(ctx)
}
