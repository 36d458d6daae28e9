// Package tui collects the contact form in a terminal. Prompts go through a
// PromptDriver (survey by default) and each field is re-asked until it
// satisfies its constraints.
package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/submission"
	"github.com/goliatone/go-contactform/pkg/validation"
)

const defaultMaxAttempts = 3

// Renderer implements render.Renderer for terminal sessions. Render returns
// the collected values serialized in the configured output format.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	maxAttempts  int
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  defaultMaxAttempts,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of view.Form. Values in opts seed the
// defaults; errors in opts are printed before the matching prompt.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	values, err := r.collect(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(view.Form.Schema, values)
}

// Submit runs the whole intake against inst: prompt, confirm, validate and
// hand off. When validation still fails the form is prompted again, up to the
// configured number of attempts.
func (r *Renderer) Submit(ctx context.Context, view render.View, inst *form.Instance) (submission.Outcome, error) {
	if view.Form == nil {
		return submission.Outcome{}, ErrNoForm
	}

	opts := render.RenderOptions{Values: inst.Values()}
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		values, err := r.collect(ctx, view, opts)
		if err != nil {
			return submission.Outcome{State: inst.State()}, err
		}
		inst.SetAll(values)

		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Send this message?", Default: true})
		if err != nil {
			return submission.Outcome{State: inst.State()}, err
		}
		if !ok {
			return submission.Outcome{State: inst.State()}, ErrDeclined
		}

		result, outcome, err := inst.Submit(ctx)
		if err != nil {
			var dispatchErr *submission.DispatchError
			if errors.As(err, &dispatchErr) {
				r.warn(ctx, outcome.Message)
			}
			return outcome, err
		}
		if result.Valid {
			r.info(ctx, outcome.Message)
			return outcome, nil
		}
		opts = render.RenderOptions{Values: inst.Values(), Errors: result.FieldErrors()}
	}
	return submission.Outcome{State: inst.State()}, fmt.Errorf("tui: input still invalid after %d attempts", r.maxAttempts)
}

func (r *Renderer) collect(ctx context.Context, view render.View, opts render.RenderOptions) (map[string]string, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view.Form == nil {
		return nil, ErrNoForm
	}

	values := make(map[string]string, len(view.Form.Schema.Fields))
	for _, field := range view.Form.Schema.Fields {
		if messages := opts.Errors[field.Name]; len(messages) > 0 {
			r.warn(ctx, messages[0])
		}
		value, err := r.promptField(ctx, field, opts.Values[field.Name])
		if err != nil {
			return nil, err
		}
		values[field.Name] = value
	}
	return values, nil
}

func (r *Renderer) promptField(ctx context.Context, field schema.Field, current string) (string, error) {
	check := fieldValidator(field)
	label := field.Label
	if label == "" {
		label = field.Name
	}

	for {
		var (
			response string
			err      error
		)
		switch field.Kind {
		case schema.KindChoice:
			response, err = r.promptChoice(ctx, field, label, current)
		case schema.KindLongText:
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: current, Help: field.Placeholder})
		default:
			response, err = r.driver.Input(ctx, InputConfig{Message: label, Default: current, Placeholder: field.Placeholder, Validator: check})
		}
		if err != nil {
			return "", err
		}
		if err := check(response); err != nil {
			r.warn(ctx, err.Error())
			current = response
			continue
		}
		return response, nil
	}
}

func (r *Renderer) promptChoice(ctx context.Context, field schema.Field, label, current string) (string, error) {
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      label,
		Options:      field.Options,
		DefaultIndex: indexOf(field.Options, current),
		Help:         field.Placeholder,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(field.Options) {
		return "", nil
	}
	return field.Options[idx], nil
}

// fieldValidator checks one value with the same rules the form applies.
func fieldValidator(field schema.Field) func(string) error {
	single := schema.Schema{Fields: []schema.Field{field}}
	return func(value string) error {
		result := validation.Validate(single, map[string]string{field.Name: value})
		if result.Valid {
			return nil
		}
		return errors.New(result.Errors[field.Name])
	}
}

func (r *Renderer) info(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	_ = r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) warn(ctx context.Context, msg string) {
	if msg == "" {
		return
	}
	_ = r.driver.Info(ctx, r.theme.ErrorPrefix+msg)
}

func (r *Renderer) serialize(s schema.Schema, values map[string]string) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		encoded := url.Values{}
		for _, name := range s.Names() {
			encoded.Set(name, values[name])
		}
		return []byte(encoded.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range s.Fields {
			label := field.Label
			if label == "" {
				label = field.Name
			}
			fmt.Fprintf(&b, "%s: %s\n", label, values[field.Name])
		}
		return []byte(b.String()), nil
	default:
		out, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}
