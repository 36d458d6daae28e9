package form

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/submission"
	"github.com/goliatone/go-contactform/pkg/validation"
)

// Instance is a single live form: its current input, the validator for its
// schema, and the handler that owns its submission state.
type Instance struct {
	mu        sync.Mutex
	input     map[string]string
	validator *validation.Validator
	handler   *submission.Handler
	last      validation.Result
}

// New returns an empty instance for s. Handler options are passed through;
// a reset hook that clears the input is always registered.
func New(s schema.Schema, options ...submission.Option) *Instance {
	inst := &Instance{
		input:     emptyInput(s),
		validator: validation.New(s),
	}
	opts := append([]submission.Option{}, options...)
	opts = append(opts, submission.WithResetHook(inst.Reset))
	inst.handler = submission.NewHandler(opts...)
	return inst
}

// Schema returns the schema the instance validates against.
func (i *Instance) Schema() schema.Schema {
	return i.validator.Schema()
}

// Set records a raw value. Undeclared names are kept but never validated.
func (i *Instance) Set(name, value string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.input[name] = value
}

// SetAll replaces every value present in values.
func (i *Instance) SetAll(values map[string]string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	maps.Copy(i.input, values)
}

// Values returns a copy of the current input.
func (i *Instance) Values() map[string]string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return maps.Clone(i.input)
}

// Reset clears the input back to one empty entry per declared field.
func (i *Instance) Reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.input = emptyInput(i.validator.Schema())
	i.last = validation.Result{}
}

// Validate checks the current input and remembers the result so renderers
// can show the errors of the last attempt.
func (i *Instance) Validate() validation.Result {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last = i.validator.Validate(i.input)
	return i.last
}

// LastResult returns the result of the most recent Validate call.
func (i *Instance) LastResult() validation.Result {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.last
}

// Submit validates the current input and hands it off only when valid. An
// invalid input returns the result with no error and leaves the state alone.
func (i *Instance) Submit(ctx context.Context) (validation.Result, submission.Outcome, error) {
	result := i.Validate()
	if !result.Valid {
		return result, submission.Outcome{State: i.handler.State()}, nil
	}
	outcome, err := i.handler.Submit(ctx, result)
	return result, outcome, err
}

// State reports the submission state.
func (i *Instance) State() submission.State {
	return i.handler.State()
}

// Handler exposes the underlying submission handler.
func (i *Instance) Handler() *submission.Handler {
	return i.handler
}

// Close tears the instance down, cancelling any pending revert.
func (i *Instance) Close() error {
	return i.handler.Close()
}

func emptyInput(s schema.Schema) map[string]string {
	input := make(map[string]string, len(s.Fields))
	for _, field := range s.Fields {
		input[field.Name] = ""
	}
	return input
}
