package form_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-contactform/pkg/form"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/submission"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type manualTimer struct{ fn func() }

func (t *manualTimer) Stop() bool { return true }

type manualClock struct{ timers []*manualTimer }

func (c *manualClock) AfterFunc(_ time.Duration, fn func()) submission.Timer {
	timer := &manualTimer{fn: fn}
	c.timers = append(c.timers, timer)
	return timer
}

func fill(inst *form.Instance) {
	inst.SetAll(map[string]string{
		"name":    "  Al ",
		"email":   "a@b.com",
		"phone":   "9876543210",
		"service": "Website Development",
		"message": "I need a new website please",
	})
}

func TestInstance_StartsEmpty(t *testing.T) {
	inst := form.New(schema.Contact())
	defer inst.Close()

	want := map[string]string{"name": "", "email": "", "phone": "", "service": "", "message": ""}
	if diff := cmp.Diff(want, inst.Values()); diff != "" {
		t.Fatalf("initial input mismatch (-want +got):\n%s", diff)
	}
	if inst.State() != submission.StateIdle {
		t.Fatalf("expected idle, got %s", inst.State())
	}
}

func TestInstance_InvalidSubmitKeepsInput(t *testing.T) {
	var opened []string
	inst := form.New(schema.Contact(), submission.WithOpener(submission.OpenerFunc(func(_ context.Context, url string) error {
		opened = append(opened, url)
		return nil
	})))
	defer inst.Close()

	inst.Set("name", "A")
	result, outcome, err := inst.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Valid {
		t.Fatalf("expected invalid result")
	}
	if outcome.State != submission.StateIdle {
		t.Fatalf("expected idle, got %s", outcome.State)
	}
	if len(opened) != 0 {
		t.Fatalf("invalid input must not dispatch")
	}
	if got := inst.Values()["name"]; got != "A" {
		t.Fatalf("input should be kept, got %q", got)
	}
	if diff := cmp.Diff(result, inst.LastResult()); diff != "" {
		t.Fatalf("last result mismatch (-want +got):\n%s", diff)
	}
}

func TestInstance_SuccessClearsInput(t *testing.T) {
	clock := &manualClock{}
	var opened []string
	inst := form.New(schema.Contact(),
		submission.WithScheduler(clock),
		submission.WithOpener(submission.OpenerFunc(func(_ context.Context, url string) error {
			opened = append(opened, url)
			return nil
		})),
	)
	defer inst.Close()

	fill(inst)
	inst.Set("extra", "ignored")

	result, outcome, err := inst.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !result.Valid || result.Record["name"] != "Al" {
		t.Fatalf("expected trimmed valid record, got %+v", result)
	}
	if outcome.State != submission.StateSuccess || len(opened) != 1 {
		t.Fatalf("expected one dispatch and success, got %+v (%d)", outcome, len(opened))
	}

	want := map[string]string{"name": "", "email": "", "phone": "", "service": "", "message": ""}
	if diff := cmp.Diff(want, inst.Values()); diff != "" {
		t.Fatalf("input not cleared (-want +got):\n%s", diff)
	}

	clock.timers[0].fn()
	if inst.State() != submission.StateIdle {
		t.Fatalf("expected idle after revert, got %s", inst.State())
	}
}

func TestInstance_DispatchFailureKeepsInput(t *testing.T) {
	inst := form.New(schema.Contact(), submission.WithOpener(submission.OpenerFunc(func(context.Context, string) error {
		return errors.New("blocked")
	})))
	defer inst.Close()

	fill(inst)
	_, _, err := inst.Submit(context.Background())
	var dispatchErr *submission.DispatchError
	if !errors.As(err, &dispatchErr) {
		t.Fatalf("expected DispatchError, got %v", err)
	}
	if got := inst.Values()["email"]; got != "a@b.com" {
		t.Fatalf("input should survive a failed dispatch, got %q", got)
	}
}

func TestInstance_IndependentInstances(t *testing.T) {
	a := form.New(schema.Contact())
	b := form.New(schema.Contact())
	defer a.Close()
	defer b.Close()

	a.Set("name", "Alice")
	if got := b.Values()["name"]; got != "" {
		t.Fatalf("instances must not share input, got %q", got)
	}
}
