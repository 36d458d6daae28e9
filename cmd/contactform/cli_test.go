package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
	"github.com/goliatone/go-contactform/pkg/testsupport"
)

// scriptedDriver answers every prompt from a map keyed by prompt label.
type scriptedDriver struct {
	answers map[string]string
	infos   []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	return d.answers[cfg.Message], nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg tui.SelectConfig) (int, error) {
	return slices.Index(cfg.Options, d.answers[cfg.Message]), nil
}

func (d *scriptedDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	return d.answers[cfg.Message], nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func validAnswers() *scriptedDriver {
	contact := testsupport.ValidContact()
	answers := map[string]string{}
	for _, field := range schema.Contact().Fields {
		answers[field.Label] = contact[field.Name]
	}
	return &scriptedDriver{answers: answers}
}

func run(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmdWith(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(testsupport.Context(t))
	return out.String(), err
}

func TestLink_QuickLink(t *testing.T) {
	out, err := run(t, &app{}, "link")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if want := site.Defaults().Contact.DeepLink.QuickLink() + "\n"; out != want {
		t.Fatalf("output mismatch:\nwant %q\ngot  %q", want, out)
	}
}

func TestLink_Record(t *testing.T) {
	contact := testsupport.ValidContact()
	args := []string{"link"}
	for _, name := range schema.Contact().Names() {
		args = append(args, "--"+name, "  "+contact[name]+" ")
	}

	out, err := run(t, &app{}, args...)
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	want := submission.DefaultDeepLink().URL(testsupport.ValidContactMessage) + "\n"
	if out != want {
		t.Fatalf("output mismatch:\nwant %q\ngot  %q", want, out)
	}
}

func TestLink_InvalidRecord(t *testing.T) {
	_, err := run(t, &app{}, "link", "--name", "A", "--email", "a@b.com")
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, fragment := range []string{
		"name: Name must be at least 2 characters",
		"phone: Please enter a valid phone number",
		"service: Please select a service",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Fatalf("expected %q in %q", fragment, err.Error())
		}
	}
	if strings.Contains(err.Error(), "email:") {
		t.Fatalf("valid fields must not be reported: %q", err.Error())
	}
}

func TestLink_SiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	data := "contact:\n  deepLink:\n    baseUrl: https://wa.me\n    recipient: \"919876543210\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write site file: %v", err)
	}

	out, err := run(t, &app{}, "--site", path, "link")
	if err != nil {
		t.Fatalf("link: %v", err)
	}
	if !strings.HasPrefix(out, "https://wa.me/919876543210?text=") {
		t.Fatalf("expected configured recipient, got %q", out)
	}

	if _, err := run(t, &app{}, "--site", filepath.Join(t.TempDir(), "missing.yaml"), "link"); err == nil {
		t.Fatalf("expected error for missing site file")
	}
}

func TestSchema_JSON(t *testing.T) {
	out, err := run(t, &app{}, "schema", "--format", "json")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	var got schema.Schema
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(schema.Contact(), got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestSchema_YAMLAndOpenAPI(t *testing.T) {
	out, err := run(t, &app{}, "schema", "--from-openapi")
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	for _, fragment := range []string{"id: contact", "- name: name", "kind: short_text", "message: Name must be at least 2 characters"} {
		if !strings.Contains(out, fragment) {
			t.Fatalf("expected %q in yaml output:\n%s", fragment, out)
		}
	}

	raw, err := run(t, &app{}, "schema", "--openapi")
	if err != nil {
		t.Fatalf("schema --openapi: %v", err)
	}
	if raw != string(schema.ContactOpenAPI()) {
		t.Fatalf("expected embedded openapi document")
	}

	if _, err := run(t, &app{}, "schema", "--format", "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestSchema_FromSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	if err := os.WriteFile(path, schema.ContactOpenAPI(), 0o600); err != nil {
		t.Fatalf("write description: %v", err)
	}

	out, err := run(t, &app{}, "schema", "--source", path, "--format", "json")
	if err != nil {
		t.Fatalf("schema --source: %v", err)
	}
	var got schema.Schema
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := schema.Contact()
	want.ID = schema.ContactOperationID
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}

	if _, err := run(t, &app{}, "schema", "--source", path, "--operation", "missing"); err == nil {
		t.Fatalf("expected error for unknown operation")
	}
}

func TestPrompt_DryRun(t *testing.T) {
	out, err := run(t, &app{prompts: validAnswers()}, "prompt", "--dry-run", "--format", "json")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	want := `{"email":"a@b.com","message":"I need a new website please","name":"Al","phone":"9876543210","service":"Website Development"}` + "\n"
	if out != want {
		t.Fatalf("output mismatch:\nwant %q\ngot  %q", want, out)
	}
}

func TestPrompt_PrintsDeepLink(t *testing.T) {
	driver := validAnswers()
	out, err := run(t, &app{prompts: driver}, "prompt")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	want := submission.DefaultDeepLink().URL(testsupport.ValidContactMessage) + "\n"
	if out != want {
		t.Fatalf("output mismatch:\nwant %q\ngot  %q", want, out)
	}
	if diff := cmp.Diff([]string{submission.SuccessMessage}, driver.infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}
