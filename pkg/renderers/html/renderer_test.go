package html_test

import (
	"context"
	"io"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/renderers/html"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
)

func newRenderer(t *testing.T) *html.Renderer {
	t.Helper()
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func contactView(t *testing.T, state submission.State) render.View {
	t.Helper()
	cfg := site.Defaults()
	page, ok := cfg.Page("/contact")
	if !ok {
		t.Fatalf("contact page missing from defaults")
	}
	return render.View{
		Site: cfg,
		Page: page,
		Form: &render.FormView{Action: "/contact", Schema: schema.Contact(), State: state},
	}
}

func renderString(t *testing.T, view render.View, options render.RenderOptions) string {
	t.Helper()
	out, err := newRenderer(t).Render(context.Background(), view, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func assertNotContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(output, fragment) {
			t.Fatalf("expected output not to contain %q", fragment)
		}
	}
}

func TestRenderer_ContactFormWithErrors(t *testing.T) {
	output := renderString(t, contactView(t, submission.StateIdle), render.RenderOptions{
		Values: map[string]string{"name": "A", "service": "Website Development"},
		Errors: map[string][]string{
			"name":  {"Name must be at least 2 characters"},
			"email": {"Please enter a valid email"},
		},
		Hidden: map[string]string{"session": "abc"},
	})

	assertContains(t, output,
		`<form method="POST" action="/contact" novalidate>`,
		`<input type="hidden" name="session" value="abc">`,
		`name="name" value="A"`,
		`maxlength="100"`,
		`<p class="field-error" id="contact-name-error">Name must be at least 2 characters</p>`,
		`<p class="field-error" id="contact-email-error">Please enter a valid email</p>`,
		`<option value="Website Development" selected>`,
		`<option value="SEO &amp; Google Listing">`,
		`<textarea id="contact-message"`,
		`type="tel"`,
		`<button type="submit">Send Message</button>`,
		`data-form-state="idle"`,
	)
	assertNotContains(t, output, `contact-phone-error`, `Thank You!`)
}

func TestRenderer_SubmittingDisablesButton(t *testing.T) {
	output := renderString(t, contactView(t, submission.StateSubmitting), render.RenderOptions{})
	assertContains(t, output, `<button type="submit" disabled aria-busy="true">Sending...</button>`)
}

func TestRenderer_SuccessReplacesForm(t *testing.T) {
	output := renderString(t, contactView(t, submission.StateSuccess), render.RenderOptions{
		Notification: &submission.Notification{Level: submission.LevelSuccess, Message: submission.SuccessMessage},
	})
	assertContains(t, output,
		`<h3>Thank You!</h3>`,
		`data-form-state="success"`,
		`<div class="toast toast-success" role="status">Message sent! We will contact you soon.</div>`,
	)
	assertNotContains(t, output, `<form `)
}

func TestRenderer_ContactChannelsAndChat(t *testing.T) {
	view := contactView(t, submission.StateIdle)
	output := renderString(t, view, render.RenderOptions{})

	assertContains(t, output,
		`NEXORA DIGITAL PVT LTD<br>Tamil Nadu, India`,
		`href="mailto:contact@nexoradigital.com"`,
		`class="channel channel-whatsapp"`,
		`<svg`,
		`href="`+view.Site.Contact.DeepLink.QuickLink()+`"`,
		`data-animate="slide-left"`,
		`data-animate="cascade"`,
	)
}

func TestRenderer_HomePage(t *testing.T) {
	cfg := site.Defaults()
	page, _ := cfg.Page("/")
	output := renderString(t, render.View{Site: cfg, Page: page}, render.RenderOptions{})

	assertContains(t, output,
		`<a href="/" class="active" aria-current="page">Home</a>`,
		`<a href="/about">About</a>`,
		`data-animate="fade-up"`,
		`data-animate-trigger="mount"`,
		`<dt>100+</dt><dd>Projects Completed</dd>`,
		`<h3>Automation &amp; Chatbots</h3>`,
		`--primary:#00d4ff;`,
	)
	assertNotContains(t, output, `<form`, `toast`)
}

func TestRenderer_ThemeOverride(t *testing.T) {
	cfg := site.Defaults()
	page, _ := cfg.Page("/about")
	output := renderString(t, render.View{Site: cfg, Page: page}, render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:    "light",
			Variant:  "compact",
			CSSVars:  map[string]string{"--primary": "#111111"},
			AssetURL: func(name string) string { return "/assets/" + name },
		},
	})
	assertContains(t, output,
		`data-theme="light" data-theme-variant="compact"`,
		`:root{--primary:#111111;}`,
		`<img src="/assets/logo.svg" alt="">`,
	)
}

func TestRenderer_RequiresSite(t *testing.T) {
	if _, err := newRenderer(t).Render(context.Background(), render.View{}, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error without site config")
	}
}

type stubTemplateRenderer struct {
	name string
	data any
}

func (s *stubTemplateRenderer) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	s.name, s.data = name, data
	return "custom-output", nil
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{}
	renderer, err := html.New(html.WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), contactView(t, submission.StateIdle), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "custom-output" {
		t.Fatalf("unexpected output %q", out)
	}
	if stub.name != "templates/page.tmpl" {
		t.Fatalf("unexpected template %q", stub.name)
	}
	data, ok := stub.data.(map[string]any)
	if !ok || data["form"] == nil {
		t.Fatalf("expected form context, got %#v", stub.data)
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "html" || renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected metadata %s %s", renderer.Name(), renderer.ContentType())
	}
}
