package site_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
)

func TestDefaults(t *testing.T) {
	cfg := site.Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
	if cfg.Brand.Name != "NEXORA DIGITAL" {
		t.Fatalf("unexpected brand %q", cfg.Brand.Name)
	}
	if diff := cmp.Diff(submission.DefaultDeepLink(), cfg.Contact.DeepLink); diff != "" {
		t.Fatalf("deep link mismatch (-want +got):\n%s", diff)
	}
	if cfg.Contact.ResetDelay != 5*time.Second {
		t.Fatalf("expected 5s reset delay, got %s", cfg.Contact.ResetDelay)
	}
	if cfg.Contact.Greeting != submission.DefaultGreeting {
		t.Fatalf("unexpected greeting %q", cfg.Contact.Greeting)
	}

	var paths []string
	for _, link := range cfg.Navigation {
		paths = append(paths, link.Href)
		if _, ok := cfg.Page(link.Href); !ok {
			t.Fatalf("navigation target %s has no page", link.Href)
		}
	}
	if diff := cmp.Diff([]string{"/", "/about", "/services", "/contact"}, paths); diff != "" {
		t.Fatalf("navigation mismatch (-want +got):\n%s", diff)
	}

	var kinds []site.ChannelKind
	for _, channel := range cfg.Channels {
		kinds = append(kinds, channel.Kind)
		if !strings.HasPrefix(channel.Icon, "<svg") {
			t.Fatalf("channel %s icon lost its svg: %q", channel.Kind, channel.Icon)
		}
	}
	wantKinds := []site.ChannelKind{site.ChannelVisit, site.ChannelEmail, site.ChannelCall, site.ChannelWhatsApp}
	if diff := cmp.Diff(wantKinds, kinds); diff != "" {
		t.Fatalf("channels mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultsAreIndependentCopies(t *testing.T) {
	a := site.Defaults()
	a.Brand.Name = "changed"
	a.Pages[0].Title = "changed"
	b := site.Defaults()
	if b.Brand.Name == "changed" || b.Pages[0].Title == "changed" {
		t.Fatalf("Defaults must return fresh copies")
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := site.Parse([]byte(`
brand:
  name: Acme
contact:
  deepLink:
    recipient: "919876543210"
  dispatchDelay: 1.5s
navigation:
  - { label: Home, href: / }
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Brand.Name != "Acme" || cfg.Brand.Tagline == "" {
		t.Fatalf("brand overlay wrong: %+v", cfg.Brand)
	}
	if cfg.Contact.DeepLink.Recipient != "919876543210" || cfg.Contact.DeepLink.BaseURL != "https://wa.me" {
		t.Fatalf("deep link overlay wrong: %+v", cfg.Contact.DeepLink)
	}
	if cfg.Contact.DispatchDelay != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s dispatch delay, got %s", cfg.Contact.DispatchDelay)
	}
	if len(cfg.Navigation) != 1 {
		t.Fatalf("lists should replace defaults, got %d entries", len(cfg.Navigation))
	}
	if len(cfg.Pages) != 4 {
		t.Fatalf("absent lists should keep defaults, got %d pages", len(cfg.Pages))
	}
}

func TestParseRejectsInvalidConfig(t *testing.T) {
	cases := map[string]string{
		"no recipient":      "contact:\n  deepLink:\n    recipient: \"\"\n",
		"relative path":     "pages:\n  - path: about\n    title: About\n",
		"duplicate path":    "pages:\n  - { path: /a, title: A }\n  - { path: /a, title: B }\n",
		"unknown channel":   "channels:\n  - { kind: fax, title: Fax }\n",
		"unknown animation": "pages:\n  - path: /\n    hero: { title: Hi, animation: spin }\n",
		"bad trigger":       "animations:\n  spin: { trigger: hover, duration: 1 }\n",
		"zero duration":     "animations:\n  spin: { trigger: view, duration: 0 }\n",
		"malformed yaml":    "brand: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := site.Parse([]byte(doc)); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestSanitizeIcon(t *testing.T) {
	raw := `<svg viewBox="0 0 24 24" onload="alert(1)"><script>alert(1)</script><path d="M0 0L1 1" onclick="x()"/></svg>`
	got := site.SanitizeIcon(raw)
	if strings.Contains(got, "script") || strings.Contains(got, "onload") || strings.Contains(got, "onclick") {
		t.Fatalf("icon not sanitised: %s", got)
	}
	if !strings.Contains(got, `d="M0 0L1 1"`) || !strings.Contains(strings.ToLower(got), `viewbox="0 0 24 24"`) {
		t.Fatalf("icon lost drawing markup: %s", got)
	}
	if site.SanitizeIcon("   ") != "" {
		t.Fatalf("blank icon should stay blank")
	}
}

func TestSanitizeCopy(t *testing.T) {
	got := site.SanitizeCopy(`Grow <strong>fast</strong><img src=x onerror=alert(1)>`)
	if got != "Grow <strong>fast</strong>" {
		t.Fatalf("unexpected copy %q", got)
	}
}

func TestAnimationAttrs(t *testing.T) {
	cfg := site.Defaults()
	anim, ok := cfg.Animation("cascade")
	if !ok {
		t.Fatalf("cascade animation missing")
	}
	want := []site.Attr{
		{Name: "data-animate", Value: "cascade"},
		{Name: "data-animate-trigger", Value: "view"},
		{Name: "data-animate-duration", Value: "0.4s"},
		{Name: "data-animate-delay", Value: "0.2s"},
		{Name: "data-animate-from", Value: "opacity:0;y:20px;"},
		{Name: "data-animate-to", Value: "opacity:1;y:0;"},
	}
	if diff := cmp.Diff(want, anim.Attrs("cascade", 2)); diff != "" {
		t.Fatalf("attrs mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := site.Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte("brand:\n  name: First\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *site.Config, 8)
	done := make(chan error, 1)
	go func() {
		done <- site.Watch(ctx, path, func(cfg *site.Config) {
			reloaded <- cfg
		}, site.WithDebounce(10*time.Millisecond))
	}()

	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case cfg := <-reloaded:
			if cfg.Brand.Name != "Second" {
				t.Fatalf("unexpected reloaded brand %q", cfg.Brand.Name)
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("brand:\n  name: Second\n"), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		case <-deadline:
			t.Fatalf("config was not reloaded")
		}
	}
}
