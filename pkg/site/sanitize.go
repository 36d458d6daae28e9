package site

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy

	copyPolicyOnce sync.Once
	copyPolicy     *bluemonday.Policy
)

// SanitizeIcon strips everything but inline SVG drawing markup.
func SanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

// SanitizeCopy keeps inline emphasis and line breaks in page copy.
func SanitizeCopy(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(copySanitizer().Sanitize(trimmed))
}

func sanitize(cfg *Config) {
	for i := range cfg.Channels {
		cfg.Channels[i].Icon = SanitizeIcon(cfg.Channels[i].Icon)
	}
	for p := range cfg.Pages {
		page := &cfg.Pages[p]
		page.Hero.Subtitle = SanitizeCopy(page.Hero.Subtitle)
		for s := range page.Sections {
			section := &page.Sections[s]
			section.Subtitle = SanitizeCopy(section.Subtitle)
			for c := range section.Cards {
				card := &section.Cards[c]
				card.Icon = SanitizeIcon(card.Icon)
				card.Description = SanitizeCopy(card.Description)
			}
		}
	}
	cfg.Contact.Intro = SanitizeCopy(cfg.Contact.Intro)
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("svg", "g", "path", "circle", "rect", "line", "polyline", "polygon", "ellipse", "title")
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin", "aria-hidden", "class",
		).OnElements("svg")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
			).OnElements(el)
		}
		iconPolicy = policy
	})
	return iconPolicy
}

func copySanitizer() *bluemonday.Policy {
	copyPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("strong", "em", "b", "i", "br")
		policy.AllowAttrs("class").OnElements("span")
		copyPolicy = policy
	})
	return copyPolicy
}
