package site

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/submission"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full site description.
type Config struct {
	Brand      Brand                `yaml:"brand" json:"brand"`
	Navigation []Link               `yaml:"navigation" json:"navigation"`
	Contact    Contact              `yaml:"contact" json:"contact"`
	Theme      Theme                `yaml:"theme" json:"theme"`
	Pages      []Page               `yaml:"pages" json:"pages"`
	Channels   []Channel            `yaml:"channels" json:"channels"`
	Animations map[string]Animation `yaml:"animations" json:"animations,omitempty"`
}

type Brand struct {
	Name    string `yaml:"name" json:"name"`
	Tagline string `yaml:"tagline" json:"tagline,omitempty"`
}

type Link struct {
	Label    string `yaml:"label" json:"label"`
	Href     string `yaml:"href" json:"href"`
	External bool   `yaml:"external,omitempty" json:"external,omitempty"`
}

// Contact configures the intake form and its hand-off.
type Contact struct {
	DeepLink      submission.DeepLink `yaml:"deepLink" json:"deepLink"`
	Greeting      string              `yaml:"greeting" json:"greeting"`
	DispatchDelay time.Duration       `yaml:"dispatchDelay" json:"dispatchDelay"`
	ResetDelay    time.Duration       `yaml:"resetDelay" json:"resetDelay"`
	Heading       string              `yaml:"heading" json:"heading"`
	Intro         string              `yaml:"intro" json:"intro"`
	SubmitLabel   string              `yaml:"submitLabel" json:"submitLabel"`
	BusyLabel     string              `yaml:"busyLabel" json:"busyLabel"`
	SuccessTitle  string              `yaml:"successTitle" json:"successTitle"`
	SuccessBody   string              `yaml:"successBody" json:"successBody"`
	ChatTitle     string              `yaml:"chatTitle" json:"chatTitle"`
	ChatBody      string              `yaml:"chatBody" json:"chatBody"`
	ChatLabel     string              `yaml:"chatLabel" json:"chatLabel"`
}

// Theme feeds the renderer theme config.
type Theme struct {
	Name    string            `yaml:"name" json:"name"`
	Variant string            `yaml:"variant" json:"variant,omitempty"`
	Tokens  map[string]string `yaml:"tokens" json:"tokens,omitempty"`
}

type Page struct {
	Path     string    `yaml:"path" json:"path"`
	Title    string    `yaml:"title" json:"title"`
	Hero     Hero      `yaml:"hero" json:"hero"`
	Sections []Section `yaml:"sections" json:"sections,omitempty"`
}

type Hero struct {
	Badge     string `yaml:"badge" json:"badge,omitempty"`
	Title     string `yaml:"title" json:"title"`
	Highlight string `yaml:"highlight" json:"highlight,omitempty"`
	Subtitle  string `yaml:"subtitle" json:"subtitle,omitempty"`
	Actions   []Link `yaml:"actions" json:"actions,omitempty"`
	Stats     []Stat `yaml:"stats" json:"stats,omitempty"`
	Animation string `yaml:"animation" json:"animation,omitempty"`
}

type Section struct {
	Title     string `yaml:"title" json:"title"`
	Subtitle  string `yaml:"subtitle" json:"subtitle,omitempty"`
	Cards     []Card `yaml:"cards" json:"cards,omitempty"`
	Stats     []Stat `yaml:"stats" json:"stats,omitempty"`
	Actions   []Link `yaml:"actions" json:"actions,omitempty"`
	Animation string `yaml:"animation" json:"animation,omitempty"`
}

type Card struct {
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description,omitempty"`
	Icon        string   `yaml:"icon" json:"icon,omitempty"`
	Features    []string `yaml:"features" json:"features,omitempty"`
}

type Stat struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

// Channel is one of the contact methods listed beside the form.
type Channel struct {
	Kind    ChannelKind `yaml:"kind" json:"kind"`
	Title   string      `yaml:"title" json:"title"`
	Content string      `yaml:"content" json:"content"`
	Href    string      `yaml:"href" json:"href,omitempty"`
	Icon    string      `yaml:"icon" json:"icon,omitempty"`
}

type ChannelKind string

const (
	ChannelVisit    ChannelKind = "visit"
	ChannelEmail    ChannelKind = "email"
	ChannelCall     ChannelKind = "call"
	ChannelWhatsApp ChannelKind = "whatsapp"
)

// Defaults returns a fresh copy of the embedded configuration.
func Defaults() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("site: embedded defaults: %v", err))
	}
	sanitize(cfg)
	return cfg
}

// Load reads path and overlays it on the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site: read %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("site: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse overlays YAML data on the defaults. Lists present in data replace
// the default lists; animation entries are merged by name. The result is
// validated and its markup sanitised.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("site: embedded defaults: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("site: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sanitize(cfg)
	return cfg, nil
}

// Validate checks references and required values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Brand.Name) == "" {
		return fmt.Errorf("site: brand name is required")
	}
	if strings.TrimSpace(c.Contact.DeepLink.Recipient) == "" {
		return fmt.Errorf("site: contact deep link recipient is required")
	}
	if c.Contact.DispatchDelay < 0 || c.Contact.ResetDelay < 0 {
		return fmt.Errorf("site: contact delays must not be negative")
	}

	seen := make(map[string]struct{}, len(c.Pages))
	for i, page := range c.Pages {
		if !strings.HasPrefix(page.Path, "/") {
			return fmt.Errorf("site: page %d path %q must start with /", i, page.Path)
		}
		if _, dup := seen[page.Path]; dup {
			return fmt.Errorf("site: duplicate page path %q", page.Path)
		}
		seen[page.Path] = struct{}{}
		if err := c.checkAnimation(page.Hero.Animation); err != nil {
			return fmt.Errorf("site: page %s hero: %w", page.Path, err)
		}
		for _, section := range page.Sections {
			if err := c.checkAnimation(section.Animation); err != nil {
				return fmt.Errorf("site: page %s section %q: %w", page.Path, section.Title, err)
			}
		}
	}

	for i, channel := range c.Channels {
		switch channel.Kind {
		case ChannelVisit, ChannelEmail, ChannelCall, ChannelWhatsApp:
		default:
			return fmt.Errorf("site: channel %d has unknown kind %q", i, channel.Kind)
		}
	}

	for name, anim := range c.Animations {
		if err := anim.validate(); err != nil {
			return fmt.Errorf("site: animation %q: %w", name, err)
		}
	}
	return nil
}

func (c *Config) checkAnimation(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := c.Animations[name]; !ok {
		return fmt.Errorf("unknown animation %q", name)
	}
	return nil
}

// Page returns the page mounted at path.
func (c *Config) Page(path string) (Page, bool) {
	for _, page := range c.Pages {
		if page.Path == path {
			return page, true
		}
	}
	return Page{}, false
}

// Animation returns the named timeline.
func (c *Config) Animation(name string) (Animation, bool) {
	anim, ok := c.Animations[name]
	return anim, ok
}
