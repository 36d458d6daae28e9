package site

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Trigger selects when a timeline starts.
type Trigger string

const (
	TriggerMount Trigger = "mount"
	TriggerView  Trigger = "view"
)

// Animation is a declarative entrance timeline. It is carried to the page as
// data attributes; nothing here runs it.
type Animation struct {
	Trigger  Trigger           `yaml:"trigger" json:"trigger"`
	Duration float64           `yaml:"duration" json:"duration"`
	Delay    float64           `yaml:"delay" json:"delay,omitempty"`
	Stagger  float64           `yaml:"stagger" json:"stagger,omitempty"`
	Easing   string            `yaml:"easing" json:"easing,omitempty"`
	From     map[string]string `yaml:"from" json:"from,omitempty"`
	To       map[string]string `yaml:"to" json:"to,omitempty"`
}

func (a Animation) validate() error {
	switch a.Trigger {
	case TriggerMount, TriggerView:
	default:
		return fmt.Errorf("unknown trigger %q", a.Trigger)
	}
	if a.Duration <= 0 {
		return fmt.Errorf("duration must be positive")
	}
	if a.Delay < 0 || a.Stagger < 0 {
		return fmt.Errorf("delay and stagger must not be negative")
	}
	return nil
}

// Attr is a single rendered HTML attribute.
type Attr struct {
	Name  string
	Value string
}

// Attrs renders the timeline as data-animate-* attributes for the element at
// position index of a staggered group. Property maps are written as sorted
// "key:value;" lists.
func (a Animation) Attrs(name string, index int) []Attr {
	delay := a.Delay + float64(index)*a.Stagger
	attrs := []Attr{
		{Name: "data-animate", Value: name},
		{Name: "data-animate-trigger", Value: string(a.Trigger)},
		{Name: "data-animate-duration", Value: formatSeconds(a.Duration)},
	}
	if delay > 0 {
		attrs = append(attrs, Attr{Name: "data-animate-delay", Value: formatSeconds(delay)})
	}
	if a.Easing != "" {
		attrs = append(attrs, Attr{Name: "data-animate-easing", Value: a.Easing})
	}
	if len(a.From) > 0 {
		attrs = append(attrs, Attr{Name: "data-animate-from", Value: properties(a.From)})
	}
	if len(a.To) > 0 {
		attrs = append(attrs, Attr{Name: "data-animate-to", Value: properties(a.To)})
	}
	return attrs
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "s"
}

func properties(props map[string]string) string {
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteString(props[key])
		b.WriteByte(';')
	}
	return b.String()
}
