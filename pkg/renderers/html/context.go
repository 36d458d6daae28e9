package html

import (
	"html"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/render"
	"github.com/goliatone/go-contactform/pkg/schema"
	"github.com/goliatone/go-contactform/pkg/site"
	"github.com/goliatone/go-contactform/pkg/submission"
)

type linkContext struct {
	Label    string `json:"label"`
	Href     string `json:"href"`
	External bool   `json:"external"`
	Active   bool   `json:"active"`
}

type cardContext struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Features    []string `json:"features"`
	Attrs       string   `json:"attrs"`
}

type sectionContext struct {
	Title    string        `json:"title"`
	Subtitle string        `json:"subtitle"`
	Attrs    string        `json:"attrs"`
	Cards    []cardContext `json:"cards"`
	Stats    []site.Stat   `json:"stats"`
	Actions  []linkContext `json:"actions"`
}

type heroContext struct {
	Badge     string        `json:"badge"`
	Title     string        `json:"title"`
	Highlight string        `json:"highlight"`
	Subtitle  string        `json:"subtitle"`
	Attrs     string        `json:"attrs"`
	Actions   []linkContext `json:"actions"`
	Stats     []site.Stat   `json:"stats"`
}

type optionContext struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type fieldContext struct {
	Name        string          `json:"name"`
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Placeholder string          `json:"placeholder"`
	InputType   string          `json:"inputType"`
	Required    bool            `json:"required"`
	MaxLength   int             `json:"maxLength"`
	Value       string          `json:"value"`
	Error       string          `json:"error"`
	Options     []optionContext `json:"options"`
}

type channelContext struct {
	Kind  string   `json:"kind"`
	Title string   `json:"title"`
	Lines []string `json:"lines"`
	Href  string   `json:"href"`
	Icon  string   `json:"icon"`
	Attrs string   `json:"attrs"`
}

type formContext struct {
	Action       string               `json:"action"`
	Method       string               `json:"method"`
	State        string               `json:"state"`
	Busy         bool                 `json:"busy"`
	Success      bool                 `json:"success"`
	Heading      string               `json:"heading"`
	Intro        string               `json:"intro"`
	SubmitLabel  string               `json:"submitLabel"`
	SuccessTitle string               `json:"successTitle"`
	SuccessBody  string               `json:"successBody"`
	Fields       []fieldContext       `json:"fields"`
	Hidden       []render.HiddenField `json:"hidden"`
	FormErrors   []string             `json:"formErrors"`
	Channels     []channelContext     `json:"channels"`
	Chat         map[string]string    `json:"chat"`
	Attrs        map[string]string    `json:"attrs"`
}

func buildContext(view render.View, options render.RenderOptions, themeCfg *theme.RendererConfig) map[string]any {
	cfg := view.Site
	anim := animator{animations: cfg.Animations}

	chatURL := options.ChatURL
	if chatURL == "" {
		chatURL = cfg.Contact.DeepLink.QuickLink()
	}

	nav := make([]linkContext, 0, len(cfg.Navigation))
	for _, link := range cfg.Navigation {
		item := toLink(link)
		item.Active = link.Href == view.Page.Path
		nav = append(nav, item)
	}

	data := map[string]any{
		"brand":      cfg.Brand,
		"navigation": nav,
		"theme":      buildThemeContext(themeCfg),
		"title":      pageTitle(cfg, view.Page),
		"chatURL":    chatURL,
		"page": map[string]any{
			"path":     view.Page.Path,
			"hero":     buildHero(view.Page.Hero, anim),
			"sections": buildSections(view.Page.Sections, anim),
		},
	}
	if options.Notification != nil && options.Notification.Message != "" {
		data["notification"] = map[string]string{
			"level":   string(options.Notification.Level),
			"message": options.Notification.Message,
		}
	}
	if view.Form != nil {
		data["form"] = buildForm(cfg, view.Form, options, anim)
	}
	return data
}

func pageTitle(cfg *site.Config, page site.Page) string {
	if page.Title == "" {
		return cfg.Brand.Name
	}
	return page.Title + " | " + cfg.Brand.Name
}

func toLink(link site.Link) linkContext {
	return linkContext{Label: link.Label, Href: link.Href, External: link.External}
}

func toLinks(links []site.Link) []linkContext {
	if len(links) == 0 {
		return nil
	}
	out := make([]linkContext, 0, len(links))
	for _, link := range links {
		out = append(out, toLink(link))
	}
	return out
}

func buildHero(hero site.Hero, anim animator) heroContext {
	return heroContext{
		Badge:     hero.Badge,
		Title:     hero.Title,
		Highlight: hero.Highlight,
		Subtitle:  hero.Subtitle,
		Attrs:     anim.attrs(hero.Animation, 0),
		Actions:   toLinks(hero.Actions),
		Stats:     hero.Stats,
	}
}

func buildSections(sections []site.Section, anim animator) []sectionContext {
	out := make([]sectionContext, 0, len(sections))
	for _, section := range sections {
		cards := make([]cardContext, 0, len(section.Cards))
		for i, card := range section.Cards {
			cards = append(cards, cardContext{
				Title:       card.Title,
				Description: card.Description,
				Icon:        card.Icon,
				Features:    card.Features,
				Attrs:       anim.attrs(section.Animation, i),
			})
		}
		out = append(out, sectionContext{
			Title:    section.Title,
			Subtitle: section.Subtitle,
			Attrs:    anim.attrs(section.Animation, 0),
			Cards:    cards,
			Stats:    section.Stats,
			Actions:  toLinks(section.Actions),
		})
	}
	return out
}

func buildForm(cfg *site.Config, form *render.FormView, options render.RenderOptions, anim animator) formContext {
	method := strings.ToUpper(strings.TrimSpace(options.Method))
	if method == "" {
		method = "POST"
	}

	submitLabel := cfg.Contact.SubmitLabel
	if form.State == submission.StateSubmitting {
		submitLabel = cfg.Contact.BusyLabel
	}

	ctx := formContext{
		Action:       form.Action,
		Method:       method,
		State:        form.State.String(),
		Busy:         form.State == submission.StateSubmitting,
		Success:      form.State == submission.StateSuccess,
		Heading:      cfg.Contact.Heading,
		Intro:        cfg.Contact.Intro,
		SubmitLabel:  submitLabel,
		SuccessTitle: cfg.Contact.SuccessTitle,
		SuccessBody:  cfg.Contact.SuccessBody,
		Fields:       buildFields(form.Schema, options),
		Hidden:       render.SortedHiddenFields(options.Hidden),
		FormErrors:   render.MergeFormErrors(options.FormErrors),
		Chat: map[string]string{
			"title": cfg.Contact.ChatTitle,
			"body":  cfg.Contact.ChatBody,
			"label": cfg.Contact.ChatLabel,
			"href":  cfg.Contact.DeepLink.URL(""),
			"attrs": anim.attrs("cascade", len(cfg.Channels)),
		},
		Attrs: map[string]string{
			"form":     anim.attrs("slide-left", 0),
			"channels": anim.attrs("slide-right", 0),
			"success":  anim.attrs("pop", 0),
		},
	}

	for i, channel := range cfg.Channels {
		ctx.Channels = append(ctx.Channels, channelContext{
			Kind:  string(channel.Kind),
			Title: channel.Title,
			Lines: strings.Split(channel.Content, "\n"),
			Href:  channel.Href,
			Icon:  channel.Icon,
			Attrs: anim.attrs("cascade", i),
		})
	}
	return ctx
}

func buildFields(s schema.Schema, options render.RenderOptions) []fieldContext {
	fields := make([]fieldContext, 0, len(s.Fields))
	for _, field := range s.Fields {
		value := options.Values[field.Name]
		ctx := fieldContext{
			Name:        field.Name,
			ID:          "contact-" + field.Name,
			Label:       field.Label,
			Placeholder: field.Placeholder,
			InputType:   field.Kind.InputType(),
			Required:    field.Required(),
			MaxLength:   field.MaxLength(),
			Value:       value,
		}
		if messages := options.Errors[field.Name]; len(messages) > 0 {
			ctx.Error = messages[0]
		}
		for _, option := range field.Options {
			ctx.Options = append(ctx.Options, optionContext{Value: option, Selected: option == value})
		}
		fields = append(fields, ctx)
	}
	return fields
}

type animator struct {
	animations map[string]site.Animation
}

// attrs renders the named timeline as an escaped attribute string. Unknown
// names render nothing.
func (a animator) attrs(name string, index int) string {
	if name == "" {
		return ""
	}
	anim, ok := a.animations[name]
	if !ok {
		return ""
	}
	parts := make([]string, 0, 6)
	for _, attr := range anim.Attrs(name, index) {
		parts = append(parts, attr.Name+`="`+html.EscapeString(attr.Value)+`"`)
	}
	return strings.Join(parts, " ")
}
