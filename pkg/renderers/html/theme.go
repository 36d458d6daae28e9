package html

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-contactform/pkg/render"
)

func (r *Renderer) themeConfig(view render.View, options render.RenderOptions) *theme.RendererConfig {
	if options.Theme != nil {
		return options.Theme
	}
	cfg := view.Site.Theme
	vars := make(map[string]string, len(cfg.Tokens))
	for key, value := range cfg.Tokens {
		vars["--"+strings.TrimPrefix(key, "--")] = value
	}
	return &theme.RendererConfig{
		Theme:    cfg.Name,
		Variant:  cfg.Variant,
		Tokens:   cfg.Tokens,
		CSSVars:  vars,
		AssetURL: r.assetURL,
	}
}

type themeContext struct {
	Name    string `json:"name"`
	Variant string `json:"variant"`
	Style   string `json:"style"`
	Logo    string `json:"logo"`
}

func buildThemeContext(cfg *theme.RendererConfig) themeContext {
	if cfg == nil {
		return themeContext{}
	}
	ctx := themeContext{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		ctx.Logo = cfg.AssetURL("logo.svg")
	}
	return ctx
}

// cssVarsStyle renders vars as a sorted ":root{...}" block.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range keys {
		value := strings.NewReplacer("<", "", ">", "", "{", "", "}", "").Replace(vars[key])
		b.WriteString(key)
		b.WriteByte(':')
		b.WriteString(value)
		b.WriteByte(';')
	}
	b.WriteByte('}')
	return b.String()
}
