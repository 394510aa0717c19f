package scaffold

import (
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	// PartialRegion is the theme partial that replaces the region template.
	PartialRegion = "rows.region"
	// AssetStylesheet is the theme asset linked ahead of the region.
	AssetStylesheet = "rows.stylesheet"
)

// WithTheme applies a resolved theme. Its rows.region partial replaces the
// default template, its CSS variables are scoped to the region container and
// its rows.stylesheet asset is linked ahead of it.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(g *Generator) {
		g.theme = cfg
	}
}

type themeView struct {
	Name       string `json:"name"`
	Variant    string `json:"variant"`
	Style      string `json:"style"`
	Stylesheet string `json:"stylesheet"`
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	view := themeView{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Style:   cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		view.Stylesheet = cfg.AssetURL(AssetStylesheet)
	}
	return view
}

func themeTemplate(cfg *theme.RendererConfig) string {
	if cfg == nil {
		return ""
	}
	return strings.TrimSpace(cfg.Partials[PartialRegion])
}

// cssVarsStyle renders vars as an inline declaration list in key order.
func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}
