package scaffold

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formrows/pkg/render/template"
	"github.com/goliatone/go-formrows/pkg/render/template/gotemplate"
)

const defaultTemplate = "region"

// Option configures a Generator.
type Option func(*Generator)

// WithRenderer swaps the template engine. The bundled template relies on the
// fieldid filter registered by the gotemplate engine.
func WithRenderer(renderer template.TemplateRenderer) Option {
	return func(g *Generator) {
		if renderer != nil {
			g.renderer = renderer
		}
	}
}

// WithTemplate renders a different template name. It takes precedence over
// a theme partial.
func WithTemplate(name string) Option {
	return func(g *Generator) {
		g.template = name
	}
}

// WithTemplateSource renders inline template content instead of a named
// template. It may include or extend the bundled templates.
func WithTemplateSource(src string) Option {
	return func(g *Generator) {
		g.source = src
	}
}

// Filter is a template filter: it receives the piped value and the optional
// argument.
type Filter func(input any, param any) (any, error)

// WithFilter registers a template filter when the generator is built.
// Filters live in one process-wide set, so a name that is already
// registered is kept as is.
func WithFilter(name string, fn Filter) Option {
	return func(g *Generator) {
		g.filters = append(g.filters, namedFilter{name: name, fn: fn})
	}
}

type namedFilter struct {
	name string
	fn   Filter
}

// Generator renders regions through a template renderer.
type Generator struct {
	renderer template.TemplateRenderer
	template string
	source   string
	filters  []namedFilter
	theme    *theme.RendererConfig
}

// New builds a Generator over the bundled templates unless a renderer is
// supplied.
func New(options ...Option) (*Generator, error) {
	g := &Generator{}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	if g.template == "" {
		g.template = themeTemplate(g.theme)
	}
	if g.template == "" {
		g.template = defaultTemplate
	}
	if g.renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(TemplatesFS()))
		if err != nil {
			return nil, fmt.Errorf("scaffold: template engine: %w", err)
		}
		g.renderer = engine
	}
	for _, filter := range g.filters {
		err := g.renderer.RegisterFilter(filter.name, filter.fn)
		if err != nil && !errors.Is(err, gotemplate.ErrFilterExists) {
			return nil, fmt.Errorf("scaffold: filter %q: %w", filter.name, err)
		}
	}
	return g, nil
}

// Render writes the markup of region. The result is also returned.
func (g *Generator) Render(region Region, out ...io.Writer) (string, error) {
	if g == nil || g.renderer == nil {
		return "", errors.New("scaffold: generator is nil")
	}
	normalized, err := region.Normalize()
	if err != nil {
		return "", err
	}
	data := viewData(normalized, g.theme)
	var markup string
	if g.source != "" {
		markup, err = g.renderer.RenderString(g.source, data, out...)
	} else {
		markup, err = g.renderer.RenderTemplate(g.template, data, out...)
	}
	if err != nil {
		return "", fmt.Errorf("scaffold: render region %q: %w", normalized.ID, err)
	}
	return markup, nil
}

type regionView struct {
	ID          string `json:"id"`
	Collection  string `json:"collection"`
	Sortable    bool   `json:"sortable"`
	Sequence    bool   `json:"sequence"`
	AddLabel    string `json:"add_label"`
	RemoveLabel string `json:"remove_label"`
}

// Indices are strings: the engine converts data through JSON and would
// otherwise print them as floats.
type rowView struct {
	Index  string      `json:"index"`
	Fields []fieldView `json:"fields"`
}

type fieldView struct {
	Name     string       `json:"name"`
	Label    string       `json:"label"`
	Type     string       `json:"type"`
	Value    string       `json:"value"`
	Checked  bool         `json:"checked"`
	Required bool         `json:"required"`
	Choices  []choiceView `json:"choices"`
}

type choiceView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

func viewData(region Region, cfg *theme.RendererConfig) map[string]any {
	rows := make([]rowView, region.Rows)
	for i := range rows {
		fields := make([]fieldView, len(region.Fields))
		for j, field := range region.Fields {
			view := fieldView{
				Name:     region.FieldName(i, field.Name),
				Label:    field.Label,
				Type:     field.Type,
				Value:    field.Value,
				Required: field.Required,
			}
			if field.Type == KindCheckbox {
				view.Checked, _ = strconv.ParseBool(field.Value)
			}
			for _, choice := range field.Choices {
				view.Choices = append(view.Choices, choiceView{
					Value:    choice.Value,
					Label:    choice.Label,
					Selected: choice.Value == field.Value,
				})
			}
			fields[j] = view
		}
		rows[i] = rowView{Index: strconv.Itoa(i), Fields: fields}
	}

	return map[string]any{
		"region": regionView{
			ID:          region.ID,
			Collection:  region.Collection,
			Sortable:    region.Sortable,
			Sequence:    region.Sequence,
			AddLabel:    region.AddLabel,
			RemoveLabel: region.RemoveLabel,
		},
		"rows":  rows,
		"theme": buildThemeView(cfg),
	}
}
