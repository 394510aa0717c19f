package template_test

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formrows/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formrows/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func TestGoTemplateEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "hello.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}
}

func TestGoTemplateEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "use-filter.golden"))
	if result != want {
		t.Fatalf("render template mismatch result\nwant: %q\n got: %q", want, result)
	}
	if written != want {
		t.Fatalf("render template mismatch writer\nwant: %q\n got: %q", want, written)
	}

	again := engine.RegisterFilter("shout", func(input any, _ any) (any, error) { return input, nil })
	if !errors.Is(again, gotemplate.ErrFilterExists) {
		t.Fatalf("expected ErrFilterExists, got %v", again)
	}
}

func TestGoTemplateEngine_FilterErrorAbortsRender(t *testing.T) {
	engine := newEngine(t)
	if err := engine.RegisterFilter("refuse", func(any, any) (any, error) {
		return nil, errors.New("refused")
	}); err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if _, err := engine.RenderString("{{ name|refuse }}", map[string]any{"name": "Ada"}); err == nil {
		t.Fatalf("expected the filter error to surface")
	}
}

func TestGoTemplateEngine_FieldIDFilter(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("field", map[string]any{"name": "Items[3].Name"}, w)
	})

	want := testsupport.MustReadGoldenString(t, filepath.Join("testdata", "field.golden"))
	if result != want || written != want {
		t.Fatalf("render template mismatch\nwant: %q\n got: %q (writer %q)", want, result, written)
	}
}

func TestGoTemplateEngine_RenderString(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString("{{ rows|length }} rows", map[string]any{"rows": []any{1, 2}})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "2 rows" {
		t.Fatalf("render string mismatch: %q", got)
	}

	included, err := engine.RenderString(`[{% include "field.tpl" %}]`, map[string]any{"name": "Items[0].Name"})
	if err != nil {
		t.Fatalf("render string with include: %v", err)
	}
	if included != `[<input name="Items[0].Name" id="Items_0__Name">]` {
		t.Fatalf("include mismatch: %q", included)
	}

	if _, err := engine.RenderString("{% if %}", nil); err == nil {
		t.Fatalf("expected a parse error")
	}
}

func TestFieldID(t *testing.T) {
	cases := map[string]string{
		"Items[0].Name":           "Items_0__Name",
		"Orders[2].Lines[10].Sku": "Orders_2__Lines_10__Sku",
		" Notes ":                 "Notes",
	}
	for in, want := range cases {
		if got := gotemplate.FieldID(in); got != want {
			t.Fatalf("FieldID(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected an error without a template fs")
	}
}

func newEngine(t *testing.T) *gotemplate.Engine {
	t.Helper()

	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}

	engine, err := gotemplate.New(gotemplate.WithFS(templatesFS))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
