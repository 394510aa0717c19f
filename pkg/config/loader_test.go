package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrows/pkg/confirm"
	"github.com/goliatone/go-formrows/pkg/config"
	"github.com/goliatone/go-formrows/pkg/dom/htmltree"
	"github.com/goliatone/go-formrows/pkg/rows"
)

func TestLoadFS(t *testing.T) {
	store, err := config.LoadFS(os.DirFS(filepath.Join("testdata", "editors")))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]string{"addresses", "contacts", "items"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	items, ok := store.Editor("items")
	if !ok {
		t.Fatalf("items editor missing")
	}
	if items.Sortable == nil || !*items.Sortable {
		t.Fatalf("sortable not parsed: %#v", items.Sortable)
	}
	if d, ok := items.Duration(); !ok || d != 150*time.Millisecond {
		t.Fatalf("duration = %v, %v", d, ok)
	}
	if items.ConfirmMessage != "Drop this line item?" {
		t.Fatalf("confirm message = %q", items.ConfirmMessage)
	}
	if items.Markers.Row != ".line-item" || items.Markers.CleanExclude != "[data-keep]" {
		t.Fatalf("markers not parsed: %#v", items.Markers)
	}
	if items.Source != "orders.yaml" || items.Container != "items" {
		t.Fatalf("provenance mismatch: %q %q", items.Source, items.Container)
	}

	contacts, _ := store.Editor("contacts")
	if d, ok := contacts.Duration(); !ok || d != 0 {
		t.Fatalf("bare integer duration should parse as milliseconds, got %v, %v", d, ok)
	}

	addresses, _ := store.Editor("addresses")
	if addresses.SkipIndexRewrite == nil || !*addresses.SkipIndexRewrite {
		t.Fatalf("json file not parsed: %#v", addresses)
	}
}

func TestLoadFSRejectsDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": {Data: []byte("editors:\n  items:\n    sortable: true\n")},
		"b.yml":  {Data: []byte("editors:\n  items:\n    sortable: false\n")},
	}
	_, err := config.LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), `duplicate container "items"`) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"empty":    "   ",
		"invalid":  "editors: [unclosed",
		"duration": "editors:\n  items:\n    show_hide_duration: soon\n",
		"negative": "editors:\n  items:\n    show_hide_duration: -5ms\n",
		"blank id": "editors:\n  \" \":\n    sortable: true\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := config.Parse([]byte(input), name); err == nil {
				t.Fatalf("expected an error for %q", input)
			}
		})
	}
}

func TestLoadFSIgnoresOtherFiles(t *testing.T) {
	store, err := config.LoadFS(fstest.MapFS{"README.md": {Data: []byte("# notes")}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !store.Empty() {
		t.Fatalf("expected an empty store")
	}
	var nilStore *config.Store
	if !nilStore.Empty() {
		t.Fatalf("nil store should report empty")
	}
}

func TestOptionsConfigureEditor(t *testing.T) {
	store, err := config.Parse([]byte(`
editors:
  items:
    allow_last_row_delete: true
    show_hide_duration: 0s
    confirm_before_delete: true
    confirm_message: Remove it?
`), "inline.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, _ := store.Editor("items")

	doc, err := htmltree.ParseString(`<html><body><div id="items">
  <div data-row><input type="text" name="Items[0].Name" id="Items_0__Name" value="kept"><a data-remove-location>x</a></div>
</div></body></html>`)
	if err != nil {
		t.Fatalf("parse markup: %v", err)
	}
	var asked []string
	tree := htmltree.New()
	opts := append(cfg.Options(), rows.WithConfirmer(confirm.Func(func(_ context.Context, message string) (bool, error) {
		asked = append(asked, message)
		return true, nil
	})))
	editor, err := rows.New(tree, htmltree.ElementByID(doc, "items"), opts...)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	got := editor.Settings()
	if !got.AllowLastRowDelete || !got.ConfirmBeforeDelete || got.ShowHideDuration != 0 || got.ConfirmMessage != "Remove it?" {
		t.Fatalf("settings not applied: %+v", got)
	}
	if !got.CloneRow || !got.CleanNewRow {
		t.Fatalf("unset switches should keep defaults: %+v", got)
	}

	if err := editor.RemoveRow(context.Background(), editor.Rows()[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if diff := cmp.Diff([]string{"Remove it?"}, asked); diff != "" {
		t.Fatalf("confirm messages mismatch (-want +got):\n%s", diff)
	}
}
