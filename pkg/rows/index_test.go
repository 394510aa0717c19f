package rows_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom/htmltree"
	"github.com/goliatone/go-formrows/pkg/rows"
)

type fieldAttrs struct {
	Name string
	ID   string
	For  string
}

func parseField(t *testing.T, markup string) (*htmltree.Tree, *html.Node) {
	t.Helper()
	doc, err := htmltree.ParseString(`<html><body><div id="root">` + markup + `</div></body></html>`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	root := htmltree.ElementByID(doc, "root")
	if root == nil || root.FirstChild == nil {
		t.Fatalf("no field in %q", markup)
	}
	return htmltree.New(), root.FirstChild
}

func readField(tree *htmltree.Tree, field *html.Node) fieldAttrs {
	name, _ := tree.Attr(field, "name")
	id, _ := tree.Attr(field, "id")
	target, _ := tree.Attr(field, "for")
	return fieldAttrs{Name: name, ID: id, For: target}
}

func TestRewriteIndex(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   fieldAttrs
	}{
		{
			name:   "bracket and underscore",
			markup: `<input name="Items[0].Name" id="Items_0__Name">`,
			want:   fieldAttrs{Name: "Items[1].Name", ID: "Items_1__Name"},
		},
		{
			name:   "multi digit tokens",
			markup: `<input name="Items[9].Name" id="Items_10__Name">`,
			want:   fieldAttrs{Name: "Items[10].Name", ID: "Items_11__Name"},
		},
		{
			name:   "label uses for",
			markup: `<label for="Items_3__Name" id="caption">Name</label>`,
			want:   fieldAttrs{ID: "caption", For: "Items_4__Name"},
		},
		{
			name:   "only first token changes",
			markup: `<input name="Orders[2].Lines[0].Sku" id="Orders_2__Lines_0__Sku">`,
			want:   fieldAttrs{Name: "Orders[3].Lines[0].Sku", ID: "Orders_3__Lines_0__Sku"},
		},
		{
			name:   "no tokens",
			markup: `<input name="Notes" id="notes">`,
			want:   fieldAttrs{Name: "Notes", ID: "notes"},
		},
		{
			name:   "digits in the property name are not a token",
			markup: `<input name="Phones2[0].Number" id="Phones2_0__Number">`,
			want:   fieldAttrs{Name: "Phones2[1].Number", ID: "Phones2_1__Number"},
		},
		{
			name:   "underscore form is normalised",
			markup: `<input id="Items0Name">`,
			want:   fieldAttrs{ID: "Items_1__Name"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, field := parseField(t, tc.markup)
			rows.RewriteIndex(tree, field)
			if diff := cmp.Diff(tc.want, readField(tree, field)); diff != "" {
				t.Fatalf("rewrite mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRewriteIndexIsNotIdempotent(t *testing.T) {
	tree, field := parseField(t, `<input name="Items[0].Name" id="Items_0__Name">`)
	rows.RewriteIndex(tree, field)
	rows.RewriteIndex(tree, field)

	want := fieldAttrs{Name: "Items[2].Name", ID: "Items_2__Name"}
	if diff := cmp.Diff(want, readField(tree, field)); diff != "" {
		t.Fatalf("rewrite mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyIndex(t *testing.T) {
	tree, field := parseField(t, `<input name="Items[4].Name" id="Items_1__Name">`)
	rows.ApplyIndex(tree, field, 7)

	want := fieldAttrs{Name: "Items[7].Name", ID: "Items_7__Name"}
	if diff := cmp.Diff(want, readField(tree, field)); diff != "" {
		t.Fatalf("apply mismatch (-want +got):\n%s", diff)
	}

	rows.ApplyIndex(tree, field, -1)
	if diff := cmp.Diff(want, readField(tree, field)); diff != "" {
		t.Fatalf("negative index must be ignored (-want +got):\n%s", diff)
	}
}

func TestFieldIndex(t *testing.T) {
	cases := []struct {
		name   string
		markup string
		want   int
		ok     bool
	}{
		{name: "prefers bracket", markup: `<input name="Items[3].Name" id="Items_5__Name">`, want: 3, ok: true},
		{name: "falls back to id", markup: `<input name="Notes" id="Items_5__Notes">`, want: 5, ok: true},
		{name: "label", markup: `<label for="Items_2__Name">x</label>`, want: 2, ok: true},
		{name: "strict underscore token wins", markup: `<input id="Phones2_7__Number">`, want: 7, ok: true},
		{name: "none", markup: `<input name="Notes">`, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tree, field := parseField(t, tc.markup)
			got, ok := rows.FieldIndex(tree, field)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("FieldIndex = %d, %v; want %d, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestAddRowDerivesIndexFromFieldsWithoutSequenceField(t *testing.T) {
	f := newFixture(t, `<html><body><div id="items">
  <div data-row>
    <input type="text" name="Items[3].Name" id="Items_3__Name" value="x">
    <input type="text" name="Items[3].Qty" id="Items_3__Qty" value="1">
  </div>
</div></body></html>`)
	editor, err := rows.New(f.tree, f.container, rows.WithShowHideDuration(0))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	added := editor.AddRow()
	if diff := cmp.Diff([]string{"Items[4].Name", "Items[4].Qty"}, f.attrs(added, "input", "name")); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if idx, ok := editor.RowIndex(added); !ok || idx != 4 {
		t.Fatalf("RowIndex = %d, %v; want 4", idx, ok)
	}
}
