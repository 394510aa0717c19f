package formdata_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrows/pkg/dom/htmltree"
	"github.com/goliatone/go-formrows/pkg/formdata"
	"github.com/goliatone/go-formrows/pkg/rows"
)

func TestMapErrors(t *testing.T) {
	names := []string{"Items[0].Name", "Items[1].Name", "Items[1].Qty", "Email"}
	payload := map[string][]string{
		"Items[1].Name":        {"Name is required", " Name is required "},
		"/items/1/qty":         {"Too many"},
		"body.items.0.name":    {"Duplicate product"},
		"email.domain":         {"Unknown domain"},
		"__all__":              {"Order is closed"},
		"/items/7/name":        {"No such row"},
		"Items[0].Name.ignore": {" "},
	}

	got := formdata.MapErrors(names, payload)

	wantFields := map[string][]string{
		"Items[1].Name": {"Name is required"},
		"Items[1].Qty":  {"Too many"},
		"Items[0].Name": {"Duplicate product"},
		"Email":         {"Unknown domain"},
	}
	if diff := cmp.Diff(wantFields, got.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	form := append([]string(nil), got.Form...)
	sort.Strings(form)
	if diff := cmp.Diff([]string{"No such row", "Order is closed"}, form); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMapErrorsEmptyPayload(t *testing.T) {
	if diff := cmp.Diff(formdata.ErrorMapping{}, formdata.MapErrors([]string{"A"}, nil)); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := formdata.MergeFormErrors([]string{"a", " b "}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

const rowsForm = `<html><body><form id="order"><div id="items">
  <div data-row>
    <input type="text" name="Items[0].Name" id="Items_0__Name" value="Widget" class="form-control">
    <a data-remove-location>x</a>
  </div>
  <div data-row>
    <input type="text" name="Items[1].Name" id="Items_1__Name" value="">
    <a data-remove-location>x</a>
  </div>
  <button data-add-location>Add</button>
</div></form></body></html>`

func TestApplyErrors(t *testing.T) {
	tree, form := parseForm(t, rowsForm)
	mapping := formdata.ErrorMapping{
		Fields: map[string][]string{"Items[1].Name": {"Name is required"}},
		Form:   []string{"Order is incomplete"},
	}

	if marked := formdata.ApplyErrors(tree, form, mapping); marked != 1 {
		t.Fatalf("marked = %d, want 1", marked)
	}
	// applying twice must not duplicate messages
	formdata.ApplyErrors(tree, form, mapping)

	markup, err := htmltree.RenderString(form)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, want := range []string{
		`<input type="text" name="Items[1].Name" id="Items_1__Name" value="" class="has-error"/><span class="field-validation-error" for="Items_1__Name">Name is required</span>`,
		`<div class="validation-summary-errors" role="alert"><ul><li>Order is incomplete</li></ul></div>`,
		`class="form-control"/>`,
	} {
		if !strings.Contains(markup, want) {
			t.Fatalf("markup missing %s:\n%s", want, markup)
		}
	}
	if n := strings.Count(markup, "field-validation-error"); n != 1 {
		t.Fatalf("found %d messages, want 1", n)
	}
}

func TestCopiedRowsDropAppliedErrors(t *testing.T) {
	tree, form := parseForm(t, rowsForm)
	formdata.ApplyErrors(tree, form, formdata.ErrorMapping{
		Fields: map[string][]string{"Items[1].Name": {"Name is required"}},
	})

	editor, err := rows.New(tree, htmltree.ElementByID(form, "items"), rows.WithShowHideDuration(0))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	added := editor.AddRow()

	if got := tree.QueryAll(added, "."+formdata.ErrorClass+", ."+formdata.MessageClass); len(got) != 0 {
		t.Fatalf("copied row kept %d validation nodes", len(got))
	}
	if got := tree.QueryAll(form, "."+formdata.MessageClass); len(got) != 1 {
		t.Fatalf("source row lost its message, found %d", len(got))
	}
}
