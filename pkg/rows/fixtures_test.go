package rows_test

import (
	"context"
	"testing"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/dom/htmltree"
)

const singleRowMarkup = `<html><body>
<form id="order">
  <div id="items">
    <div data-row>
      <input type="text" name="Items[0].Name" id="Items_0__Name">
      <a href="#" data-remove-location>Remove</a>
    </div>
    <button type="button" data-add-location>Add</button>
  </div>
</form>
</body></html>`

const lineItemsMarkup = `<html><body>
<form id="order">
  <div id="items">
    <table>
      <tbody data-sortable>
        <tr data-row>
          <td><span data-drag-icon>::</span></td>
          <td>
            <input type="hidden" name="Items.Index" value="0">
            <label for="Items_0__Name">Name</label>
            <input type="text" name="Items[0].Name" id="Items_0__Name" value="Widget" class="form-control has-error">
            <span for="Items_0__Name" class="field-validation-error">Required</span>
            <input type="checkbox" name="Items[0].Gift" id="Items_0__Gift" checked>
            <select name="Items[0].Size" id="Items_0__Size"><option value="s">S</option><option value="m" selected>M</option></select>
          </td>
          <td><a href="#" data-remove-location>Remove</a></td>
        </tr>
        <tr data-row>
          <td><span data-drag-icon>::</span></td>
          <td>
            <input type="hidden" name="Items.Index" value="1">
            <label for="Items_1__Name">Name</label>
            <input type="text" name="Items[1].Name" id="Items_1__Name" value="Gadget" class="form-control has-error">
            <span for="Items_1__Name" class="field-validation-error">Required</span>
            <input type="checkbox" name="Items[1].Gift" id="Items_1__Gift" checked>
            <select name="Items[1].Size" id="Items_1__Size"><option value="s">S</option><option value="m" selected>M</option></select>
          </td>
          <td><a href="#" data-remove-location>Remove</a></td>
        </tr>
      </tbody>
    </table>
    <button type="button" data-add-location>Add</button>
  </div>
</form>
</body></html>`

type fixture struct {
	tree      *htmltree.Tree
	doc       *html.Node
	container *html.Node
}

func newFixture(t *testing.T, markup string, options ...htmltree.Option) fixture {
	t.Helper()
	doc, err := htmltree.ParseString(markup)
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	container := htmltree.ElementByID(doc, "items")
	if container == nil {
		t.Fatalf("fixture has no #items container")
	}
	return fixture{tree: htmltree.New(options...), doc: doc, container: container}
}

func (f fixture) attrs(root *html.Node, selector, name string) []string {
	var out []string
	for _, node := range f.tree.QueryAll(root, selector) {
		value, _ := f.tree.Attr(node, name)
		out = append(out, value)
	}
	return out
}

func (f fixture) style(node *html.Node) string {
	value, _ := f.tree.Attr(node, "style")
	return value
}

func (f fixture) click(t *testing.T, selector string, nth int) {
	t.Helper()
	nodes := f.tree.QueryAll(f.container, selector)
	if nth >= len(nodes) {
		t.Fatalf("no %s #%d to click (found %d)", selector, nth, len(nodes))
	}
	f.tree.Dispatch(dom.NewEvent(context.Background(), "click", nodes[nth]))
}

const nestedMarkup = `<html><body>
<form id="order">
  <div id="items">
    <div data-row>
      <input type="hidden" name="Items.Index" value="0">
      <input type="text" name="Items[0].Name" id="Items_0__Name" value="Widget">
      <div id="tags0" data-rows>
        <div data-row>
          <input type="hidden" name="Items[0].Tags.Index" value="3">
          <input type="text" name="Items[0].Tags[3].Label" id="Items_0__Tags_3__Label" value="red">
          <a href="#" id="tag-remove" data-remove-location>x</a>
        </div>
        <button type="button" id="tag-add" data-add-location>Add tag</button>
      </div>
      <a href="#" data-remove-location>Remove</a>
    </div>
    <button type="button" id="item-add" data-add-location>Add</button>
  </div>
</form>
</body></html>`

func (f fixture) clickByID(t *testing.T, id string) {
	t.Helper()
	node := htmltree.ElementByID(f.doc, id)
	if node == nil {
		t.Fatalf("no #%s to click", id)
	}
	f.tree.Dispatch(dom.NewEvent(context.Background(), "click", node))
}
