package rows

import "golang.org/x/net/html"

// Rows returns the rows of the container in document order. Rows nested in
// another row belong to a nested editor and are skipped.
func (e *Editor) Rows() []*html.Node {
	all := e.tree.QueryAll(e.container, e.markers.Row)
	out := make([]*html.Node, 0, len(all))
	for _, row := range all {
		if e.nestedRow(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

// VisibleRows returns the rows currently shown.
func (e *Editor) VisibleRows() []*html.Node {
	return e.visible(e.Rows())
}

func (e *Editor) visible(rows []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(rows))
	for _, row := range rows {
		if e.tree.IsVisible(row) {
			out = append(out, row)
		}
	}
	return out
}

func (e *Editor) nestedRow(row *html.Node) bool {
	return len(e.rowsAbove(row, e.container)) > 0
}

// rowsAbove returns the rows enclosing node below stop, innermost first.
func (e *Editor) rowsAbove(node, stop *html.Node) []*html.Node {
	if node == nil {
		return nil
	}
	var out []*html.Node
	for p := node.Parent; p != nil && p != stop; p = p.Parent {
		if p.Type == html.ElementNode && e.tree.Matches(p, e.markers.Row) {
			out = append(out, p)
		}
	}
	return out
}
