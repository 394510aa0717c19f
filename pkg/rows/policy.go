package rows

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
)

// CanDelete reports whether rows may currently be deleted: false only when a
// single row is left and deleting the last row is not allowed.
func (e *Editor) CanDelete() bool {
	return canDelete(len(e.Rows()), e.settings.AllowLastRowDelete)
}

func canDelete(count int, allowLast bool) bool {
	return count != 1 || allowLast
}

// UpdateDeleteButtonVisibility shows or hides every remove trigger in the
// container according to CanDelete.
func (e *Editor) UpdateDeleteButtonVisibility() {
	visibility := "hidden"
	if e.CanDelete() {
		visibility = "visible"
	}
	for _, trigger := range e.tree.QueryAll(e.container, e.markers.Remove) {
		e.tree.SetStyle(trigger, "visibility", visibility)
	}
}

// Reorderable reports whether drag reordering is currently enabled.
func (e *Editor) Reorderable() bool {
	return e.settings.Sortable && len(e.Rows()) > 1
}

// UpdateSortable enables reordering and shows drag handles when sorting is
// on and more than one row exists; otherwise handles are hidden. A missing
// sortable root is a configuration error.
func (e *Editor) UpdateSortable() error {
	handles := e.tree.QueryAll(e.container, e.markers.DragHandle)
	if !e.settings.Sortable {
		for _, handle := range handles {
			e.tree.Hide(handle, 0, nil)
		}
		return nil
	}

	root := e.sortableRoot()
	if root == nil {
		return &ConfigError{Container: e.containerID(), Err: ErrSortableRootMissing}
	}

	if !e.Reorderable() {
		e.tree.Sortable(root, dom.SortableOptions{Disabled: true})
		for _, handle := range handles {
			e.tree.Hide(handle, 0, nil)
		}
		return nil
	}

	opts := dom.SortableOptions{}
	if id := e.containerID(); id != "" {
		opts.Containment = "#" + id
	}
	e.tree.Sortable(root, opts)
	for _, handle := range handles {
		e.tree.Show(handle, 0, nil)
	}
	return nil
}

func (e *Editor) sortableRoot() *html.Node {
	if e.tree.Matches(e.container, e.markers.Sortable) {
		return e.container
	}
	return e.tree.Query(e.container, e.markers.Sortable)
}
