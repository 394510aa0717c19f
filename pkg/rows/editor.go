package rows

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/confirm"
	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/logging"
)

// Editor manages the repeatable rows of one container. It observes rows
// rather than owning them: every operation re-queries the tree.
//
// An Editor is not safe for concurrent use; drive it from the goroutine that
// owns the tree, the same one that runs animation completions.
type Editor struct {
	tree      dom.Tree
	container *html.Node

	settings       Settings
	markers        Markers
	callbacks      Callbacks
	confirmer      confirm.Confirmer
	asyncConfirmer confirm.AsyncConfirmer
	logger         logging.Logger

	// fading holds rows whose hide animation is running.
	fading map[*html.Node]struct{}

	releases []func()
	closed   bool
}

// New binds an editor to container. Configuration errors in the markup or
// the options abort construction with a *ConfigError.
func New(tree dom.Tree, container *html.Node, options ...Option) (*Editor, error) {
	if tree == nil {
		return nil, &ConfigError{Err: ErrTreeRequired}
	}
	if container == nil {
		return nil, &ConfigError{Err: ErrContainerRequired}
	}

	e := &Editor{
		tree:      tree,
		container: container,
		settings:  DefaultSettings(),
		markers:   DefaultMarkers(),
		logger:    logging.Nop(),
		fading:    make(map[*html.Node]struct{}),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	if e.settings.ConfirmBeforeDelete && e.confirmer == nil && e.asyncConfirmer == nil {
		return nil, &ConfigError{Container: e.containerID(), Err: ErrConfirmerRequired}
	}

	e.UpdateDeleteButtonVisibility()
	if err := e.UpdateSortable(); err != nil {
		return nil, err
	}
	e.subscribe()
	return e, nil
}

// Container returns the node the editor is bound to.
func (e *Editor) Container() *html.Node {
	return e.container
}

// Settings returns the active behavioural switches.
func (e *Editor) Settings() Settings {
	return e.settings
}

// Close releases the editor's event subscriptions. It is safe to call more
// than once.
func (e *Editor) Close() {
	if e == nil || e.closed {
		return
	}
	e.closed = true
	for _, release := range e.releases {
		release()
	}
	e.releases = nil
}

func (e *Editor) containerID() string {
	id, _ := e.tree.Attr(e.container, "id")
	return id
}

// subscribe wires delegated click handlers for the add and remove triggers,
// and prunes hidden rows when the enclosing form submits. Triggers that
// belong to a region nested in one of the rows are left to that region's
// editor, and handled clicks stop bubbling so outer editors never see them.
func (e *Editor) subscribe() {
	e.releases = append(e.releases,
		e.tree.On(e.container, "click", e.markers.Add, func(evt *dom.Event) {
			if len(e.rowsAbove(evt.CurrentTarget, e.container)) > 0 {
				return
			}
			evt.PreventDefault()
			evt.StopPropagation()
			e.AddRow()
		}),
		e.tree.On(e.container, "click", e.markers.Remove, func(evt *dom.Event) {
			owners := e.rowsAbove(evt.CurrentTarget, e.container)
			if len(owners) != 1 {
				return
			}
			evt.PreventDefault()
			evt.StopPropagation()
			if err := e.RemoveRow(evt.Context(), owners[0]); err != nil {
				e.logger.Warn("rows: remove row failed", "container", e.containerID(), "error", err)
			}
		}),
	)

	if form := e.tree.Closest(e.container, "form"); form != nil {
		e.releases = append(e.releases, e.tree.On(form, "submit", "", func(*dom.Event) {
			e.PruneHiddenRows()
		}))
	}
}

// AddRow appends a row and returns it. It returns nil when the add was
// vetoed, when clone mode is off (the host builds its own row), or when there
// is no row to copy.
func (e *Editor) AddRow() *html.Node {
	if cb := e.callbacks.BeforeRowAdded; cb != nil && !cb() {
		e.logger.Debug("rows: add vetoed", "container", e.containerID())
		return nil
	}

	if !e.settings.CloneRow {
		if cb := e.callbacks.RowAdded; cb != nil {
			cb(nil)
		}
		return nil
	}

	rows := e.Rows()
	if len(rows) == 0 {
		e.logger.Debug("rows: no row to copy", "container", e.containerID())
		return nil
	}
	last := rows[len(rows)-1]

	if e.settings.AllowLastRowDelete && len(e.visible(rows)) == 0 {
		return e.revealTemplate(last)
	}

	clone := e.tree.Clone(last)
	e.clearValidation(clone)
	for _, trigger := range e.tree.QueryAll(clone, e.markers.Remove) {
		e.tree.Show(trigger, 0, nil)
	}
	if !e.settings.SkipIndexRewrite {
		e.renumber(last, clone)
	}
	if e.settings.CleanNewRow {
		e.cleanRow(clone)
	}
	if cb := e.callbacks.RowAdded; cb != nil {
		cb(clone)
	}

	e.tree.Hide(clone, 0, nil)
	e.tree.InsertAfter(last, clone)
	e.refresh()
	e.tree.Show(clone, e.settings.ShowHideDuration, nil)
	return clone
}

// revealTemplate shows the row kept hidden after the last delete instead of
// cloning it.
func (e *Editor) revealTemplate(row *html.Node) *html.Node {
	e.clearValidation(row)
	if e.settings.CleanNewRow {
		e.cleanRow(row)
	}
	if cb := e.callbacks.RowAdded; cb != nil {
		cb(row)
	}
	e.tree.Show(row, e.settings.ShowHideDuration, nil)
	e.refresh()
	return row
}

// RemoveRow hides row and then removes it from the tree. Rows that are not
// part of the container are ignored. The only error reported is a failing
// synchronous confirmer.
func (e *Editor) RemoveRow(ctx context.Context, row *html.Node) error {
	if ctx == nil {
		ctx = context.Background()
	}
	rows := e.Rows()
	if !containsNode(rows, row) {
		e.logger.Debug("rows: remove ignored, row not in container", "container", e.containerID())
		return nil
	}
	if cb := e.callbacks.BeforeRowDeleted; cb != nil && !cb(row) {
		e.logger.Debug("rows: remove vetoed", "container", e.containerID())
		return nil
	}

	if !e.settings.ConfirmBeforeDelete || !e.rowHasInput(row) {
		e.commitRemove(row)
		return nil
	}

	message := e.settings.ConfirmMessage
	if e.asyncConfirmer != nil {
		e.asyncConfirmer.RequestConfirmation(ctx, message, func(ok bool) {
			if !ok {
				e.logger.Debug("rows: remove declined", "container", e.containerID())
				return
			}
			e.commitRemove(row)
		})
		return nil
	}

	ok, err := e.confirmer.Confirm(ctx, message)
	if err != nil {
		return fmt.Errorf("rows: confirm removal: %w", err)
	}
	if !ok {
		e.logger.Debug("rows: remove declined", "container", e.containerID())
		return nil
	}
	e.commitRemove(row)
	return nil
}

// commitRemove fades row out. Once hidden, the row is detached unless it is
// the last one in clone mode, where it stays hidden as the template for the
// next AddRow. A row already fading out is not faded again.
func (e *Editor) commitRemove(row *html.Node) {
	if !containsNode(e.Rows(), row) {
		e.logger.Debug("rows: row left the container before removal", "container", e.containerID())
		return
	}
	if _, ok := e.fading[row]; ok {
		e.logger.Debug("rows: remove ignored, row already fading out", "container", e.containerID())
		return
	}
	e.fading[row] = struct{}{}
	e.tree.Hide(row, e.settings.ShowHideDuration, func() {
		delete(e.fading, row)
		rows := e.Rows()
		if !containsNode(rows, row) {
			e.logger.Debug("rows: row left the container while fading out", "container", e.containerID())
			e.refresh()
			return
		}
		keepAsTemplate := e.settings.CloneRow && len(rows) <= 1
		if !keepAsTemplate {
			e.tree.Remove(row)
		}
		e.refresh()
		if cb := e.callbacks.RowDeleted; cb != nil {
			cb(row)
		}
	})
}

// MoveRow reorders row to position to (zero based, clamped). Indices are not
// rewritten; the binding keys travel with the row.
func (e *Editor) MoveRow(row *html.Node, to int) error {
	rows := e.Rows()
	if !e.settings.Sortable || len(rows) < 2 {
		return ErrReorderDisabled
	}
	from := indexOf(rows, row)
	if from < 0 {
		e.logger.Debug("rows: move ignored, row not in container", "container", e.containerID())
		return nil
	}
	if to < 0 {
		to = 0
	}
	if to > len(rows)-1 {
		to = len(rows) - 1
	}
	switch {
	case to == from:
		return nil
	case to < from:
		e.tree.Move(row, rows[to])
	default:
		e.tree.InsertAfter(rows[to], row)
	}
	e.refresh()
	return nil
}

// PruneHiddenRows removes rows that are not visible, such as the hidden
// template row, so they are not submitted.
func (e *Editor) PruneHiddenRows() int {
	removed := 0
	for _, row := range e.Rows() {
		if e.tree.IsVisible(row) {
			continue
		}
		e.tree.Remove(row)
		removed++
	}
	if removed > 0 {
		e.refresh()
	}
	return removed
}

// refresh recomputes every row-count dependent state from scratch.
func (e *Editor) refresh() {
	e.UpdateDeleteButtonVisibility()
	if err := e.UpdateSortable(); err != nil {
		e.logger.Warn("rows: sortable state not updated", "container", e.containerID(), "error", err)
	}
}

func containsNode(nodes []*html.Node, node *html.Node) bool {
	return indexOf(nodes, node) >= 0
}

func indexOf(nodes []*html.Node, node *html.Node) int {
	if node == nil {
		return -1
	}
	for i, n := range nodes {
		if n == node {
			return i
		}
	}
	return -1
}
