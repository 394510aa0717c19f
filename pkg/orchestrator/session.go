package orchestrator

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/dom/htmltree"
	"github.com/goliatone/go-formrows/pkg/formdata"
	"github.com/goliatone/go-formrows/pkg/logging"
	"github.com/goliatone/go-formrows/pkg/rows"
)

// Session is one editing pass over a document. It is not safe for
// concurrent use.
type Session struct {
	doc       *html.Node
	tree      *htmltree.Tree
	editors   *rows.Editors
	scheduler dom.Scheduler
	logger    logging.Logger
}

// Document returns the edited document.
func (s *Session) Document() *html.Node {
	return s.doc
}

// Tree returns the tree the editors operate on.
func (s *Session) Tree() *htmltree.Tree {
	return s.tree
}

// IDs lists the bound container ids.
func (s *Session) IDs() []string {
	return s.editors.IDs()
}

// Editor returns the editor bound to container id.
func (s *Session) Editor(id string) (*rows.Editor, error) {
	editor, ok := s.editors.ByID(id)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownContainer, id)
	}
	return editor, nil
}

// Add appends a row to container id and waits for its animation.
func (s *Session) Add(ctx context.Context, id string) (*html.Node, error) {
	editor, err := s.Editor(id)
	if err != nil {
		return nil, err
	}
	row := editor.AddRow()
	return row, s.Settle(ctx)
}

// Remove deletes the visible row at position (zero based) of container id.
func (s *Session) Remove(ctx context.Context, id string, position int) error {
	editor, err := s.Editor(id)
	if err != nil {
		return err
	}
	row, err := visibleAt(editor, id, position)
	if err != nil {
		return err
	}
	if err := editor.RemoveRow(ctx, row); err != nil {
		return err
	}
	return s.Settle(ctx)
}

// Move reorders the visible row at from to position to.
func (s *Session) Move(ctx context.Context, id string, from, to int) error {
	editor, err := s.Editor(id)
	if err != nil {
		return err
	}
	row, err := visibleAt(editor, id, from)
	if err != nil {
		return err
	}
	if err := editor.MoveRow(row, to); err != nil {
		return err
	}
	return s.Settle(ctx)
}

// Submit prunes hidden rows from every editor the way a form submission
// does, and reports how many rows were dropped.
func (s *Session) Submit(ctx context.Context) (int, error) {
	if err := s.Settle(ctx); err != nil {
		return 0, err
	}
	pruned := 0
	for _, id := range s.editors.IDs() {
		editor, _ := s.editors.ByID(id)
		if n := editor.PruneHiddenRows(); n > 0 {
			s.logger.Debug("orchestrator: pruned hidden rows", "container", id, "rows", n)
			pruned += n
		}
	}
	return pruned, nil
}

// SubmitValues submits the session and returns the values a browser would
// post for the document. Hidden rows are pruned from the session on the way.
func (s *Session) SubmitValues(ctx context.Context) ([]formdata.Value, error) {
	if _, err := s.Submit(ctx); err != nil {
		return nil, err
	}
	return formdata.Collect(s.tree, s.doc), nil
}

// ApplyErrors places a server validation payload onto the fields of the
// first form (or the body) and returns the resolved mapping.
func (s *Session) ApplyErrors(payload map[string][]string) formdata.ErrorMapping {
	root := s.tree.Query(s.doc, "form")
	if root == nil {
		root = s.tree.Query(s.doc, "body")
	}
	if root == nil {
		root = s.doc
	}
	mapping := formdata.MapErrors(formdata.FieldNames(s.tree, root), payload)
	marked := formdata.ApplyErrors(s.tree, root, mapping)
	s.logger.Debug("orchestrator: validation errors applied", "fields", marked, "form", len(mapping.Form))
	return mapping
}

// Settle runs pending animation completions when the session schedules
// them on a dom.Loop. Other schedulers complete on their own.
func (s *Session) Settle(ctx context.Context) error {
	loop, ok := s.scheduler.(*dom.Loop)
	if !ok {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := loop.Drain(ctx); err != nil {
		return fmt.Errorf("orchestrator: settle animations: %w", err)
	}
	return nil
}

// Render writes the current document.
func (s *Session) Render(w io.Writer) error {
	return htmltree.Render(w, s.doc)
}

// Close releases every editor.
func (s *Session) Close() {
	if s == nil || s.editors == nil {
		return
	}
	s.editors.Close()
}

func visibleAt(editor *rows.Editor, id string, position int) (*html.Node, error) {
	visible := editor.VisibleRows()
	if position < 0 || position >= len(visible) {
		return nil, fmt.Errorf("%w: %q has %d rows, got %d", ErrRowOutOfRange, id, len(visible), position)
	}
	return visible[position], nil
}
