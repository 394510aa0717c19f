package rows

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
)

// Editors maps containers to their editor. Binding a container that already
// has an editor closes and replaces the previous one.
type Editors struct {
	mu      sync.RWMutex
	editors map[*html.Node]*Editor
}

// NewEditors creates an empty registry.
func NewEditors() *Editors {
	return &Editors{
		editors: make(map[*html.Node]*Editor),
	}
}

// Bind constructs an editor for container and registers it.
func (r *Editors) Bind(tree dom.Tree, container *html.Node, options ...Option) (*Editor, error) {
	editor, err := New(tree, container, options...)
	if err != nil {
		return nil, err
	}
	r.Register(editor)
	return editor, nil
}

// Register stores editor under its container, closing any editor previously
// bound there.
func (r *Editors) Register(editor *Editor) {
	if editor == nil || editor.container == nil {
		return
	}
	r.mu.Lock()
	previous := r.editors[editor.container]
	r.editors[editor.container] = editor
	r.mu.Unlock()

	if previous != nil && previous != editor {
		previous.Close()
	}
}

// Get retrieves the editor bound to container.
func (r *Editors) Get(container *html.Node) (*Editor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	editor, ok := r.editors[container]
	return editor, ok
}

// MustGet panics if no editor is bound to container.
func (r *Editors) MustGet(container *html.Node) *Editor {
	editor, ok := r.Get(container)
	if !ok {
		panic(fmt.Errorf("rows: no editor bound to container"))
	}
	return editor
}

// ByID retrieves the editor whose container carries the given id.
func (r *Editors) ByID(id string) (*Editor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, editor := range r.editors {
		if editor.containerID() == id {
			return editor, true
		}
	}
	return nil, false
}

// Unregister closes and forgets the editor bound to container, typically when
// the container is torn down.
func (r *Editors) Unregister(container *html.Node) bool {
	r.mu.Lock()
	editor, ok := r.editors[container]
	delete(r.editors, container)
	r.mu.Unlock()

	if ok {
		editor.Close()
	}
	return ok
}

// IDs returns the sorted ids of bound containers. Containers without an id
// are left out.
func (r *Editors) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.editors))
	for _, editor := range r.editors {
		if id := editor.containerID(); id != "" {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Len reports how many editors are bound.
func (r *Editors) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.editors)
}

// Close closes and forgets every editor.
func (r *Editors) Close() {
	r.mu.Lock()
	editors := r.editors
	r.editors = make(map[*html.Node]*Editor)
	r.mu.Unlock()

	for _, editor := range editors {
		editor.Close()
	}
}
