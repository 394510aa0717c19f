package htmltree

import (
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
)

// On implements dom.Tree. Handlers registered on root run while the event
// bubbles through root, once for every node between the target and root that
// matches selector, innermost first.
func (t *Tree) On(root *html.Node, eventType, selector string, handler dom.Handler) func() {
	if root == nil || eventType == "" || handler == nil {
		return func() {}
	}
	l := &listener{
		root:      root,
		eventType: eventType,
		selector:  selector,
		handler:   handler,
	}
	t.mu.Lock()
	t.listeners = append(t.listeners, l)
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		l.released = true
		kept := t.listeners[:0]
		for _, existing := range t.listeners {
			if existing != l {
				kept = append(kept, existing)
			}
		}
		t.listeners = kept
	}
}

// Listeners reports how many subscriptions are active.
func (t *Tree) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// Dispatch implements dom.Tree.
func (t *Tree) Dispatch(evt *dom.Event) {
	if evt == nil || evt.Target == nil {
		return
	}
	var path []*html.Node
	for cur := evt.Target; cur != nil; cur = cur.Parent {
		path = append(path, cur)
	}

	for idx, node := range path {
		for _, l := range t.listenersFor(node, evt.Type) {
			if l.selector == "" {
				if !t.deliver(l, evt, node) {
					return
				}
				continue
			}
			for _, candidate := range path[:idx] {
				if !t.Matches(candidate, l.selector) {
					continue
				}
				if !t.deliver(l, evt, candidate) {
					return
				}
			}
		}
		if evt.Stopped() {
			return
		}
	}
}

func (t *Tree) listenersFor(node *html.Node, eventType string) []*listener {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*listener
	for _, l := range t.listeners {
		if l.root == node && l.eventType == eventType {
			out = append(out, l)
		}
	}
	return out
}

func (t *Tree) deliver(l *listener, evt *dom.Event, current *html.Node) bool {
	t.mu.Lock()
	released := l.released
	t.mu.Unlock()
	if released {
		return true
	}
	evt.CurrentTarget = current
	l.handler(evt)
	return !evt.Stopped()
}
