package dom

import (
	"context"
	"time"

	"golang.org/x/net/html"
)

// SortableOptions describes the drag-reorder state applied to a sortable root.
type SortableOptions struct {
	Disabled bool
	// Containment restricts dragging to the element matching this selector.
	Containment string
}

// Handler receives a dispatched event. CurrentTarget is the descendant that
// matched the delegated selector.
type Handler func(evt *Event)

// Event is a UI event travelling from a target node up to its ancestors.
type Event struct {
	Type          string
	Target        *html.Node
	CurrentTarget *html.Node

	ctx              context.Context
	defaultPrevented bool
	stopped          bool
}

// NewEvent builds an event for dispatch. A nil context falls back to
// context.Background.
func NewEvent(ctx context.Context, eventType string, target *html.Node) *Event {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Event{Type: eventType, Target: target, ctx: ctx}
}

// Context returns the context the event was dispatched with.
func (e *Event) Context() context.Context {
	if e == nil || e.ctx == nil {
		return context.Background()
	}
	return e.ctx
}

// PreventDefault marks the default action of the event as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a handler cancelled the default action.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation prevents handlers on further ancestors from running.
func (e *Event) StopPropagation() { e.stopped = true }

// Stopped reports whether propagation was stopped.
func (e *Event) Stopped() bool { return e.stopped }

// Tree is the UI-tree collaborator. Implementations own presentation concerns
// (styles, animation, drag and drop); callers only rely on the contract that
// Show and Hide invoke done exactly once, after the change is visible.
type Tree interface {
	// Query returns the first descendant of root matching selector, or nil.
	Query(root *html.Node, selector string) *html.Node
	// QueryAll returns every descendant of root matching selector in
	// document order.
	QueryAll(root *html.Node, selector string) []*html.Node
	// Matches reports whether node itself matches selector.
	Matches(node *html.Node, selector string) bool
	// Closest returns node or its nearest ancestor matching selector.
	Closest(node *html.Node, selector string) *html.Node

	Attr(node *html.Node, name string) (string, bool)
	SetAttr(node *html.Node, name, value string)
	RemoveAttr(node *html.Node, name string)
	SetStyle(node *html.Node, property, value string)
	Text(node *html.Node) string
	SetText(node *html.Node, text string)

	Clone(node *html.Node) *html.Node
	InsertAfter(ref, node *html.Node)
	Remove(node *html.Node)
	// Move places node immediately before ref; a nil ref appends node to the
	// end of its current parent.
	Move(node, ref *html.Node)

	IsVisible(node *html.Node) bool
	Show(node *html.Node, duration time.Duration, done func())
	Hide(node *html.Node, duration time.Duration, done func())

	Sortable(root *html.Node, opts SortableOptions)

	// On subscribes handler to events of eventType raised on descendants of
	// root that match selector. An empty selector matches root itself. The
	// returned function releases the subscription.
	On(root *html.Node, eventType, selector string, handler Handler) (release func())
	// Dispatch raises evt on its target and bubbles it through ancestors.
	Dispatch(evt *Event)
}
