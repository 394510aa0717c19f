package htmltree

import (
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
)

const (
	attrSortableDisabled    = "data-sortable-disabled"
	attrSortableContainment = "data-sortable-containment"
)

// Option configures a Tree.
type Option func(*Tree)

// WithScheduler sets the scheduler used for animated show/hide completions.
// The default completes animations synchronously.
func WithScheduler(scheduler dom.Scheduler) Option {
	return func(t *Tree) {
		if scheduler != nil {
			t.scheduler = scheduler
		}
	}
}

// Tree implements dom.Tree over an x/net/html document. Visibility is carried
// by inline styles so rendered output round-trips through a browser.
type Tree struct {
	scheduler dom.Scheduler

	mu        sync.Mutex
	selectors map[string]cascadia.Matcher
	listeners []*listener
}

type listener struct {
	root      *html.Node
	eventType string
	selector  string
	handler   dom.Handler
	released  bool
}

var _ dom.Tree = (*Tree)(nil)

// New constructs a Tree.
func New(options ...Option) *Tree {
	t := &Tree{
		scheduler: dom.Immediate{},
		selectors: make(map[string]cascadia.Matcher),
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

func (t *Tree) matcher(selector string) cascadia.Matcher {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if m, ok := t.selectors[selector]; ok {
		return m
	}
	group, err := cascadia.ParseGroup(selector)
	var m cascadia.Matcher
	if err == nil {
		m = group
	}
	// invalid selectors are cached as nil and never match
	t.selectors[selector] = m
	return m
}

// Query implements dom.Tree.
func (t *Tree) Query(root *html.Node, selector string) *html.Node {
	m := t.matcher(selector)
	if root == nil || m == nil {
		return nil
	}
	return cascadia.Query(root, m)
}

// QueryAll implements dom.Tree.
func (t *Tree) QueryAll(root *html.Node, selector string) []*html.Node {
	m := t.matcher(selector)
	if root == nil || m == nil {
		return nil
	}
	return cascadia.QueryAll(root, m)
}

// Matches implements dom.Tree.
func (t *Tree) Matches(node *html.Node, selector string) bool {
	m := t.matcher(selector)
	if node == nil || m == nil || node.Type != html.ElementNode {
		return false
	}
	return m.Match(node)
}

// Closest implements dom.Tree.
func (t *Tree) Closest(node *html.Node, selector string) *html.Node {
	for cur := node; cur != nil; cur = cur.Parent {
		if t.Matches(cur, selector) {
			return cur
		}
	}
	return nil
}

// Attr implements dom.Tree.
func (t *Tree) Attr(node *html.Node, name string) (string, bool) {
	return attr(node, name)
}

// SetAttr implements dom.Tree.
func (t *Tree) SetAttr(node *html.Node, name, value string) {
	setAttr(node, name, value)
}

// RemoveAttr implements dom.Tree.
func (t *Tree) RemoveAttr(node *html.Node, name string) {
	removeAttr(node, name)
}

// SetStyle implements dom.Tree. An empty value removes the property.
func (t *Tree) SetStyle(node *html.Node, property, value string) {
	if node == nil {
		return
	}
	raw, _ := attr(node, "style")
	updated := setStyleProperty(raw, property, value)
	if updated == "" {
		removeAttr(node, "style")
		return
	}
	setAttr(node, "style", updated)
}

// Text implements dom.Tree.
func (t *Tree) Text(node *html.Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(node)
	return b.String()
}

// SetText implements dom.Tree, replacing every child with a single text node.
func (t *Tree) SetText(node *html.Node, text string) {
	if node == nil {
		return
	}
	for node.FirstChild != nil {
		node.RemoveChild(node.FirstChild)
	}
	if text != "" {
		node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

// Clone implements dom.Tree with a deep, detached copy.
func (t *Tree) Clone(node *html.Node) *html.Node {
	return cloneNode(node)
}

// InsertAfter implements dom.Tree.
func (t *Tree) InsertAfter(ref, node *html.Node) {
	if ref == nil || node == nil || ref.Parent == nil {
		return
	}
	detach(node)
	ref.Parent.InsertBefore(node, ref.NextSibling)
}

// Remove implements dom.Tree.
func (t *Tree) Remove(node *html.Node) {
	detach(node)
}

// Move implements dom.Tree.
func (t *Tree) Move(node, ref *html.Node) {
	if node == nil || node == ref {
		return
	}
	if ref == nil {
		parent := node.Parent
		if parent == nil {
			return
		}
		detach(node)
		parent.AppendChild(node)
		return
	}
	if ref.Parent == nil {
		return
	}
	detach(node)
	ref.Parent.InsertBefore(node, ref)
}

// IsVisible implements dom.Tree. A node is hidden when it or an ancestor
// carries display:none or the hidden attribute.
func (t *Tree) IsVisible(node *html.Node) bool {
	if node == nil {
		return false
	}
	for cur := node; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if _, hidden := attr(cur, "hidden"); hidden {
			return false
		}
		raw, _ := attr(cur, "style")
		if strings.EqualFold(styleProperty(raw, "display"), "none") {
			return false
		}
	}
	return true
}

// Show implements dom.Tree. The node becomes visible immediately; done runs
// once the animation duration has elapsed.
func (t *Tree) Show(node *html.Node, duration time.Duration, done func()) {
	if node != nil {
		removeAttr(node, "hidden")
		t.SetStyle(node, "display", "")
	}
	t.complete(duration, done)
}

// Hide implements dom.Tree. The node stays visible while the animation runs
// and is hidden right before done fires.
func (t *Tree) Hide(node *html.Node, duration time.Duration, done func()) {
	hide := func() {
		if node != nil {
			t.SetStyle(node, "display", "none")
		}
		if done != nil {
			done()
		}
	}
	t.complete(duration, hide)
}

func (t *Tree) complete(duration time.Duration, fn func()) {
	if fn == nil {
		return
	}
	if duration <= 0 {
		fn()
		return
	}
	t.scheduler.After(duration, fn)
}

// Sortable implements dom.Tree by recording the drag-reorder state as
// attributes the client runtime picks up.
func (t *Tree) Sortable(root *html.Node, opts dom.SortableOptions) {
	if root == nil {
		return
	}
	if opts.Disabled {
		setAttr(root, attrSortableDisabled, "true")
	} else {
		setAttr(root, attrSortableDisabled, "false")
	}
	if opts.Containment != "" {
		setAttr(root, attrSortableContainment, opts.Containment)
	} else {
		removeAttr(root, attrSortableContainment)
	}
}

// SortableState reads back the state written by Sortable.
func SortableState(root *html.Node) (dom.SortableOptions, bool) {
	raw, ok := attr(root, attrSortableDisabled)
	if !ok {
		return dom.SortableOptions{}, false
	}
	containment, _ := attr(root, attrSortableContainment)
	return dom.SortableOptions{Disabled: raw == "true", Containment: containment}, true
}

func cloneNode(node *html.Node) *html.Node {
	if node == nil {
		return nil
	}
	out := &html.Node{
		Type:      node.Type,
		DataAtom:  node.DataAtom,
		Data:      node.Data,
		Namespace: node.Namespace,
	}
	if len(node.Attr) > 0 {
		out.Attr = make([]html.Attribute, len(node.Attr))
		copy(out.Attr, node.Attr)
	}
	for c := node.FirstChild; c != nil; c = c.NextSibling {
		out.AppendChild(cloneNode(c))
	}
	return out
}

func detach(node *html.Node) {
	if node != nil && node.Parent != nil {
		node.Parent.RemoveChild(node)
	}
}

func attr(node *html.Node, name string) (string, bool) {
	if node == nil {
		return "", false
	}
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(node *html.Node, name, value string) {
	if node == nil || name == "" {
		return
	}
	for i, a := range node.Attr {
		if a.Namespace == "" && a.Key == name {
			node.Attr[i].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: name, Val: value})
}

func removeAttr(node *html.Node, name string) {
	if node == nil {
		return
	}
	out := node.Attr[:0]
	for _, a := range node.Attr {
		if a.Namespace == "" && a.Key == name {
			continue
		}
		out = append(out, a)
	}
	node.Attr = out
}
