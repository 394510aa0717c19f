package confirm

import (
	"context"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formrows/pkg/dom"
)

const (
	modalMarker  = "data-confirm-modal"
	acceptMarker = "data-confirm-accept"
	cancelMarker = "data-confirm-cancel"
)

var (
	messagePolicyOnce sync.Once
	messagePolicy     *bluemonday.Policy
)

// Modal renders a dialog into the UI tree and waits for a click on one of its
// buttons. The message is sanitized before it becomes markup.
type Modal struct {
	tree        dom.Tree
	host        *html.Node
	title       string
	acceptLabel string
	cancelLabel string
	dialogs     []*html.Node
}

// ModalOption configures a Modal.
type ModalOption func(*Modal)

// WithTitle sets the dialog heading.
func WithTitle(title string) ModalOption {
	return func(m *Modal) {
		m.title = strings.TrimSpace(title)
	}
}

// WithLabels overrides the button captions.
func WithLabels(accept, cancel string) ModalOption {
	return func(m *Modal) {
		if accept = strings.TrimSpace(accept); accept != "" {
			m.acceptLabel = accept
		}
		if cancel = strings.TrimSpace(cancel); cancel != "" {
			m.cancelLabel = cancel
		}
	}
}

// NewModal builds a modal confirmer whose dialogs are appended to host.
func NewModal(tree dom.Tree, host *html.Node, options ...ModalOption) *Modal {
	m := &Modal{
		tree:        tree,
		host:        host,
		acceptLabel: "Remove",
		cancelLabel: "Cancel",
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

var _ AsyncConfirmer = (*Modal)(nil)

// RequestConfirmation implements AsyncConfirmer. Without a tree or host the
// request is declined straight away.
func (m *Modal) RequestConfirmation(_ context.Context, message string, decide func(bool)) {
	if m == nil || m.tree == nil || m.host == nil {
		if decide != nil {
			decide(false)
		}
		return
	}
	if strings.TrimSpace(message) == "" {
		message = DefaultMessage
	}

	dialog := m.buildDialog(message)
	m.host.AppendChild(dialog)
	m.dialogs = append(m.dialogs, dialog)

	var releases []func()
	settle := func(ok bool) func(*dom.Event) {
		return func(evt *dom.Event) {
			evt.PreventDefault()
			evt.StopPropagation()
			for _, release := range releases {
				release()
			}
			m.close(dialog)
			if decide != nil {
				decide(ok)
			}
		}
	}
	releases = append(releases,
		m.tree.On(dialog, "click", "["+acceptMarker+"]", settle(true)),
		m.tree.On(dialog, "click", "["+cancelMarker+"]", settle(false)),
	)
}

// Open returns the dialogs still waiting for a decision, oldest first.
func (m *Modal) Open() []*html.Node {
	return append([]*html.Node(nil), m.dialogs...)
}

// Accept clicks the accept button of the oldest open dialog.
func (m *Modal) Accept(ctx context.Context) bool {
	return m.click(ctx, acceptMarker)
}

// Cancel clicks the cancel button of the oldest open dialog.
func (m *Modal) Cancel(ctx context.Context) bool {
	return m.click(ctx, cancelMarker)
}

func (m *Modal) click(ctx context.Context, marker string) bool {
	if len(m.dialogs) == 0 {
		return false
	}
	button := m.tree.Query(m.dialogs[0], "["+marker+"]")
	if button == nil {
		return false
	}
	m.tree.Dispatch(dom.NewEvent(ctx, "click", button))
	return true
}

func (m *Modal) close(dialog *html.Node) {
	kept := m.dialogs[:0]
	for _, d := range m.dialogs {
		if d != dialog {
			kept = append(kept, d)
		}
	}
	m.dialogs = kept
	m.tree.Remove(dialog)
}

func (m *Modal) buildDialog(message string) *html.Node {
	dialog := element(atom.Div, "class", "modal", "role", "dialog", "aria-modal", "true", modalMarker, "")
	content := element(atom.Div, "class", "modal-content")
	dialog.AppendChild(content)

	if m.title != "" {
		header := element(atom.Div, "class", "modal-header")
		heading := element(atom.H5, "class", "modal-title")
		heading.AppendChild(&html.Node{Type: html.TextNode, Data: m.title})
		header.AppendChild(heading)
		content.AppendChild(header)
	}

	body := element(atom.Div, "class", "modal-body")
	for _, node := range sanitizedFragment(message, body) {
		body.AppendChild(node)
	}
	content.AppendChild(body)

	footer := element(atom.Div, "class", "modal-footer")
	cancel := element(atom.Button, "type", "button", "class", "btn btn-secondary", cancelMarker, "")
	cancel.AppendChild(&html.Node{Type: html.TextNode, Data: m.cancelLabel})
	accept := element(atom.Button, "type", "button", "class", "btn btn-danger", acceptMarker, "")
	accept.AppendChild(&html.Node{Type: html.TextNode, Data: m.acceptLabel})
	footer.AppendChild(cancel)
	footer.AppendChild(accept)
	content.AppendChild(footer)

	return dialog
}

func sanitizedFragment(message string, parent *html.Node) []*html.Node {
	clean := strings.TrimSpace(messageSanitizer().Sanitize(message))
	if clean == "" {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(clean), parent)
	if err != nil {
		return []*html.Node{{Type: html.TextNode, Data: message}}
	}
	return nodes
}

func messageSanitizer() *bluemonday.Policy {
	messagePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "br", "p", "span", "code")
		policy.AllowAttrs("class").OnElements("span", "p")
		messagePolicy = policy
	})
	return messagePolicy
}

func element(a atom.Atom, attrs ...string) *html.Node {
	node := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		node.Attr = append(node.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return node
}
