package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/config"
	"github.com/goliatone/go-formrows/pkg/confirm"
	"github.com/goliatone/go-formrows/pkg/dom"
	"github.com/goliatone/go-formrows/pkg/dom/htmltree"
	"github.com/goliatone/go-formrows/pkg/logging"
	"github.com/goliatone/go-formrows/pkg/rows"
)

// DefaultContainerSelector finds the regions rendered by the scaffold
// package as well as hand written ones flagged with data-rows.
const DefaultContainerSelector = ".form-rows[id], [data-rows]"

var (
	ErrUnknownContainer = errors.New("orchestrator: unknown container")
	ErrRowOutOfRange    = errors.New("orchestrator: row position out of range")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithConfigStore supplies per-container editor settings.
func WithConfigStore(store *config.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithConfigFS loads editor settings from an fs.FS when the orchestrator is
// constructed. It is ignored when WithConfigStore is also given.
func WithConfigFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.configFS = fsys
	}
}

// WithScheduler sets the scheduler animated show/hide completions run on.
// With a *dom.Loop, sessions drain it after every operation.
func WithScheduler(scheduler dom.Scheduler) Option {
	return func(o *Orchestrator) {
		o.scheduler = scheduler
	}
}

// WithConfirmer sets the synchronous confirmer handed to every editor.
func WithConfirmer(c confirm.Confirmer) Option {
	return func(o *Orchestrator) {
		o.confirmer = c
	}
}

// WithAsyncConfirmer sets the callback based confirmer handed to every
// editor.
func WithAsyncConfirmer(c confirm.AsyncConfirmer) Option {
	return func(o *Orchestrator) {
		o.asyncConfirmer = c
	}
}

// WithLogger routes orchestrator and editor diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithContainerSelector overrides how repeatable regions are discovered.
func WithContainerSelector(selector string) Option {
	return func(o *Orchestrator) {
		if selector != "" {
			o.selector = selector
		}
	}
}

// WithEditorOptions appends options applied to every editor before the
// per-container settings from the config store.
func WithEditorOptions(options ...rows.Option) Option {
	return func(o *Orchestrator) {
		o.editorOptions = append(o.editorOptions, options...)
	}
}

// Orchestrator opens editing sessions over HTML documents. It applies
// defaults (immediate animations, no config) while staying open to
// dependency injection.
type Orchestrator struct {
	store          *config.Store
	configFS       fs.FS
	scheduler      dom.Scheduler
	confirmer      confirm.Confirmer
	asyncConfirmer confirm.AsyncConfirmer
	logger         logging.Logger
	selector       string
	editorOptions  []rows.Option
	initialiseErr  error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		selector: DefaultContainerSelector,
		logger:   logging.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the document a session edits.
type Request struct {
	// Source is read when Document is nil.
	Source io.Reader

	// Document allows callers to bypass parsing when they already hold a
	// parsed tree.
	Document *html.Node

	// Containers restricts binding to the listed container ids. When empty
	// every discovered region is bound.
	Containers []string
}

// Open parses the request document and binds an editor to every region.
func (o *Orchestrator) Open(ctx context.Context, req Request) (*Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	doc, err := o.resolveDocument(req)
	if err != nil {
		return nil, err
	}

	session := &Session{
		doc:       doc,
		tree:      htmltree.New(htmltree.WithScheduler(o.scheduler)),
		editors:   rows.NewEditors(),
		scheduler: o.scheduler,
		logger:    o.logger,
	}

	containers, err := o.containers(session.tree, doc, req.Containers)
	if err != nil {
		return nil, err
	}
	for _, container := range containers {
		id, _ := session.tree.Attr(container, "id")
		if _, err := session.editors.Bind(session.tree, container, o.editorOptionsFor(id)...); err != nil {
			session.Close()
			return nil, fmt.Errorf("orchestrator: bind %q: %w", id, err)
		}
		o.logger.Debug("orchestrator: editor bound", "container", id)
	}
	return session, nil
}

func (o *Orchestrator) resolveDocument(req Request) (*html.Node, error) {
	if req.Document != nil {
		return req.Document, nil
	}
	if req.Source == nil {
		return nil, errors.New("orchestrator: source or document is required")
	}
	doc, err := htmltree.Parse(req.Source)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

// containers lists the regions to bind: configured ids first, then every
// element matching the selector, without duplicates.
func (o *Orchestrator) containers(tree *htmltree.Tree, doc *html.Node, only []string) ([]*html.Node, error) {
	if len(only) > 0 {
		out := make([]*html.Node, 0, len(only))
		for _, id := range only {
			node := htmltree.ElementByID(doc, id)
			if node == nil {
				return nil, fmt.Errorf("%w %q", ErrUnknownContainer, id)
			}
			out = append(out, node)
		}
		return out, nil
	}

	seen := make(map[*html.Node]struct{})
	var out []*html.Node
	add := func(node *html.Node) {
		if _, ok := seen[node]; ok {
			return
		}
		seen[node] = struct{}{}
		out = append(out, node)
	}
	for _, id := range o.store.IDs() {
		if node := htmltree.ElementByID(doc, id); node != nil {
			add(node)
			continue
		}
		o.logger.Debug("orchestrator: configured container not in document", "container", id)
	}
	for _, node := range tree.QueryAll(doc, o.selector) {
		add(node)
	}
	return out, nil
}

func (o *Orchestrator) editorOptionsFor(id string) []rows.Option {
	opts := []rows.Option{rows.WithLogger(o.logger)}
	if o.confirmer != nil {
		opts = append(opts, rows.WithConfirmer(o.confirmer))
	}
	if o.asyncConfirmer != nil {
		opts = append(opts, rows.WithAsyncConfirmer(o.asyncConfirmer))
	}
	opts = append(opts, o.editorOptions...)
	if cfg, ok := o.store.Editor(id); ok {
		opts = append(opts, cfg.Options()...)
	}
	return opts
}

func (o *Orchestrator) applyDefaults() {
	if o.scheduler == nil {
		o.scheduler = dom.Immediate{}
	}
	if o.store == nil && o.configFS != nil {
		store, err := config.LoadFS(o.configFS)
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load config: %w", err)
			return
		}
		o.store = store
	}
}
