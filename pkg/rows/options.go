package rows

import (
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/confirm"
	"github.com/goliatone/go-formrows/pkg/logging"
)

// DefaultShowHideDuration matches the fade used by the client runtime.
const DefaultShowHideDuration = 250 * time.Millisecond

// Markers are the selectors the hosted markup must carry.
type Markers struct {
	Row        string
	Add        string
	Remove     string
	Sortable   string
	DragHandle string
	// SequenceField selects the hidden per-row field holding the canonical
	// list index used by model binding.
	SequenceField string
	// CleanExclude keeps matching inputs untouched when a new row is cleaned.
	CleanExclude string
}

// DefaultMarkers returns the data-attribute markers used by the scaffold
// templates.
func DefaultMarkers() Markers {
	return Markers{
		Row:           "[data-row]",
		Add:           "[data-add-location]",
		Remove:        "[data-remove-location]",
		Sortable:      "[data-sortable]",
		DragHandle:    "[data-drag-icon]",
		SequenceField: `input[type=hidden][data-row-index], input[type=hidden][name$=".Index"]`,
	}
}

// merge fills empty selectors in m from defaults.
func (m Markers) merge(defaults Markers) Markers {
	pick := func(value, fallback string) string {
		if strings.TrimSpace(value) == "" {
			return fallback
		}
		return strings.TrimSpace(value)
	}
	return Markers{
		Row:           pick(m.Row, defaults.Row),
		Add:           pick(m.Add, defaults.Add),
		Remove:        pick(m.Remove, defaults.Remove),
		Sortable:      pick(m.Sortable, defaults.Sortable),
		DragHandle:    pick(m.DragHandle, defaults.DragHandle),
		SequenceField: pick(m.SequenceField, defaults.SequenceField),
		CleanExclude:  strings.TrimSpace(m.CleanExclude),
	}
}

// Settings holds the behavioural switches of an editor. Zero values are not
// the defaults; start from DefaultSettings.
type Settings struct {
	Sortable            bool
	AllowLastRowDelete  bool
	ShowHideDuration    time.Duration
	CloneRow            bool
	CleanNewRow         bool
	ConfirmBeforeDelete bool
	ConfirmMessage      string
	SkipIndexRewrite    bool
}

// DefaultSettings returns the settings used when no option overrides them.
func DefaultSettings() Settings {
	return Settings{
		ShowHideDuration: DefaultShowHideDuration,
		CloneRow:         true,
		CleanNewRow:      true,
		ConfirmMessage:   confirm.DefaultMessage,
	}
}

// Callbacks are the lifecycle hooks exposed to the host. Before hooks veto
// the operation by returning false.
type Callbacks struct {
	BeforeRowAdded   func() bool
	RowAdded         func(row *html.Node)
	BeforeRowDeleted func(row *html.Node) bool
	RowDeleted       func(row *html.Node)
}

// Option configures an Editor.
type Option func(*Editor)

// WithSettings replaces every behavioural switch at once.
func WithSettings(settings Settings) Option {
	return func(e *Editor) {
		if settings.ShowHideDuration < 0 {
			settings.ShowHideDuration = 0
		}
		if strings.TrimSpace(settings.ConfirmMessage) == "" {
			settings.ConfirmMessage = confirm.DefaultMessage
		}
		e.settings = settings
	}
}

// WithSortable toggles drag reordering.
func WithSortable(enabled bool) Option {
	return func(e *Editor) {
		e.settings.Sortable = enabled
	}
}

// WithAllowLastRowDelete lets the user delete down to zero visible rows.
func WithAllowLastRowDelete(enabled bool) Option {
	return func(e *Editor) {
		e.settings.AllowLastRowDelete = enabled
	}
}

// WithShowHideDuration sets the fade duration. Zero disables animation.
func WithShowHideDuration(d time.Duration) Option {
	return func(e *Editor) {
		if d < 0 {
			d = 0
		}
		e.settings.ShowHideDuration = d
	}
}

// WithCloneRow toggles clone mode. Without it AddRow only notifies RowAdded
// and the host inserts its own row.
func WithCloneRow(enabled bool) Option {
	return func(e *Editor) {
		e.settings.CloneRow = enabled
	}
}

// WithCleanNewRow toggles resetting inputs of added rows.
func WithCleanNewRow(enabled bool) Option {
	return func(e *Editor) {
		e.settings.CleanNewRow = enabled
	}
}

// WithConfirmBeforeDelete asks for confirmation before deleting a row that
// still holds text. An empty message keeps the current one.
func WithConfirmBeforeDelete(enabled bool, message string) Option {
	return func(e *Editor) {
		e.settings.ConfirmBeforeDelete = enabled
		if strings.TrimSpace(message) != "" {
			e.settings.ConfirmMessage = message
		}
	}
}

// WithSkipIndexRewrite leaves names and ids of cloned rows untouched, for
// forms that are not bound to a list.
func WithSkipIndexRewrite(skip bool) Option {
	return func(e *Editor) {
		e.settings.SkipIndexRewrite = skip
	}
}

// WithMarkers overrides marker selectors; empty fields keep the defaults.
func WithMarkers(markers Markers) Option {
	return func(e *Editor) {
		e.markers = markers.merge(DefaultMarkers())
	}
}

// WithCallbacks sets the lifecycle hooks.
func WithCallbacks(callbacks Callbacks) Option {
	return func(e *Editor) {
		e.callbacks = callbacks
	}
}

// WithConfirmer sets a synchronous confirmer.
func WithConfirmer(c confirm.Confirmer) Option {
	return func(e *Editor) {
		e.confirmer = c
	}
}

// WithAsyncConfirmer sets a callback based confirmer. It takes precedence
// over a synchronous one.
func WithAsyncConfirmer(c confirm.AsyncConfirmer) Option {
	return func(e *Editor) {
		e.asyncConfirmer = c
	}
}

// WithLogger routes editor diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}
