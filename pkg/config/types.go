package config

import (
	"time"

	"github.com/goliatone/go-formrows/pkg/rows"
)

// EditorConfig holds the file-based settings of one container. Pointer
// fields distinguish "unset" from an explicit false.
type EditorConfig struct {
	// Container is the id the settings are keyed by.
	Container string `json:"-" yaml:"-"`
	// Source is the file the settings were read from.
	Source string `json:"-" yaml:"-"`

	Sortable            *bool         `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	AllowLastRowDelete  *bool         `json:"allow_last_row_delete,omitempty" yaml:"allow_last_row_delete,omitempty"`
	ShowHideDuration    string        `json:"show_hide_duration,omitempty" yaml:"show_hide_duration,omitempty"`
	CloneRow            *bool         `json:"clone_row,omitempty" yaml:"clone_row,omitempty"`
	CleanNewRow         *bool         `json:"clean_new_row,omitempty" yaml:"clean_new_row,omitempty"`
	ConfirmBeforeDelete *bool         `json:"confirm_before_delete,omitempty" yaml:"confirm_before_delete,omitempty"`
	ConfirmMessage      string        `json:"confirm_message,omitempty" yaml:"confirm_message,omitempty"`
	SkipIndexRewrite    *bool         `json:"skip_index_rewrite,omitempty" yaml:"skip_index_rewrite,omitempty"`
	Markers             MarkersConfig `json:"markers,omitempty" yaml:"markers,omitempty"`

	duration    time.Duration
	hasDuration bool
}

// MarkersConfig overrides marker selectors. Empty entries keep the defaults.
type MarkersConfig struct {
	Row           string `json:"row,omitempty" yaml:"row,omitempty"`
	Add           string `json:"add,omitempty" yaml:"add,omitempty"`
	Remove        string `json:"remove,omitempty" yaml:"remove,omitempty"`
	Sortable      string `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	DragHandle    string `json:"drag_handle,omitempty" yaml:"drag_handle,omitempty"`
	SequenceField string `json:"sequence_field,omitempty" yaml:"sequence_field,omitempty"`
	CleanExclude  string `json:"clean_exclude,omitempty" yaml:"clean_exclude,omitempty"`
}

func (m MarkersConfig) empty() bool {
	return m == MarkersConfig{}
}

// Duration returns the parsed show/hide duration and whether one was set.
func (c EditorConfig) Duration() (time.Duration, bool) {
	return c.duration, c.hasDuration
}

// Options converts the settings into editor options. Only the switches
// present in the file are emitted.
func (c EditorConfig) Options() []rows.Option {
	var opts []rows.Option
	if c.Sortable != nil {
		opts = append(opts, rows.WithSortable(*c.Sortable))
	}
	if c.AllowLastRowDelete != nil {
		opts = append(opts, rows.WithAllowLastRowDelete(*c.AllowLastRowDelete))
	}
	if c.hasDuration {
		opts = append(opts, rows.WithShowHideDuration(c.duration))
	}
	if c.CloneRow != nil {
		opts = append(opts, rows.WithCloneRow(*c.CloneRow))
	}
	if c.CleanNewRow != nil {
		opts = append(opts, rows.WithCleanNewRow(*c.CleanNewRow))
	}
	if c.ConfirmBeforeDelete != nil || c.ConfirmMessage != "" {
		enabled := c.ConfirmBeforeDelete != nil && *c.ConfirmBeforeDelete
		opts = append(opts, rows.WithConfirmBeforeDelete(enabled, c.ConfirmMessage))
	}
	if c.SkipIndexRewrite != nil {
		opts = append(opts, rows.WithSkipIndexRewrite(*c.SkipIndexRewrite))
	}
	if !c.Markers.empty() {
		opts = append(opts, rows.WithMarkers(rows.Markers{
			Row:           c.Markers.Row,
			Add:           c.Markers.Add,
			Remove:        c.Markers.Remove,
			Sortable:      c.Markers.Sortable,
			DragHandle:    c.Markers.DragHandle,
			SequenceField: c.Markers.SequenceField,
			CleanExclude:  c.Markers.CleanExclude,
		}))
	}
	return opts
}

// Store holds the editor settings keyed by container id.
type Store struct {
	editors map[string]EditorConfig
}
