package rows

import (
	"errors"
	"fmt"
)

var (
	// ErrTreeRequired is returned when no UI tree collaborator is supplied.
	ErrTreeRequired = errors.New("rows: tree is required")
	// ErrContainerRequired is returned when the container node is nil.
	ErrContainerRequired = errors.New("rows: container is required")
	// ErrSortableRootMissing is returned when sorting is requested but the
	// container has no element carrying the sortable marker. For tables the
	// marker belongs on the tbody.
	ErrSortableRootMissing = errors.New("rows: no sortable root found; add the sortable marker to the element wrapping the rows")
	// ErrConfirmerRequired is returned when confirmation before delete is
	// enabled without a confirmer.
	ErrConfirmerRequired = errors.New("rows: confirm before delete requires a confirmer")
	// ErrReorderDisabled is returned by MoveRow while reordering is off.
	ErrReorderDisabled = errors.New("rows: reordering is disabled")
)

// ConfigError reports a setup problem in the hosted markup or the editor
// options. It aborts construction.
type ConfigError struct {
	Container string
	Err       error
}

func (e *ConfigError) Error() string {
	if e == nil || e.Err == nil {
		return "rows: configuration error"
	}
	if e.Container == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%v (container %q)", e.Err, e.Container)
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
