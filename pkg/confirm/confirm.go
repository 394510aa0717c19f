// Package confirm provides the confirmation collaborators the row editor asks
// before deleting a row that still holds user input. Decisions may be
// synchronous (Confirmer) or delivered later through a callback
// (AsyncConfirmer); a modal rendered into the UI tree is the typical async
// case, a terminal prompt the typical sync one.
package confirm

import (
	"context"
	"errors"
)

// DefaultMessage is shown when no message is configured.
const DefaultMessage = "Do you want to remove this row?"

// ErrAborted signals the user aborted the prompt (e.g., Ctrl+C).
var ErrAborted = errors.New("confirm: aborted")

// Confirmer answers a confirmation request synchronously.
type Confirmer interface {
	Confirm(ctx context.Context, message string) (bool, error)
}

// AsyncConfirmer delivers its decision through decide, possibly long after
// the request returned. Implementations must call decide at most once.
type AsyncConfirmer interface {
	RequestConfirmation(ctx context.Context, message string, decide func(bool))
}

// Static always answers with the same decision.
type Static bool

// Confirm implements Confirmer.
func (s Static) Confirm(ctx context.Context, _ string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return bool(s), nil
}

// Func adapts a function to Confirmer.
type Func func(ctx context.Context, message string) (bool, error)

// Confirm implements Confirmer.
func (f Func) Confirm(ctx context.Context, message string) (bool, error) {
	return f(ctx, message)
}

// AsyncFunc adapts a function to AsyncConfirmer.
type AsyncFunc func(ctx context.Context, message string, decide func(bool))

// RequestConfirmation implements AsyncConfirmer.
func (f AsyncFunc) RequestConfirmation(ctx context.Context, message string, decide func(bool)) {
	f(ctx, message, decide)
}

// Deferred queues requests until the host resolves them. It is useful when
// the decision comes from outside the process, and in tests.
type Deferred struct {
	pending []deferredRequest
}

type deferredRequest struct {
	message string
	decide  func(bool)
}

// RequestConfirmation implements AsyncConfirmer.
func (d *Deferred) RequestConfirmation(_ context.Context, message string, decide func(bool)) {
	d.pending = append(d.pending, deferredRequest{message: message, decide: decide})
}

// Pending returns the messages still awaiting a decision, oldest first.
func (d *Deferred) Pending() []string {
	out := make([]string, 0, len(d.pending))
	for _, req := range d.pending {
		out = append(out, req.message)
	}
	return out
}

// Resolve answers the oldest pending request. It reports false when nothing
// is pending.
func (d *Deferred) Resolve(ok bool) bool {
	if len(d.pending) == 0 {
		return false
	}
	next := d.pending[0]
	d.pending = d.pending[1:]
	if next.decide != nil {
		next.decide(ok)
	}
	return true
}
