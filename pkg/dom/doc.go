// Package dom defines the UI-tree contract consumed by the row editor: element
// queries, attribute and style mutation, cloning, insertion and removal,
// visibility changes with an optional animation duration, drag-reorder state,
// and delegated event subscriptions. Nodes are golang.org/x/net/html nodes so
// any host that can mirror its UI into that structure can drive an editor.
//
// Completion of animated show/hide operations is the only asynchronous
// boundary. Schedulers in this package decide on which goroutine those
// completions run; Loop marshals them back onto the goroutine that drains it.
package dom
