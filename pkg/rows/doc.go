// Package rows implements the editor for repeatable row regions of a form: a
// container holding structurally identical rows such as line items.
//
// The editor finds rows by marker (Rows), appends copies of the last row with
// every list index rewritten (AddRow), fades rows out and removes them after
// an optional confirmation (RemoveRow), and keeps the delete triggers and the
// drag-reorder state in line with the current row count.
//
// Two encodings of the same per-row index are kept in sync on cloned rows:
// the bracket form used by model binders in field names (Items[0].Name) and
// the underscore form in element ids (Items_0__Name). A hidden sequence field
// (input[data-row-index] or a hidden "*.Index" input) carries the canonical
// value; all tokens of a cloned row are derived from it. Deleting a row never
// renumbers the survivors.
//
// Editors are bound to containers through New or an Editors registry, which
// replaces the previous editor when a container is bound again.
package rows
