// Package scaffold renders the initial markup of a repeatable row region:
// the container, the rows carrying indexed fields, the add and remove
// triggers, and optionally the sortable root with drag handles and a hidden
// sequence field per row. The output carries the default markers expected by
// rows.Editor.
package scaffold
