package rows

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
)

var (
	// Items[0].Name
	bracketTokens = []*regexp.Regexp{regexp.MustCompile(`\[(\d+)\]`)}
	// Items_0__Name. The strict form wins so digits inside a property name
	// (Phones2_0__Number) are left alone; the loose form still catches ids
	// written without the usual underscores.
	underscoreTokens = []*regexp.Regexp{
		regexp.MustCompile(`_(\d+)__`),
		regexp.MustCompile(`_*(\d+)_*`),
	}
)

type token struct {
	start, end int
	value      int
}

// findToken returns the first match of the first pattern that matches s.
func findToken(patterns []*regexp.Regexp, s string) (token, bool) {
	for _, re := range patterns {
		loc := re.FindStringSubmatchIndex(s)
		if loc == nil {
			continue
		}
		value, err := strconv.Atoi(s[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		return token{start: loc[0], end: loc[1], value: value}, true
	}
	return token{}, false
}

func bracketed(n int) string { return "[" + strconv.Itoa(n) + "]" }
func underscored(n int) string { return "_" + strconv.Itoa(n) + "__" }

// identifierAttr is the attribute carrying the underscore token: labels refer
// to their input through for, everything else through id.
func identifierAttr(field *html.Node) string {
	if field != nil && strings.EqualFold(field.Data, "label") {
		return "for"
	}
	return "id"
}

// rewrite replaces the first token matched by patterns in attribute name with
// the value produced by next. Fields without the attribute or without a
// parsable token are left alone.
func rewrite(tree dom.Tree, field *html.Node, name string, patterns []*regexp.Regexp, next func(int) int, format func(int) string) bool {
	raw, ok := tree.Attr(field, name)
	if !ok || raw == "" {
		return false
	}
	tok, ok := findToken(patterns, raw)
	if !ok {
		return false
	}
	tree.SetAttr(field, name, raw[:tok.start]+format(next(tok.value))+raw[tok.end:])
	return true
}

// RewriteIndex increments the first bracket token of the field's name and
// the first underscore token of its id (for on labels). It is not idempotent:
// applying it twice increments twice.
func RewriteIndex(tree dom.Tree, field *html.Node) {
	if tree == nil || field == nil || field.Type != html.ElementNode {
		return
	}
	inc := func(v int) int { return v + 1 }
	rewrite(tree, field, "name", bracketTokens, inc, bracketed)
	rewrite(tree, field, identifierAttr(field), underscoreTokens, inc, underscored)
}

// ApplyIndex writes index into the same token positions RewriteIndex
// touches, so every field of a row can be derived from one value.
func ApplyIndex(tree dom.Tree, field *html.Node, index int) {
	if tree == nil || field == nil || field.Type != html.ElementNode || index < 0 {
		return
	}
	set := func(int) int { return index }
	rewrite(tree, field, "name", bracketTokens, set, bracketed)
	rewrite(tree, field, identifierAttr(field), underscoreTokens, set, underscored)
}

// FieldIndex reads the index a single field carries, preferring the bracket
// token of its name.
func FieldIndex(tree dom.Tree, field *html.Node) (int, bool) {
	if tree == nil || field == nil {
		return 0, false
	}
	if raw, ok := tree.Attr(field, "name"); ok {
		if tok, ok := findToken(bracketTokens, raw); ok {
			return tok.value, true
		}
	}
	if raw, ok := tree.Attr(field, identifierAttr(field)); ok {
		if tok, ok := findToken(underscoreTokens, raw); ok {
			return tok.value, true
		}
	}
	return 0, false
}

// RowIndex returns the canonical index of row: the value of its sequence
// field when present, otherwise the first index found on a descendant field.
func (e *Editor) RowIndex(row *html.Node) (int, bool) {
	if row == nil {
		return 0, false
	}
	for _, seq := range e.tree.QueryAll(row, e.markers.SequenceField) {
		if e.nestedIn(row, seq) {
			continue
		}
		raw, _ := e.tree.Attr(seq, "value")
		if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v >= 0 {
			return v, true
		}
	}
	for _, field := range e.tree.QueryAll(row, "[name], [id], label[for]") {
		if e.ownSequenceField(row, field) {
			continue
		}
		if v, ok := FieldIndex(e.tree, field); ok {
			return v, true
		}
	}
	return 0, false
}

// ownSequenceField reports whether node is the sequence field of row itself
// rather than one belonging to a row nested inside it.
func (e *Editor) ownSequenceField(row, node *html.Node) bool {
	return e.tree.Matches(node, e.markers.SequenceField) && !e.nestedIn(row, node)
}

// nestedIn reports whether node sits inside another row below row.
func (e *Editor) nestedIn(row, node *html.Node) bool {
	return len(e.rowsAbove(node, row)) > 0
}

// renumber gives a freshly cloned row the index following its source. All
// tokens derive from one canonical value; when the source carries none the
// per-field increment is used instead. Sequence fields of nested rows keep
// their value and only have their name renumbered.
func (e *Editor) renumber(source, clone *html.Node) {
	fields := e.tree.QueryAll(clone, "*")

	current, ok := e.RowIndex(source)
	if !ok {
		e.logger.Debug("rows: no canonical index on source row, incrementing per field")
		for _, field := range fields {
			if e.ownSequenceField(clone, field) {
				continue
			}
			RewriteIndex(e.tree, field)
		}
		return
	}

	next := current + 1
	for _, field := range fields {
		if e.ownSequenceField(clone, field) {
			e.tree.SetAttr(field, "value", strconv.Itoa(next))
			continue
		}
		ApplyIndex(e.tree, field, next)
	}
}
