package rows

import (
	"strings"

	"golang.org/x/net/html"
)

const errorClass = "has-error"

// textInputTypes are the input types treated as free text, both when
// cleaning a row and when deciding whether it still holds user input.
var textInputTypes = map[string]struct{}{
	"":               {},
	"text":           {},
	"email":          {},
	"number":         {},
	"tel":            {},
	"url":            {},
	"search":         {},
	"password":       {},
	"date":           {},
	"time":           {},
	"datetime-local": {},
	"month":          {},
	"week":           {},
}

func (e *Editor) isTextField(node *html.Node) bool {
	switch strings.ToLower(node.Data) {
	case "textarea":
		return true
	case "input":
		kind, _ := e.tree.Attr(node, "type")
		_, ok := textInputTypes[strings.ToLower(strings.TrimSpace(kind))]
		return ok
	default:
		return false
	}
}

func (e *Editor) fieldValue(node *html.Node) string {
	if strings.EqualFold(node.Data, "textarea") {
		return e.tree.Text(node)
	}
	value, _ := e.tree.Attr(node, "value")
	return value
}

// rowHasInput reports whether any text field of row holds a value.
func (e *Editor) rowHasInput(row *html.Node) bool {
	for _, field := range e.tree.QueryAll(row, "input, textarea") {
		if e.isTextField(field) && e.fieldValue(field) != "" {
			return true
		}
	}
	return false
}

// cleanRow resets text fields, unchecks checkboxes and radios, and returns
// selects to their first option.
func (e *Editor) cleanRow(row *html.Node) {
	for _, field := range e.tree.QueryAll(row, "input, textarea, select") {
		if e.markers.CleanExclude != "" && e.tree.Matches(field, e.markers.CleanExclude) {
			continue
		}
		switch strings.ToLower(field.Data) {
		case "textarea":
			e.tree.SetText(field, "")
		case "select":
			for _, option := range e.tree.QueryAll(field, "option") {
				e.tree.RemoveAttr(option, "selected")
			}
		case "input":
			kind, _ := e.tree.Attr(field, "type")
			switch strings.ToLower(strings.TrimSpace(kind)) {
			case "checkbox", "radio":
				e.tree.RemoveAttr(field, "checked")
			default:
				if e.isTextField(field) {
					e.tree.SetAttr(field, "value", "")
				}
			}
		}
	}
}

// clearValidation drops error classes and the validation messages that
// point at fields of row, so a copied row does not start out invalid.
func (e *Editor) clearValidation(row *html.Node) {
	for _, node := range e.tree.QueryAll(row, "."+errorClass) {
		class, _ := e.tree.Attr(node, "class")
		kept := make([]string, 0, 4)
		for _, c := range strings.Fields(class) {
			if c != errorClass {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			e.tree.RemoveAttr(node, "class")
			continue
		}
		e.tree.SetAttr(node, "class", strings.Join(kept, " "))
	}

	ids := make(map[string]struct{})
	for _, node := range e.tree.QueryAll(row, "[id]") {
		if id, _ := e.tree.Attr(node, "id"); id != "" {
			ids[id] = struct{}{}
		}
	}
	if len(ids) == 0 {
		return
	}
	for _, message := range e.tree.QueryAll(row, "span[for]") {
		target, _ := e.tree.Attr(message, "for")
		if _, ok := ids[target]; ok {
			e.tree.Remove(message)
		}
	}
}
