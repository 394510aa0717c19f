package formdata

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formrows/pkg/dom"
)

// Value is one name/value pair of a submission.
type Value struct {
	Name  string
	Value string
}

// Hidden returns a Value for an arbitrary name/value pair.
func Hidden(name string, value any) Value {
	return Value{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// CSRFToken constructs the hidden value carrying token under name.
func CSRFToken(name, token string) Value {
	return Hidden(name, token)
}

// VersionField constructs a hidden value used for optimistic locking.
func VersionField(name string, version any) Value {
	return Hidden(name, version)
}

var skippedInputTypes = map[string]struct{}{
	"button": {},
	"submit": {},
	"reset":  {},
	"image":  {},
	"file":   {},
}

// Collect returns the successful controls under root in document order.
// Controls hidden with CSS still count, as they do in a browser, which is
// why removed rows must be pruned before a submission.
func Collect(tree dom.Tree, root *html.Node) []Value {
	var out []Value
	for _, field := range tree.QueryAll(root, "input[name], select[name], textarea[name]") {
		name, _ := tree.Attr(field, "name")
		if strings.TrimSpace(name) == "" || disabled(tree, field) {
			continue
		}
		switch strings.ToLower(field.Data) {
		case "textarea":
			out = append(out, Value{Name: name, Value: tree.Text(field)})
		case "select":
			out = append(out, selectValues(tree, field, name)...)
		default:
			kind, _ := tree.Attr(field, "type")
			kind = strings.ToLower(strings.TrimSpace(kind))
			if _, skip := skippedInputTypes[kind]; skip {
				continue
			}
			value, hasValue := tree.Attr(field, "value")
			if kind == "checkbox" || kind == "radio" {
				if _, checked := tree.Attr(field, "checked"); !checked {
					continue
				}
				if !hasValue {
					value = "on"
				}
			}
			out = append(out, Value{Name: name, Value: value})
		}
	}
	return out
}

func selectValues(tree dom.Tree, field *html.Node, name string) []Value {
	options := tree.QueryAll(field, "option")
	_, multiple := tree.Attr(field, "multiple")

	var out []Value
	for _, option := range options {
		if _, selected := tree.Attr(option, "selected"); selected {
			out = append(out, Value{Name: name, Value: optionValue(tree, option)})
		}
	}
	if len(out) == 0 && !multiple && len(options) > 0 {
		out = append(out, Value{Name: name, Value: optionValue(tree, options[0])})
	}
	return out
}

func optionValue(tree dom.Tree, option *html.Node) string {
	if value, ok := tree.Attr(option, "value"); ok {
		return value
	}
	return strings.TrimSpace(tree.Text(option))
}

func disabled(tree dom.Tree, field *html.Node) bool {
	if _, ok := tree.Attr(field, "disabled"); ok {
		return true
	}
	return tree.Closest(field, "fieldset[disabled]") != nil
}

// Merge returns values with extras applied. An extra replaces every value
// of the same name; empty names are ignored.
func Merge(values []Value, extras ...Value) []Value {
	replaced := make(map[string]struct{}, len(extras))
	for _, extra := range extras {
		if name := strings.TrimSpace(extra.Name); name != "" {
			replaced[name] = struct{}{}
		}
	}

	out := make([]Value, 0, len(values)+len(extras))
	for _, value := range values {
		if _, ok := replaced[value.Name]; ok {
			continue
		}
		out = append(out, value)
	}
	for _, extra := range extras {
		if name := strings.TrimSpace(extra.Name); name != "" {
			out = append(out, Value{Name: name, Value: extra.Value})
		}
	}
	return out
}

// Encode renders values as an application/x-www-form-urlencoded body,
// keeping their order.
func Encode(values []Value) string {
	var b strings.Builder
	for i, value := range values {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(value.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(value.Value))
	}
	return b.String()
}

// Lookup returns every value posted under name.
func Lookup(values []Value, name string) []string {
	var out []string
	for _, value := range values {
		if value.Name == name {
			out = append(out, value.Value)
		}
	}
	return out
}
