package formdata

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/goliatone/go-formrows/pkg/dom"
)

const (
	// ErrorClass marks a field that failed validation. Copied rows drop it.
	ErrorClass = "has-error"
	// MessageClass marks the inline message placed after an invalid field.
	MessageClass = "field-validation-error"
	// SummaryClass marks the container of form level messages.
	SummaryClass = "validation-summary-errors"
)

// ErrorMapping splits a validation payload into messages keyed by the field
// names found in the document and form level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// FieldNames lists the distinct control names under root in document order.
func FieldNames(tree dom.Tree, root *html.Node) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, field := range tree.QueryAll(root, "input[name], select[name], textarea[name]") {
		name, _ := tree.Attr(field, "name")
		if strings.TrimSpace(name) == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// MapErrors normalises payload keys onto names. Keys may use the bound
// field syntax (Items[1].Name), dotted paths (items.1.name) or JSON pointers
// (/items/1/name); matching ignores case and leading wrapper segments such as
// body or data. Keys that match no field become form level messages so
// nothing is lost.
func MapErrors(names []string, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		return ErrorMapping{}
	}

	paths := make(map[string]string, len(names))
	for _, name := range names {
		if key := pathKey(parsePathSegments(name)); key != "" {
			paths[key] = name
		}
	}

	for rawPath, messages := range payload {
		normalized := normalizeMessages(messages)
		if len(normalized) == 0 {
			continue
		}
		name, formLevel := mapErrorPath(rawPath, paths)
		if formLevel {
			mapping.Form = append(mapping.Form, normalized...)
			continue
		}
		mapping.Fields[name] = append(mapping.Fields[name], normalized...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

// MergeFormErrors concatenates form level messages, trimming whitespace and
// dropping duplicates while keeping order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// ApplyErrors marks the fields named in mapping and places their messages
// after them. Form level messages go into a summary at the top of root.
// Messages from an earlier call are replaced. It returns how many fields
// were marked.
func ApplyErrors(tree dom.Tree, root *html.Node, mapping ErrorMapping) int {
	for _, stale := range tree.QueryAll(root, "."+MessageClass+", ."+SummaryClass) {
		tree.Remove(stale)
	}

	marked := 0
	for _, field := range tree.QueryAll(root, "input[name], select[name], textarea[name]") {
		name, _ := tree.Attr(field, "name")
		messages := mapping.Fields[name]
		if len(messages) == 0 {
			continue
		}
		addClass(tree, field, ErrorClass)
		attrs := []string{"class", MessageClass}
		if id, _ := tree.Attr(field, "id"); id != "" {
			attrs = append(attrs, "for", id)
		}
		message := element(atom.Span, attrs...)
		message.AppendChild(&html.Node{Type: html.TextNode, Data: strings.Join(messages, " ")})
		tree.InsertAfter(field, message)
		marked++
	}

	if len(mapping.Form) > 0 {
		summary := element(atom.Div, "class", SummaryClass, "role", "alert")
		list := element(atom.Ul)
		for _, text := range mapping.Form {
			item := element(atom.Li)
			item.AppendChild(&html.Node{Type: html.TextNode, Data: text})
			list.AppendChild(item)
		}
		summary.AppendChild(list)
		if root.FirstChild != nil {
			root.InsertBefore(summary, root.FirstChild)
		} else {
			root.AppendChild(summary)
		}
	}
	return marked
}

func addClass(tree dom.Tree, node *html.Node, class string) {
	current, _ := tree.Attr(node, "class")
	for _, c := range strings.Fields(current) {
		if c == class {
			return
		}
	}
	tree.SetAttr(node, "class", strings.TrimSpace(current+" "+class))
}

func element(a atom.Atom, attrs ...string) *html.Node {
	node := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		node.Attr = append(node.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return node
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, paths map[string]string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}

	segments := parsePathSegments(trimmed)
	if len(segments) == 0 {
		return "", true
	}

	for _, variant := range [][]string{segments, dropWrapperSegments(segments)} {
		for end := len(variant); end > 0; end-- {
			if name, ok := paths[pathKey(variant[:end])]; ok {
				return name, false
			}
		}
	}
	return "", true
}

// parsePathSegments splits the supported path syntaxes into segments:
// Items[1].Name, items.1.name and /items/1/name all yield items, 1, name.
func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$.")
	clean = strings.TrimLeft(clean, "#/.$")

	replacer := strings.NewReplacer("[", ".", "]", "")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func pathKey(segments []string) string {
	return strings.ToLower(strings.Join(segments, "."))
}

var wrapperSegments = map[string]struct{}{
	"body":       {},
	"request":    {},
	"payload":    {},
	"data":       {},
	"attributes": {},
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
