package htmltree

import "strings"

type declaration struct {
	property string
	value    string
}

func parseStyle(raw string) []declaration {
	var out []declaration
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		out = append(out, declaration{property: prop, value: strings.TrimSpace(value)})
	}
	return out
}

func formatStyle(decls []declaration) string {
	if len(decls) == 0 {
		return ""
	}
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.property+": "+d.value)
	}
	return strings.Join(parts, "; ")
}

func styleProperty(raw, property string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	value := ""
	for _, d := range parseStyle(raw) {
		if d.property == property {
			value = d.value
		}
	}
	return value
}

// setStyleProperty replaces property in place, appends it when missing, and
// drops it when value is empty.
func setStyleProperty(raw, property, value string) string {
	property = strings.ToLower(strings.TrimSpace(property))
	value = strings.TrimSpace(value)
	decls := parseStyle(raw)
	out := decls[:0]
	replaced := false
	for _, d := range decls {
		if d.property != property {
			out = append(out, d)
			continue
		}
		if replaced || value == "" {
			continue
		}
		out = append(out, declaration{property: property, value: value})
		replaced = true
	}
	if !replaced && value != "" && property != "" {
		out = append(out, declaration{property: property, value: value})
	}
	return formatStyle(out)
}
