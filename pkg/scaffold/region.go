package scaffold

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field kinds understood by the bundled template. Any other value is emitted
// as the type of a plain input.
const (
	KindText     = "text"
	KindCheckbox = "checkbox"
	KindSelect   = "select"
	KindTextarea = "textarea"
)

const (
	defaultAddLabel    = "Add row"
	defaultRemoveLabel = "Remove"
)

var (
	ErrRegionID   = errors.New("scaffold: region id is required")
	ErrCollection = errors.New("scaffold: collection name is required")
	ErrNoFields   = errors.New("scaffold: region needs at least one field")
)

// Region describes a repeatable row region.
type Region struct {
	// ID becomes the container id.
	ID string `json:"id" yaml:"id"`
	// Collection is the bound list property, the Items in Items[0].Name.
	Collection  string  `json:"collection" yaml:"collection"`
	Fields      []Field `json:"fields" yaml:"fields"`
	Rows        int     `json:"rows,omitempty" yaml:"rows,omitempty"`
	Sortable    bool    `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Sequence    bool    `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	AddLabel    string  `json:"add_label,omitempty" yaml:"add_label,omitempty"`
	RemoveLabel string  `json:"remove_label,omitempty" yaml:"remove_label,omitempty"`
}

// Field is one input repeated in every row.
type Field struct {
	Name     string   `json:"name" yaml:"name"`
	Label    string   `json:"label,omitempty" yaml:"label,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Value    string   `json:"value,omitempty" yaml:"value,omitempty"`
	Required bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Choices  []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Choice is a select option.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// ParseRegion reads a region description from YAML or JSON.
func ParseRegion(data []byte) (Region, error) {
	var region Region
	if err := yaml.Unmarshal(data, &region); err != nil {
		return Region{}, fmt.Errorf("scaffold: parse region: %w", err)
	}
	return region.Normalize()
}

// ParseFieldSpec reads the compact name[:type[:label]] form used on the
// command line. Select choices follow the type as a comma list:
// Size:select=s,m,l:Size.
func ParseFieldSpec(spec string) (Field, error) {
	parts := strings.SplitN(strings.TrimSpace(spec), ":", 3)
	field := Field{Name: strings.TrimSpace(parts[0])}
	if field.Name == "" {
		return Field{}, fmt.Errorf("scaffold: field spec %q has no name", spec)
	}
	if len(parts) > 1 {
		kind, choices, _ := strings.Cut(strings.TrimSpace(parts[1]), "=")
		field.Type = strings.TrimSpace(kind)
		for _, value := range strings.Split(choices, ",") {
			if value = strings.TrimSpace(value); value != "" {
				field.Choices = append(field.Choices, Choice{Value: value})
			}
		}
	}
	if len(parts) > 2 {
		field.Label = strings.TrimSpace(parts[2])
	}
	return field, nil
}

// Normalize validates r and fills defaults.
func (r Region) Normalize() (Region, error) {
	r.ID = strings.TrimSpace(r.ID)
	r.Collection = strings.TrimSpace(r.Collection)
	if r.ID == "" {
		return Region{}, ErrRegionID
	}
	if r.Collection == "" {
		return Region{}, ErrCollection
	}
	if len(r.Fields) == 0 {
		return Region{}, ErrNoFields
	}
	if r.Rows < 1 {
		r.Rows = 1
	}
	if strings.TrimSpace(r.AddLabel) == "" {
		r.AddLabel = defaultAddLabel
	}
	if strings.TrimSpace(r.RemoveLabel) == "" {
		r.RemoveLabel = defaultRemoveLabel
	}

	fields := make([]Field, len(r.Fields))
	seen := make(map[string]struct{}, len(r.Fields))
	for i, field := range r.Fields {
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return Region{}, fmt.Errorf("scaffold: region %q field %d has no name", r.ID, i)
		}
		if strings.ContainsAny(field.Name, "[]") {
			return Region{}, fmt.Errorf("scaffold: region %q field %q must not carry an index", r.ID, field.Name)
		}
		if _, dup := seen[field.Name]; dup {
			return Region{}, fmt.Errorf("scaffold: region %q defines field %q twice", r.ID, field.Name)
		}
		seen[field.Name] = struct{}{}

		field.Type = strings.ToLower(strings.TrimSpace(field.Type))
		if field.Type == "" {
			field.Type = KindText
		}
		if field.Label == "" {
			field.Label = field.Name
		}
		if field.Type == KindSelect && len(field.Choices) == 0 {
			return Region{}, fmt.Errorf("scaffold: region %q select %q has no choices", r.ID, field.Name)
		}
		choices := make([]Choice, len(field.Choices))
		for j, choice := range field.Choices {
			if choice.Label == "" {
				choice.Label = choice.Value
			}
			choices[j] = choice
		}
		field.Choices = choices
		fields[i] = field
	}
	r.Fields = fields
	return r, nil
}

// FieldName is the bound name of field in row index: Items[0].Name.
func (r Region) FieldName(index int, field string) string {
	return fmt.Sprintf("%s[%d].%s", r.Collection, index, field)
}
