// Package openapi derives row regions from the array properties of an
// OpenAPI request body.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formrows/pkg/scaffold"
)

const (
	extensionKey    = "x-formrows"
	textareaMinimum = 256
)

var (
	// ErrOperationNotFound reports an unknown operationId.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoCollection reports a request body without a usable array property.
	ErrNoCollection = errors.New("openapi: no collection property")
)

var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Load parses an OpenAPI document and resolves its internal references.
func Load(ctx context.Context, raw []byte) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}
	return spec, nil
}

// Collections lists the array of object properties of the request body of
// operationID, sorted by name.
func Collections(spec *openapi3.T, operationID string) ([]string, error) {
	body, err := requestSchema(spec, operationID)
	if err != nil {
		return nil, err
	}
	var names []string
	for name, property := range body.Properties {
		if itemSchema(property) != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Region builds the region for property of the request body of operationID.
// An empty property picks the first collection. Scalar item properties
// become fields; nested objects and arrays are skipped.
func Region(spec *openapi3.T, operationID, property string) (scaffold.Region, error) {
	if property == "" {
		names, err := Collections(spec, operationID)
		if err != nil {
			return scaffold.Region{}, err
		}
		if len(names) == 0 {
			return scaffold.Region{}, fmt.Errorf("%w in %q", ErrNoCollection, operationID)
		}
		property = names[0]
	}

	body, err := requestSchema(spec, operationID)
	if err != nil {
		return scaffold.Region{}, err
	}
	ref := body.Properties[property]
	items := itemSchema(ref)
	if items == nil {
		return scaffold.Region{}, fmt.Errorf("%w: %q of %q is not an array of objects", ErrNoCollection, property, operationID)
	}

	region := scaffold.Region{
		ID:         strings.ToLower(property),
		Collection: property,
		Rows:       int(ref.Value.MinItems),
	}
	ext := extension(ref.Value.Extensions)
	region.Sortable, _ = ext["sortable"].(bool)
	region.Sequence, _ = ext["sequence"].(bool)
	if label, ok := ext["add_label"].(string); ok {
		region.AddLabel = label
	}

	required := make(map[string]struct{}, len(items.Required))
	for _, name := range items.Required {
		required[name] = struct{}{}
	}
	names := make([]string, 0, len(items.Properties))
	for name := range items.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		field, ok := convertField(name, items.Properties[name])
		if !ok {
			continue
		}
		_, field.Required = required[name]
		region.Fields = append(region.Fields, field)
	}
	return region.Normalize()
}

func requestSchema(spec *openapi3.T, operationID string) (*openapi3.Schema, error) {
	if spec == nil || spec.Paths == nil {
		return nil, errors.New("openapi: document is required")
	}
	for _, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for _, operation := range []*openapi3.Operation{item.Post, item.Put, item.Patch, item.Get, item.Delete} {
			if operation == nil || operation.OperationID != operationID {
				continue
			}
			schema := bodySchema(operation.RequestBody)
			if schema == nil {
				return nil, fmt.Errorf("%w: %q has no request body schema", ErrNoCollection, operationID)
			}
			return schema, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
}

func bodySchema(requestBody *openapi3.RequestBodyRef) *openapi3.Schema {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// itemSchema returns the object schema of an array property, or nil.
func itemSchema(ref *openapi3.SchemaRef) *openapi3.Schema {
	if ref == nil || ref.Value == nil || schemaType(ref.Value.Type) != "array" {
		return nil
	}
	items := ref.Value.Items
	if items == nil || items.Value == nil || schemaType(items.Value.Type) != "object" {
		return nil
	}
	return items.Value
}

func convertField(name string, ref *openapi3.SchemaRef) (scaffold.Field, bool) {
	if ref == nil || ref.Value == nil {
		return scaffold.Field{}, false
	}
	src := ref.Value
	field := scaffold.Field{Name: name, Label: src.Title}
	if src.Default != nil {
		field.Value = fmt.Sprint(src.Default)
	}

	if len(src.Enum) > 0 {
		field.Type = scaffold.KindSelect
		for _, value := range src.Enum {
			field.Choices = append(field.Choices, scaffold.Choice{Value: fmt.Sprint(value)})
		}
		return field, true
	}

	switch schemaType(src.Type) {
	case "boolean":
		field.Type = scaffold.KindCheckbox
	case "integer", "number":
		field.Type = "number"
	case "string":
		field.Type = stringInputType(src)
	default:
		return scaffold.Field{}, false
	}
	return field, true
}

func stringInputType(src *openapi3.Schema) string {
	switch src.Format {
	case "email":
		return "email"
	case "date":
		return "date"
	case "date-time":
		return "datetime-local"
	case "uri", "url":
		return "url"
	case "password":
		return "password"
	}
	if src.MaxLength != nil && *src.MaxLength >= textareaMinimum {
		return scaffold.KindTextarea
	}
	return scaffold.KindText
}

func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func extension(raw map[string]any) map[string]any {
	value, ok := raw[extensionKey]
	if !ok {
		return nil
	}
	mapped, _ := value.(map[string]any)
	return mapped
}
