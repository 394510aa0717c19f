package template

import (
	"io"
)

// TemplateRenderer is the seam the scaffold renders through.
type TemplateRenderer interface {
	// RenderTemplate renders a named template from the renderer's sources.
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	// RenderString renders inline template content.
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	// RegisterFilter makes fn available to templates as name.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}
