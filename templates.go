package formrows

import (
	"io/fs"

	"github.com/goliatone/go-formrows/pkg/scaffold"
)

// EmbeddedTemplates exposes the built-in region templates so callers can
// reuse or extend them without importing the scaffold package directly.
func EmbeddedTemplates() fs.FS {
	return scaffold.TemplatesFS()
}
