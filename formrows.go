// Package formrows is the top-level entry point for editing repeatable row
// regions of HTML forms. It re-exports the pieces most hosts need: opening a
// document session, scaffolding new regions, and the editor options.
package formrows

import (
	"context"
	"io"

	"github.com/goliatone/go-formrows/internal/openapi"
	"github.com/goliatone/go-formrows/pkg/orchestrator"
	"github.com/goliatone/go-formrows/pkg/rows"
	"github.com/goliatone/go-formrows/pkg/scaffold"
)

// Session aliases orchestrator.Session for callers that only import the
// root package.
type Session = orchestrator.Session

// Region aliases scaffold.Region.
type Region = scaffold.Region

// Field aliases scaffold.Field.
type Field = scaffold.Field

// Editor aliases rows.Editor.
type Editor = rows.Editor

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Open parses the document read from r and binds an editor to every
// repeatable region in it.
func Open(ctx context.Context, r io.Reader, options ...orchestrator.Option) (*Session, error) {
	return orchestrator.New(options...).Open(ctx, orchestrator.Request{Source: r})
}

// Scaffold renders the markup of a new region using the bundled templates.
func Scaffold(region Region, out ...io.Writer) (string, error) {
	generator, err := scaffold.New()
	if err != nil {
		return "", err
	}
	return generator.Render(region, out...)
}

// RegionFromOpenAPI derives a region from an array property of the request
// body of operationID. An empty property picks the first collection.
func RegionFromOpenAPI(ctx context.Context, raw []byte, operationID, property string) (Region, error) {
	spec, err := openapi.Load(ctx, raw)
	if err != nil {
		return Region{}, err
	}
	return openapi.Region(spec, operationID, property)
}
