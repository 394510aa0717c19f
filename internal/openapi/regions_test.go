package openapi_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formrows/internal/openapi"
	"github.com/goliatone/go-formrows/pkg/scaffold"
)

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", "orders.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	spec, err := openapi.Load(context.Background(), raw)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return spec
}

func TestCollections(t *testing.T) {
	names, err := openapi.Collections(loadSpec(t), "createOrder")
	if err != nil {
		t.Fatalf("collections: %v", err)
	}
	if diff := cmp.Diff([]string{"lines"}, names); diff != "" {
		t.Fatalf("collections mismatch (-want +got):\n%s", diff)
	}
}

func TestRegion(t *testing.T) {
	region, err := openapi.Region(loadSpec(t), "createOrder", "")
	if err != nil {
		t.Fatalf("region: %v", err)
	}

	want := scaffold.Region{
		ID:          "lines",
		Collection:  "lines",
		Rows:        2,
		Sortable:    true,
		Sequence:    true,
		AddLabel:    "Add line",
		RemoveLabel: "Remove",
		Fields: []scaffold.Field{
			{Name: "email", Label: "email", Type: "email"},
			{Name: "gift", Label: "gift", Type: scaffold.KindCheckbox},
			{Name: "notes", Label: "notes", Type: scaffold.KindTextarea},
			{Name: "quantity", Label: "quantity", Type: "number", Value: "1"},
			{Name: "size", Label: "size", Type: scaffold.KindSelect, Value: "m", Choices: []scaffold.Choice{
				{Value: "s", Label: "s"}, {Value: "m", Label: "m"}, {Value: "l", Label: "l"},
			}},
			{Name: "sku", Label: "SKU", Type: scaffold.KindText, Required: true},
		},
	}
	if diff := cmp.Diff(want, region); diff != "" {
		t.Fatalf("region mismatch (-want +got):\n%s", diff)
	}
}

func TestRegionRendersRequiredFields(t *testing.T) {
	region, err := openapi.Region(loadSpec(t), "createOrder", "lines")
	if err != nil {
		t.Fatalf("region: %v", err)
	}
	generator, err := scaffold.New()
	if err != nil {
		t.Fatalf("generator: %v", err)
	}
	markup, err := generator.Render(region)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := `name="lines[1].sku" id="lines_1__sku" value="" required>`; !strings.Contains(markup, want) {
		t.Fatalf("markup missing %s:\n%s", want, markup)
	}
}

func TestRegionErrors(t *testing.T) {
	spec := loadSpec(t)
	if _, err := openapi.Region(spec, "deleteOrder", ""); !errors.Is(err, openapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := openapi.Region(spec, "replaceNotes", ""); !errors.Is(err, openapi.ErrNoCollection) {
		t.Fatalf("expected ErrNoCollection, got %v", err)
	}
	if _, err := openapi.Region(spec, "createOrder", "tags"); !errors.Is(err, openapi.ErrNoCollection) {
		t.Fatalf("scalar arrays are not collections, got %v", err)
	}
	if _, err := openapi.Load(context.Background(), nil); err == nil {
		t.Fatalf("expected an error for an empty document")
	}
}
