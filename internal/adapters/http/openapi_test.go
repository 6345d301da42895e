package http_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/samirrijal/garagehub/api"
)

func loadOpenAPI(t *testing.T) *openapi3.T {
	t.Helper()
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	doc, err := loader.LoadFromData(api.OpenAPI)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI document: %v", err)
	}
	return doc
}

// TestOpenAPISpec validates the OpenAPI document and checks it covers every route.
func TestOpenAPISpec(t *testing.T) {
	doc := loadOpenAPI(t)

	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/garages-near",
		"/v1/garages-by-service/{serviceId}",
		"/v1/garages",
		"/v1/garages/{id}",
		"/v1/garages/{id}/route",
		"/v1/services",
		"/v1/services/{id}",
		"/api/garage/nearby",
		"/api/garage/Garage/{serviceId}",
		"/graphql",
	}
	for _, path := range expectedPaths {
		if item := doc.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found", path)
		}
	}

	expectedSchemas := []string{
		"GeoPoint",
		"Garage",
		"Service",
		"ServiceSummary",
		"NearbyResponse",
		"GaragesResponse",
		"RouteOverlay",
		"APIError",
		"Pagination",
	}
	for _, schema := range expectedSchemas {
		if doc.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	for _, legacy := range []string{"/api/garage/nearby", "/api/garage/Garage/{serviceId}"} {
		if op := doc.Paths.Find(legacy).Get; op == nil || !op.Deprecated {
			t.Errorf("%s should be marked deprecated", legacy)
		}
	}
}

// TestOpenAPIInfo verifies document metadata.
func TestOpenAPIInfo(t *testing.T) {
	doc := loadOpenAPI(t)

	if doc.Info.Title != "GarageHub API" {
		t.Errorf("expected title 'GarageHub API', got %q", doc.Info.Title)
	}
	if doc.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", doc.Info.Version)
	}
	if doc.Info.Description == "" {
		t.Error("expected non-empty description")
	}
	if len(doc.Servers) == 0 {
		t.Error("expected at least one server")
	}
}
