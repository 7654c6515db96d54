package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/gostcat/pkg/openapi"
)

func TestConfigFinalize(t *testing.T) {
	t.Setenv("TEST_OPENAPI_TITLE", "Catalog")

	cfg := &openapi.Config{}
	if err := cfg.Finalize(&openapi.ConfigEnv{Title: "TEST_OPENAPI_TITLE", Description: "TEST_OPENAPI_DESC"}); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if cfg.Title != "Catalog" {
		t.Errorf("Title = %q, want env override", cfg.Title)
	}
	if cfg.Description == "" {
		t.Error("Description default not applied")
	}

	if cfg.Path != "/openapi.json" {
		t.Errorf("Path = %q, want default", cfg.Path)
	}

	cfg.Merge(&openapi.Config{Description: "overlay"})
	if cfg.Description != "overlay" || cfg.Title != "Catalog" {
		t.Errorf("Merge = %+v", cfg)
	}

	bad := &openapi.Config{Path: "spec.json"}
	if err := bad.Finalize(nil); err == nil {
		t.Error("expected error for relative path")
	}
}

func TestSpecSerialization(t *testing.T) {
	spec := openapi.NewSpec(&openapi.Config{Title: "Catalog"}, "1.2.3")
	spec.AddServer("/api")
	spec.AddTag("records", "")
	spec.Paths["/records/{key}"] = &openapi.PathItem{
		Get: &openapi.Operation{
			OperationID: "findRecord",
			Parameters: []*openapi.Parameter{openapi.PathParam("key", "record key")},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Record", "Record"),
				404: openapi.ResponseRef("NotFound"),
			},
		},
	}

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if info := doc["info"].(map[string]any); info["title"] != "Catalog" || info["version"] != "1.2.3" {
		t.Errorf("info = %v", info)
	}

	paths := doc["paths"].(map[string]any)
	op := paths["/records/{key}"].(map[string]any)["get"].(map[string]any)
	if op["operationId"] != "findRecord" {
		t.Errorf("operationId = %v", op["operationId"])
	}
	responses := op["responses"].(map[string]any)
	if ref := responses["404"].(map[string]any)["$ref"]; ref != "#/components/responses/NotFound" {
		t.Errorf("404 ref = %v", ref)
	}

	param := op["parameters"].([]any)[0].(map[string]any)
	if schema := param["schema"].(map[string]any); schema["type"] != "string" || schema["format"] != nil {
		t.Errorf("path param schema = %v", schema)
	}

	components := doc["components"].(map[string]any)["responses"].(map[string]any)
	for _, name := range []string{"BadRequest", "NotFound", "PayloadTooLarge", "ServiceUnavailable"} {
		if _, ok := components[name]; !ok {
			t.Errorf("missing shared response %s", name)
		}
	}
}

func TestHandlerETag(t *testing.T) {
	serve, err := openapi.Handler(openapi.NewSpec(&openapi.Config{Title: "Catalog"}, "1.0.0"))
	if err != nil {
		t.Fatalf("Handler: %v", err)
	}

	rec := httptest.NewRecorder()
	serve(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	serve(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Errorf("conditional status = %d, want 304", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("304 carried a body")
	}
}

func TestEnum(t *testing.T) {
	s := openapi.Enum("drop", "retry")
	if s.Type != "string" || len(s.Enum) != 2 || s.Enum[1] != "retry" {
		t.Errorf("Enum = %+v", s)
	}
}
