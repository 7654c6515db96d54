package api

import (
	"github.com/JaimeStill/gostcat/internal/compliance"
	"github.com/JaimeStill/gostcat/internal/config"
	"github.com/JaimeStill/gostcat/pkg/mirror"
	"github.com/JaimeStill/gostcat/pkg/openapi"
)

var (
	str     = &openapi.Schema{Type: "string"}
	integer = &openapi.Schema{Type: "integer"}
	boolean = &openapi.Schema{Type: "boolean"}
)

func schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Record": openapi.Object(map[string]*openapi.Schema{
			"key":    {Type: "string", Description: "Standard designation, e.g. ГОСТ 380-2005"},
			"mark":   {Type: "string", Description: "Material or product mark"},
			"text":   {Type: "string", Description: "Record description"},
			"image":  {Type: "string", Description: "Image reference served by GET /images/{key}"},
			"legacy": {Type: "boolean", Description: "Stored in the plain-text shape"},
		}, "key", "mark", "text", "legacy"),
		"RecordPage": openapi.Object(map[string]*openapi.Schema{
			"data":        openapi.ArrayOf(openapi.SchemaRef("Record")),
			"total":       integer,
			"page":        integer,
			"page_size":   integer,
			"total_pages": integer,
		}),
		"CreateRecord": openapi.Object(map[string]*openapi.Schema{
			"key":  {Type: "string", Description: "Record key; an existing record is overwritten"},
			"mark": str,
			"text": str,
		}, "key"),
		"UpdateRecord": openapi.Object(map[string]*openapi.Schema{
			"mark": str,
			"text": str,
		}),
		"ReferenceMatch": openapi.Object(map[string]*openapi.Schema{
			"code":      {Type: "string", Description: "TN VED code"},
			"name":      str,
			"standards": openapi.ArrayOf(str),
		}),
		"Decision": openapi.Object(map[string]*openapi.Schema{
			"applies": boolean,
			"reason": openapi.Enum(
				compliance.ReasonInvalidCode,
				compliance.ReasonOutOfScope,
				compliance.ReasonOutOfRange,
				compliance.ReasonInScope,
			),
			"regulation": str,
			"forms":      openapi.ArrayOf(str),
		}, "applies", "reason"),
		"SearchResult": openapi.Object(map[string]*openapi.Schema{
			"query": str,
			"matches": openapi.ArrayOf(openapi.Object(map[string]*openapi.Schema{
				"key":   str,
				"mark":  str,
				"text":  str,
				"image": str,
			})),
			"fallback": openapi.Object(map[string]*openapi.Schema{
				"text":      str,
				"synthetic": boolean,
				"source":    str,
			}),
		}, "query", "matches"),
		"SyncOutcome": openapi.Object(map[string]*openapi.Schema{
			"id":          str,
			"status": openapi.Enum(
				string(mirror.StatusPublished),
				string(mirror.StatusConflict),
				string(mirror.StatusFailed),
				string(mirror.StatusSkipped),
			),
			"version":     str,
			"attempts":    integer,
			"error":       str,
			"duration_ms": integer,
			"finished_at": {Type: "string", Format: "date-time"},
		}, "status", "attempts"),
		"MirrorState": openapi.Object(map[string]*openapi.Schema{
			"enabled":         boolean,
			"target":          str,
			"reason":          str,
			"conflict_policy": openapi.Enum(string(mirror.PolicyDrop), string(mirror.PolicyRetry)),
			"last":            openapi.SchemaRef("SyncOutcome"),
		}),
		"Status": openapi.Object(map[string]*openapi.Schema{
			"store":            str,
			"records":          integer,
			"legacy_records":   integer,
			"reference_codes":  integer,
			"regulation":       str,
			"regulation_codes": integer,
			"mirror":           openapi.SchemaRef("MirrorState"),
			"assistant": openapi.Object(map[string]*openapi.Schema{
				"enabled": boolean,
				"name":    str,
				"reason":  str,
			}),
		}),
	}
}

func keyParam() *openapi.Parameter {
	return openapi.PathParam("key", "Path-escaped record key; may contain /")
}

func paths() map[string]*openapi.PathItem {
	badRequest := openapi.ResponseRef("BadRequest")
	notFound := openapi.ResponseRef("NotFound")

	return map[string]*openapi.PathItem{
		"/records": {
			Get: &openapi.Operation{
				OperationID: "listRecords",
				Summary: "List records",
				Tags:    []string{"records"},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
					openapi.QueryParam("page_size", "integer", "Results per page", false),
					openapi.QueryParam("search", "string", "Substring filter over key, mark, and text", false),
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Page of records", "RecordPage"),
				},
			},
			Post: &openapi.Operation{
				OperationID: "createRecord",
				Summary:     "Create or overwrite a record",
				Tags:        []string{"records"},
				RequestBody: openapi.RequestBodyJSON("CreateRecord", true),
				Responses: map[int]*openapi.Response{
					201: openapi.ResponseJSON("Stored record", "Record"),
					400: badRequest,
				},
			},
		},
		"/records/{key}": {
			Get: &openapi.Operation{
				OperationID: "findRecord",
				Summary:    "Find a record",
				Tags:       []string{"records"},
				Parameters: []*openapi.Parameter{keyParam()},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Record", "Record"),
					404: notFound,
				},
			},
			Put: &openapi.Operation{
				OperationID: "updateRecord",
				Summary:     "Update a record",
				Description: "Replaces mark and text. A legacy record is converted to the structured shape.",
				Tags:        []string{"records"},
				Parameters:  []*openapi.Parameter{keyParam()},
				RequestBody: openapi.RequestBodyJSON("UpdateRecord", true),
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Updated record", "Record"),
					400: badRequest,
					404: notFound,
				},
			},
			Delete: &openapi.Operation{
				OperationID: "deleteRecord",
				Summary:    "Delete a record",
				Tags:       []string{"records"},
				Parameters: []*openapi.Parameter{keyParam()},
				Responses: map[int]*openapi.Response{
					204: {Description: "Deleted, or already absent"},
				},
			},
		},
		"/images/{key}": {
			Get: &openapi.Operation{
				OperationID: "downloadImage",
				Summary:    "Download a record image",
				Tags:       []string{"records"},
				Parameters: []*openapi.Parameter{openapi.PathParam("key", "Blob key from the record image reference")},
				Responses: map[int]*openapi.Response{
					200: {Description: "Image bytes"},
					404: notFound,
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
			Post: &openapi.Operation{
				OperationID: "attachImage",
				Summary:    "Attach an image to a record",
				Tags:       []string{"records"},
				Parameters: []*openapi.Parameter{keyParam()},
				RequestBody: &openapi.RequestBody{
					Required: true,
					Content: map[string]*openapi.MediaType{
						"multipart/form-data": {Schema: openapi.Object(map[string]*openapi.Schema{
							"image": {Type: "string", Format: "binary"},
						}, "image")},
					},
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Record with image reference", "Record"),
					400: badRequest,
					404: notFound,
					413: openapi.ResponseRef("PayloadTooLarge"),
					503: openapi.ResponseRef("ServiceUnavailable"),
				},
			},
		},
		"/search": {
			Get: &openapi.Operation{
				OperationID: "search",
				Summary:     "Search the catalog",
				Description: "Case-insensitive substring search over key, mark, and text. When nothing matches the assistant is asked once and its answer is returned as a synthetic fallback.",
				Tags:        []string{"lookup"},
				Parameters:  []*openapi.Parameter{openapi.QueryParam("q", "string", "Query text", true)},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Matches or fallback", "SearchResult"),
				},
			},
		},
		"/status": {
			Get: &openapi.Operation{
				OperationID: "status",
				Summary: "Report data source status",
				Tags:    []string{"lookup"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Status", "Status"),
				},
			},
		},
		"/reference": {
			Get: &openapi.Operation{
				OperationID: "searchReference",
				Summary:    "Search the TN VED reference table",
				Tags:       []string{"reference"},
				Parameters: []*openapi.Parameter{openapi.QueryParam("q", "string", "Code or name substring", true)},
				Responses: map[int]*openapi.Response{
					200: {
						Description: "Matching reference entries",
						Content: map[string]*openapi.MediaType{
							"application/json": {Schema: openapi.ArrayOf(openapi.SchemaRef("ReferenceMatch"))},
						},
					},
				},
			},
		},
		"/compliance": {
			Get: &openapi.Operation{
				OperationID: "checkCompliance",
				Summary: "Evaluate the technical regulation for a product code",
				Tags:    []string{"compliance"},
				Parameters: []*openapi.Parameter{
					openapi.QueryParam("code", "string", "TN VED code, at least 6 digits", true),
					openapi.QueryParam("value", "string", "Measured AC voltage; a decimal comma is accepted", false),
				},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Decision", "Decision"),
				},
			},
		},
		"/mirror": {
			Get: &openapi.Operation{
				OperationID: "mirrorState",
				Summary: "Report remote mirror state",
				Tags:    []string{"mirror"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Mirror state", "MirrorState"),
				},
			},
		},
		"/mirror/sync": {
			Post: &openapi.Operation{
				OperationID: "syncMirror",
				Summary:     "Publish the catalog to the remote mirror",
				Description: "Runs one bounded sync inline. Sync failures are reported in the outcome, not as an error status.",
				Tags:        []string{"mirror"},
				Responses: map[int]*openapi.Response{
					200: openapi.ResponseJSON("Sync outcome", "SyncOutcome"),
				},
			},
		},
	}
}

// buildSpec describes every route the API module registers.
func buildSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	spec.AddTag("records", "Catalog records and their image attachments")
	spec.AddTag("lookup", "Catalog search with assistant fallback")
	spec.AddTag("reference", "TN VED classification codes")
	spec.AddTag("compliance", "Technical regulation applicability")
	spec.AddTag("mirror", "Remote copy of the catalog document")
	spec.Components.AddSchemas(schemas())
	spec.Paths = paths()
	return spec
}
