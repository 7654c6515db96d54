package routes_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"

	"github.com/JaimeStill/gostcat/pkg/routes"
)

func TestRegisterNestedGroups(t *testing.T) {
	var hit string
	handler := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hit = name
		}
	}

	group := routes.Group{
		Prefix: "/records",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: handler("list")},
			{Method: "GET", Pattern: "/{key...}", Handler: handler("find")},
		},
		Children: []routes.Group{
			{
				Prefix: "/admin",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/reindex", Handler: handler("reindex")},
				},
			},
		},
	}

	mux := http.NewServeMux()
	routes.Register(mux, group)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/records", "list"},
		{"GET", "/records/" + url.PathEscape("ГОСТ 100"), "find"},
		{"POST", "/records/admin/reindex", "reindex"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			hit = ""
			mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
			if hit != tt.want {
				t.Errorf("handler: got %q, want %q", hit, tt.want)
			}
		})
	}
}

func TestPatterns(t *testing.T) {
	group := routes.Group{
		Prefix: "/mirror",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/sync"},
			{Pattern: "/any"},
		},
	}

	got := group.Patterns()
	want := []string{"POST /mirror/sync", "/mirror/any"}
	if !slices.Equal(got, want) {
		t.Errorf("patterns: got %v, want %v", got, want)
	}
}
