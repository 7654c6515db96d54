package compliance

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/JaimeStill/gostcat/pkg/handlers"
	"github.com/JaimeStill/gostcat/pkg/routes"
)

// Handler provides the HTTP endpoint for compliance checks.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "compliance"),
	}
}

// Routes returns the route group definition for compliance endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/compliance",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Check},
		},
	}
}

// Check evaluates the code and value parameters. The short forms q and v
// are accepted as well. Every outcome, including a malformed code, is a
// 200 response carrying the decision.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := strings.TrimSpace(first(query, "code", "q"))
	value := first(query, "value", "v")

	handlers.RespondJSON(w, http.StatusOK, h.sys.Check(r.Context(), code, value))
}

func first(values url.Values, keys ...string) string {
	for _, k := range keys {
		if v := values.Get(k); v != "" {
			return v
		}
	}
	return ""
}
