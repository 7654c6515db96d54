package lookup

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/gostcat/pkg/handlers"
	"github.com/JaimeStill/gostcat/pkg/routes"
)

// Handler provides HTTP endpoints for catalog search and status.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "lookup"),
	}
}

// Routes returns the route group definition for lookup endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/search", Handler: h.Search},
			{Method: "GET", Pattern: "/status", Handler: h.Status},
		},
	}
}

// Search runs the q parameter through the query engine.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Search(r.Context(), r.URL.Query().Get("q")))
}

// Status reports record, reference, regulation, mirror, and assistant state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Status(r.Context()))
}
