package reference

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/gostcat/pkg/handlers"
	"github.com/JaimeStill/gostcat/pkg/routes"
)

// Handler provides the HTTP endpoint for reference table searches.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "reference"),
	}
}

// Routes returns the route group definition for reference endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/reference",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Search},
		},
	}
}

// Search returns the table entries matching the q parameter.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Search(r.Context(), r.URL.Query().Get("q")))
}
