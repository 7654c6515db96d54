package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/gostcat/internal/records"
	"github.com/JaimeStill/gostcat/pkg/handlers"
	"github.com/JaimeStill/gostcat/pkg/mirror"
	"github.com/JaimeStill/gostcat/pkg/routes"
)

type mirrorHandler struct {
	syncer  *mirror.Syncer
	records records.System
	logger  *slog.Logger
}

func newMirrorHandler(
	syncer *mirror.Syncer,
	recs records.System,
	logger *slog.Logger,
) *mirrorHandler {
	return &mirrorHandler{
		syncer:  syncer,
		records: recs,
		logger:  logger.With("handler", "mirror"),
	}
}

func (h *mirrorHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/mirror",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.state},
			{Method: "POST", Pattern: "/sync", Handler: h.sync},
		},
	}
}

func (h *mirrorHandler) state(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.syncer.State())
}

// sync publishes the current document inline. The sync outcome is the
// response body whatever its status; only a failure to serialize the
// local document is an error.
func (h *mirrorHandler) sync(w http.ResponseWriter, r *http.Request) {
	content, err := h.records.Snapshot(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.syncer.Push(r.Context(), content))
}
