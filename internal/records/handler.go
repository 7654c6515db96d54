package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JaimeStill/gostcat/pkg/formatting"
	"github.com/JaimeStill/gostcat/pkg/handlers"
	"github.com/JaimeStill/gostcat/pkg/pagination"
	"github.com/JaimeStill/gostcat/pkg/routes"
)

// Handler provides HTTP endpoints for record and image operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, pagination config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "records"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route groups for records and their images.
// Keys may contain slashes, so they are matched as trailing wildcards.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/records",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "GET", Pattern: "/{key...}", Handler: h.Find},
					{Method: "POST", Pattern: "", Handler: h.Create},
					{Method: "PUT", Pattern: "/{key...}", Handler: h.Update},
					{Method: "DELETE", Pattern: "/{key...}", Handler: h.Delete},
				},
			},
			{
				Prefix: "/images",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/{key...}", Handler: h.AttachImage},
					{Method: "GET", Pattern: "/{key...}", Handler: h.Image},
				},
			},
		},
	}
}

// List returns a page of records, optionally filtered by the search parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	handlers.RespondJSON(w, http.StatusOK, h.sys.List(r.Context(), page))
}

// Find returns a single record in its normalized shape.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	entry, err := h.sys.Find(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}

// Create adds a record or overwrites the record with the same key.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var cmd CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidRecord, err))
		return
	}

	entry, err := h.sys.Create(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, entry)
}

// Update replaces the fields of an existing record.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var cmd UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("%w: %v", ErrInvalidRecord, err))
		return
	}

	entry, err := h.sys.Update(r.Context(), r.PathValue("key"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}

// Delete removes a record. Deleting an absent record succeeds.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.Delete(r.Context(), r.PathValue("key")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AttachImage stores the multipart "image" file and links it to the record.
func (h *Handler) AttachImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: limit is %s", ErrFileTooLarge, formatting.Size(h.maxUploadSize))
		} else {
			err = fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		err = fmt.Errorf("%w: missing image file", ErrInvalidImage)
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	defer file.Close()

	cmd := ImageCommand{
		Data:        file,
		Filename:    header.Filename,
		ContentType: detectContentType(header.Header.Get("Content-Type"), file),
	}

	entry, err := h.sys.AttachImage(r.Context(), r.PathValue("key"), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}

// Image streams an attached image by blob key.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	body, contentType, err := h.sys.OpenImage(r.Context(), r.PathValue("key"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("image stream interrupted", "error", err)
	}
}

// detectContentType trusts a specific part header and otherwise sniffs the
// first bytes of the file, rewinding it afterwards.
func detectContentType(header string, file io.ReadSeeker) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}

	buf := make([]byte, 512)
	n, _ := io.ReadFull(file, buf)
	file.Seek(0, io.SeekStart)
	return http.DetectContentType(buf[:n])
}
