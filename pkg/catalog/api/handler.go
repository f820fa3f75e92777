// Package api exposes the catalog service over HTTP. It is a thin layer on
// top of the Service contract; all validation lives below it.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
)

// Handler handles HTTP requests for the catalog
type Handler struct {
	service catalog.Service
}

// NewHandler creates a new catalog handler
func NewHandler(service catalog.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for the catalog
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/stages", func(r chi.Router) {
		r.Post("/", h.CreateStage)
		r.Get("/", h.ListStages)
		r.Get("/{id}", h.GetStage)
		r.Put("/{id}", h.UpdateStage)
		r.Delete("/{id}", h.DeleteStage)
		r.Get("/{id}/children", h.ListStageChildren)
	})

	r.Route("/terms", func(r chi.Router) {
		r.Post("/", h.CreateTerm)
		r.Get("/", h.ListTerms)
		r.Get("/{id}", h.GetTerm)
		r.Put("/{id}", h.UpdateTerm)
		r.Delete("/{id}", h.DeleteTerm)
	})

	r.Route("/grades", func(r chi.Router) {
		r.Post("/", h.CreateGrade)
		r.Get("/", h.ListGrades)
		r.Get("/{id}", h.GetGrade)
		r.Put("/{id}", h.UpdateGrade)
		r.Delete("/{id}", h.DeleteGrade)
		r.Get("/{id}/subjects", h.ListGradeSubjects)
	})

	r.Route("/subjects", func(r chi.Router) {
		r.Post("/", h.CreateSubject)
		r.Get("/", h.ListSubjects)
		r.Get("/{id}", h.GetSubject)
		r.Put("/{id}", h.UpdateSubject)
		r.Delete("/{id}", h.DeleteSubject)
	})

	r.Route("/content-types", func(r chi.Router) {
		r.Post("/", h.CreateContentType)
		r.Get("/", h.ListContentTypes)
		r.Get("/{id}", h.GetContentType)
		r.Put("/{id}", h.UpdateContentType)
		r.Delete("/{id}", h.DeleteContentType)
		r.Get("/{id}/subtypes", h.ListTypeSubtypes)
	})

	r.Route("/content-subtypes", func(r chi.Router) {
		r.Post("/", h.CreateContentSubtype)
		r.Get("/", h.ListContentSubtypes)
		r.Get("/{id}", h.GetContentSubtype)
		r.Put("/{id}", h.UpdateContentSubtype)
		r.Delete("/{id}", h.DeleteContentSubtype)
	})

	r.Route("/files", func(r chi.Router) {
		r.Post("/", h.CreateFile)
		r.Get("/", h.ListFiles)
		r.Get("/{id}", h.GetFile)
		r.Put("/{id}", h.UpdateFile)
		r.Delete("/{id}", h.DeleteFile)
	})

	return r
}

// ErrorResponse is the JSON body returned for any failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps catalog errors to HTTP status codes. ReferenceError is
// matched before the not-found family because it wraps a not-found sentinel
// while describing bad caller input, not a missing resource.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validationErr *catalog.ValidationError
		referenceErr  *catalog.ReferenceError
		hierarchyErr  *catalog.HierarchyError
		conflictErr   *catalog.ConflictError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &validationErr):
		status = http.StatusBadRequest
	case errors.As(err, &referenceErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &hierarchyErr):
		status = http.StatusUnprocessableEntity
	case errors.As(err, &conflictErr):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}

func idParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &catalog.ValidationError{Field: "id", Reason: "must be an integer"}
	}
	return id, nil
}

// queryID parses an optional numeric query parameter. Absent means nil.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, &catalog.ValidationError{Field: name, Reason: fmt.Sprintf("invalid id %q", raw)}
	}
	return &id, nil
}

// scopeID parses an optional parent-id query parameter, with zero meaning
// unscoped, matching the repository list convention.
func scopeID(r *http.Request, name string) (int64, error) {
	id, err := queryID(r, name)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, nil
	}
	return *id, nil
}
