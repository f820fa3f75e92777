package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
)

func (h *Handler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	file, err := h.service.CreateFile(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, file)
}

func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	file, err := h.service.GetFile(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, file)
}

// ListFiles serves the catalog listing. Any subset of the classification
// references may be supplied as query parameters; results carry joined
// classification names and are ordered by ascending file id.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	filter, err := fileFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	files, err := h.service.ListFiles(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, files)
}

func (h *Handler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	req.ID = id

	file, err := h.service.UpdateFile(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, file)
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteFile(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func fileFilter(r *http.Request) (catalog.FileFilter, error) {
	var filter catalog.FileFilter

	fields := []struct {
		name string
		dst  **int64
	}{
		{"stage_id", &filter.StageID},
		{"term_id", &filter.TermID},
		{"grade_id", &filter.GradeID},
		{"subject_id", &filter.SubjectID},
		{"type_id", &filter.TypeID},
		{"subtype_id", &filter.SubtypeID},
	}

	for _, f := range fields {
		id, err := queryID(r, f.name)
		if err != nil {
			return catalog.FileFilter{}, err
		}
		*f.dst = id
	}

	return filter, nil
}
