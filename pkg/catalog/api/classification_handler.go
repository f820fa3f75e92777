package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/render"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
)

// StageChildrenResponse lists everything directly under a stage.
type StageChildrenResponse struct {
	Terms  []*catalog.Term  `json:"terms"`
	Grades []*catalog.Grade `json:"grades"`
}

// Stage endpoints

func (h *Handler) CreateStage(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	stage, err := h.service.CreateStage(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, stage)
}

func (h *Handler) GetStage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stage, err := h.service.GetStage(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stage)
}

func (h *Handler) ListStages(w http.ResponseWriter, r *http.Request) {
	stages, err := h.service.ListStages(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stages)
}

func (h *Handler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.UpdateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	req.ID = id

	stage, err := h.service.UpdateStage(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, stage)
}

func (h *Handler) DeleteStage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteStage(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// ListStageChildren returns the terms and grades under a stage. A childless
// stage yields empty lists, not an error.
func (h *Handler) ListStageChildren(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	terms, grades, err := h.service.ListTermsAndGrades(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, StageChildrenResponse{Terms: terms, Grades: grades})
}

// Term endpoints

func (h *Handler) CreateTerm(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	term, err := h.service.CreateTerm(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, term)
}

func (h *Handler) GetTerm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	term, err := h.service.GetTerm(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, term)
}

func (h *Handler) ListTerms(w http.ResponseWriter, r *http.Request) {
	stageID, err := scopeID(r, "stage_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	terms, err := h.service.ListTerms(r.Context(), stageID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, terms)
}

func (h *Handler) UpdateTerm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.UpdateTermRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	req.ID = id

	term, err := h.service.UpdateTerm(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, term)
}

func (h *Handler) DeleteTerm(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteTerm(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// Grade endpoints

func (h *Handler) CreateGrade(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	grade, err := h.service.CreateGrade(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, grade)
}

func (h *Handler) GetGrade(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	grade, err := h.service.GetGrade(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, grade)
}

func (h *Handler) ListGrades(w http.ResponseWriter, r *http.Request) {
	stageID, err := scopeID(r, "stage_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	grades, err := h.service.ListGrades(r.Context(), stageID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, grades)
}

func (h *Handler) UpdateGrade(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.UpdateGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	req.ID = id

	grade, err := h.service.UpdateGrade(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, grade)
}

func (h *Handler) DeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteGrade(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) ListGradeSubjects(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	subjects, err := h.service.ListSubjects(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, subjects)
}

// Subject endpoints

func (h *Handler) CreateSubject(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	subject, err := h.service.CreateSubject(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, subject)
}

func (h *Handler) GetSubject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	subject, err := h.service.GetSubject(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, subject)
}

func (h *Handler) ListSubjects(w http.ResponseWriter, r *http.Request) {
	gradeID, err := scopeID(r, "grade_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	subjects, err := h.service.ListSubjects(r.Context(), gradeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, subjects)
}

func (h *Handler) UpdateSubject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.UpdateSubjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	req.ID = id

	subject, err := h.service.UpdateSubject(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, subject)
}

func (h *Handler) DeleteSubject(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteSubject(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

// Content type endpoints

func (h *Handler) CreateContentType(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateContentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	ct, err := h.service.CreateContentType(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, ct)
}

func (h *Handler) GetContentType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ct, err := h.service.GetContentType(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, ct)
}

func (h *Handler) ListContentTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListContentTypes(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, types)
}

func (h *Handler) UpdateContentType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.UpdateContentTypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	req.ID = id

	ct, err := h.service.UpdateContentType(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, ct)
}

func (h *Handler) DeleteContentType(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteContentType(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}

func (h *Handler) ListTypeSubtypes(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	subtypes, err := h.service.ListContentSubtypes(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, subtypes)
}

// Content subtype endpoints

func (h *Handler) CreateContentSubtype(w http.ResponseWriter, r *http.Request) {
	var req catalog.CreateContentSubtypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}

	st, err := h.service.CreateContentSubtype(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, st)
}

func (h *Handler) GetContentSubtype(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	st, err := h.service.GetContentSubtype(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, st)
}

func (h *Handler) ListContentSubtypes(w http.ResponseWriter, r *http.Request) {
	typeID, err := scopeID(r, "type_id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	subtypes, err := h.service.ListContentSubtypes(r.Context(), typeID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, subtypes)
}

func (h *Handler) UpdateContentSubtype(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var req catalog.UpdateContentSubtypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &catalog.ValidationError{Field: "body", Reason: err.Error()})
		return
	}
	req.ID = id

	st, err := h.service.UpdateContentSubtype(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render.JSON(w, r, st)
}

func (h *Handler) DeleteContentSubtype(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.service.DeleteContentSubtype(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	render.NoContent(w, r)
}
