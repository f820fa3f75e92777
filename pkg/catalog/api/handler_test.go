package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog/repo/memory"
)

func setupHandlerTest(t *testing.T) (http.Handler, catalog.Service) {
	svc, err := catalog.New(
		catalog.WithRepository(memory.New()),
		catalog.WithEventSink(catalog.NewNoopEventSink()),
	)
	require.NoError(t, err)

	return NewHandler(svc).Routes(), svc
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeInto[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestStageEndpoints(t *testing.T) {
	router, _ := setupHandlerTest(t)

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/stages", catalog.CreateStageRequest{Name: "Primary"})
		assert.Equal(t, http.StatusCreated, w.Code)

		stage := decodeInto[catalog.Stage](t, w)
		assert.NotZero(t, stage.ID)
		assert.Equal(t, "Primary", stage.Name)
	})

	t.Run("create empty name returns 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/stages", catalog.CreateStageRequest{Name: ""})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeInto[ErrorResponse](t, w)
		assert.NotEmpty(t, resp.Error)
	})

	t.Run("create malformed body returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/stages", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("get", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/stages/1", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		stage := decodeInto[catalog.Stage](t, w)
		assert.EqualValues(t, 1, stage.ID)
	})

	t.Run("get unknown returns 404", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/stages/9999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("get non-numeric id returns 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/stages/abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/stages", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		stages := decodeInto[[]catalog.Stage](t, w)
		assert.Len(t, stages, 1)
	})

	t.Run("update", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPut, "/stages/1", catalog.UpdateStageRequest{Name: "Elementary"})
		assert.Equal(t, http.StatusOK, w.Code)

		stage := decodeInto[catalog.Stage](t, w)
		assert.Equal(t, "Elementary", stage.Name)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/stages/1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodGet, "/stages/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHierarchyEndpoints(t *testing.T) {
	router, svc := setupHandlerTest(t)
	ctx := context.Background()

	stage, err := svc.CreateStage(ctx, catalog.CreateStageRequest{Name: "Primary"})
	require.NoError(t, err)

	t.Run("create term under missing stage returns 422", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/terms", catalog.CreateTermRequest{StageID: 9999, Name: "Term 1"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("create term", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/terms", catalog.CreateTermRequest{StageID: stage.ID, Name: "Term 1"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("duplicate term name returns 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/terms", catalog.CreateTermRequest{StageID: stage.ID, Name: "Term 1"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete stage with dependents returns 409", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/stages/%d", stage.ID), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("stage children", func(t *testing.T) {
		_, err := svc.CreateGrade(ctx, catalog.CreateGradeRequest{StageID: stage.ID, Name: "Grade 1"})
		require.NoError(t, err)

		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/stages/%d/children", stage.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		children := decodeInto[StageChildrenResponse](t, w)
		assert.Len(t, children.Terms, 1)
		assert.Len(t, children.Grades, 1)
	})

	t.Run("terms scoped by query parameter", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/terms?stage_id=%d", stage.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		terms := decodeInto[[]catalog.Term](t, w)
		assert.Len(t, terms, 1)
	})

	t.Run("bad scope parameter returns 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/terms?stage_id=abc", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFileEndpoints(t *testing.T) {
	router, svc := setupHandlerTest(t)
	ctx := context.Background()

	stage, err := svc.CreateStage(ctx, catalog.CreateStageRequest{Name: "Primary"})
	require.NoError(t, err)
	term, err := svc.CreateTerm(ctx, catalog.CreateTermRequest{StageID: stage.ID, Name: "Term 1"})
	require.NoError(t, err)
	grade, err := svc.CreateGrade(ctx, catalog.CreateGradeRequest{StageID: stage.ID, Name: "Grade 1"})
	require.NoError(t, err)
	subject, err := svc.CreateSubject(ctx, catalog.CreateSubjectRequest{GradeID: grade.ID, Name: "Mathematics"})
	require.NoError(t, err)
	ctype, err := svc.CreateContentType(ctx, catalog.CreateContentTypeRequest{Name: "Notes"})
	require.NoError(t, err)

	otherStage, err := svc.CreateStage(ctx, catalog.CreateStageRequest{Name: "Secondary"})
	require.NoError(t, err)
	otherTerm, err := svc.CreateTerm(ctx, catalog.CreateTermRequest{StageID: otherStage.ID, Name: "Term 1"})
	require.NoError(t, err)

	valid := catalog.CreateFileRequest{
		Title:     "Algebra Review",
		FileURL:   "https://files.example.com/algebra.pdf",
		StageID:   stage.ID,
		TermID:    term.ID,
		GradeID:   grade.ID,
		SubjectID: subject.ID,
		TypeID:    ctype.ID,
	}

	t.Run("create", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/files", valid)
		assert.Equal(t, http.StatusCreated, w.Code)

		file := decodeInto[catalog.File](t, w)
		assert.NotZero(t, file.ID)
	})

	t.Run("cross-stage term returns 422", func(t *testing.T) {
		req := valid
		req.TermID = otherTerm.ID

		w := doJSON(t, router, http.MethodPost, "/files", req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("dangling subject returns 422", func(t *testing.T) {
		req := valid
		req.SubjectID = 9999

		w := doJSON(t, router, http.MethodPost, "/files", req)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("list with filters", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet,
			fmt.Sprintf("/files?stage_id=%d&subject_id=%d", stage.ID, subject.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		files := decodeInto[[]catalog.FileDetails](t, w)
		require.Len(t, files, 1)
		assert.Equal(t, "Primary", files[0].StageName)
		assert.Equal(t, "Mathematics", files[0].SubjectName)
	})

	t.Run("list with non-matching filter", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/files?stage_id=%d", otherStage.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		files := decodeInto[[]catalog.FileDetails](t, w)
		assert.Empty(t, files)
	})

	t.Run("list with bad filter returns 400", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, "/files?type_id=notes", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, "/files/1", nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doJSON(t, router, http.MethodGet, "/files/1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestContentTypeEndpoints(t *testing.T) {
	router, svc := setupHandlerTest(t)
	ctx := context.Background()

	ctype, err := svc.CreateContentType(ctx, catalog.CreateContentTypeRequest{Name: "Exams"})
	require.NoError(t, err)

	t.Run("create subtype", func(t *testing.T) {
		w := doJSON(t, router, http.MethodPost, "/content-subtypes",
			catalog.CreateContentSubtypeRequest{TypeID: ctype.ID, Name: "Final"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("subtypes of a type", func(t *testing.T) {
		w := doJSON(t, router, http.MethodGet, fmt.Sprintf("/content-types/%d/subtypes", ctype.ID), nil)
		assert.Equal(t, http.StatusOK, w.Code)

		subtypes := decodeInto[[]catalog.ContentSubtype](t, w)
		assert.Len(t, subtypes, 1)
	})

	t.Run("delete type with subtypes returns 409", func(t *testing.T) {
		w := doJSON(t, router, http.MethodDelete, fmt.Sprintf("/content-types/%d", ctype.ID), nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}
