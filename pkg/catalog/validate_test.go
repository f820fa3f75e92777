package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func consistentRefs() *fileRefs {
	return &fileRefs{
		stage:   &Stage{ID: 1, Name: "Primary"},
		term:    &Term{ID: 10, StageID: 1, Name: "Term 1"},
		grade:   &Grade{ID: 20, StageID: 1, Name: "Grade 1"},
		subject: &Subject{ID: 30, GradeID: 20, Name: "Mathematics"},
		ctype:   &ContentType{ID: 40, Name: "Notes"},
		subtype: &ContentSubtype{ID: 50, TypeID: 40, Name: "Summaries"},
	}
}

func TestValidateFileHierarchy(t *testing.T) {
	t.Run("consistent chain passes", func(t *testing.T) {
		assert.NoError(t, validateFileHierarchy(consistentRefs()))
	})

	t.Run("nil subtype passes", func(t *testing.T) {
		refs := consistentRefs()
		refs.subtype = nil
		assert.NoError(t, validateFileHierarchy(refs))
	})

	tests := []struct {
		name      string
		mutate    func(*fileRefs)
		invariant int
		field     string
	}{
		{
			name:      "term from another stage",
			mutate:    func(r *fileRefs) { r.term.StageID = 2 },
			invariant: InvariantTermStage,
			field:     "term_id",
		},
		{
			name:      "grade from another stage",
			mutate:    func(r *fileRefs) { r.grade.StageID = 2 },
			invariant: InvariantGradeStage,
			field:     "grade_id",
		},
		{
			name:      "subject from another grade",
			mutate:    func(r *fileRefs) { r.subject.GradeID = 21 },
			invariant: InvariantSubjectGrade,
			field:     "subject_id",
		},
		{
			name:      "subtype from another type",
			mutate:    func(r *fileRefs) { r.subtype.TypeID = 41 },
			invariant: InvariantSubtypeType,
			field:     "subtype_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs := consistentRefs()
			tt.mutate(refs)

			err := validateFileHierarchy(refs)
			var hierErr *HierarchyError
			require.ErrorAs(t, err, &hierErr)
			assert.Equal(t, tt.invariant, hierErr.Invariant)
			assert.Equal(t, tt.field, hierErr.Field)
		})
	}

	t.Run("checks run in order", func(t *testing.T) {
		// Break every invariant at once; the first one wins.
		refs := consistentRefs()
		refs.term.StageID = 2
		refs.grade.StageID = 2
		refs.subject.GradeID = 21
		refs.subtype.TypeID = 41

		err := validateFileHierarchy(refs)
		var hierErr *HierarchyError
		require.ErrorAs(t, err, &hierErr)
		assert.Equal(t, InvariantTermStage, hierErr.Invariant)
	})
}
