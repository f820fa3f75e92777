package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
)

func TestStageCRUD(t *testing.T) {
	repo := New()
	ctx := context.Background()

	stage := &catalog.Stage{Name: "Primary"}
	require.NoError(t, repo.CreateStage(ctx, stage))
	assert.EqualValues(t, 1, stage.ID)

	t.Run("ids are sequential", func(t *testing.T) {
		second := &catalog.Stage{Name: "Middle"}
		require.NoError(t, repo.CreateStage(ctx, second))
		assert.EqualValues(t, 2, second.ID)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := repo.CreateStage(ctx, &catalog.Stage{Name: "Primary"})
		var validationErr *catalog.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "name", validationErr.Field)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := repo.GetStage(ctx, stage.ID)
		require.NoError(t, err)

		got.Name = "mutated"
		again, err := repo.GetStage(ctx, stage.ID)
		require.NoError(t, err)
		assert.Equal(t, "Primary", again.Name)
	})

	t.Run("update persists", func(t *testing.T) {
		require.NoError(t, repo.UpdateStage(ctx, &catalog.Stage{ID: stage.ID, Name: "Elementary"}))

		got, err := repo.GetStage(ctx, stage.ID)
		require.NoError(t, err)
		assert.Equal(t, "Elementary", got.Name)
	})

	t.Run("rename onto existing name rejected", func(t *testing.T) {
		err := repo.UpdateStage(ctx, &catalog.Stage{ID: stage.ID, Name: "Middle"})
		var validationErr *catalog.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("delete then get not found", func(t *testing.T) {
		require.NoError(t, repo.DeleteStage(ctx, stage.ID))

		_, err := repo.GetStage(ctx, stage.ID)
		assert.ErrorIs(t, err, catalog.ErrStageNotFound)

		assert.ErrorIs(t, repo.DeleteStage(ctx, stage.ID), catalog.ErrStageNotFound)
	})
}

func TestScopedNameUniqueness(t *testing.T) {
	repo := New()
	ctx := context.Background()

	primary := &catalog.Stage{Name: "Primary"}
	secondary := &catalog.Stage{Name: "Secondary"}
	require.NoError(t, repo.CreateStage(ctx, primary))
	require.NoError(t, repo.CreateStage(ctx, secondary))

	t.Run("terms unique within a stage", func(t *testing.T) {
		require.NoError(t, repo.CreateTerm(ctx, &catalog.Term{StageID: primary.ID, Name: "Term 1"}))

		err := repo.CreateTerm(ctx, &catalog.Term{StageID: primary.ID, Name: "Term 1"})
		var validationErr *catalog.ValidationError
		assert.ErrorAs(t, err, &validationErr)

		// Same name under the other stage is fine.
		assert.NoError(t, repo.CreateTerm(ctx, &catalog.Term{StageID: secondary.ID, Name: "Term 1"}))
	})

	t.Run("grades unique within a stage", func(t *testing.T) {
		require.NoError(t, repo.CreateGrade(ctx, &catalog.Grade{StageID: primary.ID, Name: "Grade 1"}))

		err := repo.CreateGrade(ctx, &catalog.Grade{StageID: primary.ID, Name: "Grade 1"})
		var validationErr *catalog.ValidationError
		assert.ErrorAs(t, err, &validationErr)

		assert.NoError(t, repo.CreateGrade(ctx, &catalog.Grade{StageID: secondary.ID, Name: "Grade 1"}))
	})
}

func TestScopedLists(t *testing.T) {
	repo := New()
	ctx := context.Background()

	primary := &catalog.Stage{Name: "Primary"}
	secondary := &catalog.Stage{Name: "Secondary"}
	require.NoError(t, repo.CreateStage(ctx, primary))
	require.NoError(t, repo.CreateStage(ctx, secondary))

	require.NoError(t, repo.CreateTerm(ctx, &catalog.Term{StageID: primary.ID, Name: "Term 1"}))
	require.NoError(t, repo.CreateTerm(ctx, &catalog.Term{StageID: primary.ID, Name: "Term 2"}))
	require.NoError(t, repo.CreateTerm(ctx, &catalog.Term{StageID: secondary.ID, Name: "Term 1"}))

	t.Run("scoped to one stage", func(t *testing.T) {
		terms, err := repo.ListTerms(ctx, primary.ID)
		require.NoError(t, err)
		assert.Len(t, terms, 2)
	})

	t.Run("zero id lists everything", func(t *testing.T) {
		terms, err := repo.ListTerms(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, terms, 3)
	})

	t.Run("ascending id order", func(t *testing.T) {
		terms, err := repo.ListTerms(ctx, 0)
		require.NoError(t, err)
		for i := 1; i < len(terms); i++ {
			assert.Less(t, terms[i-1].ID, terms[i].ID)
		}
	})

	t.Run("unknown stage lists nothing", func(t *testing.T) {
		terms, err := repo.ListTerms(ctx, 9999)
		require.NoError(t, err)
		assert.Empty(t, terms)
	})
}

func TestListFilesJoinsNames(t *testing.T) {
	repo := New()
	ctx := context.Background()

	stage := &catalog.Stage{Name: "Primary"}
	require.NoError(t, repo.CreateStage(ctx, stage))
	term := &catalog.Term{StageID: stage.ID, Name: "Term 1"}
	require.NoError(t, repo.CreateTerm(ctx, term))
	grade := &catalog.Grade{StageID: stage.ID, Name: "Grade 1"}
	require.NoError(t, repo.CreateGrade(ctx, grade))
	subject := &catalog.Subject{GradeID: grade.ID, Name: "Mathematics"}
	require.NoError(t, repo.CreateSubject(ctx, subject))
	ctype := &catalog.ContentType{Name: "Notes"}
	require.NoError(t, repo.CreateContentType(ctx, ctype))
	subtype := &catalog.ContentSubtype{TypeID: ctype.ID, Name: "Summaries"}
	require.NoError(t, repo.CreateContentSubtype(ctx, subtype))

	withSubtype := &catalog.File{
		Title:     "Algebra",
		FileURL:   "https://files.example.com/a.pdf",
		StageID:   stage.ID,
		TermID:    term.ID,
		GradeID:   grade.ID,
		SubjectID: subject.ID,
		TypeID:    ctype.ID,
		SubtypeID: &subtype.ID,
	}
	require.NoError(t, repo.CreateFile(ctx, withSubtype))

	withoutSubtype := &catalog.File{
		Title:     "Geometry",
		FileURL:   "https://files.example.com/g.pdf",
		StageID:   stage.ID,
		TermID:    term.ID,
		GradeID:   grade.ID,
		SubjectID: subject.ID,
		TypeID:    ctype.ID,
	}
	require.NoError(t, repo.CreateFile(ctx, withoutSubtype))

	files, err := repo.ListFiles(ctx, catalog.FileFilter{})
	require.NoError(t, err)
	require.Len(t, files, 2)

	first := files[0]
	assert.Equal(t, withSubtype.ID, first.ID)
	assert.Equal(t, "Primary", first.StageName)
	assert.Equal(t, "Term 1", first.TermName)
	assert.Equal(t, "Grade 1", first.GradeName)
	assert.Equal(t, "Mathematics", first.SubjectName)
	assert.Equal(t, "Notes", first.TypeName)
	require.NotNil(t, first.SubtypeName)
	assert.Equal(t, "Summaries", *first.SubtypeName)

	second := files[1]
	assert.Equal(t, withoutSubtype.ID, second.ID)
	assert.Nil(t, second.SubtypeName)

	t.Run("filtered count matches list", func(t *testing.T) {
		filter := catalog.FileFilter{SubtypeID: &subtype.ID}

		filtered, err := repo.ListFiles(ctx, filter)
		require.NoError(t, err)

		n, err := repo.CountFiles(ctx, filter)
		require.NoError(t, err)
		assert.EqualValues(t, len(filtered), n)
		assert.EqualValues(t, 1, n)
	})
}

func TestDependentCounts(t *testing.T) {
	repo := New()
	ctx := context.Background()

	stage := &catalog.Stage{Name: "Primary"}
	require.NoError(t, repo.CreateStage(ctx, stage))
	require.NoError(t, repo.CreateTerm(ctx, &catalog.Term{StageID: stage.ID, Name: "Term 1"}))
	require.NoError(t, repo.CreateTerm(ctx, &catalog.Term{StageID: stage.ID, Name: "Term 2"}))

	grade := &catalog.Grade{StageID: stage.ID, Name: "Grade 1"}
	require.NoError(t, repo.CreateGrade(ctx, grade))
	require.NoError(t, repo.CreateSubject(ctx, &catalog.Subject{GradeID: grade.ID, Name: "Mathematics"}))

	terms, err := repo.CountTermsByStage(ctx, stage.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, terms)

	grades, err := repo.CountGradesByStage(ctx, stage.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, grades)

	subjects, err := repo.CountSubjectsByGrade(ctx, grade.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, subjects)

	subtypes, err := repo.CountSubtypesByType(ctx, 9999)
	require.NoError(t, err)
	assert.Zero(t, subtypes)
}

func TestWithTxSeesOwnWrites(t *testing.T) {
	repo := New()
	ctx := context.Background()

	err := repo.WithTx(ctx, func(r catalog.Repository) error {
		stage := &catalog.Stage{Name: "Primary"}
		if err := r.CreateStage(ctx, stage); err != nil {
			return err
		}
		_, err := r.GetStage(ctx, stage.ID)
		return err
	})
	assert.NoError(t, err)

	stages, err := repo.ListStages(ctx)
	require.NoError(t, err)
	assert.Len(t, stages, 1)
}
