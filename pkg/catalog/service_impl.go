package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Entity names used in events and conflict reports.
const (
	entityStage          = "stage"
	entityTerm           = "term"
	entityGrade          = "grade"
	entitySubject        = "subject"
	entityContentType    = "content_type"
	entityContentSubtype = "content_subtype"
	entityFile           = "file"
)

// service implements the Service interface
type service struct {
	repo   Repository
	events EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithEventSink sets the event sink notified after successful mutations
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.events == nil {
		s.events = NewNoopEventSink()
	}

	return s, nil
}

// fire records a mutation event. Sink failures are logged, never surfaced.
func (s *service) fire(ctx context.Context, entity, action string, id int64) {
	event := Event{
		ID:       uuid.New(),
		Entity:   entity,
		Action:   action,
		EntityID: id,
		At:       time.Now().UTC(),
	}
	if err := s.events.Record(ctx, event); err != nil {
		slog.ErrorContext(ctx, "event sink failed",
			"entity", entity, "action", action, "entity_id", id, "error", err)
	}
}

// requireName rejects empty or blank required name fields.
func requireName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

// refError converts a not-found lookup result into a ReferenceError naming
// the field the caller should correct. Storage failures pass through as-is.
func refError(field string, id int64, err error) error {
	if errors.Is(err, ErrNotFound) {
		return &ReferenceError{Field: field, ID: id, Err: err}
	}
	return err
}

func idPtr(id int64) *int64 {
	return &id
}

// Stage operations

func (s *service) CreateStage(ctx context.Context, req CreateStageRequest) (*Stage, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	stage := &Stage{Name: req.Name}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		return r.CreateStage(ctx, stage)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityStage, EventActionCreate, stage.ID)
	return stage, nil
}

func (s *service) GetStage(ctx context.Context, id int64) (*Stage, error) {
	return s.repo.GetStage(ctx, id)
}

func (s *service) ListStages(ctx context.Context) ([]*Stage, error) {
	return s.repo.ListStages(ctx)
}

func (s *service) UpdateStage(ctx context.Context, req UpdateStageRequest) (*Stage, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	var stage *Stage
	err := s.repo.WithTx(ctx, func(r Repository) error {
		cur, err := r.GetStage(ctx, req.ID)
		if err != nil {
			return err
		}
		cur.Name = req.Name
		if err := r.UpdateStage(ctx, cur); err != nil {
			return err
		}
		stage = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityStage, EventActionUpdate, stage.ID)
	return stage, nil
}

func (s *service) DeleteStage(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetStage(ctx, id); err != nil {
			return err
		}

		terms, err := r.CountTermsByStage(ctx, id)
		if err != nil {
			return err
		}
		grades, err := r.CountGradesByStage(ctx, id)
		if err != nil {
			return err
		}
		files, err := r.CountFiles(ctx, FileFilter{StageID: idPtr(id)})
		if err != nil {
			return err
		}
		if n := terms + grades + files; n > 0 {
			return &ConflictError{Entity: entityStage, ID: id, Dependents: n}
		}

		return r.DeleteStage(ctx, id)
	})
	if err != nil {
		return err
	}

	s.fire(ctx, entityStage, EventActionDelete, id)
	return nil
}

// Term operations

func (s *service) CreateTerm(ctx context.Context, req CreateTermRequest) (*Term, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	term := &Term{StageID: req.StageID, Name: req.Name}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetStage(ctx, req.StageID); err != nil {
			return refError("stage_id", req.StageID, err)
		}
		return r.CreateTerm(ctx, term)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityTerm, EventActionCreate, term.ID)
	return term, nil
}

func (s *service) GetTerm(ctx context.Context, id int64) (*Term, error) {
	return s.repo.GetTerm(ctx, id)
}

func (s *service) ListTerms(ctx context.Context, stageID int64) ([]*Term, error) {
	return s.repo.ListTerms(ctx, stageID)
}

func (s *service) UpdateTerm(ctx context.Context, req UpdateTermRequest) (*Term, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	var term *Term
	err := s.repo.WithTx(ctx, func(r Repository) error {
		cur, err := r.GetTerm(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.StageID != cur.StageID {
			// Reparenting would break invariant 1 for every file referencing
			// this term, so it is blocked while such files exist.
			files, err := r.CountFiles(ctx, FileFilter{TermID: idPtr(req.ID)})
			if err != nil {
				return err
			}
			if files > 0 {
				return &ConflictError{Entity: entityTerm, ID: req.ID, Dependents: files}
			}
			if _, err := r.GetStage(ctx, req.StageID); err != nil {
				return refError("stage_id", req.StageID, err)
			}
		}

		cur.StageID = req.StageID
		cur.Name = req.Name
		if err := r.UpdateTerm(ctx, cur); err != nil {
			return err
		}
		term = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityTerm, EventActionUpdate, term.ID)
	return term, nil
}

func (s *service) DeleteTerm(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetTerm(ctx, id); err != nil {
			return err
		}

		files, err := r.CountFiles(ctx, FileFilter{TermID: idPtr(id)})
		if err != nil {
			return err
		}
		if files > 0 {
			return &ConflictError{Entity: entityTerm, ID: id, Dependents: files}
		}

		return r.DeleteTerm(ctx, id)
	})
	if err != nil {
		return err
	}

	s.fire(ctx, entityTerm, EventActionDelete, id)
	return nil
}

// Grade operations

func (s *service) CreateGrade(ctx context.Context, req CreateGradeRequest) (*Grade, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	grade := &Grade{StageID: req.StageID, Name: req.Name}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetStage(ctx, req.StageID); err != nil {
			return refError("stage_id", req.StageID, err)
		}
		return r.CreateGrade(ctx, grade)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityGrade, EventActionCreate, grade.ID)
	return grade, nil
}

func (s *service) GetGrade(ctx context.Context, id int64) (*Grade, error) {
	return s.repo.GetGrade(ctx, id)
}

func (s *service) ListGrades(ctx context.Context, stageID int64) ([]*Grade, error) {
	return s.repo.ListGrades(ctx, stageID)
}

func (s *service) UpdateGrade(ctx context.Context, req UpdateGradeRequest) (*Grade, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	var grade *Grade
	err := s.repo.WithTx(ctx, func(r Repository) error {
		cur, err := r.GetGrade(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.StageID != cur.StageID {
			subjects, err := r.CountSubjectsByGrade(ctx, req.ID)
			if err != nil {
				return err
			}
			files, err := r.CountFiles(ctx, FileFilter{GradeID: idPtr(req.ID)})
			if err != nil {
				return err
			}
			if n := subjects + files; n > 0 {
				return &ConflictError{Entity: entityGrade, ID: req.ID, Dependents: n}
			}
			if _, err := r.GetStage(ctx, req.StageID); err != nil {
				return refError("stage_id", req.StageID, err)
			}
		}

		cur.StageID = req.StageID
		cur.Name = req.Name
		if err := r.UpdateGrade(ctx, cur); err != nil {
			return err
		}
		grade = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityGrade, EventActionUpdate, grade.ID)
	return grade, nil
}

func (s *service) DeleteGrade(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetGrade(ctx, id); err != nil {
			return err
		}

		subjects, err := r.CountSubjectsByGrade(ctx, id)
		if err != nil {
			return err
		}
		files, err := r.CountFiles(ctx, FileFilter{GradeID: idPtr(id)})
		if err != nil {
			return err
		}
		if n := subjects + files; n > 0 {
			return &ConflictError{Entity: entityGrade, ID: id, Dependents: n}
		}

		return r.DeleteGrade(ctx, id)
	})
	if err != nil {
		return err
	}

	s.fire(ctx, entityGrade, EventActionDelete, id)
	return nil
}

// Subject operations

func (s *service) CreateSubject(ctx context.Context, req CreateSubjectRequest) (*Subject, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	subject := &Subject{GradeID: req.GradeID, Name: req.Name}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetGrade(ctx, req.GradeID); err != nil {
			return refError("grade_id", req.GradeID, err)
		}
		return r.CreateSubject(ctx, subject)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entitySubject, EventActionCreate, subject.ID)
	return subject, nil
}

func (s *service) GetSubject(ctx context.Context, id int64) (*Subject, error) {
	return s.repo.GetSubject(ctx, id)
}

func (s *service) ListSubjects(ctx context.Context, gradeID int64) ([]*Subject, error) {
	return s.repo.ListSubjects(ctx, gradeID)
}

func (s *service) UpdateSubject(ctx context.Context, req UpdateSubjectRequest) (*Subject, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	var subject *Subject
	err := s.repo.WithTx(ctx, func(r Repository) error {
		cur, err := r.GetSubject(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.GradeID != cur.GradeID {
			files, err := r.CountFiles(ctx, FileFilter{SubjectID: idPtr(req.ID)})
			if err != nil {
				return err
			}
			if files > 0 {
				return &ConflictError{Entity: entitySubject, ID: req.ID, Dependents: files}
			}
			if _, err := r.GetGrade(ctx, req.GradeID); err != nil {
				return refError("grade_id", req.GradeID, err)
			}
		}

		cur.GradeID = req.GradeID
		cur.Name = req.Name
		if err := r.UpdateSubject(ctx, cur); err != nil {
			return err
		}
		subject = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entitySubject, EventActionUpdate, subject.ID)
	return subject, nil
}

func (s *service) DeleteSubject(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetSubject(ctx, id); err != nil {
			return err
		}

		files, err := r.CountFiles(ctx, FileFilter{SubjectID: idPtr(id)})
		if err != nil {
			return err
		}
		if files > 0 {
			return &ConflictError{Entity: entitySubject, ID: id, Dependents: files}
		}

		return r.DeleteSubject(ctx, id)
	})
	if err != nil {
		return err
	}

	s.fire(ctx, entitySubject, EventActionDelete, id)
	return nil
}

// Content type operations

func (s *service) CreateContentType(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	ct := &ContentType{Name: req.Name}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		return r.CreateContentType(ctx, ct)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityContentType, EventActionCreate, ct.ID)
	return ct, nil
}

func (s *service) GetContentType(ctx context.Context, id int64) (*ContentType, error) {
	return s.repo.GetContentType(ctx, id)
}

func (s *service) ListContentTypes(ctx context.Context) ([]*ContentType, error) {
	return s.repo.ListContentTypes(ctx)
}

func (s *service) UpdateContentType(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	var ct *ContentType
	err := s.repo.WithTx(ctx, func(r Repository) error {
		cur, err := r.GetContentType(ctx, req.ID)
		if err != nil {
			return err
		}
		cur.Name = req.Name
		if err := r.UpdateContentType(ctx, cur); err != nil {
			return err
		}
		ct = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityContentType, EventActionUpdate, ct.ID)
	return ct, nil
}

func (s *service) DeleteContentType(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetContentType(ctx, id); err != nil {
			return err
		}

		subtypes, err := r.CountSubtypesByType(ctx, id)
		if err != nil {
			return err
		}
		files, err := r.CountFiles(ctx, FileFilter{TypeID: idPtr(id)})
		if err != nil {
			return err
		}
		if n := subtypes + files; n > 0 {
			return &ConflictError{Entity: entityContentType, ID: id, Dependents: n}
		}

		return r.DeleteContentType(ctx, id)
	})
	if err != nil {
		return err
	}

	s.fire(ctx, entityContentType, EventActionDelete, id)
	return nil
}

// Content subtype operations

func (s *service) CreateContentSubtype(ctx context.Context, req CreateContentSubtypeRequest) (*ContentSubtype, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	st := &ContentSubtype{TypeID: req.TypeID, Name: req.Name}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetContentType(ctx, req.TypeID); err != nil {
			return refError("type_id", req.TypeID, err)
		}
		return r.CreateContentSubtype(ctx, st)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityContentSubtype, EventActionCreate, st.ID)
	return st, nil
}

func (s *service) GetContentSubtype(ctx context.Context, id int64) (*ContentSubtype, error) {
	return s.repo.GetContentSubtype(ctx, id)
}

func (s *service) ListContentSubtypes(ctx context.Context, typeID int64) ([]*ContentSubtype, error) {
	return s.repo.ListContentSubtypes(ctx, typeID)
}

func (s *service) UpdateContentSubtype(ctx context.Context, req UpdateContentSubtypeRequest) (*ContentSubtype, error) {
	if err := requireName("name", req.Name); err != nil {
		return nil, err
	}

	var st *ContentSubtype
	err := s.repo.WithTx(ctx, func(r Repository) error {
		cur, err := r.GetContentSubtype(ctx, req.ID)
		if err != nil {
			return err
		}

		if req.TypeID != cur.TypeID {
			files, err := r.CountFiles(ctx, FileFilter{SubtypeID: idPtr(req.ID)})
			if err != nil {
				return err
			}
			if files > 0 {
				return &ConflictError{Entity: entityContentSubtype, ID: req.ID, Dependents: files}
			}
			if _, err := r.GetContentType(ctx, req.TypeID); err != nil {
				return refError("type_id", req.TypeID, err)
			}
		}

		cur.TypeID = req.TypeID
		cur.Name = req.Name
		if err := r.UpdateContentSubtype(ctx, cur); err != nil {
			return err
		}
		st = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityContentSubtype, EventActionUpdate, st.ID)
	return st, nil
}

func (s *service) DeleteContentSubtype(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetContentSubtype(ctx, id); err != nil {
			return err
		}

		files, err := r.CountFiles(ctx, FileFilter{SubtypeID: idPtr(id)})
		if err != nil {
			return err
		}
		if files > 0 {
			return &ConflictError{Entity: entityContentSubtype, ID: id, Dependents: files}
		}

		return r.DeleteContentSubtype(ctx, id)
	})
	if err != nil {
		return err
	}

	s.fire(ctx, entityContentSubtype, EventActionDelete, id)
	return nil
}

// File operations

func (s *service) CreateFile(ctx context.Context, req CreateFileRequest) (*File, error) {
	if err := requireName("title", req.Title); err != nil {
		return nil, err
	}
	if err := requireName("file_url", req.FileURL); err != nil {
		return nil, err
	}

	file := &File{
		Title:     req.Title,
		FileURL:   req.FileURL,
		StageID:   req.StageID,
		TermID:    req.TermID,
		GradeID:   req.GradeID,
		SubjectID: req.SubjectID,
		TypeID:    req.TypeID,
		SubtypeID: req.SubtypeID,
	}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		refs, err := resolveFileRefs(ctx, r, file)
		if err != nil {
			return err
		}
		if err := validateFileHierarchy(refs); err != nil {
			return err
		}
		return r.CreateFile(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityFile, EventActionCreate, file.ID)
	return file, nil
}

func (s *service) GetFile(ctx context.Context, id int64) (*File, error) {
	return s.repo.GetFile(ctx, id)
}

func (s *service) UpdateFile(ctx context.Context, req UpdateFileRequest) (*File, error) {
	if err := requireName("title", req.Title); err != nil {
		return nil, err
	}
	if err := requireName("file_url", req.FileURL); err != nil {
		return nil, err
	}

	file := &File{
		ID:        req.ID,
		Title:     req.Title,
		FileURL:   req.FileURL,
		StageID:   req.StageID,
		TermID:    req.TermID,
		GradeID:   req.GradeID,
		SubjectID: req.SubjectID,
		TypeID:    req.TypeID,
		SubtypeID: req.SubtypeID,
	}
	err := s.repo.WithTx(ctx, func(r Repository) error {
		if _, err := r.GetFile(ctx, req.ID); err != nil {
			return err
		}
		refs, err := resolveFileRefs(ctx, r, file)
		if err != nil {
			return err
		}
		if err := validateFileHierarchy(refs); err != nil {
			return err
		}
		return r.UpdateFile(ctx, file)
	})
	if err != nil {
		return nil, err
	}

	s.fire(ctx, entityFile, EventActionUpdate, file.ID)
	return file, nil
}

func (s *service) DeleteFile(ctx context.Context, id int64) error {
	err := s.repo.WithTx(ctx, func(r Repository) error {
		return r.DeleteFile(ctx, id)
	})
	if err != nil {
		return err
	}

	s.fire(ctx, entityFile, EventActionDelete, id)
	return nil
}

// resolveFileRefs resolves the five mandatory references plus the optional
// subtype, failing with a ReferenceError naming the first dangling field.
func resolveFileRefs(ctx context.Context, r Repository, file *File) (*fileRefs, error) {
	stage, err := r.GetStage(ctx, file.StageID)
	if err != nil {
		return nil, refError("stage_id", file.StageID, err)
	}
	term, err := r.GetTerm(ctx, file.TermID)
	if err != nil {
		return nil, refError("term_id", file.TermID, err)
	}
	grade, err := r.GetGrade(ctx, file.GradeID)
	if err != nil {
		return nil, refError("grade_id", file.GradeID, err)
	}
	subject, err := r.GetSubject(ctx, file.SubjectID)
	if err != nil {
		return nil, refError("subject_id", file.SubjectID, err)
	}
	ctype, err := r.GetContentType(ctx, file.TypeID)
	if err != nil {
		return nil, refError("type_id", file.TypeID, err)
	}

	var subtype *ContentSubtype
	if file.SubtypeID != nil {
		subtype, err = r.GetContentSubtype(ctx, *file.SubtypeID)
		if err != nil {
			return nil, refError("subtype_id", *file.SubtypeID, err)
		}
	}

	return &fileRefs{
		stage:   stage,
		term:    term,
		grade:   grade,
		subject: subject,
		ctype:   ctype,
		subtype: subtype,
	}, nil
}

// Query operations

func (s *service) ListFiles(ctx context.Context, filter FileFilter) ([]*FileDetails, error) {
	return s.repo.ListFiles(ctx, filter)
}

func (s *service) ListTermsAndGrades(ctx context.Context, stageID int64) ([]*Term, []*Grade, error) {
	terms, err := s.repo.ListTerms(ctx, stageID)
	if err != nil {
		return nil, nil, err
	}
	grades, err := s.repo.ListGrades(ctx, stageID)
	if err != nil {
		return nil, nil, err
	}
	return terms, grades, nil
}
