package catalog

import (
	"context"
)

// Service defines the main interface for the catalog library. Every mutation
// is validated against the classification hierarchy before it is written, and
// a failed validation leaves prior state unchanged.
type Service interface {
	// Stage operations
	CreateStage(ctx context.Context, req CreateStageRequest) (*Stage, error)
	GetStage(ctx context.Context, id int64) (*Stage, error)
	ListStages(ctx context.Context) ([]*Stage, error)
	UpdateStage(ctx context.Context, req UpdateStageRequest) (*Stage, error)
	DeleteStage(ctx context.Context, id int64) error

	// Term operations
	CreateTerm(ctx context.Context, req CreateTermRequest) (*Term, error)
	GetTerm(ctx context.Context, id int64) (*Term, error)
	ListTerms(ctx context.Context, stageID int64) ([]*Term, error)
	UpdateTerm(ctx context.Context, req UpdateTermRequest) (*Term, error)
	DeleteTerm(ctx context.Context, id int64) error

	// Grade operations
	CreateGrade(ctx context.Context, req CreateGradeRequest) (*Grade, error)
	GetGrade(ctx context.Context, id int64) (*Grade, error)
	ListGrades(ctx context.Context, stageID int64) ([]*Grade, error)
	UpdateGrade(ctx context.Context, req UpdateGradeRequest) (*Grade, error)
	DeleteGrade(ctx context.Context, id int64) error

	// Subject operations
	CreateSubject(ctx context.Context, req CreateSubjectRequest) (*Subject, error)
	GetSubject(ctx context.Context, id int64) (*Subject, error)
	ListSubjects(ctx context.Context, gradeID int64) ([]*Subject, error)
	UpdateSubject(ctx context.Context, req UpdateSubjectRequest) (*Subject, error)
	DeleteSubject(ctx context.Context, id int64) error

	// Content type operations
	CreateContentType(ctx context.Context, req CreateContentTypeRequest) (*ContentType, error)
	GetContentType(ctx context.Context, id int64) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)
	UpdateContentType(ctx context.Context, req UpdateContentTypeRequest) (*ContentType, error)
	DeleteContentType(ctx context.Context, id int64) error

	// Content subtype operations
	CreateContentSubtype(ctx context.Context, req CreateContentSubtypeRequest) (*ContentSubtype, error)
	GetContentSubtype(ctx context.Context, id int64) (*ContentSubtype, error)
	ListContentSubtypes(ctx context.Context, typeID int64) ([]*ContentSubtype, error)
	UpdateContentSubtype(ctx context.Context, req UpdateContentSubtypeRequest) (*ContentSubtype, error)
	DeleteContentSubtype(ctx context.Context, id int64) error

	// File operations
	CreateFile(ctx context.Context, req CreateFileRequest) (*File, error)
	GetFile(ctx context.Context, id int64) (*File, error)
	UpdateFile(ctx context.Context, req UpdateFileRequest) (*File, error)
	DeleteFile(ctx context.Context, id int64) error

	// Query operations (read-only, no validation side effects)
	ListFiles(ctx context.Context, filter FileFilter) ([]*FileDetails, error)
	ListTermsAndGrades(ctx context.Context, stageID int64) ([]*Term, []*Grade, error)
}
