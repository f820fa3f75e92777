package catalog

import (
	"context"
)

// Repository defines the interface for catalog persistence. Create operations
// assign the entity id before returning. List operations that take a parent
// id treat a zero id as "no constraint".
//
// WithTx runs fn against a repository view whose operations share one atomic
// scope: either everything fn does commits, or none of it does, and no other
// writer interleaves with the reads fn performs. The service wraps every
// mutation in WithTx so hierarchy validation and the write it guards are
// serialized against conflicting mutations.
type Repository interface {
	// Stage operations
	CreateStage(ctx context.Context, stage *Stage) error
	GetStage(ctx context.Context, id int64) (*Stage, error)
	ListStages(ctx context.Context) ([]*Stage, error)
	UpdateStage(ctx context.Context, stage *Stage) error
	DeleteStage(ctx context.Context, id int64) error

	// Term operations
	CreateTerm(ctx context.Context, term *Term) error
	GetTerm(ctx context.Context, id int64) (*Term, error)
	ListTerms(ctx context.Context, stageID int64) ([]*Term, error)
	UpdateTerm(ctx context.Context, term *Term) error
	DeleteTerm(ctx context.Context, id int64) error

	// Grade operations
	CreateGrade(ctx context.Context, grade *Grade) error
	GetGrade(ctx context.Context, id int64) (*Grade, error)
	ListGrades(ctx context.Context, stageID int64) ([]*Grade, error)
	UpdateGrade(ctx context.Context, grade *Grade) error
	DeleteGrade(ctx context.Context, id int64) error

	// Subject operations
	CreateSubject(ctx context.Context, subject *Subject) error
	GetSubject(ctx context.Context, id int64) (*Subject, error)
	ListSubjects(ctx context.Context, gradeID int64) ([]*Subject, error)
	UpdateSubject(ctx context.Context, subject *Subject) error
	DeleteSubject(ctx context.Context, id int64) error

	// Content type operations
	CreateContentType(ctx context.Context, ct *ContentType) error
	GetContentType(ctx context.Context, id int64) (*ContentType, error)
	ListContentTypes(ctx context.Context) ([]*ContentType, error)
	UpdateContentType(ctx context.Context, ct *ContentType) error
	DeleteContentType(ctx context.Context, id int64) error

	// Content subtype operations
	CreateContentSubtype(ctx context.Context, st *ContentSubtype) error
	GetContentSubtype(ctx context.Context, id int64) (*ContentSubtype, error)
	ListContentSubtypes(ctx context.Context, typeID int64) ([]*ContentSubtype, error)
	UpdateContentSubtype(ctx context.Context, st *ContentSubtype) error
	DeleteContentSubtype(ctx context.Context, id int64) error

	// File operations
	CreateFile(ctx context.Context, file *File) error
	GetFile(ctx context.Context, id int64) (*File, error)
	ListFiles(ctx context.Context, filter FileFilter) ([]*FileDetails, error)
	UpdateFile(ctx context.Context, file *File) error
	DeleteFile(ctx context.Context, id int64) error

	// Dependent counts, used to guard deletes and reparents
	CountTermsByStage(ctx context.Context, stageID int64) (int64, error)
	CountGradesByStage(ctx context.Context, stageID int64) (int64, error)
	CountSubjectsByGrade(ctx context.Context, gradeID int64) (int64, error)
	CountSubtypesByType(ctx context.Context, typeID int64) (int64, error)
	CountFiles(ctx context.Context, filter FileFilter) (int64, error)

	WithTx(ctx context.Context, fn func(Repository) error) error
}
