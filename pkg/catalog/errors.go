package catalog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrNotFound is the base sentinel wrapped by every per-entity
	// not-found error, so callers can match the whole family with errors.Is.
	ErrNotFound = errors.New("not found")

	ErrStageNotFound          = fmt.Errorf("stage %w", ErrNotFound)
	ErrTermNotFound           = fmt.Errorf("term %w", ErrNotFound)
	ErrGradeNotFound          = fmt.Errorf("grade %w", ErrNotFound)
	ErrSubjectNotFound        = fmt.Errorf("subject %w", ErrNotFound)
	ErrContentTypeNotFound    = fmt.Errorf("content type %w", ErrNotFound)
	ErrContentSubtypeNotFound = fmt.Errorf("content subtype %w", ErrNotFound)
	ErrFileNotFound           = fmt.Errorf("file %w", ErrNotFound)

	// ErrStorageUnavailable indicates a transient storage failure. Reads may
	// be retried; mutations only after checking whether the prior attempt
	// committed.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError reports a missing required field or a uniqueness violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ReferenceError reports a classification id supplied on a file (or as a
// parent of a classification entity) that does not resolve to an existing row.
type ReferenceError struct {
	Field string
	ID    int64
	Err   error
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s references missing id %d: %v", e.Field, e.ID, e.Err)
}

func (e *ReferenceError) Unwrap() error {
	return e.Err
}

// Hierarchy invariants checked on every file write.
const (
	InvariantTermStage    = 1 // the file's term must belong to the file's stage
	InvariantGradeStage   = 2 // the file's grade must belong to the file's stage
	InvariantSubjectGrade = 3 // the file's subject must belong to the file's grade
	InvariantSubtypeType  = 4 // the file's subtype must belong to the file's content type
)

// HierarchyError reports classification ids that all exist but are not
// mutually consistent. Field names the file field to correct; Got is the
// parent the referenced entity actually belongs to, Want the parent the file
// references.
type HierarchyError struct {
	Invariant int
	Field     string
	Got       int64
	Want      int64
}

func (e *HierarchyError) Error() string {
	return fmt.Sprintf("hierarchy mismatch (invariant %d): %s belongs to parent %d, file references %d",
		e.Invariant, e.Field, e.Got, e.Want)
}

// ConflictError reports a delete (or reparent) blocked by existing dependents.
// Deletion is never cascading; callers must remove dependents first.
type ConflictError struct {
	Entity     string
	ID         int64
	Dependents int64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %d still has %d dependent row(s)", e.Entity, e.ID, e.Dependents)
}

// StorageError wraps a storage-layer failure with operation context. It
// unwraps to ErrStorageUnavailable for transient failures.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
