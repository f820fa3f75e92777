package catalog

// CreateStageRequest contains parameters for creating a stage
type CreateStageRequest struct {
	Name string `json:"name"`
}

// UpdateStageRequest contains parameters for renaming a stage
type UpdateStageRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateTermRequest contains parameters for creating a term under a stage
type CreateTermRequest struct {
	StageID int64  `json:"stage_id"`
	Name    string `json:"name"`
}

// UpdateTermRequest contains parameters for updating a term. Changing StageID
// reparents the term and is rejected while files still reference it.
type UpdateTermRequest struct {
	ID      int64  `json:"id"`
	StageID int64  `json:"stage_id"`
	Name    string `json:"name"`
}

// CreateGradeRequest contains parameters for creating a grade under a stage
type CreateGradeRequest struct {
	StageID int64  `json:"stage_id"`
	Name    string `json:"name"`
}

// UpdateGradeRequest contains parameters for updating a grade. Changing
// StageID is rejected while subjects or files still reference the grade.
type UpdateGradeRequest struct {
	ID      int64  `json:"id"`
	StageID int64  `json:"stage_id"`
	Name    string `json:"name"`
}

// CreateSubjectRequest contains parameters for creating a subject under a grade
type CreateSubjectRequest struct {
	GradeID int64  `json:"grade_id"`
	Name    string `json:"name"`
}

// UpdateSubjectRequest contains parameters for updating a subject. Changing
// GradeID is rejected while files still reference the subject.
type UpdateSubjectRequest struct {
	ID      int64  `json:"id"`
	GradeID int64  `json:"grade_id"`
	Name    string `json:"name"`
}

// CreateContentTypeRequest contains parameters for creating a content type
type CreateContentTypeRequest struct {
	Name string `json:"name"`
}

// UpdateContentTypeRequest contains parameters for renaming a content type
type UpdateContentTypeRequest struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateContentSubtypeRequest contains parameters for creating a subtype
// under a content type
type CreateContentSubtypeRequest struct {
	TypeID int64  `json:"type_id"`
	Name   string `json:"name"`
}

// UpdateContentSubtypeRequest contains parameters for updating a subtype.
// Changing TypeID is rejected while files still reference the subtype.
type UpdateContentSubtypeRequest struct {
	ID     int64  `json:"id"`
	TypeID int64  `json:"type_id"`
	Name   string `json:"name"`
}

// CreateFileRequest contains parameters for publishing a file. SubtypeID is
// optional; every other reference is mandatory.
type CreateFileRequest struct {
	Title     string `json:"title"`
	FileURL   string `json:"file_url"`
	StageID   int64  `json:"stage_id"`
	TermID    int64  `json:"term_id"`
	GradeID   int64  `json:"grade_id"`
	SubjectID int64  `json:"subject_id"`
	TypeID    int64  `json:"type_id"`
	SubtypeID *int64 `json:"subtype_id,omitempty"`
}

// UpdateFileRequest contains the full replacement state for a file. The
// classification chain is revalidated as a whole on every update.
type UpdateFileRequest struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	FileURL   string `json:"file_url"`
	StageID   int64  `json:"stage_id"`
	TermID    int64  `json:"term_id"`
	GradeID   int64  `json:"grade_id"`
	SubjectID int64  `json:"subject_id"`
	TypeID    int64  `json:"type_id"`
	SubtypeID *int64 `json:"subtype_id,omitempty"`
}

// FileFilter selects files by any subset of their classification references.
// Nil fields impose no constraint. Results are always ordered by ascending
// file id.
type FileFilter struct {
	StageID   *int64 `json:"stage_id,omitempty"`
	TermID    *int64 `json:"term_id,omitempty"`
	GradeID   *int64 `json:"grade_id,omitempty"`
	SubjectID *int64 `json:"subject_id,omitempty"`
	TypeID    *int64 `json:"type_id,omitempty"`
	SubtypeID *int64 `json:"subtype_id,omitempty"`
}

// Matches reports whether a file satisfies every supplied constraint.
func (f FileFilter) Matches(file *File) bool {
	if f.StageID != nil && file.StageID != *f.StageID {
		return false
	}
	if f.TermID != nil && file.TermID != *f.TermID {
		return false
	}
	if f.GradeID != nil && file.GradeID != *f.GradeID {
		return false
	}
	if f.SubjectID != nil && file.SubjectID != *f.SubjectID {
		return false
	}
	if f.TypeID != nil && file.TypeID != *f.TypeID {
		return false
	}
	if f.SubtypeID != nil && (file.SubtypeID == nil || *file.SubtypeID != *f.SubtypeID) {
		return false
	}
	return true
}
