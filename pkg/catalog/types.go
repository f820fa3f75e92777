package catalog

// Stage is the top of the classification hierarchy (e.g. primary, secondary).
// Stage names are globally unique.
type Stage struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Term is an academic period within a stage. Term names are unique within
// their stage, not globally.
type Term struct {
	ID      int64  `json:"id"`
	StageID int64  `json:"stage_id"`
	Name    string `json:"name"`
}

// Grade is a year or level within a stage. Grade names are unique within
// their stage.
type Grade struct {
	ID      int64  `json:"id"`
	StageID int64  `json:"stage_id"`
	Name    string `json:"name"`
}

// Subject is an academic subject scoped to a single grade.
type Subject struct {
	ID      int64  `json:"id"`
	GradeID int64  `json:"grade_id"`
	Name    string `json:"name"`
}

// ContentType classifies the form of a material (notes, exam, video).
// It has no parent.
type ContentType struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ContentSubtype refines a content type. It is the only entity that can be
// referenced optionally by a file.
type ContentSubtype struct {
	ID     int64  `json:"id"`
	TypeID int64  `json:"type_id"`
	Name   string `json:"name"`
}

// File is a published material record. It references the full classification
// chain plus an opaque URL; the bytes behind the URL are not managed here.
// SubtypeID is the sole optional reference.
type File struct {
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

// FileDetails is a file joined with its classification names for display.
// The denormalization happens at read time, not in storage.
type FileDetails struct {
	File
	StageName   string  `json:"stage_name"`
	TermName    string  `json:"term_name"`
	GradeName   string  `json:"grade_name"`
	SubjectName string  `json:"subject_name"`
	TypeName    string  `json:"type_name"`
	SubtypeName *string `json:"subtype_name,omitempty"`
}
