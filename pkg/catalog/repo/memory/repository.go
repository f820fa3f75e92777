// Package memory provides an in-memory catalog.Repository, used in tests and
// for running the service without a database.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
)

// Repository implements catalog.Repository using in-memory maps. Each map
// has its own id sequence, mirroring per-table BIGSERIAL columns.
type Repository struct {
	mu sync.RWMutex
	// txMu serializes WithTx scopes so a delete never races a concurrent
	// insert of a dependent. Plain reads only take mu.
	txMu sync.Mutex

	stages   map[int64]*catalog.Stage
	terms    map[int64]*catalog.Term
	grades   map[int64]*catalog.Grade
	subjects map[int64]*catalog.Subject
	types    map[int64]*catalog.ContentType
	subtypes map[int64]*catalog.ContentSubtype
	files    map[int64]*catalog.File

	stageSeq   int64
	termSeq    int64
	gradeSeq   int64
	subjectSeq int64
	typeSeq    int64
	subtypeSeq int64
	fileSeq    int64
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		stages:   make(map[int64]*catalog.Stage),
		terms:    make(map[int64]*catalog.Term),
		grades:   make(map[int64]*catalog.Grade),
		subjects: make(map[int64]*catalog.Subject),
		types:    make(map[int64]*catalog.ContentType),
		subtypes: make(map[int64]*catalog.ContentSubtype),
		files:    make(map[int64]*catalog.File),
	}
}

// WithTx serializes the callback against all other transactions. Every
// service mutation runs inside WithTx and performs exactly one write after
// its validation reads, so serializing transactions is enough to keep
// validation and write atomic: a failed validation has written nothing.
func (r *Repository) WithTx(ctx context.Context, fn func(catalog.Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}

// Stage operations

func (r *Repository) CreateStage(ctx context.Context, stage *catalog.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.stages {
		if existing.Name == stage.Name {
			return &catalog.ValidationError{Field: "name", Reason: "already exists"}
		}
	}

	r.stageSeq++
	stage.ID = r.stageSeq
	stageCopy := *stage
	r.stages[stage.ID] = &stageCopy
	return nil
}

func (r *Repository) GetStage(ctx context.Context, id int64) (*catalog.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stage, exists := r.stages[id]
	if !exists {
		return nil, catalog.ErrStageNotFound
	}
	stageCopy := *stage
	return &stageCopy, nil
}

func (r *Repository) ListStages(ctx context.Context) ([]*catalog.Stage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Stage, 0, len(r.stages))
	for _, stage := range r.stages {
		stageCopy := *stage
		result = append(result, &stageCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateStage(ctx context.Context, stage *catalog.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stages[stage.ID]; !exists {
		return catalog.ErrStageNotFound
	}
	for _, existing := range r.stages {
		if existing.ID != stage.ID && existing.Name == stage.Name {
			return &catalog.ValidationError{Field: "name", Reason: "already exists"}
		}
	}

	stageCopy := *stage
	r.stages[stage.ID] = &stageCopy
	return nil
}

func (r *Repository) DeleteStage(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.stages[id]; !exists {
		return catalog.ErrStageNotFound
	}
	delete(r.stages, id)
	return nil
}

// Term operations

func (r *Repository) CreateTerm(ctx context.Context, term *catalog.Term) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.terms {
		if existing.StageID == term.StageID && existing.Name == term.Name {
			return &catalog.ValidationError{Field: "name", Reason: "already exists"}
		}
	}

	r.termSeq++
	term.ID = r.termSeq
	termCopy := *term
	r.terms[term.ID] = &termCopy
	return nil
}

func (r *Repository) GetTerm(ctx context.Context, id int64) (*catalog.Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term, exists := r.terms[id]
	if !exists {
		return nil, catalog.ErrTermNotFound
	}
	termCopy := *term
	return &termCopy, nil
}

func (r *Repository) ListTerms(ctx context.Context, stageID int64) ([]*catalog.Term, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Term, 0)
	for _, term := range r.terms {
		if stageID == 0 || term.StageID == stageID {
			termCopy := *term
			result = append(result, &termCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateTerm(ctx context.Context, term *catalog.Term) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.terms[term.ID]; !exists {
		return catalog.ErrTermNotFound
	}
	for _, existing := range r.terms {
		if existing.ID != term.ID && existing.StageID == term.StageID && existing.Name == term.Name {
			return &catalog.ValidationError{Field: "name", Reason: "already exists"}
		}
	}

	termCopy := *term
	r.terms[term.ID] = &termCopy
	return nil
}

func (r *Repository) DeleteTerm(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.terms[id]; !exists {
		return catalog.ErrTermNotFound
	}
	delete(r.terms, id)
	return nil
}

// Grade operations

func (r *Repository) CreateGrade(ctx context.Context, grade *catalog.Grade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.grades {
		if existing.StageID == grade.StageID && existing.Name == grade.Name {
			return &catalog.ValidationError{Field: "name", Reason: "already exists"}
		}
	}

	r.gradeSeq++
	grade.ID = r.gradeSeq
	gradeCopy := *grade
	r.grades[grade.ID] = &gradeCopy
	return nil
}

func (r *Repository) GetGrade(ctx context.Context, id int64) (*catalog.Grade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	grade, exists := r.grades[id]
	if !exists {
		return nil, catalog.ErrGradeNotFound
	}
	gradeCopy := *grade
	return &gradeCopy, nil
}

func (r *Repository) ListGrades(ctx context.Context, stageID int64) ([]*catalog.Grade, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Grade, 0)
	for _, grade := range r.grades {
		if stageID == 0 || grade.StageID == stageID {
			gradeCopy := *grade
			result = append(result, &gradeCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateGrade(ctx context.Context, grade *catalog.Grade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.grades[grade.ID]; !exists {
		return catalog.ErrGradeNotFound
	}
	for _, existing := range r.grades {
		if existing.ID != grade.ID && existing.StageID == grade.StageID && existing.Name == grade.Name {
			return &catalog.ValidationError{Field: "name", Reason: "already exists"}
		}
	}

	gradeCopy := *grade
	r.grades[grade.ID] = &gradeCopy
	return nil
}

func (r *Repository) DeleteGrade(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.grades[id]; !exists {
		return catalog.ErrGradeNotFound
	}
	delete(r.grades, id)
	return nil
}

// Subject operations

func (r *Repository) CreateSubject(ctx context.Context, subject *catalog.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subjectSeq++
	subject.ID = r.subjectSeq
	subjectCopy := *subject
	r.subjects[subject.ID] = &subjectCopy
	return nil
}

func (r *Repository) GetSubject(ctx context.Context, id int64) (*catalog.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	subject, exists := r.subjects[id]
	if !exists {
		return nil, catalog.ErrSubjectNotFound
	}
	subjectCopy := *subject
	return &subjectCopy, nil
}

func (r *Repository) ListSubjects(ctx context.Context, gradeID int64) ([]*catalog.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.Subject, 0)
	for _, subject := range r.subjects {
		if gradeID == 0 || subject.GradeID == gradeID {
			subjectCopy := *subject
			result = append(result, &subjectCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateSubject(ctx context.Context, subject *catalog.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subjects[subject.ID]; !exists {
		return catalog.ErrSubjectNotFound
	}
	subjectCopy := *subject
	r.subjects[subject.ID] = &subjectCopy
	return nil
}

func (r *Repository) DeleteSubject(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subjects[id]; !exists {
		return catalog.ErrSubjectNotFound
	}
	delete(r.subjects, id)
	return nil
}

// Content type operations

func (r *Repository) CreateContentType(ctx context.Context, ct *catalog.ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.typeSeq++
	ct.ID = r.typeSeq
	ctCopy := *ct
	r.types[ct.ID] = &ctCopy
	return nil
}

func (r *Repository) GetContentType(ctx context.Context, id int64) (*catalog.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, exists := r.types[id]
	if !exists {
		return nil, catalog.ErrContentTypeNotFound
	}
	ctCopy := *ct
	return &ctCopy, nil
}

func (r *Repository) ListContentTypes(ctx context.Context) ([]*catalog.ContentType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.ContentType, 0, len(r.types))
	for _, ct := range r.types {
		ctCopy := *ct
		result = append(result, &ctCopy)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateContentType(ctx context.Context, ct *catalog.ContentType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[ct.ID]; !exists {
		return catalog.ErrContentTypeNotFound
	}
	ctCopy := *ct
	r.types[ct.ID] = &ctCopy
	return nil
}

func (r *Repository) DeleteContentType(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[id]; !exists {
		return catalog.ErrContentTypeNotFound
	}
	delete(r.types, id)
	return nil
}

// Content subtype operations

func (r *Repository) CreateContentSubtype(ctx context.Context, st *catalog.ContentSubtype) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.subtypeSeq++
	st.ID = r.subtypeSeq
	stCopy := *st
	r.subtypes[st.ID] = &stCopy
	return nil
}

func (r *Repository) GetContentSubtype(ctx context.Context, id int64) (*catalog.ContentSubtype, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	st, exists := r.subtypes[id]
	if !exists {
		return nil, catalog.ErrContentSubtypeNotFound
	}
	stCopy := *st
	return &stCopy, nil
}

func (r *Repository) ListContentSubtypes(ctx context.Context, typeID int64) ([]*catalog.ContentSubtype, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.ContentSubtype, 0)
	for _, st := range r.subtypes {
		if typeID == 0 || st.TypeID == typeID {
			stCopy := *st
			result = append(result, &stCopy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *Repository) UpdateContentSubtype(ctx context.Context, st *catalog.ContentSubtype) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subtypes[st.ID]; !exists {
		return catalog.ErrContentSubtypeNotFound
	}
	stCopy := *st
	r.subtypes[st.ID] = &stCopy
	return nil
}

func (r *Repository) DeleteContentSubtype(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subtypes[id]; !exists {
		return catalog.ErrContentSubtypeNotFound
	}
	delete(r.subtypes, id)
	return nil
}

// File operations

func (r *Repository) CreateFile(ctx context.Context, file *catalog.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.fileSeq++
	file.ID = r.fileSeq
	fileCopy := *file
	r.files[file.ID] = &fileCopy
	return nil
}

func (r *Repository) GetFile(ctx context.Context, id int64) (*catalog.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, exists := r.files[id]
	if !exists {
		return nil, catalog.ErrFileNotFound
	}
	fileCopy := *file
	return &fileCopy, nil
}

func (r *Repository) ListFiles(ctx context.Context, filter catalog.FileFilter) ([]*catalog.FileDetails, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*catalog.FileDetails, 0)
	for _, file := range r.files {
		if !filter.Matches(file) {
			continue
		}
		result = append(result, r.fileDetails(file))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// fileDetails joins a file with its classification names. Caller holds mu.
func (r *Repository) fileDetails(file *catalog.File) *catalog.FileDetails {
	details := &catalog.FileDetails{File: *file}
	if stage, ok := r.stages[file.StageID]; ok {
		details.StageName = stage.Name
	}
	if term, ok := r.terms[file.TermID]; ok {
		details.TermName = term.Name
	}
	if grade, ok := r.grades[file.GradeID]; ok {
		details.GradeName = grade.Name
	}
	if subject, ok := r.subjects[file.SubjectID]; ok {
		details.SubjectName = subject.Name
	}
	if ct, ok := r.types[file.TypeID]; ok {
		details.TypeName = ct.Name
	}
	if file.SubtypeID != nil {
		if st, ok := r.subtypes[*file.SubtypeID]; ok {
			name := st.Name
			details.SubtypeName = &name
		}
	}
	return details
}

func (r *Repository) UpdateFile(ctx context.Context, file *catalog.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.files[file.ID]; !exists {
		return catalog.ErrFileNotFound
	}
	fileCopy := *file
	r.files[file.ID] = &fileCopy
	return nil
}

func (r *Repository) DeleteFile(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.files[id]; !exists {
		return catalog.ErrFileNotFound
	}
	delete(r.files, id)
	return nil
}

// Dependent counts

func (r *Repository) CountTermsByStage(ctx context.Context, stageID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, term := range r.terms {
		if term.StageID == stageID {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CountGradesByStage(ctx context.Context, stageID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, grade := range r.grades {
		if grade.StageID == stageID {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CountSubjectsByGrade(ctx context.Context, gradeID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, subject := range r.subjects {
		if subject.GradeID == gradeID {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CountSubtypesByType(ctx context.Context, typeID int64) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, st := range r.subtypes {
		if st.TypeID == typeID {
			n++
		}
	}
	return n, nil
}

func (r *Repository) CountFiles(ctx context.Context, filter catalog.FileFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var n int64
	for _, file := range r.files {
		if filter.Matches(file) {
			n++
		}
	}
	return n, nil
}
