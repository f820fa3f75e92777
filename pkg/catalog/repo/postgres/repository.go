// Package postgres provides a catalog.Repository backed by PostgreSQL via
// pgx. Each WithTx scope maps to one database transaction, so hierarchy
// validation and the write it guards commit or roll back together.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/engnohamahmoudamayem/edu-catalog/pkg/catalog"
)

// DBTX is an interface that allows us to use either a connection pool or a
// transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements catalog.Repository using PostgreSQL
type Repository struct {
	pool *pgxpool.Pool // nil when transaction-scoped
	db   DBTX
}

// New creates a new PostgreSQL repository from a connection pool
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool, db: pool}
}

// WithTx runs fn against a transaction-scoped repository. Nested calls reuse
// the enclosing transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(catalog.Repository) error) error {
	if r.pool == nil {
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return storageError("begin", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&Repository{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return storageError("commit", err)
	}
	return nil
}

func storageError(op string, err error) error {
	return &catalog.StorageError{Op: op, Err: fmt.Errorf("%w: %v", catalog.ErrStorageUnavailable, err)}
}

// mapError translates driver errors into the catalog error taxonomy. The
// constraint-violation cases are backstops: the service validates inside the
// same transaction before writing, so they only fire if a caller bypasses it.
func mapError(op string, err error, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return &catalog.ValidationError{Field: "name", Reason: "already exists"}
		case "23503": // foreign_key_violation
			if strings.HasPrefix(op, "delete") {
				return &catalog.ConflictError{Entity: pgErr.TableName, Dependents: 1}
			}
			return &catalog.ValidationError{Field: pgErr.ConstraintName, Reason: "referenced row does not exist"}
		case "23502": // not_null_violation
			return &catalog.ValidationError{Field: pgErr.ColumnName, Reason: "must not be empty"}
		}
	}

	return storageError(op, err)
}

// Stage operations

func (r *Repository) CreateStage(ctx context.Context, stage *catalog.Stage) error {
	query := `INSERT INTO stages (name) VALUES ($1) RETURNING id`

	if err := r.db.QueryRow(ctx, query, stage.Name).Scan(&stage.ID); err != nil {
		return mapError("create stage", err, catalog.ErrStageNotFound)
	}
	return nil
}

func (r *Repository) GetStage(ctx context.Context, id int64) (*catalog.Stage, error) {
	query := `SELECT id, name FROM stages WHERE id = $1`

	var stage catalog.Stage
	if err := r.db.QueryRow(ctx, query, id).Scan(&stage.ID, &stage.Name); err != nil {
		return nil, mapError("get stage", err, catalog.ErrStageNotFound)
	}
	return &stage, nil
}

func (r *Repository) ListStages(ctx context.Context) ([]*catalog.Stage, error) {
	query := `SELECT id, name FROM stages ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storageError("list stages", err)
	}
	defer rows.Close()

	stages := make([]*catalog.Stage, 0)
	for rows.Next() {
		var stage catalog.Stage
		if err := rows.Scan(&stage.ID, &stage.Name); err != nil {
			return nil, storageError("list stages", err)
		}
		stages = append(stages, &stage)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list stages", err)
	}
	return stages, nil
}

func (r *Repository) UpdateStage(ctx context.Context, stage *catalog.Stage) error {
	query := `UPDATE stages SET name = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, stage.ID, stage.Name)
	if err != nil {
		return mapError("update stage", err, catalog.ErrStageNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrStageNotFound
	}
	return nil
}

func (r *Repository) DeleteStage(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM stages WHERE id = $1`, id)
	if err != nil {
		return mapError("delete stage", err, catalog.ErrStageNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrStageNotFound
	}
	return nil
}

// Term operations

func (r *Repository) CreateTerm(ctx context.Context, term *catalog.Term) error {
	query := `INSERT INTO terms (stage_id, name) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRow(ctx, query, term.StageID, term.Name).Scan(&term.ID); err != nil {
		return mapError("create term", err, catalog.ErrTermNotFound)
	}
	return nil
}

func (r *Repository) GetTerm(ctx context.Context, id int64) (*catalog.Term, error) {
	query := `SELECT id, stage_id, name FROM terms WHERE id = $1`

	var term catalog.Term
	if err := r.db.QueryRow(ctx, query, id).Scan(&term.ID, &term.StageID, &term.Name); err != nil {
		return nil, mapError("get term", err, catalog.ErrTermNotFound)
	}
	return &term, nil
}

func (r *Repository) ListTerms(ctx context.Context, stageID int64) ([]*catalog.Term, error) {
	query := `SELECT id, stage_id, name FROM terms WHERE $1 = 0 OR stage_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, stageID)
	if err != nil {
		return nil, storageError("list terms", err)
	}
	defer rows.Close()

	terms := make([]*catalog.Term, 0)
	for rows.Next() {
		var term catalog.Term
		if err := rows.Scan(&term.ID, &term.StageID, &term.Name); err != nil {
			return nil, storageError("list terms", err)
		}
		terms = append(terms, &term)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list terms", err)
	}
	return terms, nil
}

func (r *Repository) UpdateTerm(ctx context.Context, term *catalog.Term) error {
	query := `UPDATE terms SET stage_id = $2, name = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, term.ID, term.StageID, term.Name)
	if err != nil {
		return mapError("update term", err, catalog.ErrTermNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrTermNotFound
	}
	return nil
}

func (r *Repository) DeleteTerm(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM terms WHERE id = $1`, id)
	if err != nil {
		return mapError("delete term", err, catalog.ErrTermNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrTermNotFound
	}
	return nil
}

// Grade operations

func (r *Repository) CreateGrade(ctx context.Context, grade *catalog.Grade) error {
	query := `INSERT INTO grades (stage_id, name) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRow(ctx, query, grade.StageID, grade.Name).Scan(&grade.ID); err != nil {
		return mapError("create grade", err, catalog.ErrGradeNotFound)
	}
	return nil
}

func (r *Repository) GetGrade(ctx context.Context, id int64) (*catalog.Grade, error) {
	query := `SELECT id, stage_id, name FROM grades WHERE id = $1`

	var grade catalog.Grade
	if err := r.db.QueryRow(ctx, query, id).Scan(&grade.ID, &grade.StageID, &grade.Name); err != nil {
		return nil, mapError("get grade", err, catalog.ErrGradeNotFound)
	}
	return &grade, nil
}

func (r *Repository) ListGrades(ctx context.Context, stageID int64) ([]*catalog.Grade, error) {
	query := `SELECT id, stage_id, name FROM grades WHERE $1 = 0 OR stage_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, stageID)
	if err != nil {
		return nil, storageError("list grades", err)
	}
	defer rows.Close()

	grades := make([]*catalog.Grade, 0)
	for rows.Next() {
		var grade catalog.Grade
		if err := rows.Scan(&grade.ID, &grade.StageID, &grade.Name); err != nil {
			return nil, storageError("list grades", err)
		}
		grades = append(grades, &grade)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list grades", err)
	}
	return grades, nil
}

func (r *Repository) UpdateGrade(ctx context.Context, grade *catalog.Grade) error {
	query := `UPDATE grades SET stage_id = $2, name = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, grade.ID, grade.StageID, grade.Name)
	if err != nil {
		return mapError("update grade", err, catalog.ErrGradeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrGradeNotFound
	}
	return nil
}

func (r *Repository) DeleteGrade(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return mapError("delete grade", err, catalog.ErrGradeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrGradeNotFound
	}
	return nil
}

// Subject operations

func (r *Repository) CreateSubject(ctx context.Context, subject *catalog.Subject) error {
	query := `INSERT INTO subjects (grade_id, name) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRow(ctx, query, subject.GradeID, subject.Name).Scan(&subject.ID); err != nil {
		return mapError("create subject", err, catalog.ErrSubjectNotFound)
	}
	return nil
}

func (r *Repository) GetSubject(ctx context.Context, id int64) (*catalog.Subject, error) {
	query := `SELECT id, grade_id, name FROM subjects WHERE id = $1`

	var subject catalog.Subject
	if err := r.db.QueryRow(ctx, query, id).Scan(&subject.ID, &subject.GradeID, &subject.Name); err != nil {
		return nil, mapError("get subject", err, catalog.ErrSubjectNotFound)
	}
	return &subject, nil
}

func (r *Repository) ListSubjects(ctx context.Context, gradeID int64) ([]*catalog.Subject, error) {
	query := `SELECT id, grade_id, name FROM subjects WHERE $1 = 0 OR grade_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, gradeID)
	if err != nil {
		return nil, storageError("list subjects", err)
	}
	defer rows.Close()

	subjects := make([]*catalog.Subject, 0)
	for rows.Next() {
		var subject catalog.Subject
		if err := rows.Scan(&subject.ID, &subject.GradeID, &subject.Name); err != nil {
			return nil, storageError("list subjects", err)
		}
		subjects = append(subjects, &subject)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list subjects", err)
	}
	return subjects, nil
}

func (r *Repository) UpdateSubject(ctx context.Context, subject *catalog.Subject) error {
	query := `UPDATE subjects SET grade_id = $2, name = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, subject.ID, subject.GradeID, subject.Name)
	if err != nil {
		return mapError("update subject", err, catalog.ErrSubjectNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrSubjectNotFound
	}
	return nil
}

func (r *Repository) DeleteSubject(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return mapError("delete subject", err, catalog.ErrSubjectNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrSubjectNotFound
	}
	return nil
}

// Content type operations

func (r *Repository) CreateContentType(ctx context.Context, ct *catalog.ContentType) error {
	query := `INSERT INTO content_types (name) VALUES ($1) RETURNING id`

	if err := r.db.QueryRow(ctx, query, ct.Name).Scan(&ct.ID); err != nil {
		return mapError("create content type", err, catalog.ErrContentTypeNotFound)
	}
	return nil
}

func (r *Repository) GetContentType(ctx context.Context, id int64) (*catalog.ContentType, error) {
	query := `SELECT id, name FROM content_types WHERE id = $1`

	var ct catalog.ContentType
	if err := r.db.QueryRow(ctx, query, id).Scan(&ct.ID, &ct.Name); err != nil {
		return nil, mapError("get content type", err, catalog.ErrContentTypeNotFound)
	}
	return &ct, nil
}

func (r *Repository) ListContentTypes(ctx context.Context) ([]*catalog.ContentType, error) {
	query := `SELECT id, name FROM content_types ORDER BY id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, storageError("list content types", err)
	}
	defer rows.Close()

	types := make([]*catalog.ContentType, 0)
	for rows.Next() {
		var ct catalog.ContentType
		if err := rows.Scan(&ct.ID, &ct.Name); err != nil {
			return nil, storageError("list content types", err)
		}
		types = append(types, &ct)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list content types", err)
	}
	return types, nil
}

func (r *Repository) UpdateContentType(ctx context.Context, ct *catalog.ContentType) error {
	query := `UPDATE content_types SET name = $2 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, ct.ID, ct.Name)
	if err != nil {
		return mapError("update content type", err, catalog.ErrContentTypeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrContentTypeNotFound
	}
	return nil
}

func (r *Repository) DeleteContentType(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_types WHERE id = $1`, id)
	if err != nil {
		return mapError("delete content type", err, catalog.ErrContentTypeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrContentTypeNotFound
	}
	return nil
}

// Content subtype operations

func (r *Repository) CreateContentSubtype(ctx context.Context, st *catalog.ContentSubtype) error {
	query := `INSERT INTO content_subtypes (type_id, name) VALUES ($1, $2) RETURNING id`

	if err := r.db.QueryRow(ctx, query, st.TypeID, st.Name).Scan(&st.ID); err != nil {
		return mapError("create content subtype", err, catalog.ErrContentSubtypeNotFound)
	}
	return nil
}

func (r *Repository) GetContentSubtype(ctx context.Context, id int64) (*catalog.ContentSubtype, error) {
	query := `SELECT id, type_id, name FROM content_subtypes WHERE id = $1`

	var st catalog.ContentSubtype
	if err := r.db.QueryRow(ctx, query, id).Scan(&st.ID, &st.TypeID, &st.Name); err != nil {
		return nil, mapError("get content subtype", err, catalog.ErrContentSubtypeNotFound)
	}
	return &st, nil
}

func (r *Repository) ListContentSubtypes(ctx context.Context, typeID int64) ([]*catalog.ContentSubtype, error) {
	query := `SELECT id, type_id, name FROM content_subtypes WHERE $1 = 0 OR type_id = $1 ORDER BY id`

	rows, err := r.db.Query(ctx, query, typeID)
	if err != nil {
		return nil, storageError("list content subtypes", err)
	}
	defer rows.Close()

	subtypes := make([]*catalog.ContentSubtype, 0)
	for rows.Next() {
		var st catalog.ContentSubtype
		if err := rows.Scan(&st.ID, &st.TypeID, &st.Name); err != nil {
			return nil, storageError("list content subtypes", err)
		}
		subtypes = append(subtypes, &st)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list content subtypes", err)
	}
	return subtypes, nil
}

func (r *Repository) UpdateContentSubtype(ctx context.Context, st *catalog.ContentSubtype) error {
	query := `UPDATE content_subtypes SET type_id = $2, name = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, st.ID, st.TypeID, st.Name)
	if err != nil {
		return mapError("update content subtype", err, catalog.ErrContentSubtypeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrContentSubtypeNotFound
	}
	return nil
}

func (r *Repository) DeleteContentSubtype(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM content_subtypes WHERE id = $1`, id)
	if err != nil {
		return mapError("delete content subtype", err, catalog.ErrContentSubtypeNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrContentSubtypeNotFound
	}
	return nil
}

// File operations

func (r *Repository) CreateFile(ctx context.Context, file *catalog.File) error {
	query := `
		INSERT INTO files (title, file_url, stage_id, term_id, grade_id, subject_id, type_id, subtype_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.db.QueryRow(ctx, query,
		file.Title, file.FileURL, file.StageID, file.TermID,
		file.GradeID, file.SubjectID, file.TypeID, file.SubtypeID).Scan(&file.ID)
	if err != nil {
		return mapError("create file", err, catalog.ErrFileNotFound)
	}
	return nil
}

func (r *Repository) GetFile(ctx context.Context, id int64) (*catalog.File, error) {
	query := `
		SELECT id, title, file_url, stage_id, term_id, grade_id, subject_id, type_id, subtype_id
		FROM files WHERE id = $1`

	var file catalog.File
	err := r.db.QueryRow(ctx, query, id).Scan(
		&file.ID, &file.Title, &file.FileURL, &file.StageID, &file.TermID,
		&file.GradeID, &file.SubjectID, &file.TypeID, &file.SubtypeID)
	if err != nil {
		return nil, mapError("get file", err, catalog.ErrFileNotFound)
	}
	return &file, nil
}

// filterClause builds the WHERE clause for a file filter. Conditions are
// numbered from $1 because the filter is always the only argument source.
func filterClause(filter catalog.FileFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}

	add := func(column string, id *int64) {
		if id == nil {
			return
		}
		args = append(args, *id)
		conds = append(conds, fmt.Sprintf("f.%s = $%d", column, len(args)))
	}
	add("stage_id", filter.StageID)
	add("term_id", filter.TermID)
	add("grade_id", filter.GradeID)
	add("subject_id", filter.SubjectID)
	add("type_id", filter.TypeID)
	add("subtype_id", filter.SubtypeID)

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *Repository) ListFiles(ctx context.Context, filter catalog.FileFilter) ([]*catalog.FileDetails, error) {
	where, args := filterClause(filter)
	query := `
		SELECT f.id, f.title, f.file_url,
		       f.stage_id, f.term_id, f.grade_id, f.subject_id, f.type_id, f.subtype_id,
		       s.name, t.name, g.name, subj.name, ct.name, cst.name
		FROM files f
		JOIN stages s ON s.id = f.stage_id
		JOIN terms t ON t.id = f.term_id
		JOIN grades g ON g.id = f.grade_id
		JOIN subjects subj ON subj.id = f.subject_id
		JOIN content_types ct ON ct.id = f.type_id
		LEFT JOIN content_subtypes cst ON cst.id = f.subtype_id` +
		where + `
		ORDER BY f.id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, storageError("list files", err)
	}
	defer rows.Close()

	files := make([]*catalog.FileDetails, 0)
	for rows.Next() {
		var d catalog.FileDetails
		err := rows.Scan(
			&d.ID, &d.Title, &d.FileURL,
			&d.StageID, &d.TermID, &d.GradeID, &d.SubjectID, &d.TypeID, &d.SubtypeID,
			&d.StageName, &d.TermName, &d.GradeName, &d.SubjectName, &d.TypeName, &d.SubtypeName)
		if err != nil {
			return nil, storageError("list files", err)
		}
		files = append(files, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("list files", err)
	}
	return files, nil
}

func (r *Repository) UpdateFile(ctx context.Context, file *catalog.File) error {
	query := `
		UPDATE files SET
			title = $2, file_url = $3, stage_id = $4, term_id = $5,
			grade_id = $6, subject_id = $7, type_id = $8, subtype_id = $9
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		file.ID, file.Title, file.FileURL, file.StageID, file.TermID,
		file.GradeID, file.SubjectID, file.TypeID, file.SubtypeID)
	if err != nil {
		return mapError("update file", err, catalog.ErrFileNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrFileNotFound
	}
	return nil
}

func (r *Repository) DeleteFile(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return mapError("delete file", err, catalog.ErrFileNotFound)
	}
	if tag.RowsAffected() == 0 {
		return catalog.ErrFileNotFound
	}
	return nil
}

// Dependent counts

func (r *Repository) countBy(ctx context.Context, op, query string, id int64) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, query, id).Scan(&n); err != nil {
		return 0, storageError(op, err)
	}
	return n, nil
}

func (r *Repository) CountTermsByStage(ctx context.Context, stageID int64) (int64, error) {
	return r.countBy(ctx, "count terms",
		`SELECT COUNT(*) FROM terms WHERE stage_id = $1`, stageID)
}

func (r *Repository) CountGradesByStage(ctx context.Context, stageID int64) (int64, error) {
	return r.countBy(ctx, "count grades",
		`SELECT COUNT(*) FROM grades WHERE stage_id = $1`, stageID)
}

func (r *Repository) CountSubjectsByGrade(ctx context.Context, gradeID int64) (int64, error) {
	return r.countBy(ctx, "count subjects",
		`SELECT COUNT(*) FROM subjects WHERE grade_id = $1`, gradeID)
}

func (r *Repository) CountSubtypesByType(ctx context.Context, typeID int64) (int64, error) {
	return r.countBy(ctx, "count content subtypes",
		`SELECT COUNT(*) FROM content_subtypes WHERE type_id = $1`, typeID)
}

func (r *Repository) CountFiles(ctx context.Context, filter catalog.FileFilter) (int64, error) {
	where, args := filterClause(filter)
	query := `SELECT COUNT(*) FROM files f` + where

	var n int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, storageError("count files", err)
	}
	return n, nil
}
