package catalog

// fileRefs holds the resolved classification chain for one file. Resolution
// and validation are separate steps: resolveFileRefs turns ids into records
// (failing with ReferenceError on the first dangling id), and
// validateFileHierarchy checks the records against each other.
type fileRefs struct {
	stage   *Stage
	term    *Term
	grade   *Grade
	subject *Subject
	ctype   *ContentType
	subtype *ContentSubtype // nil when the file carries no subtype
}

// validateFileHierarchy checks invariants 1-4 over already-resolved records,
// in order, and reports the first violation. It is a pure function: it never
// queries storage, so it sees exactly the state the enclosing transaction saw.
func validateFileHierarchy(refs *fileRefs) error {
	if refs.term.StageID != refs.stage.ID {
		return &HierarchyError{
			Invariant: InvariantTermStage,
			Field:     "term_id",
			Got:       refs.term.StageID,
			Want:      refs.stage.ID,
		}
	}
	if refs.grade.StageID != refs.stage.ID {
		return &HierarchyError{
			Invariant: InvariantGradeStage,
			Field:     "grade_id",
			Got:       refs.grade.StageID,
			Want:      refs.stage.ID,
		}
	}
	if refs.subject.GradeID != refs.grade.ID {
		return &HierarchyError{
			Invariant: InvariantSubjectGrade,
			Field:     "subject_id",
			Got:       refs.subject.GradeID,
			Want:      refs.grade.ID,
		}
	}
	if refs.subtype != nil && refs.subtype.TypeID != refs.ctype.ID {
		return &HierarchyError{
			Invariant: InvariantSubtypeType,
			Field:     "subtype_id",
			Got:       refs.subtype.TypeID,
			Want:      refs.ctype.ID,
		}
	}
	return nil
}
