// Package catalog provides a hierarchical catalog of educational materials
// with pluggable repository backends.
//
// Materials are classified by stage, term, grade, subject, content type and
// an optional content subtype, and attached to an opaque file URL. The package
// exposes a single Service interface that orchestrates entity CRUD,
// cross-entity hierarchy validation, and filtered listings. Repository
// implementations (memory, Postgres) are provided under repo/.
//
// Referential Integrity
//
// Simple foreign keys are not enough for this schema: a file's term and grade
// must belong to the file's own stage, its subject to its grade, and its
// subtype to its content type. Those cross-entity checks run inside the same
// transaction as the write, so a failed validation never leaves a partial
// state behind. Deletes are never cascading; an entity with dependents cannot
// be removed until the dependents are gone.
package catalog
