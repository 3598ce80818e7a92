// Package store defines the persistence contracts for ontologies and their
// submissions, plus an in-memory implementation used for tests and ephemeral
// environments. The PostgreSQL implementation lives in internal/db.
package store

import (
	"context"
	"errors"

	"github.com/martin/ontology-registry/internal/types"
)

var (
	// ErrNotFound indicates the referenced ontology or submission does not
	// exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict indicates a create collided with an existing record.
	ErrConflict = errors.New("record already exists")
)

// Registry is the durable store of Ontology records. It is the single
// authority for submission-id assignment: NextSubmissionID must return
// strictly increasing, unique integers per ontology even under concurrent
// calls.
type Registry interface {
	CreateOntology(ctx context.Context, ont *types.Ontology) error
	GetOntology(ctx context.Context, acronym string) (*types.Ontology, error)
	ListOntologies(ctx context.Context) ([]types.Ontology, error)
	UpdateOntology(ctx context.Context, ont *types.Ontology) error
	// DeleteOntology removes the ontology and, transactionally, every
	// submission attached to it.
	DeleteOntology(ctx context.Context, acronym string) error
	// NextSubmissionID returns max(existing ids)+1 for the ontology,
	// starting at 1. Returns ErrNotFound if the ontology does not exist.
	NextSubmissionID(ctx context.Context, acronym string) (int, error)
}

// SubmissionStore is the durable store of OntologySubmission records, keyed
// by (acronym, submission id).
type SubmissionStore interface {
	// SaveSubmission inserts the submission or, when the key already
	// exists, replaces the stored record.
	SaveSubmission(ctx context.Context, sub *types.OntologySubmission) error
	GetSubmission(ctx context.Context, acronym string, submissionID int) (*types.OntologySubmission, error)
	// ListSubmissions returns the ontology's submissions ordered by
	// submission id ascending.
	ListSubmissions(ctx context.Context, acronym string) ([]types.OntologySubmission, error)
	DeleteSubmission(ctx context.Context, acronym string, submissionID int) error
	// LatestSubmission returns the submission with the highest id, or
	// (nil, nil) when the ontology has none.
	LatestSubmission(ctx context.Context, acronym string) (*types.OntologySubmission, error)
}

// Store combines both persistence contracts.
type Store interface {
	Registry
	SubmissionStore
}
