package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/martin/ontology-registry/internal/types"
)

// Compile-time contract assertion.
var _ Store = (*MemStore)(nil)

type submissionKey struct {
	acronym      string
	submissionID int
}

// MemStore is a mutex-guarded in-memory Store. All returned records are
// copies; callers can mutate them freely without affecting stored state.
type MemStore struct {
	mu          sync.Mutex
	ontologies  map[string]types.Ontology
	submissions map[submissionKey]types.OntologySubmission
	lastIDs     map[string]int
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		ontologies:  make(map[string]types.Ontology),
		submissions: make(map[submissionKey]types.OntologySubmission),
		lastIDs:     make(map[string]int),
	}
}

// CreateOntology stores a new ontology, failing with ErrConflict when the
// acronym is already taken.
func (m *MemStore) CreateOntology(_ context.Context, ont *types.Ontology) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ontologies[ont.Acronym]; exists {
		return fmt.Errorf("ontology %q: %w", ont.Acronym, ErrConflict)
	}
	now := time.Now().UTC()
	ont.CreatedAt = now
	ont.UpdatedAt = now
	m.ontologies[ont.Acronym] = *ont
	return nil
}

// GetOntology returns the ontology, or (nil, nil) when absent.
func (m *MemStore) GetOntology(_ context.Context, acronym string) (*types.Ontology, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ont, exists := m.ontologies[acronym]
	if !exists {
		return nil, nil
	}
	return &ont, nil
}

// ListOntologies returns every ontology ordered by acronym.
func (m *MemStore) ListOntologies(_ context.Context) ([]types.Ontology, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	onts := make([]types.Ontology, 0, len(m.ontologies))
	for _, ont := range m.ontologies {
		onts = append(onts, ont)
	}
	sort.Slice(onts, func(i, j int) bool { return onts[i].Acronym < onts[j].Acronym })
	return onts, nil
}

// UpdateOntology replaces the stored ontology.
func (m *MemStore) UpdateOntology(_ context.Context, ont *types.Ontology) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, exists := m.ontologies[ont.Acronym]
	if !exists {
		return fmt.Errorf("ontology %q: %w", ont.Acronym, ErrNotFound)
	}
	ont.CreatedAt = stored.CreatedAt
	ont.UpdatedAt = time.Now().UTC()
	m.ontologies[ont.Acronym] = *ont
	return nil
}

// DeleteOntology removes the ontology and cascades to its submissions.
func (m *MemStore) DeleteOntology(_ context.Context, acronym string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ontologies[acronym]; !exists {
		return fmt.Errorf("ontology %q: %w", acronym, ErrNotFound)
	}
	delete(m.ontologies, acronym)
	delete(m.lastIDs, acronym)
	for key := range m.submissions {
		if key.acronym == acronym {
			delete(m.submissions, key)
		}
	}
	return nil
}

// NextSubmissionID assigns the next id for the ontology. Assignment is
// serialized by the store mutex, so concurrent callers never receive
// duplicates.
func (m *MemStore) NextSubmissionID(_ context.Context, acronym string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.ontologies[acronym]; !exists {
		return 0, fmt.Errorf("ontology %q: %w", acronym, ErrNotFound)
	}
	m.lastIDs[acronym]++
	return m.lastIDs[acronym], nil
}

// SaveSubmission inserts or replaces the submission record.
func (m *MemStore) SaveSubmission(_ context.Context, sub *types.OntologySubmission) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := submissionKey{acronym: sub.Acronym, submissionID: sub.SubmissionID}
	now := time.Now().UTC()
	if stored, exists := m.submissions[key]; exists {
		sub.CreatedAt = stored.CreatedAt
	} else {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	m.submissions[key] = *sub
	return nil
}

// GetSubmission returns the submission, or (nil, nil) when absent.
func (m *MemStore) GetSubmission(_ context.Context, acronym string, submissionID int) (*types.OntologySubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, exists := m.submissions[submissionKey{acronym: acronym, submissionID: submissionID}]
	if !exists {
		return nil, nil
	}
	return &sub, nil
}

// ListSubmissions returns the ontology's submissions by id ascending.
func (m *MemStore) ListSubmissions(_ context.Context, acronym string) ([]types.OntologySubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var subs []types.OntologySubmission
	for key, sub := range m.submissions {
		if key.acronym == acronym {
			subs = append(subs, sub)
		}
	}
	sort.Slice(subs, func(i, j int) bool { return subs[i].SubmissionID < subs[j].SubmissionID })
	return subs, nil
}

// DeleteSubmission removes one submission.
func (m *MemStore) DeleteSubmission(_ context.Context, acronym string, submissionID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := submissionKey{acronym: acronym, submissionID: submissionID}
	if _, exists := m.submissions[key]; !exists {
		return fmt.Errorf("submission %s/%d: %w", acronym, submissionID, ErrNotFound)
	}
	delete(m.submissions, key)
	return nil
}

// LatestSubmission returns the submission with the highest id, or (nil, nil)
// when the ontology has none.
func (m *MemStore) LatestSubmission(_ context.Context, acronym string) (*types.OntologySubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *types.OntologySubmission
	for key, sub := range m.submissions {
		if key.acronym != acronym {
			continue
		}
		if latest == nil || sub.SubmissionID > latest.SubmissionID {
			s := sub
			latest = &s
		}
	}
	return latest, nil
}
