// Package lifecycle orchestrates ontology submission management: creation
// and versioning, file staging, patch updates, deletes, and parse
// triggering. It is the surface the external request layer consumes.
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/martin/ontology-registry/internal/catalog"
	"github.com/martin/ontology-registry/internal/filerepo"
	"github.com/martin/ontology-registry/internal/parsejob"
	"github.com/martin/ontology-registry/internal/store"
	"github.com/martin/ontology-registry/internal/types"
)

// ErrInvalidRequest indicates a parse trigger referenced an ontology or
// submission that cannot be loaded. It is returned synchronously, before any
// background work is scheduled.
var ErrInvalidRequest = errors.New("invalid parse request")

// Manager ties the registry, submission store, file repository, and parse
// runner together.
type Manager struct {
	store  store.Store
	files  *filerepo.Repository
	runner *parsejob.Runner
}

// New creates a lifecycle manager. The catalogs are initialized here so
// every later lookup is a plain concurrent read.
func New(st store.Store, files *filerepo.Repository, runner *parsejob.Runner) *Manager {
	catalog.Init()
	return &Manager{store: st, files: files, runner: runner}
}

// CreateOntology creates an ontology together with its first submission.
// Fails with store.ErrConflict when the acronym is already taken; an
// ontology is never observed without at least one submission in the happy
// path.
func (m *Manager) CreateOntology(ctx context.Context, req types.CreateOntologyRequest) (*types.Ontology, *types.OntologySubmission, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	ont := &types.Ontology{
		Acronym:        req.Acronym,
		Name:           req.Name,
		AdministeredBy: req.AdministeredBy,
	}
	if err := ont.Validate(); err != nil {
		return nil, nil, err
	}
	if err := m.store.CreateOntology(ctx, ont); err != nil {
		return nil, nil, err
	}

	sub, err := m.CreateSubmission(ctx, req.Acronym, req.Submission)
	if err != nil {
		return nil, nil, err
	}
	return ont, sub, nil
}

// CreateSubmission stages the uploaded document (if any), assigns the next
// submission id, and persists a new submission in status UPLOADED. Fails
// with store.ErrNotFound when the ontology does not exist, before anything
// is staged or assigned. A staging failure aborts the creation; a
// validation failure after staging does not roll the staged file back.
func (m *Manager) CreateSubmission(ctx context.Context, acronym string, req types.CreateSubmissionRequest) (*types.OntologySubmission, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ont, err := m.store.GetOntology(ctx, acronym)
	if err != nil {
		return nil, err
	}
	if ont == nil {
		return nil, fmt.Errorf("ontology %q: %w", acronym, store.ErrNotFound)
	}

	submissionID, err := m.store.NextSubmissionID(ctx, acronym)
	if err != nil {
		return nil, err
	}

	var filePath string
	if req.File != nil {
		filePath, err = m.files.Stage(acronym, submissionID, req.File.Content, req.File.Filename)
		if err != nil {
			return nil, err
		}
	}

	format := req.HasOntologyLanguage
	if format == "" {
		format = catalog.DefaultFormat
	}
	if _, err := catalog.FindFormat(format); err != nil {
		return nil, types.NewValidationError("HasOntologyLanguage", fmt.Sprintf("unknown ontology format %q", format))
	}

	sub := &types.OntologySubmission{
		Acronym:             acronym,
		SubmissionID:        submissionID,
		SubmissionStatus:    catalog.StatusUploaded,
		UploadFilePath:      filePath,
		PullLocation:        req.PullLocation,
		HasOntologyLanguage: format,
		Description:         req.Description,
		Version:             req.Version,
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := m.store.SaveSubmission(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// GetOntology loads one ontology.
func (m *Manager) GetOntology(ctx context.Context, acronym string) (*types.Ontology, error) {
	ont, err := m.store.GetOntology(ctx, acronym)
	if err != nil {
		return nil, err
	}
	if ont == nil {
		return nil, fmt.Errorf("ontology %q: %w", acronym, store.ErrNotFound)
	}
	return ont, nil
}

// ListOntologies returns every ontology. With includeLatest set, each record
// carries its latest submission; the expansion is a read-time join fanned
// out across ontologies.
func (m *Manager) ListOntologies(ctx context.Context, includeLatest bool) ([]types.Ontology, error) {
	onts, err := m.store.ListOntologies(ctx)
	if err != nil {
		return nil, err
	}
	if !includeLatest {
		return onts, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range onts {
		i := i
		g.Go(func() error {
			latest, err := m.store.LatestSubmission(gctx, onts[i].Acronym)
			if err != nil {
				return err
			}
			onts[i].LatestSubmission = latest
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return onts, nil
}

// GetSubmission loads one submission.
func (m *Manager) GetSubmission(ctx context.Context, acronym string, submissionID int) (*types.OntologySubmission, error) {
	sub, err := m.store.GetSubmission(ctx, acronym, submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s/%d: %w", acronym, submissionID, store.ErrNotFound)
	}
	return sub, nil
}

// ListSubmissions returns an ontology's submissions by id ascending.
func (m *Manager) ListSubmissions(ctx context.Context, acronym string) ([]types.OntologySubmission, error) {
	ont, err := m.store.GetOntology(ctx, acronym)
	if err != nil {
		return nil, err
	}
	if ont == nil {
		return nil, fmt.Errorf("ontology %q: %w", acronym, store.ErrNotFound)
	}
	return m.store.ListSubmissions(ctx, acronym)
}

// LatestSubmission returns the submission with the highest id, or (nil,
// nil) when the ontology exists but has no submissions yet.
func (m *Manager) LatestSubmission(ctx context.Context, acronym string) (*types.OntologySubmission, error) {
	ont, err := m.store.GetOntology(ctx, acronym)
	if err != nil {
		return nil, err
	}
	if ont == nil {
		return nil, fmt.Errorf("ontology %q: %w", acronym, store.ErrNotFound)
	}
	return m.store.LatestSubmission(ctx, acronym)
}

// UpdateOntology merges the patch onto the stored ontology, re-validates,
// and persists the result.
func (m *Manager) UpdateOntology(ctx context.Context, acronym string, patch types.OntologyPatch) (*types.Ontology, error) {
	ont, err := m.GetOntology(ctx, acronym)
	if err != nil {
		return nil, err
	}
	patch.Apply(ont)
	if err := ont.Validate(); err != nil {
		return nil, err
	}
	if err := m.store.UpdateOntology(ctx, ont); err != nil {
		return nil, err
	}
	return ont, nil
}

// UpdateSubmission merges the patch onto the stored submission,
// re-validates the merged record, and persists it. A patched status or
// format has to name a catalog entry.
func (m *Manager) UpdateSubmission(ctx context.Context, acronym string, submissionID int, patch types.SubmissionPatch) (*types.OntologySubmission, error) {
	sub, err := m.GetSubmission(ctx, acronym, submissionID)
	if err != nil {
		return nil, err
	}
	patch.Apply(sub)

	if _, err := catalog.FindStatus(sub.SubmissionStatus); err != nil {
		return nil, types.NewValidationError("SubmissionStatus", fmt.Sprintf("unknown submission status %q", sub.SubmissionStatus))
	}
	if _, err := catalog.FindFormat(sub.HasOntologyLanguage); err != nil {
		return nil, types.NewValidationError("HasOntologyLanguage", fmt.Sprintf("unknown ontology format %q", sub.HasOntologyLanguage))
	}
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if err := m.store.SaveSubmission(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// DeleteOntology removes the ontology and all its submissions.
func (m *Manager) DeleteOntology(ctx context.Context, acronym string) error {
	return m.store.DeleteOntology(ctx, acronym)
}

// DeleteSubmission removes one submission, independent of the ontology's
// other submissions.
func (m *Manager) DeleteSubmission(ctx context.Context, acronym string, submissionID int) error {
	return m.store.DeleteSubmission(ctx, acronym, submissionID)
}

// TriggerParse resolves the ontology and submission and schedules the
// asynchronous parse. The returned job handle reports the run's log path
// and settlement; the parse outcome is never observed synchronously.
func (m *Manager) TriggerParse(ctx context.Context, acronym string, submissionID int) (*parsejob.Job, error) {
	ont, err := m.store.GetOntology(ctx, acronym)
	if err != nil {
		return nil, err
	}
	if ont == nil {
		return nil, fmt.Errorf("ontology %q not found: %w", acronym, ErrInvalidRequest)
	}
	sub, err := m.store.GetSubmission(ctx, acronym, submissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s/%d not found: %w", acronym, submissionID, ErrInvalidRequest)
	}
	return m.runner.Trigger(sub)
}
