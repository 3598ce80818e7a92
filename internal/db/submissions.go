package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/martin/ontology-registry/internal/store"
	"github.com/martin/ontology-registry/internal/types"
)

const submissionColumns = `acronym, submission_id, submission_status, parse_error,
	upload_file_path, pull_location, has_ontology_language, description, version,
	created_at, updated_at`

func scanSubmission(row pgx.Row, sub *types.OntologySubmission) error {
	return row.Scan(&sub.Acronym, &sub.SubmissionID, &sub.SubmissionStatus, &sub.ParseError,
		&sub.UploadFilePath, &sub.PullLocation, &sub.HasOntologyLanguage, &sub.Description,
		&sub.Version, &sub.CreatedAt, &sub.UpdatedAt)
}

// SaveSubmission inserts the submission or replaces the stored record when
// the (acronym, submission id) key already exists.
func (db *DB) SaveSubmission(ctx context.Context, sub *types.OntologySubmission) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO submissions (acronym, submission_id, submission_status, parse_error,
		     upload_file_path, pull_location, has_ontology_language, description, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (acronym, submission_id) DO UPDATE SET
		     submission_status = $3, parse_error = $4, upload_file_path = $5,
		     pull_location = $6, has_ontology_language = $7, description = $8,
		     version = $9, updated_at = NOW()
		 RETURNING created_at, updated_at`,
		sub.Acronym, sub.SubmissionID, sub.SubmissionStatus, sub.ParseError,
		sub.UploadFilePath, sub.PullLocation, sub.HasOntologyLanguage,
		sub.Description, sub.Version,
	).Scan(&sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save submission %s/%d: %w", sub.Acronym, sub.SubmissionID, err)
	}
	return nil
}

// GetSubmission retrieves a submission by key, returning (nil, nil) when it
// does not exist.
func (db *DB) GetSubmission(ctx context.Context, acronym string, submissionID int) (*types.OntologySubmission, error) {
	var sub types.OntologySubmission
	row := db.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE acronym = $1 AND submission_id = $2`,
		acronym, submissionID,
	)
	if err := scanSubmission(row, &sub); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return &sub, nil
}

// ListSubmissions retrieves all submissions of an ontology ordered by
// submission id ascending.
func (db *DB) ListSubmissions(ctx context.Context, acronym string) ([]types.OntologySubmission, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE acronym = $1 ORDER BY submission_id ASC`,
		acronym,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	var subs []types.OntologySubmission
	for rows.Next() {
		var sub types.OntologySubmission
		if err := scanSubmission(rows, &sub); err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

// DeleteSubmission removes one submission.
func (db *DB) DeleteSubmission(ctx context.Context, acronym string, submissionID int) error {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM submissions WHERE acronym = $1 AND submission_id = $2`,
		acronym, submissionID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete submission: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("submission %s/%d: %w", acronym, submissionID, store.ErrNotFound)
	}
	return nil
}

// LatestSubmission retrieves the submission with the highest id, returning
// (nil, nil) when the ontology has none.
func (db *DB) LatestSubmission(ctx context.Context, acronym string) (*types.OntologySubmission, error) {
	var sub types.OntologySubmission
	row := db.pool.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM submissions
		 WHERE acronym = $1 ORDER BY submission_id DESC LIMIT 1`,
		acronym,
	)
	if err := scanSubmission(row, &sub); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest submission: %w", err)
	}
	return &sub, nil
}
