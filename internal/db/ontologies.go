package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/martin/ontology-registry/internal/store"
	"github.com/martin/ontology-registry/internal/types"
)

// uniqueViolation is the PostgreSQL error code for duplicate keys.
const uniqueViolation = "23505"

// CreateOntology inserts a new ontology record, failing with
// store.ErrConflict when the acronym is already taken.
func (db *DB) CreateOntology(ctx context.Context, ont *types.Ontology) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO ontologies (acronym, name, administered_by)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		ont.Acronym, ont.Name, ont.AdministeredBy,
	).Scan(&ont.CreatedAt, &ont.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("ontology %q: %w", ont.Acronym, store.ErrConflict)
		}
		return fmt.Errorf("failed to create ontology: %w", err)
	}
	return nil
}

// GetOntology retrieves an ontology by acronym, returning (nil, nil) when it
// does not exist.
func (db *DB) GetOntology(ctx context.Context, acronym string) (*types.Ontology, error) {
	var ont types.Ontology
	err := db.pool.QueryRow(ctx,
		`SELECT acronym, name, administered_by, created_at, updated_at
		 FROM ontologies WHERE acronym = $1`,
		acronym,
	).Scan(&ont.Acronym, &ont.Name, &ont.AdministeredBy, &ont.CreatedAt, &ont.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ontology: %w", err)
	}
	return &ont, nil
}

// ListOntologies retrieves every ontology ordered by acronym.
func (db *DB) ListOntologies(ctx context.Context) ([]types.Ontology, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT acronym, name, administered_by, created_at, updated_at
		 FROM ontologies ORDER BY acronym`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ontologies: %w", err)
	}
	defer rows.Close()

	var onts []types.Ontology
	for rows.Next() {
		var ont types.Ontology
		if err := rows.Scan(&ont.Acronym, &ont.Name, &ont.AdministeredBy, &ont.CreatedAt, &ont.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ontology: %w", err)
		}
		onts = append(onts, ont)
	}
	return onts, nil
}

// UpdateOntology persists the mutable ontology fields.
func (db *DB) UpdateOntology(ctx context.Context, ont *types.Ontology) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE ontologies SET name = $1, administered_by = $2, updated_at = NOW()
		 WHERE acronym = $3`,
		ont.Name, ont.AdministeredBy, ont.Acronym,
	)
	if err != nil {
		return fmt.Errorf("failed to update ontology: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ontology %q: %w", ont.Acronym, store.ErrNotFound)
	}
	return nil
}

// DeleteOntology removes the ontology; its submissions go with it via the
// cascading foreign key.
func (db *DB) DeleteOntology(ctx context.Context, acronym string) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM ontologies WHERE acronym = $1`, acronym)
	if err != nil {
		return fmt.Errorf("failed to delete ontology: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ontology %q: %w", acronym, store.ErrNotFound)
	}
	return nil
}

// NextSubmissionID atomically increments and returns the ontology's
// submission-id sequence. The row update serializes concurrent assignment
// per ontology, so callers never receive duplicate ids.
func (db *DB) NextSubmissionID(ctx context.Context, acronym string) (int, error) {
	var id int
	err := db.pool.QueryRow(ctx,
		`UPDATE ontologies
		 SET last_submission_id = last_submission_id + 1, updated_at = NOW()
		 WHERE acronym = $1
		 RETURNING last_submission_id`,
		acronym,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, fmt.Errorf("ontology %q: %w", acronym, store.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to assign submission id: %w", err)
	}
	return id, nil
}
