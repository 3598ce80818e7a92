package db

import (
	"context"
	"fmt"
)

// schema is applied at startup. The submissions FK cascades so deleting an
// ontology removes all of its submissions in the same transaction.
const schema = `
CREATE TABLE IF NOT EXISTS ontologies (
    acronym            TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    administered_by    TEXT NOT NULL DEFAULT '',
    last_submission_id INTEGER NOT NULL DEFAULT 0,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS submissions (
    acronym               TEXT NOT NULL REFERENCES ontologies(acronym) ON DELETE CASCADE,
    submission_id         INTEGER NOT NULL,
    submission_status     TEXT NOT NULL,
    parse_error           TEXT NOT NULL DEFAULT '',
    upload_file_path      TEXT NOT NULL DEFAULT '',
    pull_location         TEXT NOT NULL DEFAULT '',
    has_ontology_language TEXT NOT NULL,
    description           TEXT NOT NULL DEFAULT '',
    version               TEXT NOT NULL DEFAULT '',
    created_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at            TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (acronym, submission_id)
);
`

// EnsureSchema creates the tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
