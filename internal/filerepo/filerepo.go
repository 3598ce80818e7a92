// Package filerepo stages uploaded ontology documents into the file
// repository at deterministic paths keyed by (acronym, submission id).
package filerepo

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// defaultFilename is used when an upload arrives without a usable name.
const defaultFilename = "ontology_file"

// Repository is a staging area rooted at a single directory on durable
// storage.
type Repository struct {
	root string
}

// New returns a repository rooted at root. The directory is created on
// first stage, not here.
func New(root string) *Repository {
	return &Repository{root: root}
}

// Root returns the repository's root directory.
func (r *Repository) Root() string {
	return r.root
}

// SubmissionDir returns the staging directory for one submission.
func (r *Repository) SubmissionDir(acronym string, submissionID int) string {
	return filepath.Join(r.root, acronym, strconv.Itoa(submissionID))
}

// Stage copies src into the submission's staging directory and returns the
// stored path. Any previously staged content for the same key is removed
// first, so re-staging overwrites rather than accumulates. The copy goes to
// a temporary file that is renamed into place, so readers never observe a
// half-written document.
func (r *Repository) Stage(acronym string, submissionID int, src io.Reader, originalFilename string) (string, error) {
	dir := r.SubmissionDir(acronym, submissionID)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("failed to clear staging dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create staging dir %s: %w", dir, err)
	}

	name := filepath.Base(originalFilename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = defaultFilename
	}
	dest := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, ".staging-*")
	if err != nil {
		return "", fmt.Errorf("failed to create staging file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to copy upload for %s/%d: %w", acronym, submissionID, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to sync staged file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to close staged file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("failed to move staged file into place: %w", err)
	}
	return dest, nil
}
