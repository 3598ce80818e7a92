// Package types provides the data model and request contracts shared across
// the ontology registry.
package types

import (
	"io"
	"time"
)

// Ontology is a named, versioned collection of submissions, identified by a
// unique acronym that is immutable once created.
type Ontology struct {
	Acronym        string    `json:"acronym" validate:"required,min=1,max=32,alphanum"`
	Name           string    `json:"name" validate:"required"`
	AdministeredBy string    `json:"administered_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// LatestSubmission is populated on expanded listings only; it is a
	// read-time join, not a stored relation. Nil for an ontology that has
	// no submissions yet.
	LatestSubmission *OntologySubmission `json:"latest_submission,omitempty"`
}

// OntologySubmission is one versioned upload/processing attempt for an
// ontology, numbered per ontology starting at 1.
type OntologySubmission struct {
	Acronym             string    `json:"acronym" validate:"required,min=1,max=32,alphanum"`
	SubmissionID        int       `json:"submission_id" validate:"required,gt=0"`
	SubmissionStatus    string    `json:"submission_status" validate:"required"`
	ParseError          string    `json:"parse_error,omitempty"`
	UploadFilePath      string    `json:"upload_file_path,omitempty"`
	PullLocation        string    `json:"pull_location,omitempty" validate:"omitempty,uri"`
	HasOntologyLanguage string    `json:"has_ontology_language" validate:"required"`
	Description         string    `json:"description,omitempty"`
	Version             string    `json:"version,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// UploadedFile is an uploaded ontology document supplied with a submission.
// The file is a named field of the request contract rather than a value
// discovered by scanning arbitrary parameters, so there is never ambiguity
// about which field carries the document.
type UploadedFile struct {
	Filename string
	Content  io.Reader
}

// CreateOntologyRequest creates an ontology together with its first
// submission; an ontology is never observed without at least one submission
// in the happy path.
type CreateOntologyRequest struct {
	Acronym        string `json:"acronym" validate:"required,min=1,max=32,alphanum"`
	Name           string `json:"name" validate:"required"`
	AdministeredBy string `json:"administered_by,omitempty"`

	Submission CreateSubmissionRequest `json:"submission"`
}

// CreateSubmissionRequest carries the descriptive fields and optional
// document for a new submission. Identity fields (acronym, submission id)
// and the initial status are assigned by the lifecycle manager.
type CreateSubmissionRequest struct {
	Description         string        `json:"description,omitempty"`
	Version             string        `json:"version,omitempty"`
	PullLocation        string        `json:"pull_location,omitempty" validate:"omitempty,uri"`
	HasOntologyLanguage string        `json:"has_ontology_language,omitempty"`
	File                *UploadedFile `json:"-"`
}

// OntologyPatch is a partial update of an ontology; nil fields are left
// unchanged. The acronym is immutable and therefore not patchable.
type OntologyPatch struct {
	Name           *string `json:"name,omitempty"`
	AdministeredBy *string `json:"administered_by,omitempty"`
}

// SubmissionPatch is a partial update of a submission; nil fields are left
// unchanged.
type SubmissionPatch struct {
	SubmissionStatus    *string `json:"submission_status,omitempty"`
	ParseError          *string `json:"parse_error,omitempty"`
	PullLocation        *string `json:"pull_location,omitempty"`
	HasOntologyLanguage *string `json:"has_ontology_language,omitempty"`
	Description         *string `json:"description,omitempty"`
	Version             *string `json:"version,omitempty"`
}

// Apply merges the patch onto the ontology in place.
func (p *OntologyPatch) Apply(o *Ontology) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.AdministeredBy != nil {
		o.AdministeredBy = *p.AdministeredBy
	}
}

// Apply merges the patch onto the submission in place.
func (p *SubmissionPatch) Apply(s *OntologySubmission) {
	if p.SubmissionStatus != nil {
		s.SubmissionStatus = *p.SubmissionStatus
	}
	if p.ParseError != nil {
		s.ParseError = *p.ParseError
	}
	if p.PullLocation != nil {
		s.PullLocation = *p.PullLocation
	}
	if p.HasOntologyLanguage != nil {
		s.HasOntologyLanguage = *p.HasOntologyLanguage
	}
	if p.Description != nil {
		s.Description = *p.Description
	}
	if p.Version != nil {
		s.Version = *p.Version
	}
}
