// Package catalog holds the process-wide catalogs of submission statuses and
// ontology formats. Both are fixed sets loaded exactly once per process and
// safe for concurrent lookup afterward.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

// ErrNotFound is returned when a status or format name is not in the catalog.
var ErrNotFound = errors.New("catalog entry not found")

// Submission status names.
const (
	StatusUploaded   = "UPLOADED"
	StatusRDF        = "RDF"
	StatusRDFLabels  = "RDF_LABELS"
	StatusReady      = "READY"
	StatusErrorRDF   = "ERROR_RDF"
	StatusErrorIndex = "ERROR_INDEX"
	StatusArchived   = "ARCHIVED"
)

// DefaultFormat is assumed when a submission does not name its format.
const DefaultFormat = "OWL"

// SubmissionStatus is one of the fixed lifecycle states a submission can
// occupy. Statuses are immutable values; submissions hold the name.
type SubmissionStatus struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// OntologyFormat is a supported ontology document format.
type OntologyFormat struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions,omitempty"`
}

var (
	initOnce sync.Once
	statuses *gocache.Cache
	formats  *gocache.Cache
)

// Init loads both catalogs. It is idempotent: the first call populates the
// caches, later calls are no-ops.
func Init() {
	initOnce.Do(func() {
		statuses = gocache.New(gocache.NoExpiration, 0)
		for _, s := range []SubmissionStatus{
			{Name: StatusUploaded, Description: "Document received and staged"},
			{Name: StatusRDF, Description: "RDF triples generated"},
			{Name: StatusRDFLabels, Description: "RDF labels extracted"},
			{Name: StatusReady, Description: "Parsed and queryable"},
			{Name: StatusErrorRDF, Description: "RDF generation failed"},
			{Name: StatusErrorIndex, Description: "Indexing failed"},
			{Name: StatusArchived, Description: "Superseded by a newer submission"},
		} {
			statuses.Set(s.Name, s, gocache.NoExpiration)
		}

		formats = gocache.New(gocache.NoExpiration, 0)
		for _, f := range []OntologyFormat{
			{Name: "OWL", Extensions: []string{".owl", ".rdf", ".xml"}},
			{Name: "OBO", Extensions: []string{".obo"}},
			{Name: "SKOS", Extensions: []string{".skos", ".rdf"}},
			{Name: "UMLS", Extensions: []string{".ttl"}},
			{Name: "PROTEGE", Extensions: []string{".pprj"}},
		} {
			formats.Set(f.Name, f, gocache.NoExpiration)
		}
	})
}

// FindStatus looks up a submission status by name.
func FindStatus(name string) (SubmissionStatus, error) {
	Init()
	v, found := statuses.Get(name)
	if !found {
		return SubmissionStatus{}, fmt.Errorf("submission status %q: %w", name, ErrNotFound)
	}
	return v.(SubmissionStatus), nil
}

// FindFormat looks up an ontology format by name.
func FindFormat(name string) (OntologyFormat, error) {
	Init()
	v, found := formats.Get(name)
	if !found {
		return OntologyFormat{}, fmt.Errorf("ontology format %q: %w", name, ErrNotFound)
	}
	return v.(OntologyFormat), nil
}

// Statuses returns every catalog status name.
func Statuses() []string {
	Init()
	items := statuses.Items()
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	return names
}
