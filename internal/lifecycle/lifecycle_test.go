package lifecycle

import (
	"context"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/martin/ontology-registry/internal/catalog"
	"github.com/martin/ontology-registry/internal/filerepo"
	"github.com/martin/ontology-registry/internal/parsejob"
	"github.com/martin/ontology-registry/internal/store"
	"github.com/martin/ontology-registry/internal/types"
)

type parserFunc func(ctx context.Context, sub *types.OntologySubmission, logger *log.Logger) error

func (f parserFunc) Process(ctx context.Context, sub *types.OntologySubmission, logger *log.Logger) error {
	return f(ctx, sub, logger)
}

type testEnv struct {
	manager *Manager
	store   *store.MemStore
	repoDir string
	logDir  string
}

func newTestEnv(t *testing.T, parser parsejob.Parser) *testEnv {
	t.Helper()
	if parser == nil {
		parser = parserFunc(func(context.Context, *types.OntologySubmission, *log.Logger) error { return nil })
	}
	mem := store.NewMemStore()
	repoDir := t.TempDir()
	logDir := t.TempDir()
	runner := parsejob.NewRunner(mem, parser, parsejob.Config{LogDir: logDir}, log.New(os.Stderr, "", 0))
	t.Cleanup(runner.Close)
	return &testEnv{
		manager: New(mem, filerepo.New(repoDir), runner),
		store:   mem,
		repoDir: repoDir,
		logDir:  logDir,
	}
}

func createBRO(t *testing.T, env *testEnv) *types.OntologySubmission {
	t.Helper()
	_, sub, err := env.manager.CreateOntology(context.Background(), types.CreateOntologyRequest{
		Acronym: "BRO",
		Name:    "Biomedical Resource Ontology",
		Submission: types.CreateSubmissionRequest{
			File: &types.UploadedFile{Filename: "bro.owl", Content: strings.NewReader("<owl/>")},
		},
	})
	require.NoError(t, err)
	return sub
}

func TestCreateOntologyWithFirstSubmission(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	ont, sub, err := env.manager.CreateOntology(ctx, types.CreateOntologyRequest{
		Acronym: "BRO",
		Name:    "Biomedical Resource Ontology",
		Submission: types.CreateSubmissionRequest{
			Description: "initial upload",
			File:        &types.UploadedFile{Filename: "bro.owl", Content: strings.NewReader("<owl/>")},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, ont)
	require.NotNil(t, sub)

	assert.Equal(t, "BRO", ont.Acronym)
	assert.Equal(t, 1, sub.SubmissionID)
	assert.Equal(t, catalog.StatusUploaded, sub.SubmissionStatus)
	assert.Equal(t, catalog.DefaultFormat, sub.HasOntologyLanguage, "format defaults when not provided")

	// The document was staged.
	require.NotEmpty(t, sub.UploadFilePath)
	content, err := os.ReadFile(sub.UploadFilePath)
	require.NoError(t, err)
	assert.Equal(t, "<owl/>", string(content))
}

func TestCreateOntologyConflict(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)

	_, _, err := env.manager.CreateOntology(context.Background(), types.CreateOntologyRequest{
		Acronym: "BRO",
		Name:    "Duplicate",
	})
	assert.ErrorIs(t, err, store.ErrConflict)
}

func TestCreateOntologyValidation(t *testing.T) {
	env := newTestEnv(t, nil)

	_, _, err := env.manager.CreateOntology(context.Background(), types.CreateOntologyRequest{
		Acronym: "not/an/acronym",
		Name:    "",
	})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "Acronym")
	assert.Contains(t, verr.Fields, "Name")
}

func TestCreateSubmissionUnknownOntology(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.manager.CreateSubmission(context.Background(), "NOPE", types.CreateSubmissionRequest{
		File: &types.UploadedFile{Filename: "x.owl", Content: strings.NewReader("x")},
	})
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Neither a file nor a record was created.
	_, statErr := os.Stat(env.repoDir + "/NOPE")
	assert.True(t, os.IsNotExist(statErr), "no staging directory may be created")
	subs, err := env.store.ListSubmissions(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestCreateSubmissionAssignsNextID(t *testing.T) {
	env := newTestEnv(t, nil)
	first := createBRO(t, env)
	assert.Equal(t, 1, first.SubmissionID)

	second, err := env.manager.CreateSubmission(context.Background(), "BRO", types.CreateSubmissionRequest{
		PullLocation: "http://example.org/bro.owl",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.SubmissionID)
	assert.Equal(t, catalog.StatusUploaded, second.SubmissionStatus)
	assert.Empty(t, second.UploadFilePath, "no file was staged for a pull submission")
}

func TestCreateSubmissionUnknownFormat(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)

	_, err := env.manager.CreateSubmission(context.Background(), "BRO", types.CreateSubmissionRequest{
		HasOntologyLanguage: "LATEX",
	})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "HasOntologyLanguage")
}

func TestTriggerParseFailureSetsErrorStatus(t *testing.T) {
	parser := parserFunc(func(context.Context, *types.OntologySubmission, *log.Logger) error {
		return errors.New("bad RDF")
	})
	env := newTestEnv(t, parser)
	createBRO(t, env)
	ctx := context.Background()

	second, err := env.manager.CreateSubmission(ctx, "BRO", types.CreateSubmissionRequest{})
	require.NoError(t, err)
	require.Equal(t, 2, second.SubmissionID)

	job, err := env.manager.TriggerParse(ctx, "BRO", 2)
	require.NoError(t, err)
	job.Wait()

	stored, err := env.manager.GetSubmission(ctx, "BRO", 2)
	require.NoError(t, err)
	assert.Equal(t, catalog.StatusErrorRDF, stored.SubmissionStatus)
	assert.Equal(t, "bad RDF", stored.ParseError)

	// The run log can be reopened and read after the job settled.
	content, err := os.ReadFile(job.LogPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "parse failed")
}

func TestTriggerParseInvalidRequest(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)
	ctx := context.Background()

	_, err := env.manager.TriggerParse(ctx, "NOPE", 1)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = env.manager.TriggerParse(ctx, "BRO", 99)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	// Both failures were synchronous: no log file was created.
	entries, err := os.ReadDir(env.logDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpdateOntology(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)
	ctx := context.Background()

	name := "Renamed"
	ont, err := env.manager.UpdateOntology(ctx, "BRO", types.OntologyPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", ont.Name)

	stored, err := env.manager.GetOntology(ctx, "BRO")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", stored.Name)

	empty := ""
	_, err = env.manager.UpdateOntology(ctx, "BRO", types.OntologyPatch{Name: &empty})
	var verr *types.ValidationError
	assert.ErrorAs(t, err, &verr, "merged record must re-validate")

	_, err = env.manager.UpdateOntology(ctx, "NOPE", types.OntologyPatch{Name: &name})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateSubmission(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)
	ctx := context.Background()

	desc := "curated release"
	status := catalog.StatusReady
	sub, err := env.manager.UpdateSubmission(ctx, "BRO", 1, types.SubmissionPatch{
		Description:      &desc,
		SubmissionStatus: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "curated release", sub.Description)
	assert.Equal(t, catalog.StatusReady, sub.SubmissionStatus)

	bogus := "NOT_A_STATUS"
	_, err = env.manager.UpdateSubmission(ctx, "BRO", 1, types.SubmissionPatch{SubmissionStatus: &bogus})
	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "SubmissionStatus")

	_, err = env.manager.UpdateSubmission(ctx, "BRO", 99, types.SubmissionPatch{Description: &desc})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteOntologyCascades(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)
	ctx := context.Background()

	require.NoError(t, env.manager.DeleteOntology(ctx, "BRO"))

	_, err := env.manager.GetSubmission(ctx, "BRO", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = env.manager.GetOntology(ctx, "BRO")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, env.manager.DeleteOntology(ctx, "BRO"), store.ErrNotFound)
}

func TestDeleteSubmission(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)
	ctx := context.Background()

	second, err := env.manager.CreateSubmission(ctx, "BRO", types.CreateSubmissionRequest{})
	require.NoError(t, err)

	require.NoError(t, env.manager.DeleteSubmission(ctx, "BRO", 1))

	_, err = env.manager.GetSubmission(ctx, "BRO", 1)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// The other submission survives.
	stored, err := env.manager.GetSubmission(ctx, "BRO", second.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, second.SubmissionID, stored.SubmissionID)

	assert.ErrorIs(t, env.manager.DeleteSubmission(ctx, "BRO", 1), store.ErrNotFound)
}

func TestListOntologiesWithLatest(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)
	ctx := context.Background()

	_, err := env.manager.CreateSubmission(ctx, "BRO", types.CreateSubmissionRequest{})
	require.NoError(t, err)

	// An ontology whose submissions were all deleted has no latest.
	_, _, err = env.manager.CreateOntology(ctx, types.CreateOntologyRequest{Acronym: "GO", Name: "Gene Ontology"})
	require.NoError(t, err)
	require.NoError(t, env.manager.DeleteSubmission(ctx, "GO", 1))

	plain, err := env.manager.ListOntologies(ctx, false)
	require.NoError(t, err)
	require.Len(t, plain, 2)
	for _, ont := range plain {
		assert.Nil(t, ont.LatestSubmission)
	}

	expanded, err := env.manager.ListOntologies(ctx, true)
	require.NoError(t, err)
	require.Len(t, expanded, 2)
	assert.Equal(t, "BRO", expanded[0].Acronym)
	require.NotNil(t, expanded[0].LatestSubmission)
	assert.Equal(t, 2, expanded[0].LatestSubmission.SubmissionID)
	assert.Nil(t, expanded[1].LatestSubmission)
}

func TestLatestSubmission(t *testing.T) {
	env := newTestEnv(t, nil)
	createBRO(t, env)
	ctx := context.Background()

	latest, err := env.manager.LatestSubmission(ctx, "BRO")
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 1, latest.SubmissionID)

	_, err = env.manager.LatestSubmission(ctx, "NOPE")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestListSubmissionsUnknownOntology(t *testing.T) {
	env := newTestEnv(t, nil)

	_, err := env.manager.ListSubmissions(context.Background(), "NOPE")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
