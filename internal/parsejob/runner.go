// Package parsejob schedules and executes the asynchronous processing of
// ontology submissions. Work runs on a fixed pool of workers consuming a
// bounded queue, detached from the triggering request; at most one job per
// submission is queued or running at any time.
package parsejob

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/martin/ontology-registry/internal/catalog"
	"github.com/martin/ontology-registry/internal/store"
	"github.com/martin/ontology-registry/internal/types"
)

var (
	// ErrAlreadyQueued indicates a parse job for the submission is queued
	// or running; retriggering has to wait for it to settle.
	ErrAlreadyQueued = errors.New("parse job already queued for submission")
	// ErrQueueFull indicates the task queue is saturated.
	ErrQueueFull = errors.New("parse queue is full")
	// ErrClosed indicates the runner has been shut down.
	ErrClosed = errors.New("parse runner is closed")
)

// Parser is the external collaborator that transforms a staged submission
// into queryable form. It writes progress to the supplied logger and is
// itself responsible for setting a terminal success status on the
// submission; this package only records failures.
type Parser interface {
	Process(ctx context.Context, sub *types.OntologySubmission, logger *log.Logger) error
}

// Config holds runner settings.
type Config struct {
	// LogDir is the directory for per-run log files, created on first use.
	LogDir string
	// Workers is the number of concurrent parse jobs. Defaults to 4.
	Workers int
	// QueueSize bounds the number of pending jobs. Defaults to 64.
	QueueSize int
}

// Job is the handle for one scheduled parse run.
type Job struct {
	ID           uuid.UUID
	Acronym      string
	SubmissionID int
	LogPath      string

	// sub is the worker's private copy; callers never observe mutations.
	sub  types.OntologySubmission
	file *os.File
	done chan struct{}
}

func (j *Job) key() string {
	return fmt.Sprintf("%s/%d", j.Acronym, j.SubmissionID)
}

// Wait blocks until the job has settled.
func (j *Job) Wait() {
	<-j.done
}

// Done returns a channel closed when the job has settled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Runner executes parse jobs in the background.
type Runner struct {
	subs    store.SubmissionStore
	parser  Parser
	logDir  string
	procLog *log.Logger

	queue  chan *Job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu       sync.Mutex
	closed   bool
	inflight map[string]struct{}

	jobsStarted atomic.Int64
	jobsFailed  atomic.Int64
}

// NewRunner starts a runner with its worker pool. procLog receives
// operational errors encountered while handling a job failure; nil means the
// process default logger.
func NewRunner(subs store.SubmissionStore, parser Parser, cfg Config, procLog *log.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 64
	}
	if procLog == nil {
		procLog = log.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		subs:     subs,
		parser:   parser,
		logDir:   cfg.LogDir,
		procLog:  procLog,
		queue:    make(chan *Job, cfg.QueueSize),
		ctx:      ctx,
		cancel:   cancel,
		inflight: make(map[string]struct{}),
	}
	for i := 0; i < cfg.Workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	return r
}

// Trigger schedules processing of the submission and returns immediately
// with a job handle. The submission is copied; the caller's value is never
// mutated. The run's log file is opened here, before scheduling, so a
// trigger that cannot get a log file fails synchronously.
func (r *Runner) Trigger(sub *types.OntologySubmission) (*Job, error) {
	job := &Job{
		ID:           uuid.New(),
		Acronym:      sub.Acronym,
		SubmissionID: sub.SubmissionID,
		sub:          *sub,
		done:         make(chan struct{}),
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrClosed
	}
	if _, busy := r.inflight[job.key()]; busy {
		r.mu.Unlock()
		return nil, fmt.Errorf("submission %s: %w", job.key(), ErrAlreadyQueued)
	}
	r.inflight[job.key()] = struct{}{}
	r.mu.Unlock()

	file, path, err := r.openLogFile(sub)
	if err != nil {
		r.clearInflight(job.key())
		return nil, err
	}
	job.file = file
	job.LogPath = path

	// The enqueue happens under the mutex so a concurrent Close can never
	// close the queue between the closed check and the send.
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		file.Close()
		os.Remove(path)
		r.clearInflight(job.key())
		return nil, ErrClosed
	}
	select {
	case r.queue <- job:
		r.mu.Unlock()
		return job, nil
	default:
		r.mu.Unlock()
		file.Close()
		os.Remove(path)
		r.clearInflight(job.key())
		return nil, ErrQueueFull
	}
}

// openLogFile creates the per-run log file, named from the submission key
// and the current timestamp.
func (r *Runner) openLogFile(sub *types.OntologySubmission) (*os.File, string, error) {
	if err := os.MkdirAll(r.logDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("failed to create parse log dir: %w", err)
	}
	name := fmt.Sprintf("%s-%d-%s.log", sub.Acronym, sub.SubmissionID, time.Now().Format("20060102_150405"))
	path := filepath.Join(r.logDir, name)
	file, err := os.Create(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open parse log %s: %w", path, err)
	}
	return file, path, nil
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for job := range r.queue {
		r.run(job)
	}
}

// run executes one job. The log file is closed exactly once on every exit
// path before the job settles.
func (r *Runner) run(job *Job) {
	defer close(job.done)
	defer r.clearInflight(job.key())
	defer job.file.Close()

	r.jobsStarted.Add(1)
	logger := log.New(job.file, "", log.LstdFlags)
	logger.Printf("parse started for %s (job %s)", job.key(), job.ID)

	err := r.parser.Process(r.ctx, &job.sub, logger)
	if err == nil {
		// The parser records its own terminal success status.
		logger.Printf("parse finished for %s", job.key())
		return
	}

	r.jobsFailed.Add(1)
	logger.Printf("parse failed for %s: %v", job.key(), err)

	job.sub.SubmissionStatus = catalog.StatusErrorRDF
	job.sub.ParseError = err.Error()
	if verr := job.sub.Validate(); verr != nil {
		r.logSaveFailure(job, logger, verr)
		return
	}
	if serr := r.subs.SaveSubmission(r.ctx, &job.sub); serr != nil {
		r.logSaveFailure(job, logger, serr)
	}
}

// logSaveFailure records a failed status write to both the process log and
// the run log. The submission is left as persisted; there is no retry.
func (r *Runner) logSaveFailure(job *Job, logger *log.Logger, err error) {
	msg := fmt.Sprintf("error saving %s status for submission %s: %v", catalog.StatusErrorRDF, job.key(), err)
	r.procLog.Print(msg)
	logger.Print(msg)
}

func (r *Runner) clearInflight(key string) {
	r.mu.Lock()
	delete(r.inflight, key)
	r.mu.Unlock()
}

// JobsStarted reports how many jobs have begun executing.
func (r *Runner) JobsStarted() int64 {
	return r.jobsStarted.Load()
}

// JobsFailed reports how many jobs ended in a parse failure.
func (r *Runner) JobsFailed() int64 {
	return r.jobsFailed.Load()
}

// Close stops accepting new jobs, drains the queue, and waits for running
// jobs to settle.
func (r *Runner) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
	r.cancel()
}
