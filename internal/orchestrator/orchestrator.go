// Package orchestrator drives the end-to-end processing pipeline for each
// submitted resume: parsing, aggregation, and matching run as a tracked job
// with state, progress, retry, and timeout semantics.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dejayillegal/JobFinder-Pro/internal/aggregator"
	"github.com/dejayillegal/JobFinder-Pro/internal/connectors"
	"github.com/dejayillegal/JobFinder-Pro/internal/match"
	"github.com/dejayillegal/JobFinder-Pro/internal/resume"
	"github.com/dejayillegal/JobFinder-Pro/internal/store"
	"github.com/dejayillegal/JobFinder-Pro/internal/types"
)

// Config bounds the orchestrator's concurrency and failure handling.
type Config struct {
	Workers          int
	QueueSize        int
	MaxStageAttempts int
	RetryBackoff     time.Duration
	JobTimeout       time.Duration
	MinScore         float64
}

// DefaultConfig suits a single-process deployment.
func DefaultConfig() Config {
	return Config{
		Workers:          4,
		QueueSize:        64,
		MaxStageAttempts: 3,
		RetryBackoff:     500 * time.Millisecond,
		JobTimeout:       2 * time.Minute,
		MinScore:         match.DefaultMinScore,
	}
}

// submission is one queued unit of work.
type submission struct {
	jobID    uuid.UUID
	document []byte
	mimeType string
}

// Orchestrator runs processing jobs on a bounded worker pool. Stages within
// one job execute sequentially; independent jobs run concurrently.
type Orchestrator struct {
	cfg        Config
	store      store.Store
	parser     *resume.Pipeline
	aggregator *aggregator.Aggregator
	engine     *match.Engine
	log        *zap.Logger

	queue chan submission
	wg    sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
}

// New builds an orchestrator. Call Start before submitting.
func New(cfg Config, st store.Store, parser *resume.Pipeline, agg *aggregator.Aggregator, engine *match.Engine, log *zap.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = cfg.Workers * 4
	}
	if cfg.MaxStageAttempts <= 0 {
		cfg.MaxStageAttempts = 3
	}
	return &Orchestrator{
		cfg:        cfg,
		store:      st,
		parser:     parser,
		aggregator: agg,
		engine:     engine,
		log:        log.Named("orchestrator"),
		queue:      make(chan submission, cfg.QueueSize),
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled or
// Stop closes the queue.
func (o *Orchestrator) Start(ctx context.Context) {
	o.startOnce.Do(func() {
		for i := 0; i < o.cfg.Workers; i++ {
			o.wg.Add(1)
			go o.worker(ctx)
		}
	})
}

// Stop closes the intake queue and waits for in-flight jobs to finish.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		close(o.queue)
		o.wg.Wait()
	})
}

func (o *Orchestrator) worker(ctx context.Context) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case sub, ok := <-o.queue:
			if !ok {
				return
			}
			o.process(ctx, sub)
		}
	}
}

// Submit registers a processing job for a resume document and enqueues it.
// Submission is idempotent on the resume version: when a completed job
// already exists for identical document bytes, that job is returned and
// nothing is re-run.
func (o *Orchestrator) Submit(ctx context.Context, document []byte, mimeType string) (*types.ProcessingJob, error) {
	resumeKey := types.ResumeVersion(document)

	existing, err := o.store.FindCompletedJob(ctx, resumeKey)
	if err == nil {
		o.log.Info("resume already processed",
			zap.String("resume_key", resumeKey),
			zap.String("job_id", existing.ID.String()))
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	job := &types.ProcessingJob{
		ID:        uuid.New(),
		ResumeKey: resumeKey,
		State:     types.StateQueued,
		Progress:  types.ProgressQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := o.store.CreateProcessingJob(ctx, job); err != nil {
		return nil, err
	}

	select {
	case o.queue <- submission{jobID: job.ID, document: document, mimeType: mimeType}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return job, nil
}

// Await polls until the job reaches a terminal state or ctx expires.
func (o *Orchestrator) Await(ctx context.Context, jobID uuid.UUID, poll time.Duration) (*types.ProcessingJob, error) {
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		job, err := o.store.GetProcessingJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.State.Terminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-ticker.C:
		}
	}
}

// process runs the stage sequence for one job under the configured
// wall-clock timeout. Any stage error lands the job in the failed state
// with a human-readable message.
func (o *Orchestrator) process(ctx context.Context, sub submission) {
	log := o.log.With(zap.String("job_id", sub.jobID.String()))

	jobCtx := ctx
	var cancel context.CancelFunc
	if o.cfg.JobTimeout > 0 {
		jobCtx, cancel = context.WithTimeout(ctx, o.cfg.JobTimeout)
		defer cancel()
	}

	job, err := o.store.GetProcessingJob(jobCtx, sub.jobID)
	if err != nil {
		log.Error("failed to load job", zap.Error(err))
		return
	}

	profile, err := o.runParsing(jobCtx, job, sub)
	if err != nil {
		o.fail(ctx, job, err, log)
		return
	}

	if err := o.runAggregation(jobCtx, job, profile); err != nil {
		o.fail(ctx, job, err, log)
		return
	}

	matchCount, err := o.runMatching(jobCtx, job, profile)
	if err != nil {
		o.fail(ctx, job, err, log)
		return
	}

	job.State = types.StateCompleted
	job.Progress = types.ProgressCompleted
	job.MatchCount = matchCount
	job.Error = ""
	if err := o.updateJob(ctx, job); err != nil {
		log.Error("failed to record completion", zap.Error(err))
		return
	}
	log.Info("job completed", zap.Int("matches", matchCount))
}

// runParsing executes the parsing stage: extract the profile and persist it.
func (o *Orchestrator) runParsing(ctx context.Context, job *types.ProcessingJob, sub submission) (*types.CandidateProfile, error) {
	if err := o.transition(ctx, job, types.StateParsing, types.ProgressParsing); err != nil {
		return nil, err
	}

	// The extractor behind the parser may fail transiently (an LLM call
	// timing out); *ParseError is deterministic and propagates unretried.
	var profile *types.CandidateProfile
	err := o.retryStage(ctx, job, "parse resume", func() error {
		var err error
		profile, err = o.parser.Parse(ctx, sub.document, sub.mimeType)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = o.retryStage(ctx, job, "save profile", func() error {
		return o.store.SaveProfile(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	job.ProfileID = profile.ID
	return profile, nil
}

// runAggregation executes the aggregation stage with a query derived from
// the parsed profile.
func (o *Orchestrator) runAggregation(ctx context.Context, job *types.ProcessingJob, profile *types.CandidateProfile) error {
	if err := o.transition(ctx, job, types.StateAggregating, types.ProgressAggregating); err != nil {
		return err
	}

	query := buildQuery(profile)
	return o.retryStage(ctx, job, "aggregate", func() error {
		_, err := o.aggregator.Aggregate(ctx, query)
		return err
	})
}

// runMatching scores the profile against every stored posting and persists
// the surviving matches.
func (o *Orchestrator) runMatching(ctx context.Context, job *types.ProcessingJob, profile *types.CandidateProfile) (int, error) {
	if err := o.transition(ctx, job, types.StateMatching, types.ProgressMatching); err != nil {
		return 0, err
	}

	var postings []types.JobPosting
	err := o.retryStage(ctx, job, "list postings", func() error {
		var err error
		postings, err = o.store.ListPostings(ctx, store.PostingFilters{})
		return err
	})
	if err != nil {
		return 0, err
	}

	ranked, err := o.engine.Rank(ctx, profile, postings, o.cfg.MinScore)
	if err != nil {
		return 0, err
	}

	for i := range ranked {
		m := ranked[i]
		err := o.retryStage(ctx, job, "save match", func() error {
			return o.store.UpsertMatch(ctx, &m)
		})
		if err != nil {
			return 0, err
		}
	}
	return len(ranked), nil
}

// transition moves the job to the next stage and records progress.
func (o *Orchestrator) transition(ctx context.Context, job *types.ProcessingJob, state types.JobState, progress int) error {
	job.State = state
	job.Progress = progress
	return o.updateJob(ctx, job)
}

// updateJob persists job state with its own small retry: losing a state
// write would strand the job in a stale state for pollers.
func (o *Orchestrator) updateJob(ctx context.Context, job *types.ProcessingJob) error {
	var lastErr error
	for attempt := 0; attempt < o.cfg.MaxStageAttempts; attempt++ {
		lastErr = o.store.UpdateProcessingJob(ctx, job)
		if lastErr == nil || !transient(lastErr) {
			return lastErr
		}
		if !sleepBackoff(ctx, o.cfg.RetryBackoff, attempt) {
			return ctx.Err()
		}
	}
	return lastErr
}

// retryStage retries a stage-local operation on transient errors with
// exponential backoff, counting attempts on the job. Deterministic errors
// (parse failures) and context expiry propagate immediately.
func (o *Orchestrator) retryStage(ctx context.Context, job *types.ProcessingJob, name string, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < o.cfg.MaxStageAttempts; attempt++ {
		if attempt > 0 {
			job.AttemptCount++
			if !sleepBackoff(ctx, o.cfg.RetryBackoff, attempt-1) {
				return ctx.Err()
			}
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !transient(lastErr) {
			return lastErr
		}
		o.log.Warn("stage attempt failed",
			zap.String("job_id", job.ID.String()),
			zap.String("stage", name),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, o.cfg.MaxStageAttempts, lastErr)
}

// fail lands the job in the terminal failed state with a readable message.
// The terminal write uses the parent context so a job-timeout cancellation
// cannot also suppress the failure record.
func (o *Orchestrator) fail(ctx context.Context, job *types.ProcessingJob, cause error, log *zap.Logger) {
	job.State = types.StateFailed
	job.Error = failureMessage(cause)
	if err := o.updateJob(ctx, job); err != nil {
		log.Error("failed to record failure", zap.Error(err))
	}
	log.Warn("job failed", zap.String("error", job.Error))
}

// transient reports whether an error is worth retrying at the orchestrator
// level. Parse errors are deterministic; everything else that bubbles this
// far (persistence trouble, timeouts inside a stage) is assumed transient.
func transient(err error) bool {
	var parseErr *resume.ParseError
	if errors.As(err, &parseErr) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "processing timed out"
	}
	return err.Error()
}

func sleepBackoff(ctx context.Context, base time.Duration, attempt int) bool {
	if base <= 0 {
		base = 100 * time.Millisecond
	}
	wait := base << attempt
	select {
	case <-time.After(wait):
		return true
	case <-ctx.Done():
		return false
	}
}

// buildQuery derives the aggregation query from the parsed profile: the
// current role when known, otherwise the top skills, with the candidate's
// preferred location.
func buildQuery(profile *types.CandidateProfile) connectors.Query {
	keywords := profile.CurrentRole
	if keywords == "" && len(profile.Skills) > 0 {
		top := profile.Skills
		if len(top) > 3 {
			top = top[:3]
		}
		keywords = strings.Join(top, " ")
	}
	if keywords == "" {
		keywords = "Software Engineer"
	}

	location := profile.LocationPreference
	if location == "" || strings.EqualFold(location, "remote") {
		location = "India"
	}
	return connectors.Query{Keywords: keywords, Location: location, Page: 1}
}
