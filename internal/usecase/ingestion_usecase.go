package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fadilmartias/job-atlas/internal/collector"
	"github.com/fadilmartias/job-atlas/internal/config"
	"github.com/fadilmartias/job-atlas/internal/dedup"
	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/fadilmartias/job-atlas/internal/ratelimit"
	"github.com/fadilmartias/job-atlas/internal/repository"
	"github.com/pgvector/pgvector-go"
	"github.com/phuslu/log"
)

const (
	// RunLockName keys the cross-process advisory lock.
	RunLockName = "ingestion"

	embeddingPreviewChars = 1000
	defaultBatchSize      = 10
)

type IngestionUsecaseInterface interface {
	Run(ctx context.Context) (*IngestionRun, error)
	RecentLogs(ctx context.Context, limit int) ([]model.IngestionLog, error)
}

// RunLocker excludes concurrent runs across processes.
type RunLocker interface {
	TryWithLock(ctx context.Context, name string, fn func(ctx context.Context) error) (bool, error)
}

// IngestionResult is the outcome of one source within a run.
type IngestionResult struct {
	Source       collector.Source `json:"source"`
	JobsFound    int              `json:"jobs_found"`
	JobsInserted int              `json:"jobs_inserted"`
	JobsUpdated  int              `json:"jobs_updated"`
	Errors       []string         `json:"errors"`
	StartedAt    time.Time        `json:"started_at"`
	CompletedAt  time.Time        `json:"completed_at"`
	Duration     time.Duration    `json:"-"`
	DurationMs   int64            `json:"duration_ms"`
	Success      bool             `json:"success"`
}

// IngestionRun is what a single pipeline run returns.
type IngestionRun struct {
	Results         []IngestionResult  `json:"results"`
	Projection      *ProjectionSummary `json:"projection,omitempty"`
	ProjectionError string             `json:"projection_error,omitempty"`
	StartedAt       time.Time          `json:"started_at"`
	Duration        time.Duration      `json:"-"`
	DurationMs      int64              `json:"duration_ms"`
}

// Changed reports whether any job row was inserted or updated.
func (r *IngestionRun) Changed() bool {
	for _, res := range r.Results {
		if res.JobsInserted+res.JobsUpdated > 0 {
			return true
		}
	}
	return false
}

type IngestionUsecase struct {
	rt         *Runtime
	collectors []collector.Collector
	jobRepo    repository.JobRepositoryInterface
	logRepo    repository.IngestionLogRepositoryInterface
	projection ProjectionUsecaseInterface
	locker     RunLocker
	batchSize  int
	batchDelay time.Duration
	logger     *log.Logger

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	running sync.Mutex
}

func NewIngestionUsecase(
	rt *Runtime,
	collectors []collector.Collector,
	jobRepo repository.JobRepositoryInterface,
	logRepo repository.IngestionLogRepositoryInterface,
	projection ProjectionUsecaseInterface,
	cfg config.IngestionConfig,
) *IngestionUsecase {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &IngestionUsecase{
		rt:         rt,
		collectors: collectors,
		jobRepo:    jobRepo,
		logRepo:    logRepo,
		projection: projection,
		batchSize:  batchSize,
		batchDelay: cfg.BatchDelay,
		logger:     logger.WithComponent(rt.Logger, "ingestion"),
		now:        func() time.Time { return time.Now().UTC() },
		sleep:      sleepCtx,
	}
}

// WithRunLocker adds cross-process exclusion on top of the in-process one.
func (uc *IngestionUsecase) WithRunLocker(locker RunLocker) *IngestionUsecase {
	uc.locker = locker
	return uc
}

// Run executes one full ingestion. Listing, source and projection failures end up in the
// returned run; only configuration problems and overlapping runs return an error.
func (uc *IngestionUsecase) Run(ctx context.Context) (*IngestionRun, error) {
	if uc.rt == nil || uc.rt.Provider == nil {
		return nil, ErrNoProvider
	}
	if len(uc.collectors) == 0 {
		return nil, ErrNoCollectors
	}
	if !uc.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer uc.running.Unlock()

	if uc.locker == nil {
		return uc.run(ctx), nil
	}

	var run *IngestionRun
	acquired, err := uc.locker.TryWithLock(ctx, RunLockName, func(ctx context.Context) error {
		run = uc.run(ctx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, ErrRunInProgress
	}
	return run, nil
}

func (uc *IngestionUsecase) RecentLogs(ctx context.Context, limit int) ([]model.IngestionLog, error) {
	return uc.logRepo.RecentLogs(ctx, limit)
}

type collected struct {
	listings []collector.Listing
	err      error
	started  time.Time
}

func (uc *IngestionUsecase) run(ctx context.Context) *IngestionRun {
	startedAt := uc.now()
	uc.logger.Info().Int("collectors", len(uc.collectors)).Str("provider", uc.rt.Provider.Name()).Msg("ingestion started")

	outputs := uc.collect(ctx)

	results := make([]IngestionResult, len(uc.collectors))
	bySource := make(map[collector.Source]*IngestionResult, len(uc.collectors))
	var merged []collector.Listing
	for i, c := range uc.collectors {
		out := outputs[i]
		results[i] = IngestionResult{
			Source:    c.Source(),
			JobsFound: len(out.listings),
			Errors:    errorStrings(out.err),
			StartedAt: out.started,
		}
		bySource[c.Source()] = &results[i]
		merged = append(merged, out.listings...)
	}

	unique := dedup.Unique(merged, func(l collector.Listing) string {
		return dedup.Key(l.Company, l.Title, l.Description)
	})
	uc.logger.Info().Int("listings", len(merged)).Int("unique", len(unique)).Msg("listings deduplicated")

	uc.process(ctx, unique, bySource)

	run := &IngestionRun{Results: results, StartedAt: startedAt}
	if run.Changed() && uc.projection != nil {
		summary, err := uc.projection.Recompute(ctx)
		if err != nil {
			uc.logger.Warn().Err(err).Msg("projection failed, coordinates left as they were")
			run.ProjectionError = err.Error()
		} else {
			run.Projection = summary
		}
	}

	completedAt := uc.now()
	for i := range results {
		res := &results[i]
		res.CompletedAt = completedAt
		res.Duration = completedAt.Sub(res.StartedAt)
		res.DurationMs = res.Duration.Milliseconds()
		res.Success = len(res.Errors) == 0

		entry := &model.IngestionLog{
			Source:       string(res.Source),
			JobsFound:    res.JobsFound,
			JobsInserted: res.JobsInserted,
			JobsUpdated:  res.JobsUpdated,
			Errors:       res.Errors,
			Success:      res.Success,
			DurationMs:   res.DurationMs,
			StartedAt:    res.StartedAt,
			CompletedAt:  res.CompletedAt,
		}
		if err := uc.logRepo.InsertLog(ctx, entry); err != nil {
			uc.logger.Error().Err(err).Str("source", string(res.Source)).Msg("ingestion log not persisted")
		}

		uc.logger.Info().
			Str("source", string(res.Source)).
			Int("found", res.JobsFound).
			Int("inserted", res.JobsInserted).
			Int("updated", res.JobsUpdated).
			Int("errors", len(res.Errors)).
			Msg("source ingested")
	}

	run.Duration = completedAt.Sub(startedAt)
	run.DurationMs = run.Duration.Milliseconds()
	uc.logger.Info().Dur("took", run.Duration).Bool("projected", run.Projection != nil).Msg("ingestion finished")
	return run
}

// collect runs every collector in its own goroutine. Outputs are index-aligned with uc.collectors.
func (uc *IngestionUsecase) collect(ctx context.Context) []collected {
	outputs := make([]collected, len(uc.collectors))
	var wg sync.WaitGroup
	for i, c := range uc.collectors {
		wg.Add(1)
		go func(i int, c collector.Collector) {
			defer wg.Done()
			outputs[i] = uc.collectOne(ctx, c)
		}(i, c)
	}
	wg.Wait()
	return outputs
}

func (uc *IngestionUsecase) collectOne(ctx context.Context, c collector.Collector) (out collected) {
	out.started = uc.now()
	defer func() {
		if r := recover(); r != nil {
			out.listings = nil
			out.err = &collector.CollectorError{Source: c.Source(), Err: fmt.Errorf("panic: %v", r)}
			uc.logger.Error().Str("source", string(c.Source())).Str("panic", fmt.Sprint(r)).Msg("collector panicked")
		}
	}()
	out.listings, out.err = c.Collect(ctx)
	return out
}

// process embeds and persists listings in batches, recording each outcome on the owning source.
func (uc *IngestionUsecase) process(ctx context.Context, listings []collector.Listing, bySource map[collector.Source]*IngestionResult) {
	for start := 0; start < len(listings); start += uc.batchSize {
		if start > 0 && uc.rt.remote() && uc.batchDelay > 0 {
			if err := uc.sleep(ctx, uc.batchDelay); err != nil {
				uc.abandon(listings[start:], bySource, err)
				return
			}
		}

		end := min(start+uc.batchSize, len(listings))
		for _, l := range listings[start:end] {
			res := bySource[l.Source]
			if res == nil {
				continue
			}
			inserted, err := uc.upsert(ctx, l)
			switch {
			case err != nil:
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", l.ExternalID, err))
			case inserted:
				res.JobsInserted++
			default:
				res.JobsUpdated++
			}
		}
	}
}

func (uc *IngestionUsecase) abandon(rest []collector.Listing, bySource map[collector.Source]*IngestionResult, err error) {
	pending := make(map[collector.Source]int)
	for _, l := range rest {
		pending[l.Source]++
	}
	for source, n := range pending {
		if res := bySource[source]; res != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("%d listings not processed: %v", n, err))
		}
	}
}

// upsert updates an existing job in place or embeds and inserts a new one.
func (uc *IngestionUsecase) upsert(ctx context.Context, l collector.Listing) (inserted bool, err error) {
	normalized := dedup.NormalizeTitle(l.Title)
	existing, err := uc.jobRepo.FindJobByKey(ctx, model.JobKey{
		ExternalID:      l.ExternalID,
		Company:         l.Company,
		NormalizedTitle: normalized,
	})
	if err != nil {
		return false, err
	}

	update := uc.listingUpdate(l)
	if existing != nil {
		return false, uc.jobRepo.UpdateJobListing(ctx, existing.ID, update)
	}

	embedding, err := uc.embed(ctx, l)
	if err != nil {
		return false, err
	}

	job := &model.Job{
		Company:         l.Company,
		Title:           update.Title,
		NormalizedTitle: normalized,
		Fingerprint:     update.Fingerprint,
		Description:     update.Description,
		Location:        update.Location,
		Salary:          update.Salary,
		RemoteAllowed:   update.RemoteAllowed,
		ApplyURL:        update.ApplyURL,
		Source:          string(l.Source),
		PostedAt:        update.PostedAt,
		Embedding:       pgvector.NewVector(embedding),
	}
	if l.ExternalID != "" {
		id := l.ExternalID
		job.ExternalID = &id
	}
	return true, uc.jobRepo.CreateJob(ctx, job)
}

func (uc *IngestionUsecase) listingUpdate(l collector.Listing) model.JobListingUpdate {
	postedAt := uc.now()
	if l.PostedAt != nil {
		postedAt = *l.PostedAt
	}
	var applyURL *string
	if l.ApplyURL != "" {
		u := l.ApplyURL
		applyURL = &u
	}
	return model.JobListingUpdate{
		Title:           l.Title,
		NormalizedTitle: dedup.NormalizeTitle(l.Title),
		Description:     l.Description,
		Location:        l.Location,
		Salary:          l.Salary,
		RemoteAllowed:   l.RemoteAllowed,
		ApplyURL:        applyURL,
		PostedAt:        postedAt,
		Fingerprint:     dedup.Fingerprint(l.Description),
	}
}

func (uc *IngestionUsecase) embed(ctx context.Context, l collector.Listing) ([]float32, error) {
	if uc.rt.remote() {
		if limiter := uc.rt.Limiters.Get(ratelimit.Ingestion); limiter != nil {
			if err := limiter.Wait(ctx, ratelimit.Ingestion); err != nil {
				return nil, err
			}
		}
	}
	return uc.rt.Provider.GenerateEmbedding(ctx, EmbeddingText(l.Title, l.Description))
}

// EmbeddingText is the text embedded for a job: its title, a newline and a description preview.
func EmbeddingText(title, description string) string {
	return title + "\n" + dedup.Preview(description, embeddingPreviewChars)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
