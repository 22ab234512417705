package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/job-atlas/internal/collector"
	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/fadilmartias/job-atlas/internal/service"
	"github.com/google/uuid"
)

type fakeJobRepo struct {
	mu        sync.Mutex
	jobs      []*model.Job
	createErr error
}

func (r *fakeJobRepo) FindJobByKey(_ context.Context, key model.JobKey) (*model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if key.ExternalID != "" && j.ExternalID != nil && *j.ExternalID == key.ExternalID {
			c := *j
			return &c, nil
		}
	}
	for _, j := range r.jobs {
		if j.Company == key.Company && j.NormalizedTitle == key.NormalizedTitle {
			c := *j
			return &c, nil
		}
	}
	return nil, nil
}

func (r *fakeJobRepo) CreateJob(_ context.Context, job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, j := range r.jobs {
		if j.Company == job.Company && j.NormalizedTitle == job.NormalizedTitle {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	job.CreatedAt = time.Now()
	c := *job
	r.jobs = append(r.jobs, &c)
	return nil
}

func (r *fakeJobRepo) UpdateJobListing(_ context.Context, id uuid.UUID, u model.JobListingUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, j := range r.jobs {
		if j.ID == id {
			j.Title = u.Title
			j.NormalizedTitle = u.NormalizedTitle
			j.Description = u.Description
			j.Location = u.Location
			j.Salary = u.Salary
			j.RemoteAllowed = u.RemoteAllowed
			j.ApplyURL = u.ApplyURL
			j.PostedAt = u.PostedAt
			j.Fingerprint = u.Fingerprint
			return nil
		}
	}
	return errors.New("job not found")
}

func (r *fakeJobRepo) FindEmbeddedJobs(context.Context) ([]model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Job
	for _, j := range r.jobs {
		if j.HasEmbedding() {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) UpdateJobCoordinates(_ context.Context, coords []model.JobCoordinate, projectedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range coords {
		for _, j := range r.jobs {
			if j.ID == c.ID {
				x, y, z, at := c.X, c.Y, c.Z, projectedAt
				j.X, j.Y, j.Z, j.ProjectedAt = &x, &y, &z, &at
			}
		}
	}
	return nil
}

func (r *fakeJobRepo) SearchJobs(_ context.Context, filter model.JobFilter) ([]model.Job, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []model.Job
	q := strings.ToLower(filter.Query)
	for _, j := range r.jobs {
		if q == "" || strings.Contains(strings.ToLower(j.Title+" "+j.Company+" "+j.Description), q) {
			matched = append(matched, *j)
		}
	}
	sort.SliceStable(matched, func(a, b int) bool { return matched[a].PostedAt.After(matched[b].PostedAt) })
	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

func (r *fakeJobRepo) FindPositionedJobs(context.Context) ([]model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Job
	for _, j := range r.jobs {
		if j.X != nil {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) CountJobs(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.jobs)), nil
}

func (r *fakeJobRepo) all() []model.Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Job, len(r.jobs))
	for i, j := range r.jobs {
		out[i] = *j
	}
	return out
}

type fakeLogRepo struct {
	mu   sync.Mutex
	logs []model.IngestionLog
}

func (r *fakeLogRepo) InsertLog(_ context.Context, l *model.IngestionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, *l)
	return nil
}

func (r *fakeLogRepo) RecentLogs(_ context.Context, limit int) ([]model.IngestionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.logs) {
		limit = len(r.logs)
	}
	return r.logs[len(r.logs)-limit:], nil
}

type fakePcaRepo struct {
	mu     sync.Mutex
	models []model.PcaModel
}

func (r *fakePcaRepo) InsertPcaModel(_ context.Context, m *model.PcaModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.models = append(r.models, *m)
	return nil
}

func (r *fakePcaRepo) LatestPcaModel(context.Context) (*model.PcaModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.models) == 0 {
		return nil, nil
	}
	m := r.models[len(r.models)-1]
	return &m, nil
}

type fakeCollector struct {
	source   collector.Source
	listings []collector.Listing
	err      error
	panics   bool
}

func (c *fakeCollector) Source() collector.Source { return c.source }

func (c *fakeCollector) Collect(context.Context) ([]collector.Listing, error) {
	if c.panics {
		panic("unexpected payload")
	}
	return c.listings, c.err
}

// countingProvider wraps the stub provider, counting calls and failing for titles in failOn.
type countingProvider struct {
	service.EmbeddingProvider
	kind   service.ProviderKind
	calls  atomic.Int32
	failOn string
}

func newCountingProvider() *countingProvider {
	return &countingProvider{EmbeddingProvider: service.NewStubEmbeddingService(16), kind: service.ProviderStub}
}

func (p *countingProvider) Kind() service.ProviderKind { return p.kind }

func (p *countingProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	p.calls.Add(1)
	if p.failOn != "" && strings.HasPrefix(text, p.failOn+"\n") {
		return nil, &service.ProviderError{Provider: "counting", Err: errors.New("upstream returned 500")}
	}
	return p.EmbeddingProvider.GenerateEmbedding(ctx, text)
}

type fakeProjection struct {
	calls atomic.Int32
	err   error
}

func (p *fakeProjection) Recompute(context.Context) (*ProjectionSummary, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return &ProjectionSummary{ModelID: uuid.New(), CreatedAt: time.Now()}, nil
}

func (p *fakeProjection) Current(context.Context) (*model.PcaModel, error) {
	return nil, nil
}

type fakeLocker struct {
	held  bool
	calls int
}

func (l *fakeLocker) TryWithLock(ctx context.Context, _ string, fn func(context.Context) error) (bool, error) {
	l.calls++
	if l.held {
		return false, nil
	}
	return true, fn(ctx)
}

func listing(source collector.Source, id, company, title, description string) collector.Listing {
	return collector.Listing{
		Source:      source,
		ExternalID:  string(source) + "_" + id,
		Company:     company,
		Title:       title,
		Description: description,
		ApplyURL:    "https://example.com/" + id,
	}
}
