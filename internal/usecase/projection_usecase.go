package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/fadilmartias/job-atlas/internal/pca"
	"github.com/fadilmartias/job-atlas/internal/repository"
	"github.com/google/uuid"
	"github.com/phuslu/log"
)

type ProjectionUsecaseInterface interface {
	Recompute(ctx context.Context) (*ProjectionSummary, error)
	Current(ctx context.Context) (*model.PcaModel, error)
}

// ProjectionSummary describes one PCA recompute.
type ProjectionSummary struct {
	ModelID           uuid.UUID     `json:"model_id"`
	TotalJobs         int           `json:"total_jobs"`
	SkippedJobs       int           `json:"skipped_jobs"`
	EmbeddingDim      int           `json:"embedding_dim"`
	ExplainedVariance []float64     `json:"explained_variance"`
	CreatedAt         time.Time     `json:"created_at"`
	Duration          time.Duration `json:"-"`
	DurationMs        int64         `json:"duration_ms"`
}

type ProjectionUsecase struct {
	jobRepo repository.JobRepositoryInterface
	pcaRepo repository.PcaModelRepositoryInterface
	logger  *log.Logger
	now     func() time.Time

	// mu serialises recomputes triggered over HTTP and by ingestion.
	mu sync.Mutex
}

func NewProjectionUsecase(rt *Runtime, jobRepo repository.JobRepositoryInterface, pcaRepo repository.PcaModelRepositoryInterface) *ProjectionUsecase {
	return &ProjectionUsecase{
		jobRepo: jobRepo,
		pcaRepo: pcaRepo,
		logger:  logger.WithComponent(rt.Logger, "projection"),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Recompute fits a new model over every embedded job, stores it and rewrites all coordinates.
// Rows whose embedding dimension differs from the majority are skipped.
func (uc *ProjectionUsecase) Recompute(ctx context.Context) (*ProjectionSummary, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	start := time.Now()
	jobs, err := uc.jobRepo.FindEmbeddedJobs(ctx)
	if err != nil {
		return nil, err
	}

	ids, vectors, skipped := modalEmbeddings(jobs)
	fitted, err := pca.Fit(vectors)
	if err != nil {
		return nil, err
	}

	pm := &model.PcaModel{
		Components:        flatten(fitted.Components),
		Mean:              fitted.Mean,
		ExplainedVariance: fitted.ExplainedVariance[:],
		Dimensions:        pca.Dimensions,
		EmbeddingDim:      fitted.EmbeddingDim,
		TotalJobs:         len(vectors),
		CreatedAt:         uc.now(),
	}
	if err := uc.pcaRepo.InsertPcaModel(ctx, pm); err != nil {
		return nil, err
	}

	points := make([][pca.Dimensions]float64, len(vectors))
	for i, v := range vectors {
		points[i] = fitted.Project(v)
	}
	scaled := pca.Rescale(points)

	coords := make([]model.JobCoordinate, len(ids))
	for i, id := range ids {
		coords[i] = model.JobCoordinate{ID: id, X: scaled[i][0], Y: scaled[i][1], Z: scaled[i][2]}
	}
	if err := uc.jobRepo.UpdateJobCoordinates(ctx, coords, pm.CreatedAt); err != nil {
		return nil, fmt.Errorf("model %s stored but coordinates not updated: %w", pm.ID, err)
	}

	elapsed := time.Since(start)
	uc.logger.Info().
		Str("model_id", pm.ID.String()).
		Int("jobs", len(vectors)).
		Int("skipped", skipped).
		Int("dim", fitted.EmbeddingDim).
		Floats64("explained_variance", pm.ExplainedVariance).
		Dur("took", elapsed).
		Msg("pca recomputed")

	return &ProjectionSummary{
		ModelID:           pm.ID,
		TotalJobs:         len(vectors),
		SkippedJobs:       skipped,
		EmbeddingDim:      fitted.EmbeddingDim,
		ExplainedVariance: pm.ExplainedVariance,
		CreatedAt:         pm.CreatedAt,
		Duration:          elapsed,
		DurationMs:        elapsed.Milliseconds(),
	}, nil
}

// Current returns the active model, or nil before the first recompute.
func (uc *ProjectionUsecase) Current(ctx context.Context) (*model.PcaModel, error) {
	return uc.pcaRepo.LatestPcaModel(ctx)
}

// modalEmbeddings keeps the jobs whose embedding has the most common dimension. Ties go to
// the dimension seen first.
func modalEmbeddings(jobs []model.Job) (ids []uuid.UUID, vectors [][]float64, skipped int) {
	counts := make(map[int]int)
	modal, best := 0, 0
	for _, j := range jobs {
		if !j.HasEmbedding() {
			continue
		}
		d := len(j.Embedding.Slice())
		counts[d]++
		if counts[d] > best {
			modal, best = d, counts[d]
		}
	}

	for _, j := range jobs {
		values := j.Embedding.Slice()
		if len(values) != modal || modal == 0 {
			skipped++
			continue
		}
		v := make([]float64, len(values))
		for i, f := range values {
			v[i] = float64(f)
		}
		ids = append(ids, j.ID)
		vectors = append(vectors, v)
	}
	return ids, vectors, skipped
}

func flatten(rows [pca.Dimensions][]float64) []float64 {
	var out []float64
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
