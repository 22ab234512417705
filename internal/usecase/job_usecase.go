package usecase

import (
	"context"
	"time"

	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/fadilmartias/job-atlas/internal/repository"
)

const (
	DefaultJobLimit = 20
	MaxJobLimit     = 100
)

type JobUsecaseInterface interface {
	SearchJobs(ctx context.Context, filter model.JobFilter) (*JobPage, error)
	Positions(ctx context.Context) (*PositionSnapshot, error)
}

type JobPage struct {
	Jobs   []model.Job
	Total  int64
	Limit  int
	Offset int
}

// PositionSnapshot is every projected job together with the time of the model that placed it.
// TotalJobs counts every stored job, placed or not.
type PositionSnapshot struct {
	Jobs         []model.Job
	TotalJobs    int64
	PcaUpdatedAt *time.Time
}

type JobUsecase struct {
	jobRepo repository.JobRepositoryInterface
	pcaRepo repository.PcaModelRepositoryInterface
}

func NewJobUsecase(jobRepo repository.JobRepositoryInterface, pcaRepo repository.PcaModelRepositoryInterface) *JobUsecase {
	return &JobUsecase{jobRepo: jobRepo, pcaRepo: pcaRepo}
}

// SearchJobs clamps the limit to [1, MaxJobLimit] and the offset to >= 0 before querying.
func (uc *JobUsecase) SearchJobs(ctx context.Context, filter model.JobFilter) (*JobPage, error) {
	filter.Limit = max(1, min(filter.Limit, MaxJobLimit))
	filter.Offset = max(0, filter.Offset)

	jobs, total, err := uc.jobRepo.SearchJobs(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &JobPage{Jobs: jobs, Total: total, Limit: filter.Limit, Offset: filter.Offset}, nil
}

func (uc *JobUsecase) Positions(ctx context.Context) (*PositionSnapshot, error) {
	jobs, err := uc.jobRepo.FindPositionedJobs(ctx)
	if err != nil {
		return nil, err
	}
	total, err := uc.jobRepo.CountJobs(ctx)
	if err != nil {
		return nil, err
	}
	snapshot := &PositionSnapshot{Jobs: jobs, TotalJobs: total}

	latest, err := uc.pcaRepo.LatestPcaModel(ctx)
	if err != nil {
		return nil, err
	}
	if latest != nil {
		snapshot.PcaUpdatedAt = &latest.CreatedAt
	}
	return snapshot, nil
}
