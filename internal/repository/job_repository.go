package repository

import (
	"context"
	"strings"
	"time"

	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type JobRepositoryInterface interface {
	FindJobByKey(ctx context.Context, key model.JobKey) (*model.Job, error)
	CreateJob(ctx context.Context, job *model.Job) error
	UpdateJobListing(ctx context.Context, id uuid.UUID, update model.JobListingUpdate) error
	FindEmbeddedJobs(ctx context.Context) ([]model.Job, error)
	UpdateJobCoordinates(ctx context.Context, coords []model.JobCoordinate, projectedAt time.Time) error
	SearchJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, int64, error)
	FindPositionedJobs(ctx context.Context) ([]model.Job, error)
	CountJobs(ctx context.Context) (int64, error)
}

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// FindJobByKey looks a job up by external id first, then by company and normalized title.
// It returns nil without error when neither matches.
func (r *JobRepository) FindJobByKey(ctx context.Context, key model.JobKey) (*model.Job, error) {
	db := r.db.WithContext(ctx).Omit("embedding")

	if key.ExternalID != "" {
		var j model.Job
		err := db.Where("external_id = ?", key.ExternalID).Take(&j).Error
		if err == nil {
			return &j, nil
		}
		if !IsNotFound(err) {
			return nil, wrap("find job by external id", err)
		}
	}

	var j model.Job
	err := db.Where("company = ? AND normalized_title = ?", key.Company, key.NormalizedTitle).Take(&j).Error
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("find job by company and title", err)
	}
	return &j, nil
}

func (r *JobRepository) CreateJob(ctx context.Context, job *model.Job) error {
	return wrap("create job", r.db.WithContext(ctx).Create(job).Error)
}

// UpdateJobListing refreshes the listing fields of an existing job. Embedding and
// coordinates are never touched here.
func (r *JobRepository) UpdateJobListing(ctx context.Context, id uuid.UUID, update model.JobListingUpdate) error {
	err := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("id = ?", id).
		Updates(listingColumns(update)).Error
	return wrap("update job listing", err)
}

func listingColumns(u model.JobListingUpdate) map[string]any {
	return map[string]any{
		"title":            u.Title,
		"normalized_title": u.NormalizedTitle,
		"description":      u.Description,
		"location":         u.Location,
		"salary":           u.Salary,
		"remote_allowed":   u.RemoteAllowed,
		"apply_url":        u.ApplyURL,
		"posted_at":        u.PostedAt,
		"fingerprint":      u.Fingerprint,
	}
}

func (r *JobRepository) FindEmbeddedJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Select("id", "embedding").
		Where("embedding IS NOT NULL").
		Order("created_at").
		Find(&jobs).Error
	return jobs, wrap("find embedded jobs", err)
}

// UpdateJobCoordinates writes every coordinate in one transaction.
func (r *JobRepository) UpdateJobCoordinates(ctx context.Context, coords []model.JobCoordinate, projectedAt time.Time) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range coords {
			err := tx.Model(&model.Job{}).
				Where("id = ?", c.ID).
				UpdateColumns(map[string]any{
					"x":            c.X,
					"y":            c.Y,
					"z":            c.Z,
					"projected_at": projectedAt,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	return wrap("update job coordinates", err)
}

func (r *JobRepository) SearchJobs(ctx context.Context, filter model.JobFilter) ([]model.Job, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Job{}).Scopes(matchQuery(filter.Query)).Count(&total).Error; err != nil {
		return nil, 0, wrap("count jobs", err)
	}

	var jobs []model.Job
	err := r.db.WithContext(ctx).Scopes(searchScope(filter)).Find(&jobs).Error
	return jobs, total, wrap("search jobs", err)
}

func searchScope(filter model.JobFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Omit("embedding").
			Scopes(matchQuery(filter.Query)).
			Order("posted_at DESC").
			Limit(filter.Limit).
			Offset(filter.Offset)
	}
}

func matchQuery(q string) func(*gorm.DB) *gorm.DB {
	q = strings.TrimSpace(q)
	pattern := "%" + escapeLike(q) + "%"
	return func(db *gorm.DB) *gorm.DB {
		if q == "" {
			return db
		}
		return db.Where("title ILIKE @q OR company ILIKE @q OR description ILIKE @q OR location ILIKE @q",
			map[string]any{"q": pattern})
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *JobRepository) FindPositionedJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).
		Select("id", "title", "company", "apply_url", "posted_at", "x", "y", "z").
		Where("x IS NOT NULL AND y IS NOT NULL AND z IS NOT NULL").
		Order("posted_at DESC").
		Find(&jobs).Error
	return jobs, wrap("find positioned jobs", err)
}

func (r *JobRepository) CountJobs(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Job{}).Count(&n).Error
	return n, wrap("count jobs", err)
}
