package repository

import (
	"context"

	"github.com/fadilmartias/job-atlas/internal/model"
	"gorm.io/gorm"
)

type IngestionLogRepositoryInterface interface {
	InsertLog(ctx context.Context, log *model.IngestionLog) error
	RecentLogs(ctx context.Context, limit int) ([]model.IngestionLog, error)
}

// IngestionLogRepository is append-only.
type IngestionLogRepository struct {
	db *gorm.DB
}

func NewIngestionLogRepository(db *gorm.DB) *IngestionLogRepository {
	return &IngestionLogRepository{db}
}

func (r *IngestionLogRepository) InsertLog(ctx context.Context, log *model.IngestionLog) error {
	return wrap("insert ingestion log", r.db.WithContext(ctx).Create(log).Error)
}

func (r *IngestionLogRepository) RecentLogs(ctx context.Context, limit int) ([]model.IngestionLog, error) {
	var logs []model.IngestionLog
	err := r.db.WithContext(ctx).
		Order("completed_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, wrap("recent ingestion logs", err)
}
