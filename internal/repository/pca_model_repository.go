package repository

import (
	"context"

	"github.com/fadilmartias/job-atlas/internal/model"
	"gorm.io/gorm"
)

type PcaModelRepositoryInterface interface {
	InsertPcaModel(ctx context.Context, m *model.PcaModel) error
	LatestPcaModel(ctx context.Context) (*model.PcaModel, error)
}

type PcaModelRepository struct {
	db *gorm.DB
}

func NewPcaModelRepository(db *gorm.DB) *PcaModelRepository {
	return &PcaModelRepository{db}
}

func (r *PcaModelRepository) InsertPcaModel(ctx context.Context, m *model.PcaModel) error {
	return wrap("insert pca model", r.db.WithContext(ctx).Create(m).Error)
}

// LatestPcaModel returns nil without error when no model was ever fitted.
func (r *PcaModelRepository) LatestPcaModel(ctx context.Context) (*model.PcaModel, error) {
	var m model.PcaModel
	err := r.db.WithContext(ctx).Order("created_at DESC").Take(&m).Error
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("latest pca model", err)
	}
	return &m, nil
}
