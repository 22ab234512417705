package dto

import (
	"time"

	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/google/uuid"
)

// PcaModelDTO exposes the active projection so clients can place their own vectors.
type PcaModelDTO struct {
	ID                uuid.UUID   `json:"id"`
	CreatedAt         time.Time   `json:"createdAt"`
	EmbeddingDim      int         `json:"embeddingDim"`
	TotalJobs         int         `json:"totalJobs"`
	ExplainedVariance []float64   `json:"explainedVariance"`
	Components        [][]float64 `json:"components"`
	Mean              []float64   `json:"mean"`
}

func NewPcaModel(m *model.PcaModel) PcaModelDTO {
	return PcaModelDTO{
		ID:                m.ID,
		CreatedAt:         m.CreatedAt,
		EmbeddingDim:      m.EmbeddingDim,
		TotalJobs:         m.TotalJobs,
		ExplainedVariance: m.ExplainedVariance,
		Components:        m.ComponentRows(),
		Mean:              m.Mean,
	}
}
