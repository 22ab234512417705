package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PcaModel is an immutable fitted projection. The newest row by CreatedAt is the active one.
type PcaModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Components        pq.Float64Array `gorm:"type:double precision[]" json:"components"` // Dimensions x EmbeddingDim, row-major
	Mean              pq.Float64Array `gorm:"type:double precision[]" json:"mean"`
	ExplainedVariance pq.Float64Array `gorm:"type:double precision[]" json:"explained_variance"`
	Dimensions        int             `json:"dimensions"`
	EmbeddingDim      int             `json:"embedding_dim"`
	TotalJobs         int             `json:"total_jobs"`
	CreatedAt         time.Time       `gorm:"index" json:"created_at"`
}

func (m *PcaModel) TableName() string {
	return "pca_models"
}

func (m *PcaModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ComponentRows unflattens Components into Dimensions rows of EmbeddingDim values.
func (m *PcaModel) ComponentRows() [][]float64 {
	if m.EmbeddingDim == 0 {
		return nil
	}
	rows := make([][]float64, 0, m.Dimensions)
	for i := 0; i+m.EmbeddingDim <= len(m.Components) && len(rows) < m.Dimensions; i += m.EmbeddingDim {
		rows = append(rows, []float64(m.Components[i:i+m.EmbeddingDim]))
	}
	return rows
}
