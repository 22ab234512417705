package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// IngestionLog is written once per collector per run and never updated.
type IngestionLog struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Source       string         `gorm:"type:varchar(50);index" json:"source"`
	JobsFound    int            `json:"jobs_found"`
	JobsInserted int            `json:"jobs_inserted"`
	JobsUpdated  int            `json:"jobs_updated"`
	Errors       pq.StringArray `gorm:"type:text[]" json:"errors"`
	Success      bool           `json:"success"`
	DurationMs   int64          `json:"duration_ms"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `gorm:"index" json:"completed_at"`
}

func (l *IngestionLog) TableName() string {
	return "ingestion_logs"
}

func (l *IngestionLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
