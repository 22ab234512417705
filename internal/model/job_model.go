package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Job struct {
	ID              uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExternalID      *string         `gorm:"type:varchar(255);uniqueIndex" json:"external_id,omitempty"`
	Company         string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_jobs_company_title" json:"company"`
	Title           string          `gorm:"type:text;not null" json:"title"`
	NormalizedTitle string          `gorm:"type:varchar(512);not null;uniqueIndex:idx_jobs_company_title" json:"normalized_title"`
	Fingerprint     string          `gorm:"type:char(40);index" json:"fingerprint"`
	Description     string          `gorm:"type:text" json:"description"`
	Location        *string         `gorm:"type:varchar(255)" json:"location,omitempty"`
	Salary          *string         `gorm:"type:varchar(255)" json:"salary,omitempty"`
	RemoteAllowed   bool            `gorm:"not null;default:false" json:"remote_allowed"`
	ApplyURL        *string         `gorm:"type:text" json:"apply_url,omitempty"`
	Source          string          `gorm:"type:varchar(50);index" json:"source"`
	PostedAt        time.Time       `gorm:"index" json:"posted_at"`
	Embedding       pgvector.Vector `gorm:"type:vector" json:"-"` // dimension follows the embedding provider
	X               *float64        `json:"x"`
	Y               *float64        `json:"y"`
	Z               *float64        `json:"z"`
	ProjectedAt     *time.Time      `json:"projected_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// HasEmbedding reports whether the row carries a vector usable for projection.
func (j *Job) HasEmbedding() bool {
	return len(j.Embedding.Slice()) > 0
}

// JobKey identifies a job across ingestion runs. ExternalID wins when both match different rows.
type JobKey struct {
	ExternalID      string
	Company         string
	NormalizedTitle string
}

// JobListingUpdate carries the fields refreshed when an existing job is seen again.
// Embedding and coordinates are deliberately absent.
type JobListingUpdate struct {
	Title           string
	NormalizedTitle string
	Description     string
	Location        *string
	Salary          *string
	RemoteAllowed   bool
	ApplyURL        *string
	PostedAt        time.Time
	Fingerprint     string
}

type JobCoordinate struct {
	ID      uuid.UUID
	X, Y, Z float64
}

type JobFilter struct {
	Query  string
	Limit  int
	Offset int
}
