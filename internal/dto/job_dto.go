package dto

import (
	"time"

	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/google/uuid"
)

type PositionDTO struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Company  string    `json:"company"`
	ApplyURL *string   `json:"applyUrl"`
	PostedAt time.Time `json:"postedAt"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Z        float64   `json:"z"`
}

type PositionsMeta struct {
	PcaUpdatedAt *time.Time `json:"pcaUpdatedAt"`
	Count        int        `json:"count"`
	Total        int64      `json:"total"`
}

type JobDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Company       string     `json:"company"`
	Description   string     `json:"description"`
	Location      *string    `json:"location"`
	Salary        *string    `json:"salary"`
	RemoteAllowed bool       `json:"remoteAllowed"`
	ApplyURL      *string    `json:"applyUrl"`
	Source        string     `json:"source"`
	PostedAt      time.Time  `json:"postedAt"`
	X             *float64   `json:"x"`
	Y             *float64   `json:"y"`
	Z             *float64   `json:"z"`
	ProjectedAt   *time.Time `json:"projectedAt,omitempty"`
}

type EmbedRequest struct {
	Text string `json:"text" validate:"required,max=10000"`
}

type EmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewPositions keeps only jobs that carry all three coordinates.
func NewPositions(jobs []model.Job) []PositionDTO {
	out := make([]PositionDTO, 0, len(jobs))
	for _, j := range jobs {
		if j.X == nil || j.Y == nil || j.Z == nil {
			continue
		}
		out = append(out, PositionDTO{
			ID:       j.ID,
			Title:    j.Title,
			Company:  j.Company,
			ApplyURL: j.ApplyURL,
			PostedAt: j.PostedAt,
			X:        *j.X,
			Y:        *j.Y,
			Z:        *j.Z,
		})
	}
	return out
}

func NewJobs(jobs []model.Job) []JobDTO {
	out := make([]JobDTO, len(jobs))
	for i, j := range jobs {
		out[i] = JobDTO{
			ID:            j.ID,
			Title:         j.Title,
			Company:       j.Company,
			Description:   j.Description,
			Location:      j.Location,
			Salary:        j.Salary,
			RemoteAllowed: j.RemoteAllowed,
			ApplyURL:      j.ApplyURL,
			Source:        j.Source,
			PostedAt:      j.PostedAt,
			X:             j.X,
			Y:             j.Y,
			Z:             j.Z,
			ProjectedAt:   j.ProjectedAt,
		}
	}
	return out
}
