package repository

import (
	"github.com/fadilmartias/job-atlas/internal/model"
	"gorm.io/gorm"
)

// Migrate installs the pgvector extension and creates or alters every table.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return wrap("create vector extension", err)
	}
	return wrap("auto migrate", db.AutoMigrate(&model.Job{}, &model.IngestionLog{}, &model.PcaModel{}))
}
