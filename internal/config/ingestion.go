package config

import (
	"os"
	"sync"
	"time"
)

type IngestionConfig struct {
	BatchSize  int
	BatchDelay time.Duration
	// Cron is a robfig/cron spec; empty disables scheduled runs in the server.
	Cron string
}

var (
	ingestionConfig *IngestionConfig
	ingestionOnce   sync.Once
)

func LoadIngestionConfig() *IngestionConfig {
	ingestionOnce.Do(func() {
		ingestionConfig = &IngestionConfig{
			BatchSize:  envInt("INGEST_BATCH_SIZE", 10),
			BatchDelay: envDuration("INGEST_BATCH_DELAY", time.Second),
			Cron:       os.Getenv("INGEST_CRON"),
		}
	})
	return ingestionConfig
}
