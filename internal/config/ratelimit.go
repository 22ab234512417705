package config

import (
	"sync"
	"time"
)

type RateLimitConfig struct {
	GlobalMax       int
	GlobalWindow    time.Duration
	EmbedMax        int
	EmbedWindow     time.Duration
	IngestionMax    int
	IngestionWindow time.Duration
	SweepInterval   time.Duration
}

var (
	rateLimitConfig *RateLimitConfig
	rateLimitOnce   sync.Once
)

func LoadRateLimitConfig() *RateLimitConfig {
	rateLimitOnce.Do(func() {
		rateLimitConfig = &RateLimitConfig{
			GlobalMax:       envInt("RATE_LIMIT", 300),
			GlobalWindow:    envDuration("RATE_LIMIT_WINDOW", time.Minute),
			EmbedMax:        envInt("EMBED_RATE_LIMIT", 60),
			EmbedWindow:     envDuration("EMBED_RATE_WINDOW", time.Minute),
			IngestionMax:    envInt("INGEST_RATE_LIMIT", 500),
			IngestionWindow: envDuration("INGEST_RATE_WINDOW", time.Minute),
			SweepInterval:   envDuration("RATE_LIMIT_SWEEP", 5*time.Minute),
		}
	})
	return rateLimitConfig
}
