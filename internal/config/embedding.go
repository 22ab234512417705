package config

import (
	"os"
	"strings"
	"sync"
)

type EmbeddingConfig struct {
	// Provider is one of "stub", "openai" or "gemini".
	Provider      string
	Model         string
	StubDimension int
	OpenAIAPIKey  string
	OpenAIBaseURL string
	GeminiAPIKey  string
}

var (
	embeddingConfig *EmbeddingConfig
	embeddingOnce   sync.Once
)

func LoadEmbeddingConfig() *EmbeddingConfig {
	embeddingOnce.Do(func() {
		embeddingConfig = &EmbeddingConfig{
			Provider:      strings.ToLower(envString("EMBEDDING_PROVIDER", "stub")),
			Model:         os.Getenv("EMBEDDING_MODEL"),
			StubDimension: envInt("EMBEDDING_STUB_DIM", 256),
			OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
			OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
			GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		}
	})
	return embeddingConfig
}
