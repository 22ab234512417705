package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/fadilmartias/job-atlas/internal/config"
	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/phuslu/log"
)

type ProviderKind string

const (
	ProviderRemote ProviderKind = "remote"
	ProviderStub   ProviderKind = "stub"
)

// EmbeddingProvider turns text into a fixed-length vector. Implementations must never log
// the input text.
type EmbeddingProvider interface {
	Kind() ProviderKind
	Name() string
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ProviderError wraps any failure to produce an embedding.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

var ErrUnknownProvider = errors.New("unknown embedding provider")

// NewEmbeddingProvider resolves the configured provider. Callers build it once at startup.
func NewEmbeddingProvider(ctx context.Context, cfg config.EmbeddingConfig, l *log.Logger) (EmbeddingProvider, error) {
	l = logger.WithComponent(l, "embedding")

	switch strings.ToLower(cfg.Provider) {
	case "", "stub":
		return NewStubEmbeddingService(cfg.StubDimension), nil
	case "openai":
		return NewOpenAIEmbeddingService(cfg.OpenAIAPIKey, cfg.Model, cfg.OpenAIBaseURL, l)
	case "gemini":
		return NewGeminiService(ctx, cfg.GeminiAPIKey, cfg.Model, l)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// validateVector rejects empty vectors and non-finite components.
func validateVector(values []float32) error {
	if len(values) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	for i, val := range values {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return nil
}

// truncateChars cuts text to at most n characters.
func truncateChars(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
