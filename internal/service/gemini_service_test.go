package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestValidateEmbeddingResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.EmbedContentResponse
		want    []float32
		wantErr bool
	}{
		{"nil response", nil, nil, true},
		{"no embeddings", &genai.EmbedContentResponse{}, nil, true},
		{"empty vector", &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{{}}}, nil, true},
		{"nan value", &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, float32(math.NaN())}}}}, nil, true},
		{"valid", &genai.EmbedContentResponse{Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2}}}}, []float32{0.1, 0.2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := validateEmbeddingResponse(tt.resp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(context.Canceled))
	assert.False(t, isRetryableError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.True(t, isRetryableError(errors.New("read tcp: connection reset by peer")))
	assert.True(t, isRetryableError(&genai.APIError{Code: 503}))
	assert.False(t, isRetryableError(&genai.APIError{Code: 401}))
	assert.False(t, isRetryableError(errors.New("invalid argument")))
}

func TestGeminiBackoffIsCapped(t *testing.T) {
	s := &GeminiService{BaseDelay: time.Second, MaxDelay: 5 * time.Second}

	assert.Equal(t, time.Second, s.calculateBackoff(1))
	assert.Equal(t, 2*time.Second, s.calculateBackoff(2))
	assert.Equal(t, 5*time.Second, s.calculateBackoff(10))
}

func TestGeminiCircuitBreakerRefusesWithoutCalling(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 2, RequestTimeout: time.Second}
	s.consecutiveErrors.Store(2)

	_, err := s.GenerateEmbedding(context.Background(), "text")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, int32(2), s.consecutiveErrors.Load(), "a refused call is not a new failure")
}

func TestGeminiCircuitBreakerHalfOpensAfterCooldown(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &GeminiService{
		Cooldown:          time.Minute,
		circuitBreakerMax: 2,
		nowFunc:           func() time.Time { return now },
		logger:            logger.Discard(),
	}

	require.NoError(t, s.admit())
	s.recordFailure()
	s.recordFailure()
	assert.Error(t, s.admit(), "open right after the threshold")

	now = now.Add(59 * time.Second)
	assert.Error(t, s.admit())

	now = now.Add(time.Second)
	assert.NoError(t, s.admit(), "one trial after the cooldown")
	assert.Error(t, s.admit(), "only one trial per cooldown")

	// failed trial restarts the cooldown
	s.recordFailure()
	now = now.Add(30 * time.Second)
	assert.Error(t, s.admit())
	now = now.Add(30 * time.Second)
	require.NoError(t, s.admit())

	// successful trial closes the breaker
	s.consecutiveErrors.Store(0)
	assert.NoError(t, s.admit())
	assert.NoError(t, s.admit())
}
