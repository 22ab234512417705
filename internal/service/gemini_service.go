package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/phuslu/log"
	"google.golang.org/genai"
)

const (
	DefaultGeminiEmbeddingModel = "gemini-embedding-001"
	geminiMaxInputChars         = 10000
)

type GeminiService struct {
	Client            *genai.Client
	Model             string
	MaxRetries        int
	BaseDelay         time.Duration
	MaxDelay          time.Duration
	RequestTimeout    time.Duration
	Cooldown          time.Duration
	consecutiveErrors atomic.Int32
	openedAt          atomic.Int64
	circuitBreakerMax int32
	nowFunc           func() time.Time
	logger            *log.Logger
}

func NewGeminiService(ctx context.Context, apiKey, model string, l *log.Logger) (*GeminiService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if model == "" {
		model = DefaultGeminiEmbeddingModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiService{
		Client:            client,
		Model:             model,
		MaxRetries:        3,
		BaseDelay:         time.Second,
		MaxDelay:          90 * time.Second,
		RequestTimeout:    90 * time.Second,
		Cooldown:          time.Minute,
		circuitBreakerMax: 5,
		logger:            l,
	}, nil
}

func (s *GeminiService) Kind() ProviderKind { return ProviderRemote }
func (s *GeminiService) Name() string       { return "gemini" }

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	values, err := s.generateEmbedding(ctx, text)
	if err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}
	return values, nil
}

func (s *GeminiService) generateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmedText := strings.TrimSpace(text)
	if trimmedText == "" {
		return nil, fmt.Errorf("text for embedding cannot be empty")
	}
	trimmedText = truncateChars(trimmedText, geminiMaxInputChars)

	if err := s.admit(); err != nil {
		return nil, err
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	content := []*genai.Content{genai.NewContentFromText(trimmedText, genai.RoleUser)}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.logger.Info().Int("attempt", attempt).Int("max_retries", s.MaxRetries).Dur("delay", delay).Msg("retrying gemini embedding")

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				return nil, fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err())
			}
		}

		result, err := s.Client.Models.EmbedContent(timeoutCtx, s.Model, content, nil)
		if err == nil {
			s.consecutiveErrors.Store(0)
			embeddings, err := validateEmbeddingResponse(result)
			if err != nil {
				return nil, fmt.Errorf("invalid embedding response: %w", err)
			}
			return embeddings, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			s.logger.Warn().Err(err).Msg("non-retryable gemini error")
			s.recordFailure()
			return nil, fmt.Errorf("generate embedding failed: %w", err)
		}

		s.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("retryable gemini error")
	}

	s.recordFailure()
	return nil, fmt.Errorf("max retries (%d) exceeded for GenerateEmbedding: %w", s.MaxRetries, lastErr)
}

// admit refuses calls while the breaker is open. After Cooldown one caller is let
// through as a trial; its outcome closes the breaker or restarts the cooldown.
func (s *GeminiService) admit() error {
	n := s.consecutiveErrors.Load()
	if n < s.circuitBreakerMax {
		return nil
	}
	opened := s.openedAt.Load()
	now := s.now()
	if s.Cooldown > 0 && now.Sub(time.Unix(0, opened)) >= s.Cooldown &&
		s.openedAt.CompareAndSwap(opened, now.UnixNano()) {
		s.logger.Info().Int("consecutive_errors", int(n)).Msg("gemini circuit breaker half-open, trying one call")
		return nil
	}
	return fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", n)
}

func (s *GeminiService) recordFailure() {
	if s.consecutiveErrors.Add(1) >= s.circuitBreakerMax {
		s.openedAt.Store(s.now().UnixNano())
	}
}

func (s *GeminiService) now() time.Time {
	if s.nowFunc != nil {
		return s.nowFunc()
	}
	return time.Now()
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))

	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}

	jitter := time.Duration(float64(delay) * 0.25)
	delay = delay - jitter/2 + time.Duration(float64(jitter)*0.5)

	return delay
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		case 400, 401, 403, 404:
			return false
		}
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func validateEmbeddingResponse(resp *genai.EmbedContentResponse) ([]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) == 0 || resp.Embeddings[0] == nil {
		return nil, fmt.Errorf("no embeddings returned")
	}

	values := resp.Embeddings[0].Values
	if err := validateVector(values); err != nil {
		return nil, err
	}
	return values, nil
}
