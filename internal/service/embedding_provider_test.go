package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/fadilmartias/job-atlas/internal/config"
	"github.com/fadilmartias/job-atlas/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l2(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestStubEmbeddingIsDeterministicUnitVector(t *testing.T) {
	stub := NewStubEmbeddingService(0)
	ctx := context.Background()

	texts := []string{"", "Senior Go Engineer\nBuild pipelines", strings.Repeat("x", 20000), "日本語のテキスト"}
	for _, text := range texts {
		a, err := stub.GenerateEmbedding(ctx, text)
		require.NoError(t, err)
		b, err := stub.GenerateEmbedding(ctx, text)
		require.NoError(t, err)

		assert.Len(t, a, DefaultStubDimension)
		assert.InDelta(t, 1.0, l2(a), 1e-5)
		assert.Equal(t, a, b)
	}
}

func TestStubEmbeddingDistinguishesTexts(t *testing.T) {
	stub := NewStubEmbeddingService(64)
	a, _ := stub.GenerateEmbedding(context.Background(), "backend engineer")
	b, _ := stub.GenerateEmbedding(context.Background(), "frontend engineer")

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
	for _, v := range a {
		assert.LessOrEqual(t, math.Abs(float64(v)), 1.0)
	}
}

func TestStubEmbeddingHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStubEmbeddingService(8).GenerateEmbedding(ctx, "text")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "stub", perr.Provider)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewEmbeddingProviderSelection(t *testing.T) {
	ctx := context.Background()
	discard := logger.Discard()

	p, err := NewEmbeddingProvider(ctx, config.EmbeddingConfig{}, discard)
	require.NoError(t, err)
	assert.Equal(t, ProviderStub, p.Kind())

	p, err = NewEmbeddingProvider(ctx, config.EmbeddingConfig{Provider: "STUB", StubDimension: 32}, discard)
	require.NoError(t, err)
	assert.Equal(t, 32, p.(*StubEmbeddingService).Dimension())

	p, err = NewEmbeddingProvider(ctx, config.EmbeddingConfig{Provider: "openai", OpenAIAPIKey: "sk-test"}, discard)
	require.NoError(t, err)
	assert.Equal(t, ProviderRemote, p.Kind())
	assert.Equal(t, "openai", p.Name())

	_, err = NewEmbeddingProvider(ctx, config.EmbeddingConfig{Provider: "openai"}, discard)
	assert.Error(t, err)

	_, err = NewEmbeddingProvider(ctx, config.EmbeddingConfig{Provider: "gemini"}, discard)
	assert.Error(t, err)

	_, err = NewEmbeddingProvider(ctx, config.EmbeddingConfig{Provider: "word2vec"}, discard)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func newOpenAITestServer(t *testing.T, handler func(w http.ResponseWriter, input string, model string)) *OpenAIEmbeddingService {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Input string `json:"input"`
			Model string `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		handler(w, body.Input, body.Model)
	}))
	t.Cleanup(srv.Close)

	svc, err := NewOpenAIEmbeddingService("sk-test", "", srv.URL+"/v1/", logger.Discard())
	require.NoError(t, err)
	return svc
}

func TestOpenAIEmbeddingTruncatesAndParses(t *testing.T) {
	var gotInput, gotModel string
	svc := newOpenAITestServer(t, func(w http.ResponseWriter, input, model string) {
		gotInput, gotModel = input, model
		_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-large",
			"data":[{"object":"embedding","index":0,"embedding":[0.25,-0.5,0.75]}],
			"usage":{"prompt_tokens":3,"total_tokens":3}}`))
	})

	vec, err := svc.GenerateEmbedding(context.Background(), strings.Repeat("é", 9000))
	require.NoError(t, err)

	assert.Equal(t, []float32{0.25, -0.5, 0.75}, vec)
	assert.Equal(t, DefaultOpenAIEmbeddingModel, gotModel)
	assert.Equal(t, openAIMaxInputChars, utf8.RuneCountInString(gotInput))
}

func TestOpenAIEmbeddingMalformedPayload(t *testing.T) {
	svc := newOpenAITestServer(t, func(w http.ResponseWriter, _, _ string) {
		_, _ = w.Write([]byte(`{"object":"list","model":"m","data":[],"usage":{"prompt_tokens":0,"total_tokens":0}}`))
	})

	_, err := svc.GenerateEmbedding(context.Background(), "text")
	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "openai", perr.Provider)
}

func TestOpenAIEmbeddingClientError(t *testing.T) {
	svc := newOpenAITestServer(t, func(w http.ResponseWriter, _, _ string) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad input","type":"invalid_request_error"}}`))
	})

	_, err := svc.GenerateEmbedding(context.Background(), "text")
	var perr *ProviderError
	assert.ErrorAs(t, err, &perr)
}

func TestOpenAIEmbeddingRejectsBlankText(t *testing.T) {
	svc, err := NewOpenAIEmbeddingService("sk-test", "", "http://127.0.0.1:0/", logger.Discard())
	require.NoError(t, err)

	_, err = svc.GenerateEmbedding(context.Background(), "   ")
	var perr *ProviderError
	assert.ErrorAs(t, err, &perr)
}

func TestTruncateChars(t *testing.T) {
	assert.Equal(t, "abc", truncateChars("abcdef", 3))
	assert.Equal(t, "ab", truncateChars("ab", 3))
	assert.Equal(t, "éé", truncateChars("ééé", 2))
}
