package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phuslu/log"
)

const (
	DefaultOpenAIEmbeddingModel = "text-embedding-3-large"
	openAIMaxInputChars         = 8000
)

type OpenAIEmbeddingService struct {
	client *openai.Client
	model  string
	logger *log.Logger
}

func NewOpenAIEmbeddingService(apiKey, model, baseURL string, l *log.Logger) (*OpenAIEmbeddingService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY not set")
	}
	if model == "" {
		model = DefaultOpenAIEmbeddingModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(3),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	client := openai.NewClient(opts...)

	return &OpenAIEmbeddingService{client: &client, model: model, logger: l}, nil
}

func (s *OpenAIEmbeddingService) Kind() ProviderKind { return ProviderRemote }
func (s *OpenAIEmbeddingService) Name() string       { return "openai" }

func (s *OpenAIEmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("text for embedding cannot be empty")}
	}
	trimmed = truncateChars(trimmed, openAIMaxInputChars)

	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(trimmed)},
		Model: openai.EmbeddingModel(s.model),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("model", s.model).Msg("openai embedding request failed")
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, &ProviderError{Provider: s.Name(), Err: fmt.Errorf("no embeddings returned")}
	}

	values := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		values[i] = float32(v)
	}
	if err := validateVector(values); err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}
	return values, nil
}
