package service

import (
	"context"
	"crypto/sha256"
	"math"
)

const DefaultStubDimension = 256

// StubEmbeddingService derives a unit vector from the sha256 of the text. No network, no seed:
// equal input always yields an equal vector.
type StubEmbeddingService struct {
	dimension int
}

func NewStubEmbeddingService(dimension int) *StubEmbeddingService {
	if dimension <= 0 {
		dimension = DefaultStubDimension
	}
	return &StubEmbeddingService{dimension: dimension}
}

func (s *StubEmbeddingService) Kind() ProviderKind { return ProviderStub }
func (s *StubEmbeddingService) Name() string       { return "stub" }
func (s *StubEmbeddingService) Dimension() int     { return s.dimension }

func (s *StubEmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProviderError{Provider: s.Name(), Err: err}
	}

	digest := sha256.Sum256([]byte(text))
	raw := make([]float64, s.dimension)
	var sumSquares float64
	for i := range raw {
		v := float64(digest[i%len(digest)])/255*2 - 1
		raw[i] = v
		sumSquares += v * v
	}

	magnitude := math.Sqrt(sumSquares)
	out := make([]float32, s.dimension)
	for i, v := range raw {
		if magnitude > 0 {
			v /= magnitude
		}
		out[i] = float32(v)
	}
	return out, nil
}
