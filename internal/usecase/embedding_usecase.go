package usecase

import (
	"context"
)

type EmbeddingUsecaseInterface interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type EmbeddingUsecase struct {
	rt *Runtime
}

func NewEmbeddingUsecase(rt *Runtime) *EmbeddingUsecase {
	return &EmbeddingUsecase{rt: rt}
}

// Embed returns the provider's vector for text. The text itself is never logged.
func (uc *EmbeddingUsecase) Embed(ctx context.Context, text string) ([]float32, error) {
	if uc.rt == nil || uc.rt.Provider == nil {
		return nil, ErrNoProvider
	}
	return uc.rt.Provider.GenerateEmbedding(ctx, text)
}
