package handler

import (
	"github.com/fadilmartias/job-atlas/internal/dto"
	"github.com/fadilmartias/job-atlas/internal/usecase"
	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
)

type EmbedHandler struct {
	uc usecase.EmbeddingUsecaseInterface
}

func NewEmbedHandler(uc usecase.EmbeddingUsecaseInterface) *EmbedHandler {
	return &EmbedHandler{uc: uc}
}

// RegisterRoutes mounts POST /embed behind guards, typically the per-IP embed limiter.
func (h *EmbedHandler) RegisterRoutes(router fiber.Router, guards ...fiber.Handler) {
	handlers := append(guards, h.Embed)
	router.Post("/embed", handlers...)
}

// Embed never logs the request text.
func (h *EmbedHandler) Embed(c *fiber.Ctx) error {
	var req dto.EmbedRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid request body",
		}, err)
	}
	if err := util.Validate(req); err != nil {
		return respondError(c, "invalid request body", err)
	}

	embedding, err := h.uc.Embed(c.UserContext(), req.Text)
	if err != nil {
		return respondError(c, "failed to generate embedding", err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success generate embedding",
		Data:    dto.EmbedResponse{Embedding: embedding},
	})
}
