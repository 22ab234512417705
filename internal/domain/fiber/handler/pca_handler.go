package handler

import (
	"github.com/fadilmartias/job-atlas/internal/dto"
	"github.com/fadilmartias/job-atlas/internal/usecase"
	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
)

type PcaHandler struct {
	uc usecase.ProjectionUsecaseInterface
}

func NewPcaHandler(uc usecase.ProjectionUsecaseInterface) *PcaHandler {
	return &PcaHandler{uc: uc}
}

func (h *PcaHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/pca", h.Current)
}

func (h *PcaHandler) Current(c *fiber.Ctx) error {
	current, err := h.uc.Current(c.UserContext())
	if err != nil {
		return respondError(c, "failed to load projection", err)
	}
	if current == nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "no projection computed yet",
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get projection",
		Data:    dto.NewPcaModel(current),
	})
}
