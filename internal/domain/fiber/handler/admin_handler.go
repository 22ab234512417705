package handler

import (
	"github.com/fadilmartias/job-atlas/internal/usecase"
	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
)

const maxLogLimit = 200

type AdminHandler struct {
	projection usecase.ProjectionUsecaseInterface
	ingestion  usecase.IngestionUsecaseInterface
}

func NewAdminHandler(projection usecase.ProjectionUsecaseInterface, ingestion usecase.IngestionUsecaseInterface) *AdminHandler {
	return &AdminHandler{projection: projection, ingestion: ingestion}
}

// RegisterRoutes mounts the token-protected routes. auth runs before every one of them.
func (h *AdminHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/pca/recompute", auth, h.RecomputePca)
	router.Post("/ingest", auth, h.Ingest)
	router.Get("/ingest/logs", auth, h.IngestionLogs)
}

func (h *AdminHandler) RecomputePca(c *fiber.Ctx) error {
	summary, err := h.projection.Recompute(c.UserContext())
	if err != nil {
		return respondError(c, "failed to recompute projection", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success recompute projection",
		Data:    summary,
	})
}

// Ingest runs the pipeline synchronously.
func (h *AdminHandler) Ingest(c *fiber.Ctx) error {
	run, err := h.ingestion.Run(c.UserContext())
	if err != nil {
		return respondError(c, "failed to run ingestion", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success run ingestion",
		Data:    run,
	})
}

func (h *AdminHandler) IngestionLogs(c *fiber.Ctx) error {
	limit := max(1, min(c.QueryInt("limit", 50), maxLogLimit))
	logs, err := h.ingestion.RecentLogs(c.UserContext(), limit)
	if err != nil {
		return respondError(c, "failed to load ingestion logs", err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get ingestion logs",
		Data:    logs,
	})
}
