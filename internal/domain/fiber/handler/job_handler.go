package handler

import (
	"github.com/fadilmartias/job-atlas/internal/dto"
	"github.com/fadilmartias/job-atlas/internal/model"
	"github.com/fadilmartias/job-atlas/internal/response"
	"github.com/fadilmartias/job-atlas/internal/usecase"
	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
)

type JobHandler struct {
	uc usecase.JobUsecaseInterface
}

func NewJobHandler(uc usecase.JobUsecaseInterface) *JobHandler {
	return &JobHandler{uc: uc}
}

func (h *JobHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/positions", h.Positions)
	router.Get("/jobs", h.Jobs)
}

func (h *JobHandler) Positions(c *fiber.Ctx) error {
	snapshot, err := h.uc.Positions(c.UserContext())
	if err != nil {
		return respondError(c, "failed to load positions", err)
	}

	positions := dto.NewPositions(snapshot.Jobs)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get positions",
		Data:    positions,
		Meta:    dto.PositionsMeta{PcaUpdatedAt: snapshot.PcaUpdatedAt, Count: len(positions), Total: snapshot.TotalJobs},
	})
}

func (h *JobHandler) Jobs(c *fiber.Ctx) error {
	page, err := h.uc.SearchJobs(c.UserContext(), model.JobFilter{
		Query:  c.Query("q"),
		Limit:  c.QueryInt("limit", usecase.DefaultJobLimit),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, "failed to search jobs", err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get jobs",
		Data:       dto.NewJobs(page.Jobs),
		Pagination: response.NewOffsetPagination(page.Limit, page.Offset, len(page.Jobs), page.Total),
	})
}
