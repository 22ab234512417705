package handler

import (
	"errors"

	"github.com/fadilmartias/job-atlas/internal/pca"
	"github.com/fadilmartias/job-atlas/internal/service"
	"github.com/fadilmartias/job-atlas/internal/usecase"
	"github.com/fadilmartias/job-atlas/internal/util"
	"github.com/gofiber/fiber/v2"
)

// respondError maps domain errors onto status codes. message is what clients see.
func respondError(c *fiber.Ctx, message string, err error) error {
	code := fiber.StatusInternalServerError
	var details any

	var (
		validationErr   *util.ValidationError
		insufficientErr *pca.InsufficientDataError
		providerErr     *service.ProviderError
	)
	switch {
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
		details = validationErr.Errors
	case errors.Is(err, usecase.ErrRunInProgress):
		code = fiber.StatusConflict
	case errors.As(err, &insufficientErr):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrNoProvider):
		code = fiber.StatusServiceUnavailable
	case errors.As(err, &providerErr):
		code = fiber.StatusBadGateway
	}

	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    code,
		Message: message,
		Details: details,
	}, err)
}
