// Package handler provides HTTP handlers for the API.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"channel-prospector/internal/app/service"
	"channel-prospector/internal/transport/httpserver/dto"
	"channel-prospector/internal/validator"
)

// DiscoveryHandler handles discovery-run HTTP requests.
type DiscoveryHandler struct {
	service   *service.DiscoveryService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewDiscoveryHandler creates a new DiscoveryHandler.
func NewDiscoveryHandler(svc *service.DiscoveryService, v *validator.Validator, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Run handles POST /api/v1/discovery
func (h *DiscoveryHandler) Run(c *fiber.Ctx) error {
	var req dto.DiscoveryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	result, err := h.service.Run(c.Context(), req.ToServiceRequest())
	if err != nil {
		if errors.Is(err, service.ErrRunAborted) {
			return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
				Error: err.Error(),
				Code:  "RUN_ABORTED",
			})
		}
		h.logger.Error("discovery run failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "discovery run failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromDiscoveryResult(result))
}
