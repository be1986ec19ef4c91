package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"channel-prospector/internal/app/service"
	"channel-prospector/internal/transport/httpserver/dto"
	"channel-prospector/internal/validator"
)

// AnalysisHandler handles single-channel scoring and cache introspection.
type AnalysisHandler struct {
	service   *service.AnalysisService
	validator *validator.Validator
	logger    *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(svc *service.AnalysisService, v *validator.Validator, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service:   svc,
		validator: v,
		logger:    logger,
	}
}

// Score handles GET /api/v1/channels/:id/score
func (h *AnalysisHandler) Score(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "channel id is required",
			Code:  "MISSING_ID",
		})
	}

	var req dto.ScoreRequest
	if err := c.QueryParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: "invalid query parameters",
			Code:  "INVALID_PARAMS",
		})
	}
	if err := h.validator.Validate(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Code:    "VALIDATION_ERROR",
			Details: err,
		})
	}

	analysis, err := h.service.ScoreChannel(c.Context(), id, req.Rubric)
	if err != nil {
		if errors.Is(err, service.ErrChannelNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: "channel not found",
				Code:  "NOT_FOUND",
			})
		}
		h.logger.Error("channel scoring failed", zap.String("channel_id", id), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "channel scoring failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromAnalysis(analysis))
}

// CacheStats handles GET /api/v1/cache/stats
func (h *AnalysisHandler) CacheStats(c *fiber.Ctx) error {
	return c.JSON(dto.FromCacheStats(h.service.CacheStats()))
}
