package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"channel-prospector/internal/domain"
	"channel-prospector/internal/transport/httpserver/dto"
	"channel-prospector/internal/validator"
)

// LeadHandler handles persisted-lead HTTP requests.
type LeadHandler struct {
	repo      domain.LeadRepository
	validator *validator.Validator
	logger    *zap.Logger
}

// NewLeadHandler creates a new LeadHandler.
func NewLeadHandler(repo domain.LeadRepository, v *validator.Validator, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{
		repo:      repo,
		validator: v,
		logger:    logger,
	}
}

// List handles GET /api/v1/leads
func (h *LeadHandler) List(c *fiber.Ctx) error {
	var req dto.LeadListRequest
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

	list, err := h.repo.List(c.Context(), req.ToListParams())
	if err != nil {
		h.logger.Error("listing leads failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "listing leads failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.FromLeadList(list))
}
