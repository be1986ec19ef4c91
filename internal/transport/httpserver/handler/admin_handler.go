package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"channel-prospector/internal/app/service"
	"channel-prospector/internal/transport/httpserver/dto"
)

// AdminHandler handles operational endpoints.
type AdminHandler struct {
	service *service.AnalysisService
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc *service.AnalysisService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: svc,
		logger:  logger,
	}
}

// ClearCache handles POST /api/v1/admin/cache/clear
func (h *AdminHandler) ClearCache(c *fiber.Ctx) error {
	if err := h.service.ClearCache(c.Context()); err != nil {
		h.logger.Error("cache clear failed", zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "cache clear failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(fiber.Map{"status": "cleared"})
}

// Refresh handles POST /api/v1/admin/refresh
func (h *AdminHandler) Refresh(c *fiber.Ctx) error {
	refreshed, err := h.service.RefreshLeads(c.Context())
	if err != nil {
		h.logger.Error("lead refresh failed", zap.Int("refreshed", refreshed), zap.Error(err))

		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: "lead refresh failed",
			Code:  "INTERNAL_ERROR",
		})
	}

	return c.JSON(dto.RefreshResponse{Refreshed: refreshed})
}
