package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report-service/internal/service"
)

// AnalyticsHandler serves summary statistics.
type AnalyticsHandler struct {
	service *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: analyticsService}
}

// Summary GET /analytics/summary.
func (h *AnalyticsHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summarize(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
