package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/vwgov/hr-signals/internal/service"
)

// InsightsHandler serves topic scores, alerts and risk signals.
type InsightsHandler struct {
	service       *service.InsightsService
	snapshotLimit int
}

// NewInsightsHandler constructs handler.
func NewInsightsHandler(insightsService *service.InsightsService, snapshotLimit int) *InsightsHandler {
	return &InsightsHandler{service: insightsService, snapshotLimit: snapshotLimit}
}

// TopicScores GET /insights/topics?limit=.
func (h *InsightsHandler) TopicScores(c *fiber.Ctx) error {
	scores, err := h.service.TopicScores(c.UserContext(), h.limit(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": scores})
}

// Alerts GET /insights/alerts?limit=.
func (h *InsightsHandler) Alerts(c *fiber.Ctx) error {
	alerts, err := h.service.Alerts(c.UserContext(), h.limit(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": alerts})
}

// RiskSignals GET /insights/risks?limit=.
func (h *InsightsHandler) RiskSignals(c *fiber.Ctx) error {
	report, err := h.service.RiskReport(c.UserContext(), h.limit(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": report})
}

func (h *InsightsHandler) limit(c *fiber.Ctx) int {
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return h.snapshotLimit
}
