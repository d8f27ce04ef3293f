package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vwgov/hr-signals/internal/api/dto"
	"github.com/vwgov/hr-signals/internal/detector"
	"github.com/vwgov/hr-signals/internal/events"
	"github.com/vwgov/hr-signals/internal/observability"
	apperrors "github.com/vwgov/hr-signals/pkg/util"
)

// MessagesHandler scans free-text employee messages for red flags.
type MessagesHandler struct {
	detector   *detector.Detector
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(det *detector.Detector, dispatcher events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *MessagesHandler {
	return &MessagesHandler{detector: det, dispatcher: dispatcher, metrics: metrics, logger: logger}
}

// Scan POST /messages/scan.
func (h *MessagesHandler) Scan(c *fiber.Ctx) error {
	var req dto.ScanMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Message == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	result := h.detector.Detect(req.Message)
	for _, category := range result.Categories {
		h.metrics.RecordDetection(string(category))
	}
	if result.Flagged() && h.dispatcher != nil {
		_ = h.dispatcher.Publish(c.UserContext(), events.Event{
			ID:   uuid.NewString(),
			Type: events.EventRedFlagDetected,
			Payload: events.RedFlagDetectedPayload{
				Categories: result.Categories,
				EmployeeID: req.EmployeeID,
			},
		})
	}

	return c.JSON(fiber.Map{"data": dto.ScanMessageResponse{
		Flagged:        result.Flagged(),
		Categories:     result.Categories,
		MatchedPhrases: result.MatchedPhrases,
	}})
}
