package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vwgov/hr-signals/internal/api/dto"
	"github.com/vwgov/hr-signals/internal/auth"
	"github.com/vwgov/hr-signals/internal/domain"
	"github.com/vwgov/hr-signals/internal/service"
	apperrors "github.com/vwgov/hr-signals/pkg/util"
)

// TicketsHandler manages emergency ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	input := service.TicketCreateInput{
		Employee: domain.EmployeeContext{
			ID:             req.EmployeeID,
			Name:           req.EmployeeName,
			Department:     req.Department,
			Manager:        req.Manager,
			Position:       req.Position,
			HireDate:       req.HireDate,
			ConversationID: req.ConversationID,
		},
		Categories: req.Categories,
		Message:    req.Message,
		Urgency:    req.Urgency,
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": ticket})
}

// ListTickets GET /tickets?status=.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	var statusFilter *domain.TicketStatus
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := domain.TicketStatus(strings.ToUpper(raw))
		switch status {
		case domain.TicketStatusOpen, domain.TicketStatusInProgress, domain.TicketStatusResolved, domain.TicketStatusEscalated:
			statusFilter = &status
		default:
			return apperrors.NewValidationError("unknown status filter", map[string]any{"status": raw})
		}
	}

	tickets, err := h.service.ListTickets(c.UserContext(), statusFilter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": tickets})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	similar, err := h.service.SimilarTickets(c.UserContext(), ticket.ID, 5)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TicketDetailResponse{
		Ticket:           *ticket,
		PolicyReferences: service.PolicyReferences(ticket.Categories),
		SimilarTickets:   similar,
	}})
}

// UpdateStatus POST /tickets/:id/status.
func (h *TicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	operator := req.Operator
	if principal, ok := auth.PrincipalFromContext(c); ok && operator == "" {
		operator = principal.OperatorName
	}

	ticket, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), service.StatusUpdateInput{
		NewStatus:         req.Status,
		Operator:          operator,
		Notes:             req.Notes,
		ConfirmEscalation: req.ConfirmEscalation,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticket})
}

// GetAnalytics GET /tickets/analytics.
func (h *TicketsHandler) GetAnalytics(c *fiber.Ctx) error {
	analytics, err := h.service.GetAnalytics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": analytics})
}
