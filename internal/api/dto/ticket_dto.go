package dto

import (
	"github.com/vwgov/hr-signals/internal/domain"
)

// ScanMessageRequest payload for red-flag detection.
type ScanMessageRequest struct {
	Message    string `json:"message"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// ScanMessageResponse carries the detection outcome.
type ScanMessageResponse struct {
	Flagged        bool                                `json:"flagged"`
	Categories     []domain.RedFlagCategory            `json:"categories"`
	MatchedPhrases map[domain.RedFlagCategory][]string `json:"matched_phrases"`
}

// CreateTicketRequest payload. Employee fields mirror the persisted schema.
type CreateTicketRequest struct {
	EmployeeID     string                   `json:"employee_id"`
	EmployeeName   string                   `json:"employee_name"`
	Department     string                   `json:"department"`
	Manager        string                   `json:"manager"`
	Position       string                   `json:"position"`
	HireDate       string                   `json:"hire_date"`
	ConversationID *string                  `json:"conversation_id"`
	Categories     []domain.RedFlagCategory `json:"categories"`
	Message        string                   `json:"message"`
	Urgency        domain.TicketUrgency     `json:"urgency"`
}

// UpdateStatusRequest payload for operator transitions.
type UpdateStatusRequest struct {
	Status            domain.TicketStatus `json:"status"`
	Operator          string              `json:"operator,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	ConfirmEscalation bool                `json:"confirm_escalation,omitempty"`
}

// TicketDetailResponse adds derived context to a ticket.
type TicketDetailResponse struct {
	Ticket           domain.Ticket   `json:"ticket"`
	PolicyReferences []string        `json:"policy_references"`
	SimilarTickets   []domain.Ticket `json:"similar_tickets"`
}
