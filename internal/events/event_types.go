package events

import (
	"time"

	"github.com/vwgov/hr-signals/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventRedFlagDetected     EventType = "red_flag_detected"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Department string                   `json:"department"`
	Categories []domain.RedFlagCategory `json:"categories"`
	Urgency    domain.TicketUrgency     `json:"urgency"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
	Operator  string              `json:"operator,omitempty"`
}

// RedFlagDetectedPayload payload. Carries matched categories only; the raw
// message stays out of the event stream.
type RedFlagDetectedPayload struct {
	Categories []domain.RedFlagCategory `json:"categories"`
	EmployeeID string                   `json:"employee_id,omitempty"`
}
