package domain

import "time"

// TicketStatus enumerates lifecycle states for emergency tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusInProgress TicketStatus = "IN_PROGRESS"
	TicketStatusResolved   TicketStatus = "RESOLVED"
	TicketStatusEscalated  TicketStatus = "ESCALATED"
)

// IsTerminal reports whether no further transition is defined from the status.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusEscalated
}

// TicketUrgency enumerates urgency levels chosen at submission time.
type TicketUrgency string

const (
	TicketUrgencyLow      TicketUrgency = "Low"
	TicketUrgencyMedium   TicketUrgency = "Medium"
	TicketUrgencyHigh     TicketUrgency = "High"
	TicketUrgencyCritical TicketUrgency = "Critical"
)

// EmployeeContext carries directory fields captured on the ticket at creation.
// The employee directory itself is an external collaborator.
type EmployeeContext struct {
	ID             string
	Name           string
	Department     string
	Manager        string
	Position       string
	HireDate       string
	ConversationID *string
}

// Ticket is the aggregate for tracked HR incidents. The JSON field set is the
// persisted wire schema shared with collaborator tooling and must not drift.
type Ticket struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	EmployeeName    string            `json:"employee_name"`
	Department      string            `json:"department"`
	Manager         string            `json:"manager"`
	Position        string            `json:"position"`
	HireDate        string            `json:"hire_date"`
	Categories      []RedFlagCategory `json:"categories"`
	Message         string            `json:"message"`
	Urgency         TicketUrgency     `json:"urgency"`
	Status          TicketStatus      `json:"status"`
	AssignedTo      *string           `json:"assigned_to"`
	ResolutionNotes *string           `json:"resolution_notes"`
	CreatedAt       time.Time         `json:"created_at"`
	ResolvedAt      *time.Time        `json:"resolved_at"`
	ConversationID  *string           `json:"conversation_id"`
}

// SharesCategory reports whether the two tickets have a category in common.
func (t *Ticket) SharesCategory(other *Ticket) bool {
	for _, c := range t.Categories {
		for _, o := range other.Categories {
			if c == o {
				return true
			}
		}
	}
	return false
}

// TicketAnalytics is the read-side summary computed over the ticket collection.
type TicketAnalytics struct {
	Total                  int                     `json:"total"`
	Open                   int                     `json:"open"`
	Resolved               int                     `json:"resolved"`
	ByCategory             map[RedFlagCategory]int `json:"by_category"`
	ByDepartment           map[string]int          `json:"by_department"`
	ByUrgency              map[TicketUrgency]int   `json:"by_urgency"`
	AvgResolutionTimeHours float64                 `json:"avg_resolution_time"`
}
