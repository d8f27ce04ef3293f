package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vwgov/hr-signals/internal/domain"
	"github.com/vwgov/hr-signals/internal/events"
	"github.com/vwgov/hr-signals/internal/observability"
	"github.com/vwgov/hr-signals/internal/repository"
	"github.com/vwgov/hr-signals/pkg/util"
)

// TicketService owns the emergency ticket lifecycle. Every mutation is an
// atomic load-mutate-replace over the whole collection, serialized by mu;
// reads load a consistent snapshot and may run concurrently with a write.
type TicketService struct {
	mu         sync.Mutex
	store      repository.TicketStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.TicketStore
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Employee   domain.EmployeeContext
	Categories []domain.RedFlagCategory
	Message    string
	Urgency    domain.TicketUrgency
}

// StatusUpdateInput describes an operator status update. Operator is required
// for assignment, Notes for resolution, and ConfirmEscalation for escalation.
type StatusUpdateInput struct {
	NewStatus         domain.TicketStatus
	Operator          string
	Notes             string
	ConfirmEscalation bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		now:        time.Now,
	}
}

// CreateTicket opens a new ticket. Tickets are always created OPEN; the
// detector (or a manual operator request) is the caller, so detection is not
// re-run here.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	if len(input.Categories) == 0 {
		return nil, util.NewValidationError("at least one category is required", nil)
	}
	for _, category := range input.Categories {
		if !category.Valid() {
			return nil, util.NewValidationError("unknown category", map[string]any{"category": string(category)})
		}
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, util.NewValidationError("message is required", nil)
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = domain.TicketUrgencyHigh
	}
	switch urgency {
	case domain.TicketUrgencyLow, domain.TicketUrgencyMedium, domain.TicketUrgencyHigh, domain.TicketUrgencyCritical:
	default:
		return nil, util.NewValidationError("unknown urgency", map[string]any{"urgency": string(urgency)})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	ticket := domain.Ticket{
		ID:             s.generateTicketID(tickets),
		EmployeeID:     orUnknown(input.Employee.ID),
		EmployeeName:   orUnknown(input.Employee.Name),
		Department:     orUnknown(input.Employee.Department),
		Manager:        orUnknown(input.Employee.Manager),
		Position:       orUnknown(input.Employee.Position),
		HireDate:       orUnknown(input.Employee.HireDate),
		Categories:     input.Categories,
		Message:        strings.TrimSpace(input.Message),
		Urgency:        urgency,
		Status:         domain.TicketStatusOpen,
		CreatedAt:      s.now(),
		ConversationID: input.Employee.ConversationID,
	}

	if err := s.store.Replace(ctx, append(tickets, ticket)); err != nil {
		return nil, err
	}

	s.metrics.RecordTicketCreated(string(urgency))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Department: ticket.Department,
			Categories: ticket.Categories,
			Urgency:    ticket.Urgency,
		},
	})
	return &ticket, nil
}

// UpdateStatus applies an operator transition. Legal edges:
// OPEN -> IN_PROGRESS (assign), OPEN|IN_PROGRESS -> RESOLVED (resolve with
// notes), OPEN|IN_PROGRESS -> ESCALATED (confirmed escalation). RESOLVED and
// ESCALATED are terminal; anything else fails validation with no mutation.
func (s *TicketService) UpdateStatus(ctx context.Context, ticketID string, input StatusUpdateInput) (*domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexByID(tickets, ticketID)
	if idx < 0 {
		return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	ticket := tickets[idx]

	if ticket.Status.IsTerminal() {
		return nil, util.NewValidationError("ticket is in a terminal status", map[string]any{
			"id":     ticket.ID,
			"status": string(ticket.Status),
		})
	}

	oldStatus := ticket.Status
	switch input.NewStatus {
	case domain.TicketStatusInProgress:
		if oldStatus != domain.TicketStatusOpen {
			return nil, transitionError(oldStatus, input.NewStatus)
		}
		operator := strings.TrimSpace(input.Operator)
		if operator == "" {
			return nil, util.NewValidationError("operator is required for assignment", nil)
		}
		ticket.Status = domain.TicketStatusInProgress
		ticket.AssignedTo = &operator
	case domain.TicketStatusResolved:
		notes := strings.TrimSpace(input.Notes)
		if notes == "" {
			return nil, util.NewValidationError("resolution notes are required", nil)
		}
		resolvedAt := s.now()
		ticket.Status = domain.TicketStatusResolved
		ticket.ResolutionNotes = &notes
		ticket.ResolvedAt = &resolvedAt
	case domain.TicketStatusEscalated:
		if !input.ConfirmEscalation {
			return nil, util.NewValidationError("escalation requires explicit confirmation", nil)
		}
		ticket.Status = domain.TicketStatusEscalated
	default:
		return nil, transitionError(oldStatus, input.NewStatus)
	}

	tickets[idx] = ticket
	if err := s.store.Replace(ctx, tickets); err != nil {
		return nil, err
	}

	s.metrics.RecordTicketTransition(string(oldStatus), string(ticket.Status))
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: ticket.ID,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
			Operator:  input.Operator,
		},
	})
	return &ticket, nil
}

// GetTicket fetches a single ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	tickets, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexByID(tickets, ticketID)
	if idx < 0 {
		return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	ticket := tickets[idx]
	return &ticket, nil
}

// ListTickets returns tickets, optionally filtered by status, most recent
// first. Consumers rely on the created_at descending order.
func (s *TicketService) ListTickets(ctx context.Context, statusFilter *domain.TicketStatus) ([]domain.Ticket, error) {
	tickets, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]domain.Ticket, 0, len(tickets))
	for _, ticket := range tickets {
		if statusFilter != nil && ticket.Status != *statusFilter {
			continue
		}
		filtered = append(filtered, ticket)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// SimilarTickets returns up to limit other tickets sharing at least one
// category with the given ticket.
func (s *TicketService) SimilarTickets(ctx context.Context, ticketID string, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 5
	}
	tickets, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := indexByID(tickets, ticketID)
	if idx < 0 {
		return nil, util.NewNotFound("ticket", map[string]any{"id": ticketID})
	}
	target := tickets[idx]

	similar := []domain.Ticket{}
	for _, candidate := range tickets {
		if candidate.ID == target.ID || !candidate.SharesCategory(&target) {
			continue
		}
		similar = append(similar, candidate)
		if len(similar) == limit {
			break
		}
	}
	return similar, nil
}

// GetAnalytics computes the read-side summary over the full collection.
// Average resolution time is in hours over resolved tickets only.
func (s *TicketService) GetAnalytics(ctx context.Context) (*domain.TicketAnalytics, error) {
	tickets, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}

	analytics := &domain.TicketAnalytics{
		Total:        len(tickets),
		ByCategory:   map[domain.RedFlagCategory]int{},
		ByDepartment: map[string]int{},
		ByUrgency:    map[domain.TicketUrgency]int{},
	}

	var resolutionHours []float64
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusOpen:
			analytics.Open++
		case domain.TicketStatusResolved:
			analytics.Resolved++
		}
		for _, category := range ticket.Categories {
			analytics.ByCategory[category]++
		}
		analytics.ByDepartment[ticket.Department]++
		analytics.ByUrgency[ticket.Urgency]++

		if ticket.Status == domain.TicketStatusResolved && ticket.ResolvedAt != nil {
			resolutionHours = append(resolutionHours, ticket.ResolvedAt.Sub(ticket.CreatedAt).Hours())
		}
	}
	if len(resolutionHours) > 0 {
		var sum float64
		for _, h := range resolutionHours {
			sum += h
		}
		analytics.AvgResolutionTimeHours = sum / float64(len(resolutionHours))
	}
	return analytics, nil
}

var policyReferences = map[domain.RedFlagCategory][]string{
	domain.CategoryHarassment:     {"Anti-Harassment Policy", "Code of Conduct", "Workplace Behavior Guidelines"},
	domain.CategorySafety:         {"Safety Procedures", "Emergency Response Plan", "Incident Reporting Policy"},
	domain.CategoryDiscrimination: {"Equal Employment Opportunity Policy", "Anti-Discrimination Policy"},
	domain.CategoryLegal:          {"Compliance Guidelines", "Legal Reporting Procedures"},
	domain.CategoryEthics:         {"Ethics Policy", "Confidentiality Agreement", "Conflict of Interest Policy"},
}

// PolicyReferences lists relevant policy document names for a category set,
// deduplicated, in category order.
func PolicyReferences(categories []domain.RedFlagCategory) []string {
	seen := map[string]struct{}{}
	policies := []string{}
	for _, category := range categories {
		for _, policy := range policyReferences[category] {
			if _, ok := seen[policy]; ok {
				continue
			}
			seen[policy] = struct{}{}
			policies = append(policies, policy)
		}
	}
	return policies
}

// generateTicketID builds an HR-<timestamp> id. Same-instant creations get a
// deterministic numeric suffix so ids stay unique across the store.
func (s *TicketService) generateTicketID(existing []domain.Ticket) string {
	stamp := s.now().Format("20060102150405")
	id := "HR-" + stamp
	for seq := 2; idExists(existing, id); seq++ {
		id = fmt.Sprintf("HR-%s-%d", stamp, seq)
	}
	return id
}

func idExists(tickets []domain.Ticket, id string) bool {
	return indexByID(tickets, id) >= 0
}

func indexByID(tickets []domain.Ticket, id string) int {
	for i := range tickets {
		if tickets[i].ID == id {
			return i
		}
	}
	return -1
}

func transitionError(from, to domain.TicketStatus) error {
	return util.NewValidationError("illegal status transition", map[string]any{
		"from": string(from),
		"to":   string(to),
	})
}

func orUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Unknown"
	}
	return value
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
