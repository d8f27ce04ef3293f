package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vwgov/hr-signals/internal/domain"
	"github.com/vwgov/hr-signals/pkg/util"
)

// postgresTicketStore keeps the whole-collection contract on top of pgx:
// Load selects every row, Replace rewrites the table in one transaction.
type postgresTicketStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketStore instantiates the store over a pgx pool.
func NewPostgresTicketStore(pool *pgxpool.Pool) TicketStore {
	return &postgresTicketStore{pool: pool}
}

func (s *postgresTicketStore) Load(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, employee_id, employee_name, department, manager, position, hire_date,
               categories, message, urgency, status, assigned_to, resolution_notes,
               created_at, resolved_at, conversation_id
        FROM emergency_tickets
        ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, util.NewStorageCorruption(err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (s *postgresTicketStore) Replace(ctx context.Context, tickets []domain.Ticket) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM emergency_tickets`); err != nil {
		return fmt.Errorf("clear tickets: %w", err)
	}

	const insert = `
        INSERT INTO emergency_tickets (id, employee_id, employee_name, department, manager,
            position, hire_date, categories, message, urgency, status, assigned_to,
            resolution_notes, created_at, resolved_at, conversation_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`
	for i := range tickets {
		ticket := &tickets[i]
		if _, err := tx.Exec(ctx, insert,
			ticket.ID,
			ticket.EmployeeID,
			ticket.EmployeeName,
			ticket.Department,
			ticket.Manager,
			ticket.Position,
			ticket.HireDate,
			categoryStrings(ticket.Categories),
			ticket.Message,
			ticket.Urgency,
			ticket.Status,
			ticket.AssignedTo,
			ticket.ResolutionNotes,
			ticket.CreatedAt,
			ticket.ResolvedAt,
			ticket.ConversationID,
		); err != nil {
			return fmt.Errorf("insert ticket %s: %w", ticket.ID, err)
		}
	}
	return tx.Commit(ctx)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		var categories []string
		var urgency, status string
		if err := rows.Scan(
			&ticket.ID,
			&ticket.EmployeeID,
			&ticket.EmployeeName,
			&ticket.Department,
			&ticket.Manager,
			&ticket.Position,
			&ticket.HireDate,
			&categories,
			&ticket.Message,
			&urgency,
			&status,
			&ticket.AssignedTo,
			&ticket.ResolutionNotes,
			&ticket.CreatedAt,
			&ticket.ResolvedAt,
			&ticket.ConversationID,
		); err != nil {
			return nil, util.NewStorageCorruption(err)
		}
		ticket.Urgency = domain.TicketUrgency(urgency)
		ticket.Status = domain.TicketStatus(status)
		ticket.Categories = make([]domain.RedFlagCategory, 0, len(categories))
		for _, c := range categories {
			ticket.Categories = append(ticket.Categories, domain.RedFlagCategory(c))
		}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, util.NewStorageCorruption(err)
	}
	return result, nil
}

func categoryStrings(categories []domain.RedFlagCategory) []string {
	out := make([]string, 0, len(categories))
	for _, c := range categories {
		out = append(out, string(c))
	}
	return out
}
