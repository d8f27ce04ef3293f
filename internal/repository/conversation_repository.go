package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vwgov/hr-signals/internal/domain"
)

// ConversationReader is the read interface over the conversation log
// collaborator. The log itself (appends, retention) is owned elsewhere.
type ConversationReader interface {
	List(ctx context.Context, limit int) ([]domain.ConversationRecord, error)
}

// EmptyConversationReader serves deployments without a conversation log.
type EmptyConversationReader struct{}

// List returns an empty snapshot.
func (EmptyConversationReader) List(context.Context, int) ([]domain.ConversationRecord, error) {
	return []domain.ConversationRecord{}, nil
}

type conversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository reads conversation records from postgres.
func NewConversationRepository(pool *pgxpool.Pool) ConversationReader {
	return &conversationRepository{pool: pool}
}

func (r *conversationRepository) List(ctx context.Context, limit int) ([]domain.ConversationRecord, error) {
	if limit <= 0 {
		limit = 500
	}
	const query = `
        SELECT employee_id, employee_name, department, topic, sentiment_score,
               date_time, question, answer
        FROM conversations
        ORDER BY date_time DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.ConversationRecord{}
	for rows.Next() {
		var rec domain.ConversationRecord
		if err := rows.Scan(
			&rec.EmployeeID,
			&rec.EmployeeName,
			&rec.Department,
			&rec.Topic,
			&rec.SentimentScore,
			&rec.DateTime,
			&rec.Question,
			&rec.Answer,
		); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
