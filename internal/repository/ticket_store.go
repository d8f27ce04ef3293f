package repository

import (
	"context"

	"github.com/vwgov/hr-signals/internal/domain"
)

// TicketStore is the durable ticket collection. The core treats the store as
// a value: every read loads the full collection and every mutation replaces
// it whole, so no reader can observe a torn write. Implementations must make
// Replace atomic.
type TicketStore interface {
	// Load returns the full ticket collection. A store that does not exist
	// yet is a normal empty collection; an unreadable or malformed store is
	// a StorageCorruption error.
	Load(ctx context.Context) ([]domain.Ticket, error)
	// Replace atomically swaps the persisted collection for the given one.
	Replace(ctx context.Context, tickets []domain.Ticket) error
}
