package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vwgov/hr-signals/internal/domain"
	"github.com/vwgov/hr-signals/pkg/util"
)

func newTestStore(t *testing.T) (TicketStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "emergency_tickets.json")
	store, err := NewFileTicketStore(path)
	require.NoError(t, err)
	return store, path
}

func sampleTicket(id string) domain.Ticket {
	return domain.Ticket{
		ID:           id,
		EmployeeID:   "EMP-001",
		EmployeeName: "Dana Reyes",
		Department:   "Operations",
		Manager:      "Kim Ortega",
		Position:     "Field Technician",
		HireDate:     "2021-04-12",
		Categories:   []domain.RedFlagCategory{domain.CategorySafety},
		Message:      "the pump room is unsafe",
		Urgency:      domain.TicketUrgencyHigh,
		Status:       domain.TicketStatusOpen,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestFileStoreMissingFileIsEmptyCollection(t *testing.T) {
	store, _ := newTestStore(t)

	tickets, err := store.Load(context.Background())

	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestFileStoreRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, []domain.Ticket{sampleTicket("HR-20250101120000")}))

	tickets, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "HR-20250101120000", tickets[0].ID)
	assert.Equal(t, domain.TicketStatusOpen, tickets[0].Status)
	assert.Equal(t, []domain.RedFlagCategory{domain.CategorySafety}, tickets[0].Categories)
}

func TestFileStoreCorruptFileIsReported(t *testing.T) {
	store, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := store.Load(context.Background())

	require.Error(t, err)
	assert.True(t, util.IsStorageCorruption(err))
}

func TestFileStoreReplaceLeavesNoTempFiles(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, []domain.Ticket{sampleTicket("HR-1")}))
	require.NoError(t, store.Replace(ctx, []domain.Ticket{sampleTicket("HR-1"), sampleTicket("HR-2")}))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name())
}

func TestFileStoreWireSchemaFieldNames(t *testing.T) {
	store, path := newTestStore(t)
	ctx := context.Background()

	ticket := sampleTicket("HR-20250101120000")
	notes := "spoke with facilities"
	resolved := ticket.CreatedAt.Add(2 * time.Hour)
	ticket.Status = domain.TicketStatusResolved
	ticket.ResolutionNotes = &notes
	ticket.ResolvedAt = &resolved
	require.NoError(t, store.Replace(ctx, []domain.Ticket{ticket}))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, field := range []string{
		`"id"`, `"employee_id"`, `"employee_name"`, `"department"`, `"manager"`,
		`"position"`, `"hire_date"`, `"categories"`, `"message"`, `"urgency"`,
		`"status"`, `"assigned_to"`, `"resolution_notes"`, `"created_at"`,
		`"resolved_at"`, `"conversation_id"`,
	} {
		assert.Contains(t, string(raw), field)
	}
}
