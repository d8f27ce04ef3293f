package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vwgov/hr-signals/internal/domain"
	"github.com/vwgov/hr-signals/pkg/util"
)

// fileTicketStore persists the collection as a single JSON document. Writes
// go to a temp file in the same directory and are renamed into place, so a
// crash mid-write never leaves the store readable as corrupted.
type fileTicketStore struct {
	path string
}

// NewFileTicketStore creates a file-backed store at the given path, creating
// parent directories as needed.
func NewFileTicketStore(path string) (TicketStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &fileTicketStore{path: path}, nil
}

func (s *fileTicketStore) Load(_ context.Context) ([]domain.Ticket, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		// store not created yet: a normal empty collection, not corruption
		return []domain.Ticket{}, nil
	}
	if err != nil {
		return nil, util.NewStorageCorruption(err)
	}

	var tickets []domain.Ticket
	if err := json.Unmarshal(data, &tickets); err != nil {
		return nil, util.NewStorageCorruption(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

func (s *fileTicketStore) Replace(_ context.Context, tickets []domain.Ticket) error {
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	data, err := json.MarshalIndent(tickets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tickets-*.json")
	if err != nil {
		return fmt.Errorf("create temp store: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}
