package table

import (
	"context"
	"fmt"
	"sync"
)

// Memory is a Store kept in process memory
type Memory struct {
	mu     sync.RWMutex
	sheets map[string][][]string
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{sheets: make(map[string][][]string)}
}

// Seed replaces the contents of a sheet, starting at row 1
func (m *Memory) Seed(sheet string, rows [][]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	m.sheets[sheet] = copied
}

// Rows returns a copy of every row of a sheet
func (m *Memory) Rows(sheet string) [][]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rows := m.sheets[sheet]
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied
}

func (m *Memory) Get(ctx context.Context, ref string) ([][]string, error) {
	r, err := ParseRange(ref)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return window(m.sheets[r.Sheet], r), nil
}

func (m *Memory) Append(ctx context.Context, ref string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrEmptyRange
	}
	r, err := ParseRange(ref)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	sheet := m.sheets[r.Sheet]
	m.sheets[r.Sheet] = place(sheet, lastFilled(sheet, r.StartRow-1), r.StartCol-1, rows)
	return nil
}

func (m *Memory) Update(ctx context.Context, ref string, rows [][]string) error {
	if len(rows) == 0 {
		return ErrEmptyRange
	}
	r, err := ParseRange(ref)
	if err != nil {
		return err
	}
	if r.EndRow > 0 && r.EndRow-r.StartRow+1 < len(rows) {
		return fmt.Errorf("update of %d rows does not fit range %s", len(rows), ref)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sheets[r.Sheet] = place(m.sheets[r.Sheet], r.StartRow-1, r.StartCol-1, rows)
	return nil
}
