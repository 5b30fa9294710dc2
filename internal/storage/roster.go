package storage

import (
	"context"
	"fmt"
	"strings"

	"pickup-rsvp/internal/models"
	"pickup-rsvp/internal/table"
)

// Roster table columns
const (
	colName = iota
	colPhone
	colActive
	colBeta
)

// Roster reads the players table: name, phone, active flag and an optional
// beta flag, with a header row
type Roster struct {
	store    table.Store
	ref      string
	betaOnly bool
}

// NewRoster creates a roster reader for the table at ref
func NewRoster(store table.Store, ref string, betaOnly bool) *Roster {
	return &Roster{store: store, ref: ref, betaOnly: betaOnly}
}

// NormalizePhone keeps only the ASCII digits of a phone number. Spreadsheet
// cells sometimes carry invisible unicode marks around the number.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// All returns every roster entry below the header, active or not
func (r *Roster) All(ctx context.Context) ([]models.RosterEntry, error) {
	rows, err := r.store.Get(ctx, r.ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}
	if len(rows) <= 1 {
		return []models.RosterEntry{}, nil
	}

	entries := make([]models.RosterEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) <= colActive {
			continue
		}
		entries = append(entries, models.RosterEntry{
			Name:   table.Cell(row, colName),
			Phone:  NormalizePhone(table.Cell(row, colPhone)),
			Active: table.Cell(row, colActive) == models.FlagYes,
			Beta:   table.Cell(row, colBeta) == models.FlagYes,
		})
	}
	return entries, nil
}

// GetActiveRoster returns the active players as a phone to name map
func (r *Roster) GetActiveRoster(ctx context.Context) (map[string]string, error) {
	entries, err := r.All(ctx)
	if err != nil {
		return nil, err
	}

	players := make(map[string]string)
	for _, e := range entries {
		if !e.Active || e.Phone == "" {
			continue
		}
		if r.betaOnly && !e.Beta {
			continue
		}
		players[e.Phone] = e.Name
	}
	return players, nil
}

// FindRow returns the 1-indexed sheet row holding phone. The table is read
// again on every call.
func (r *Roster) FindRow(ctx context.Context, phone string) (int, bool, error) {
	phone = NormalizePhone(phone)
	if phone == "" {
		return 0, false, nil
	}

	rows, err := r.store.Get(ctx, r.ref)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read roster: %w", err)
	}

	for i, row := range rows {
		if NormalizePhone(table.Cell(row, colPhone)) == phone {
			n, err := rowNumber(r.ref, i)
			if err != nil {
				return 0, false, err
			}
			return n, true, nil
		}
	}
	return 0, false, nil
}

// SetActive writes the active flag of the player with phone. Unknown phones
// are ignored.
func (r *Roster) SetActive(ctx context.Context, phone string, active bool) error {
	row, found, err := r.FindRow(ctx, phone)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	rng, err := table.ParseRange(r.ref)
	if err != nil {
		return err
	}
	flag := models.FlagNo
	if active {
		flag = models.FlagYes
	}

	cell := rng.Cell(rng.StartCol+colActive, row).String()
	if err := r.store.Update(ctx, cell, [][]string{{flag}}); err != nil {
		return fmt.Errorf("failed to update active flag: %w", err)
	}
	return nil
}
