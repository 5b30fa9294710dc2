package storage

import (
	"context"
	"fmt"
	"sync"

	"pickup-rsvp/internal/models"
	"pickup-rsvp/internal/table"

	"github.com/rs/zerolog"
)

// RSVP table columns
const (
	colPlayer = iota
	colDate
	colStatus
)

// Ledger reads and writes the RSVP table: player, date, status, with a
// header row. There is at most one row per player and date.
type Ledger struct {
	store table.Store
	ref   string
	log   zerolog.Logger

	// mu serialises SaveRSVP within this process only. Other writers of the
	// same table can still interleave between the lookup and the write.
	mu sync.Mutex
}

// NewLedger creates a ledger for the table at ref
func NewLedger(store table.Store, ref string, logger zerolog.Logger) *Ledger {
	return &Ledger{
		store: store,
		ref:   ref,
		log:   logger.With().Str("component", "ledger").Logger(),
	}
}

// GetRSVPs returns the YES and NO respondents for date
func (l *Ledger) GetRSVPs(ctx context.Context, date string) (*models.RSVPSummary, error) {
	rows, err := l.store.Get(ctx, l.ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read rsvps: %w", err)
	}

	summary := models.NewRSVPSummary(date)
	if len(rows) <= 1 {
		return summary, nil
	}

	for _, row := range rows[1:] {
		if table.Cell(row, colDate) != date {
			continue
		}
		status, ok := models.ParseRSVPStatus(table.Cell(row, colStatus))
		if !ok {
			l.log.Warn().
				Str("player", table.Cell(row, colPlayer)).
				Str("date", date).
				Str("status", table.Cell(row, colStatus)).
				Msg("Skipping RSVP row with unknown status")
			continue
		}
		summary.Set(table.Cell(row, colPlayer), status)
	}
	return summary, nil
}

// FindRSVPRow returns the 1-indexed sheet row for the player and date
func (l *Ledger) FindRSVPRow(ctx context.Context, playerName, date string) (int, bool, error) {
	rows, err := l.store.Get(ctx, l.ref)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read rsvps: %w", err)
	}

	for i, row := range rows {
		if table.Cell(row, colPlayer) == playerName && table.Cell(row, colDate) == date {
			n, err := rowNumber(l.ref, i)
			if err != nil {
				return 0, false, err
			}
			return n, true, nil
		}
	}
	return 0, false, nil
}

// SaveRSVP records status for the player and date, overwriting the existing
// row for that pair or appending a new one.
//
// The lookup and the write are separate calls against the store, so two
// processes saving the same pair at once can both append.
func (l *Ledger) SaveRSVP(ctx context.Context, playerName string, status models.RSVPStatus, date string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	row, found, err := l.FindRSVPRow(ctx, playerName, date)
	if err != nil {
		return err
	}

	values := [][]string{{playerName, date, string(status)}}
	if found {
		ref, err := table.RowRef(l.ref, row)
		if err != nil {
			return err
		}
		if err := l.store.Update(ctx, ref, values); err != nil {
			return fmt.Errorf("failed to update rsvp: %w", err)
		}
		l.log.Debug().Str("player", playerName).Str("date", date).Int("row", row).Msg("Updated RSVP")
		return nil
	}

	if err := l.store.Append(ctx, l.ref, values); err != nil {
		return fmt.Errorf("failed to append rsvp: %w", err)
	}
	l.log.Debug().Str("player", playerName).Str("date", date).Msg("Appended RSVP")
	return nil
}
