package storage

import (
	"time"

	"pickup-rsvp/internal/table"

	"github.com/rs/zerolog"
)

// Ranges names the A1 ranges of every table the bot reads or writes
type Ranges struct {
	Roster      string
	RSVPs       string
	InboundLog  string
	OutboundLog string
}

// Storage groups the roster, the RSVP ledger and the message log, all kept in
// the same table store
type Storage struct {
	Roster   *Roster
	RSVPs    *Ledger
	Messages *MessageLog
}

// Options tune how the tables are interpreted
type Options struct {
	// BetaOnly restricts the active roster to rows flagged as beta testers
	BetaOnly bool
	// Location is used for message log timestamps
	Location *time.Location
	Logger   zerolog.Logger
}

// NewStorage creates a new storage instance over store
func NewStorage(store table.Store, ranges Ranges, opts Options) *Storage {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	return &Storage{
		Roster:   NewRoster(store, ranges.Roster, opts.BetaOnly),
		RSVPs:    NewLedger(store, ranges.RSVPs, opts.Logger),
		Messages: NewMessageLog(store, ranges.InboundLog, ranges.OutboundLog, func() time.Time { return time.Now().In(loc) }),
	}
}

// rowNumber converts an index into the rows returned for ref into the
// 1-indexed sheet row
func rowNumber(ref string, index int) (int, error) {
	r, err := table.ParseRange(ref)
	if err != nil {
		return 0, err
	}
	return r.StartRow + index, nil
}
