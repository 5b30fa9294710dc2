package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pickup-rsvp/internal/models"
	"pickup-rsvp/internal/table"
)

// ErrUnknownDirection means a message was logged with an invalid direction
var ErrUnknownDirection = errors.New("direction unknown")

// MessageLog appends every received and sent message to its own table
type MessageLog struct {
	store       table.Store
	inboundRef  string
	outboundRef string
	now         func() time.Time
}

// NewMessageLog creates a message log writing to the inbound and outbound tables
func NewMessageLog(store table.Store, inboundRef, outboundRef string, now func() time.Time) *MessageLog {
	if now == nil {
		now = time.Now
	}
	return &MessageLog{
		store:       store,
		inboundRef:  inboundRef,
		outboundRef: outboundRef,
		now:         now,
	}
}

// Log appends one row of phone, timestamp and body to the table for direction
func (l *MessageLog) Log(ctx context.Context, phone, body string, direction models.Direction) error {
	var ref string
	switch direction {
	case models.Inbound:
		ref = l.inboundRef
	case models.Outbound:
		ref = l.outboundRef
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	}

	entry := models.MessageLogEntry{
		Phone:     phone,
		Timestamp: l.now(),
		Body:      body,
		Direction: direction,
	}
	if err := l.store.Append(ctx, ref, [][]string{entry.Row()}); err != nil {
		return fmt.Errorf("failed to log %s message: %w", direction, err)
	}
	return nil
}
