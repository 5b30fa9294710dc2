package models

import "time"

// Direction tells whether a message was received or sent
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// TimestampLayout is the format used in the message log tables
const TimestampLayout = "01/02/2006, 15:04:05"

// MessageLogEntry represents one row of the message audit trail
type MessageLogEntry struct {
	Phone     string
	Timestamp time.Time
	Body      string
	Direction Direction
}

// Row returns the cells written to the log table
func (e MessageLogEntry) Row() []string {
	return []string{e.Phone, e.Timestamp.Format(TimestampLayout), e.Body}
}
