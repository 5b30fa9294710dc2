package models

// RosterEntry represents a player listed on the roster table
type RosterEntry struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Active bool   `json:"active"`
	Beta   bool   `json:"beta,omitempty"`
}

// Sentinel values used by the roster table's flag columns
const (
	FlagYes = "Yes"
	FlagNo  = "No"
)
