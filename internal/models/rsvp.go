package models

import "sort"

// RSVPStatus represents a player's answer for an event date
type RSVPStatus string

const (
	RSVPYes RSVPStatus = "YES"
	RSVPNo  RSVPStatus = "NO"
)

// ParseRSVPStatus reports whether s is a recorded status value
func ParseRSVPStatus(s string) (RSVPStatus, bool) {
	switch RSVPStatus(s) {
	case RSVPYes, RSVPNo:
		return RSVPStatus(s), true
	}
	return "", false
}

// RSVPRecord is one ledger row, keyed by PlayerName and EventDate
type RSVPRecord struct {
	PlayerName string     `json:"player_name"`
	EventDate  string     `json:"event_date"`
	Status     RSVPStatus `json:"status"`
}

// RSVPSummary holds the respondents for a single event date
type RSVPSummary struct {
	Date string
	Yes  map[string]struct{}
	No   map[string]struct{}
}

// NewRSVPSummary returns an empty summary for date
func NewRSVPSummary(date string) *RSVPSummary {
	return &RSVPSummary{
		Date: date,
		Yes:  make(map[string]struct{}),
		No:   make(map[string]struct{}),
	}
}

// Set places name in the bucket for status, removing it from the other one
func (s *RSVPSummary) Set(name string, status RSVPStatus) {
	delete(s.Yes, name)
	delete(s.No, name)
	switch status {
	case RSVPYes:
		s.Yes[name] = struct{}{}
	case RSVPNo:
		s.No[name] = struct{}{}
	}
}

// YesNames returns the YES respondents in sorted order
func (s *RSVPSummary) YesNames() []string {
	return sortedKeys(s.Yes)
}

// NoNames returns the NO respondents in sorted order
func (s *RSVPSummary) NoNames() []string {
	return sortedKeys(s.No)
}

func sortedKeys(m map[string]struct{}) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
