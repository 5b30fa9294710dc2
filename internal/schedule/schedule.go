// Package schedule works out which event date an RSVP belongs to.
package schedule

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the MM/DD/YYYY format used as the RSVP key
const DateLayout = "01/02/2006"

// Scheduler computes the date of the next weekly event
type Scheduler struct {
	location *time.Location
	weekday  time.Weekday
	now      func() time.Time
}

// New creates a scheduler for events held every weekday in loc
func New(loc *time.Location, weekday time.Weekday) *Scheduler {
	return &Scheduler{location: loc, weekday: weekday, now: time.Now}
}

// WithClock returns a copy of the scheduler that reads the time from now
func (s *Scheduler) WithClock(now func() time.Time) *Scheduler {
	c := *s
	c.now = now
	return &c
}

// Location returns the timezone the event dates are computed in
func (s *Scheduler) Location() *time.Location {
	return s.location
}

// NextEventDate returns today's date if the event is held today, otherwise
// the date of the next event day
func (s *Scheduler) NextEventDate() string {
	return s.NextEventDay().Format(DateLayout)
}

// NextEventDay is NextEventDate as a time at midnight in the scheduler's timezone
func (s *Scheduler) NextEventDay() time.Time {
	today := s.now().In(s.location)
	days := (int(s.weekday) - int(today.Weekday()) + 7) % 7
	return time.Date(today.Year(), today.Month(), today.Day()+days, 0, 0, 0, 0, s.location)
}

// ParseWeekday accepts full or three-letter English weekday names
func ParseWeekday(name string) (time.Weekday, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", name)
}
