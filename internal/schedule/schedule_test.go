package schedule

import (
	"testing"
	"time"
	_ "time/tzdata"
)

func TestNextEventDate(t *testing.T) {
	eastern, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"saturday is today", time.Date(2026, 10, 17, 7, 0, 0, 0, eastern), "10/17/2026"},
		{"late saturday is still today", time.Date(2026, 10, 17, 23, 59, 0, 0, eastern), "10/17/2026"},
		{"sunday wraps the week", time.Date(2026, 10, 18, 9, 0, 0, 0, eastern), "10/24/2026"},
		{"wednesday", time.Date(2026, 10, 14, 12, 0, 0, 0, eastern), "10/17/2026"},
		{"friday", time.Date(2026, 10, 16, 12, 0, 0, 0, eastern), "10/17/2026"},
		{"month boundary", time.Date(2026, 10, 26, 12, 0, 0, 0, eastern), "10/31/2026"},
		{"year boundary", time.Date(2026, 12, 27, 12, 0, 0, 0, eastern), "01/02/2027"},
		// 03:00 UTC on Sunday is still Saturday evening in New York.
		{"uses event timezone", time.Date(2026, 10, 18, 3, 0, 0, 0, time.UTC), "10/17/2026"},
	}

	base := New(eastern, time.Saturday)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now := tt.now
			s := base.WithClock(func() time.Time { return now })
			if got := s.NextEventDate(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestNextEventDateIsWithinAWeek(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 14; i++ {
		now := start.AddDate(0, 0, i)
		s := New(time.UTC, time.Saturday).WithClock(func() time.Time { return now })

		day := s.NextEventDay()
		if day.Weekday() != time.Saturday {
			t.Errorf("%s: expected a Saturday, got %s", now.Format(DateLayout), day.Weekday())
		}
		ahead := int(day.Sub(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)).Hours() / 24)
		if ahead < 0 || ahead > 6 {
			t.Errorf("%s: next event is %d days ahead", now.Format(DateLayout), ahead)
		}
		if (now.Weekday() == time.Saturday) != (ahead == 0) {
			t.Errorf("%s: only Saturdays should map to today, got %d days ahead", now.Format(DateLayout), ahead)
		}
	}
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{
		"Saturday": time.Saturday,
		"sat":      time.Saturday,
		" Sunday ": time.Sunday,
		"WED":      time.Wednesday,
	} {
		got, err := ParseWeekday(in)
		if err != nil {
			t.Errorf("ParseWeekday(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("ParseWeekday(%q) = %s, expected %s", in, got, want)
		}
	}

	if _, err := ParseWeekday("someday"); err == nil {
		t.Error("Expected error for unknown weekday")
	}
}
