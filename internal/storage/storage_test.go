package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"pickup-rsvp/internal/models"
	"pickup-rsvp/internal/table"

	"github.com/rs/zerolog"
)

var testRanges = Ranges{
	Roster:      "Roster!A1:D",
	RSVPs:       "RSVPs!A1:C",
	InboundLog:  "Received!A1:C",
	OutboundLog: "Sent!A1:C",
}

func newTestStorage(t *testing.T, betaOnly bool) (*Storage, *table.Memory) {
	t.Helper()

	mem := table.NewMemory()
	mem.Seed("Roster", [][]string{
		{"Name", "Phone", "Active", "Beta"},
		{"Alice", "15551234567", "Yes", "Yes"},
		{"Bob", "\u202a15557654321\u202c", "Yes"},
		{"Carol", "15550000000", "No", "Yes"},
		{"Short"},
	})
	mem.Seed("RSVPs", [][]string{{"Player", "Date", "Status"}})

	s := NewStorage(mem, testRanges, Options{BetaOnly: betaOnly, Logger: zerolog.Nop()})
	return s, mem
}

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"+15551234567":              "15551234567",
		"\u202a15551234567\u202c":   "15551234567",
		"+1 (555) 123-4567":         "15551234567",
		"whatsapp:+15551234567":     "15551234567",
		"":                          "",
		"\u0661\u0662\u0663 then 9": "9",
	}
	for in, want := range tests {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, expected %q", in, got, want)
		}
	}
}

func TestGetActiveRoster(t *testing.T) {
	s, _ := newTestStorage(t, false)

	got, err := s.Roster.GetActiveRoster(context.Background())
	if err != nil {
		t.Fatalf("GetActiveRoster: %v", err)
	}
	want := map[string]string{
		"15551234567": "Alice",
		"15557654321": "Bob",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGetActiveRosterBetaOnly(t *testing.T) {
	s, _ := newTestStorage(t, true)

	got, err := s.Roster.GetActiveRoster(context.Background())
	if err != nil {
		t.Fatalf("GetActiveRoster: %v", err)
	}
	if len(got) != 1 || got["15551234567"] != "Alice" {
		t.Errorf("Expected only Alice, got %v", got)
	}
}

func TestGetActiveRosterEmptyTable(t *testing.T) {
	s := NewStorage(table.NewMemory(), testRanges, Options{Logger: zerolog.Nop()})

	got, err := s.Roster.GetActiveRoster(context.Background())
	if err != nil {
		t.Fatalf("GetActiveRoster: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Expected empty roster, got %v", got)
	}
}

func TestFindRowAndSetActive(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStorage(t, false)

	row, found, err := s.Roster.FindRow(ctx, "15557654321")
	if err != nil {
		t.Fatalf("FindRow: %v", err)
	}
	if !found || row != 3 {
		t.Fatalf("Expected Bob on row 3, got row %d found %v", row, found)
	}

	if err := s.Roster.SetActive(ctx, "15557654321", false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if got := mem.Rows("Roster")[2][2]; got != "No" {
		t.Errorf("Expected active flag No, got %q", got)
	}

	roster, err := s.Roster.GetActiveRoster(ctx)
	if err != nil {
		t.Fatalf("GetActiveRoster: %v", err)
	}
	if _, ok := roster["15557654321"]; ok {
		t.Error("Bob should no longer be on the active roster")
	}
}

func TestSetActiveUnknownPhone(t *testing.T) {
	s, mem := newTestStorage(t, false)
	before := mem.Rows("Roster")

	if err := s.Roster.SetActive(context.Background(), "19999999999", false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if !reflect.DeepEqual(before, mem.Rows("Roster")) {
		t.Error("Roster should be unchanged for an unknown phone")
	}
}

func TestSaveRSVPIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestStorage(t, false)

	steps := []models.RSVPStatus{models.RSVPYes, models.RSVPYes, models.RSVPNo}
	for _, status := range steps {
		if err := s.RSVPs.SaveRSVP(ctx, "Alice", status, "10/17/2026"); err != nil {
			t.Fatalf("SaveRSVP(%s): %v", status, err)
		}
	}
	if err := s.RSVPs.SaveRSVP(ctx, "Alice", models.RSVPYes, "10/24/2026"); err != nil {
		t.Fatalf("SaveRSVP: %v", err)
	}

	want := [][]string{
		{"Player", "Date", "Status"},
		{"Alice", "10/17/2026", "NO"},
		{"Alice", "10/24/2026", "YES"},
	}
	if got := mem.Rows("RSVPs"); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestGetRSVPs(t *testing.T) {
	s, mem := newTestStorage(t, false)
	mem.Seed("RSVPs", [][]string{
		{"Player", "Date", "Status"},
		{"Carol", "10/17/2026", "YES"},
		{"Alice", "10/17/2026", "YES"},
		{"Bob", "10/17/2026", "NO"},
		{"Dave", "10/10/2026", "YES"},
		{"Erin", "10/17/2026", "MAYBE"},
		{"Bob", "10/17/2026", "YES"},
	})

	summary, err := s.RSVPs.GetRSVPs(context.Background(), "10/17/2026")
	if err != nil {
		t.Fatalf("GetRSVPs: %v", err)
	}
	if got := summary.YesNames(); !reflect.DeepEqual(got, []string{"Alice", "Bob", "Carol"}) {
		t.Errorf("Unexpected YES names: %v", got)
	}
	if got := summary.NoNames(); len(got) != 0 {
		t.Errorf("Expected no NO names after Bob's later YES, got %v", got)
	}
}

func TestMessageLog(t *testing.T) {
	ctx := context.Background()
	mem := table.NewMemory()
	now := time.Date(2026, 10, 14, 9, 5, 7, 0, time.UTC)
	log := NewMessageLog(mem, "Received!A1:C", "Sent!A1:C", func() time.Time { return now })

	if err := log.Log(ctx, "15551234567", " yes ", models.Inbound); err != nil {
		t.Fatalf("Log inbound: %v", err)
	}
	if err := log.Log(ctx, "15551234567", "Thank you!", models.Outbound); err != nil {
		t.Fatalf("Log outbound: %v", err)
	}

	if got := mem.Rows("Received"); !reflect.DeepEqual(got, [][]string{{"15551234567", "10/14/2026, 09:05:07", " yes "}}) {
		t.Errorf("Unexpected inbound log: %v", got)
	}
	if got := mem.Rows("Sent"); len(got) != 1 || got[0][2] != "Thank you!" {
		t.Errorf("Unexpected outbound log: %v", got)
	}

	err := log.Log(ctx, "15551234567", "?", models.Direction("sideways"))
	if !errors.Is(err, ErrUnknownDirection) {
		t.Errorf("Expected ErrUnknownDirection, got %v", err)
	}
}
