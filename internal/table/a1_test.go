package table

import "testing"

func TestParseRange(t *testing.T) {
	tests := []struct {
		ref  string
		want Range
	}{
		{"RSVPs", Range{Sheet: "RSVPs", StartCol: 1, StartRow: 1}},
		{"RSVPs!A1:C", Range{Sheet: "RSVPs", StartCol: 1, StartRow: 1, EndCol: 3}},
		{"RSVPs!A:C", Range{Sheet: "RSVPs", StartCol: 1, StartRow: 1, EndCol: 3}},
		{"Roster!C5", Range{Sheet: "Roster", StartCol: 3, StartRow: 5, EndCol: 3, EndRow: 5}},
		{"'SMS Logs'!A2:C10", Range{Sheet: "SMS Logs", StartCol: 1, StartRow: 2, EndCol: 3, EndRow: 10}},
		{"Wide!AA1:AB2", Range{Sheet: "Wide", StartCol: 27, StartRow: 1, EndCol: 28, EndRow: 2}},
	}

	for _, tt := range tests {
		got, err := ParseRange(tt.ref)
		if err != nil {
			t.Errorf("ParseRange(%q) returned error: %v", tt.ref, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRange(%q) = %+v, expected %+v", tt.ref, got, tt.want)
		}
	}
}

func TestParseRangeErrors(t *testing.T) {
	for _, ref := range []string{"", "!A1", "Roster!1A", "Roster!A0"} {
		if _, err := ParseRange(ref); err == nil {
			t.Errorf("Expected error for %q", ref)
		}
	}
}

func TestRangeString(t *testing.T) {
	tests := []struct {
		ref  string
		want string
	}{
		{"RSVPs", "RSVPs"},
		{"RSVPs!A1:C", "RSVPs!A1:C"},
		{"Roster!C5", "Roster!C5"},
		{"'SMS Logs'!A2:C10", "'SMS Logs'!A2:C10"},
	}

	for _, tt := range tests {
		r, err := ParseRange(tt.ref)
		if err != nil {
			t.Fatalf("ParseRange(%q): %v", tt.ref, err)
		}
		if got := r.String(); got != tt.want {
			t.Errorf("String() of %q = %q, expected %q", tt.ref, got, tt.want)
		}
	}
}

func TestRowRefAndCell(t *testing.T) {
	row, err := RowRef("RSVPs!A1:C", 5)
	if err != nil {
		t.Fatalf("RowRef: %v", err)
	}
	if row != "RSVPs!A5:C5" {
		t.Errorf("Expected RSVPs!A5:C5, got %s", row)
	}

	r, err := ParseRange("Roster!A1:D")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if cell := r.Cell(3, 7).String(); cell != "Roster!C7" {
		t.Errorf("Expected Roster!C7, got %s", r.Cell(3, 7))
	}
}
