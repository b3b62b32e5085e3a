package common

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 10, 2, 12, 0, 0, 0, time.UTC)

func nowFn() time.Time { return fixedNow }

func TestParseTimestamp_KnownFormats(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2025-10-02T02:20:00Z", time.Date(2025, 10, 2, 2, 20, 0, 0, time.UTC)},
		{"2025-10-02T02:20:00+02:00", time.Date(2025, 10, 2, 0, 20, 0, 0, time.UTC)},
		{"2 Oct 2025 01:43 UTC", time.Date(2025, 10, 2, 1, 43, 0, 0, time.UTC)},
		{"12 Jan 2025 23:59 UTC", time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC)},
		{"2025-10-02 14:30:45", time.Date(2025, 10, 2, 14, 30, 45, 0, time.UTC)},
		{"02/10/2025 14:30:45", time.Date(2025, 10, 2, 14, 30, 45, 0, time.UTC)},
		{"2025-10-02 14:30", time.Date(2025, 10, 2, 14, 30, 0, 0, time.UTC)},
		{"02/10/2025 14:30", time.Date(2025, 10, 2, 14, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, ok := ParseTimestamp(tt.input, nowFn)
		if !ok {
			t.Errorf("ParseTimestamp(%q) reported failure", tt.input)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseTimestamp_DayFirstWinsOverMonthFirst(t *testing.T) {
	// "05/03/2025" is ambiguous; the day-first layout is tried first.
	got, ok := ParseTimestamp("05/03/2025 10:00:00", nowFn)
	if !ok {
		t.Fatal("expected successful parse")
	}
	want := time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v (day-first)", got, want)
	}
}

func TestParseTimestamp_MonthFirstFallback(t *testing.T) {
	// Day 13 has no month, so only the month-first layout matches.
	got, ok := ParseTimestamp("10/13/2025 08:00:00", nowFn)
	if !ok {
		t.Fatal("expected successful parse")
	}
	want := time.Date(2025, 10, 13, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseTimestamp_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"garbage",
		"32 Oct 2025 01:43 UTC",
		"not/a/date 99:99",
		"2025-13-45",
	}

	for _, input := range inputs {
		got, ok := ParseTimestamp(input, nowFn)
		if ok {
			t.Errorf("ParseTimestamp(%q) unexpectedly reported success", input)
		}
		if !got.Equal(fixedNow) {
			t.Errorf("ParseTimestamp(%q) = %v, want fallback %v", input, got, fixedNow)
		}
	}
}

func TestDisplayZone_Conversion(t *testing.T) {
	zone := NewDisplayZone("Asia/Kuala_Lumpur")
	utc := time.Date(2025, 10, 2, 2, 20, 0, 0, time.UTC)

	if got := zone.Local(utc); got != "2025-10-02T10:20:00+08:00" {
		t.Errorf("Local = %q, want %q", got, "2025-10-02T10:20:00+08:00")
	}
	if got := zone.Display(utc); got != "2025-10-02 10:20:00" {
		t.Errorf("Display = %q, want %q", got, "2025-10-02 10:20:00")
	}
}

func TestDisplayZone_UnknownNameFallsBackToUTC8(t *testing.T) {
	zone := NewDisplayZone("Not/A_Zone")
	utc := time.Date(2025, 10, 2, 2, 20, 0, 0, time.UTC)

	if got := zone.Local(utc); got != "2025-10-02T10:20:00+08:00" {
		t.Errorf("Local = %q, want fixed UTC+8 form", got)
	}
}
