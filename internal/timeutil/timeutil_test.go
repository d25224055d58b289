package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2024-01-02")
	if err != nil {
		t.Fatalf("expected parse to succeed, got %v", err)
	}
	if got := FormatDate(parsed); got != "2024-01-02" {
		t.Fatalf("expected formatted date to round-trip, got %s", got)
	}
}

func TestFormatDateUsesLocation(t *testing.T) {
	loc := time.FixedZone("test", -5*60*60)
	value := time.Date(2024, 1, 2, 23, 0, 0, 0, loc)
	if got := FormatDate(value); got != "2024-01-02" {
		t.Fatalf("expected formatted date, got %s", got)
	}
}

func TestCompactDate(t *testing.T) {
	got, err := CompactDate("2024-03-09")
	if err != nil || got != "20240309" {
		t.Fatalf("expected 20240309, got %q (%v)", got, err)
	}
	if _, err := CompactDate("03/09/2024"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-02-28", 2)
	if err != nil || got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %q (%v)", got, err)
	}
}

func TestTodayIn(t *testing.T) {
	// 20:00 UTC on Jan 30 is already Jan 31 in Sydney and still Jan 30 in Phoenix.
	now := time.Date(2024, 1, 30, 20, 0, 0, 0, time.UTC)
	cases := map[string]string{
		"Australia/Sydney": "2024-01-31",
		"America/Phoenix":  "2024-01-30",
		"":                 "2024-01-30",
		"Mars/Olympus":     "2024-01-30",
	}
	for tz, want := range cases {
		if got := TodayIn(tz, now); got != want {
			t.Fatalf("TodayIn(%q) = %s, want %s", tz, got, want)
		}
	}
}
