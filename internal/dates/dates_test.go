package dates

import (
	"strings"
	"testing"
	"time"
)

func TestPreviousDateCrossesBoundaries(t *testing.T) {
	cases := map[string]string{
		"2024-03-15": "2024-03-14",
		"2024-03-01": "2024-02-29",
		"2023-03-01": "2023-02-28",
		"2024-01-01": "2023-12-31",
		"2024-11-04": "2024-11-03",
	}
	for in, want := range cases {
		if got := PreviousDate(in); got != want {
			t.Fatalf("PreviousDate(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestPreviousDateInvalidIsUnchanged(t *testing.T) {
	if got := PreviousDate("not-a-day"); got != "not-a-day" {
		t.Fatalf("PreviousDate(invalid)=%q, want input back", got)
	}
}

func TestDayOfUsesLocalZone(t *testing.T) {
	now := time.Date(2024, 5, 6, 23, 30, 0, 0, time.Local)
	if got := DayOf(now); got != "2024-05-06" {
		t.Fatalf("DayOf=%q, want 2024-05-06", got)
	}
}

func TestTimestampRoundTripIsNaiveLocal(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 123_000_000, time.Local)
	ts := TimestampOf(now)
	if string(ts) != "2024-05-06T07:08:09.123" {
		t.Fatalf("TimestampOf=%q", ts)
	}
	if strings.ContainsAny(string(ts), "Z+") {
		t.Fatalf("timestamp %q carries a zone suffix", ts)
	}
	back, err := ts.Time()
	if err != nil {
		t.Fatalf("Time: %v", err)
	}
	if !back.Equal(now) {
		t.Fatalf("round trip=%v, want %v", back, now)
	}
	if ts.Day() != "2024-05-06" {
		t.Fatalf("Day=%q", ts.Day())
	}
}

func TestTimestampAcceptsLegacySeconds(t *testing.T) {
	if _, err := Timestamp("2024-05-06T07:08:09").Time(); err != nil {
		t.Fatalf("legacy timestamp: %v", err)
	}
	if _, err := Timestamp("garbage").Time(); err == nil {
		t.Fatalf("expected error for garbage timestamp")
	}
}

func TestWeekday(t *testing.T) {
	wd, ok := Weekday("2024-05-05")
	if !ok || wd != time.Sunday {
		t.Fatalf("Weekday=%v,%v want Sunday,true", wd, ok)
	}
	if _, ok := Weekday("x"); ok {
		t.Fatalf("expected ok=false for invalid day")
	}
}
