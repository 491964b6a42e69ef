// Package dates produces the local-calendar identifiers every profile record is keyed by.
//
// Everything here works in the host's local zone. Stored timestamps carry no
// offset and are always read back as local wall-clock time.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DayLayout is the calendar day identifier format (YYYY-MM-DD).
	DayLayout = "2006-01-02"

	// TimestampLayout is a local ISO-like timestamp without a zone suffix.
	TimestampLayout = "2006-01-02T15:04:05.000"
)

// Timestamp is a naive local timestamp as stored in profile documents.
type Timestamp string

// Today returns the local calendar day identifier for now.
func Today() string {
	return DayOf(time.Now())
}

// DayOf returns the local calendar day identifier for t.
func DayOf(t time.Time) string {
	return t.In(time.Local).Format(DayLayout)
}

// ParseDay parses a day identifier as local midnight.
func ParseDay(d string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, strings.TrimSpace(d), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse day %q: %w", d, err)
	}
	return t, nil
}

// PreviousDate returns the day identifier one local calendar day before d.
// Unparsable input is returned unchanged.
func PreviousDate(d string) string {
	t, err := ParseDay(d)
	if err != nil {
		return d
	}
	// AddDate on the calendar, not 24h arithmetic, so DST shifts can't skip or repeat a day.
	return t.AddDate(0, 0, -1).Format(DayLayout)
}

// Weekday returns the weekday of day identifier d.
func Weekday(d string) (time.Weekday, bool) {
	t, err := ParseDay(d)
	if err != nil {
		return time.Sunday, false
	}
	return t.Weekday(), true
}

// NowLocalTimestamp returns the current local time as a naive Timestamp.
func NowLocalTimestamp() Timestamp {
	return TimestampOf(time.Now())
}

// TimestampOf formats t in local time without an offset.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp(t.In(time.Local).Format(TimestampLayout))
}

// Time parses the timestamp as local wall-clock time. Legacy values written
// without milliseconds are accepted too.
func (ts Timestamp) Time() (time.Time, error) {
	s := strings.TrimSpace(string(ts))
	for _, layout := range []string{TimestampLayout, "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q", string(ts))
}

// Day returns the calendar day portion of the timestamp.
func (ts Timestamp) Day() string {
	s := string(ts)
	if len(s) < len(DayLayout) {
		return ""
	}
	return s[:len(DayLayout)]
}
