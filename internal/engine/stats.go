package engine

import (
	"fmt"
	"time"
)

// PlayDuration sums the day's sessions; an open session counts up to now.
// Sessions with unreadable timestamps are skipped.
func PlayDuration(day DayProgress, now time.Time) time.Duration {
	var total time.Duration
	for _, s := range day.PlayTime.Sessions {
		start, err := s.Start.Time()
		if err != nil {
			continue
		}
		end := now
		if s.End != nil {
			if end, err = s.End.Time(); err != nil {
				continue
			}
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return total
}

func PlayMinutes(day DayProgress, now time.Time) int {
	return int(PlayDuration(day, now) / time.Minute)
}

// FormatMinutes renders minutes as H:MM.
func FormatMinutes(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

func SessionCount(day DayProgress) int {
	return len(day.PlayTime.Sessions)
}

// Completion counts chore statuses. Rate is completed over applicable
// (non-na) chores, and 0 when nothing applies.
type Completion struct {
	Completed  int     `json:"completed"`
	NA         int     `json:"na"`
	Incomplete int     `json:"incomplete"`
	Total      int     `json:"total"`
	Rate       float64 `json:"rate"`
}

func (c *Completion) add(day DayProgress) {
	for _, ch := range day.Chores {
		c.Total++
		switch ch.Status {
		case StatusCompleted:
			c.Completed++
		case StatusNA:
			c.NA++
		default:
			c.Incomplete++
		}
	}
}

func (c *Completion) finish() {
	c.Rate = 0
	if applicable := c.Total - c.NA; applicable > 0 {
		c.Rate = float64(c.Completed) / float64(applicable)
	}
}

func DayCompletion(day DayProgress) Completion {
	var c Completion
	c.add(day)
	c.finish()
	return c
}

func HistoryCompletion(p Profile) Completion {
	var c Completion
	for _, day := range p.History {
		c.add(day)
	}
	c.finish()
	return c
}

// DaySummary is a flat row per day for history listings.
type DaySummary struct {
	Date        string     `json:"date"`
	Completed   bool       `json:"completed"`
	Chores      Completion `json:"chores"`
	XP          DayXP      `json:"xp"`
	PlayMinutes int        `json:"playMinutes"`
	PlayTime    string     `json:"playTime"`
	Sessions    int        `json:"sessions"`
	RewardsUsed int        `json:"rewardsUsed"`
}

// DaySummaries lists every day, newest first.
func DaySummaries(p Profile, now time.Time) []DaySummary {
	keys := SortedDates(p)
	out := make([]DaySummary, 0, len(keys))
	for i := len(keys) - 1; i >= 0; i-- {
		day := p.History[keys[i]]
		mins := PlayMinutes(day, now)
		out = append(out, DaySummary{
			Date:        keys[i],
			Completed:   day.Completed,
			Chores:      DayCompletion(day),
			XP:          day.XP,
			PlayMinutes: mins,
			PlayTime:    FormatMinutes(mins),
			Sessions:    SessionCount(day),
			RewardsUsed: len(day.RewardsUsed),
		})
	}
	return out
}
