package engine

import "github.com/trustieee/timey-sub000/internal/dates"

// ChoreScheduledOn reports whether def applies on the given day identifier.
func ChoreScheduledOn(def ChoreDefinition, date string) bool {
	wd, ok := dates.Weekday(date)
	if !ok {
		return false
	}
	return def.DaysOfWeek.Contains(wd)
}

// CreateDay builds a fresh, unfinalized day with one incomplete entry per chore scheduled on date.
func CreateDay(date string, defs []ChoreDefinition) DayProgress {
	day := DayProgress{
		Date:        date,
		Chores:      []ChoreEntry{},
		PlayTime:    PlayTime{Sessions: []PlaySession{}},
		RewardsUsed: []RewardUsage{},
	}
	for _, def := range defs {
		if !ChoreScheduledOn(def, date) {
			continue
		}
		day.Chores = append(day.Chores, ChoreEntry{
			ID:     def.ID,
			Text:   def.Text,
			Status: StatusIncomplete,
		})
	}
	return day
}

func (d DayProgress) choreIndex(id int) int {
	for i := range d.Chores {
		if d.Chores[i].ID == id {
			return i
		}
	}
	return -1
}
