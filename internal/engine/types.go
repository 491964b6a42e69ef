package engine

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/trustieee/timey-sub000/internal/dates"
)

type ChoreStatus string

const (
	StatusIncomplete ChoreStatus = "incomplete"
	StatusCompleted  ChoreStatus = "completed"
	StatusNA         ChoreStatus = "na"
)

func (s ChoreStatus) IsValid() bool {
	switch s {
	case StatusIncomplete, StatusCompleted, StatusNA:
		return true
	default:
		return false
	}
}

type RewardKind string

const (
	// RewardExtendPlayTime permanently adds minutes to the daily play allowance.
	RewardExtendPlayTime RewardKind = "EXTEND_PLAY_TIME"
	// RewardReduceCooldown permanently removes minutes from the play cooldown.
	RewardReduceCooldown RewardKind = "REDUCE_COOLDOWN"
)

func (k RewardKind) IsValid() bool {
	switch k {
	case RewardExtendPlayTime, RewardReduceCooldown:
		return true
	default:
		return false
	}
}

// WeekdaySet is a set of weekdays. The empty set means every day.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			s |= 1 << uint(d)
		}
	}
	return s
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	if s == 0 {
		return true
	}
	return s&(1<<uint(d)) != 0
}

func (s WeekdaySet) EveryDay() bool {
	return s == 0 || s == 0x7f
}

func (s WeekdaySet) Days() []time.Weekday {
	out := []time.Weekday{}
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s&(1<<uint(d)) != 0 {
			out = append(out, d)
		}
	}
	return out
}

func (s WeekdaySet) String() string {
	if s.EveryDay() {
		return "daily"
	}
	names := make([]string, 0, 7)
	for _, d := range s.Days() {
		names = append(names, d.String()[:3])
	}
	return strings.Join(names, ",")
}

// MarshalJSON writes the set as an ordered array of weekday numbers (0=Sunday).
func (s WeekdaySet) MarshalJSON() ([]byte, error) {
	days := s.Days()
	nums := make([]int, len(days))
	for i, d := range days {
		nums[i] = int(d)
	}
	return json.Marshal(nums)
}

func (s *WeekdaySet) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = 0
		return nil
	}
	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return fmt.Errorf("daysOfWeek: %w", err)
	}
	set, err := WeekdaySetFromInts(nums)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

func WeekdaySetFromInts(nums []int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, n := range nums {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday out of range: %d", n)
		}
		s |= 1 << uint(n)
	}
	return s, nil
}

// ChoreDefinition is a configured chore and the weekdays it is scheduled on.
type ChoreDefinition struct {
	ID         int        `json:"id"`
	Text       string     `json:"text"`
	DaysOfWeek WeekdaySet `json:"daysOfWeek,omitempty"`
}

// ChoreEntry is one chore on one day. CompletedAt is set only while Status is completed.
type ChoreEntry struct {
	ID          int              `json:"id"`
	Text        string           `json:"text"`
	Status      ChoreStatus      `json:"status"`
	CompletedAt *dates.Timestamp `json:"completedAt,omitempty"`
}

type PlaySession struct {
	ID    string           `json:"id,omitempty"`
	Start dates.Timestamp  `json:"start"`
	End   *dates.Timestamp `json:"end,omitempty"`
}

func (s PlaySession) Open() bool { return s.End == nil }

type PlayTime struct {
	Sessions []PlaySession `json:"sessions"`
}

// DayXP is the per-day ledger. Final is derived; call recompute after touching the others.
type DayXP struct {
	Gained    int `json:"gained"`
	Penalties int `json:"penalties"`
	Final     int `json:"final"`
}

func (x *DayXP) recompute() {
	x.Final = x.Gained - x.Penalties
}

type RewardUsage struct {
	Type   RewardKind      `json:"type"`
	UsedAt dates.Timestamp `json:"usedAt"`
	Value  float64         `json:"value"`
}

type DayProgress struct {
	Date        string        `json:"date"`
	Chores      []ChoreEntry  `json:"chores"`
	PlayTime    PlayTime      `json:"playTime"`
	XP          DayXP         `json:"xp"`
	RewardsUsed []RewardUsage `json:"rewardsUsed"`
	Completed   bool          `json:"completed"`
}

type Rewards struct {
	Available int                    `json:"available"`
	Permanent map[RewardKind]float64 `json:"permanent,omitempty"`
}

// Profile is the whole progression state for one player.
// Level and XP figures are not part of it; see CalculatePlayerStats.
type Profile struct {
	History map[string]DayProgress `json:"history"`
	Rewards Rewards                `json:"rewards"`
	Chores  []ChoreDefinition      `json:"chores"`
}

// PlayerStats is derived from History on every read.
type PlayerStats struct {
	Level         int `json:"level"`
	XPIntoLevel   int `json:"xpIntoLevel"`
	XPToNextLevel int `json:"xpToNextLevel"`
	TotalXP       int `json:"totalXp"`
}

// NewProfile returns an empty profile scheduled with a copy of defs.
func NewProfile(defs []ChoreDefinition) Profile {
	return Profile{
		History: map[string]DayProgress{},
		Rewards: Rewards{Permanent: map[RewardKind]float64{}},
		Chores:  cloneDefinitions(defs),
	}
}

// SortedDates returns the history keys in ascending order.
func SortedDates(p Profile) []string {
	out := make([]string, 0, len(p.History))
	for d := range p.History {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
