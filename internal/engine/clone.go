package engine

import "github.com/trustieee/timey-sub000/internal/dates"

// Clone returns a deep copy. Engine operations clone before writing so the
// caller's profile is never modified. Nil maps and slices stay nil.
func (p Profile) Clone() Profile {
	out := Profile{
		Rewards: Rewards{Available: p.Rewards.Available},
		Chores:  cloneDefinitions(p.Chores),
	}
	if p.Rewards.Permanent != nil {
		out.Rewards.Permanent = make(map[RewardKind]float64, len(p.Rewards.Permanent))
		for k, v := range p.Rewards.Permanent {
			out.Rewards.Permanent[k] = v
		}
	}
	if p.History != nil {
		out.History = make(map[string]DayProgress, len(p.History))
		for d, day := range p.History {
			out.History[d] = day.Clone()
		}
	}
	return out
}

func (d DayProgress) Clone() DayProgress {
	out := d
	if d.Chores != nil {
		out.Chores = make([]ChoreEntry, len(d.Chores))
		for i, c := range d.Chores {
			c.CompletedAt = cloneTimestamp(c.CompletedAt)
			out.Chores[i] = c
		}
	}
	if d.PlayTime.Sessions != nil {
		out.PlayTime.Sessions = make([]PlaySession, len(d.PlayTime.Sessions))
		for i, s := range d.PlayTime.Sessions {
			s.End = cloneTimestamp(s.End)
			out.PlayTime.Sessions[i] = s
		}
	}
	if d.RewardsUsed != nil {
		out.RewardsUsed = append([]RewardUsage(nil), d.RewardsUsed...)
	}
	return out
}

func cloneDefinitions(defs []ChoreDefinition) []ChoreDefinition {
	if defs == nil {
		return nil
	}
	return append([]ChoreDefinition(nil), defs...)
}

func cloneTimestamp(ts *dates.Timestamp) *dates.Timestamp {
	if ts == nil {
		return nil
	}
	v := *ts
	return &v
}
