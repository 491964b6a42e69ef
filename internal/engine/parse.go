package engine

import (
	"fmt"
	"strings"
)

// ParseChoreStatus accepts the stored spellings plus a few CLI aliases.
func ParseChoreStatus(input string) (ChoreStatus, error) {
	s := strings.TrimSpace(strings.ToLower(input))
	switch s {
	case "done", "complete":
		s = string(StatusCompleted)
	case "n/a", "skip", "skipped":
		s = string(StatusNA)
	case "todo", "undo":
		s = string(StatusIncomplete)
	}
	st := ChoreStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid chore status: %q", input)
	}
	return st, nil
}

func ParseRewardKind(input string) (RewardKind, error) {
	s := strings.TrimSpace(strings.ToUpper(input))
	s = strings.ReplaceAll(s, "-", "_")
	switch s {
	case "EXTEND", "PLAY":
		s = string(RewardExtendPlayTime)
	case "COOLDOWN":
		s = string(RewardReduceCooldown)
	}
	k := RewardKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid reward kind: %q", input)
	}
	return k, nil
}
