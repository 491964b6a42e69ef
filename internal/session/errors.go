package session

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrNoRewardTokens = errors.New("no reward tokens available")
	ErrNoOpenSession  = errors.New("no play session is running")
	ErrUnknownChore   = errors.New("chore is not on today's list")
	ErrDayFinalized   = errors.New("today is already finalized")
	ErrNoProfile      = errors.New("no stored profile for this user")

	// ErrProfileUnavailable means the store could not be read, so a change
	// would overwrite a document this process has never seen.
	ErrProfileUnavailable = errors.New("profile store is unavailable")
)

// GateError is returned when the play timer refuses to start a session.
// It should be shown to the user.
type GateError struct {
	Reason string
	Until  time.Time
}

func (e GateError) Error() string {
	if e.Until.IsZero() {
		return fmt.Sprintf("play is locked: %s", e.Reason)
	}
	return fmt.Sprintf("play is locked: %s until %s", e.Reason, e.Until.Format("15:04"))
}
