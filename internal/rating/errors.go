package rating

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOrderingViolation aborts a replay
	ErrOrderingViolation = errors.New("game is earlier than the last processed game")
	ErrMissingTeam       = errors.New("game references an unknown team")
	ErrMalformedRecord   = errors.New("completed game is missing a score")
	ErrDuplicateGame     = errors.New("game has already been processed")
	ErrNotCompleted      = errors.New("game is not completed")
)

// SkipError describes a game that was passed over without touching ratings
type SkipError struct {
	GameID int64
	Reason error
	Detail string
}

func (e *SkipError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("game %d skipped: %v", e.GameID, e.Reason)
	}
	return fmt.Sprintf("game %d skipped: %v (%s)", e.GameID, e.Reason, e.Detail)
}

func (e *SkipError) Unwrap() error {
	return e.Reason
}

// OrderingError records which game broke chronological order
type OrderingError struct {
	GameID        int64
	StartDate     time.Time
	LastProcessed time.Time
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("game %d at %s precedes last processed game at %s",
		e.GameID, e.StartDate.Format(time.RFC3339), e.LastProcessed.Format(time.RFC3339))
}

func (e *OrderingError) Unwrap() error {
	return ErrOrderingViolation
}

// IsSkippable reports whether a replay may continue past err
func IsSkippable(err error) bool {
	return errors.Is(err, ErrMissingTeam) ||
		errors.Is(err, ErrMalformedRecord) ||
		errors.Is(err, ErrDuplicateGame)
}
