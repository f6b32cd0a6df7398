package engine

import (
	"errors"
	"fmt"
)

// Validation errors. These are recoverable: the submitted play is rejected,
// the state is unchanged, and only the offending player is notified.
var (
	ErrGameNotInProgress   = errors.New("game is not in progress")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrCardNotInHand       = errors.New("card is not in your hand")
	ErrWrongPhase          = errors.New("play not allowed in current phase")
	ErrMetricRequired      = errors.New("a metric must be selected for the first car of the round")
	ErrInvalidMetric       = errors.New("invalid metric selection")
	ErrModifierPending     = errors.New("target player already has a pending effect")
	ErrTargetAlreadyPlayed = errors.New("target player already played their car this round")
)

// InconsistencyError marks an internal state inconsistency (missing
// definition, dangling modifier, unknown player). It is fatal for the match:
// the orchestrator ends the game and the process keeps serving other matches.
type InconsistencyError struct {
	Reason string
}

func (e *InconsistencyError) Error() string {
	return fmt.Sprintf("state inconsistency: %s", e.Reason)
}

func inconsistency(format string, args ...interface{}) error {
	return &InconsistencyError{Reason: fmt.Sprintf(format, args...)}
}

// IsInconsistency reports whether err is fatal for the match.
func IsInconsistency(err error) bool {
	var ie *InconsistencyError
	return errors.As(err, &ie)
}
