package engine

import (
	"fmt"

	"carduel/models"
)

// ResolveRound compares the two board cars on the round metric, awards both
// cars to the winner (or returns them on a tie), clears the board, and moves
// played action cards to the discard pile. It must run before any game-end
// evaluation so that the winner has absorbed the cards first.
func (e *Engine) ResolveRound(state *models.GameState) (*models.GameState, error) {
	if state.GameStatus != models.StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	if state.CurrentPlayerPhase != models.PhaseBothCardsOnBoard {
		return nil, fmt.Errorf("%w: round is not ready to resolve", ErrWrongPhase)
	}
	metric := state.SelectedMetricForRound
	if metric == "" {
		return nil, inconsistency("resolving a round with no selected metric")
	}

	next := state.Clone()

	a, b := next.Players[0], next.Players[1]
	carA := next.CarCardsOnBoard[a.ID]
	carB := next.CarCardsOnBoard[b.ID]
	if carA == nil || carB == nil {
		return nil, inconsistency("both_cards_on_board with an empty car slot")
	}
	if carA.CurrentMetrics == nil || carB.CurrentMetrics == nil {
		return nil, inconsistency("board car without metrics")
	}

	valA := carA.CurrentMetrics.Get(metric)
	valB := carB.CurrentMetrics.Get(metric)

	var winner *models.PlayerState
	switch {
	case valA == valB:
		winner = nil
	case models.LowerWins(metric) == (valA < valB):
		winner = a
	default:
		winner = b
	}

	restoreAfterRound(carA)
	restoreAfterRound(carB)

	if winner != nil {
		winner.Hand = append(winner.Hand, carA, carB)
		winner.Score++
		next.RoundWinnerID = winner.ID
		next.Log = append(next.Log, fmt.Sprintf("%s wins the round on %s (%.1f vs %.1f)", winner.Name, metric, valA, valB))
	} else {
		a.Hand = append(a.Hand, carA)
		b.Hand = append(b.Hand, carB)
		next.RoundWinnerID = ""
		next.Log = append(next.Log, fmt.Sprintf("Round tied on %s (%.1f)", metric, valA))
	}

	for _, p := range next.Players {
		delete(next.CarCardsOnBoard, p.ID)
		if action := next.ActionCardsOnBoard[p.ID]; action != nil {
			next.DiscardPile = append(next.DiscardPile, action)
			delete(next.ActionCardsOnBoard, p.ID)
		}
		// Any modifier that never found its car is void once the round ends.
		delete(next.PendingModifiers, p.ID)
	}

	if winner != nil && len(winner.Hand) > models.HandLimit {
		next.CurrentPlayerPhase = models.PhaseMustDiscard
		next.CurrentPlayerID = winner.ID
		next.Log = append(next.Log, fmt.Sprintf("%s is over the hand limit and must discard", winner.Name))
	} else {
		next.CurrentPlayerPhase = models.PhaseRoundResolved
	}

	e.checkGameEnd(next)
	return next, nil
}
