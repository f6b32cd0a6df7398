package game

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/wI2L/jsondiff"

	"carduel/models"
)

// PlayerView is a player as one particular viewer sees them. The opponent's
// hand keeps instance identities but every card is face down.
type PlayerView struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Hand     []*models.CardInstance `json:"hand"`
	HandSize int                    `json:"handSize"`
	Score    int                    `json:"score"`
}

// GameView is the client projection of a game state. It never contains the
// seed, the draw pile contents, or the opponent's card faces.
type GameView struct {
	GameID                 string                          `json:"gameId"`
	Players                []PlayerView                    `json:"players"`
	CurrentPlayerID        string                          `json:"currentPlayerId"`
	CurrentPlayerPhase     models.TurnPhase                `json:"currentPlayerPhase"`
	GameStatus             models.GameStatus               `json:"gameStatus"`
	RoundWinnerID          string                          `json:"roundWinnerId,omitempty"`
	WinnerID               string                          `json:"winnerId,omitempty"`
	ExtraTurnPlayerID      string                          `json:"extraTurnPlayerId,omitempty"`
	SelectedMetricForRound models.Metric                   `json:"selectedMetricForRound,omitempty"`
	CarCardsOnBoard        map[string]*models.CardInstance `json:"carCardsOnBoard"`
	ActionCardsOnBoard     map[string]*models.CardInstance `json:"actionCardsOnBoard"`
	PendingModifierTargets []string                        `json:"pendingModifierTargets,omitempty"`
	DrawPileSize           int                             `json:"drawPileSize"`
	DiscardPile            []*models.CardInstance          `json:"discardPile"`
	LastPlayedCardID       string                          `json:"lastPlayedCardId,omitempty"`
	TurnStartTime          int64                           `json:"turnStartTime"`
	TurnTimeLimitMs        int64                           `json:"turnTimeLimitMs"`
	Log                    []string                        `json:"log"`
}

// BuildView projects the authoritative state for one viewer and marshals it.
// The same state and viewer always produce identical bytes, which is what
// makes diffing against the previously sent view sound.
func BuildView(state *models.GameState, viewerID string) ([]byte, error) {
	view := GameView{
		GameID:                 state.GameID,
		CurrentPlayerID:        state.CurrentPlayerID,
		CurrentPlayerPhase:     state.CurrentPlayerPhase,
		GameStatus:             state.GameStatus,
		RoundWinnerID:          state.RoundWinnerID,
		WinnerID:               state.WinnerID,
		ExtraTurnPlayerID:      state.ExtraTurnPlayerID,
		SelectedMetricForRound: state.SelectedMetricForRound,
		CarCardsOnBoard:        map[string]*models.CardInstance{},
		ActionCardsOnBoard:     map[string]*models.CardInstance{},
		DrawPileSize:           len(state.DrawPile),
		DiscardPile:            make([]*models.CardInstance, 0, len(state.DiscardPile)),
		LastPlayedCardID:       state.LastPlayedCardID,
		TurnStartTime:          state.TurnStartTime,
		TurnTimeLimitMs:        state.TurnTimeLimitMs,
		Log:                    state.Log,
	}

	for _, p := range state.Players {
		pv := PlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Hand:     make([]*models.CardInstance, 0, len(p.Hand)),
			HandSize: len(p.Hand),
			Score:    p.Score,
		}
		for _, card := range p.Hand {
			if p.ID == viewerID {
				pv.Hand = append(pv.Hand, card.Clone())
			} else {
				pv.Hand = append(pv.Hand, &models.CardInstance{
					InstanceID:   card.InstanceID,
					DefinitionID: models.HiddenDefinitionID,
				})
			}
		}
		view.Players = append(view.Players, pv)
	}

	// Board and discard cards are public for both viewers; only the draw
	// pile's contents stay hidden.
	for owner, card := range state.CarCardsOnBoard {
		view.CarCardsOnBoard[owner] = card.Clone()
	}
	for owner, card := range state.ActionCardsOnBoard {
		view.ActionCardsOnBoard[owner] = card.Clone()
	}
	for _, card := range state.DiscardPile {
		view.DiscardPile = append(view.DiscardPile, card.Clone())
	}

	for target := range state.PendingModifiers {
		view.PendingModifierTargets = append(view.PendingModifierTargets, target)
	}
	sort.Strings(view.PendingModifierTargets)

	data, err := json.Marshal(view)
	if err != nil {
		return nil, fmt.Errorf("marshal game view: %w", err)
	}
	return data, nil
}

// DiffViews computes an RFC 6902 patch transforming prev into next. A nil
// result means the views are identical and nothing needs to be sent.
func DiffViews(prev, next []byte) ([]byte, error) {
	patch, err := jsondiff.CompareJSON(prev, next)
	if err != nil {
		return nil, fmt.Errorf("diff game views: %w", err)
	}
	if len(patch) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("marshal view patch: %w", err)
	}
	return data, nil
}
