package engine

import (
	"fmt"

	"carduel/models"
)

// PlayCard submits a card play for the current player. On success it returns
// the successor state; on a validation failure it returns an error and the
// input state is guaranteed untouched.
func (e *Engine) PlayCard(state *models.GameState, playerID, instanceID string, payload models.PlayPayload) (*models.GameState, error) {
	if state.GameStatus != models.StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return nil, inconsistency("unknown player %s", playerID)
	}
	if state.CurrentPlayerID != playerID {
		return nil, ErrNotYourTurn
	}

	card := player.CardInHand(instanceID)
	if card == nil {
		return nil, ErrCardNotInHand
	}

	switch card.Kind {
	case models.KindAction:
		return e.playActionCard(state, playerID, card, payload)
	case models.KindCar:
		return e.playCarCard(state, playerID, card, payload)
	default:
		return nil, inconsistency("card %s has unknown kind %q", instanceID, card.Kind)
	}
}

func (e *Engine) playActionCard(state *models.GameState, playerID string, card *models.CardInstance, payload models.PlayPayload) (*models.GameState, error) {
	if state.CurrentPlayerPhase != models.PhaseWaitingForInitialPlay {
		return nil, fmt.Errorf("%w: action cards can only open a turn", ErrWrongPhase)
	}

	def, ok := e.defs[card.DefinitionID]
	if !ok || def.Effect == nil {
		return nil, inconsistency("missing action card definition %s", card.DefinitionID)
	}
	effect := def.Effect

	// Validate before cloning so a rejected play provably mutates nothing.
	var targetID string
	switch effect.Type {
	case models.EffectMetricModTemp, models.EffectMetricModPerm:
		targetID = playerID
		if effect.Target == models.TargetOpponent {
			targetID = state.OpponentOf(playerID).ID
		}
		if _, exists := state.PendingModifiers[targetID]; exists {
			return nil, ErrModifierPending
		}
		if state.CarCardsOnBoard[targetID] != nil {
			return nil, ErrTargetAlreadyPlayed
		}
	case models.EffectOverrideMetric:
		if payload.SelectedMetric == "" {
			return nil, ErrMetricRequired
		}
		permitted := false
		for _, m := range effect.PermittedMetrics() {
			if m == payload.SelectedMetric {
				permitted = true
				break
			}
		}
		if !permitted {
			return nil, fmt.Errorf("%w: %s is not permitted by this card", ErrInvalidMetric, payload.SelectedMetric)
		}
	case models.EffectTimeMod, models.EffectDropCard, models.EffectExtraTurn:
		// No play-time arguments.
	default:
		return nil, inconsistency("action card %s has unknown effect type %q", card.DefinitionID, effect.Type)
	}

	next := state.Clone()
	actor := next.PlayerByID(playerID)
	played := actor.RemoveFromHand(card.InstanceID)
	next.ActionCardsOnBoard[playerID] = played
	next.LastPlayedCardID = played.InstanceID

	switch effect.Type {
	case models.EffectTimeMod:
		next.TurnTimeLimitMs += int64(effect.Seconds) * 1000
		if next.TurnTimeLimitMs < minTurnTimeMs {
			next.TurnTimeLimitMs = minTurnTimeMs
		}
		next.Log = append(next.Log, fmt.Sprintf("%s played %s: turn time %+d s", actor.Name, played.Name, effect.Seconds))

	case models.EffectMetricModTemp, models.EffectMetricModPerm:
		next.PendingModifiers[targetID] = &models.PendingModifier{
			SourcePlayerID: playerID,
			SourceCardID:   played.InstanceID,
			Effect:         effect.Clone(),
		}
		next.Log = append(next.Log, fmt.Sprintf("%s played %s on %s", actor.Name, played.Name, next.PlayerByID(targetID).Name))

	case models.EffectOverrideMetric:
		next.SelectedMetricForRound = payload.SelectedMetric
		next.Log = append(next.Log, fmt.Sprintf("%s played %s: round metric is now %s", actor.Name, played.Name, payload.SelectedMetric))

	case models.EffectDropCard:
		opponent := next.OpponentOf(playerID)
		if len(opponent.Hand) > 0 {
			// Reseed with a perturbation from the opponent's hand size so
			// repeated drops within a match stay reproducible without
			// repeating the same index.
			rng := newLFSR(next.Seed + uint32(len(opponent.Hand))*0x9E3779B9)
			idx := rng.intn(len(opponent.Hand))
			dropped := opponent.Hand[idx]
			opponent.RemoveFromHand(dropped.InstanceID)
			next.DiscardPile = append(next.DiscardPile, dropped)
			next.Log = append(next.Log, fmt.Sprintf("%s played %s: %s discards %s", actor.Name, played.Name, opponent.Name, dropped.Name))
		} else {
			next.Log = append(next.Log, fmt.Sprintf("%s played %s but %s has no cards", actor.Name, played.Name, opponent.Name))
		}

	case models.EffectExtraTurn:
		next.ExtraTurnPlayerID = playerID
		next.Log = append(next.Log, fmt.Sprintf("%s played %s and will take an extra turn", actor.Name, played.Name))
	}

	next.CurrentPlayerPhase = models.PhaseWaitingForCarCardAfterAction
	e.checkGameEnd(next)
	return next, nil
}

func (e *Engine) playCarCard(state *models.GameState, playerID string, card *models.CardInstance, payload models.PlayPayload) (*models.GameState, error) {
	phase := state.CurrentPlayerPhase
	if phase != models.PhaseWaitingForInitialPlay && phase != models.PhaseWaitingForCarCardAfterAction {
		return nil, fmt.Errorf("%w: cannot play a car card now", ErrWrongPhase)
	}

	if state.SelectedMetricForRound == "" {
		if payload.SelectedMetric == "" {
			return nil, ErrMetricRequired
		}
		if !models.IsValidMetric(payload.SelectedMetric) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, payload.SelectedMetric)
		}
	}

	next := state.Clone()
	actor := next.PlayerByID(playerID)
	played := actor.RemoveFromHand(card.InstanceID)

	if next.SelectedMetricForRound == "" {
		next.SelectedMetricForRound = payload.SelectedMetric
		next.Log = append(next.Log, fmt.Sprintf("%s chose %s for this round", actor.Name, payload.SelectedMetric))
	}

	if pending, ok := next.PendingModifiers[playerID]; ok {
		if err := applyPendingModifier(next, played, pending); err != nil {
			return nil, err
		}
		delete(next.PendingModifiers, playerID)
	}

	next.CarCardsOnBoard[playerID] = played
	next.LastPlayedCardID = played.InstanceID
	next.Log = append(next.Log, fmt.Sprintf("%s played %s", actor.Name, played.Name))

	bothOnBoard := true
	for _, p := range next.Players {
		if next.CarCardsOnBoard[p.ID] == nil {
			bothOnBoard = false
			break
		}
	}
	if bothOnBoard {
		next.CurrentPlayerPhase = models.PhaseBothCardsOnBoard
	} else {
		next.CurrentPlayerPhase = models.PhaseTurnEnded
	}

	e.checkGameEnd(next)
	return next, nil
}

// DiscardCard resolves a must_discard phase: the over-limit player chooses
// one card from their hand to send to the discard pile.
func (e *Engine) DiscardCard(state *models.GameState, playerID, instanceID string) (*models.GameState, error) {
	if state.GameStatus != models.StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	if state.CurrentPlayerPhase != models.PhaseMustDiscard {
		return nil, fmt.Errorf("%w: nothing to discard", ErrWrongPhase)
	}
	if state.CurrentPlayerID != playerID {
		return nil, ErrNotYourTurn
	}
	player := state.PlayerByID(playerID)
	if player == nil {
		return nil, inconsistency("unknown player %s", playerID)
	}
	if player.CardInHand(instanceID) == nil {
		return nil, ErrCardNotInHand
	}

	next := state.Clone()
	actor := next.PlayerByID(playerID)
	dropped := actor.RemoveFromHand(instanceID)
	next.DiscardPile = append(next.DiscardPile, dropped)
	next.CurrentPlayerPhase = models.PhaseRoundResolved
	next.Log = append(next.Log, fmt.Sprintf("%s discarded %s (hand limit)", actor.Name, dropped.Name))

	e.checkGameEnd(next)
	return next, nil
}
