package engine

import "carduel/models"

// BotMove is a bot's chosen submission for its current turn.
type BotMove struct {
	CardInstanceID string
	Payload        models.PlayPayload
	Discard        bool
}

// ChooseBotMove implements the minimal deterministic bot policy: play the
// first car in hand, picking a round metric from the match seed when one has
// not been chosen yet. Returns false when the bot has no legal move, which
// the orchestrator treats as a forfeit.
func ChooseBotMove(state *models.GameState, playerID string) (BotMove, bool) {
	player := state.PlayerByID(playerID)
	if player == nil || state.GameStatus != models.StatusPlaying {
		return BotMove{}, false
	}

	if state.CurrentPlayerPhase == models.PhaseMustDiscard {
		if len(player.Hand) == 0 {
			return BotMove{}, false
		}
		return BotMove{CardInstanceID: player.Hand[0].InstanceID, Discard: true}, true
	}

	car := player.FirstCar()
	if car == nil {
		return BotMove{}, false
	}

	move := BotMove{CardInstanceID: car.InstanceID}
	if state.SelectedMetricForRound == "" {
		// Derive the pick from the match seed, perturbed by the log length so
		// successive rounds do not repeat the same metric.
		rng := newLFSR(state.Seed + uint32(len(state.Log))*0x85EBCA6B)
		move.Payload.SelectedMetric = models.AllMetrics[rng.intn(len(models.AllMetrics))]
	}
	return move, true
}
