package engine

import (
	"fmt"

	"carduel/models"
)

// applyPendingModifier rewrites the played car's current metrics from its
// original metrics before the round comparison. Percentage and absolute
// modifiers recompute the designated metric; permanent modifications are
// imprinted so they survive the card's return to a hand.
func applyPendingModifier(state *models.GameState, car *models.CardInstance, pending *models.PendingModifier) error {
	if pending.Effect == nil {
		return inconsistency("pending modifier from %s has no effect", pending.SourcePlayerID)
	}
	if state.ActionCardsOnBoard[pending.SourcePlayerID] == nil {
		return inconsistency("pending modifier without a board action card (source %s)", pending.SourcePlayerID)
	}
	if car.OriginalMetrics == nil || car.CurrentMetrics == nil {
		return inconsistency("car instance %s has no metrics", car.InstanceID)
	}

	effect := pending.Effect
	switch effect.Type {
	case models.EffectMetricModTemp, models.EffectMetricModPerm:
		metric := effect.TargetMetric
		if !models.IsValidMetric(metric) {
			return inconsistency("modifier targets unknown metric %q", metric)
		}
		orig := car.OriginalMetrics.Get(metric)
		var modified float64
		switch effect.ModifierType {
		case models.ModifierPercentage:
			modified = orig * (1 + effect.Value/100)
		case models.ModifierAbsolute:
			modified = orig + effect.Value
		default:
			return inconsistency("unknown modifier type %q", effect.ModifierType)
		}
		*car.CurrentMetrics = car.CurrentMetrics.Set(metric, modified)
		if effect.Type == models.EffectMetricModPerm {
			car.IsModifiedPermanently = true
		}
		state.Log = append(state.Log, fmt.Sprintf("%s %s changed to %.0f", car.Name, metric, modified))
		return nil
	default:
		return inconsistency("effect %q cannot be a pending modifier", effect.Type)
	}
}

// restoreAfterRound undoes temporary metric changes when a car leaves the
// board. Permanently modified cars keep their imprinted current metrics.
func restoreAfterRound(car *models.CardInstance) {
	if car.IsModifiedPermanently || car.OriginalMetrics == nil {
		return
	}
	orig := *car.OriginalMetrics
	car.CurrentMetrics = &orig
}
