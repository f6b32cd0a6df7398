package catalog

import "carduel/models"

// actionDefinitions is the fixed set of action cards. Unlike cars these are
// not sourced from the external data file.
var actionDefinitions = []*models.CardDefinition{
	{
		ID:   "act-turbo-boost",
		Name: "Turbo Boost",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type:         models.EffectMetricModTemp,
			TargetMetric: models.MetricSpeed,
			Value:        15,
			ModifierType: models.ModifierPercentage,
			Target:       models.TargetSelf,
		},
	},
	{
		ID:   "act-nitro-injection",
		Name: "Nitro Injection",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type:         models.EffectMetricModPerm,
			TargetMetric: models.MetricHP,
			Value:        50,
			ModifierType: models.ModifierAbsolute,
			Target:       models.TargetSelf,
		},
	},
	{
		ID:   "act-engine-sabotage",
		Name: "Engine Sabotage",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type:         models.EffectMetricModTemp,
			TargetMetric: models.MetricHP,
			Value:        -20,
			ModifierType: models.ModifierPercentage,
			Target:       models.TargetOpponent,
		},
	},
	{
		ID:   "act-weight-reduction",
		Name: "Weight Reduction",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type:         models.EffectMetricModPerm,
			TargetMetric: models.MetricWeight,
			Value:        -100,
			ModifierType: models.ModifierAbsolute,
			Target:       models.TargetSelf,
		},
	},
	{
		ID:   "act-race-control",
		Name: "Race Control",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type: models.EffectOverrideMetric,
		},
	},
	{
		ID:   "act-pit-strategy",
		Name: "Pit Strategy",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type:           models.EffectOverrideMetric,
			AllowedMetrics: []models.Metric{models.MetricAccel, models.MetricWeight},
		},
	},
	{
		ID:   "act-time-extension",
		Name: "Time Extension",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type:    models.EffectTimeMod,
			Seconds: 15,
		},
	},
	{
		ID:   "act-time-pressure",
		Name: "Time Pressure",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type:    models.EffectTimeMod,
			Seconds: -10,
		},
	},
	{
		ID:   "act-sabotage-crew",
		Name: "Sabotage Crew",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type: models.EffectDropCard,
		},
	},
	{
		ID:   "act-second-wind",
		Name: "Second Wind",
		Kind: models.KindAction,
		Effect: &models.Effect{
			Type: models.EffectExtraTurn,
		},
	},
}
