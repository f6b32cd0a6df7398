package models

type EffectType string

const (
	EffectTimeMod        EffectType = "time_mod"
	EffectMetricModTemp  EffectType = "metric_mod_temp"
	EffectMetricModPerm  EffectType = "metric_mod_perm"
	EffectOverrideMetric EffectType = "override_metric"
	EffectDropCard       EffectType = "drop_card"
	EffectExtraTurn      EffectType = "extra_turn"
)

type ModifierType string

const (
	ModifierPercentage ModifierType = "percentage"
	ModifierAbsolute   ModifierType = "absolute"
)

type EffectTarget string

const (
	TargetSelf     EffectTarget = "self"
	TargetOpponent EffectTarget = "opponent"
)

// Effect is the descriptor attached to an action-card definition. Type is the
// discriminant; only the fields belonging to the variant are populated:
//
//	time_mod:                          Seconds
//	metric_mod_temp, metric_mod_perm:  TargetMetric, Value, ModifierType, Target
//	override_metric:                   AllowedMetrics (empty means all five)
//	drop_card, extra_turn:             no fields
type Effect struct {
	Type EffectType `json:"type"`

	Seconds int `json:"seconds,omitempty"`

	TargetMetric Metric       `json:"targetMetric,omitempty"`
	Value        float64      `json:"value,omitempty"`
	ModifierType ModifierType `json:"modifierType,omitempty"`
	Target       EffectTarget `json:"target,omitempty"`

	AllowedMetrics []Metric `json:"allowedMetrics,omitempty"`
}

// PermittedMetrics returns the metric set an override_metric play may choose
// from. An empty AllowedMetrics list permits all five metrics.
func (e *Effect) PermittedMetrics() []Metric {
	if len(e.AllowedMetrics) > 0 {
		return e.AllowedMetrics
	}
	return AllMetrics
}

// Clone returns a deep copy of the effect.
func (e *Effect) Clone() *Effect {
	if e == nil {
		return nil
	}
	dup := *e
	if len(e.AllowedMetrics) > 0 {
		dup.AllowedMetrics = append([]Metric(nil), e.AllowedMetrics...)
	}
	return &dup
}

// PendingModifier records an effect queued against a player's next car play.
// SourcePlayerID and SourceCardID locate the action card on the source
// player's action-board slot when the modifier is applied.
type PendingModifier struct {
	SourcePlayerID string  `json:"sourcePlayerId"`
	SourceCardID   string  `json:"sourceCardId"`
	Effect         *Effect `json:"effect"`
}

// Clone returns a deep copy of the pending modifier.
func (p *PendingModifier) Clone() *PendingModifier {
	if p == nil {
		return nil
	}
	return &PendingModifier{
		SourcePlayerID: p.SourcePlayerID,
		SourceCardID:   p.SourceCardID,
		Effect:         p.Effect.Clone(),
	}
}
