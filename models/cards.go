package models

type CardKind string

const (
	KindCar    CardKind = "car"
	KindAction CardKind = "action"
)

// HiddenDefinitionID is the sentinel definition identifier used in client
// projections for cards the viewer is not allowed to see.
const HiddenDefinitionID = "card-back"

type Metric string

const (
	MetricSpeed  Metric = "speed"
	MetricHP     Metric = "hp"
	MetricAccel  Metric = "accel"
	MetricWeight Metric = "weight"
	MetricYear   Metric = "year"
)

// AllMetrics lists the valid car metrics in their canonical order.
var AllMetrics = []Metric{MetricSpeed, MetricHP, MetricAccel, MetricWeight, MetricYear}

// IsValidMetric reports whether name is one of the five car metrics.
func IsValidMetric(name Metric) bool {
	for _, m := range AllMetrics {
		if m == name {
			return true
		}
	}
	return false
}

// LowerWins reports whether a smaller value is better for the given metric.
// Acceleration is measured in seconds to 100 km/h and weight in kilograms.
func LowerWins(m Metric) bool {
	return m == MetricAccel || m == MetricWeight
}

// MetricVector holds the five numeric attributes of a car.
type MetricVector struct {
	Speed  float64 `json:"speed"`
	HP     float64 `json:"hp"`
	Accel  float64 `json:"accel"`
	Weight float64 `json:"weight"`
	Year   float64 `json:"year"`
}

// Get returns the value for the named metric. Unknown names return 0.
func (v MetricVector) Get(m Metric) float64 {
	switch m {
	case MetricSpeed:
		return v.Speed
	case MetricHP:
		return v.HP
	case MetricAccel:
		return v.Accel
	case MetricWeight:
		return v.Weight
	case MetricYear:
		return v.Year
	}
	return 0
}

// Set returns a copy of the vector with the named metric replaced.
func (v MetricVector) Set(m Metric, value float64) MetricVector {
	switch m {
	case MetricSpeed:
		v.Speed = value
	case MetricHP:
		v.HP = value
	case MetricAccel:
		v.Accel = value
	case MetricWeight:
		v.Weight = value
	case MetricYear:
		v.Year = value
	}
	return v
}

type Rank string

const (
	RankS Rank = "S"
	RankA Rank = "A"
	RankB Rank = "B"
	RankC Rank = "C"
	RankD Rank = "D"
)

// CardDefinition is a static, catalog-loaded card. Car definitions carry a
// metric vector; action definitions carry an effect. Definitions are immutable
// after the catalog is loaded.
type CardDefinition struct {
	ID      string        `json:"id"`
	Name    string        `json:"name"`
	Kind    CardKind      `json:"kind"`
	Metrics *MetricVector `json:"metrics,omitempty"`
	Effect  *Effect       `json:"effect,omitempty"`
	Rank    Rank          `json:"rank,omitempty"` // informational only
}

// CardInstance is a runtime copy of a definition with its own identity.
// Identity is preserved across hand, board, and discard transitions.
type CardInstance struct {
	InstanceID   string   `json:"instanceId"`
	DefinitionID string   `json:"definitionId"`
	Name         string   `json:"name,omitempty"`
	Kind         CardKind `json:"kind,omitempty"`

	// Car-only fields. OriginalMetrics never mutates after creation;
	// CurrentMetrics mutates only via effect application.
	CurrentMetrics  *MetricVector `json:"currentMetrics,omitempty"`
	OriginalMetrics *MetricVector `json:"originalMetrics,omitempty"`

	IsModifiedPermanently bool `json:"isModifiedPermanently,omitempty"`
}

// IsCar reports whether the instance is a car card.
func (c *CardInstance) IsCar() bool {
	return c.Kind == KindCar
}

// Clone returns a deep copy of the instance.
func (c *CardInstance) Clone() *CardInstance {
	if c == nil {
		return nil
	}
	dup := *c
	if c.CurrentMetrics != nil {
		m := *c.CurrentMetrics
		dup.CurrentMetrics = &m
	}
	if c.OriginalMetrics != nil {
		m := *c.OriginalMetrics
		dup.OriginalMetrics = &m
	}
	return &dup
}
