package catalog

import (
	"sort"

	"carduel/models"
)

// Metric weights for the informational rank score. Higher normalized values
// are better except accel and weight, which are inverted before weighting.
var rankWeights = map[models.Metric]float64{
	models.MetricSpeed:  0.25,
	models.MetricHP:     0.25,
	models.MetricAccel:  0.20,
	models.MetricWeight: 0.10,
	models.MetricYear:   0.20,
}

// assignRanks scores every car by normalized weighted metrics and buckets the
// field into S/A/B/C/D by quantile. Ranks are informational only; the rules
// engine never reads them.
func assignRanks(cars []*models.CardDefinition) {
	if len(cars) == 0 {
		return
	}

	mins := map[models.Metric]float64{}
	maxs := map[models.Metric]float64{}
	for _, m := range models.AllMetrics {
		mins[m] = cars[0].Metrics.Get(m)
		maxs[m] = cars[0].Metrics.Get(m)
	}
	for _, c := range cars[1:] {
		for _, m := range models.AllMetrics {
			v := c.Metrics.Get(m)
			if v < mins[m] {
				mins[m] = v
			}
			if v > maxs[m] {
				maxs[m] = v
			}
		}
	}

	scores := make(map[string]float64, len(cars))
	for _, c := range cars {
		score := 0.0
		for _, m := range models.AllMetrics {
			span := maxs[m] - mins[m]
			norm := 0.5
			if span > 0 {
				norm = (c.Metrics.Get(m) - mins[m]) / span
			}
			if models.LowerWins(m) {
				norm = 1 - norm
			}
			score += rankWeights[m] * norm
		}
		scores[c.ID] = score
	}

	ordered := make([]*models.CardDefinition, len(cars))
	copy(ordered, cars)
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i].ID] > scores[ordered[j].ID]
	})

	for i, c := range ordered {
		q := float64(i) / float64(len(ordered))
		switch {
		case q < 0.10:
			c.Rank = models.RankS
		case q < 0.30:
			c.Rank = models.RankA
		case q < 0.60:
			c.Rank = models.RankB
		case q < 0.85:
			c.Rank = models.RankC
		default:
			c.Rank = models.RankD
		}
	}
}
