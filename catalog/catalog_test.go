package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carduel/models"
)

func TestLoadFileSkipsInvalidCars(t *testing.T) {
	defs, err := LoadFile(filepath.Join("testdata", "cards.json"))
	require.NoError(t, err)

	cars := 0
	for _, d := range defs {
		if d.Kind != models.KindCar {
			continue
		}
		cars++
		assert.NotEmpty(t, d.ID)
		require.NotNil(t, d.Metrics)
		for _, m := range models.AllMetrics {
			assert.Greater(t, d.Metrics.Get(m), 0.0, "car %s metric %s", d.ID, m)
		}
	}
	// The fixture has 13 entries, three of which are invalid.
	assert.Equal(t, 10, cars)
}

func TestLoadFileAppendsActionDefinitions(t *testing.T) {
	defs, err := LoadFile(filepath.Join("testdata", "cards.json"))
	require.NoError(t, err)

	actions := map[string]*models.CardDefinition{}
	for _, d := range defs {
		if d.Kind == models.KindAction {
			actions[d.ID] = d
		}
	}
	assert.Len(t, actions, len(actionDefinitions))
	for _, d := range actions {
		require.NotNil(t, d.Effect, "action %s has no effect", d.ID)
	}
}

func TestLoadFileFailsWhenNoValidCars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cars":[{"id":"x","speed":0,"hp":1,"accel":1,"weight":1,"year":1}]}`), 0o644))

	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestLoadFileFailsOnMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestAssignRanksOrdering(t *testing.T) {
	defs, err := LoadFile(filepath.Join("testdata", "cards.json"))
	require.NoError(t, err)

	byID := map[string]*models.CardDefinition{}
	for _, d := range defs {
		byID[d.ID] = d
	}

	apex := byID["car-apex-gt"]
	micro := byID["car-microvan"]
	require.NotNil(t, apex)
	require.NotNil(t, micro)

	// The strongest car in the fixture lands in the top bucket and the
	// weakest in the bottom one.
	assert.Equal(t, models.RankS, apex.Rank)
	assert.Equal(t, models.RankD, micro.Rank)
}

func TestAssignRanksUniformFieldDoesNotPanic(t *testing.T) {
	same := models.MetricVector{Speed: 200, HP: 300, Accel: 5, Weight: 1500, Year: 2020}
	cars := []*models.CardDefinition{
		{ID: "a", Kind: models.KindCar, Metrics: &same},
		{ID: "b", Kind: models.KindCar, Metrics: &same},
	}
	assignRanks(cars)
	for _, c := range cars {
		assert.NotEmpty(t, c.Rank)
	}
}
