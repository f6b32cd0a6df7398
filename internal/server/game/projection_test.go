package game

import (
	"encoding/json"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carduel/models"
)

func sampleCar(instanceID string, speed float64) *models.CardInstance {
	metrics := models.MetricVector{Speed: speed, HP: 300, Accel: 5, Weight: 1400, Year: 2015}
	cur := metrics
	orig := metrics
	return &models.CardInstance{
		InstanceID:      instanceID,
		DefinitionID:    "def-" + instanceID,
		Name:            "Car " + instanceID,
		Kind:            models.KindCar,
		CurrentMetrics:  &cur,
		OriginalMetrics: &orig,
	}
}

func sampleState() *models.GameState {
	return &models.GameState{
		GameID: "g-view",
		Players: []*models.PlayerState{
			{ID: "p1", Name: "Alice", Hand: []*models.CardInstance{sampleCar("a1", 200), sampleCar("a2", 210)}},
			{ID: "p2", Name: "Bob", Hand: []*models.CardInstance{sampleCar("b1", 190)}},
		},
		Seed:               0xDEADBEEF,
		CurrentPlayerID:    "p1",
		CurrentPlayerPhase: models.PhaseWaitingForInitialPlay,
		GameStatus:         models.StatusPlaying,
		CarCardsOnBoard:    map[string]*models.CardInstance{},
		ActionCardsOnBoard: map[string]*models.CardInstance{},
		DrawPile:           []*models.CardInstance{sampleCar("d1", 180), sampleCar("d2", 170)},
		DiscardPile:        []*models.CardInstance{},
		TurnStartTime:      1000,
		TurnTimeLimitMs:    60000,
		Log:                []string{"Game started"},
		PendingModifiers:   map[string]*models.PendingModifier{},
	}
}

func TestBuildViewMasksOpponentHand(t *testing.T) {
	data, err := BuildView(sampleState(), "p1")
	require.NoError(t, err)

	var view GameView
	require.NoError(t, json.Unmarshal(data, &view))

	require.Len(t, view.Players, 2)
	own := view.Players[0]
	opp := view.Players[1]

	require.Len(t, own.Hand, 2)
	assert.Equal(t, "def-a1", own.Hand[0].DefinitionID)
	assert.NotNil(t, own.Hand[0].CurrentMetrics)

	require.Len(t, opp.Hand, 1)
	assert.Equal(t, 1, opp.HandSize)
	assert.Equal(t, "b1", opp.Hand[0].InstanceID, "identity stays visible")
	assert.Equal(t, models.HiddenDefinitionID, opp.Hand[0].DefinitionID)
	assert.Empty(t, opp.Hand[0].Name)
	assert.Nil(t, opp.Hand[0].CurrentMetrics)
}

func TestBuildViewHidesServerOnlyFields(t *testing.T) {
	data, err := BuildView(sampleState(), "p1")
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.NotContains(t, raw, "seed")
	assert.NotContains(t, raw, "drawPile")

	var view GameView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, 2, view.DrawPileSize)
}

func TestBuildViewIsDeterministic(t *testing.T) {
	state := sampleState()
	a, err := BuildView(state, "p1")
	require.NoError(t, err)
	b, err := BuildView(state, "p1")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildViewShowsBoardToBothPlayers(t *testing.T) {
	state := sampleState()
	state.CarCardsOnBoard["p1"] = sampleCar("a9", 240)

	for _, viewer := range []string{"p1", "p2"} {
		data, err := BuildView(state, viewer)
		require.NoError(t, err)
		var view GameView
		require.NoError(t, json.Unmarshal(data, &view))
		require.NotNil(t, view.CarCardsOnBoard["p1"], "viewer %s", viewer)
		assert.Equal(t, "def-a9", view.CarCardsOnBoard["p1"].DefinitionID)
	}
}

// Discarded cards are public: both viewers see the full discard pile while
// the draw pile stays a bare count.
func TestBuildViewShowsDiscardPileToBothPlayers(t *testing.T) {
	state := sampleState()
	state.DiscardPile = append(state.DiscardPile, sampleCar("x1", 160))

	for _, viewer := range []string{"p1", "p2"} {
		data, err := BuildView(state, viewer)
		require.NoError(t, err)
		var view GameView
		require.NoError(t, json.Unmarshal(data, &view))
		require.Len(t, view.DiscardPile, 1, "viewer %s", viewer)
		assert.Equal(t, "def-x1", view.DiscardPile[0].DefinitionID)
		assert.NotNil(t, view.DiscardPile[0].CurrentMetrics)
	}
}

func TestDiffViewsPatchTransformsPrevIntoNext(t *testing.T) {
	state := sampleState()
	prev, err := BuildView(state, "p1")
	require.NoError(t, err)

	// p1 plays a car: hand shrinks, board fills, phase moves on.
	played := state.Players[0].RemoveFromHand("a1")
	state.CarCardsOnBoard["p1"] = played
	state.SelectedMetricForRound = models.MetricSpeed
	state.CurrentPlayerPhase = models.PhaseTurnEnded
	state.Log = append(state.Log, "Alice played Car a1")

	next, err := BuildView(state, "p1")
	require.NoError(t, err)

	patchData, err := DiffViews(prev, next)
	require.NoError(t, err)
	require.NotNil(t, patchData)

	patch, err := jsonpatch.DecodePatch(patchData)
	require.NoError(t, err)
	applied, err := patch.Apply(prev)
	require.NoError(t, err)
	assert.JSONEq(t, string(next), string(applied))
}

func TestDiffViewsNilForIdenticalViews(t *testing.T) {
	data, err := BuildView(sampleState(), "p2")
	require.NoError(t, err)

	patch, err := DiffViews(data, data)
	require.NoError(t, err)
	assert.Nil(t, patch)
}
