package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carduel/models"
)

func TestPlayCardTurnAndHandChecks(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)

	_, err := e.PlayCard(state, "p2", "i-car-puma", models.PlayPayload{SelectedMetric: models.MetricSpeed})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = e.PlayCard(state, "p1", "i-car-puma", models.PlayPayload{SelectedMetric: models.MetricSpeed})
	assert.ErrorIs(t, err, ErrCardNotInHand)

	ended, err := e.Forfeit(state, "p1", "test")
	require.NoError(t, err)
	_, err = e.PlayCard(ended, "p1", "i-car-falcon", models.PlayPayload{SelectedMetric: models.MetricSpeed})
	assert.ErrorIs(t, err, ErrGameNotInProgress)
}

func TestRejectedPlayLeavesStateUntouched(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)
	before := mustJSON(t, state)

	_, err := e.PlayCard(state, "p1", "i-car-falcon", models.PlayPayload{})
	assert.ErrorIs(t, err, ErrMetricRequired)
	assert.Equal(t, before, mustJSON(t, state))
}

func TestPlayCarCardOpensRound(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)

	_, err := e.PlayCard(state, "p1", "i-car-falcon", models.PlayPayload{SelectedMetric: "mileage"})
	assert.ErrorIs(t, err, ErrInvalidMetric)

	next, err := e.PlayCard(state, "p1", "i-car-falcon", models.PlayPayload{SelectedMetric: models.MetricSpeed})
	require.NoError(t, err)
	assert.Equal(t, models.MetricSpeed, next.SelectedMetricForRound)
	assert.Equal(t, models.PhaseTurnEnded, next.CurrentPlayerPhase)
	assert.Empty(t, next.Players[0].Hand)
	require.NotNil(t, next.CarCardsOnBoard["p1"])
	assert.Equal(t, "i-car-falcon", next.CarCardsOnBoard["p1"].InstanceID)
	assert.Equal(t, "i-car-falcon", next.LastPlayedCardID)
}

func TestSecondCarCardCompletesBoard(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)
	state.CarCardsOnBoard["p1"] = inst(t, e, "car-falcon")
	state.SelectedMetricForRound = models.MetricSpeed
	state.CurrentPlayerID = "p2"

	next, err := e.PlayCard(state, "p2", "i-car-puma", models.PlayPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.PhaseBothCardsOnBoard, next.CurrentPlayerPhase)
}

func TestTimeModAdjustsLimitWithFloor(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "act-fast"), inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)

	next, err := e.PlayCard(state, "p1", "i-act-fast", models.PlayPayload{})
	require.NoError(t, err)
	assert.EqualValues(t, 75000, next.TurnTimeLimitMs)
	assert.Equal(t, models.PhaseWaitingForCarCardAfterAction, next.CurrentPlayerPhase)
	require.NotNil(t, next.ActionCardsOnBoard["p1"])

	// A second action in the same turn is not allowed.
	state2 := buildState(
		[]*models.CardInstance{inst(t, e, "act-slow"), inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)
	state2.CurrentPlayerPhase = models.PhaseWaitingForCarCardAfterAction
	_, err = e.PlayCard(state2, "p1", "i-act-slow", models.PlayPayload{})
	assert.ErrorIs(t, err, ErrWrongPhase)

	// A heavy penalty bottoms out at the floor instead of going negative.
	state3 := buildState(
		[]*models.CardInstance{inst(t, e, "act-slow"), inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)
	next3, err := e.PlayCard(state3, "p1", "i-act-slow", models.PlayPayload{})
	require.NoError(t, err)
	assert.EqualValues(t, 5000, next3.TurnTimeLimitMs)
}

func TestOverrideMetricValidatesChoice(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "act-pick"), inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)

	_, err := e.PlayCard(state, "p1", "i-act-pick", models.PlayPayload{})
	assert.ErrorIs(t, err, ErrMetricRequired)

	_, err = e.PlayCard(state, "p1", "i-act-pick", models.PlayPayload{SelectedMetric: models.MetricYear})
	assert.ErrorIs(t, err, ErrInvalidMetric)

	next, err := e.PlayCard(state, "p1", "i-act-pick", models.PlayPayload{SelectedMetric: models.MetricSpeed})
	require.NoError(t, err)
	assert.Equal(t, models.MetricSpeed, next.SelectedMetricForRound)

	// The following car play must not ask for a metric again.
	next2, err := e.PlayCard(next, "p1", "i-car-falcon", models.PlayPayload{})
	require.NoError(t, err)
	assert.Equal(t, models.MetricSpeed, next2.SelectedMetricForRound)
}

func TestMetricModifierQueuesAndConflicts(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "act-curse"), inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)

	next, err := e.PlayCard(state, "p1", "i-act-curse", models.PlayPayload{})
	require.NoError(t, err)
	pending := next.PendingModifiers["p2"]
	require.NotNil(t, pending, "opponent-targeted modifier keys on the opponent")
	assert.Equal(t, "p1", pending.SourcePlayerID)

	// A second modifier against the same target is rejected.
	withSecond := next.Clone()
	withSecond.CurrentPlayerID = "p2"
	withSecond.CurrentPlayerPhase = models.PhaseWaitingForInitialPlay
	boost := inst(t, e, "act-boost")
	withSecond.Players[1].Hand = append(withSecond.Players[1].Hand, boost)
	_, err = e.PlayCard(withSecond, "p2", boost.InstanceID, models.PlayPayload{})
	assert.ErrorIs(t, err, ErrModifierPending)
}

func TestModifierRejectedWhenTargetCarAlreadyPlayed(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "act-curse"), inst(t, e, "car-puma")},
	)
	state.CarCardsOnBoard["p1"] = inst(t, e, "car-rhino")
	state.SelectedMetricForRound = models.MetricHP
	state.CurrentPlayerID = "p2"

	_, err := e.PlayCard(state, "p2", "i-act-curse", models.PlayPayload{})
	assert.ErrorIs(t, err, ErrTargetAlreadyPlayed)
}

func TestDropCardIsDeterministic(t *testing.T) {
	e := testEngine()
	build := func() *models.GameState {
		return buildState(
			[]*models.CardInstance{inst(t, e, "act-steal"), inst(t, e, "car-falcon")},
			[]*models.CardInstance{inst(t, e, "car-puma"), inst(t, e, "car-rhino"), inst(t, e, "car-tortoise")},
		)
	}

	a, err := e.PlayCard(build(), "p1", "i-act-steal", models.PlayPayload{})
	require.NoError(t, err)
	b, err := e.PlayCard(build(), "p1", "i-act-steal", models.PlayPayload{})
	require.NoError(t, err)

	require.Len(t, a.DiscardPile, 1)
	assert.Equal(t, a.DiscardPile[0].InstanceID, b.DiscardPile[0].InstanceID)
	assert.Len(t, a.Players[1].Hand, 2)
}

func TestDropCardAgainstEmptyHand(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "act-steal"), inst(t, e, "car-falcon")},
		[]*models.CardInstance{},
	)

	next, err := e.PlayCard(state, "p1", "i-act-steal", models.PlayPayload{})
	require.NoError(t, err)
	assert.Empty(t, next.DiscardPile)
}

func TestExtraTurnFlagCarriesToAdvance(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "act-again"), inst(t, e, "car-falcon")},
		[]*models.CardInstance{inst(t, e, "car-puma")},
	)

	next, err := e.PlayCard(state, "p1", "i-act-again", models.PlayPayload{})
	require.NoError(t, err)
	assert.Equal(t, "p1", next.ExtraTurnPlayerID)
}

func TestDiscardCardResolvesMustDiscard(t *testing.T) {
	e := testEngine()
	state := buildState(
		[]*models.CardInstance{inst(t, e, "car-falcon"), inst(t, e, "car-puma")},
		[]*models.CardInstance{inst(t, e, "car-rhino")},
	)
	state.CurrentPlayerPhase = models.PhaseMustDiscard

	_, err := e.DiscardCard(state, "p2", "i-car-rhino")
	assert.ErrorIs(t, err, ErrNotYourTurn)

	_, err = e.DiscardCard(state, "p1", "i-car-missing")
	assert.ErrorIs(t, err, ErrCardNotInHand)

	next, err := e.DiscardCard(state, "p1", "i-car-puma")
	require.NoError(t, err)
	assert.Equal(t, models.PhaseRoundResolved, next.CurrentPlayerPhase)
	assert.Len(t, next.Players[0].Hand, 1)
	require.Len(t, next.DiscardPile, 1)
	assert.Equal(t, "i-car-puma", next.DiscardPile[0].InstanceID)
}
