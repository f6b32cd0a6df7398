package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carduel/models"
)

func countInstances(state *models.GameState) int {
	n := len(state.DrawPile) + len(state.DiscardPile) +
		len(state.CarCardsOnBoard) + len(state.ActionCardsOnBoard)
	for _, p := range state.Players {
		n += len(p.Hand)
	}
	return n
}

// playOut drives a full match with the bot policy on both seats, checking
// card conservation after every transition.
func playOut(t *testing.T, e *Engine, seed uint32) *models.GameState {
	t.Helper()

	state, err := e.InitializeGame("g-sim", seed, [2]string{"p1", "p2"}, [2]string{"Alice", "Bob"}, 60000, 0)
	require.NoError(t, err)
	total := countInstances(state)

	now := int64(0)
	for i := 0; i < 10000 && state.GameStatus == models.StatusPlaying; i++ {
		now += 100
		var next *models.GameState

		switch state.CurrentPlayerPhase {
		case models.PhaseBothCardsOnBoard:
			next, err = e.ResolveRound(state)
		case models.PhaseTurnEnded:
			next, err = e.StartNextTurn(state, now)
		case models.PhaseRoundResolved:
			next, err = e.AdvanceTurn(state, now)
		default:
			move, ok := ChooseBotMove(state, state.CurrentPlayerID)
			if !ok {
				next, err = e.Forfeit(state, state.CurrentPlayerID, "no legal move")
			} else if move.Discard {
				next, err = e.DiscardCard(state, state.CurrentPlayerID, move.CardInstanceID)
			} else {
				next, err = e.PlayCard(state, state.CurrentPlayerID, move.CardInstanceID, move.Payload)
			}
		}
		require.NoError(t, err, "step %d in phase %s", i, state.CurrentPlayerPhase)
		require.Equal(t, total, countInstances(next), "card conservation broken at step %d", i)
		state = next
	}

	require.NotEqual(t, models.StatusPlaying, state.GameStatus, "game did not terminate")
	return state
}

func TestFullGameTerminates(t *testing.T) {
	e := New(bigCatalog(12))

	final := playOut(t, e, 42)
	if final.GameStatus == models.StatusWin {
		assert.NotNil(t, final.PlayerByID(final.WinnerID))
	}
}

func TestFullGameIsDeterministic(t *testing.T) {
	e := New(bigCatalog(12))

	a := playOut(t, e, 1234)
	b := playOut(t, e, 1234)
	assert.Equal(t, mustJSON(t, a), mustJSON(t, b))
}

func TestDifferentSeedsDiverge(t *testing.T) {
	e := New(bigCatalog(12))

	a := playOut(t, e, 1)
	b := playOut(t, e, 2)
	// The shuffled deals differ, so the transcripts differ.
	assert.NotEqual(t, mustJSON(t, a), mustJSON(t, b))
}
