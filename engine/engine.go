package engine

import (
	"fmt"
	"sort"

	"carduel/models"
)

// Engine is the pure rules engine. It holds only the immutable card catalog;
// every operation takes a game state and returns a fresh one, leaving the
// input untouched. A rejected operation returns an error and no new state.
type Engine struct {
	defs map[string]*models.CardDefinition
}

// New builds an engine over the loaded card catalog.
func New(defs []*models.CardDefinition) *Engine {
	byID := make(map[string]*models.CardDefinition, len(defs))
	for _, d := range defs {
		byID[d.ID] = d
	}
	return &Engine{defs: byID}
}

// Definition returns the catalog definition for an ID.
func (e *Engine) Definition(id string) (*models.CardDefinition, bool) {
	d, ok := e.defs[id]
	return d, ok
}

const initialHandSize = 5

// minTurnTimeMs is the floor a time_mod penalty cannot push the global turn
// limit below.
const minTurnTimeMs = 5000

// InitializeGame mints one instance per catalog definition, shuffles them
// with the seeded generator, deals the opening hands, and returns the initial
// state. Instance identifiers are derived from definition identifiers so two
// runs from the same seed are byte-identical.
func (e *Engine) InitializeGame(gameID string, seed uint32, playerIDs, playerNames [2]string, turnTimeLimitMs int64, now int64) (*models.GameState, error) {
	if playerIDs[0] == playerIDs[1] {
		return nil, fmt.Errorf("players must be distinct")
	}

	ids := make([]string, 0, len(e.defs))
	for id := range e.defs {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	instances := make([]*models.CardInstance, 0, len(ids))
	for _, id := range ids {
		def := e.defs[id]
		inst := &models.CardInstance{
			InstanceID:   "i-" + def.ID,
			DefinitionID: def.ID,
			Name:         def.Name,
			Kind:         def.Kind,
		}
		if def.Kind == models.KindCar {
			cur := *def.Metrics
			orig := *def.Metrics
			inst.CurrentMetrics = &cur
			inst.OriginalMetrics = &orig
		}
		instances = append(instances, inst)
	}

	if len(instances) < 2*initialHandSize {
		return nil, fmt.Errorf("catalog too small: %d cards, need at least %d", len(instances), 2*initialHandSize)
	}

	rng := newLFSR(seed)
	rng.shuffle(len(instances), func(i, j int) {
		instances[i], instances[j] = instances[j], instances[i]
	})

	state := &models.GameState{
		GameID: gameID,
		Seed:   seed,
		Players: []*models.PlayerState{
			{ID: playerIDs[0], Name: playerNames[0], Hand: []*models.CardInstance{}},
			{ID: playerIDs[1], Name: playerNames[1], Hand: []*models.CardInstance{}},
		},
		CurrentPlayerID:    playerIDs[0],
		CurrentPlayerPhase: models.PhaseWaitingForInitialPlay,
		GameStatus:         models.StatusPlaying,
		CarCardsOnBoard:    map[string]*models.CardInstance{},
		ActionCardsOnBoard: map[string]*models.CardInstance{},
		DrawPile:           []*models.CardInstance{},
		DiscardPile:        []*models.CardInstance{},
		TurnStartTime:      now,
		TurnTimeLimitMs:    turnTimeLimitMs,
		Log:                []string{},
		PendingModifiers:   map[string]*models.PendingModifier{},
	}

	// Deal alternately so neither player gets a run of the shuffled deck.
	dealt := 0
	for i := 0; i < initialHandSize; i++ {
		for _, p := range state.Players {
			p.Hand = append(p.Hand, instances[dealt])
			dealt++
		}
	}
	state.DrawPile = instances[dealt:]

	state.Log = append(state.Log, fmt.Sprintf("Game started: %s vs %s", playerNames[0], playerNames[1]))
	return state, nil
}

// StartNextTurn rotates play to the opponent after a turn_ended phase. The
// round (and any selected metric) carries over.
func (e *Engine) StartNextTurn(state *models.GameState, now int64) (*models.GameState, error) {
	if state.GameStatus != models.StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	if state.CurrentPlayerPhase != models.PhaseTurnEnded {
		return nil, fmt.Errorf("%w: expected turn_ended, got %s", ErrWrongPhase, state.CurrentPlayerPhase)
	}

	next := state.Clone()
	opponent := next.OpponentOf(next.CurrentPlayerID)
	if opponent == nil {
		return nil, inconsistency("no opponent for player %s", next.CurrentPlayerID)
	}
	next.CurrentPlayerID = opponent.ID
	next.CurrentPlayerPhase = models.PhaseWaitingForInitialPlay
	next.TurnStartTime = now

	e.checkGameEnd(next)
	return next, nil
}

// AdvanceTurn moves from round_resolved into the next turn: the extra-turn
// holder goes first if set, else the round winner, else (on a tie) the
// opponent of the current player. Each player then draws one card while under
// the hand limit.
func (e *Engine) AdvanceTurn(state *models.GameState, now int64) (*models.GameState, error) {
	if state.GameStatus != models.StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	if state.CurrentPlayerPhase != models.PhaseRoundResolved {
		return nil, fmt.Errorf("%w: expected round_resolved, got %s", ErrWrongPhase, state.CurrentPlayerPhase)
	}

	next := state.Clone()

	var nextPlayerID string
	switch {
	case next.ExtraTurnPlayerID != "":
		nextPlayerID = next.ExtraTurnPlayerID
		next.ExtraTurnPlayerID = ""
	case next.RoundWinnerID != "":
		nextPlayerID = next.RoundWinnerID
	default:
		opponent := next.OpponentOf(next.CurrentPlayerID)
		if opponent == nil {
			return nil, inconsistency("no opponent for player %s", next.CurrentPlayerID)
		}
		nextPlayerID = opponent.ID
	}
	if next.PlayerByID(nextPlayerID) == nil {
		return nil, inconsistency("unknown next player %s", nextPlayerID)
	}

	for _, p := range next.Players {
		if len(p.Hand) < models.HandLimit && len(next.DrawPile) > 0 {
			drawn := next.DrawPile[0]
			next.DrawPile = next.DrawPile[1:]
			p.Hand = append(p.Hand, drawn)
			next.Log = append(next.Log, fmt.Sprintf("%s drew a card", p.Name))
		}
	}

	next.CurrentPlayerID = nextPlayerID
	next.CurrentPlayerPhase = models.PhaseWaitingForInitialPlay
	next.SelectedMetricForRound = ""
	next.RoundWinnerID = ""
	next.TurnStartTime = now

	e.checkGameEnd(next)
	return next, nil
}

// Forfeit ends the match in the opponent's favor. Used for disconnects,
// timeouts, and bot failures. A no-op error is returned when the match has
// already ended.
func (e *Engine) Forfeit(state *models.GameState, playerID, reason string) (*models.GameState, error) {
	if state.GameStatus != models.StatusPlaying {
		return nil, ErrGameNotInProgress
	}
	loser := state.PlayerByID(playerID)
	opponent := state.OpponentOf(playerID)
	if loser == nil || opponent == nil {
		return nil, inconsistency("unknown player %s", playerID)
	}

	next := state.Clone()
	next.GameStatus = models.StatusWin
	next.WinnerID = opponent.ID
	next.Log = append(next.Log, fmt.Sprintf("%s forfeits (%s); %s wins", loser.Name, reason, opponent.Name))
	return next, nil
}

// checkGameEnd applies the game-end conditions in place. Must run only after
// any pending round resolution has been applied.
func (e *Engine) checkGameEnd(state *models.GameState) {
	if state.GameStatus != models.StatusPlaying {
		return
	}

	// A player who must produce a car but has none left loses.
	if state.CurrentPlayerPhase == models.PhaseWaitingForInitialPlay ||
		state.CurrentPlayerPhase == models.PhaseWaitingForCarCardAfterAction {
		current := state.PlayerByID(state.CurrentPlayerID)
		opponent := state.OpponentOf(state.CurrentPlayerID)
		if current != nil && opponent != nil && current.CarCount() == 0 {
			state.GameStatus = models.StatusWin
			state.WinnerID = opponent.ID
			state.Log = append(state.Log, fmt.Sprintf("%s has no car cards left; %s wins", current.Name, opponent.Name))
			return
		}
	}

	// Cards still on the board are still in play, so a round in flight can
	// never be declared exhausted.
	if len(state.DrawPile) == 0 && len(state.CarCardsOnBoard) == 0 && len(state.ActionCardsOnBoard) == 0 {
		empty := true
		for _, p := range state.Players {
			if len(p.Hand) > 0 {
				empty = false
				break
			}
		}
		if empty {
			state.GameStatus = models.StatusTie
			state.Log = append(state.Log, "All cards exhausted; the game is a tie")
		}
	}
}
