package models

type GameStatus string

const (
	StatusPlaying GameStatus = "playing"
	StatusWin     GameStatus = "win"
	StatusTie     GameStatus = "tie"
)

type TurnPhase string

const (
	PhaseWaitingForInitialPlay        TurnPhase = "waiting_for_initial_play"
	PhaseWaitingForCarCardAfterAction TurnPhase = "waiting_for_car_card_after_action"
	PhaseBothCardsOnBoard             TurnPhase = "both_cards_on_board"
	PhaseMustDiscard                  TurnPhase = "must_discard"
	PhaseRoundResolved                TurnPhase = "round_resolved"
	PhaseTurnEnded                    TurnPhase = "turn_ended"
)

// HandLimit is the maximum number of cards a hand may hold after a round
// resolves; exceeding it forces a discard.
const HandLimit = 10

// PlayerState is one side of a match. Hand order is stable: cards are
// appended when gained and removed by instance identifier.
type PlayerState struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Hand  []*CardInstance `json:"hand"`
	Score int             `json:"score"`
}

// CardInHand returns the card with the given instance ID, or nil.
func (p *PlayerState) CardInHand(instanceID string) *CardInstance {
	for _, c := range p.Hand {
		if c.InstanceID == instanceID {
			return c
		}
	}
	return nil
}

// RemoveFromHand removes and returns the card with the given instance ID.
// Returns nil if the card is not in the hand.
func (p *PlayerState) RemoveFromHand(instanceID string) *CardInstance {
	for i, c := range p.Hand {
		if c.InstanceID == instanceID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// CarCount returns the number of car cards in the hand.
func (p *PlayerState) CarCount() int {
	n := 0
	for _, c := range p.Hand {
		if c.IsCar() {
			n++
		}
	}
	return n
}

// FirstCar returns the first car card in hand order, or nil.
func (p *PlayerState) FirstCar() *CardInstance {
	for _, c := range p.Hand {
		if c.IsCar() {
			return c
		}
	}
	return nil
}

func (p *PlayerState) clone() *PlayerState {
	dup := &PlayerState{
		ID:    p.ID,
		Name:  p.Name,
		Score: p.Score,
		Hand:  make([]*CardInstance, len(p.Hand)),
	}
	for i, c := range p.Hand {
		dup.Hand[i] = c.Clone()
	}
	return dup
}

// GameState is the complete authoritative state of one match. Engine
// operations treat it as an immutable value: they deep-copy, mutate the copy,
// and return it.
type GameState struct {
	GameID   string         `json:"gameId"`
	Players  []*PlayerState `json:"players"` // always exactly two
	Seed     uint32         `json:"seed"`

	CurrentPlayerID    string     `json:"currentPlayerId"`
	CurrentPlayerPhase TurnPhase  `json:"currentPlayerPhase"`
	GameStatus         GameStatus `json:"gameStatus"`
	RoundWinnerID      string     `json:"roundWinnerId,omitempty"`
	WinnerID           string     `json:"winnerId,omitempty"`
	ExtraTurnPlayerID  string     `json:"extraTurnPlayerId,omitempty"`

	SelectedMetricForRound Metric `json:"selectedMetricForRound,omitempty"`

	// Per-player board slots, keyed by player ID.
	CarCardsOnBoard    map[string]*CardInstance `json:"carCardsOnBoard"`
	ActionCardsOnBoard map[string]*CardInstance `json:"actionCardsOnBoard"`

	DrawPile    []*CardInstance `json:"drawPile"`
	DiscardPile []*CardInstance `json:"discardPile"`

	LastPlayedCardID string `json:"lastPlayedCardId,omitempty"`

	TurnStartTime   int64 `json:"turnStartTime"`   // unix ms
	TurnTimeLimitMs int64 `json:"turnTimeLimitMs"`

	Log []string `json:"log"`

	// At most one pending effect per target player, keyed by that player's ID.
	PendingModifiers map[string]*PendingModifier `json:"pendingModifiers"`
}

// PlayerByID returns the player with the given ID, or nil.
func (g *GameState) PlayerByID(id string) *PlayerState {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// OpponentOf returns the other player, or nil for an unknown ID.
func (g *GameState) OpponentOf(id string) *PlayerState {
	for _, p := range g.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of the state.
func (g *GameState) Clone() *GameState {
	dup := &GameState{
		GameID:                 g.GameID,
		Seed:                   g.Seed,
		CurrentPlayerID:        g.CurrentPlayerID,
		CurrentPlayerPhase:     g.CurrentPlayerPhase,
		GameStatus:             g.GameStatus,
		RoundWinnerID:          g.RoundWinnerID,
		WinnerID:               g.WinnerID,
		ExtraTurnPlayerID:      g.ExtraTurnPlayerID,
		SelectedMetricForRound: g.SelectedMetricForRound,
		LastPlayedCardID:       g.LastPlayedCardID,
		TurnStartTime:          g.TurnStartTime,
		TurnTimeLimitMs:        g.TurnTimeLimitMs,
		Players:                make([]*PlayerState, len(g.Players)),
		CarCardsOnBoard:        make(map[string]*CardInstance, len(g.CarCardsOnBoard)),
		ActionCardsOnBoard:     make(map[string]*CardInstance, len(g.ActionCardsOnBoard)),
		DrawPile:               make([]*CardInstance, len(g.DrawPile)),
		DiscardPile:            make([]*CardInstance, len(g.DiscardPile)),
		Log:                    append([]string(nil), g.Log...),
		PendingModifiers:       make(map[string]*PendingModifier, len(g.PendingModifiers)),
	}
	for i, p := range g.Players {
		dup.Players[i] = p.clone()
	}
	for id, c := range g.CarCardsOnBoard {
		dup.CarCardsOnBoard[id] = c.Clone()
	}
	for id, c := range g.ActionCardsOnBoard {
		dup.ActionCardsOnBoard[id] = c.Clone()
	}
	for i, c := range g.DrawPile {
		dup.DrawPile[i] = c.Clone()
	}
	for i, c := range g.DiscardPile {
		dup.DiscardPile[i] = c.Clone()
	}
	for id, m := range g.PendingModifiers {
		dup.PendingModifiers[id] = m.Clone()
	}
	return dup
}
