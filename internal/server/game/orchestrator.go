// Package game runs matches: it owns the authoritative state of each match,
// serializes all mutations behind a per-match lock, and publishes per-viewer
// projections over the players' channels.
package game

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"carduel/engine"
	"carduel/models"
)

// Conn is the slice of a client channel the orchestrator needs. Bots and
// disconnected players have no Conn.
type Conn interface {
	SendEvent(event string, payload any)
}

// Participant is one seat of a match.
type Participant struct {
	ID    string
	Name  string
	IsBot bool
	Conn  Conn
}

// Config carries the orchestrator pacing knobs.
type Config struct {
	TurnTimeLimitMs int64
	ResolveDelay    time.Duration
	AdvanceDelay    time.Duration
	BotDelay        time.Duration
}

// DefaultConfig matches the pacing the clients are tuned for.
func DefaultConfig() Config {
	return Config{
		TurnTimeLimitMs: 60_000,
		ResolveDelay:    time.Second,
		AdvanceDelay:    1500 * time.Millisecond,
		BotDelay:        1500 * time.Millisecond,
	}
}

// Match is one running game. All fields behind mu; the generation counter
// invalidates every scheduled callback whenever the state changes under it.
type Match struct {
	ID string

	mu           sync.Mutex
	eng          *engine.Engine
	state        *models.GameState
	participants map[string]Participant
	conns        map[string]Conn
	lastView     map[string][]byte
	gen          int
	ended        bool

	cfg       Config
	log       *zap.Logger
	startedAt time.Time
	onEnd     func(m *Match, final *models.GameState, startedAt, endedAt time.Time)
}

// NewMatch initializes the game, announces it to both channels, publishes the
// opening state, and arms the first turn timer.
func NewMatch(
	id string,
	eng *engine.Engine,
	seed uint32,
	players [2]Participant,
	cfg Config,
	log *zap.Logger,
	onEnd func(m *Match, final *models.GameState, startedAt, endedAt time.Time),
) (*Match, error) {
	state, err := eng.InitializeGame(
		id,
		seed,
		[2]string{players[0].ID, players[1].ID},
		[2]string{players[0].Name, players[1].Name},
		cfg.TurnTimeLimitMs,
		nowMs(),
	)
	if err != nil {
		return nil, err
	}

	m := &Match{
		ID:           id,
		eng:          eng,
		state:        state,
		participants: map[string]Participant{},
		conns:        map[string]Conn{},
		lastView:     map[string][]byte{},
		cfg:          cfg,
		log:          log.With(zap.String("gameId", id)),
		startedAt:    time.Now(),
		onEnd:        onEnd,
	}

	start := models.GameStart{GameID: id}
	for _, p := range players {
		m.participants[p.ID] = p
		m.conns[p.ID] = p.Conn
		start.Players = append(start.Players, models.GameStartPlayer{
			UserID:   p.ID,
			Username: p.Name,
			IsBot:    p.IsBot,
		})
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendToAllLocked(models.EventGameStart, start)
	m.publishLocked()
	m.scheduleLocked()

	m.log.Info("match started",
		zap.String("playerA", players[0].ID),
		zap.String("playerB", players[1].ID),
		zap.Uint32("seed", seed))
	return m, nil
}

// HasPlayer reports whether the given user holds a seat in this match.
func (m *Match) HasPlayer(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.participants[playerID]
	return ok
}

// PlayCard applies a play (or, in the discard phase, a discard) submitted by
// a player. Rejections go back to the submitting channel only.
func (m *Match) PlayCard(playerID string, req models.PlayCardRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended {
		return
	}

	var next *models.GameState
	var err error
	if m.state.CurrentPlayerPhase == models.PhaseMustDiscard {
		next, err = m.eng.DiscardCard(m.state, playerID, req.CardInstanceID)
	} else {
		next, err = m.eng.PlayCard(m.state, playerID, req.CardInstanceID, req.Payload)
	}
	if err != nil {
		m.rejectLocked(playerID, req.CardInstanceID, err)
		return
	}
	m.applyLocked(next)
}

// AdvanceTurn handles an explicit client advance out of a finished turn or a
// resolved round. The same transitions also fire on a timer, so this mostly
// lets an impatient client skip the pause. A call arriving after the phase
// has already moved on is a no-op, so clients may send it freely.
func (m *Match) AdvanceTurn(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended {
		return
	}

	var next *models.GameState
	var err error
	switch m.state.CurrentPlayerPhase {
	case models.PhaseTurnEnded:
		next, err = m.eng.StartNextTurn(m.state, nowMs())
	case models.PhaseRoundResolved:
		next, err = m.eng.AdvanceTurn(m.state, nowMs())
	default:
		return
	}
	if err != nil {
		m.rejectLocked(playerID, "", err)
		return
	}
	m.applyLocked(next)
}

// Reconnect binds a fresh channel to a seat and resends the full state. The
// diff baseline for that seat is reset; the next change arrives as a patch
// against this snapshot.
func (m *Match) Reconnect(playerID string, conn Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended {
		return
	}

	m.conns[playerID] = conn
	delete(m.lastView, playerID)

	start := models.GameStart{GameID: m.ID}
	for _, p := range m.participants {
		start.Players = append(start.Players, models.GameStartPlayer{
			UserID:   p.ID,
			Username: p.Name,
			IsBot:    p.IsBot,
		})
	}
	conn.SendEvent(models.EventGameStart, start)

	view, err := BuildView(m.state, playerID)
	if err != nil {
		m.log.Error("build reconnect view", zap.Error(err))
		return
	}
	m.lastView[playerID] = view
	conn.SendEvent(models.EventGameStateUpdate, json.RawMessage(view))
	m.log.Info("player reconnected", zap.String("playerId", playerID))
}

// HandleDisconnect forfeits the match against the player whose channel died.
func (m *Match) HandleDisconnect(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended {
		return
	}
	m.conns[playerID] = nil
	delete(m.lastView, playerID)

	next, err := m.eng.Forfeit(m.state, playerID, "disconnected")
	if err != nil {
		if !errors.Is(err, engine.ErrGameNotInProgress) {
			m.log.Error("forfeit on disconnect", zap.Error(err))
		}
		return
	}
	m.applyLocked(next)
}

// applyLocked installs a new state, invalidates outstanding timers, publishes
// the change, and either finishes the match or schedules what follows.
func (m *Match) applyLocked(next *models.GameState) {
	m.state = next
	m.gen++
	m.publishLocked()

	if m.state.GameStatus != models.StatusPlaying {
		m.finishLocked()
		return
	}
	m.scheduleLocked()
}

// scheduleLocked arms whatever the current phase needs: a resolve or advance
// transition, a bot move, and the turn timer for the player on the clock.
func (m *Match) scheduleLocked() {
	gen := m.gen

	switch m.state.CurrentPlayerPhase {
	case models.PhaseBothCardsOnBoard:
		time.AfterFunc(m.cfg.ResolveDelay, func() {
			m.transition(gen, func() (*models.GameState, error) {
				return m.eng.ResolveRound(m.state)
			})
		})
		return
	case models.PhaseTurnEnded:
		time.AfterFunc(m.cfg.AdvanceDelay, func() {
			m.transition(gen, func() (*models.GameState, error) {
				return m.eng.StartNextTurn(m.state, nowMs())
			})
		})
		return
	case models.PhaseRoundResolved:
		time.AfterFunc(m.cfg.AdvanceDelay, func() {
			m.transition(gen, func() (*models.GameState, error) {
				return m.eng.AdvanceTurn(m.state, nowMs())
			})
		})
		return
	}

	// An action phase: someone has to move.
	current := m.state.CurrentPlayerID
	if p, ok := m.participants[current]; ok && p.IsBot {
		time.AfterFunc(m.cfg.BotDelay, func() { m.botStep(gen) })
	}

	remaining := time.Duration(m.state.TurnStartTime+m.state.TurnTimeLimitMs-nowMs()) * time.Millisecond
	if remaining < 0 {
		remaining = 0
	}
	time.AfterFunc(remaining, func() {
		m.transition(gen, func() (*models.GameState, error) {
			return m.eng.Forfeit(m.state, m.state.CurrentPlayerID, "turn timer expired")
		})
	})
}

// transition runs a scheduled state change, dropping it silently when the
// state has moved on since it was armed. A failing scheduled step leaves no
// timers armed, so the match is aborted rather than left stalled.
func (m *Match) transition(gen int, f func() (*models.GameState, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended || gen != m.gen {
		return
	}
	next, err := f()
	if err != nil {
		m.log.Error("scheduled transition failed",
			zap.String("phase", string(m.state.CurrentPlayerPhase)),
			zap.Error(err))
		m.abortLocked("", err)
		return
	}
	m.applyLocked(next)
}

// botStep picks and applies the bot's move. A bot with no legal move
// forfeits.
func (m *Match) botStep(gen int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ended || gen != m.gen {
		return
	}
	botID := m.state.CurrentPlayerID
	if p, ok := m.participants[botID]; !ok || !p.IsBot {
		return
	}

	move, ok := engine.ChooseBotMove(m.state, botID)
	if !ok {
		next, err := m.eng.Forfeit(m.state, botID, "no legal move")
		if err != nil {
			m.log.Error("bot forfeit failed", zap.Error(err))
			return
		}
		m.applyLocked(next)
		return
	}

	var next *models.GameState
	var err error
	if move.Discard {
		next, err = m.eng.DiscardCard(m.state, botID, move.CardInstanceID)
	} else {
		next, err = m.eng.PlayCard(m.state, botID, move.CardInstanceID, move.Payload)
	}
	if err != nil {
		m.log.Error("bot move rejected", zap.Error(err))
		next, err = m.eng.Forfeit(m.state, botID, "illegal bot move")
		if err != nil {
			return
		}
	}
	m.applyLocked(next)
}

// publishLocked sends each connected player their projection: a patch when a
// baseline exists, a full snapshot otherwise.
func (m *Match) publishLocked() {
	for id, conn := range m.conns {
		if conn == nil {
			continue
		}
		view, err := BuildView(m.state, id)
		if err != nil {
			m.log.Error("build view", zap.String("playerId", id), zap.Error(err))
			continue
		}
		if prev, ok := m.lastView[id]; ok {
			patch, err := DiffViews(prev, view)
			if err != nil {
				m.log.Error("diff view", zap.String("playerId", id), zap.Error(err))
				conn.SendEvent(models.EventGameStateUpdate, json.RawMessage(view))
			} else if patch != nil {
				conn.SendEvent(models.EventGamePatch, json.RawMessage(patch))
			}
		} else {
			conn.SendEvent(models.EventGameStateUpdate, json.RawMessage(view))
		}
		m.lastView[id] = view
	}
}

// finishLocked announces the result and hands the match to its end hook.
func (m *Match) finishLocked() {
	m.ended = true
	var winner *string
	if m.state.WinnerID != "" {
		w := m.state.WinnerID
		winner = &w
	}
	m.sendToAllLocked(models.EventGameEnd, models.GameEnd{
		WinnerID:   winner,
		GameStatus: m.state.GameStatus,
	})
	m.log.Info("match finished",
		zap.String("status", string(m.state.GameStatus)),
		zap.String("winnerId", m.state.WinnerID))

	if m.onEnd != nil {
		final := m.state
		started := m.startedAt
		go m.onEnd(m, final, started, time.Now())
	}
}

func (m *Match) sendToAllLocked(event string, payload any) {
	for _, conn := range m.conns {
		if conn != nil {
			conn.SendEvent(event, payload)
		}
	}
}

// rejectLocked reports a rejected submission to the offending channel. An
// inconsistency means the authoritative state is broken, which ends the match
// rather than letting it limp on.
func (m *Match) rejectLocked(playerID, cardID string, err error) {
	if engine.IsInconsistency(err) {
		m.abortLocked(playerID, err)
		return
	}
	if conn := m.conns[playerID]; conn != nil {
		conn.SendEvent(models.EventGameError, models.ErrorMessage{Message: err.Error()})
	}
	m.log.Debug("play rejected",
		zap.String("playerId", playerID),
		zap.String("cardId", cardID),
		zap.Error(err))
}

// abortLocked ends a match whose authoritative state is broken. The player
// whose input surfaced the failure loses and their opponent takes the win; a
// failure with nobody to blame ends in a tie.
func (m *Match) abortLocked(offenderID string, err error) {
	m.log.Error("state inconsistency",
		zap.String("offenderId", offenderID),
		zap.Error(err))

	var winner string
	if offenderID != "" {
		for _, p := range m.state.Players {
			if p.ID != offenderID {
				winner = p.ID
				break
			}
		}
	}
	if winner != "" {
		m.state.GameStatus = models.StatusWin
		m.state.WinnerID = winner
		m.state.Log = append(m.state.Log, "Match aborted: internal state error, "+winner+" wins")
	} else {
		m.state.GameStatus = models.StatusTie
		m.state.Log = append(m.state.Log, "Match aborted: internal state error")
	}
	m.gen++
	m.publishLocked()
	m.finishLocked()
}

func nowMs() int64 {
	return time.Now().UnixMilli()
}
