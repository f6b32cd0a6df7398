// Package lobby queues authenticated players and pairs them into matches,
// falling back to a bot opponent when no human shows up in time.
package lobby

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"carduel/internal/server/game"
	"carduel/models"
)

// ErrAlreadyQueued is returned when a player joins while already waiting.
var ErrAlreadyQueued = errors.New("already in matchmaking queue")

// Config carries the matchmaking knobs.
type Config struct {
	AIEnabled bool
	// AIDelay is how long a regular player waits before a bot is seated.
	AIDelay time.Duration
	// HumanOnlyMaxWait is the grace window for humanOnly players before they
	// too get a bot. Zero means humanOnly players wait indefinitely.
	HumanOnlyMaxWait time.Duration
}

type entry struct {
	userID    string
	username  string
	conn      game.Conn
	isBot     bool
	humanOnly bool
	joinedAt  time.Time
	botTimer  *time.Timer
}

// Starter launches a match for a matched pair. Called outside the lobby lock.
type Starter func(players [2]game.Participant)

// Lobby is the FIFO matchmaking queue. One instance per process.
type Lobby struct {
	mu     sync.Mutex
	queue  []*entry
	botSeq int

	cfg   Config
	log   *zap.Logger
	start Starter
}

// New creates a lobby that hands matched pairs to start.
func New(cfg Config, log *zap.Logger, start Starter) *Lobby {
	return &Lobby{cfg: cfg, log: log.Named("lobby"), start: start}
}

// Join enqueues a player. If an opponent is already waiting the match starts
// at once; otherwise a bot fallback timer is armed according to the player's
// humanOnly preference.
func (l *Lobby) Join(userID, username string, conn game.Conn, humanOnly bool) error {
	l.mu.Lock()

	if l.indexOfLocked(userID) >= 0 {
		l.mu.Unlock()
		return ErrAlreadyQueued
	}

	e := &entry{
		userID:    userID,
		username:  username,
		conn:      conn,
		humanOnly: humanOnly,
		joinedAt:  time.Now(),
	}
	l.queue = append(l.queue, e)
	l.log.Info("player queued",
		zap.String("userId", userID),
		zap.Bool("humanOnly", humanOnly),
		zap.Int("queueSize", len(l.queue)))

	conn.SendEvent(models.EventMatchmakingJoined, models.InfoMessage{Message: "Waiting for an opponent"})
	l.broadcastLocked()

	pair := l.tryMatchLocked()
	if pair == nil && l.cfg.AIEnabled {
		l.armBotTimerLocked(e)
	}
	l.mu.Unlock()

	if pair != nil {
		l.start(*pair)
	}
	return nil
}

// Cancel removes a player from the queue.
func (l *Lobby) Cancel(userID string) {
	l.mu.Lock()
	removed := l.removeLocked(userID)
	if removed {
		l.broadcastLocked()
	}
	l.mu.Unlock()
	if removed {
		l.log.Info("player left queue", zap.String("userId", userID))
	}
}

// Contains reports whether a player is waiting in the queue.
func (l *Lobby) Contains(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.indexOfLocked(userID) >= 0
}

// Snapshot returns the current queue contents for lobby:update and the REST
// lobby endpoint.
func (l *Lobby) Snapshot() models.LobbySnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *Lobby) snapshotLocked() models.LobbySnapshot {
	snap := models.LobbySnapshot{Players: []models.LobbyPlayer{}}
	for _, e := range l.queue {
		snap.Players = append(snap.Players, models.LobbyPlayer{Username: e.username, IsBot: e.isBot})
	}
	snap.PlayerCount = len(snap.Players)
	return snap
}

func (l *Lobby) broadcastLocked() {
	snap := l.snapshotLocked()
	for _, e := range l.queue {
		if e.conn != nil {
			e.conn.SendEvent(models.EventLobbyUpdate, snap)
		}
	}
}

func (l *Lobby) indexOfLocked(userID string) int {
	for i, e := range l.queue {
		if e.userID == userID {
			return i
		}
	}
	return -1
}

func (l *Lobby) removeLocked(userID string) bool {
	i := l.indexOfLocked(userID)
	if i < 0 {
		return false
	}
	e := l.queue[i]
	if e.botTimer != nil {
		e.botTimer.Stop()
	}
	l.queue = append(l.queue[:i], l.queue[i+1:]...)
	return true
}

// tryMatchLocked pops the two oldest waiting players. Any two humans are
// compatible; humanOnly only constrains the bot fallback.
func (l *Lobby) tryMatchLocked() *[2]game.Participant {
	if len(l.queue) < 2 {
		return nil
	}
	a, b := l.queue[0], l.queue[1]
	if a.botTimer != nil {
		a.botTimer.Stop()
	}
	if b.botTimer != nil {
		b.botTimer.Stop()
	}
	l.queue = l.queue[2:]
	l.broadcastLocked()

	l.log.Info("matched players",
		zap.String("playerA", a.userID),
		zap.String("playerB", b.userID))
	return &[2]game.Participant{
		{ID: a.userID, Name: a.username, IsBot: a.isBot, Conn: a.conn},
		{ID: b.userID, Name: b.username, IsBot: b.isBot, Conn: b.conn},
	}
}

func (l *Lobby) armBotTimerLocked(e *entry) {
	delay := l.cfg.AIDelay
	if e.humanOnly {
		if l.cfg.HumanOnlyMaxWait <= 0 {
			return
		}
		delay = l.cfg.HumanOnlyMaxWait
	}
	userID := e.userID
	e.botTimer = time.AfterFunc(delay, func() { l.seatBot(userID) })
}

// seatBot fires when the fallback timer expires. The bot joins the queue like
// any other player: appended, broadcast, then matched. The waiting player may
// have been matched or have left in the meantime, making this a no-op.
func (l *Lobby) seatBot(userID string) {
	l.mu.Lock()
	if l.indexOfLocked(userID) < 0 {
		l.mu.Unlock()
		return
	}

	l.botSeq++
	bot := &entry{
		userID:   fmt.Sprintf("bot-%d", l.botSeq),
		username: fmt.Sprintf("Bot %d", l.botSeq),
		isBot:    true,
		joinedAt: time.Now(),
	}
	l.queue = append(l.queue, bot)
	l.log.Info("bot joined queue",
		zap.String("userId", userID),
		zap.String("botId", bot.userID))
	l.broadcastLocked()

	pair := l.tryMatchLocked()
	l.mu.Unlock()

	if pair != nil {
		l.start(*pair)
	}
}
