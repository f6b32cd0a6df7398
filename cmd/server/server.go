package main

import (
	"encoding/binary"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carduel/engine"
	"carduel/internal/history"
	"carduel/internal/server/game"
	"carduel/internal/server/lobby"
	ws "carduel/internal/server/websocket"
	"carduel/internal/validation"
	"carduel/models"
)

// Server holds all dependencies of the running process.
type Server struct {
	config Config
	log    *zap.Logger

	engine   *engine.Engine
	catalog  []*models.CardDefinition
	lobby    *lobby.Lobby
	registry *game.Registry
	recorder *history.Recorder

	// Authenticated channels by user ID. A reconnect replaces the entry;
	// the stale channel's close is then ignored.
	mu      sync.RWMutex
	clients map[string]*ws.Client
}

// NewServer wires the lobby, registry, and engine together.
func NewServer(config Config, log *zap.Logger, defs []*models.CardDefinition, recorder *history.Recorder) *Server {
	s := &Server{
		config:   config,
		log:      log,
		engine:   engine.New(defs),
		catalog:  defs,
		registry: game.NewRegistry(),
		recorder: recorder,
		clients:  map[string]*ws.Client{},
	}
	s.lobby = lobby.New(lobby.Config{
		AIEnabled:        config.AIEnabled,
		AIDelay:          time.Duration(config.AIDelayMs) * time.Millisecond,
		HumanOnlyMaxWait: time.Duration(config.HumanOnlyMaxWaitMs) * time.Millisecond,
	}, log, s.startMatch)
	return s
}

// Router builds the HTTP surface: the WebSocket endpoint plus a few REST
// routes for monitoring and browsing.
func (s *Server) Router() *gin.Engine {
	if s.config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	corsConfig := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true // Allow all origins
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400 * time.Second,
	}
	r.Use(cors.New(corsConfig))

	r.GET("/ws", func(c *gin.Context) {
		ws.HandleWebSocket(c, s.handleMessage, s.handleClose)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"matches": s.registry.Count(),
		})
	})
	r.GET("/api/lobby", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.lobby.Snapshot())
	})
	r.GET("/api/catalog", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"cards": s.catalog})
	})
	r.GET("/api/matches/recent", func(c *gin.Context) {
		records, err := s.recorder.Recent(20)
		if err != nil {
			s.log.Error("load recent matches", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load matches"})
			return
		}
		if records == nil {
			records = []history.MatchRecord{}
		}
		c.JSON(http.StatusOK, gin.H{"matches": records})
	})

	return r
}

// handleMessage dispatches one inbound envelope.
func (s *Server) handleMessage(c *ws.Client, msg models.WSMessage) {
	switch msg.Type {
	case models.EventPing:
		c.SendEvent(models.EventPong, struct{}{})

	case models.EventAuthenticate:
		s.handleAuthenticate(c, msg.Payload)

	case models.EventMatchmakingJoin:
		s.handleMatchmakingJoin(c, msg.Payload)

	case models.EventMatchmakingCancel:
		if c.UserID != "" {
			s.lobby.Cancel(c.UserID)
		}

	case models.EventGamePlayCard:
		s.handlePlayCard(c, msg.Payload)

	case models.EventGameAdvanceTurn:
		if m, ok := s.matchFor(c); ok {
			m.AdvanceTurn(c.UserID)
		} else {
			c.SendError(models.EventGameError, "not_in_match", "You are not in a match")
		}

	default:
		s.log.Debug("unknown event", zap.String("type", msg.Type))
	}
}

func (s *Server) handleAuthenticate(c *ws.Client, payload json.RawMessage) {
	var req models.AuthenticateRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			c.SendError(models.EventAuthError, "bad_payload", "Malformed authentication payload")
			return
		}
	}

	userID := validation.NormalizeUserID(req.UserID, c.ChannelID)
	username := validation.NormalizeUsername(req.Username)

	s.mu.Lock()
	prev := s.clients[userID]
	s.clients[userID] = c
	c.UserID = userID
	c.Username = username
	s.mu.Unlock()

	// The newest channel wins; a lingering old one is shut down and its
	// close event ignored because the map no longer points at it.
	if prev != nil && prev != c {
		prev.Close()
	}

	c.SendEvent(models.EventAuthSuccess, models.AuthSuccess{UserID: userID, Username: username})
	s.log.Info("channel authenticated",
		zap.String("userId", userID),
		zap.String("channelId", c.ChannelID))

	if m, ok := s.registry.ByPlayer(userID); ok {
		m.Reconnect(userID, c)
	}
}

func (s *Server) handleMatchmakingJoin(c *ws.Client, payload json.RawMessage) {
	if c.UserID == "" {
		c.SendError(models.EventMatchmakingError, "unauthenticated", "Authenticate first")
		return
	}
	if _, ok := s.registry.ByPlayer(c.UserID); ok {
		c.SendError(models.EventMatchmakingError, "in_match", "Already in a match")
		return
	}

	var req models.JoinRequest
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &req); err != nil {
			c.SendError(models.EventMatchmakingError, "bad_payload", "Malformed join payload")
			return
		}
	}

	if err := s.lobby.Join(c.UserID, c.Username, c, req.HumanOnly); err != nil {
		c.SendError(models.EventMatchmakingError, "already_queued", err.Error())
	}
}

func (s *Server) handlePlayCard(c *ws.Client, payload json.RawMessage) {
	m, ok := s.matchFor(c)
	if !ok {
		c.SendError(models.EventGameError, "not_in_match", "You are not in a match")
		return
	}
	var req models.PlayCardRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		c.SendError(models.EventGameError, "bad_payload", "Malformed play payload")
		return
	}
	m.PlayCard(c.UserID, req)
}

func (s *Server) matchFor(c *ws.Client) (*game.Match, bool) {
	if c.UserID == "" {
		return nil, false
	}
	return s.registry.ByPlayer(c.UserID)
}

// handleClose runs when a channel dies. A channel that was already replaced
// by a reconnect is ignored; otherwise the player leaves the lobby and
// forfeits any running match.
func (s *Server) handleClose(c *ws.Client) {
	if c.UserID == "" {
		return
	}

	s.mu.Lock()
	current := s.clients[c.UserID]
	if current == c {
		delete(s.clients, c.UserID)
	}
	s.mu.Unlock()
	if current != c {
		return
	}

	s.lobby.Cancel(c.UserID)
	if m, ok := s.registry.ByPlayer(c.UserID); ok {
		m.HandleDisconnect(c.UserID)
	}
	s.log.Info("channel closed", zap.String("userId", c.UserID))
}

// startMatch launches a match for a pair handed over by the lobby.
func (s *Server) startMatch(players [2]game.Participant) {
	id := uuid.New().String()
	seed := seedFromUUID()

	cfg := game.DefaultConfig()
	cfg.TurnTimeLimitMs = int64(s.config.TurnTimeLimitSeconds) * 1000

	m, err := game.NewMatch(id, s.engine, seed, players, cfg, s.log, s.onMatchEnd)
	if err != nil {
		s.log.Error("start match", zap.Error(err))
		for _, p := range players {
			if p.Conn != nil {
				p.Conn.SendEvent(models.EventMatchmakingError, models.ErrorMessage{
					Code:    "start_failed",
					Message: "Failed to start match",
				})
			}
		}
		return
	}
	s.registry.Add(m, players[0].ID, players[1].ID)
}

func (s *Server) onMatchEnd(m *game.Match, final *models.GameState, startedAt, endedAt time.Time) {
	s.registry.Remove(m.ID)
	if err := s.recorder.Record(final, startedAt, endedAt); err != nil {
		s.log.Error("record match", zap.String("gameId", m.ID), zap.Error(err))
	}
}

// seedFromUUID folds a fresh UUID into the 32-bit match seed.
func seedFromUUID() uint32 {
	u := uuid.New()
	return binary.BigEndian.Uint32(u[0:4]) ^ binary.BigEndian.Uint32(u[12:16])
}
