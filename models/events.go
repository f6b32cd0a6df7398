package models

import "encoding/json"

// Event names on the wire. Inbound events come from clients, outbound events
// are produced by the server.
const (
	EventAuthenticate = "auth:authenticate"
	EventAuthSuccess  = "auth:success"
	EventAuthError    = "auth:error"

	EventMatchmakingJoin   = "matchmaking:join"
	EventMatchmakingCancel = "matchmaking:cancel"
	EventMatchmakingJoined = "matchmaking:joined"
	EventMatchmakingError  = "matchmaking:error"

	EventLobbyUpdate = "lobby:update"

	EventGamePlayCard    = "game:playCard"
	EventGameAdvanceTurn = "game:advanceTurn"
	EventGameStart       = "game:start"
	EventGameStateUpdate = "game:stateUpdate"
	EventGamePatch       = "game:patch"
	EventGameError       = "game:error"
	EventGameEnd         = "game:end"

	EventPing = "ping"
	EventPong = "pong"
)

// WSMessage is the envelope for every message on a client channel.
type WSMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// AuthenticateRequest binds an identity to the channel.
type AuthenticateRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// AuthSuccess echoes the (possibly sanitized) identity back to the client.
type AuthSuccess struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// JoinRequest enqueues the authenticated player into the lobby.
type JoinRequest struct {
	HumanOnly bool `json:"humanOnly,omitempty"`
}

// PlayCardRequest submits a play in the player's current match.
type PlayCardRequest struct {
	CardInstanceID string      `json:"cardInstanceId"`
	Payload        PlayPayload `json:"payload"`
}

// PlayPayload carries the optional per-play selections.
type PlayPayload struct {
	SelectedMetric Metric `json:"selectedMetric,omitempty"`
	TargetPlayerID string `json:"targetPlayerId,omitempty"`
}

// LobbyPlayer is one entry of a lobby:update broadcast.
type LobbyPlayer struct {
	Username string `json:"username"`
	IsBot    bool   `json:"isBot"`
}

// LobbySnapshot is the lobby:update payload.
type LobbySnapshot struct {
	Players     []LobbyPlayer `json:"players"`
	PlayerCount int           `json:"playerCount"`
}

// GameStartPlayer is one entry of a game:start payload.
type GameStartPlayer struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	IsBot    bool   `json:"isBot"`
}

// GameStart announces a new match to its channel group.
type GameStart struct {
	GameID  string            `json:"gameId"`
	Players []GameStartPlayer `json:"players"`
}

// GameEnd announces match termination to its channel group. WinnerID is nil
// for a tie, so the wire payload carries an explicit null.
type GameEnd struct {
	WinnerID   *string    `json:"winnerId"`
	GameStatus GameStatus `json:"gameStatus"`
}

// ErrorMessage is the payload of auth:error, matchmaking:error and game:error.
type ErrorMessage struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

// InfoMessage is the payload of matchmaking:joined.
type InfoMessage struct {
	Message string `json:"message"`
}
