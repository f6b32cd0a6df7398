package game

import "sync"

// Registry tracks running matches and which match each player is seated in.
type Registry struct {
	mu       sync.RWMutex
	matches  map[string]*Match
	byPlayer map[string]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		matches:  make(map[string]*Match),
		byPlayer: make(map[string]string),
	}
}

// Add registers a match and its seats.
func (r *Registry) Add(m *Match, playerIDs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[m.ID] = m
	for _, id := range playerIDs {
		r.byPlayer[id] = m.ID
	}
}

// Remove forgets a match and frees its seats.
func (r *Registry) Remove(matchID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, matchID)
	for playerID, id := range r.byPlayer {
		if id == matchID {
			delete(r.byPlayer, playerID)
		}
	}
}

// ByID returns a match by its identifier.
func (r *Registry) ByID(matchID string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.matches[matchID]
	return m, ok
}

// ByPlayer returns the match a player is seated in, if any.
func (r *Registry) ByPlayer(playerID string) (*Match, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byPlayer[playerID]
	if !ok {
		return nil, false
	}
	m, ok := r.matches[id]
	return m, ok
}

// Count returns the number of running matches.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}
