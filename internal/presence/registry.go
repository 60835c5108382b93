// Package presence tracks which players currently hold a live
// connection. It is an existence check for matchmaking only; message
// delivery goes through the websocket hub, not through this registry.
package presence

import "sync"

type Registry struct {
	mu      sync.Mutex
	players map[string]int
}

func NewRegistry() *Registry {
	return &Registry{players: make(map[string]int)}
}

// Register records a live connection for the player. A player may hold
// more than one connection (e.g. a reconnect racing the old socket's
// teardown), so connections are reference counted.
func (r *Registry) Register(playerID string) {
	r.mu.Lock()
	r.players[playerID]++
	r.mu.Unlock()
}

// Unregister drops one connection for the player and reports whether it
// was the last one.
func (r *Registry) Unregister(playerID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := r.players[playerID]
	if n > 1 {
		r.players[playerID] = n - 1
		return false
	}
	if n == 1 {
		delete(r.players, playerID)
		return true
	}
	return false
}

func (r *Registry) IsPresent(playerID string) bool {
	r.mu.Lock()
	_, ok := r.players[playerID]
	r.mu.Unlock()
	return ok
}
