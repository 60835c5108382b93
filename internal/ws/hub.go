package ws

import (
	"encoding/json"
	"sync"

	"github.com/Mayur-kumbar/Checkmate.io/internal/game"
	"github.com/Mayur-kumbar/Checkmate.io/internal/logger"
)

// peer is one live websocket connection. Writes are serialized by the
// peer's own mutex so concurrent broadcasts never interleave frames.
type peer struct {
	mu       sync.Mutex
	encoder  *json.Encoder
	connID   string
	playerID string
}

func newPeer(encoder *json.Encoder, connID, playerID string) *peer {
	return &peer{encoder: encoder, connID: connID, playerID: playerID}
}

func (p *peer) send(ev game.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.encoder.Encode(ev); err != nil {
		logger.Warn("websocket write failed", map[string]any{
			"connId": p.connID,
			"player": p.playerID,
			"error":  err.Error(),
		})
	}
}

// Hub tracks live connections per player and per game broadcast group.
// It implements game.Notifier. Delivery is best-effort; the registry in
// internal/presence remains the authority on who is reachable.
type Hub struct {
	mu       sync.Mutex
	players  map[string]map[*peer]struct{}
	sessions map[string]map[*peer]struct{}
}

func NewHub() *Hub {
	return &Hub{
		players:  make(map[string]map[*peer]struct{}),
		sessions: make(map[string]map[*peer]struct{}),
	}
}

func (h *Hub) addPeer(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	peers, ok := h.players[p.playerID]
	if !ok {
		peers = make(map[*peer]struct{})
		h.players[p.playerID] = peers
	}
	peers[p] = struct{}{}
}

func (h *Hub) removePeer(p *peer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if peers, ok := h.players[p.playerID]; ok {
		delete(peers, p)
		if len(peers) == 0 {
			delete(h.players, p.playerID)
		}
	}
	for _, group := range h.sessions {
		delete(group, p)
	}
}

// JoinSession subscribes every live connection of the player to the
// game's broadcast group.
func (h *Hub) JoinSession(gameID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	group, ok := h.sessions[gameID]
	if !ok {
		group = make(map[*peer]struct{})
		h.sessions[gameID] = group
	}
	for p := range h.players[playerID] {
		group[p] = struct{}{}
	}
}

func (h *Hub) ToSession(gameID string, ev game.Event) {
	h.mu.Lock()
	subscribers := make([]*peer, 0, len(h.sessions[gameID]))
	for p := range h.sessions[gameID] {
		subscribers = append(subscribers, p)
	}
	h.mu.Unlock()

	for _, p := range subscribers {
		p.send(ev)
	}
}

func (h *Hub) CloseSession(gameID string) {
	h.mu.Lock()
	delete(h.sessions, gameID)
	h.mu.Unlock()
}
