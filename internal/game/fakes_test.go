package game

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Mayur-kumbar/Checkmate.io/internal/engine"
)

// memStore is an in-memory Store with the same atomicity guarantees as
// the Redis implementation: each call locks, mutates, unlocks.
type memStore struct {
	mu      sync.Mutex
	games   map[string]*Game
	players map[string]string
}

func newMemStore() *memStore {
	return &memStore{
		games:   make(map[string]*Game),
		players: make(map[string]string),
	}
}

func (s *memStore) Create(ctx context.Context, g *Game) error {
	return s.put(g)
}

func (s *memStore) Update(ctx context.Context, g *Game) error {
	return s.put(g)
}

func (s *memStore) put(g *Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *g
	clone.Moves = append([]string(nil), g.Moves...)
	s.games[g.ID] = &clone
	return nil
}

func (s *memStore) Get(ctx context.Context, gameID string) (*Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return nil, nil
	}
	clone := *g
	clone.Moves = append([]string(nil), g.Moves...)
	return &clone, nil
}

func (s *memStore) Delete(ctx context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, gameID)
	return nil
}

func (s *memStore) BindPlayer(ctx context.Context, playerID, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[playerID] = gameID
	return nil
}

func (s *memStore) UnbindPlayer(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, playerID)
	return nil
}

func (s *memStore) PlayerGame(ctx context.Context, playerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[playerID], nil
}

func (s *memStore) LiveIDs(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.games))
	for id := range s.games {
		ids = append(ids, id)
	}
	return ids, nil
}

// memQueue mirrors the Redis list semantics, including enqueue dedup.
type memQueue struct {
	mu      sync.Mutex
	entries []string
}

func newMemQueue() *memQueue {
	return &memQueue{}
}

func (q *memQueue) Enqueue(ctx context.Context, playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(playerID)
	q.entries = append(q.entries, playerID)
	return nil
}

func (q *memQueue) Pop(ctx context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.entries) == 0 {
		return "", nil
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	return head, nil
}

func (q *memQueue) Remove(ctx context.Context, playerID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(playerID)
	return nil
}

func (q *memQueue) removeLocked(playerID string) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e != playerID {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}

func (q *memQueue) contents() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.entries...)
}

// memHistory is duplicate-safe on GameID like the Postgres sink.
type memHistory struct {
	mu       sync.Mutex
	archives []Archive
	seen     map[string]bool
	failNext bool
}

func newMemHistory() *memHistory {
	return &memHistory{seen: make(map[string]bool)}
}

func (h *memHistory) Append(ctx context.Context, a Archive) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failNext {
		h.failNext = false
		return errors.New("history unavailable")
	}
	if h.seen[a.GameID] {
		return nil
	}
	h.seen[a.GameID] = true
	h.archives = append(h.archives, a)
	return nil
}

func (h *memHistory) all() []Archive {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Archive(nil), h.archives...)
}

// stubPresence marks a fixed set of players reachable.
type stubPresence struct {
	mu     sync.Mutex
	online map[string]bool
}

func newStubPresence(players ...string) *stubPresence {
	p := &stubPresence{online: make(map[string]bool)}
	for _, id := range players {
		p.online[id] = true
	}
	return p
}

func (p *stubPresence) IsPresent(playerID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online[playerID]
}

// recordingNotifier captures broadcasts and group membership.
type recordingNotifier struct {
	mu     sync.Mutex
	joins  map[string][]string
	events map[string][]Event
	closed []string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{
		joins:  make(map[string][]string),
		events: make(map[string][]Event),
	}
}

func (n *recordingNotifier) JoinSession(gameID, playerID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.joins[gameID] = append(n.joins[gameID], playerID)
}

func (n *recordingNotifier) ToSession(gameID string, ev Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[gameID] = append(n.events[gameID], ev)
}

func (n *recordingNotifier) CloseSession(gameID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, gameID)
}

func (n *recordingNotifier) sessionEvents(gameID string) []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Event(nil), n.events[gameID]...)
}

func (n *recordingNotifier) eventTypes(gameID string) []string {
	types := []string{}
	for _, ev := range n.sessionEvents(gameID) {
		types = append(types, ev.Type)
	}
	return types
}

// fakeEngine applies any move by recording it into the position string.
// A move ending in "#" makes the position checkmate, "stalemate" makes
// it stalemate, and the literal move "illegal" is rejected.
type fakeEngine struct{}

func (fakeEngine) InitialFEN() string { return "startpos" }

func (fakeEngine) ApplyMove(fen, move string) (*engine.MoveResult, error) {
	if move == "illegal" {
		return nil, engine.ErrIllegalMove
	}
	return &engine.MoveResult{FEN: fen + " " + move, SAN: move}, nil
}

func (fakeEngine) IsTerminal(fen string) (engine.Termination, error) {
	switch {
	case strings.HasSuffix(fen, "#"):
		return engine.TerminationCheckmate, nil
	case strings.HasSuffix(fen, "stalemate"):
		return engine.TerminationStalemate, nil
	case strings.HasSuffix(fen, "draw"):
		return engine.TerminationDraw, nil
	}
	return engine.TerminationNone, nil
}
