package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mayur-kumbar/Checkmate.io/internal/engine"
	"github.com/Mayur-kumbar/Checkmate.io/internal/logger"
	"github.com/google/uuid"
)

// Coordinator is the session state machine. Every live-game mutation
// goes through it: pairing, moves, resignation, draw negotiation,
// timeout conclusion and reconnection. Per-game locks serialize
// concurrent events on the same game; the loser of a race sees a
// precondition failure, never a torn record.
//
// Operations return a reply event for the triggering connection only
// (rejections, waiting notices); broadcasts to both participants go
// through the Notifier.
type Coordinator struct {
	store    Store
	queue    Queue
	history  History
	presence Presence
	notifier Notifier
	engine   engine.Engine

	initialClock time.Duration
	locks        *keyedMutex
	now          func() time.Time
}

func NewCoordinator(
	store Store,
	queue Queue,
	history History,
	presence Presence,
	notifier Notifier,
	eng engine.Engine,
	initialClock time.Duration,
) *Coordinator {
	return &Coordinator{
		store:        store,
		queue:        queue,
		history:      history,
		presence:     presence,
		notifier:     notifier,
		engine:       eng,
		initialClock: initialClock,
		locks:        newKeyedMutex(),
		now:          time.Now,
	}
}

// Connect handles a freshly authenticated connection: it announces the
// player's identity and, if the player has a bound game, rejoins them
// to its broadcast group and replays the current record. No game state
// changes.
func (c *Coordinator) Connect(ctx context.Context, playerID string) ([]Event, error) {
	events := []Event{identityEvent(playerID)}

	gameID, err := c.store.PlayerGame(ctx, playerID)
	if err != nil {
		return events, fmt.Errorf("game: reverse index lookup failed: %w", err)
	}
	if gameID == "" {
		return events, nil
	}

	g, err := c.store.Get(ctx, gameID)
	if err != nil {
		return events, fmt.Errorf("game: failed to load game %s: %w", gameID, err)
	}
	if g == nil {
		// Stale index entry from an interrupted cleanup.
		_ = c.store.UnbindPlayer(ctx, playerID)
		return events, nil
	}

	c.notifier.JoinSession(gameID, playerID)
	events = append(events, alreadyPairedEvent(g), sessionUpdateEvent(g))
	return events, nil
}

// FindMatch pairs the requester against the queue head or enqueues
// them. Candidates are consumed by an atomic pop, so no queued player
// can be claimed twice; candidates that are gone, already bound or
// identical to the requester are discarded, which drains stale entries.
// Requests from the same player serialize on a per-requester lock, so
// two of their connections racing here cannot both pass the bound-game
// check and create two sessions holding the same player.
func (c *Coordinator) FindMatch(ctx context.Context, playerID string) (*Event, error) {
	unlock := c.locks.lock("find:" + playerID)
	defer unlock()

	if gameID, err := c.store.PlayerGame(ctx, playerID); err != nil {
		return nil, err
	} else if gameID != "" {
		g, err := c.store.Get(ctx, gameID)
		if err != nil {
			return nil, err
		}
		if g != nil {
			c.notifier.JoinSession(gameID, playerID)
			ev := alreadyPairedEvent(g)
			return &ev, nil
		}
		_ = c.store.UnbindPlayer(ctx, playerID)
	}

	var opponent string
	for {
		candidate, err := c.queue.Pop(ctx)
		if err != nil {
			return nil, err
		}
		if candidate == "" {
			break
		}
		if candidate == playerID {
			continue
		}
		if gameID, err := c.store.PlayerGame(ctx, candidate); err != nil {
			return nil, err
		} else if gameID != "" {
			continue
		}
		if !c.presence.IsPresent(candidate) {
			continue
		}
		opponent = candidate
		break
	}

	if opponent == "" {
		if err := c.queue.Enqueue(ctx, playerID); err != nil {
			return nil, err
		}
		ev := waitingEvent()
		return &ev, nil
	}

	g := &Game{
		ID:         uuid.NewString(),
		White:      opponent,
		Black:      playerID,
		FEN:        c.engine.InitialFEN(),
		Moves:      []string{},
		Turn:       White,
		Status:     StatusActive,
		WhiteTime:  c.initialClock.Milliseconds(),
		BlackTime:  c.initialClock.Milliseconds(),
		LastMoveAt: c.now(),
	}

	if err := c.store.Create(ctx, g); err != nil {
		return nil, err
	}
	if err := c.store.BindPlayer(ctx, g.White, g.ID); err != nil {
		return nil, err
	}
	if err := c.store.BindPlayer(ctx, g.Black, g.ID); err != nil {
		return nil, err
	}

	c.notifier.JoinSession(g.ID, g.White)
	c.notifier.JoinSession(g.ID, g.Black)
	c.notifier.ToSession(g.ID, matchStartedEvent(g))

	logger.Info("game started", map[string]any{
		"gameId": g.ID,
		"white":  g.White,
		"black":  g.Black,
	})
	return nil, nil
}

// CancelFind withdraws the player's matchmaking ticket.
func (c *Coordinator) CancelFind(ctx context.Context, playerID string) error {
	return c.queue.Remove(ctx, playerID)
}

// Disconnect removes the player's matchmaking ticket. An active game is
// left untouched: the player may reconnect, and an abandoned game ends
// through the timeout sweep once the absent side's clock runs out.
func (c *Coordinator) Disconnect(ctx context.Context, playerID string) error {
	return c.queue.Remove(ctx, playerID)
}

// SubmitMove validates and applies one move. The returned event, if
// any, is a rejection for the sender; accepted moves broadcast the
// updated record to the session group.
func (c *Coordinator) SubmitMove(ctx context.Context, playerID, gameID, move string) (*Event, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	g, reply, err := c.activeGame(ctx, gameID)
	if reply != nil || err != nil {
		return reply, err
	}

	color, ok := g.ColorOf(playerID)
	if !ok {
		return reject("not a participant in this game")
	}
	if g.Turn != color {
		return reject("not your turn")
	}

	res, err := c.engine.ApplyMove(g.FEN, move)
	if errors.Is(err, engine.ErrIllegalMove) {
		return reject("illegal move")
	}
	if err != nil {
		return nil, fmt.Errorf("game: engine rejected position: %w", err)
	}

	now := c.now()
	remaining := g.RemainingTime(color) - now.Sub(g.LastMoveAt).Milliseconds()
	if remaining < 0 {
		remaining = 0
	}
	g.SetRemainingTime(color, remaining)

	g.FEN = res.FEN
	g.Moves = append(g.Moves, res.SAN)
	g.Turn = color.Opponent()
	g.DrawOffer = ""
	g.LastMoveAt = now

	term, err := c.engine.IsTerminal(g.FEN)
	if err != nil {
		return nil, fmt.Errorf("game: terminal check failed: %w", err)
	}

	if term == engine.TerminationNone {
		if err := c.store.Update(ctx, g); err != nil {
			return nil, err
		}
		c.notifier.ToSession(g.ID, sessionUpdateEvent(g))
		return nil, nil
	}

	var reason Reason
	var winner Color
	switch term {
	case engine.TerminationCheckmate:
		reason = ReasonCheckmate
		winner = color
	case engine.TerminationStalemate:
		reason = ReasonStalemate
	default:
		reason = ReasonDraw
	}

	c.notifier.ToSession(g.ID, sessionUpdateEvent(g))
	return nil, c.conclude(ctx, g, reason, winner)
}

// Resign concludes the game in favor of the opponent. No legality
// check beyond participation.
func (c *Coordinator) Resign(ctx context.Context, playerID, gameID string) (*Event, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	g, reply, err := c.activeGame(ctx, gameID)
	if reply != nil || err != nil {
		return reply, err
	}

	color, ok := g.ColorOf(playerID)
	if !ok {
		return reject("not a participant in this game")
	}

	return nil, c.conclude(ctx, g, ReasonResignation, color.Opponent())
}

// OfferDraw records an outstanding offer from the sender, overwriting
// any prior offer from either side.
func (c *Coordinator) OfferDraw(ctx context.Context, playerID, gameID string) (*Event, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	g, reply, err := c.activeGame(ctx, gameID)
	if reply != nil || err != nil {
		return reply, err
	}

	color, ok := g.ColorOf(playerID)
	if !ok {
		return reject("not a participant in this game")
	}

	g.DrawOffer = color
	if err := c.store.Update(ctx, g); err != nil {
		return nil, err
	}
	c.notifier.ToSession(g.ID, sessionUpdateEvent(g))
	return nil, nil
}

// AcceptDraw concludes the game by agreement. Only the side that did
// not make the outstanding offer can accept it.
func (c *Coordinator) AcceptDraw(ctx context.Context, playerID, gameID string) (*Event, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	g, reply, err := c.activeGame(ctx, gameID)
	if reply != nil || err != nil {
		return reply, err
	}

	color, ok := g.ColorOf(playerID)
	if !ok {
		return reject("not a participant in this game")
	}
	if g.DrawOffer == "" {
		return reject("no draw offer to accept")
	}
	if g.DrawOffer == color {
		return reject("cannot accept your own draw offer")
	}

	// Consume the offer before acting on it so it can never be
	// double-consumed.
	g.DrawOffer = ""
	return nil, c.conclude(ctx, g, ReasonAgreement, "")
}

// RejectDraw clears the outstanding offer, if any. The offering side
// rejecting its own offer acts as a retraction.
func (c *Coordinator) RejectDraw(ctx context.Context, playerID, gameID string) (*Event, error) {
	unlock := c.locks.lock(gameID)
	defer unlock()

	g, reply, err := c.activeGame(ctx, gameID)
	if reply != nil || err != nil {
		return reply, err
	}

	if _, ok := g.ColorOf(playerID); !ok {
		return reject("not a participant in this game")
	}
	if g.DrawOffer == "" {
		return nil, nil
	}

	g.DrawOffer = ""
	if err := c.store.Update(ctx, g); err != nil {
		return nil, err
	}
	c.notifier.ToSession(g.ID, sessionUpdateEvent(g))
	return nil, nil
}

// CheckTimeout concludes the game if the side on move has exhausted its
// clock. Safe to call repeatedly and from both the periodic sweep and
// client nudges: a game that is gone or already concluded is a no-op,
// except that an interrupted conclusion cleanup is replayed.
func (c *Coordinator) CheckTimeout(ctx context.Context, gameID string) error {
	unlock := c.locks.lock(gameID)
	defer unlock()

	g, err := c.store.Get(ctx, gameID)
	if err != nil {
		return err
	}
	if g == nil {
		return nil
	}
	if !g.IsActive() {
		return c.replayCleanup(ctx, g)
	}

	remaining := g.RemainingTime(g.Turn) - c.now().Sub(g.LastMoveAt).Milliseconds()
	if remaining > 0 {
		return nil
	}

	g.SetRemainingTime(g.Turn, 0)
	g.LastMoveAt = c.now()
	return c.conclude(ctx, g, ReasonTimeout, g.Turn.Opponent())
}

// activeGame loads the record and enforces the shared preconditions.
func (c *Coordinator) activeGame(ctx context.Context, gameID string) (*Game, *Event, error) {
	g, err := c.store.Get(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		ev := moveRejectedEvent("unknown game")
		return nil, &ev, nil
	}
	if !g.IsActive() {
		ev := moveRejectedEvent("game is not active")
		return nil, &ev, nil
	}
	return g, nil, nil
}

// conclude finalizes a game: the record is marked finished, the
// archival row is written, the conclusion is announced, and only then
// is the ephemeral state removed. Archival strictly precedes deletion
// so a crash can leave a duplicate-safe archive and a stale record, but
// never a lost outcome.
func (c *Coordinator) conclude(ctx context.Context, g *Game, reason Reason, winner Color) error {
	g.Status = StatusFinished
	g.DrawOffer = ""
	g.Winner = winner
	g.Reason = reason

	if err := c.store.Update(ctx, g); err != nil {
		return err
	}
	if err := c.history.Append(ctx, c.archiveOf(g)); err != nil {
		return fmt.Errorf("game: archival failed for %s: %w", g.ID, err)
	}

	c.notifier.ToSession(g.ID, sessionConcludedEvent(conclusionResult(reason), reason, winner, g.Moves))

	logger.Info("game concluded", map[string]any{
		"gameId": g.ID,
		"reason": string(reason),
		"winner": string(winner),
	})
	return c.cleanup(ctx, g)
}

// replayCleanup finishes a conclusion that was interrupted after the
// record was marked finished. The stored Winner and Reason carry the
// outcome, so the announcement is replayed too; Append is
// duplicate-safe, so re-running the whole tail is harmless.
func (c *Coordinator) replayCleanup(ctx context.Context, g *Game) error {
	if err := c.history.Append(ctx, c.archiveOf(g)); err != nil {
		return fmt.Errorf("game: archival replay failed for %s: %w", g.ID, err)
	}
	c.notifier.ToSession(g.ID, sessionConcludedEvent(conclusionResult(g.Reason), g.Reason, g.Winner, g.Moves))
	return c.cleanup(ctx, g)
}

func (c *Coordinator) cleanup(ctx context.Context, g *Game) error {
	if err := c.store.Delete(ctx, g.ID); err != nil {
		return err
	}
	_ = c.store.UnbindPlayer(ctx, g.White)
	_ = c.store.UnbindPlayer(ctx, g.Black)
	c.notifier.CloseSession(g.ID)
	return nil
}

func (c *Coordinator) archiveOf(g *Game) Archive {
	return Archive{
		GameID: g.ID,
		White:  g.White,
		Black:  g.Black,
		Moves:  g.Moves,
		Result: ResultFor(g.Winner),
		Reason: g.Reason,
	}
}

func conclusionResult(reason Reason) string {
	switch reason {
	case ReasonCheckmate:
		return "checkmate"
	case ReasonResignation:
		return "resignation"
	case ReasonTimeout:
		return "timeout"
	default:
		return "draw"
	}
}

func reject(reason string) (*Event, error) {
	ev := moveRejectedEvent(reason)
	return &ev, nil
}
