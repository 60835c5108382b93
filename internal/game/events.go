package game

// Event is one server-to-client protocol message. The transport layer
// wraps it in its own frame envelope.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

const (
	EventIdentity         = "identity"
	EventWaiting          = "waiting"
	EventAlreadyPaired    = "already_paired"
	EventMatchStarted     = "match_started"
	EventSessionUpdate    = "session_update"
	EventSessionConcluded = "session_concluded"
	EventMoveRejected     = "move_rejected"
)

type IdentityPayload struct {
	PlayerID string `json:"playerId"`
}

type AlreadyPairedPayload struct {
	GameID string `json:"gameId"`
	Game   *Game  `json:"game,omitempty"`
}

type SessionPayload struct {
	Game *Game `json:"game"`
}

type ConcludedPayload struct {
	Result string   `json:"result"`
	Reason string   `json:"reason"`
	Winner Color    `json:"winner,omitempty"`
	Moves  []string `json:"moves"`
}

type RejectedPayload struct {
	Reason string `json:"reason"`
}

func identityEvent(playerID string) Event {
	return Event{Type: EventIdentity, Payload: IdentityPayload{PlayerID: playerID}}
}

func waitingEvent() Event {
	return Event{Type: EventWaiting}
}

func alreadyPairedEvent(g *Game) Event {
	return Event{Type: EventAlreadyPaired, Payload: AlreadyPairedPayload{GameID: g.ID, Game: g}}
}

func matchStartedEvent(g *Game) Event {
	return Event{Type: EventMatchStarted, Payload: SessionPayload{Game: g}}
}

func sessionUpdateEvent(g *Game) Event {
	return Event{Type: EventSessionUpdate, Payload: SessionPayload{Game: g}}
}

func sessionConcludedEvent(result string, reason Reason, winner Color, moves []string) Event {
	return Event{Type: EventSessionConcluded, Payload: ConcludedPayload{
		Result: result,
		Reason: string(reason),
		Winner: winner,
		Moves:  moves,
	}}
}

func moveRejectedEvent(reason string) Event {
	return Event{Type: EventMoveRejected, Payload: RejectedPayload{Reason: reason}}
}

// Notifier delivers events to session broadcast groups. Rejections and
// other single-connection replies are returned to the transport layer
// instead, so they only ever reach the offending connection.
type Notifier interface {
	// JoinSession subscribes all of the player's live connections to
	// the game's broadcast group.
	JoinSession(gameID, playerID string)
	// ToSession broadcasts to every connection in the game's group.
	ToSession(gameID string, ev Event)
	// CloseSession tears down the broadcast group after conclusion.
	CloseSession(gameID string)
}
