// Package ws is the realtime transport boundary: it authenticates the
// websocket handshake, decodes client frames and hands them to the
// session coordinator. The transport guarantees per-connection ordering
// only; cross-connection ordering is the coordinator's problem.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Mayur-kumbar/Checkmate.io/internal/auth"
	"github.com/Mayur-kumbar/Checkmate.io/internal/game"
	"github.com/Mayur-kumbar/Checkmate.io/internal/logger"
	"github.com/Mayur-kumbar/Checkmate.io/internal/presence"
	"github.com/Mayur-kumbar/Checkmate.io/internal/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/net/websocket"
)

const maxDecodeErrorsPerConn = 3

// Client frame types.
const (
	frameFindMatch    = "find_match"
	frameCancelFind   = "cancel_find"
	frameSubmitMove   = "submit_move"
	frameResign       = "resign"
	frameOfferDraw    = "offer_draw"
	frameAcceptDraw   = "accept_draw"
	frameRejectDraw   = "reject_draw"
	frameCheckTimeout = "check_timeout"
)

type clientFrame struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type gameRefPayload struct {
	GameID string `json:"gameId"`
}

type movePayload struct {
	GameID string `json:"gameId"`
	Move   string `json:"move"`
}

type Server struct {
	hub         *Hub
	coordinator *game.Coordinator
	registry    *presence.Registry
	jwtSecret   string
}

func NewServer(hub *Hub, coordinator *game.Coordinator, registry *presence.Registry, jwtSecret string) *Server {
	return &Server{
		hub:         hub,
		coordinator: coordinator,
		registry:    registry,
		jwtSecret:   jwtSecret,
	}
}

// GinHandler authenticates the upgrade request and hands the connection
// to the frame loop. Authentication failures end the connection; no
// coordinator event ever fires for an unauthenticated socket.
func (s *Server) GinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.BearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		playerID, err := auth.VerifyToken(s.jwtSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		handler := websocket.Handler(func(conn *websocket.Conn) {
			s.handleConn(conn, playerID)
		})
		handler.ServeHTTP(c.Writer, c.Request)
	}
}

func (s *Server) handleConn(conn *websocket.Conn, playerID string) {
	defer func() {
		_ = conn.Close()
	}()

	ctx := context.Background()
	connID := utils.RandomString(6)

	p := newPeer(json.NewEncoder(conn), connID, playerID)
	s.hub.addPeer(p)
	s.registry.Register(playerID)

	defer func() {
		last := s.registry.Unregister(playerID)
		s.hub.removePeer(p)
		if !last {
			// Another tab still holds a connection; the player keeps
			// their matchmaking ticket.
			return
		}
		if err := s.coordinator.Disconnect(ctx, playerID); err != nil {
			logger.Error("disconnect handling failed", map[string]any{
				"player": playerID,
				"error":  err.Error(),
			})
		}
	}()

	logger.Info("websocket connected", map[string]any{
		"connId": connID,
		"player": playerID,
	})

	// Announce identity and replay a bound game, if any.
	events, err := s.coordinator.Connect(ctx, playerID)
	if err != nil {
		logger.Error("connect handling failed", map[string]any{
			"player": playerID,
			"error":  err.Error(),
		})
	}
	for _, ev := range events {
		p.send(ev)
	}

	decoder := json.NewDecoder(conn)
	decodeErrors := 0

	for {
		var frame clientFrame
		if err := decoder.Decode(&frame); err != nil {
			if errors.Is(err, io.EOF) {
				return
			}
			decodeErrors++
			p.send(rejected("invalid frame payload"))
			if decodeErrors >= maxDecodeErrorsPerConn {
				return
			}
			continue
		}
		decodeErrors = 0

		s.dispatch(ctx, p, frame)
	}
}

func (s *Server) dispatch(ctx context.Context, p *peer, frame clientFrame) {
	var reply *game.Event
	var err error

	switch frame.Type {
	case frameFindMatch:
		reply, err = s.coordinator.FindMatch(ctx, p.playerID)

	case frameCancelFind:
		err = s.coordinator.CancelFind(ctx, p.playerID)

	case frameSubmitMove:
		var payload movePayload
		if uerr := json.Unmarshal(frame.Payload, &payload); uerr != nil || payload.GameID == "" || payload.Move == "" {
			p.send(rejected("malformed payload"))
			return
		}
		reply, err = s.coordinator.SubmitMove(ctx, p.playerID, payload.GameID, payload.Move)

	case frameResign:
		gameID, ok := gameRef(frame.Payload)
		if !ok {
			p.send(rejected("malformed payload"))
			return
		}
		reply, err = s.coordinator.Resign(ctx, p.playerID, gameID)

	case frameOfferDraw:
		gameID, ok := gameRef(frame.Payload)
		if !ok {
			p.send(rejected("malformed payload"))
			return
		}
		reply, err = s.coordinator.OfferDraw(ctx, p.playerID, gameID)

	case frameAcceptDraw:
		gameID, ok := gameRef(frame.Payload)
		if !ok {
			p.send(rejected("malformed payload"))
			return
		}
		reply, err = s.coordinator.AcceptDraw(ctx, p.playerID, gameID)

	case frameRejectDraw:
		gameID, ok := gameRef(frame.Payload)
		if !ok {
			p.send(rejected("malformed payload"))
			return
		}
		reply, err = s.coordinator.RejectDraw(ctx, p.playerID, gameID)

	case frameCheckTimeout:
		gameID, ok := gameRef(frame.Payload)
		if !ok {
			p.send(rejected("malformed payload"))
			return
		}
		err = s.coordinator.CheckTimeout(ctx, gameID)

	default:
		p.send(rejected("unsupported frame type"))
		return
	}

	if err != nil {
		logger.Error("event handling failed", map[string]any{
			"connId": p.connID,
			"player": p.playerID,
			"frame":  frame.Type,
			"error":  err.Error(),
		})
		// Transient failure; nothing was mutated, a retry is safe.
		p.send(rejected("temporary server error, please retry"))
		return
	}
	if reply != nil {
		p.send(*reply)
	}
}

func gameRef(raw json.RawMessage) (string, bool) {
	var payload gameRefPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.GameID == "" {
		return "", false
	}
	return payload.GameID, true
}

func rejected(reason string) game.Event {
	return game.Event{Type: game.EventMoveRejected, Payload: game.RejectedPayload{Reason: reason}}
}
