package game

import (
	"context"
	"net/http"

	"github.com/Mayur-kumbar/Checkmate.io/internal/auth"
	"github.com/gin-gonic/gin"
)

// HistoryReader is the read side of the archive served over REST.
type HistoryReader interface {
	Find(ctx context.Context, gameID string) (*Archive, error)
	FindByPlayer(ctx context.Context, playerID string) ([]Archive, error)
}

// Handler serves the REST view of games: participants can fetch the
// live record, or the archived one once the game has concluded, and any
// authenticated user can list a player's concluded games.
type Handler struct {
	store   Store
	history HistoryReader
}

func NewHandler(store Store, history HistoryReader) *Handler {
	return &Handler{store: store, history: history}
}

func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/game/:id", h.getGame)
	api.GET("/user/:id/games", h.getUserGames)
}

func (h *Handler) getGame(c *gin.Context) {
	userID, ok := auth.UserIDFromGin(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	gameID := c.Param("id")

	g, err := h.store.Get(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}
	if g != nil {
		if _, participant := g.ColorOf(userID); !participant {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this game"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"game": g})
		return
	}

	archived, err := h.history.Find(c.Request.Context(), gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load game"})
		return
	}
	if archived == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if archived.White != userID && archived.Black != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant in this game"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"game": archiveJSON(*archived)})
}

func (h *Handler) getUserGames(c *gin.Context) {
	if _, ok := auth.UserIDFromGin(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	archives, err := h.history.FindByPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load games"})
		return
	}

	games := make([]gin.H, 0, len(archives))
	for _, a := range archives {
		games = append(games, archiveJSON(a))
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func archiveJSON(a Archive) gin.H {
	return gin.H{
		"gameId": a.GameID,
		"white":  a.White,
		"black":  a.Black,
		"moves":  a.Moves,
		"result": a.Result,
		"reason": a.Reason,
		"status": StatusFinished,
	}
}
