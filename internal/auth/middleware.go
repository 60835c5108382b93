package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const userIDContextKey = "userID"

// UserIDFromGin extracts the authenticated user ID placed by RequireAuth.
func UserIDFromGin(c *gin.Context) (string, bool) {
	id := c.GetString(userIDContextKey)
	return id, id != ""
}

// RequireAuth validates the Authorization bearer token and attaches the
// user ID to the request context. Auth decisions are token-based only;
// no session lookup happens here.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c.Request)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		userID, err := VerifyToken(jwtSecret, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(userIDContextKey, userID)
		c.Next()
	}
}

// BearerToken pulls a token from the Authorization header, falling back
// to the token query parameter for websocket clients that cannot set
// headers during the upgrade.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")); token != "" {
			return token
		}
	}
	return strings.TrimSpace(r.URL.Query().Get("token"))
}
