package ws

import (
	"net/http"
	"strings"

	"mainet/internal/logger"
	"mainet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// HandleWS upgrades GET /ws/:user_id?token=... The token subject must match
// the user id in the path. An empty allowedOrigin accepts any origin.
func HandleWS(hub *Hub, tokens *service.TokenService, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" || allowedOrigin == "*" {
				return true
			}
			return strings.EqualFold(r.Header.Get("Origin"), allowedOrigin)
		},
	}

	return func(c *gin.Context) {
		pathID, err := uuid.Parse(c.Param("user_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}

		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		id, err := tokens.ParseAccess(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if id.UserID != pathID {
			c.JSON(http.StatusForbidden, gin.H{"error": "token does not match user"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade failed", "user_id", pathID, "error", err)
			return
		}

		go NewClient(pathID, conn, hub).Run()
	}
}
