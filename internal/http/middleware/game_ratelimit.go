package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameRateLimit limits game actions per user (not per IP).
// Requires JWT middleware to run before this.
func GameRateLimit(maxActions int, window time.Duration) gin.HandlerFunc {
	local := newWindowCounter()
	return func(c *gin.Context) {
		v, exists := c.Get(CtxUserID)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		userID, ok := v.(uuid.UUID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid user"})
			return
		}

		var val int64
		if redisClient == nil {
			val = int64(local.hit(userID.String(), window, time.Now()))
		} else {
			key := "game_rl:" + userID.String() + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
			n, err := incr(c.Request.Context(), key, window)
			if err != nil {
				c.Header("X-GameRateLimit-Error", "redis-error")
				c.Next()
				return
			}
			val = n
		}

		c.Header("X-GameRateLimit-Limit", strconv.Itoa(maxActions))
		c.Header("X-GameRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxActions)-val), 10))

		if val > int64(maxActions) {
			RLBlocked.WithLabelValues("game:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "game rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("game:" + c.FullPath()).Inc()
		c.Next()
	}
}
