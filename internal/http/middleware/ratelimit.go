package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// windowCounter is an in-process fixed-window counter
type windowCounter struct {
	mu      sync.Mutex
	clients map[string]*clientInfo
}

func newWindowCounter() *windowCounter {
	return &windowCounter{clients: make(map[string]*clientInfo)}
}

// hit counts one request for key and returns the count within the current window
func (w *windowCounter) hit(key string, window time.Duration, now time.Time) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	ci, ok := w.clients[key]
	if !ok || now.Sub(ci.start) > window {
		if len(w.clients) > 10000 {
			w.evict(window, now)
		}
		w.clients[key] = &clientInfo{start: now, count: 1}
		return 1
	}
	ci.count++
	return ci.count
}

func (w *windowCounter) evict(window time.Duration, now time.Time) {
	for k, ci := range w.clients {
		if now.Sub(ci.start) > window {
			delete(w.clients, k)
		}
	}
}

// SimpleRateLimit blocks clients that send more than maxRequests per window
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	counter := newWindowCounter()
	return func(c *gin.Context) {
		if counter.hit(c.ClientIP(), window, time.Now()) > maxRequests {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
