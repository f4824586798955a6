package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter keeps one token bucket per client and action.
type rateLimiter struct {
	mu      sync.Mutex
	perSec  rate.Limit
	burst   int
	clients map[string]*limiterEntry
	now     func() time.Time
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	return &rateLimiter{
		perSec:  rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*limiterEntry),
		now:     time.Now,
	}
}

func (l *rateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	entry, ok := l.clients[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.perSec, l.burst)}
		l.clients[key] = entry
	}
	entry.lastSeen = now
	if len(l.clients) > 1024 {
		l.prune(now)
	}
	return entry.limiter.AllowN(now, 1)
}

func (l *rateLimiter) prune(now time.Time) {
	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > limiterIdleTTL {
			delete(l.clients, key)
		}
	}
}

func (s *Server) enforceRateLimit(c *gin.Context, action string) bool {
	if s.limiter == nil {
		return true
	}
	if s.limiter.allow(c.ClientIP() + "|" + action) {
		return true
	}
	log.Warn().Str("client", c.ClientIP()).Str("action", action).Msg("rate limited")
	writeError(c, http.StatusTooManyRequests, "too many requests")
	return false
}
