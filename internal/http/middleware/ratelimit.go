package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// bypassRateLimitKey marks a request as exempt from rate limiting. The
// idempotency middleware sets it when replaying an already-completed
// checkout, so clients retrying a timed-out purchase are never throttled
// into re-submitting a brand new charge.
const bypassRateLimitKey = "rate.bypass"

// RateLimitConfig tunes the per-client token bucket limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate per client IP.
	RequestsPerSecond float64

	// Burst is the bucket size, i.e. how many requests can arrive at once.
	Burst int

	// ClientTTL controls how long an idle client's bucket is retained
	// before the janitor drops it. Zero defaults to 10 minutes.
	ClientTTL time.Duration
}

type rateClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit enforces a per-IP token bucket across all routes it is mounted
// on. Rejected requests get 429 with a Retry-After hint. Idle buckets are
// evicted by a background janitor so the map does not grow unboundedly.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	ttl := cfg.ClientTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*rateClient)
	)

	go func() {
		ticker := time.NewTicker(ttl)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-ttl)
			mu.Lock()
			for ip, rc := range clients {
				if rc.lastSeen.Before(cutoff) {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		if c.GetBool(bypassRateLimitKey) {
			c.Next()
			return
		}

		ip := c.ClientIP()

		mu.Lock()
		rc, ok := clients[ip]
		if !ok {
			rc = &rateClient{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			clients[ip] = rc
		}
		rc.lastSeen = time.Now()
		allowed := rc.limiter.Allow()
		mu.Unlock()

		if !allowed {
			rid, _ := c.Get(requestIDKey)
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status": false,
				"error": gin.H{
					"request_id": asString(rid),
					"code":       "rate_limited",
					"message":    "too many requests",
				},
			})
			return
		}
		c.Next()
	}
}
