package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// idempotencyKeyHeader carries the client-chosen retry key.
	idempotencyKeyHeader = "Idempotency-Key"
	// userIDHeader identifies the purchasing account. Keys are scoped per
	// user so two customers can never collide on the same key value.
	userIDHeader = "X-User-ID"

	// maxIdempotencyKeyLength bounds stored key size.
	maxIdempotencyKeyLength = 255

	idempotencyKeyCtx    = "idem.key"
	idempotencyReplayCtx = "idem.replay"
)

// IdempotencyLookup reports whether a completed request already exists for
// the (userID, key) pair. Implemented by the repo layer against the
// idempotency table; expired records must report false.
type IdempotencyLookup func(ctx context.Context, userID, key string, now time.Time) (bool, error)

// Idempotency validates the Idempotency-Key header and, when a previous
// completed checkout exists for the same user and key, marks the request as
// a replay. Replays additionally bypass rate limiting so that a client
// re-polling a slow purchase cannot be throttled into abandoning it.
//
// Requests without the header pass through untouched; the key is optional.
func Idempotency(lookup IdempotencyLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			rid, _ := c.Get(requestIDKey)
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"status": false,
				"error": gin.H{
					"request_id": asString(rid),
					"code":       "invalid_request",
					"message":    "idempotency key exceeds 255 characters",
				},
			})
			return
		}

		c.Set(idempotencyKeyCtx, key)

		userID := c.GetHeader(userIDHeader)
		if userID == "" || lookup == nil {
			c.Next()
			return
		}

		seen, err := lookup(c.Request.Context(), userID, key, time.Now().UTC())
		if err != nil {
			// Lookup failure must not block a purchase; the handler-level
			// store still enforces uniqueness on write.
			LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			c.Next()
			return
		}
		if seen {
			c.Set(idempotencyReplayCtx, true)
			c.Set(bypassRateLimitKey, true)
		}
		c.Next()
	}
}

// IdempotencyKeyFrom returns the validated key for this request, or "".
func IdempotencyKeyFrom(c *gin.Context) string {
	return c.GetString(idempotencyKeyCtx)
}

// IsIdempotentReplay reports whether the request matched a stored record.
func IsIdempotentReplay(c *gin.Context) bool {
	return c.GetBool(idempotencyReplayCtx)
}

// UserIDFrom returns the purchasing account id from the request headers.
func UserIDFrom(c *gin.Context) string {
	return c.GetHeader(userIDHeader)
}
