// Package signing implements the request authentication scheme of the
// reseller API. Every outbound call carries a unique request identifier and
// a keyed digest proving possession of the shared API key; the key itself is
// never transmitted.
//
// The scheme is fixed by the reseller: both the identifier and the signature
// are MD5 hex digests. MD5 is a protocol requirement here, not a choice:
// the receiving service recomputes md5(requestID + apiKey) to verify the
// caller.
package signing

import (
	"crypto/md5"
	"encoding/binary"
	"encoding/hex"
	"math/rand"
	"strconv"
	"time"
)

// NewRequestID returns a fresh request identifier: the MD5 hex digest of the
// current nanosecond timestamp concatenated with a random 64-bit value.
//
// Identifiers must be unique per call with overwhelming probability; the
// timestamp+randomness construction makes a collision statistically
// negligible within a process lifetime. Callers must generate a new
// identifier for every HTTP call; identifiers are never reused across the
// customer, registrant, and domain calls of one transaction.
func NewRequestID() string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], rand.Uint64())

	h := md5.New()
	h.Write([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)))
	h.Write(buf[:])
	return hex.EncodeToString(h.Sum(nil))
}

// Sign returns the signature for a request identifier under the given API
// key: the MD5 hex digest of requestID followed by apiKey.
//
// The result is deterministic for a given (requestID, key) pair and must be
// recomputed for every call, because it is bound to that call's identifier.
func Sign(requestID, apiKey string) string {
	sum := md5.Sum([]byte(requestID + apiKey))
	return hex.EncodeToString(sum[:])
}
