package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Common cache errors
var (
	ErrCacheMiss       = errors.New("cache miss")
	ErrForcedCacheMiss = errors.New("cache miss in forced mode")
)

// Cache defines the interface for all response cache implementations
type Cache interface {
	// Get returns the cached body for key if it is younger than ttl.
	// In force mode any existing entry is returned regardless of age.
	Get(key string, ttl time.Duration, force bool) (json.RawMessage, error)

	// Set stores a body under key, replacing any previous entry
	Set(key string, body json.RawMessage) error

	// Close cleans up the cache resources
	Close() error
}

// requestIdentity is the hashed shape of a request. encoding/json writes map
// keys in sorted order, so params hash the same regardless of insertion order.
type requestIdentity struct {
	Method   string         `json:"method"`
	Endpoint string         `json:"endpoint"`
	Params   map[string]any `json:"params"`
}

// RequestKey derives the cache key for a request from its method, endpoint
// template and full parameter set.
func RequestKey(method, endpoint string, params map[string]any) string {
	if params == nil {
		params = map[string]any{}
	}
	data, err := json.Marshal(requestIdentity{Method: method, Endpoint: endpoint, Params: params})
	if err != nil {
		// Params are built from strings and ints; fall back to a printed form
		// rather than failing the request.
		data = []byte(fmt.Sprintf("%s %s %v", method, endpoint, params))
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// Days converts a TTL expressed in days to a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}
