package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// LookupCache is a read-through cache for expensive gateway lookups,
// shared across sessions. Entries expire on TTL, so stale cloud state
// is bounded.
type LookupCache struct {
	lru *expirable.LRU[string, any]
}

// NewLookupCache creates a cache with the given size and TTL.
func NewLookupCache(size int, ttl time.Duration) *LookupCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL * time.Second
	}
	return &LookupCache{
		lru: expirable.NewLRU[string, any](size, nil, ttl),
	}
}

// Get returns the cached value for a key.
func (c *LookupCache) Get(key string) (any, bool) {
	return c.lru.Get(key)
}

// Set stores a value under a key.
func (c *LookupCache) Set(key string, value any) {
	c.lru.Add(key, value)
}

// Len returns the number of live entries.
// Purge drops every entry. Called after mutations so stale listings
// never survive a change.
func (c *LookupCache) Purge() {
	c.lru.Purge()
}

func (c *LookupCache) Len() int {
	return c.lru.Len()
}

// Fingerprint derives a stable cache key from a lookup's identity.
// Map keys are sorted by the JSON encoder, so equal params hash equal.
func Fingerprint(service, action string, params map[string]any) string {
	payload := struct {
		Service string         `json:"service"`
		Action  string         `json:"action"`
		Params  map[string]any `json:"params"`
	}{Service: service, Action: action, Params: params}

	data, err := json.Marshal(payload)
	if err != nil {
		return service + "/" + action
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])[:16]
}
