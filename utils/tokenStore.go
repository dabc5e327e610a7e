package utils

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// TokenStore keeps short-lived tokens (password resets) keyed by token value.
// Entries expire on their own; Get never returns an expired token.
type TokenStore interface {
	Put(token, value string)
	Get(token string) (string, bool)
	Delete(token string)
}

type memoryTokenStore struct {
	cache *expirable.LRU[string, string]
}

func NewMemoryTokenStore(ttl time.Duration) TokenStore {
	return &memoryTokenStore{cache: expirable.NewLRU[string, string](4096, nil, ttl)}
}

func (s *memoryTokenStore) Put(token, value string) {
	s.cache.Add(token, value)
}

func (s *memoryTokenStore) Get(token string) (string, bool) {
	return s.cache.Get(token)
}

func (s *memoryTokenStore) Delete(token string) {
	s.cache.Remove(token)
}

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) bool
}

// windowRateLimiter counts hits per key inside a fixed window. The expirable
// LRU evicts counters once the window since first hit has passed.
type windowRateLimiter struct {
	mu    sync.Mutex
	hits  *expirable.LRU[string, *int]
	limit int
}

func NewWindowRateLimiter(limit int, window time.Duration) RateLimiter {
	return &windowRateLimiter{
		hits:  expirable.NewLRU[string, *int](8192, nil, window),
		limit: limit,
	}
}

func (l *windowRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	count, ok := l.hits.Get(key)
	if !ok {
		first := 1
		l.hits.Add(key, &first)
		return l.limit >= 1
	}
	*count++
	return *count <= l.limit
}
