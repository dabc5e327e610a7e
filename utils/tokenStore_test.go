package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryTokenStorePutGetDelete(t *testing.T) {
	store := NewMemoryTokenStore(time.Minute)

	store.Put("token-1", "alice@example.com")

	value, ok := store.Get("token-1")
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", value)

	store.Delete("token-1")
	_, ok = store.Get("token-1")
	assert.False(t, ok)
}

func TestMemoryTokenStoreExpiry(t *testing.T) {
	store := NewMemoryTokenStore(20 * time.Millisecond)

	store.Put("token-1", "alice@example.com")
	time.Sleep(50 * time.Millisecond)

	_, ok := store.Get("token-1")
	assert.False(t, ok, "expired tokens must not be returned")
}

func TestMemoryTokenStoreMissing(t *testing.T) {
	store := NewMemoryTokenStore(time.Minute)
	_, ok := store.Get("never-issued")
	assert.False(t, ok)
}

func TestWindowRateLimiter(t *testing.T) {
	limiter := NewWindowRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, limiter.Allow("10.0.0.1"), "request over the limit should be rejected")

	// Other keys have their own allowance.
	assert.True(t, limiter.Allow("10.0.0.2"))
}

func TestWindowRateLimiterWindowReset(t *testing.T) {
	limiter := NewWindowRateLimiter(1, 20*time.Millisecond)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.1"), "allowance should reset after the window")
}

func TestWindowRateLimiterConcurrentKeys(t *testing.T) {
	limiter := NewWindowRateLimiter(100, time.Minute)

	for i := 0; i < 100; i++ {
		key := fmt.Sprintf("192.168.0.%d", i%10)
		assert.True(t, limiter.Allow(key))
	}
}
