package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock is a manually advanced time source
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestLimiter(cfg *Config) (*Limiter, *clock) {
	c := &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(cfg)
	l.now = c.Now
	return l, c
}

func TestLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/analyses/abc", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/analyses/abc", "GET")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 12*time.Second, info.RetryAfter)
}

func TestLimiter_Refill(t *testing.T) {
	l, c := newTestLimiter(&Config{Enabled: true, DefaultLimit: 60, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 60; i++ {
		l.Allow("client", "/resumes/1", "GET")
	}
	allowed, _ := l.Allow("client", "/resumes/1", "GET")
	require.False(t, allowed)

	c.Advance(time.Second)
	allowed, _ = l.Allow("client", "/resumes/1", "GET")
	assert.True(t, allowed, "one token refills per second")

	allowed, _ = l.Allow("client", "/resumes/1", "GET")
	assert.False(t, allowed)
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	allowed, _ := l.Allow("a", "/resumes/1", "GET")
	assert.True(t, allowed)
	allowed, _ = l.Allow("a", "/resumes/1", "GET")
	assert.False(t, allowed)
	allowed, _ = l.Allow("b", "/resumes/1", "GET")
	assert.True(t, allowed)
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"trusted": true},
		Blacklist:     map[string]bool{"blocked": true},
	})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("trusted", "/analyses", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := l.Allow("blocked", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("client", "/analyses", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	l, _ := newTestLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    100,
		DefaultWindow:   time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	})
	defer l.Stop()

	// POST /analyses allows a burst of 10
	for i := 0; i < 10; i++ {
		allowed, info := l.Allow("client", "/analyses", "POST")
		require.True(t, allowed)
		assert.Equal(t, 60, info.Limit)
	}
	allowed, _ := l.Allow("client", "/analyses", "POST")
	assert.False(t, allowed)

	// Reads of the same path are limited separately
	allowed, info := l.Allow("client", "/analyses", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 100, info.Limit)

	// Health and metrics are never limited
	for i := 0; i < 200; i++ {
		allowed, _ := l.Allow("client", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Hour})
	defer l.Stop()

	var mu sync.Mutex
	allowedCount := 0
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("client", "/resumes/1", "GET"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowedCount)
}

func TestLimiter_RemoveIdle(t *testing.T) {
	l, c := newTestLimiter(&Config{Enabled: true, DefaultLimit: 10, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		l.Allow(fmt.Sprintf("client-%d", i), "/resumes/1", "GET")
	}
	c.Advance(2 * time.Hour)
	l.Allow("client-0", "/resumes/1", "GET")

	l.removeIdle(c.Now().Add(-idleBucketTTL))

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Len(t, l.buckets, 1)
}

func TestNewLimiter_NilConfig(t *testing.T) {
	l := NewLimiter(nil)
	defer l.Stop()

	allowed, info := l.Allow("client", "/resumes/1", "GET")
	assert.True(t, allowed)
	assert.Equal(t, 1000, info.Limit)
	l.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/analyses", Method: "POST", Limit: 1},
		{Path: "/resumes/", Method: "PUT", Limit: 2},
	}

	assert.Equal(t, 1, MatchEndpoint("/analyses", "POST", configs).Limit)
	assert.Equal(t, 2, MatchEndpoint("/resumes/123", "PUT", configs).Limit)
	assert.Nil(t, MatchEndpoint("/analyses", "GET", configs))
	assert.Equal(t, 0, MatchEndpoint("/metrics", "GET", configs).Limit)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MATCHER_RATE_LIMIT_DEFAULT_LIMIT", "20")
	t.Setenv("MATCHER_RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	cfg := LoadConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 20, cfg.DefaultLimit)
	assert.Equal(t, time.Minute, cfg.DefaultWindow)
	assert.True(t, cfg.Whitelist["10.0.0.2"])

	t.Setenv("MATCHER_RATE_LIMIT_ENABLED", "false")
	assert.False(t, LoadConfig().Enabled)
}
