// Package ratelimit provides per-client request limiting using the token
// bucket algorithm. Chat turns fan out to a paid language model, so the
// advisor throttles callers before the request reaches it.
package ratelimit

import (
	"sync"
	"time"
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled bool
	// Limit is the bucket capacity: the burst of requests a client may make
	// before refill pacing kicks in.
	Limit int
	// Window is the time over which Limit tokens refill.
	Window time.Duration
	// CleanupInterval controls how often idle client buckets are dropped.
	CleanupInterval time.Duration
}

// DefaultConfig allows 60 requests per minute per client.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		Limit:           60,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	}
}

// bucket is one client's token bucket. Tokens refill continuously at
// Limit/Window per second.
type bucket struct {
	tokens     float64
	lastRefill time.Time
	lastAccess time.Time
}

// Limiter manages one token bucket per client.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	config  *Config
	stop    chan struct{}
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	l := &Limiter{
		buckets: make(map[string]*bucket),
		config:  config,
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop()
	}
	return l
}

// Allow reports whether a request from clientID may proceed, consuming one
// token if so.
func (l *Limiter) Allow(clientID string) bool {
	if !l.config.Enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[clientID]
	if !ok {
		b = &bucket{tokens: float64(l.config.Limit), lastRefill: now}
		l.buckets[clientID] = b
	}

	refillRate := float64(l.config.Limit) / l.config.Window.Seconds()
	b.tokens += now.Sub(b.lastRefill).Seconds() * refillRate
	if b.tokens > float64(l.config.Limit) {
		b.tokens = float64(l.config.Limit)
	}
	b.lastRefill = now
	b.lastAccess = now

	if b.tokens < 1.0 {
		return false
	}
	b.tokens -= 1.0
	return true
}

// Stop terminates the cleanup loop.
func (l *Limiter) Stop() {
	close(l.stop)
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-2 * l.config.CleanupInterval)
	for clientID, b := range l.buckets {
		if b.lastAccess.Before(cutoff) {
			delete(l.buckets, clientID)
		}
	}
}
