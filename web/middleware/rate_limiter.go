package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimiterConfig holds configuration for rate limiting
type RateLimiterConfig struct {
	MutationsPerMinute int           // Max mutation requests per client per minute
	BurstSize          int           // Allow burst of N requests
	CleanupInterval    time.Duration // How often to clean up old entries
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a new token bucket
func NewTokenBucket(maxTokens float64, refillRate float64) *TokenBucket {
	return &TokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow checks if a request can proceed and consumes a token if so
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	// Refill tokens based on elapsed time
	tb.tokens = min(tb.maxTokens, tb.tokens+(elapsed*tb.refillRate))
	tb.lastRefill = now

	if tb.tokens >= 1.0 {
		tb.tokens -= 1.0
		return true
	}
	return false
}

// lastUsed tracks staleness for cleanup
type clientBucket struct {
	bucket   *TokenBucket
	lastSeen time.Time
}

// RateLimiter limits mutation requests per client IP. Read paths are never
// limited; the append lock is the bottleneck being protected.
type RateLimiter struct {
	cfg     RateLimiterConfig
	clients map[string]*clientBucket
	mu      sync.Mutex
	logger  *zap.Logger
}

// NewRateLimiter creates a limiter with the given config and starts its
// background cleanup routine.
func NewRateLimiter(cfg RateLimiterConfig, logger *zap.Logger) *RateLimiter {
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 10 * time.Minute
	}
	rl := &RateLimiter{
		cfg:     cfg,
		clients: make(map[string]*clientBucket),
		logger:  logger,
	}
	go rl.cleanupRoutine()
	return rl
}

func (rl *RateLimiter) bucketFor(clientIP string) *TokenBucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cb, ok := rl.clients[clientIP]
	if !ok {
		refillRate := float64(rl.cfg.MutationsPerMinute) / 60.0
		cb = &clientBucket{bucket: NewTokenBucket(float64(rl.cfg.BurstSize), refillRate)}
		rl.clients[clientIP] = cb
	}
	cb.lastSeen = time.Now()
	return cb.bucket
}

// Middleware rejects requests over the per-client budget with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.cfg.MutationsPerMinute <= 0 {
			c.Next()
			return
		}

		if !rl.bucketFor(c.ClientIP()).Allow() {
			rl.logger.Warn("Rate limit exceeded", zap.String("client", c.ClientIP()))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// cleanupRoutine periodically evicts buckets for clients not seen within
// two cleanup intervals, bounding the map for the life of the process.
func (rl *RateLimiter) cleanupRoutine() {
	ticker := time.NewTicker(rl.cfg.CleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-2 * rl.cfg.CleanupInterval)
		rl.mu.Lock()
		for ip, cb := range rl.clients {
			if cb.lastSeen.Before(cutoff) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// clientCount reports the number of tracked client buckets.
func (rl *RateLimiter) clientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}
