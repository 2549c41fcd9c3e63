package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestRateLimiterBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(RateLimiterConfig{
		MutationsPerMinute: 60,
		BurstSize:          3,
	}, zap.NewNop())

	router := gin.New()
	router.POST("/mutate", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	statuses := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
	}

	for i := 0; i < 3; i++ {
		if statuses[i] != http.StatusOK {
			t.Errorf("request %d within burst: got %d, want 200", i, statuses[i])
		}
	}
	if statuses[3] != http.StatusTooManyRequests && statuses[4] != http.StatusTooManyRequests {
		t.Errorf("requests past the burst should be limited, got %v", statuses)
	}
}

func TestRateLimiterEvictsStaleClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(RateLimiterConfig{
		MutationsPerMinute: 60,
		BurstSize:          3,
		CleanupInterval:    10 * time.Millisecond,
	}, zap.NewNop())

	router := gin.New()
	router.POST("/mutate", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	const clients = 100
	for i := 0; i < clients; i++ {
		req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
		req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:1234", i/256, i%256)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}
	if got := limiter.clientCount(); got != clients {
		t.Fatalf("got %d tracked clients, want %d", got, clients)
	}

	// Idle clients must be dropped once they age past two cleanup intervals
	deadline := time.Now().Add(2 * time.Second)
	for limiter.clientCount() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("%d stale client buckets still tracked after cleanup deadline", limiter.clientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(RateLimiterConfig{MutationsPerMinute: 0}, zap.NewNop())

	router := gin.New()
	router.POST("/mutate", limiter.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/mutate", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("disabled limiter should admit everything, got %d on request %d", w.Code, i)
		}
	}
}
