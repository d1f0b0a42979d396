package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.Use(RateLimit(5, time.Minute, 5)) // 5 requests per minute
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	// Make 5 requests - all should succeed
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i+1, w.Code)
		}
	}

	// 6th request should be rate limited
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
}

func TestRateLimitDifferentIPs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(2, time.Minute, 2))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "10.0.0.1:1000"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
	}

	// New IP should not be rate limited
	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "10.0.0.2:1000"
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Different IP should not be rate limited, got %d", w.Code)
	}
}

func TestRateLimiterRefill(t *testing.T) {
	limiter := NewRateLimiter(60, time.Minute, 1) // one token per second
	now := time.Now()

	if ok, _ := limiter.Allow("client", now); !ok {
		t.Fatal("Expected first request to pass")
	}
	ok, wait := limiter.Allow("client", now)
	if ok {
		t.Fatal("Expected second immediate request to be refused")
	}
	if wait <= 0 || wait > time.Second {
		t.Errorf("Expected wait within one second, got %v", wait)
	}
	if ok, _ := limiter.Allow("client", now.Add(time.Second)); !ok {
		t.Error("Expected request to pass after refill")
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(100, time.Minute, 0)
	start := time.Now()

	limiter.Allow("idle", start)
	later := start.Add(2 * limiterIdleTTL)
	for i := 0; i < limiterSweepEvery; i++ {
		limiter.Allow("busy", later)
	}

	limiter.mu.Lock()
	_, idleKept := limiter.byKey["idle"]
	_, busyKept := limiter.byKey["busy"]
	limiter.mu.Unlock()

	if idleKept {
		t.Error("Expected idle client to be evicted")
	}
	if !busyKept {
		t.Error("Expected busy client to be kept")
	}
}

func TestNewRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(120, time.Minute, 0)

	if limiter == nil {
		t.Fatal("Expected non-nil limiter")
	}
	if limiter.limit != 2 {
		t.Errorf("Expected 2 tokens per second, got %v", limiter.limit)
	}
	if limiter.burst != 120 {
		t.Errorf("Expected burst to default to the request count, got %d", limiter.burst)
	}
}
