package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cardoctor/server/internal/observability"
	"github.com/cardoctor/server/services"
	"github.com/cardoctor/server/utils"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiterConfig holds the per-client token bucket settings
type RateLimiterConfig struct {
	Rate            rate.Limit
	Burst           int
	CleanupInterval time.Duration
}

// LoginRateLimiterConfig converts a per-minute budget into limiter settings
func LoginRateLimiterConfig(perMinute, burst int) RateLimiterConfig {
	return RateLimiterConfig{
		Rate:            rate.Limit(float64(perMinute) / 60.0),
		Burst:           burst,
		CleanupInterval: 5 * time.Minute,
	}
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter throttles requests per client address
type RateLimiter struct {
	config  RateLimiterConfig
	metrics observability.Metrics
	logger  *zap.Logger

	mu       sync.Mutex
	limiters map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRateLimiter creates a RateLimiter and starts its cleanup goroutine. Call Stop when done.
func NewRateLimiter(config RateLimiterConfig, metrics observability.Metrics, logger *zap.Logger) *RateLimiter {
	if metrics == nil {
		metrics = observability.NopMetrics{}
	}
	rl := &RateLimiter{
		config:   config,
		metrics:  metrics,
		logger:   logger,
		limiters: make(map[string]*clientLimiter),
		stopCh:   make(chan struct{}),
	}

	if config.CleanupInterval > 0 {
		go rl.cleanupLoop()
	}

	return rl
}

// Stop stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware answers 429 once a client exhausts its bucket
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)

		if !rl.limiter(key).Allow() {
			rl.logger.Warn("rate limit exceeded",
				zap.String("request_id", GetRequestIDFromContext(r.Context())),
				zap.String("client", key))
			rl.metrics.RecordLoginThrottled()
			w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rl.config.Rate)))
			_ = utils.WriteTooManyRequests(w, services.ErrRateLimitExceeded.Message, nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.limiters[key]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.config.Rate, rl.config.Burst)}
		rl.limiters[key] = cl
	}
	cl.lastAccess = time.Now()
	return cl.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup drops clients idle for more than two cleanup intervals
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, cl := range rl.limiters {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.limiters, key)
		}
	}
}

// clientKey is the client IP. chi's RealIP middleware has already rewritten RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(r rate.Limit) int {
	if r <= 0 {
		return 60
	}
	secs := int(math.Ceil(1.0 / float64(r)))
	if secs < 1 {
		secs = 1
	}
	return secs
}
