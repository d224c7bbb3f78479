package middleware

import (
	"context"
	"log"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RedisLimiter shares the window counters between server instances.
type RedisLimiter struct {
	Client *redis.Client
	Max    int
	Window time.Duration
	Prefix string
}

func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{Client: client, Max: max, Window: window, Prefix: "ratelimit:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	k := l.Prefix + key
	count, err := l.Client.Incr(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	if count == 1 {
		if err := l.Client.Expire(ctx, k, l.Window).Err(); err != nil {
			return Decision{}, err
		}
	}
	ttl, err := l.Client.TTL(ctx, k).Result()
	if err != nil {
		return Decision{}, err
	}
	if ttl < 0 {
		// Counter lost its expiry; start the window again.
		ttl = l.Window
		if err := l.Client.Expire(ctx, k, l.Window).Err(); err != nil {
			return Decision{}, err
		}
	}
	return decide(int(count), l.Max, ttl), nil
}

type memoryWindow struct {
	count int
	start time.Time
}

// MemoryLimiter keeps counters in process; used when redis is not configured.
type MemoryLimiter struct {
	Max    int
	Window time.Duration
	Now    func() time.Time

	mu      sync.Mutex
	windows map[string]*memoryWindow
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		Max:     max,
		Window:  window,
		Now:     time.Now,
		windows: make(map[string]*memoryWindow),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := l.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= l.Window {
		if len(l.windows) > 10000 {
			l.sweep(now)
		}
		w = &memoryWindow{start: now}
		l.windows[key] = w
	}
	w.count++
	return decide(w.count, l.Max, l.Window-now.Sub(w.start)), nil
}

// sweep drops expired windows. Caller holds mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, w := range l.windows {
		if now.Sub(w.start) >= l.Window {
			delete(l.windows, k)
		}
	}
}

func decide(count, max int, resetIn time.Duration) Decision {
	remaining := max - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= max,
		Limit:     max,
		Remaining: remaining,
		ResetIn:   resetIn,
	}
}

// RateLimit rejects clients that exceed the limiter budget with 429. Limiter
// failures are logged and the request goes through.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.ResetIn.Seconds()))))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Muitas requisições deste IP, tente novamente mais tarde"})
			c.Abort()
			return
		}
		c.Next()
	}
}
