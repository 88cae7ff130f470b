package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitConfig sizes a per-client token bucket: Requests tokens that
// refill evenly over Window
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
	// KeyFunc identifies the client, the real IP by default
	KeyFunc func(c echo.Context) string
	Message string
	// Now is the clock, time.Now when nil
	Now func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one bucket per client and forgets idle clients
type RateLimiter struct {
	config   RateLimitConfig
	every    rate.Limit
	mu       sync.Mutex
	visitors map[string]*visitor
	stop     chan struct{}
	once     sync.Once
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string { return c.RealIP() }
	}
	if config.Message == "" {
		config.Message = "طلبات كثيرة جداً، الرجاء المحاولة لاحقاً"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Requests < 1 {
		config.Requests = 1
	}

	rl := &RateLimiter{
		config:   config,
		every:    rate.Every(config.Window / time.Duration(config.Requests)),
		visitors: make(map[string]*visitor),
		stop:     make(chan struct{}),
	}
	go rl.evictLoop()
	return rl
}

// allow takes a token for key, or returns how long until one is available
func (rl *RateLimiter) allow(key string) (bool, time.Duration) {
	now := rl.config.Now()

	rl.mu.Lock()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.every, rl.config.Requests)}
		rl.visitors[key] = v
	}
	v.lastSeen = now
	rl.mu.Unlock()

	if v.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := v.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, wait := rl.allow(rl.config.KeyFunc(c))
			if !ok {
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				return echo.NewHTTPError(http.StatusTooManyRequests, rl.config.Message)
			}
			return next(c)
		}
	}
}

// Stop ends the eviction goroutine. Safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// evict drops clients idle for a full window; their bucket would be full again
func (rl *RateLimiter) evict() {
	cutoff := rl.config.Now().Add(-rl.config.Window)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, key)
		}
	}
}

func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.evict()
		}
	}
}

// NewLoginRateLimiter allows bursts of 5 login attempts per IP, refilled over a minute
func NewLoginRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
		Message:  "محاولات دخول كثيرة، الرجاء الانتظار دقيقة ثم المحاولة مجدداً",
	})
}

// NewAPIRateLimiter allows 120 API requests per minute per IP
func NewAPIRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{Requests: 120, Window: time.Minute})
}
