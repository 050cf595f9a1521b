// ratelimit/ratelimit.go
package ratelimit

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// Limiter is a token bucket. It is not safe for concurrent use on its own;
// KeyLimiter serializes access.
type Limiter struct {
	rate     float64 // tokens per second
	burst    float64
	tokens   float64
	lastTime time.Time
}

func newLimiter(rate float64, burst int, now time.Time) *Limiter {
	return &Limiter{rate: rate, burst: float64(burst), tokens: float64(burst), lastTime: now}
}

// take refills for the time elapsed since the last call and consumes one
// token. When empty it returns how long until one is available.
func (l *Limiter) take(now time.Time) (bool, time.Duration) {
	if elapsed := now.Sub(l.lastTime).Seconds(); elapsed > 0 {
		l.tokens = math.Min(l.burst, l.tokens+elapsed*l.rate)
	}
	l.lastTime = now

	if l.tokens >= 1 {
		l.tokens--
		return true, 0
	}
	wait := time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
	return false, wait
}

// KeyLimiter keeps one bucket per key (client IP) and forgets keys idle
// longer than ttl.
type KeyLimiter struct {
	mu       sync.Mutex
	limiters map[string]*Limiter
	rate     float64
	burst    int
	ttl      time.Duration
	now      func() time.Time
}

// NewKeyLimiter returns a limiter allowing rate requests per second per key
// with bursts of up to burst.
func NewKeyLimiter(rate float64, burst int, ttl time.Duration) *KeyLimiter {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &KeyLimiter{
		limiters: make(map[string]*Limiter),
		rate:     rate,
		burst:    burst,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Allow consumes a token for key. When denied it also returns the wait
// until the next token.
func (kl *KeyLimiter) Allow(key string) (bool, time.Duration) {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	now := kl.now()
	l, ok := kl.limiters[key]
	if !ok {
		l = newLimiter(kl.rate, kl.burst, now)
		kl.limiters[key] = l
	}
	return l.take(now)
}

// Sweep drops keys idle longer than the ttl.
func (kl *KeyLimiter) Sweep() {
	kl.mu.Lock()
	defer kl.mu.Unlock()

	now := kl.now()
	for key, l := range kl.limiters {
		if now.Sub(l.lastTime) > kl.ttl {
			delete(kl.limiters, key)
		}
	}
}

// Run sweeps every ttl until ctx is canceled.
func (kl *KeyLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(kl.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			kl.Sweep()
		}
	}
}

// Size returns the number of tracked keys.
func (kl *KeyLimiter) Size() int {
	kl.mu.Lock()
	defer kl.mu.Unlock()
	return len(kl.limiters)
}

// ClientIP keys requests by the host part of RemoteAddr. Run chi's RealIP
// middleware first when behind a proxy.
func ClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// Middleware rejects requests over the limit with a Retry-After header and
// hands the response to deny (a plain-text 429 when nil).
func Middleware(kl *KeyLimiter, deny http.HandlerFunc) func(http.Handler) http.Handler {
	if deny == nil {
		deny = func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := kl.Allow(ClientIP(r))
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
