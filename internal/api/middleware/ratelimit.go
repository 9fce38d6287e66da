package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mcoot/bingobot/internal/api/apierr"
)

// idleLimiterTTL is how long an unused limiter is kept
const idleLimiterTTL = 10 * time.Minute

type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Throttle limits request rate per caller: by player id when present,
// otherwise by remote address
type Throttle struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
}

// NewThrottle allows rps requests per second per caller with the given burst
func NewThrottle(rps float64, burst int) *Throttle {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Throttle{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

func (t *Throttle) getLimiter(key string) *rate.Limiter {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if entry, ok := t.limiters[key]; ok {
		entry.lastAccess = now
		return entry.limiter
	}

	t.evictIdle(now)
	entry := &limiterEntry{
		limiter:    rate.NewLimiter(t.limit, t.burst),
		lastAccess: now,
	}
	t.limiters[key] = entry
	return entry.limiter
}

func (t *Throttle) evictIdle(now time.Time) {
	for key, entry := range t.limiters {
		if now.Sub(entry.lastAccess) > idleLimiterTTL {
			delete(t.limiters, key)
		}
	}
}

// Middleware returns the throttling middleware. It must run after Identity.
func (t *Throttle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !t.getLimiter(throttleKey(r)).Allow() {
			apierr.WriteError(w, apierr.NewTooManyRequestsError())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func throttleKey(r *http.Request) string {
	if caller := GetCaller(r.Context()); caller != nil && caller.ID != "" {
		return "player:" + string(caller.ID)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}
