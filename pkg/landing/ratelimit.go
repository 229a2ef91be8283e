// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package landing

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/canonical/guest-access-service/internal/logging"
)

const visitorIdle = 10 * time.Minute

type visitor struct {
	limiter *rate.Limiter
	seen    time.Time
}

// RateLimiter throttles landing requests per client address.
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time

	limit rate.Limit
	burst int
	now   func() time.Time

	logger logging.LoggerInterface
}

// Limit rejects a request with 429 once its address has spent its burst.
func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		addr := clientAddr(r)
		if !rl.allow(addr) {
			rl.logger.Warnw("landing rate limit exceeded", "remote_addr", addr, "path", r.URL.Path)

			w.Header().Set("Retry-After", "1")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"state":"` + string(StateTooManyRequests) + `","message":"` + presentations[StateTooManyRequests].message + `"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(addr string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	if now.Sub(rl.lastSweep) > visitorIdle {
		for k, v := range rl.visitors {
			if now.Sub(v.seen) > visitorIdle {
				delete(rl.visitors, k)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[addr]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[addr] = v
	}
	v.seen = now

	return v.limiter.AllowN(now, 1)
}

func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// NewRateLimiter returns nil when requestsPerSecond is not positive, which
// disables limiting.
func NewRateLimiter(requestsPerSecond float64, burst int, logger logging.LoggerInterface) *RateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}

	if burst < 1 {
		burst = 1
	}

	rl := new(RateLimiter)

	rl.visitors = make(map[string]*visitor)
	rl.limit = rate.Limit(requestsPerSecond)
	rl.burst = burst
	rl.now = time.Now
	rl.lastSweep = rl.now()

	rl.logger = logger

	return rl
}
