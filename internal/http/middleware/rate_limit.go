package middleware

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	apierrors "github.com/Vladiumnika/forumblackdynasty/internal/errors"
	logctx "github.com/Vladiumnika/forumblackdynasty/internal/pkg/log"
	"golang.org/x/time/rate"
)

// limiterIdleTTL — через сколько неактивный IP удаляется из таблицы.
const limiterIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter — token bucket на каждый IP клиента.
// Устаревшие записи вычищаются на запросах, без фоновой горутины.
type IPRateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	rps       rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter создаёт лимитер: rps запросов в секунду, всплеск до burst.
func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		visitors: make(map[string]*visitor),
		rps:      rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

// Allow расходует токен IP; false — лимит исчерпан.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterIdleTTL {
				delete(l.visitors, key)
			}
		}

		l.lastSweep = now
	}

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.visitors[ip] = v
	}

	v.lastSeen = now

	return v.limiter.AllowN(now, 1)
}

// RateLimit отвечает 429/rate_limited, когда IP исчерпал лимит.
func RateLimit(l *IPRateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		if l == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			if !l.Allow(ip) {
				logctx.From(r.Context()).Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				w.Header().Set("Retry-After", "1")
				apierrors.WriteError(w, r, fmt.Errorf("middleware/RateLimit: %w", apierrors.ErrRateLimited))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP — хост из RemoteAddr (X-Forwarded-For разбирает chi RealIP выше по цепочке).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
