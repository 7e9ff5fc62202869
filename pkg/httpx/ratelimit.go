package httpx

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/srots/portal/pkg/slogx"
	"golang.org/x/time/rate"
)

// Limit allows Requests per Per for one key, all of them available at once.
type Limit struct {
	Requests int
	Per      time.Duration
}

var (
	// StrictLimit guards login and password recovery.
	StrictLimit = Limit{Requests: 5, Per: time.Minute}

	// ModerateLimit guards password reset and premium activation.
	ModerateLimit = Limit{Requests: 20, Per: time.Minute}
)

func (l Limit) String() string {
	return strconv.Itoa(l.Requests) + "/" + l.Per.String()
}

// ParseLimit reads "<requests>/<duration>", for example "5/1m".
func ParseLimit(s string) (Limit, error) {
	n, per, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Limit{}, fmt.Errorf("rate limit %q: want <requests>/<duration>", s)
	}

	requests, err := strconv.Atoi(n)
	if err != nil || requests <= 0 {
		return Limit{}, fmt.Errorf("rate limit %q: bad request count", s)
	}
	d, err := time.ParseDuration(per)
	if err != nil || d <= 0 {
		return Limit{}, fmt.Errorf("rate limit %q: bad window", s)
	}
	return Limit{Requests: requests, Per: d}, nil
}

// KeyFunc groups requests that share a bucket. An empty key is not limited.
type KeyFunc func(*http.Request) string

// ClientIP is the first X-Forwarded-For hop, then X-Real-IP, then the peer.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ClientIPAndQuery keys on the client address plus a query parameter, when
// the parameter is present.
func ClientIPAndQuery(name string) KeyFunc {
	return func(r *http.Request) string {
		ip := ClientIP(r)
		if v := strings.TrimSpace(r.URL.Query().Get(name)); v != "" {
			return ip + ":" + v
		}
		return ip
	}
}

const idleAfter = 10 * time.Minute

type bucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type buckets struct {
	mu        sync.Mutex
	limit     Limit
	byKey     map[string]*bucket
	lastSweep time.Time
}

func (b *buckets) get(key string, now time.Time) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastSweep) > idleAfter {
		for k, v := range b.byKey {
			if now.Sub(v.lastSeen) > idleAfter {
				delete(b.byKey, k)
			}
		}
		b.lastSweep = now
	}

	bk, ok := b.byKey[key]
	if !ok {
		every := rate.Every(b.limit.Per / time.Duration(b.limit.Requests))
		bk = &bucket{lim: rate.NewLimiter(every, b.limit.Requests)}
		b.byKey[key] = bk
	}
	bk.lastSeen = now
	return bk.lim
}

// RateLimit answers 429 with Retry-After once a key has used up l.
func RateLimit(l Limit, key KeyFunc) Middleware {
	b := &buckets{limit: l, byKey: make(map[string]*bucket), lastSweep: time.Now()}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			res := b.get(k, now).ReserveN(now, 1)
			if delay := res.DelayFrom(now); delay > 0 {
				res.CancelAt(now)

				retryAfter := max(int(delay.Round(time.Second).Seconds()), 1)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Limit", l.String())

				slogx.FromContext(r.Context()).Warn("rate limit exceeded",
					"key", k,
					"endpoint", r.URL.Path,
					"retry_after", retryAfter,
				)
				WriteError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RateLimitByIP(l Limit) Middleware { return RateLimit(l, ClientIP) }

// RateLimitByIPAndQuery throttles per address and query value, e.g. the
// email on a recovery request.
func RateLimitByIPAndQuery(l Limit, name string) Middleware {
	return RateLimit(l, ClientIPAndQuery(name))
}
