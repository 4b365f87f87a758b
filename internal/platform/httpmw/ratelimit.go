package httpmw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LimiterStore はクライアントごとのトークンバケットを保持する。
// 一定時間アクセスのないキーはアクセス時にまとめて掃除する。
type LimiterStore struct {
	mu        sync.Mutex
	entries   map[string]*limiterEntry
	rps       rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type LimiterOption func(*LimiterStore)

func WithIdleTTL(d time.Duration) LimiterOption {
	return func(s *LimiterStore) { s.idleTTL = d }
}

func withNow(now func() time.Time) LimiterOption {
	return func(s *LimiterStore) { s.now = now }
}

func NewLimiterStore(rps float64, burst int, opts ...LimiterOption) *LimiterStore {
	s := &LimiterStore{
		entries: make(map[string]*limiterEntry),
		rps:     rate.Limit(rps),
		burst:   burst,
		idleTTL: 15 * time.Minute,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.lastSweep = s.now()
	return s
}

func (s *LimiterStore) Get(key string) *rate.Limiter {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) >= s.idleTTL {
		s.sweepLocked(now)
	}

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}
	lim := rate.NewLimiter(s.rps, s.burst)
	s.entries[key] = &limiterEntry{lim: lim, lastSeen: now}
	return lim
}

func (s *LimiterStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *LimiterStore) sweepLocked(now time.Time) {
	cutoff := now.Add(-s.idleTTL)
	for k, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, k)
		}
	}
	s.lastSweep = now
}

// RateLimit: クライアントIPごとに制限し，超過時は 429 + Retry-After を返す
func RateLimit(store *LimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		lim := store.Get(c.ClientIP())
		r := lim.Reserve()
		if !r.OK() {
			abortTooMany(c, time.Second)
			return
		}
		if d := r.Delay(); d > 0 {
			r.Cancel()
			abortTooMany(c, d)
			return
		}
		c.Next()
	}
}

func abortTooMany(c *gin.Context, retryAfter time.Duration) {
	secs := int(math.Ceil(retryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error": gin.H{"code": "RATE_LIMITED", "message": "too many requests"},
	})
}
