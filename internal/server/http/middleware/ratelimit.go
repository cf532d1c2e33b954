package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type accountLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// AccountRateLimiter throttles mutating requests per session account.
type AccountRateLimiter struct {
	limit rate.Limit
	burst int
	now   func() time.Time

	mu        sync.Mutex
	accounts  map[string]*accountLimiter
	lastSweep time.Time
}

// NewAccountRateLimiter allows perMinute requests per account with the given burst.
// A non-positive perMinute disables limiting.
func NewAccountRateLimiter(perMinute float64, burst int) *AccountRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(perMinute / 60)
	}
	return &AccountRateLimiter{
		limit:    limit,
		burst:    burst,
		now:      time.Now,
		accounts: make(map[string]*accountLimiter),
	}
}

// Middleware must run after AuthRequired.
func (l *AccountRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.limit == rate.Inf {
			c.Next()
			return
		}
		account := c.GetString(AccountContextKey)
		if !l.allow(account) {
			abort(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}
		c.Next()
	}
}

func (l *AccountRateLimiter) allow(account string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > limiterIdleTTL {
		for key, entry := range l.accounts {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(l.accounts, key)
			}
		}
		l.lastSweep = now
	}

	entry, ok := l.accounts[account]
	if !ok {
		entry = &accountLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.accounts[account] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *AccountRateLimiter) tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.accounts)
}
