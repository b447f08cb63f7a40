package middleware

import (
	"net/http"
	"sync"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// UserRateLimiter keeps one token bucket per user.
type UserRateLimiter struct {
	users map[string]*rate.Limiter
	mu    sync.Mutex
	r     rate.Limit
	b     int
}

func NewUserRateLimiter(r rate.Limit, b int) *UserRateLimiter {
	return &UserRateLimiter{
		users: make(map[string]*rate.Limiter),
		r:     r,
		b:     b,
	}
}

func (l *UserRateLimiter) GetLimiter(userID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.users[userID]
	if !exists {
		limiter = rate.NewLimiter(l.r, l.b)
		l.users[userID] = limiter
	}

	return limiter
}

// RateLimitByUser limits requests per authenticated user. It must run after AuthRequired.
func RateLimitByUser(limiter *UserRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := auth.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if !limiter.GetLimiter(claims.UserID).Allow() {
				response.TooManyRequests(w, "Too many requests, try again shortly")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// PerMinute converts a requests-per-minute budget to a rate.Limit.
func PerMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60)
}
