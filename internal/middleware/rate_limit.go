package middleware

import (
	"context"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/harmony/config"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/router"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per user.
type RateLimiter struct {
	cfg      config.RateLimitConfigs
	limiters *xsync.MapOf[string, *rate.Limiter]
}

func NewRateLimiter(cfg config.RateLimitConfigs) *RateLimiter {
	return &RateLimiter{
		cfg:      cfg,
		limiters: xsync.NewMapOf[*rate.Limiter](),
	}
}

// Allow consumes one token of the user.
func (l *RateLimiter) Allow(userID string) bool {
	if l.cfg.PerSecond <= 0 {
		return true
	}

	limiter, ok := l.limiters.Load(userID)
	if !ok {
		limiter, _ = l.limiters.LoadOrStore(userID, rate.NewLimiter(rate.Limit(l.cfg.PerSecond), l.cfg.Burst))
	}

	return limiter.Allow()
}

// Middleware must run after authentication. Anonymous requests are not limited here.
func (l *RateLimiter) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID := xcontext.RequestUserID(ctx)
		if userID == "" {
			return ctx, nil
		}

		if !l.Allow(userID) {
			return ctx, errorx.New(errorx.TooManyRequests, "Too many requests, slow down")
		}

		return ctx, nil
	}
}
