package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/questx-lab/harmony/config"
	"github.com/questx-lab/harmony/pkg/authenticator"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func requestContext(target string, header map[string]string) context.Context {
	req := httptest.NewRequest("GET", target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	ctx := xcontext.WithConfigs(context.Background(), config.Default())
	return xcontext.WithHTTPRequest(ctx, req)
}

func TestAuthVerifier(t *testing.T) {
	engine := authenticator.NewTokenEngine("secret")
	token, err := engine.Generate(time.Minute, authenticator.Identity{UserID: "user1", Name: "Alice"})
	require.NoError(t, err)

	wrongEngine := authenticator.NewTokenEngine("other-secret")
	wrongToken, err := wrongEngine.Generate(time.Minute, authenticator.Identity{UserID: "user1"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		target   string
		header   map[string]string
		optional bool
		wantUser string
		wantErr  errorx.Code
	}{
		{
			name:     "bearer header",
			target:   "/messages",
			header:   map[string]string{"Authorization": "Bearer " + token},
			wantUser: "user1",
		},
		{
			name:     "query parameter",
			target:   "/realtime?access_token=" + token,
			wantUser: "user1",
		},
		{
			name:     "cookie",
			target:   "/messages",
			header:   map[string]string{"Cookie": "access_token=" + token},
			wantUser: "user1",
		},
		{
			name:    "missing",
			target:  "/messages",
			wantErr: errorx.Unauthenticated,
		},
		{
			name:    "wrong secret",
			target:  "/messages",
			header:  map[string]string{"Authorization": "Bearer " + wrongToken},
			wantErr: errorx.Unauthenticated,
		},
		{
			name:    "not a bearer",
			target:  "/messages",
			header:  map[string]string{"Authorization": "Basic " + token},
			wantErr: errorx.Unauthenticated,
		},
		{
			name:     "optional",
			target:   "/messages",
			optional: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewAuthVerifier().WithAccessToken(engine)
			if tt.optional {
				verifier = verifier.Optional()
			}

			ctx, err := verifier.Middleware()(requestContext(tt.target, tt.header))
			if tt.wantErr != 0 {
				require.Equal(t, tt.wantErr, errorx.CodeOf(err))
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.wantUser, xcontext.RequestUserID(ctx))
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(config.RateLimitConfigs{PerSecond: 0.001, Burst: 2})

	ctx := xcontext.WithRequestUserID(context.Background(), "user1")
	_, err := limiter.Middleware()(ctx)
	require.NoError(t, err)
	_, err = limiter.Middleware()(ctx)
	require.NoError(t, err)
	_, err = limiter.Middleware()(ctx)
	require.Equal(t, errorx.TooManyRequests, errorx.CodeOf(err))

	// Buckets are per user.
	require.True(t, limiter.Allow("user2"))

	disabled := NewRateLimiter(config.RateLimitConfigs{})
	for i := 0; i < 100; i++ {
		require.True(t, disabled.Allow("user1"))
	}
}
