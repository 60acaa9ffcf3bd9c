package middleware

import (
	"context"
	"strings"

	"github.com/questx-lab/harmony/pkg/authenticator"
	"github.com/questx-lab/harmony/pkg/errorx"
	"github.com/questx-lab/harmony/pkg/router"
	"github.com/questx-lab/harmony/pkg/xcontext"
)

// AuthVerifier tries every configured verifier on the request credential. The first one that
// accepts it sets the identity of the request.
type AuthVerifier struct {
	verifiers []authenticator.IdentityVerifier
	optional  bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

// WithAccessToken accepts access tokens signed by the token engine.
func (a *AuthVerifier) WithAccessToken(engine authenticator.IdentityVerifier) *AuthVerifier {
	a.verifiers = append(a.verifiers, engine)
	return a
}

// WithIDToken accepts ID tokens of an OIDC provider.
func (a *AuthVerifier) WithIDToken(verifier authenticator.IdentityVerifier) *AuthVerifier {
	a.verifiers = append(a.verifiers, verifier)
	return a
}

// Optional lets unauthenticated requests pass, the handler decides what they can see.
func (a *AuthVerifier) Optional() *AuthVerifier {
	a.optional = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		credential := credentialOf(ctx)
		if credential == "" {
			if a.optional {
				return ctx, nil
			}

			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		for _, verifier := range a.verifiers {
			identity, err := verifier.VerifyIdentity(ctx, credential)
			if err == nil {
				return xcontext.WithIdentity(ctx, identity), nil
			}
		}

		if a.optional {
			return ctx, nil
		}

		return ctx, errorx.New(errorx.Unauthenticated, "Invalid credential")
	}
}

// credentialOf reads a bearer Authorization header, then the access token cookie, then the
// access_token query parameter which browsers use for websocket upgrades.
func credentialOf(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if auth, token, found := strings.Cut(authorization, " "); found {
		if strings.EqualFold(auth, "Bearer") {
			return token
		}

		return ""
	}

	cfg := xcontext.Configs(ctx).Auth.AccessToken
	if cfg.Name != "" {
		if cookie, err := req.Cookie(cfg.Name); err == nil && cookie.Value != "" {
			return cookie.Value
		}
	}

	return req.URL.Query().Get("access_token")
}

// Authenticate rejects requests without identity, for routes behind an optional verifier.
func Authenticate(ctx context.Context) (context.Context, error) {
	if xcontext.RequestUserID(ctx) == "" {
		return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	return ctx, nil
}

