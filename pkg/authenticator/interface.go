package authenticator

import (
	"context"
	"time"
)

// Identity is the caller verified from a request credential. UserID is the stable id assigned by
// the identity provider, the remaining fields are only used to initialize a profile.
type Identity struct {
	UserID   string `json:"id"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Email    string `json:"email,omitempty"`
}

type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

// IdentityVerifier resolves a raw credential into an Identity.
type IdentityVerifier interface {
	VerifyIdentity(ctx context.Context, credential string) (Identity, error)
}
