package authenticator

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

type oidcVerifier struct {
	verifier *oidc.IDTokenVerifier
	idField  string
}

// NewOIDCVerifier discovers the issuer and returns a verifier accepting its ID tokens for
// clientID. The user id is read from the idField claim.
func NewOIDCVerifier(ctx context.Context, issuer, clientID, idField string) (*oidcVerifier, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, err
	}

	if idField == "" {
		idField = "sub"
	}

	return &oidcVerifier{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		idField:  idField,
	}, nil
}

func (v *oidcVerifier) VerifyIdentity(ctx context.Context, rawIDToken string) (Identity, error) {
	idToken, err := v.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return Identity{}, err
	}

	var profile map[string]any
	if err = idToken.Claims(&profile); err != nil {
		return Identity{}, errors.New("invalid id token")
	}

	id, ok := profile[v.idField].(string)
	if !ok || id == "" {
		return Identity{}, fmt.Errorf("invalid id field %s", v.idField)
	}

	identity := Identity{UserID: id}
	identity.Name, _ = profile["name"].(string)
	identity.ImageURL, _ = profile["picture"].(string)
	identity.Email, _ = profile["email"].(string)

	return identity, nil
}
