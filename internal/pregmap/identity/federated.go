package identity

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/coreos/go-oidc/v3/oidc"
)

// FederatedConfig points at the federated provider's signing keys.
type FederatedConfig struct {
	Issuer   string
	JWKSURL  string
	Audience string // OAuth client id the ID tokens are minted for
	Client   *http.Client
}

// FederatedVerifier checks ID tokens against the provider's JWKS, which is
// fetched lazily and refreshed when an unknown key id shows up.
type FederatedVerifier struct {
	verifier *oidc.IDTokenVerifier
}

func NewFederatedVerifier(ctx context.Context, cfg FederatedConfig) *FederatedVerifier {
	if cfg.Client != nil {
		ctx = oidc.ClientContext(ctx, cfg.Client)
	}
	keys := oidc.NewRemoteKeySet(ctx, cfg.JWKSURL)
	return &FederatedVerifier{
		verifier: oidc.NewVerifier(cfg.Issuer, keys, &oidc.Config{
			ClientID:             cfg.Audience,
			SupportedSigningAlgs: []string{oidc.RS256, oidc.ES256},
		}),
	}
}

// Verify returns the profile carried by a valid ID token.
func (f *FederatedVerifier) Verify(ctx context.Context, rawIDToken string) (domain.FederatedProfile, error) {
	tok, err := f.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return domain.FederatedProfile{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	var c struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := tok.Claims(&c); err != nil {
		return domain.FederatedProfile{}, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return domain.FederatedProfile{
		Subject:       tok.Subject,
		Email:         c.Email,
		EmailVerified: c.EmailVerified,
		Name:          c.Name,
		PictureURL:    c.Picture,
	}, nil
}
