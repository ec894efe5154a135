package jwtx

import (
	"fmt"

	"github.com/aussiebroadwan/pregmap/pkg/cryptox"
)

// KeyManager owns the Ed25519 keys used to sign session tokens. Keys are
// ephemeral: they live in memory only, so a restart invalidates every
// outstanding session token.
type KeyManager struct {
	Signer   Signer
	Verifier *Verifier
	KeySet   *KeySet
}

// NewEphemeralKeyManager generates a fresh signing key and a verifier bound
// to issuer (also used as the audience).
func NewEphemeralKeyManager(issuer string) (*KeyManager, error) {
	if issuer == "" {
		return nil, fmt.Errorf("jwtx: issuer is required")
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
	}
	pemKey, err := cryptox.GenerateEd25519Key()
	if err != nil {
		return nil, err
	}
	signer, err := NewSignerEdDSA("pregmap-"+token, pemKey)
	if err != nil {
		return nil, err
	}

	keys := NewKeySet()
	if err := keys.AddJWK(signer.PublicJWK()); err != nil {
		return nil, fmt.Errorf("jwtx: failed to add signer to keyset: %w", err)
	}

	return &KeyManager{
		Signer:   signer,
		Verifier: NewVerifier(keys, issuer, []string{issuer}),
		KeySet:   keys,
	}, nil
}

func (km *KeyManager) IsReady() bool {
	return km.KeySet.IsReady()
}
