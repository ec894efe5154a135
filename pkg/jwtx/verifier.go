package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrUnknownKID  = errors.New("jwtx: unknown kid")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
)

// Verifier checks EdDSA session tokens against a KeySet.
type Verifier struct {
	Keys     *KeySet
	Issuer   string   // empty means "don't care"
	Audience []string // empty means "don't care"
	Leeway   time.Duration
}

func NewVerifier(keys *KeySet, issuer string, audience []string) *Verifier {
	return &Verifier{Keys: keys, Issuer: issuer, Audience: audience}
}

// VerifySession parses and validates a session token issued by this service.
func (v *Verifier) VerifySession(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		// Expiry is enforced by validateRegistered so the leeway applies.
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(token, claims, v.keyFunc)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownKID):
		return nil, ErrUnknownKID
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSig
	default:
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if err := validateRegistered(&claims.RegisteredClaims, v.Issuer, v.Audience, v.Leeway); err != nil {
		return nil, err
	}
	if claims.SID == "" || claims.Subject == "" {
		return nil, ErrMalformed
	}
	return claims, nil
}

func (v *Verifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrUnknownKID
	}
	pub, err := v.Keys.Get(kid)
	if err != nil {
		return nil, ErrUnknownKID
	}
	return pub, nil
}
