package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is how long a session token stays valid when the service
// does not configure its own lifetime.
const DefaultSessionTTL = 24 * time.Hour

// SessionClaims are carried by the session tokens this service issues.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Session ID, points at the server-side session row used for revocation.
	SID string `json:"sid"`

	// Method the session was authenticated with: "email", "phone" or "google".
	Method string `json:"method"`

	// Contact identifier used to authenticate (email for password sessions).
	Contact string `json:"contact,omitempty"`
}

// NewSessionClaims builds minimally-correct session claims.
func NewSessionClaims(
	subject, sid, method, contact, issuer string,
	ttl time.Duration,
	now time.Time,
) SessionClaims {
	return SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			Audience:  jwt.ClaimStrings{issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		SID:     sid,
		Method:  method,
		Contact: contact,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

func validateRegistered(c *jwt.RegisteredClaims, issuer string, audience []string, leeway time.Duration) error {
	if issuer != "" && c.Issuer != issuer {
		return ErrIssuer
	}

	if len(audience) > 0 {
		ok := false
		for _, want := range audience {
			if slices.Contains(c.Audience, want) {
				ok = true
				break
			}
		}
		if !ok {
			return ErrAudience
		}
	}

	now := time.Now().UTC()
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
