package domain

import "time"

// Session is a signed-in session issued by the identity provider.
type Session struct {
	ID        string
	AccountID string
	Method    Method
	// Contact is the email or phone the caller authenticated with. Empty for
	// federated sessions without an email claim.
	Contact   string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time

	Federated *FederatedProfile
}

func (s Session) Live(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Identity links a provider credential to an account id.
type Identity struct {
	ID         string
	AccountID  string
	Kind       Method
	Subject    string // email, phone, or federated subject
	Email      string // verified email for federated identities
	SecretHash string // argon2 encoded; empty for federated identities
	CreatedAt  time.Time
}

// VerificationChallenge is a pending one-time code sent to a phone number.
type VerificationChallenge struct {
	ID          string
	Phone       string
	Secret      string // base32 TOTP seed
	Attempts    int
	ConfirmedAt *time.Time
	ConsumedAt  *time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// MaxVerificationAttempts bounds wrong codes per challenge.
const MaxVerificationAttempts = 5

// FederatedProfile is what a federated ID token says about its holder. It
// rides on freshly issued federated sessions and is not persisted.
type FederatedProfile struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	PictureURL    string
}
