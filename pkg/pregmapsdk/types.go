package pregmapsdk

import (
	"time"

	"github.com/aussiebroadwan/pregmap/pkg/jwtx"
)

// Profile is the name block collected at sign-up.
type Profile struct {
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
}

type EmailSignUpRequest struct {
	Profile
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PhoneSignUpRequest struct {
	Profile
	VerificationID string `json:"verification_id"`
	Phone          string `json:"phone"`
	Password       string `json:"password"`
}

// FederatedRequest carries an ID token from the federated provider.
type FederatedRequest struct {
	IDToken string `json:"id_token"`
}

type EmailSignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PhoneSignInRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type StartVerificationRequest struct {
	Phone string `json:"phone"`
}

type ConfirmVerificationRequest struct {
	Code string `json:"code"`
}

// VerificationResponse describes a pending phone challenge.
type VerificationResponse struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
	Confirmed bool      `json:"confirmed"`
}

// AccountResponse is the account record as returned to its owner.
type AccountResponse struct {
	ID            string     `json:"id"`
	Email         string     `json:"email,omitempty"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	SignInMethod  string     `json:"sign_in_method"`
	FirstName     string     `json:"first_name,omitempty"`
	MiddleName    string     `json:"middle_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	FullName      string     `json:"full_name,omitempty"`
	PhotoURL      string     `json:"photo_url,omitempty"`
	EmailVerified bool       `json:"email_verified"`
	PhoneVerified bool       `json:"phone_verified"`
	LastSignInAt  *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// SignInResponse is returned when access is allowed.
type SignInResponse struct {
	SessionToken string          `json:"session_token"`
	TokenType    string          `json:"token_type"`
	ExpiresAt    time.Time       `json:"expires_at"`
	Account      AccountResponse `json:"account"`
}

type PINRequest struct {
	PIN string `json:"pin"`
}

// PINResultResponse reports the terminal state of a PIN attempt.
type PINResultResponse struct {
	State string `json:"state"`
}

type PINStatusResponse struct {
	HasRegistered bool `json:"has_registered"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	PINCache string `json:"pin_cache"`
	Signer   string `json:"signer"`
}

// JWKSResponse publishes the keys session tokens are signed with.
type JWKSResponse jwtx.JWKS
