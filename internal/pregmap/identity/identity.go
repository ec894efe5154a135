// Package identity verifies primary credentials and issues revocable
// sessions bound to an account id.
package identity

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
)

var (
	// ErrInvalidCredentials means the identity exists but the credential
	// did not check out.
	ErrInvalidCredentials = errors.New("identity: invalid credentials")

	// ErrUnknownIdentity means no identity matches the credential.
	ErrUnknownIdentity = errors.New("identity: unknown identity")

	ErrIdentityExists     = errors.New("identity: already registered")
	ErrSessionInvalid     = errors.New("identity: session is invalid")
	ErrFederatedDisabled  = errors.New("identity: federated sign-in is not configured")
	ErrUnsupportedRequest = errors.New("identity: unsupported credential")
)

// Credential is a primary credential presented at sign-in.
type Credential interface {
	Method() domain.Method
}

// EmailPassword is checked against the stored password hash.
type EmailPassword struct {
	Email    string
	Password string
}

func (EmailPassword) Method() domain.Method { return domain.MethodEmail }

// PhoneNumber asserts a verified phone identity. The password is checked by
// the access decision against the account record.
type PhoneNumber struct {
	Phone string
}

func (PhoneNumber) Method() domain.Method { return domain.MethodPhone }

// FederatedToken carries an ID token from the federated provider.
type FederatedToken struct {
	IDToken string
}

func (FederatedToken) Method() domain.Method { return domain.MethodFederated }

// Registration creates a new identity at sign-up.
type Registration struct {
	Kind    domain.Method
	Subject string
	Secret  string
}

// Provider is the identity provider the access service talks to.
type Provider interface {
	// Authenticate verifies the credential and returns a live session.
	Authenticate(ctx context.Context, c Credential) (domain.Session, error)

	// Invalidate revokes the session. Revoking twice is not an error.
	Invalidate(ctx context.Context, s domain.Session) error

	// Lookup resolves a bearer token to a live session.
	Lookup(ctx context.Context, token string) (domain.Session, error)

	// Register creates an identity and returns the account id it is bound to.
	Register(ctx context.Context, r Registration) (string, error)
}

// TxRegistrar is implemented by providers that keep identities in the
// credential store. RegisterTx writes through st, so sign-up can create the
// identity and the account record in one transaction.
type TxRegistrar interface {
	RegisterTx(ctx context.Context, st store.Store, r Registration) (string, error)
}
