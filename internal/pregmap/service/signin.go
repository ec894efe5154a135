package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/identity"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// SignInService authenticates with the identity provider and then runs the
// access decision. The session token leaves the service only on ALLOW.
type SignInService struct {
	Access           *AccessService
	Identity         identity.Provider
	PINs             *PINGate
	PhoneCountryCode string
}

func (s *SignInService) countryCode() string {
	if s.PhoneCountryCode == "" {
		return domain.DefaultCountryCode
	}
	return s.PhoneCountryCode
}

func (s *SignInService) SignInEmail(ctx context.Context, email, password string) Decision {
	email, err := domain.NormalizeEmail(email)
	if err != nil || password == "" {
		return denyUnauthenticated(ctx, domain.MethodEmail, identity.ErrInvalidCredentials)
	}

	session, err := s.Identity.Authenticate(ctx, identity.EmailPassword{Email: email, Password: password})
	if err != nil {
		return denyUnauthenticated(ctx, domain.MethodEmail, err)
	}

	return s.Access.Authorize(ctx, session, Claim{
		Method:            domain.MethodEmail,
		ContactIdentifier: email,
	})
}

func (s *SignInService) SignInPhone(ctx context.Context, phone, password string) Decision {
	phone, err := domain.NormalizePhone(phone, s.countryCode())
	if err != nil || password == "" {
		return denyUnauthenticated(ctx, domain.MethodPhone, identity.ErrInvalidCredentials)
	}

	session, err := s.Identity.Authenticate(ctx, identity.PhoneNumber{Phone: phone})
	if err != nil {
		return denyUnauthenticated(ctx, domain.MethodPhone, err)
	}

	return s.Access.Authorize(ctx, session, Claim{
		Method:            domain.MethodPhone,
		ContactIdentifier: phone,
		Secret:            password,
	})
}

func (s *SignInService) SignInFederated(ctx context.Context, idToken string) Decision {
	if idToken == "" {
		return denyUnauthenticated(ctx, domain.MethodFederated, identity.ErrInvalidCredentials)
	}

	session, err := s.Identity.Authenticate(ctx, identity.FederatedToken{IDToken: idToken})
	if err != nil {
		return denyUnauthenticated(ctx, domain.MethodFederated, err)
	}

	return s.Access.Authorize(ctx, session, Claim{
		Method:            domain.MethodFederated,
		ContactIdentifier: session.Contact,
	})
}

// SignOut revokes the session and drops the memory tier of the PIN cache.
// The durable tier is kept so the next sign-in can skip the remote read.
func (s *SignInService) SignOut(ctx context.Context, session domain.Session) error {
	err := s.Identity.Invalidate(ctx, session)
	if s.PINs != nil {
		s.PINs.ClearVolatile()
	}
	if err != nil && !errors.Is(err, identity.ErrSessionInvalid) {
		return fmt.Errorf("%w: sign out: %v", ErrTransient, err)
	}

	slogx.FromContext(ctx).Info("signed out", "account_id", session.AccountID)
	return nil
}
