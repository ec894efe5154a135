package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/identity"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/cryptox"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// Claim is what the sign-in flow asserts about the caller.
type Claim struct {
	Method            domain.Method
	ContactIdentifier string // compared for EMAIL
	Secret            string // password, verified for PHONE
}

// Decision is the outcome of Authorize. On DENY the session has already
// been invalidated.
type Decision struct {
	Allowed bool
	Reason  error
	Message string
	Session domain.Session
	Account domain.Account
}

func allow(s domain.Session, a domain.Account) Decision {
	return Decision{Allowed: true, Session: s, Account: a}
}

// AccessService decides whether a freshly authenticated session may enter
// the app.
type AccessService struct {
	Store    store.Store
	Identity identity.Provider
	Now      func() time.Time
}

func (s *AccessService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Authorize applies the method-matching rules to the stored record for the
// session's account. Every DENY, including lookup failures, signs the
// session out before returning.
func (s *AccessService) Authorize(ctx context.Context, session domain.Session, claim Claim) Decision {
	acct, err := s.Store.Accounts().GetAccountByID(ctx, session.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return s.deny(ctx, session, ErrNotFound, MsgAccountNotFound)
	}
	if err != nil {
		return s.deny(ctx, session, fmt.Errorf("%w: load account: %v", ErrTransient, err), MsgTransient)
	}

	if acct.SignInMethod != claim.Method {
		return s.deny(ctx, session, ErrMethodMismatch, fmt.Sprintf(MsgMethodMismatch, claim.Method.Label()))
	}

	switch claim.Method {
	case domain.MethodEmail:
		if acct.Email != claim.ContactIdentifier {
			return s.deny(ctx, session, ErrValidationFailed, MsgEmailValidation)
		}
	case domain.MethodPhone:
		if err := cryptox.VerifySecret(claim.Secret, acct.PasswordHash); err != nil {
			if errors.Is(err, cryptox.ErrMismatch) || errors.Is(err, cryptox.ErrMalformedHash) {
				return s.deny(ctx, session, ErrValidationFailed, MsgPhonePassword)
			}
			return s.deny(ctx, session, fmt.Errorf("%w: verify password: %v", ErrTransient, err), MsgTransient)
		}
	case domain.MethodFederated:
		// the verified ID token is the secret
	}

	now := s.now()
	if err := s.Store.Accounts().TouchLastSignIn(ctx, acct.ID, now); err != nil {
		return s.deny(ctx, session, fmt.Errorf("%w: touch last sign-in: %v", ErrTransient, err), MsgTransient)
	}
	acct.LastSignInAt = &now

	slogx.FromContext(ctx).Info("access allowed", "account_id", acct.ID, "method", string(claim.Method))
	return allow(session, acct)
}

func (s *AccessService) deny(ctx context.Context, session domain.Session, reason error, msg string) Decision {
	log := slogx.FromContext(ctx)
	log.Warn("access denied",
		"account_id", session.AccountID,
		"method", string(session.Method),
		"reason", reason.Error(),
	)

	// The caller may already be gone; the session must still be revoked.
	if err := s.Identity.Invalidate(context.WithoutCancel(ctx), session); err != nil {
		log.Error("failed to invalidate denied session", "session_id", session.ID, "err", err)
	}

	session.Token = ""
	return Decision{Reason: reason, Message: msg, Session: session}
}

// denyUnauthenticated reports a failure that happened before any session
// existed, so there is nothing to invalidate.
func denyUnauthenticated(ctx context.Context, m domain.Method, err error) Decision {
	d := Decision{}
	switch {
	case errors.Is(err, identity.ErrUnknownIdentity):
		d.Reason, d.Message = ErrNotFound, MsgAccountNotFound
	case errors.Is(err, identity.ErrInvalidCredentials):
		d.Reason = ErrValidationFailed
		switch m {
		case domain.MethodPhone:
			d.Message = MsgPhonePassword
		case domain.MethodFederated:
			d.Message = MsgFederatedFailed
		default:
			d.Message = MsgEmailPassword
		}
	default:
		d.Reason, d.Message = fmt.Errorf("%w: authenticate: %v", ErrTransient, err), MsgTransient
	}

	slogx.FromContext(ctx).Warn("sign-in rejected", "method", string(m), "reason", d.Reason.Error())
	return d
}
