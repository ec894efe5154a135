package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/identity"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/cryptox"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// MinPasswordLength applies to email and phone sign-ups.
const MinPasswordLength = 6

// SignUpService creates account records. The identity is registered first
// so the record is keyed by the account id the provider issued.
type SignUpService struct {
	Store            store.Store
	Identity         identity.Provider
	PhoneCountryCode string
	Now              func() time.Time
}

func (s *SignUpService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func validateProfile(p domain.Profile, password string) (domain.Profile, error) {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.MiddleName = strings.TrimSpace(p.MiddleName)
	p.LastName = strings.TrimSpace(p.LastName)
	if p.FirstName == "" || p.LastName == "" {
		return p, invalidInput("First and last name are required.")
	}
	if len(password) < MinPasswordLength {
		return p, invalidInput(fmt.Sprintf("Password must be at least %d characters.", MinPasswordLength))
	}
	return p, nil
}

func (s *SignUpService) SignUpEmail(ctx context.Context, p domain.Profile, email, password string) (domain.Account, error) {
	email, err := domain.NormalizeEmail(email)
	if err != nil {
		return domain.Account{}, invalidInput("Please enter a valid email address.")
	}
	p, err = validateProfile(p, password)
	if err != nil {
		return domain.Account{}, err
	}

	if _, err := s.Store.Accounts().GetAccountByEmail(ctx, email); err == nil {
		return domain.Account{}, withMessage(ErrAlreadyRegistered, MsgEmailRegistered)
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, fmt.Errorf("%w: lookup email: %v", ErrTransient, err)
	}

	reg := identity.Registration{Kind: domain.MethodEmail, Subject: email, Secret: password}
	return s.create(ctx, reg, domain.Account{
		Email:        email,
		SignInMethod: domain.MethodEmail,
	}, p, password, MsgEmailRegistered, nil)
}

// SignUpPhone consumes a confirmed verification for the same number and
// creates a phone account.
func (s *SignUpService) SignUpPhone(ctx context.Context, verificationID string, p domain.Profile, phone, password string) (domain.Account, error) {
	cc := s.PhoneCountryCode
	if cc == "" {
		cc = domain.DefaultCountryCode
	}
	phone, err := domain.NormalizePhone(phone, cc)
	if err != nil {
		return domain.Account{}, invalidInput("Please enter a valid phone number.")
	}
	p, err = validateProfile(p, password)
	if err != nil {
		return domain.Account{}, err
	}

	v, err := s.Store.Verifications().GetVerification(ctx, verificationID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return domain.Account{}, ErrNotVerified
	case err != nil:
		return domain.Account{}, fmt.Errorf("%w: load challenge: %v", ErrTransient, err)
	case v.Phone != phone || v.ConfirmedAt == nil || v.ConsumedAt != nil:
		return domain.Account{}, ErrNotVerified
	case !s.now().Before(v.ExpiresAt):
		return domain.Account{}, ErrVerificationExpired
	}

	// The challenge is consumed in the same transaction as the account, so a
	// failed sign-up leaves it usable for a retry.
	consume := func(tx store.Store) error {
		if _, err := tx.Accounts().GetAccountByPhone(ctx, phone); err == nil {
			return withMessage(ErrAlreadyRegistered, MsgPhoneRegistered)
		} else if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: lookup phone: %v", ErrTransient, err)
		}

		if err := tx.Verifications().ConsumeVerification(ctx, v.ID, s.now()); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrNotVerified
			}
			return fmt.Errorf("%w: consume challenge: %v", ErrTransient, err)
		}
		return nil
	}

	reg := identity.Registration{Kind: domain.MethodPhone, Subject: phone, Secret: password}
	return s.create(ctx, reg, domain.Account{
		PhoneNumber:   phone,
		SignInMethod:  domain.MethodPhone,
		PhoneVerified: true,
	}, p, password, MsgPhoneRegistered, consume)
}

// SignUpFederated authenticates the ID token and creates a google account
// for it. A token whose email already has a record is turned away and its
// session revoked.
func (s *SignUpService) SignUpFederated(ctx context.Context, idToken string) (domain.Session, domain.Account, error) {
	if idToken == "" {
		return domain.Session{}, domain.Account{}, invalidInput("An ID token is required.")
	}

	session, err := s.Identity.Authenticate(ctx, identity.FederatedToken{IDToken: idToken})
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidCredentials):
			return domain.Session{}, domain.Account{}, withMessage(ErrValidationFailed, MsgFederatedFailed)
		case errors.Is(err, identity.ErrFederatedDisabled):
			return domain.Session{}, domain.Account{}, withMessage(ErrInvalidInput, MsgFederatedFailed)
		default:
			return domain.Session{}, domain.Account{}, fmt.Errorf("%w: authenticate: %v", ErrTransient, err)
		}
	}

	reject := func(err error) (domain.Session, domain.Account, error) {
		if ierr := s.Identity.Invalidate(context.WithoutCancel(ctx), session); ierr != nil {
			slogx.FromContext(ctx).Error("failed to invalidate rejected session", "session_id", session.ID, "err", ierr)
		}
		return domain.Session{}, domain.Account{}, err
	}

	fp := session.Federated
	if fp == nil {
		fp = &domain.FederatedProfile{Email: session.Contact}
	}

	if _, err := s.Store.Accounts().GetAccountByID(ctx, session.AccountID); err == nil {
		return reject(withMessage(ErrAlreadyRegistered, MsgEmailRegistered))
	} else if !errors.Is(err, store.ErrNotFound) {
		return reject(fmt.Errorf("%w: lookup account: %v", ErrTransient, err))
	}
	if fp.Email != "" {
		if _, err := s.Store.Accounts().GetAccountByEmail(ctx, fp.Email); err == nil {
			return reject(withMessage(ErrAlreadyRegistered, MsgEmailRegistered))
		} else if !errors.Is(err, store.ErrNotFound) {
			return reject(fmt.Errorf("%w: lookup email: %v", ErrTransient, err))
		}
	}

	now := s.now()
	p := domain.SplitDisplayName(fp.Name)
	acct := domain.Account{
		ID:            session.AccountID,
		Email:         fp.Email,
		SignInMethod:  domain.MethodFederated,
		FirstName:     p.FirstName,
		MiddleName:    p.MiddleName,
		LastName:      p.LastName,
		FullName:      domain.ComposeFullName(p.FirstName, p.MiddleName, p.LastName),
		PhotoURL:      fp.PictureURL,
		FederatedID:   fp.Subject,
		EmailVerified: fp.EmailVerified,
		LastSignInAt:  &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Store.Accounts().CreateAccount(ctx, acct); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return reject(withMessage(ErrAlreadyRegistered, MsgEmailRegistered))
		}
		return reject(fmt.Errorf("%w: create account: %v", ErrTransient, err))
	}

	slogx.FromContext(ctx).Info("account created", "account_id", acct.ID, "method", string(acct.SignInMethod))
	return session, acct, nil
}

// create registers the identity and inserts the account record in one
// transaction, after running before (if set) in that transaction. Providers
// that do not implement identity.TxRegistrar register outside the store, so
// their identity cannot be rolled back.
func (s *SignUpService) create(
	ctx context.Context,
	reg identity.Registration,
	acct domain.Account,
	p domain.Profile,
	password, conflictMsg string,
	before func(tx store.Store) error,
) (domain.Account, error) {
	hash, err := cryptox.HashSecret(password)
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: hash password: %v", ErrTransient, err)
	}

	now := s.now()
	acct.PasswordHash = hash
	acct.FirstName = p.FirstName
	acct.MiddleName = p.MiddleName
	acct.LastName = p.LastName
	acct.FullName = domain.ComposeFullName(p.FirstName, p.MiddleName, p.LastName)
	acct.CreatedAt = now
	acct.UpdatedAt = now

	var failed error
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if before != nil {
			if failed = before(tx); failed != nil {
				return failed
			}
		}

		accountID, err := s.register(ctx, tx, reg)
		if err != nil {
			failed = s.registerError(err, conflictMsg)
			return failed
		}
		acct.ID = accountID

		if err := tx.Accounts().CreateAccount(ctx, acct); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				failed = withMessage(ErrAlreadyRegistered, conflictMsg)
			} else {
				failed = fmt.Errorf("%w: create account: %v", ErrTransient, err)
			}
			return failed
		}
		return nil
	})
	if failed != nil {
		return domain.Account{}, failed
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("%w: commit sign-up: %v", ErrTransient, err)
	}

	slogx.FromContext(ctx).Info("account created", "account_id", acct.ID, "method", string(acct.SignInMethod))
	acct.PasswordHash = ""
	return acct, nil
}

func (s *SignUpService) register(ctx context.Context, tx store.Store, reg identity.Registration) (string, error) {
	if r, ok := s.Identity.(identity.TxRegistrar); ok {
		return r.RegisterTx(ctx, tx, reg)
	}
	return s.Identity.Register(ctx, reg)
}

func (s *SignUpService) registerError(err error, conflictMsg string) error {
	if errors.Is(err, identity.ErrIdentityExists) {
		return withMessage(ErrAlreadyRegistered, conflictMsg)
	}
	return fmt.Errorf("%w: register identity: %v", ErrTransient, err)
}
