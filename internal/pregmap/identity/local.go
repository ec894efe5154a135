package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/cryptox"
	"github.com/aussiebroadwan/pregmap/pkg/idx"
	"github.com/aussiebroadwan/pregmap/pkg/jwtx"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// Local is a self-hosted identity provider. Identities and sessions live in
// the credential store; session tokens are EdDSA JWTs whose sid points at a
// revocable session row.
type Local struct {
	Store      store.Store
	Keys       *jwtx.KeyManager
	Federated  *FederatedVerifier // nil disables federated sign-in
	Issuer     string
	SessionTTL time.Duration
	Now        func() time.Time
}

var _ Provider = (*Local)(nil)

func (l *Local) now() time.Time {
	if l.Now != nil {
		return l.Now().UTC()
	}
	return time.Now().UTC()
}

func (l *Local) Authenticate(ctx context.Context, c Credential) (domain.Session, error) {
	switch c := c.(type) {
	case EmailPassword:
		return l.authenticateEmail(ctx, c)
	case PhoneNumber:
		return l.authenticatePhone(ctx, c)
	case FederatedToken:
		return l.authenticateFederated(ctx, c)
	default:
		return domain.Session{}, ErrUnsupportedRequest
	}
}

func (l *Local) authenticateEmail(ctx context.Context, c EmailPassword) (domain.Session, error) {
	id, err := l.Store.Identities().GetIdentity(ctx, domain.MethodEmail, c.Email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrUnknownIdentity
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("identity: lookup: %w", err)
	}

	if err := cryptox.VerifySecret(c.Password, id.SecretHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, fmt.Errorf("identity: verify password: %w", err)
	}

	return l.issue(ctx, id.AccountID, domain.MethodEmail, c.Email, nil)
}

func (l *Local) authenticatePhone(ctx context.Context, c PhoneNumber) (domain.Session, error) {
	id, err := l.Store.Identities().GetIdentity(ctx, domain.MethodPhone, c.Phone)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrUnknownIdentity
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("identity: lookup: %w", err)
	}
	return l.issue(ctx, id.AccountID, domain.MethodPhone, c.Phone, nil)
}

// authenticateFederated provisions an identity on first sight. A verified
// email that already belongs to an email identity is linked to that account,
// so the access decision sees the account's original method.
func (l *Local) authenticateFederated(ctx context.Context, c FederatedToken) (domain.Session, error) {
	if l.Federated == nil {
		return domain.Session{}, ErrFederatedDisabled
	}

	profile, err := l.Federated.Verify(ctx, c.IDToken)
	if err != nil {
		return domain.Session{}, err
	}
	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))

	id, err := l.Store.Identities().GetIdentity(ctx, domain.MethodFederated, profile.Subject)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		id, err = l.provisionFederated(ctx, profile)
		if err != nil {
			return domain.Session{}, err
		}
	default:
		return domain.Session{}, fmt.Errorf("identity: lookup: %w", err)
	}

	return l.issue(ctx, id.AccountID, domain.MethodFederated, profile.Email, &profile)
}

func (l *Local) provisionFederated(ctx context.Context, p domain.FederatedProfile) (domain.Identity, error) {
	accountID := idx.New().String()
	if p.Email != "" && p.EmailVerified {
		linked, err := l.Store.Identities().GetIdentity(ctx, domain.MethodEmail, p.Email)
		switch {
		case err == nil:
			accountID = linked.AccountID
		case !errors.Is(err, store.ErrNotFound):
			return domain.Identity{}, fmt.Errorf("identity: lookup: %w", err)
		}
	}

	id := domain.Identity{
		ID:        idx.New().String(),
		AccountID: accountID,
		Kind:      domain.MethodFederated,
		Subject:   p.Subject,
		Email:     p.Email,
		CreatedAt: l.now(),
	}
	err := l.Store.Identities().CreateIdentity(ctx, id)
	if errors.Is(err, store.ErrAlreadyExists) {
		// lost a race with a concurrent first sign-in
		return l.Store.Identities().GetIdentity(ctx, domain.MethodFederated, p.Subject)
	}
	if err != nil {
		return domain.Identity{}, fmt.Errorf("identity: provision: %w", err)
	}

	slogx.FromContext(ctx).Info("federated identity provisioned", "account_id", accountID)
	return id, nil
}

func (l *Local) issue(ctx context.Context, accountID string, m domain.Method, contact string, fp *domain.FederatedProfile) (domain.Session, error) {
	now := l.now()
	ttl := l.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	s := domain.Session{
		ID:        idx.NewAt(now).String(),
		AccountID: accountID,
		Method:    m,
		Contact:   contact,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		Federated: fp,
	}

	token, err := l.Keys.Signer.Sign(jwtx.NewSessionClaims(accountID, s.ID, string(m), contact, l.Issuer, ttl, now))
	if err != nil {
		return domain.Session{}, fmt.Errorf("identity: sign session: %w", err)
	}
	s.Token = token

	if err := l.Store.Sessions().CreateSession(ctx, s); err != nil {
		return domain.Session{}, fmt.Errorf("identity: store session: %w", err)
	}
	return s, nil
}

func (l *Local) Invalidate(ctx context.Context, s domain.Session) error {
	if s.ID == "" {
		return ErrSessionInvalid
	}
	if err := l.Store.Sessions().RevokeSession(ctx, s.ID); err != nil {
		return fmt.Errorf("identity: revoke session: %w", err)
	}
	return nil
}

func (l *Local) Lookup(ctx context.Context, token string) (domain.Session, error) {
	claims, err := l.Keys.Verifier.VerifySession(token)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}

	s, err := l.Store.Sessions().GetSession(ctx, claims.SID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Session{}, ErrSessionInvalid
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("identity: load session: %w", err)
	}
	if s.AccountID != claims.Subject || !s.Live(l.now()) {
		return domain.Session{}, ErrSessionInvalid
	}

	s.Token = token
	return s, nil
}

func (l *Local) Register(ctx context.Context, r Registration) (string, error) {
	return l.RegisterTx(ctx, l.Store, r)
}

// RegisterTx creates the identity through st, which may be a transaction.
func (l *Local) RegisterTx(ctx context.Context, st store.Store, r Registration) (string, error) {
	if r.Kind != domain.MethodEmail && r.Kind != domain.MethodPhone {
		return "", ErrUnsupportedRequest
	}

	var hash string
	if r.Secret != "" {
		h, err := cryptox.HashSecret(r.Secret)
		if err != nil {
			return "", fmt.Errorf("identity: hash secret: %w", err)
		}
		hash = h
	}

	now := l.now()
	id := domain.Identity{
		ID:         idx.NewAt(now).String(),
		AccountID:  idx.NewAt(now).String(),
		Kind:       r.Kind,
		Subject:    r.Subject,
		SecretHash: hash,
		CreatedAt:  now,
	}
	err := st.Identities().CreateIdentity(ctx, id)
	if errors.Is(err, store.ErrAlreadyExists) {
		return "", ErrIdentityExists
	}
	if err != nil {
		return "", fmt.Errorf("identity: register: %w", err)
	}
	return id.AccountID, nil
}
