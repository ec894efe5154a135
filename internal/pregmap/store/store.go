package store

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the credential store. Drivers implement it and expose one
// sub-repository per table so a Tx-scoped store can hand out the same repos.
type Store interface {
	Accounts() Accounts
	PINs() PINs
	Identities() Identities
	Sessions() Sessions
	Verifications() Verifications

	ApplyMigrations() error

	// Tx starts a read/write transaction. The caller MUST Commit or Rollback.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error
	Ping(ctx context.Context) error
}

type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetAccountByID returns the record keyed by account id.
	GetAccountByID(ctx context.Context, id string) (domain.Account, error)

	// GetAccountByEmail matches the email field regardless of method.
	GetAccountByEmail(ctx context.Context, email string) (domain.Account, error)

	// GetAccountByPhone matches the phoneNumber field regardless of method.
	GetAccountByPhone(ctx context.Context, phone string) (domain.Account, error)

	// CreateAccount inserts a record. Returns ErrAlreadyExists on an id,
	// email or phone collision.
	CreateAccount(ctx context.Context, a domain.Account) error

	// TouchLastSignIn sets lastSignInAt.
	TouchLastSignIn(ctx context.Context, id string, at time.Time) error
}

type PINs interface {
	// GetPINRecord returns the PIN record for an account.
	GetPINRecord(ctx context.Context, accountID string) (domain.PINRecord, error)

	// UpsertPINHash merges pinHash into the account's PIN record, leaving
	// every other column untouched.
	UpsertPINHash(ctx context.Context, accountID, pinHash string) error
}

type Identities interface {
	GetIdentity(ctx context.Context, kind domain.Method, subject string) (domain.Identity, error)

	// CreateIdentity returns ErrAlreadyExists if (kind, subject) is taken.
	CreateIdentity(ctx context.Context, id domain.Identity) error
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error
	GetSession(ctx context.Context, id string) (domain.Session, error)

	// RevokeSession is idempotent; revoking an unknown session is not an error.
	RevokeSession(ctx context.Context, id string) error

	// DeleteExpiredSessions removes sessions past expiry or revoked before
	// the cutoff, returning the number removed.
	DeleteExpiredSessions(ctx context.Context, cutoff time.Time) (int64, error)
}

type Verifications interface {
	CreateVerification(ctx context.Context, v domain.VerificationChallenge) error
	GetVerification(ctx context.Context, id string) (domain.VerificationChallenge, error)

	// IncrementVerificationAttempts bumps the failed attempt counter and
	// returns the updated challenge.
	IncrementVerificationAttempts(ctx context.Context, id string) (domain.VerificationChallenge, error)

	// ConfirmVerification marks the challenge as confirmed.
	ConfirmVerification(ctx context.Context, id string, at time.Time) error

	// ConsumeVerification marks a confirmed challenge as used. Returns
	// ErrNotFound if it is unconfirmed or already consumed.
	ConsumeVerification(ctx context.Context, id string, at time.Time) error

	DeleteExpiredVerifications(ctx context.Context, now time.Time) (int64, error)
}
