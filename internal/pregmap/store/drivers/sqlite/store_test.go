package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedAccount(t *testing.T, s store.Store, a domain.Account) {
	t.Helper()
	require.NoError(t, s.Accounts().CreateAccount(context.Background(), a))
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Ping(context.Background()))
}

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	seedAccount(t, s, domain.Account{
		ID:           "acc-email",
		Email:        "amina@example.com",
		SignInMethod: domain.MethodEmail,
		PasswordHash: "$argon2id$stub",
		FirstName:    "Amina",
		FullName:     "Amina Otieno",
	})
	seedAccount(t, s, domain.Account{
		ID:            "acc-phone",
		PhoneNumber:   "+254712345678",
		SignInMethod:  domain.MethodPhone,
		PhoneVerified: true,
	})

	t.Run("get by id", func(t *testing.T) {
		a, err := s.Accounts().GetAccountByID(ctx, "acc-email")
		require.NoError(t, err)
		require.Equal(t, "amina@example.com", a.Email)
		require.Equal(t, domain.MethodEmail, a.SignInMethod)
		require.Equal(t, "Amina Otieno", a.FullName)
		require.Empty(t, a.PhoneNumber)
		require.Nil(t, a.LastSignInAt)
		require.False(t, a.CreatedAt.IsZero())
	})

	t.Run("get by contact", func(t *testing.T) {
		a, err := s.Accounts().GetAccountByEmail(ctx, "amina@example.com")
		require.NoError(t, err)
		require.Equal(t, "acc-email", a.ID)

		a, err = s.Accounts().GetAccountByPhone(ctx, "+254712345678")
		require.NoError(t, err)
		require.Equal(t, "acc-phone", a.ID)
		require.True(t, a.PhoneVerified)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := s.Accounts().GetAccountByID(ctx, "nope")
		require.ErrorIs(t, err, store.ErrNotFound)
		_, err = s.Accounts().GetAccountByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("duplicate email or id", func(t *testing.T) {
		err := s.Accounts().CreateAccount(ctx, domain.Account{ID: "acc-2", Email: "amina@example.com", SignInMethod: domain.MethodFederated})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		err = s.Accounts().CreateAccount(ctx, domain.Account{ID: "acc-email", Email: "other@example.com", SignInMethod: domain.MethodEmail})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("touch last sign in", func(t *testing.T) {
		at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
		require.NoError(t, s.Accounts().TouchLastSignIn(ctx, "acc-email", at))

		a, err := s.Accounts().GetAccountByID(ctx, "acc-email")
		require.NoError(t, err)
		require.NotNil(t, a.LastSignInAt)
		require.True(t, at.Equal(*a.LastSignInAt))

		require.ErrorIs(t, s.Accounts().TouchLastSignIn(ctx, "nope", at), store.ErrNotFound)
	})
}

func TestPINs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	seedAccount(t, s, domain.Account{ID: "acc-1", Email: "a@example.com", SignInMethod: domain.MethodEmail})

	_, err := s.PINs().GetPINRecord(ctx, "acc-1")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.PINs().UpsertPINHash(ctx, "acc-1", "hash-1"))
	first, err := s.PINs().GetPINRecord(ctx, "acc-1")
	require.NoError(t, err)
	require.Equal(t, "hash-1", first.PINHash)

	require.NoError(t, s.PINs().UpsertPINHash(ctx, "acc-1", "hash-2"))
	second, err := s.PINs().GetPINRecord(ctx, "acc-1")
	require.NoError(t, err)
	require.Equal(t, "hash-2", second.PINHash)
	require.True(t, first.CreatedAt.Equal(second.CreatedAt), "merge must keep created_at")

	require.Error(t, s.PINs().UpsertPINHash(ctx, "ghost", "hash"), "pin records require an account")
}

func TestIdentities(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	id := domain.Identity{
		ID:         "idn-1",
		AccountID:  "acc-1",
		Kind:       domain.MethodEmail,
		Subject:    "amina@example.com",
		SecretHash: "$argon2id$stub",
		CreatedAt:  time.Now(),
	}
	require.NoError(t, s.Identities().CreateIdentity(ctx, id))

	got, err := s.Identities().GetIdentity(ctx, domain.MethodEmail, "amina@example.com")
	require.NoError(t, err)
	require.Equal(t, "acc-1", got.AccountID)
	require.Equal(t, "$argon2id$stub", got.SecretHash)

	_, err = s.Identities().GetIdentity(ctx, domain.MethodFederated, "amina@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	id.ID = "idn-2"
	require.ErrorIs(t, s.Identities().CreateIdentity(ctx, id), store.ErrAlreadyExists)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	live := domain.Session{ID: "s-live", AccountID: "acc-1", Method: domain.MethodPhone, Contact: "+254712345678", ExpiresAt: now.Add(time.Hour), CreatedAt: now}
	expired := domain.Session{ID: "s-old", AccountID: "acc-1", Method: domain.MethodEmail, ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour)}
	require.NoError(t, s.Sessions().CreateSession(ctx, live))
	require.NoError(t, s.Sessions().CreateSession(ctx, expired))

	got, err := s.Sessions().GetSession(ctx, "s-live")
	require.NoError(t, err)
	require.True(t, got.Live(now))
	require.Equal(t, "+254712345678", got.Contact)

	require.NoError(t, s.Sessions().RevokeSession(ctx, "s-live"))
	require.NoError(t, s.Sessions().RevokeSession(ctx, "s-live"))
	require.NoError(t, s.Sessions().RevokeSession(ctx, "unknown"))

	got, err = s.Sessions().GetSession(ctx, "s-live")
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	require.False(t, got.Live(now))

	n, err := s.Sessions().DeleteExpiredSessions(ctx, now.Add(time.Second))
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	_, err = s.Sessions().GetSession(ctx, "s-old")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestVerifications(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	now := time.Now()

	v := domain.VerificationChallenge{ID: "v-1", Phone: "+254712345678", Secret: "SEED", ExpiresAt: now.Add(5 * time.Minute), CreatedAt: now}
	require.NoError(t, s.Verifications().CreateVerification(ctx, v))

	require.ErrorIs(t, s.Verifications().ConsumeVerification(ctx, "v-1", now), store.ErrNotFound, "unconfirmed challenges cannot be consumed")

	bumped, err := s.Verifications().IncrementVerificationAttempts(ctx, "v-1")
	require.NoError(t, err)
	require.Equal(t, 1, bumped.Attempts)

	_, err = s.Verifications().IncrementVerificationAttempts(ctx, "nope")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Verifications().ConfirmVerification(ctx, "v-1", now))
	require.ErrorIs(t, s.Verifications().ConfirmVerification(ctx, "v-1", now), store.ErrNotFound)

	require.NoError(t, s.Verifications().ConsumeVerification(ctx, "v-1", now))
	require.ErrorIs(t, s.Verifications().ConsumeVerification(ctx, "v-1", now), store.ErrNotFound)

	got, err := s.Verifications().GetVerification(ctx, "v-1")
	require.NoError(t, err)
	require.NotNil(t, got.ConfirmedAt)
	require.NotNil(t, got.ConsumedAt)

	n, err := s.Verifications().DeleteExpiredVerifications(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Accounts().CreateAccount(ctx, domain.Account{ID: "acc-rb", Email: "rb@example.com", SignInMethod: domain.MethodEmail}))
		return boom
	})
	require.ErrorIs(t, err, boom)
	_, err = s.Accounts().GetAccountByID(ctx, "acc-rb")
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Identities().CreateIdentity(ctx, domain.Identity{ID: "idn-tx", AccountID: "acc-tx", Kind: domain.MethodEmail, Subject: "tx@example.com", CreatedAt: time.Now()}); err != nil {
			return err
		}
		return tx.Accounts().CreateAccount(ctx, domain.Account{ID: "acc-tx", Email: "tx@example.com", SignInMethod: domain.MethodEmail})
	})
	require.NoError(t, err)
	_, err = s.Accounts().GetAccountByID(ctx, "acc-tx")
	require.NoError(t, err)
}
