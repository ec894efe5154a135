package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/idx"
	"github.com/stretchr/testify/require"
)

// flakyCreateStore fails the next CreateAccount calls made inside a
// transaction, one per remaining failure.
type flakyCreateStore struct {
	store.Store
	failures *atomic.Int64
}

func (s flakyCreateStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(flakyCreateTx{storeTx: tx, failures: s.failures})
	})
}

// storeTx names the embedded field so it does not shadow Store.Tx.
type storeTx = store.Tx

type flakyCreateTx struct {
	storeTx
	failures *atomic.Int64
}

func (t flakyCreateTx) Accounts() store.Accounts {
	return flakyAccounts{Accounts: t.storeTx.Accounts(), failures: t.failures}
}

type flakyAccounts struct {
	store.Accounts
	failures *atomic.Int64
}

func (a flakyAccounts) CreateAccount(ctx context.Context, acct domain.Account) error {
	if a.failures.Add(-1) >= 0 {
		return errStoreDown
	}
	return a.Accounts.CreateAccount(ctx, acct)
}

func newFlakyFlows(t *testing.T) (*flows, *atomic.Int64) {
	t.Helper()
	f := newFlows(t)
	failures := &atomic.Int64{}
	failures.Store(1)
	f.signUp = &SignUpService{Store: flakyCreateStore{Store: f.st, failures: failures}, Identity: f.idp}
	return f, failures
}

func TestSignUpEmailRollsBackIdentity(t *testing.T) {
	ctx := context.Background()
	f, _ := newFlakyFlows(t)

	_, err := f.signUp.SignUpEmail(ctx, mama, "achieng@example.com", "secret-1")
	require.ErrorIs(t, err, ErrTransient)

	_, err = f.st.Identities().GetIdentity(ctx, domain.MethodEmail, "achieng@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	acct, err := f.signUp.SignUpEmail(ctx, mama, "achieng@example.com", "secret-1")
	require.NoError(t, err)

	d := f.signIn.SignInEmail(ctx, "achieng@example.com", "secret-1")
	require.True(t, d.Allowed, d.Message)
	require.Equal(t, acct.ID, d.Account.ID)
}

func TestSignUpPhoneRollsBackChallenge(t *testing.T) {
	ctx := context.Background()
	f, _ := newFlakyFlows(t)

	now := time.Now().UTC()
	v := domain.VerificationChallenge{
		ID:        idx.NewAt(now).String(),
		Phone:     "+254712345678",
		Secret:    "JBSWY3DPEHPK3PXP",
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}
	require.NoError(t, f.st.Verifications().CreateVerification(ctx, v))
	require.NoError(t, f.st.Verifications().ConfirmVerification(ctx, v.ID, now))

	_, err := f.signUp.SignUpPhone(ctx, v.ID, mama, "0712345678", "secret-1")
	require.ErrorIs(t, err, ErrTransient)

	got, err := f.st.Verifications().GetVerification(ctx, v.ID)
	require.NoError(t, err)
	require.Nil(t, got.ConsumedAt)
	_, err = f.st.Identities().GetIdentity(ctx, domain.MethodPhone, v.Phone)
	require.ErrorIs(t, err, store.ErrNotFound)

	acct, err := f.signUp.SignUpPhone(ctx, v.ID, mama, "0712345678", "secret-1")
	require.NoError(t, err)
	require.True(t, acct.PhoneVerified)

	d := f.signIn.SignInPhone(ctx, "0712345678", "secret-1")
	require.True(t, d.Allowed, d.Message)
	require.Equal(t, acct.ID, d.Account.ID)

	_, err = f.signUp.SignUpPhone(ctx, v.ID, mama, "0712345678", "secret-1")
	require.ErrorIs(t, err, ErrNotVerified)
}
