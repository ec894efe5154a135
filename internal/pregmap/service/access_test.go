package service

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeDecisionTable(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	emailAcct := seedAccount(t, st, domain.Account{
		Email:        "wanjiru@example.com",
		SignInMethod: domain.MethodEmail,
		PasswordHash: mustHash(t, "email-pass"),
	})
	phoneAcct := seedAccount(t, st, domain.Account{
		PhoneNumber:  "+254712345678",
		SignInMethod: domain.MethodPhone,
		PasswordHash: mustHash(t, "phone-pass"),
	})
	fedAcct := seedAccount(t, st, domain.Account{
		Email:        "akinyi@example.com",
		SignInMethod: domain.MethodFederated,
	})

	tests := []struct {
		name      string
		accountID string
		claim     Claim
		wantErr   error
		wantMsg   string
	}{
		{
			name:      "no record",
			accountID: "missing",
			claim:     Claim{Method: domain.MethodEmail, ContactIdentifier: "x@example.com"},
			wantErr:   ErrNotFound,
			wantMsg:   MsgAccountNotFound,
		},
		{
			name:      "email record claimed as phone",
			accountID: emailAcct.ID,
			claim:     Claim{Method: domain.MethodPhone, ContactIdentifier: "+254712345678", Secret: "email-pass"},
			wantErr:   ErrMethodMismatch,
			wantMsg:   "This account was not created with phone sign-in. Please use the appropriate sign-in method.",
		},
		{
			name:      "email record claimed as federated",
			accountID: emailAcct.ID,
			claim:     Claim{Method: domain.MethodFederated},
			wantErr:   ErrMethodMismatch,
			wantMsg:   "This account was not created with Google sign-in. Please use the appropriate sign-in method.",
		},
		{
			name:      "federated record claimed as email",
			accountID: fedAcct.ID,
			claim:     Claim{Method: domain.MethodEmail, ContactIdentifier: "akinyi@example.com"},
			wantErr:   ErrMethodMismatch,
			wantMsg:   "This account was not created with email sign-in. Please use the appropriate sign-in method.",
		},
		{
			name:      "phone record claimed as email",
			accountID: phoneAcct.ID,
			claim:     Claim{Method: domain.MethodEmail, ContactIdentifier: "wanjiru@example.com"},
			wantErr:   ErrMethodMismatch,
			wantMsg:   "This account was not created with email sign-in. Please use the appropriate sign-in method.",
		},
		{
			name:      "phone record claimed as federated",
			accountID: phoneAcct.ID,
			claim:     Claim{Method: domain.MethodFederated, ContactIdentifier: "wanjiru@example.com"},
			wantErr:   ErrMethodMismatch,
			wantMsg:   "This account was not created with Google sign-in. Please use the appropriate sign-in method.",
		},
		{
			name:      "email matches",
			accountID: emailAcct.ID,
			claim:     Claim{Method: domain.MethodEmail, ContactIdentifier: "wanjiru@example.com"},
		},
		{
			name:      "email differs",
			accountID: emailAcct.ID,
			claim:     Claim{Method: domain.MethodEmail, ContactIdentifier: "other@example.com"},
			wantErr:   ErrValidationFailed,
			wantMsg:   MsgEmailValidation,
		},
		{
			name:      "phone password matches",
			accountID: phoneAcct.ID,
			claim:     Claim{Method: domain.MethodPhone, ContactIdentifier: "+254712345678", Secret: "phone-pass"},
		},
		{
			name:      "phone password wrong",
			accountID: phoneAcct.ID,
			claim:     Claim{Method: domain.MethodPhone, ContactIdentifier: "+254712345678", Secret: "guess"},
			wantErr:   ErrValidationFailed,
			wantMsg:   MsgPhonePassword,
		},
		{
			name:      "federated",
			accountID: fedAcct.ID,
			claim:     Claim{Method: domain.MethodFederated, ContactIdentifier: "akinyi@example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idp := &recordingProvider{}
			svc := &AccessService{Store: st, Identity: idp}
			session := domain.Session{ID: "sess-" + tt.name, AccountID: tt.accountID, Method: tt.claim.Method, Token: "tok"}

			d := svc.Authorize(ctx, session, tt.claim)

			if tt.wantErr == nil {
				require.True(t, d.Allowed)
				require.NoError(t, d.Reason)
				require.Equal(t, "tok", d.Session.Token)
				require.Equal(t, tt.accountID, d.Account.ID)
				require.NotNil(t, d.Account.LastSignInAt)
				require.Empty(t, idp.invalidations())
				return
			}

			require.False(t, d.Allowed)
			require.ErrorIs(t, d.Reason, tt.wantErr)
			require.Equal(t, tt.wantMsg, d.Message)
			require.Empty(t, d.Session.Token)
			require.Equal(t, []string{session.ID}, idp.invalidations())
		})
	}
}

func TestAuthorizeUpdatesLastSignIn(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	acct := seedAccount(t, st, domain.Account{Email: "nafula@example.com", SignInMethod: domain.MethodEmail})

	at := time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC)
	svc := &AccessService{Store: st, Identity: &recordingProvider{}, Now: func() time.Time { return at }}

	d := svc.Authorize(ctx, domain.Session{ID: "s1", AccountID: acct.ID}, Claim{Method: domain.MethodEmail, ContactIdentifier: "nafula@example.com"})
	require.True(t, d.Allowed)

	got, err := st.Accounts().GetAccountByID(ctx, acct.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastSignInAt)
	require.True(t, at.Equal(*got.LastSignInAt))
}

func TestAuthorizeFailsClosed(t *testing.T) {
	ctx := context.Background()
	base := newTestStore(t)
	acct := seedAccount(t, base, domain.Account{Email: "chebet@example.com", SignInMethod: domain.MethodEmail})
	claim := Claim{Method: domain.MethodEmail, ContactIdentifier: "chebet@example.com"}

	tests := []struct {
		name string
		st   store.Store
	}{
		{"lookup fails", brokenAccountsStore{Store: base}},
		{"last sign-in update fails", brokenAccountsStore{Store: base, touchOnly: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idp := &recordingProvider{}
			svc := &AccessService{Store: tt.st, Identity: idp}

			d := svc.Authorize(ctx, domain.Session{ID: "s-" + tt.name, AccountID: acct.ID, Token: "tok"}, claim)
			require.False(t, d.Allowed)
			require.ErrorIs(t, d.Reason, ErrTransient)
			require.Equal(t, MsgTransient, d.Message)
			require.Empty(t, d.Session.Token)
			require.Len(t, idp.invalidations(), 1)
		})
	}
}

func TestAuthorizeInvalidatesAfterCancel(t *testing.T) {
	st := newTestStore(t)
	idp := &recordingProvider{}
	svc := &AccessService{Store: st, Identity: idp}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := svc.Authorize(ctx, domain.Session{ID: "s1", AccountID: "whoever"}, Claim{Method: domain.MethodEmail})
	require.False(t, d.Allowed)
	require.Equal(t, []string{"s1"}, idp.invalidations())
}

func TestAccountServiceGet(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	acct := seedAccount(t, st, domain.Account{Email: "halima@example.com", SignInMethod: domain.MethodEmail, PasswordHash: mustHash(t, "pw-123456")})

	svc := &AccountService{Store: st}
	got, err := svc.Get(ctx, acct.ID)
	require.NoError(t, err)
	require.Equal(t, "halima@example.com", got.Email)
	require.Empty(t, got.PasswordHash)

	_, err = svc.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}
