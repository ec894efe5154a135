package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingCleanup(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{ID: "live", AccountID: "a", Method: domain.MethodEmail, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))
	require.NoError(t, st.Sessions().CreateSession(ctx, domain.Session{ID: "expired", AccountID: "a", Method: domain.MethodEmail, ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)}))
	require.NoError(t, st.Verifications().CreateVerification(ctx, domain.VerificationChallenge{ID: "v-live", Phone: "+254700000001", Secret: "S", ExpiresAt: now.Add(time.Minute), CreatedAt: now}))
	require.NoError(t, st.Verifications().CreateVerification(ctx, domain.VerificationChallenge{ID: "v-old", Phone: "+254700000002", Secret: "S", ExpiresAt: now.Add(-time.Minute), CreatedAt: now.Add(-time.Hour)}))

	hk := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), 0)
	require.Equal(t, time.Hour, hk.Interval)
	hk.Now = func() time.Time { return now }
	hk.Cleanup(ctx)

	_, err := st.Sessions().GetSession(ctx, "live")
	require.NoError(t, err)
	_, err = st.Sessions().GetSession(ctx, "expired")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = st.Verifications().GetVerification(ctx, "v-live")
	require.NoError(t, err)
	_, err = st.Verifications().GetVerification(ctx, "v-old")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHousekeepingStartStop(t *testing.T) {
	st := newTestStore(t)
	hk := NewHousekeepingService(st, slog.New(slog.NewTextHandler(io.Discard, nil)), time.Millisecond)
	hk.Start()
	time.Sleep(5 * time.Millisecond)
	hk.Stop()
}
