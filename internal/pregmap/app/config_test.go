package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{"PREGMAP_ISSUER", "PREGMAP_SESSION_TTL", "PREGMAP_FEDERATED_ISSUER", "PORT", "TRUST_PROXY_HEADERS"} {
		t.Setenv(k, "")
	}

	cfg := LoadConfig()
	require.Equal(t, "pregmap", cfg.Issuer)
	require.Equal(t, "pregmap.db", cfg.DatabaseFile)
	require.Equal(t, "pin_cache.db", cfg.PINCacheFile)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, 5*time.Minute, cfg.VerificationTTL)
	require.Equal(t, "254", cfg.PhoneCountryCode)
	require.Equal(t, 8080, cfg.Port)
	require.False(t, cfg.FederatedEnabled())
	require.False(t, cfg.TrustProxyHeaders)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PREGMAP_SESSION_TTL", "2h")
	t.Setenv("PREGMAP_VERIFICATION_TTL", "10")
	t.Setenv("PORT", "not-a-number")
	t.Setenv("PREGMAP_FEDERATED_ISSUER", "https://accounts.google.com")
	t.Setenv("PREGMAP_FEDERATED_JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs")
	t.Setenv("PREGMAP_FEDERATED_AUDIENCE", "pregmap-android")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg := LoadConfig()
	require.Equal(t, 2*time.Hour, cfg.SessionTTL)
	require.Equal(t, 10*time.Minute, cfg.VerificationTTL)
	require.Equal(t, 8080, cfg.Port)
	require.True(t, cfg.FederatedEnabled())
	require.True(t, cfg.TrustProxyHeaders)
}
