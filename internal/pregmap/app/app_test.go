package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
)

func testConfig(t *testing.T) Config {
	dir := t.TempDir()
	return Config{
		Issuer:               "pregmap",
		DatabaseFile:         filepath.Join(dir, "pregmap.db"),
		PINCacheFile:         filepath.Join(dir, "pin_cache.db"),
		PepperFile:           filepath.Join(dir, "pepper"),
		SessionTTL:           time.Hour,
		VerificationTTL:      5 * time.Minute,
		PhoneCountryCode:     "254",
		Env:                  "test",
		LogLevel:             "error",
		LogFormat:            "text",
		ShutdownGracePeriod:  time.Second,
		HousekeepingInterval: time.Hour,
	}
}

func readiness(t *testing.T, app *Application) sdk.HealthResponse {
	t.Helper()

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sdk.HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestNewWiresBothTiers(t *testing.T) {
	app, err := New(testConfig(t))
	require.NoError(t, err)

	resp := readiness(t, app)
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "ok", resp.Checks.PINCache)
	require.Equal(t, BuildVersion, resp.Version)

	app.housekeepingService.Start()
	require.NoError(t, app.Shutdown())
}

func TestNewWithoutDurableTier(t *testing.T) {
	cfg := testConfig(t)
	cfg.PINCacheFile = PINCacheDisabled

	app, err := New(cfg)
	require.NoError(t, err)
	require.Nil(t, app.durable)

	resp := readiness(t, app)
	require.Equal(t, "disabled", resp.Checks.PINCache)

	app.housekeepingService.Start()
	require.NoError(t, app.Shutdown())
}

func TestNewFailsOnUnwritableDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.DatabaseFile = filepath.Join(t.TempDir(), "missing", "dir", "pregmap.db")

	_, err := New(cfg)
	require.Error(t, err)
}
