package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	"github.com/aussiebroadwan/pregmap/pkg/jwtx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
)

// Pinger is satisfied by the durable PIN cache tier.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Checks the credential store, the durable PIN cache and the session signer.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	pregmapsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	pregmapsdk.HealthResponse	"service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	pinCache Pinger,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &sdk.HealthChecks{
			Database: "ok",
			PINCache: "ok",
			Signer:   "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// The gate falls back to the credential store, so a broken durable
		// tier only degrades latency.
		if pinCache == nil {
			checks.PINCache = "disabled"
		} else if err := pinCache.Ping(r.Context()); err != nil {
			checks.PINCache = "error: " + err.Error()
		}

		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, sdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
