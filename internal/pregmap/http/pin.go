package http

import (
	"context"
	"net/http"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
)

const (
	minPINLength = 4
	maxPINLength = 6
)

// validPIN accepts 4 to 6 ASCII digits.
func validPIN(pin string) bool {
	if len(pin) < minPINLength || len(pin) > maxPINLength {
		return false
	}
	for i := 0; i < len(pin); i++ {
		if pin[i] < '0' || pin[i] > '9' {
			return false
		}
	}
	return true
}

// PINHandler serves the PIN gate for the signed-in account. Attempts
// allows one create or verify per session at a time.
type PINHandler struct {
	PINGate  *service.PINGate
	Attempts *service.PINAttempts
}

func (h *PINHandler) decodePIN(w http.ResponseWriter, r *http.Request) (httpx.Principal, string, bool) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, sdk.CodeInvalidToken, "missing session")
		return p, "", false
	}

	var req sdk.PINRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return p, "", false
	}
	if !validPIN(req.PIN) {
		writeBadRequest(w, "PIN must be 4 to 6 digits.")
		return p, "", false
	}
	return p, req.PIN, true
}

// HandleCreate handles POST /v1/pin
//
//	@Summary		Create or replace the PIN
//	@Tags			PIN
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.PINRequest	true	"4 to 6 digit PIN"
//	@Success		201		{object}	pregmapsdk.PINResultResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"PIN is not 4 to 6 digits"
//	@Failure		503		{object}	httpx.ErrorResponse	"Credential store unavailable"
//	@Router			/v1/pin [post].
func (h *PINHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	p, pin, ok := h.decodePIN(w, r)
	if !ok {
		return
	}

	state, err := h.Attempts.Run(r.Context(), p.SessionID, func(ctx context.Context) error {
		return h.PINGate.Create(ctx, p.AccountID, pin)
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sdk.PINResultResponse{State: string(state)})
}

// HandleVerify handles POST /v1/pin/verify
//
//	@Summary		Verify the PIN
//	@Tags			PIN
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.PINRequest	true	"4 to 6 digit PIN"
//	@Success		200		{object}	pregmapsdk.PINResultResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid PIN"
//	@Failure		404		{object}	httpx.ErrorResponse	"No PIN has been set"
//	@Failure		409		{object}	httpx.ErrorResponse	"Another PIN attempt is in progress for this session"
//	@Failure		429		{object}	httpx.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/pin/verify [post].
func (h *PINHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	p, pin, ok := h.decodePIN(w, r)
	if !ok {
		return
	}

	state, err := h.Attempts.Run(r.Context(), p.SessionID, func(ctx context.Context) error {
		return h.PINGate.Verify(ctx, p.AccountID, pin)
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.PINResultResponse{State: string(state)})
}

// HandleStatus handles GET /v1/pin/status
//
//	@Summary		Whether a PIN is cached for the account
//	@Tags			PIN
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	pregmapsdk.PINStatusResponse
//	@Router			/v1/pin/status [get].
func (h *PINHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, sdk.CodeInvalidToken, "missing session")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.PINStatusResponse{
		HasRegistered: h.PINGate.HasRegistered(r.Context(), p.AccountID),
	})
}

// HandleClearCache handles DELETE /v1/pin/cache
//
//	@Summary		Drop the account from both PIN cache tiers
//	@Description	The stored PIN is kept; the next verify reads it from the credential store.
//	@Tags			PIN
//	@Security		BearerAuth
//	@Success		204
//	@Router			/v1/pin/cache [delete].
func (h *PINHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, sdk.CodeInvalidToken, "missing session")
		return
	}
	if err := h.PINGate.ClearDurable(r.Context(), p.AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
