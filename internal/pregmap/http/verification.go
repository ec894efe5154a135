package http

import (
	"net/http"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
)

type VerificationHandler struct {
	VerificationService *service.VerificationService
}

// HandleStart handles POST /v1/phone/verifications
//
//	@Summary		Send a verification code
//	@Tags			Sign-up
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.StartVerificationRequest	true	"Phone number"
//	@Success		201		{object}	pregmapsdk.VerificationResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid phone number"
//	@Failure		409		{object}	httpx.ErrorResponse	"Phone number already registered"
//	@Router			/v1/phone/verifications [post].
func (h *VerificationHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	var req sdk.StartVerificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	v, err := h.VerificationService.Start(r.Context(), req.Phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sdk.VerificationResponse{
		ID:        v.ID,
		Phone:     v.Phone,
		ExpiresAt: v.ExpiresAt,
	})
}

// HandleConfirm handles POST /v1/phone/verifications/{id}/confirm
//
//	@Summary		Confirm a verification code
//	@Tags			Sign-up
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string									true	"Verification id"
//	@Param			request	body		pregmapsdk.ConfirmVerificationRequest	true	"Code"
//	@Success		200		{object}	pregmapsdk.VerificationResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Wrong code"
//	@Failure		404		{object}	httpx.ErrorResponse	"Unknown verification"
//	@Failure		410		{object}	httpx.ErrorResponse	"Code expired"
//	@Failure		429		{object}	httpx.ErrorResponse	"Too many attempts"
//	@Router			/v1/phone/verifications/{id}/confirm [post].
func (h *VerificationHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req sdk.ConfirmVerificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if err := h.VerificationService.Confirm(r.Context(), id, req.Code); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sdk.VerificationResponse{ID: id, Confirmed: true})
}
