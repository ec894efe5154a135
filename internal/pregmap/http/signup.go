package http

import (
	"net/http"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
)

type SignUpHandler struct {
	SignUpService *service.SignUpService
}

// HandleEmail handles POST /v1/signup/email
//
//	@Summary		Create an email account
//	@Tags			Sign-up
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.EmailSignUpRequest	true	"Profile and credentials"
//	@Success		201		{object}	pregmapsdk.AccountResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid input"
//	@Failure		409		{object}	httpx.ErrorResponse	"Email already registered"
//	@Router			/v1/signup/email [post].
func (h *SignUpHandler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	var req sdk.EmailSignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	a, err := h.SignUpService.SignUpEmail(r.Context(), toDomainProfile(req.Profile), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(a))
}

// HandlePhone handles POST /v1/signup/phone
//
//	@Summary		Create a phone account
//	@Description	Requires a confirmed phone verification for the same number.
//	@Tags			Sign-up
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.PhoneSignUpRequest	true	"Profile, credentials and verification id"
//	@Success		201		{object}	pregmapsdk.AccountResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid input"
//	@Failure		403		{object}	httpx.ErrorResponse	"Phone number not verified"
//	@Failure		409		{object}	httpx.ErrorResponse	"Phone number already registered"
//	@Router			/v1/signup/phone [post].
func (h *SignUpHandler) HandlePhone(w http.ResponseWriter, r *http.Request) {
	var req sdk.PhoneSignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	a, err := h.SignUpService.SignUpPhone(r.Context(), req.VerificationID, toDomainProfile(req.Profile), req.Phone, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(a))
}

// HandleFederated handles POST /v1/signup/federated
//
//	@Summary		Create a Google account
//	@Description	Creates the account from the ID token's profile and returns a signed-in session.
//	@Tags			Sign-up
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.FederatedRequest	true	"ID token"
//	@Success		201		{object}	pregmapsdk.SignInResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"ID token rejected"
//	@Failure		409		{object}	httpx.ErrorResponse	"Account already exists"
//	@Router			/v1/signup/federated [post].
func (h *SignUpHandler) HandleFederated(w http.ResponseWriter, r *http.Request) {
	var req sdk.FederatedRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	s, a, err := h.SignUpService.SignUpFederated(r.Context(), req.IDToken)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeAllowed(w, http.StatusCreated, s, a)
}
