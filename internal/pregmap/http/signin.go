package http

import (
	"net/http"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// SignInHandler serves the three sign-in methods and sign-out.
type SignInHandler struct {
	SignInService *service.SignInService
}

func writeAllowed(w http.ResponseWriter, status int, s domain.Session, a domain.Account) {
	httpx.WriteJSON(w, status, sdk.SignInResponse{
		SessionToken: s.Token,
		TokenType:    "Bearer",
		ExpiresAt:    s.ExpiresAt,
		Account:      toAccountResponse(a),
	})
}

func writeDecision(w http.ResponseWriter, d service.Decision) {
	if !d.Allowed {
		writeDenied(w, d)
		return
	}
	d.Account.PasswordHash = ""
	writeAllowed(w, http.StatusOK, d.Session, d.Account)
}

// HandleEmail handles POST /v1/signin/email
//
//	@Summary		Sign in with email and password
//	@Description	Authenticates with the identity provider, then checks that the account was created with email sign-in.
//	@Tags			Sign-in
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.EmailSignInRequest	true	"Credentials"
//	@Success		200		{object}	pregmapsdk.SignInResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid email or password"
//	@Failure		403		{object}	httpx.ErrorResponse	"Account uses another sign-in method"
//	@Failure		404		{object}	httpx.ErrorResponse	"Account not found"
//	@Failure		429		{object}	httpx.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/signin/email [post].
func (h *SignInHandler) HandleEmail(w http.ResponseWriter, r *http.Request) {
	var req sdk.EmailSignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeDecision(w, h.SignInService.SignInEmail(r.Context(), req.Email, req.Password))
}

// HandlePhone handles POST /v1/signin/phone
//
//	@Summary		Sign in with phone number and password
//	@Tags			Sign-in
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.PhoneSignInRequest	true	"Credentials"
//	@Success		200		{object}	pregmapsdk.SignInResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid phone number or password"
//	@Failure		403		{object}	httpx.ErrorResponse	"Account uses another sign-in method"
//	@Failure		404		{object}	httpx.ErrorResponse	"Account not found"
//	@Router			/v1/signin/phone [post].
func (h *SignInHandler) HandlePhone(w http.ResponseWriter, r *http.Request) {
	var req sdk.PhoneSignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeDecision(w, h.SignInService.SignInPhone(r.Context(), req.Phone, req.Password))
}

// HandleFederated handles POST /v1/signin/federated
//
//	@Summary		Sign in with a Google ID token
//	@Tags			Sign-in
//	@Accept			json
//	@Produce		json
//	@Param			request	body		pregmapsdk.FederatedRequest	true	"ID token"
//	@Success		200		{object}	pregmapsdk.SignInResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"ID token rejected"
//	@Failure		403		{object}	httpx.ErrorResponse	"Account uses another sign-in method"
//	@Failure		404		{object}	httpx.ErrorResponse	"Account not found"
//	@Router			/v1/signin/federated [post].
func (h *SignInHandler) HandleFederated(w http.ResponseWriter, r *http.Request) {
	var req sdk.FederatedRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	writeDecision(w, h.SignInService.SignInFederated(r.Context(), req.IDToken))
}

// HandleSignOut handles POST /v1/signout
//
//	@Summary		Sign out
//	@Description	Revokes the session and drops the in-memory PIN cache.
//	@Tags			Sign-in
//	@Security		BearerAuth
//	@Success		204
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing, expired or signed-out session"
//	@Router			/v1/signout [post].
func (h *SignInHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, ok := httpx.PrincipalFromContext(ctx)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, sdk.CodeInvalidToken, "missing session")
		return
	}

	session := domain.Session{ID: p.SessionID, AccountID: p.AccountID, Method: domain.Method(p.Method)}
	if err := h.SignInService.SignOut(ctx, session); err != nil {
		writeServiceError(w, r, err)
		return
	}

	slogx.FromContext(ctx).Debug("session closed", "session_id", p.SessionID)
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
