package http

import (
	"net/http"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/domain"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
)

func toAccountResponse(a domain.Account) sdk.AccountResponse {
	return sdk.AccountResponse{
		ID:            a.ID,
		Email:         a.Email,
		PhoneNumber:   a.PhoneNumber,
		SignInMethod:  string(a.SignInMethod),
		FirstName:     a.FirstName,
		MiddleName:    a.MiddleName,
		LastName:      a.LastName,
		FullName:      a.FullName,
		PhotoURL:      a.PhotoURL,
		EmailVerified: a.EmailVerified,
		PhoneVerified: a.PhoneVerified,
		LastSignInAt:  a.LastSignInAt,
		CreatedAt:     a.CreatedAt,
	}
}

func toDomainProfile(p sdk.Profile) domain.Profile {
	return domain.Profile{FirstName: p.FirstName, MiddleName: p.MiddleName, LastName: p.LastName}
}

type AccountHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP handles GET /v1/account
//
//	@Summary		Get the signed-in account
//	@Tags			Account
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	pregmapsdk.AccountResponse
//	@Failure		401	{object}	httpx.ErrorResponse	"Missing, expired or signed-out session"
//	@Failure		404	{object}	httpx.ErrorResponse	"No account record"
//	@Router			/v1/account [get].
func (h *AccountHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p, ok := httpx.PrincipalFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, sdk.CodeInvalidToken, "missing session")
		return
	}

	a, err := h.AccountService.Get(r.Context(), p.AccountID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(a))
}
