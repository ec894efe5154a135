package http

import (
	"net/http"

	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	"github.com/aussiebroadwan/pregmap/pkg/jwtx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
)

// JWKSHandler publishes the session signing keys.
//
//	@Summary		Get JWKS
//	@Description	Returns the Ed25519 keys session tokens are signed with.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	pregmapsdk.JWKSResponse
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, sdk.JWKSResponse(keys.PublicJWKS()))
	}
}
