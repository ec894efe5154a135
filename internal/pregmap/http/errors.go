package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	sdk "github.com/aussiebroadwan/pregmap/pkg/pregmapsdk"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

// errorStatus maps a service error to its HTTP status and error code.
// ErrInvalidPIN is checked before ErrValidationFailed, which it wraps.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, sdk.CodeInvalidRequest
	case errors.Is(err, service.ErrInvalidPIN):
		return http.StatusUnauthorized, sdk.CodeInvalidPIN
	case errors.Is(err, service.ErrValidationFailed):
		return http.StatusUnauthorized, sdk.CodeValidationFailed
	case errors.Is(err, service.ErrNotRegistered):
		return http.StatusNotFound, sdk.CodePINNotRegistered
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, sdk.CodeNotFound
	case errors.Is(err, service.ErrMethodMismatch):
		return http.StatusForbidden, sdk.CodeMethodMismatch
	case errors.Is(err, service.ErrAlreadyRegistered):
		return http.StatusConflict, sdk.CodeAlreadyRegistered
	case errors.Is(err, service.ErrVerificationMissing):
		return http.StatusNotFound, sdk.CodeVerificationNotFound
	case errors.Is(err, service.ErrVerificationExpired):
		return http.StatusGone, sdk.CodeVerificationExpired
	case errors.Is(err, service.ErrInvalidCode):
		return http.StatusUnauthorized, sdk.CodeInvalidCode
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests, sdk.CodeTooManyAttempts
	case errors.Is(err, service.ErrNotVerified):
		return http.StatusForbidden, sdk.CodePhoneNotVerified
	case errors.Is(err, service.ErrAttemptBusy):
		return http.StatusConflict, sdk.CodePINAttemptBusy
	case errors.Is(err, service.ErrTransient):
		return http.StatusServiceUnavailable, sdk.CodeTransient
	default:
		return http.StatusInternalServerError, sdk.CodeServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)
	log := slogx.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", "code", code, "err", err)
	} else {
		log.Info("request rejected", "code", code, "err", err)
	}
	httpx.WriteError(w, status, code, service.Message(err))
}

// writeDenied writes a DENY decision. The message was chosen by the access
// decision and is passed through as is.
func writeDenied(w http.ResponseWriter, d service.Decision) {
	status, code := errorStatus(d.Reason)
	msg := d.Message
	if msg == "" {
		msg = service.Message(d.Reason)
	}
	httpx.WriteError(w, status, code, msg)
}

func writeBadRequest(w http.ResponseWriter, desc string) {
	httpx.WriteError(w, http.StatusBadRequest, sdk.CodeInvalidRequest, desc)
}
