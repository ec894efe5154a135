package pregmapsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned in the "error" field.
const (
	CodeInvalidRequest       = "invalid_request"
	CodeInvalidToken         = "invalid_token"
	CodeNotFound             = "not_found"
	CodeMethodMismatch       = "method_mismatch"
	CodeValidationFailed     = "validation_failed"
	CodeInvalidPIN           = "invalid_pin"
	CodePINNotRegistered     = "pin_not_registered"
	CodeAlreadyRegistered    = "already_registered"
	CodeVerificationNotFound = "verification_not_found"
	CodeVerificationExpired  = "verification_expired"
	CodeInvalidCode          = "invalid_code"
	CodeTooManyAttempts      = "too_many_attempts"
	CodePhoneNotVerified     = "phone_not_verified"
	CodePINAttemptBusy       = "pin_attempt_busy"
	CodeRateLimitExceeded    = "rate_limit_exceeded"
	CodeTransient            = "transient"
	CodeServerError          = "server_error"
)

// APIError is a non-2xx response from the service. Description is the
// user-facing message.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is matches on Code so callers can compare against the predefined errors.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidRequest    = &APIError{StatusCode: http.StatusBadRequest, Code: CodeInvalidRequest}
	ErrInvalidToken      = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeInvalidToken}
	ErrNotFound          = &APIError{StatusCode: http.StatusNotFound, Code: CodeNotFound}
	ErrMethodMismatch    = &APIError{StatusCode: http.StatusForbidden, Code: CodeMethodMismatch}
	ErrValidationFailed  = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeValidationFailed}
	ErrInvalidPIN        = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeInvalidPIN}
	ErrPINNotRegistered  = &APIError{StatusCode: http.StatusNotFound, Code: CodePINNotRegistered}
	ErrAlreadyRegistered = &APIError{StatusCode: http.StatusConflict, Code: CodeAlreadyRegistered}
	ErrInvalidCode       = &APIError{StatusCode: http.StatusUnauthorized, Code: CodeInvalidCode}
	ErrTooManyAttempts   = &APIError{StatusCode: http.StatusTooManyRequests, Code: CodeTooManyAttempts}
	ErrRateLimited       = &APIError{StatusCode: http.StatusTooManyRequests, Code: CodeRateLimitExceeded}
	ErrTransient         = &APIError{StatusCode: http.StatusServiceUnavailable, Code: CodeTransient}
	ErrPINAttemptBusy    = &APIError{StatusCode: http.StatusConflict, Code: CodePINAttemptBusy}
)

func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = CodeServerError
		apiErr.Description = fmt.Sprintf("unexpected response: %s", resp.Status)
	}
	return apiErr
}
