package pregmapsdk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIErrorIs(t *testing.T) {
	err := error(&APIError{StatusCode: http.StatusUnauthorized, Code: CodeInvalidPIN, Description: "Invalid PIN."})
	require.ErrorIs(t, err, ErrInvalidPIN)
	require.NotErrorIs(t, err, ErrValidationFailed)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Invalid PIN.", apiErr.Description)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"json error", http.StatusConflict, `{"error":"already_registered","error_description":"taken"}`, CodeAlreadyRegistered},
		{"html error", http.StatusBadGateway, `<html>bad gateway</html>`, CodeServerError},
		{"empty body", http.StatusInternalServerError, ``, CodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).SignUpEmail(context.Background(), EmailSignUpRequest{Email: "a@example.com"})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}

func TestSessionSendsBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth, gotPath = r.Header.Get("Authorization"), r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"has_registered":true}`))
	}))
	defer srv.Close()

	ok, err := NewClient(srv.URL + "/").NewSession("tok-1").HasRegisteredPIN(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Bearer tok-1", gotAuth)
	require.Equal(t, "/v1/pin/status", gotPath)
}
