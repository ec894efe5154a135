package pregmapsdk

import (
	"context"
	"net/http"
	"time"
)

// Session is a signed-in account. It is not refreshed; once the token
// expires or is signed out every call fails with ErrInvalidToken.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
	account   AccountResponse
}

func (s *Session) Token() string        { return s.token }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// SignedInAccount is the account returned at sign-in.
func (s *Session) SignedInAccount() AccountResponse { return s.account }

// Account fetches the current account record.
func (s *Session) Account(ctx context.Context) (*AccountResponse, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/account", s.token, nil)
	if err != nil {
		return nil, err
	}
	var out AccountResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Session) SignOut(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodPost, "/v1/signout", s.token, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) CreatePIN(ctx context.Context, pin string) error {
	return s.client.postJSON(ctx, "/v1/pin", s.token, PINRequest{PIN: pin}, nil, http.StatusCreated)
}

func (s *Session) VerifyPIN(ctx context.Context, pin string) error {
	return s.client.postJSON(ctx, "/v1/pin/verify", s.token, PINRequest{PIN: pin}, nil, http.StatusOK)
}

// HasRegisteredPIN reports whether the server's PIN cache knows this
// account.
func (s *Session) HasRegisteredPIN(ctx context.Context) (bool, error) {
	resp, err := s.client.doRequest(ctx, http.MethodGet, "/v1/pin/status", s.token, nil)
	if err != nil {
		return false, err
	}
	var out PINStatusResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.HasRegistered, nil
}

// ClearPINCache drops this account from both server cache tiers.
func (s *Session) ClearPINCache(ctx context.Context) error {
	resp, err := s.client.doRequest(ctx, http.MethodDelete, "/v1/pin/cache", s.token, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
