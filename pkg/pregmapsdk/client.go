package pregmapsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client calls the unauthenticated endpoints and opens Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewSession wraps a session token obtained earlier.
func (c *Client) NewSession(token string) *Session {
	return &Session{client: c, token: token}
}

func (c *Client) SignUpEmail(ctx context.Context, req EmailSignUpRequest) (*AccountResponse, error) {
	var out AccountResponse
	if err := c.postJSON(ctx, "/v1/signup/email", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) StartPhoneVerification(ctx context.Context, phone string) (*VerificationResponse, error) {
	var out VerificationResponse
	if err := c.postJSON(ctx, "/v1/phone/verifications", "", StartVerificationRequest{Phone: phone}, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ConfirmPhoneVerification(ctx context.Context, id, code string) (*VerificationResponse, error) {
	var out VerificationResponse
	path := "/v1/phone/verifications/" + id + "/confirm"
	if err := c.postJSON(ctx, path, "", ConfirmVerificationRequest{Code: code}, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SignUpPhone(ctx context.Context, req PhoneSignUpRequest) (*AccountResponse, error) {
	var out AccountResponse
	if err := c.postJSON(ctx, "/v1/signup/phone", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// SignUpFederated creates a google account and signs it in.
func (c *Client) SignUpFederated(ctx context.Context, idToken string) (*Session, error) {
	return c.signIn(ctx, "/v1/signup/federated", FederatedRequest{IDToken: idToken}, http.StatusCreated)
}

func (c *Client) SignInEmail(ctx context.Context, email, password string) (*Session, error) {
	return c.signIn(ctx, "/v1/signin/email", EmailSignInRequest{Email: email, Password: password}, http.StatusOK)
}

func (c *Client) SignInPhone(ctx context.Context, phone, password string) (*Session, error) {
	return c.signIn(ctx, "/v1/signin/phone", PhoneSignInRequest{Phone: phone, Password: password}, http.StatusOK)
}

func (c *Client) SignInFederated(ctx context.Context, idToken string) (*Session, error) {
	return c.signIn(ctx, "/v1/signin/federated", FederatedRequest{IDToken: idToken}, http.StatusOK)
}

func (c *Client) signIn(ctx context.Context, path string, body any, expected int) (*Session, error) {
	var out SignInResponse
	if err := c.postJSON(ctx, path, "", body, &out, expected); err != nil {
		return nil, err
	}
	return &Session{client: c, token: out.SessionToken, expiresAt: out.ExpiresAt, account: out.Account}, nil
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}
	var h HealthResponse
	if err := decodeJSON(resp, &h, http.StatusOK); err != nil {
		return nil, err
	}
	return &h, nil
}

// GetJWKS fetches the keys session tokens are signed with.
func (c *Client) GetJWKS(ctx context.Context) (*JWKSResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/.well-known/jwks.json", "", nil)
	if err != nil {
		return nil, err
	}
	var out JWKSResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
