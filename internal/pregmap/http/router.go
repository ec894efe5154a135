package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pregmap/internal/pregmap/identity"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	"github.com/aussiebroadwan/pregmap/pkg/jwtx"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"

	_ "github.com/aussiebroadwan/pregmap/api/pregmap" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	keys         *jwtx.KeySet
	identity     identity.Provider
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store    store.Store
	PINCache Pinger // optional: nil when the durable tier is disabled

	SignInService       *service.SignInService
	SignUpService       *service.SignUpService
	VerificationService *service.VerificationService
	AccountService      *service.AccountService
	PINGate             *service.PINGate
}

func NewRouter(
	keys *jwtx.KeySet,
	provider identity.Provider,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		keys:         keys,
		identity:     provider,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSignUp()
	r.registerSignIn()
	r.registerAccount()
	r.registerPIN()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			pregmap Access Service API
//	@version		0.1.0
//	@description	Sign-up, sign-in access decisions and the medical-records PIN gate for the pregmap app.
//	@description
//	@description				Session tokens are EdDSA JWTs and can be verified using the JWKS endpoint.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/pregmap
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// authn resolves bearer tokens through the identity provider so revoked
// sessions are rejected.
func (r *Router) authn() httpx.Middleware {
	return httpx.AuthnMiddleware(func(ctx context.Context, token string) (httpx.Principal, error) {
		s, err := r.identity.Lookup(ctx, token)
		if err != nil {
			return httpx.Principal{}, err
		}
		return httpx.Principal{
			AccountID: s.AccountID,
			SessionID: s.ID,
			Method:    string(s.Method),
			Contact:   s.Contact,
		}, nil
	})
}

func (r *Router) registerSignUp() {
	h := &SignUpHandler{SignUpService: r.SignUpService}
	v := &VerificationHandler{VerificationService: r.VerificationService}

	r.Mux.Handle("POST /v1/signup/email",
		httpx.Chain(http.HandlerFunc(h.HandleEmail),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/signup/phone",
		httpx.Chain(http.HandlerFunc(h.HandlePhone),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/signup/federated",
		httpx.Chain(http.HandlerFunc(h.HandleFederated),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Bucketed per number as well as per IP.
	r.Mux.Handle("POST /v1/phone/verifications",
		httpx.Chain(http.HandlerFunc(v.HandleStart),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "phone"),
		),
	)
	r.Mux.Handle("POST /v1/phone/verifications/{id}/confirm",
		httpx.Chain(http.HandlerFunc(v.HandleConfirm),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSignIn() {
	h := &SignInHandler{SignInService: r.SignInService}

	// Strict limits keyed by IP + contact to slow password guessing.
	r.Mux.Handle("POST /v1/signin/email",
		httpx.Chain(http.HandlerFunc(h.HandleEmail),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "email"),
		),
	)
	r.Mux.Handle("POST /v1/signin/phone",
		httpx.Chain(http.HandlerFunc(h.HandlePhone),
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "phone"),
		),
	)
	r.Mux.Handle("POST /v1/signin/federated",
		httpx.Chain(http.HandlerFunc(h.HandleFederated),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/signout",
		httpx.Chain(http.HandlerFunc(h.HandleSignOut),
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{AccountService: r.AccountService}

	r.Mux.Handle("GET /v1/account",
		httpx.Chain(h,
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPIN() {
	h := &PINHandler{PINGate: r.PINGate, Attempts: service.NewPINAttempts()}

	r.Mux.Handle("POST /v1/pin",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)

	// PIN guesses are limited per account.
	r.Mux.Handle("POST /v1/pin/verify",
		httpx.Chain(http.HandlerFunc(h.HandleVerify),
			r.authn(),
			httpx.RateLimitByAccount(httpx.PINLimit),
		),
	)
	r.Mux.Handle("GET /v1/pin/status",
		httpx.Chain(http.HandlerFunc(h.HandleStatus),
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("DELETE /v1/pin/cache",
		httpx.Chain(http.HandlerFunc(h.HandleClearCache),
			r.authn(),
			httpx.RateLimitByAccount(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /.well-known/jwks.json",
		httpx.Chain(JWKSHandler(r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.PINCache, r.keys),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
