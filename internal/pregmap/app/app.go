package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/pregmap/internal/pregmap/http"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/identity"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/pincache"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/service"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store"
	"github.com/aussiebroadwan/pregmap/internal/pregmap/store/drivers/sqlite"
	"github.com/aussiebroadwan/pregmap/pkg/cryptox"
	"github.com/aussiebroadwan/pregmap/pkg/httpx"
	"github.com/aussiebroadwan/pregmap/pkg/jwtx"
	"github.com/aussiebroadwan/pregmap/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"

	// PINCacheDisabled as PREGMAP_PIN_CACHE_FILE runs with the memory tier only.
	PINCacheDisabled = "off"
)

// Application wires the access service together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	durable    *pincache.DurableTier // nil when disabled
	keyManager *jwtx.KeyManager
	identity   *identity.Local

	accessService       *service.AccessService
	signInService       *service.SignInService
	signUpService       *service.SignUpService
	verificationService *service.VerificationService
	accountService      *service.AccountService
	pinGate             *service.PINGate
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "pregmap",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)
	httpx.SetTrustProxyHeaders(app.cfg.TrustProxyHeaders)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initPINCache(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(app.cfg.Issuer)
	if err != nil {
		app.closeStores()
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}
	app.keyManager = keyManager
	app.logger.Warn("session signing key generated; sessions from a previous run are now invalid")

	app.initIdentity()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("pregmap starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains the HTTP server, stops housekeeping and closes both
// databases.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down pregmap...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("pregmap stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if app.durable != nil {
		if err := app.durable.Close(); err != nil {
			app.logger.Error("error closing pin cache", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func sqliteDSN(file string) string {
	if file == ":memory:" {
		return file
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)", file)
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqliteDSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initPINCache() error {
	if app.cfg.PINCacheFile == PINCacheDisabled {
		app.logger.Warn("durable pin cache disabled")
		return nil
	}

	durable, err := pincache.OpenDurable(sqliteDSN(app.cfg.PINCacheFile))
	if err != nil {
		return fmt.Errorf("failed to open pin cache: %w", err)
	}
	app.durable = durable
	return nil
}

func (app *Application) initIdentity() {
	app.identity = &identity.Local{
		Store:      app.db,
		Keys:       app.keyManager,
		Issuer:     app.cfg.Issuer,
		SessionTTL: app.cfg.SessionTTL,
	}

	if !app.cfg.FederatedEnabled() {
		app.logger.Info("federated sign-in disabled")
		return
	}
	app.identity.Federated = identity.NewFederatedVerifier(context.Background(), identity.FederatedConfig{
		Issuer:   app.cfg.FederatedIssuer,
		JWKSURL:  app.cfg.FederatedJWKSURL,
		Audience: app.cfg.FederatedAudience,
		Client:   &http.Client{Timeout: 10 * time.Second},
	})
	app.logger.Info("federated sign-in enabled", "issuer", app.cfg.FederatedIssuer)
}

func (app *Application) initServices() {
	var durable pincache.Tier
	if app.durable != nil {
		durable = app.durable
	}
	app.pinGate = &service.PINGate{Store: app.db, Cache: pincache.New(durable)}

	app.accessService = &service.AccessService{Store: app.db, Identity: app.identity}
	app.signInService = &service.SignInService{
		Access:           app.accessService,
		Identity:         app.identity,
		PINs:             app.pinGate,
		PhoneCountryCode: app.cfg.PhoneCountryCode,
	}
	app.signUpService = &service.SignUpService{
		Store:            app.db,
		Identity:         app.identity,
		PhoneCountryCode: app.cfg.PhoneCountryCode,
	}
	app.verificationService = &service.VerificationService{
		Store:            app.db,
		Sender:           service.LogCodeSender{Logger: app.logger},
		TTL:              app.cfg.VerificationTTL,
		PhoneCountryCode: app.cfg.PhoneCountryCode,
	}
	app.accountService = &service.AccountService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.identity,
		BuildVersion,
		app.db,
		app.logger,
	)

	if app.durable != nil {
		router.PINCache = app.durable
	}
	router.SignInService = app.signInService
	router.SignUpService = app.signUpService
	router.VerificationService = app.verificationService
	router.AccountService = app.accountService
	router.PINGate = app.pinGate
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
