package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/srots/portal/internal/devapi/http"
	"github.com/srots/portal/internal/devapi/service"
	"github.com/srots/portal/internal/devapi/store"
	"github.com/srots/portal/internal/devapi/store/memory"
	"github.com/srots/portal/pkg/cryptox"
	"github.com/srots/portal/pkg/jwtx"
	"github.com/srots/portal/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application is the development backend with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *jwtx.HS256

	authService      *service.AuthService
	recoveryService  *service.RecoveryService
	premiumService   *service.PremiumService
	analyticsService *service.AnalyticsService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "srots-devapi",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		db: memory.New(),
	}

	if err := app.initTokens(); err != nil {
		return nil, err
	}

	if app.cfg.SeedDemo {
		ctx := slogx.WithContext(context.Background(), app.logger)
		if err := service.Seed(ctx, app.db, service.DemoAccounts, app.cfg.PasswordCost, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to seed demo accounts: %w", err)
		}
		app.logger.Info("demo accounts seeded", "count", len(service.DemoAccounts))
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.logger.Info("devapi starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down devapi...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", slogx.Err(err))
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", slogx.Err(err))
			return err
		}
	}

	app.logger.Info("devapi stopped")
	return nil
}

// Handler is the fully wired router, for in-process use.
func (app *Application) Handler() http.Handler { return app.router }

// Store exposes the account directory.
func (app *Application) Store() store.Store { return app.db }

func (app *Application) initTokens() error {
	secret := []byte(app.cfg.JWTSecret)
	if len(secret) == 0 {
		random, err := cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate jwt secret: %w", err)
		}
		secret = []byte(random)
		app.logger.Warn("DEVAPI_JWT_SECRET not set; tokens will not survive a restart")
	}

	tokens, err := jwtx.NewHS256(secret, app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to initialize token signer: %w", err)
	}
	app.tokens = tokens
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:  app.db,
		Tokens: app.tokens,
		Issuer: app.cfg.Issuer,
		TTL:    app.cfg.TokenTTL,
	}
	app.recoveryService = &service.RecoveryService{
		Store:    app.db,
		Mailer:   service.LogMailer{Logger: app.logger},
		ResetURL: app.cfg.ResetURL,
	}
	app.premiumService = &service.PremiumService{
		Store:         app.db,
		ProviderKey:   app.cfg.ProviderKey,
		WebhookSecret: []byte(app.cfg.WebhookSecret),
	}
	app.analyticsService = &service.AnalyticsService{
		Store:     app.db,
		StartedAt: time.Now(),
		Version:   BuildVersion,
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(BuildVersion, app.logger)

	if app.cfg.StrictLimit.Requests > 0 {
		router.StrictLimit = app.cfg.StrictLimit
	}
	if app.cfg.ModerateLimit.Requests > 0 {
		router.ModerateLimit = app.cfg.ModerateLimit
	}
	router.AuthService = app.authService
	router.RecoveryService = app.recoveryService
	router.PremiumService = app.premiumService
	router.AnalyticsService = app.analyticsService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
