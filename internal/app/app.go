package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/srots/portal/internal/flows"
	"github.com/srots/portal/internal/guard"
	"github.com/srots/portal/internal/session"
	"github.com/srots/portal/internal/session/drivers/memory"
	"github.com/srots/portal/internal/session/drivers/redis"
	"github.com/srots/portal/internal/session/drivers/sqlite"
	"github.com/srots/portal/pkg/portalsdk"
	"github.com/srots/portal/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application wires the session, the API client and the flows of one portal
// client.
type Application struct {
	cfg    Config
	logger *slog.Logger

	kv     session.KV
	closer io.Closer

	Store        *session.Store
	Sessions     *session.Container
	Client       *portalsdk.Client
	Login        *flows.Login
	Subscription *flows.Subscription
	Routes       *guard.Table

	onExpired func(ctx context.Context, path string)
}

// Option customizes New.
type Option func(*Application)

// WithKV uses kv instead of the configured session driver.
func WithKV(kv session.KV) Option {
	return func(a *Application) { a.kv = kv }
}

// WithLogger replaces the logger built from the configuration.
func WithLogger(l *slog.Logger) Option {
	return func(a *Application) { a.logger = l }
}

// OnSessionExpired is called after a 401 ended the session. path is the
// endpoint that was rejected.
func OnSessionExpired(fn func(ctx context.Context, path string)) Option {
	return func(a *Application) { a.onExpired = fn }
}

// New builds an Application from cfg. The session driver is opened and the
// stored session restored.
func New(ctx context.Context, cfg Config, opts ...Option) (*Application, error) {
	app := &Application{cfg: cfg}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "srotsctl",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}

	if app.kv == nil {
		if err := app.initKV(ctx); err != nil {
			return nil, err
		}
	}

	app.Store = session.NewStore(app.kv, app.logger)
	app.Sessions = session.NewContainer(ctx, app.Store, app.logger)

	app.Client = portalsdk.NewClient(cfg.APIURL, portalsdk.Options{
		Tokens:         app.Store,
		OnUnauthorized: app.handleUnauthorized,
		Timeout:        cfg.Timeout,
		Logger:         app.logger,
	})

	app.Login = &flows.Login{Gateway: app.Client, Sessions: app.Sessions}
	app.Subscription = &flows.Subscription{
		Gateway:  app.Client,
		Sessions: app.Sessions,
		VPA:      cfg.UPIVPA,
	}
	app.Routes = guard.DefaultTable()

	return app, nil
}

// initKV opens the configured session driver
func (app *Application) initKV(ctx context.Context) error {
	switch app.cfg.Session.Driver {
	case DriverMemory:
		app.kv = memory.New()

	case DriverSQLite:
		kv, err := sqlite.Open(sqlite.DSN(app.cfg.Session.File))
		if err != nil {
			return fmt.Errorf("failed to open session database: %w", err)
		}
		if err := kv.ApplyMigrations(); err != nil {
			_ = kv.Close()
			return fmt.Errorf("failed to apply session migrations: %w", err)
		}
		app.kv, app.closer = kv, kv

	case DriverRedis:
		kv, err := redis.Dial(ctx, redis.Config{
			Addr:        app.cfg.Session.RedisAddr,
			Username:    app.cfg.Session.RedisUsername,
			Password:    app.cfg.Session.RedisPassword,
			DB:          app.cfg.Session.RedisDB,
			Prefix:      app.cfg.Session.RedisPrefix,
			TTL:         app.cfg.Session.RedisTTL,
			DialTimeout: app.cfg.Session.DialTimeout,
			Timeout:     app.cfg.Session.IOTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to connect session redis: %w", err)
		}
		app.kv, app.closer = kv, kv

	default:
		return fmt.Errorf("unknown session driver %q", app.cfg.Session.Driver)
	}

	app.logger.Debug("session store ready", "driver", app.cfg.Session.Driver)
	return nil
}

// handleUnauthorized ends the session after the backend rejected its token.
func (app *Application) handleUnauthorized(ctx context.Context, rejected, path string) {
	if !app.Sessions.Invalidate(ctx, rejected) {
		return
	}
	app.logger.Info("session expired", "path", path)
	if app.onExpired != nil {
		app.onExpired(ctx, path)
	}
}

// Navigate resolves path for the current session.
func (app *Application) Navigate(path string) guard.Result {
	return app.Routes.Resolve(guard.SubjectOf(app.Sessions.State()), path)
}

// Sync heals the in-memory session against the store, which another
// process sharing the store may have changed.
func (app *Application) Sync(ctx context.Context) {
	if app.Sessions.Reconcile(ctx) {
		app.logger.Info("session store changed underneath, signed out")
	}
}

func (app *Application) Logger() *slog.Logger { return app.logger }

// Close releases the session driver.
func (app *Application) Close() error {
	if app.closer == nil {
		return nil
	}
	if err := app.closer.Close(); err != nil {
		app.logger.Error("error closing session store", slogx.Err(err))
		return err
	}
	return nil
}
