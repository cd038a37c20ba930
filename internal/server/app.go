// Package server wires the catalog API: PostgreSQL storage, the HTTP routes
// and the gRPC health service, with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
	"github.com/dmitrijs2005/catalogkeeper/internal/server/config"
	"github.com/dmitrijs2005/catalogkeeper/internal/server/handlers"
	"github.com/dmitrijs2005/catalogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/catalogkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/catalogkeeper/internal/server/grpc"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	handler http.Handler
	health  *gs.HealthServer
}

// NewApp opens and migrates the database and builds the HTTP handler.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return newApp(c, logger, db, services.NewCatalogService(db, rm)), nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, catalog handlers.Catalog) *App {
	app := &App{
		config:  c,
		logger:  logger.With("module", "app"),
		db:      db,
		handler: handlers.NewRouter(handlers.New(catalog, logger), []byte(c.SecretKey)),
	}
	if c.HealthAddress != "" {
		app.health = gs.NewHealthServer(c.HealthAddress, logger, app.ping)
	}
	return app
}

func (app *App) ping(ctx context.Context) error {
	if app.db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return app.db.PingContext(ctx)
}

// Run serves until ctx is done or a listener fails, then shuts down.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	srv := &http.Server{
		Addr:              app.config.HTTPAddress,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		app.logger.Info(gctx, "Starting HTTP server", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(gctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if app.health != nil {
		g.Go(func() error {
			return app.health.Run(gctx)
		})
	}

	err := g.Wait()
	if app.db != nil {
		if cerr := app.db.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	app.logger.Info(ctx, "App stopped")
	return err
}
