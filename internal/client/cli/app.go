package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/config"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/gateway"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/remote"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/services"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/store"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
)

// App is the wired client stack used by the commands.
type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *store.Store
	catalog *services.Catalog
	health  *remote.HealthProbe
}

// NewApp builds the client stack. With background set the catalog starts the
// periodic sync when auto-sync is enabled.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger, background bool) (*App, error) {
	st, err := store.Open(ctx, cfg.DataDir, logger)
	if err != nil {
		return nil, err
	}

	api := remote.NewHTTPClient(cfg.APIAddress, cfg.AccessToken, cfg.RequestTimeout)

	shared, err := newSharedEndpoint(ctx, cfg)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	gw := gateway.New(api, shared, gateway.NewMirror(st.KV()), logger)
	coord := services.NewCoordinator(st, gw, st.KV(), services.SyncConfig{
		Interval:   cfg.SyncInterval,
		RunTimeout: cfg.SyncInterval,
	}, logger)

	catalog := services.NewCatalog(st, remote.NewFailSoft(api, st, logger), coord, background && cfg.AutoSync, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		store:   st,
		catalog: catalog,
		health:  remote.NewHealthProbe(cfg.HealthAddress),
	}, nil
}

func newSharedEndpoint(ctx context.Context, cfg *config.Config) (gateway.SnapshotEndpoint, error) {
	switch cfg.SnapshotStore {
	case config.SnapshotStoreS3:
		ep, err := gateway.NewS3SnapshotEndpoint(ctx, gateway.S3Options{
			Bucket:   cfg.S3Bucket,
			Key:      cfg.S3Key,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
			User:     cfg.S3User,
			Password: cfg.S3Password,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 snapshot store: %w", err)
		}
		return ep, nil
	default:
		if cfg.APIAddress == "" {
			return nil, nil
		}
		return gateway.NewHTTPSnapshotEndpoint(cfg.APIAddress, cfg.AccessToken, cfg.RequestTimeout), nil
	}
}

// Close stops background work and releases the store.
func (a *App) Close() error {
	a.catalog.Close()
	return a.store.Close()
}
