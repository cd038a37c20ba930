package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/catalogkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/catalogkeeper/internal/client/config"
	"github.com/dmitrijs2005/catalogkeeper/internal/logging"
)

const backgroundAnnotation = "background"

// AppFactory builds the App for a command.
type AppFactory func(ctx context.Context, cfg *config.Config, logger logging.Logger, background bool) (*App, error)

type rootState struct {
	cfg     *config.Config
	factory AppFactory
	logger  logging.Logger
	app     *App
}

// Execute runs the command line in args against cfg. The App opened for the
// command is released even when the command fails.
func Execute(ctx context.Context, cfg *config.Config, args []string) error {
	root, s := newRootCommand(cfg, NewApp)
	root.SetArgs(args)
	return run(ctx, root, s)
}

func run(ctx context.Context, root *cobra.Command, s *rootState) error {
	err := root.ExecuteContext(ctx)
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCommand(cfg *config.Config, factory AppFactory) (*cobra.Command, *rootState) {
	s := &rootState{cfg: cfg, factory: factory}

	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Manage the product catalog",
		Long:          "Offline-first product catalog with background sync to the catalog server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd)
		},
	}

	var configPath string
	pf := root.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "path to JSON config file")
	pf.StringVar(&cfg.APIAddress, "api", cfg.APIAddress, "catalog API base URL (empty for offline)")
	pf.StringVar(&cfg.HealthAddress, "health", cfg.HealthAddress, "gRPC health address of the server")
	pf.StringVar(&cfg.AccessToken, "token", cfg.AccessToken, "bearer token for the catalog API")
	pf.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory for local data")
	pf.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "timeout of a single API request")
	pf.DurationVar(&cfg.SyncInterval, "sync-interval", cfg.SyncInterval, "interval between background syncs")
	pf.BoolVar(&cfg.AutoSync, "auto-sync", cfg.AutoSync, "sync in the background while running")
	pf.StringVar(&cfg.SnapshotStore, "snapshot-store", cfg.SnapshotStore, "shared snapshot store: http or s3")
	pf.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "bucket of the shared snapshot")
	pf.StringVar(&cfg.S3Key, "s3-key", cfg.S3Key, "object key of the shared snapshot")
	pf.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "S3 region")
	pf.StringVar(&cfg.S3Endpoint, "s3-endpoint", cfg.S3Endpoint, "custom S3 endpoint, e.g. MinIO")
	pf.StringVar(&cfg.S3User, "s3-user", cfg.S3User, "S3 access key")
	pf.StringVar(&cfg.S3Password, "s3-password", cfg.S3Password, "S3 secret key")
	pf.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file (rotated)")
	pf.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")

	root.AddCommand(
		newListCommand(s),
		newAddCommand(s),
		newEditCommand(s),
		newDeleteCommand(s),
		newImportCommand(s),
		newExportCommand(s),
		newRestoreCommand(s),
		newSyncCommand(s),
		newStatusCommand(s),
		newWatchCommand(s),
		newRunCommand(s),
		newVersionCommand(),
	)
	return root, s
}

func (s *rootState) open(cmd *cobra.Command) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = logging.New(logging.Options{Level: s.cfg.LogLevel, File: s.cfg.LogFile})
	}

	background := cmd.Annotations[backgroundAnnotation] == "true"
	app, err := s.factory(cmd.Context(), s.cfg, s.logger, background)
	if err != nil {
		return err
	}
	s.app = app

	app.catalog.Start(cmd.Context())
	return nil
}

func (s *rootState) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}
