package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const healthTimeout = 3 * time.Second

func newSyncCommand(s *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Synchronize with the catalog server now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := s.app.catalog.TriggerSync(cmd.Context())
			out := cmd.OutOrStdout()
			if !res.Success {
				return fmt.Errorf("sync failed: %s", res.Message)
			}
			fmt.Fprintf(out, "%s (pulled %d, merged %d, pushed %d in %s)\n",
				res.Message, res.Pulled, res.Merged, res.Pushed, res.Duration.Round(time.Millisecond))
			return nil
		},
	}
}

func newStatusCommand(s *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show storage and sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctx := cmd.Context()

			fmt.Fprintf(out, "Data directory: %s\n", s.cfg.DataDir)
			fmt.Fprintf(out, "Storage engine: %s\n", s.app.store.Engine())
			fmt.Fprintf(out, "Products:       %d\n", len(s.app.catalog.ListProducts()))
			fmt.Fprintf(out, "Sync state:     %s\n", s.app.catalog.SyncState())

			last := "never"
			if ts, err := s.app.catalog.Watermark(ctx); err != nil {
				last = "unknown (" + err.Error() + ")"
			} else if ts > 0 {
				last = time.UnixMilli(ts).Format(time.DateTime)
			}
			fmt.Fprintf(out, "Last sync:      %s\n", last)

			hctx, cancel := context.WithTimeout(ctx, healthTimeout)
			defer cancel()
			server, err := s.app.health.Check(hctx, "")
			if err != nil {
				server = "unreachable"
			}
			fmt.Fprintf(out, "Server:         %s\n", server)
			return nil
		},
	}
}

func newRunCommand(s *rootState) *cobra.Command {
	return &cobra.Command{
		Use:         "run",
		Short:       "Keep syncing in the background until interrupted",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{backgroundAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !s.cfg.AutoSync {
				return fmt.Errorf("auto-sync is disabled")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Syncing every %s, press Ctrl+C to stop\n", s.cfg.SyncInterval)
			<-cmd.Context().Done()
			return nil
		},
	}
}
