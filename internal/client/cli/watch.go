package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/inbox"
	"github.com/dmitrijs2005/catalogkeeper/internal/filex"
)

func newWatchCommand(s *rootState) *cobra.Command {
	var debounce = inbox.DefaultDebounce
	cmd := &cobra.Command{
		Use:         "watch <dir>",
		Short:       "Import files dropped into a directory while syncing in the background",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{backgroundAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filex.EnsureDir(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			w := inbox.NewWatcher(dir, debounce, func(ctx context.Context, path string) error {
				inserted, err := importFile(ctx, s, path)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Imported %d products from %s\n", len(inserted), path)
				return nil
			}, s.logger)

			fmt.Fprintf(out, "Watching %s, press Ctrl+C to stop\n", dir)
			return w.Run(cmd.Context())
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before a changed file is imported")
	return cmd
}
