package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/catalogkeeper/internal/client/extract"
	"github.com/dmitrijs2005/catalogkeeper/internal/filex"
	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

// importFile extracts candidates from path and bulk imports them.
func importFile(ctx context.Context, s *rootState, path string) ([]models.Product, error) {
	ex, err := extract.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	candidates, err := ex.Extract(f)
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", path, err)
	}
	return s.app.catalog.BulkImport(ctx, candidates)
}

func newImportCommand(s *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import products from a CSV, TSV or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inserted, err := importFile(cmd.Context(), s, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products\n", len(inserted))
			return nil
		},
	}
}

func newExportCommand(s *rootState) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalog as a JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := s.app.catalog.ExportSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := filex.WriteFileAtomic(output, data, 0o600); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the backup to this file instead of stdout")
	return cmd
}

func newRestoreCommand(s *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Restore a JSON backup and publish it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			inserted, err := s.app.catalog.ImportSnapshot(cmd.Context(), f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d products\n", len(inserted))
			return nil
		},
	}
}
