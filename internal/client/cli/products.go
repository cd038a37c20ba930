package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/catalogkeeper/internal/models"
)

func printProducts(w io.Writer, products []models.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tIMAGE\tCREATED")
	for _, p := range products {
		created := "-"
		if p.CreatedAt > 0 {
			created = time.UnixMilli(p.CreatedAt).Format(time.DateTime)
		}
		image := "-"
		if p.Image != "" {
			image = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, truncate(p.Description, 48), image, created)
	}
	return tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}

func newListCommand(s *rootState) *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			products := s.app.catalog.ListProducts()
			if search != "" {
				products = s.app.catalog.Search(search)
			}
			if len(products) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No products found")
				return nil
			}
			return printProducts(cmd.OutOrStdout(), products)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "only products whose name or description contains this text")
	return cmd
}

func newAddCommand(s *rootState) *cobra.Command {
	var p models.Product
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(p.Name) == "" {
				return errors.New("--name is required")
			}
			added, err := s.app.catalog.AddProduct(cmd.Context(), p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", added.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&p.Name, "name", "n", "", "product name")
	cmd.Flags().StringVarP(&p.Description, "description", "d", "", "product description")
	cmd.Flags().StringVarP(&p.Image, "image", "i", "", "image URL or data URI")
	return cmd
}

func findProduct(products []models.Product, id models.ID) (models.Product, bool) {
	for _, p := range products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

func newEditCommand(s *rootState) *cobra.Command {
	var (
		name, description, image string
		clearImage               bool
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current, ok := findProduct(s.app.catalog.ListProducts(), models.ID(args[0]))
			if !ok {
				return fmt.Errorf("product %s not found", args[0])
			}
			if cmd.Flags().Changed("name") {
				current.Name = name
			}
			if cmd.Flags().Changed("description") {
				current.Description = description
			}
			if cmd.Flags().Changed("image") {
				current.Image = image
			}
			if clearImage {
				current.Image = ""
			}

			edited, err := s.app.catalog.EditProduct(cmd.Context(), current)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", edited.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "new name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&image, "image", "i", "", "new image URL or data URI")
	cmd.Flags().BoolVar(&clearImage, "clear-image", false, "remove the image")
	return cmd
}

// confirm asks a yes/no question on out and reads the answer from in.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func newDeleteCommand(s *rootState) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Are you sure you want to delete this product?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			if err := s.app.catalog.RemoveProduct(cmd.Context(), models.ID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}
