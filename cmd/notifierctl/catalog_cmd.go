package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

type fillOutput struct {
	Command  string `json:"command"`
	Category int    `json:"category"`
	Workbook string `json:"workbook"`
	Appended int    `json:"appended"`
}

func newFillCatalogCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fill-catalog CATEGORY_ID",
		Short: "Append every product of a store category to the products workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			categoryID, err := strconv.Atoi(args[0])
			if err != nil || categoryID <= 0 {
				return fmt.Errorf("invalid CATEGORY_ID %q", args[0])
			}

			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			if s.services.Catalog == nil {
				return errors.New("WOOCOMMERCE_URL not configured")
			}

			products, err := s.services.Catalog.ListByCategory(ctx, categoryID)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(products))
			for _, p := range products {
				rows = append(rows, p.Row())
			}
			if !dryRun {
				if err := s.services.Products.AppendRows(rows); err != nil {
					return err
				}
			}

			return writeJSON(fillOutput{
				Command:  "fill-catalog",
				Category: categoryID,
				Workbook: s.services.Products.Path(),
				Appended: len(rows),
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List products without writing the workbook")
	return cmd
}
