package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
)

func newLoadCSVCmd(a *app) *cobra.Command {
	var model, file string

	cmd := &cobra.Command{
		Use:   "load-csv",
		Short: "Import ingredients or tags from a CSV file",
		Long: `Import reference data with get-or-create semantics. Each row holds the
model fields in order (ingredient: name,measurement_unit; tag: name,slug).
A header row with the field names is optional.`,
		Example: "  manage load-csv --model ingredient --file data/ingredients.csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", file, err)
			}
			defer f.Close()

			db, err := database.Open(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			result, err := service.NewCSVImporter(db, a.logger).Import(cmd.Context(), model, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d created, %d already existed\n", model, result.Created, result.Existing)
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model to import ("+strings.Join(service.ImportModels(), ", ")+")")
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the CSV file")
	_ = cmd.MarkFlagRequired("model")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
