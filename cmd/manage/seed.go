package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/seed"
	"github.com/pageza/foodgram/backend/internal/storage"
)

func newSeedCmd(a *app) *cobra.Command {
	var (
		opts     seed.Options
		randSeed int64
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the database with fake users and recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Env.IsProduction() {
				return fmt.Errorf("refusing to seed a production database")
			}

			db, err := database.Open(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			store, err := storage.New(cmd.Context(), a.cfg, a.logger)
			if err != nil {
				return err
			}

			if randSeed == 0 {
				randSeed = time.Now().UnixNano()
			}
			sum, err := seed.New(db, store, randSeed, a.logger).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users, %d tags, %d ingredients, %d recipes (password %q)\n",
				sum.Users, sum.Tags, sum.Ingredients, sum.Recipes, seed.DefaultPassword)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Users, "users", 10, "number of users")
	cmd.Flags().IntVar(&opts.Tags, "tags", 6, "number of tags")
	cmd.Flags().IntVar(&opts.Ingredients, "ingredients", 40, "number of ingredients")
	cmd.Flags().IntVar(&opts.RecipesPerUser, "recipes-per-user", 3, "recipes created for each user")
	cmd.Flags().Int64Var(&randSeed, "rand-seed", 0, "random seed for reproducible data (0 picks one)")
	return cmd
}
