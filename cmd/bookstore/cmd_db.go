package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/bookstore/database/seeders"
	"github.com/shashiranjanraj/bookstore/pkg/database"
	"github.com/shashiranjanraj/bookstore/pkg/migration"
)

// bookstore migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		ran, err := migration.New(database.DB).Run(cmd.Context())
		for _, name := range ran {
			fmt.Println("Migrated:", name)
		}
		if err == nil && len(ran) == 0 {
			fmt.Println("Nothing to migrate.")
		}
		return err
	},
}

// bookstore migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		rolled, err := migration.New(database.DB).Rollback(cmd.Context())
		for _, name := range rolled {
			fmt.Println("Rolled back:", name)
		}
		if err == nil && len(rolled) == 0 {
			fmt.Println("Nothing to roll back.")
		}
		return err
	},
}

// bookstore migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		statuses, err := migration.New(database.DB).Status(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN?\tBATCH\tMIGRATION")
		for _, s := range statuses {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
		}
		return w.Flush()
	},
}

// bookstore seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(cmd.Context()); err != nil {
			return err
		}
		if err := seeders.RunAll(cmd.Context(), database.DB); err != nil {
			return err
		}
		fmt.Println("Database seeded.")
		return nil
	},
}
