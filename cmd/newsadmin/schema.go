package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sportsdesk/internal/infra/db"
)

func migrateCmd(a *app) *cobra.Command {
	var down bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create (or with --down, drop) the schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if down {
				if err := db.MigrateDown(a.db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "schema dropped")
				return nil
			}
			if err := db.MigrateUp(a.db, a.driver); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "drop every table (destroys all data)")
	return cmd
}

func seedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file.yaml]",
		Short: "Insert leagues and teams from a YAML file (built-in list when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				seed *db.Seed
				err  error
			)
			if len(args) == 1 {
				seed, err = db.LoadSeed(args[0])
			} else {
				seed, err = db.DefaultSeed()
			}
			if err != nil {
				return err
			}

			leagues, teams, err := db.ApplySeed(cmd.Context(), a.db, a.driver, seed)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inserted %d leagues, %d teams\n", leagues, teams)
			return nil
		},
	}
}
