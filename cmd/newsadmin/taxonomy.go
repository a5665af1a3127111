package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func leaguesCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "leagues",
		Short: "Manage leagues",
	}

	c.AddCommand(
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a league",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				l, err := a.taxonomy().CreateLeague(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created league %d %s\n", l.ID, l.Name)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a league and its teams",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.taxonomy().DeleteLeague(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted league %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List leagues",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				leagues, err := a.taxonomy().ListLeagues(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME")
				for _, l := range leagues {
					fmt.Fprintf(tw, "%d\t%s\n", l.ID, l.Name)
				}
				return tw.Flush()
			},
		},
	)
	return c
}

func teamsCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "teams",
		Short: "Manage teams",
	}

	var createLeague int64
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a team in a league",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.taxonomy().CreateTeam(cmd.Context(), args[0], createLeague)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created team %d %s (%s)\n", t.ID, t.Name, t.LeagueName)
			return nil
		},
	}
	create.Flags().Int64Var(&createLeague, "league", 0, "league id")
	_ = create.MarkFlagRequired("league")

	var listLeague int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List the teams of a league",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			teams, err := a.taxonomy().ListTeams(cmd.Context(), listLeague)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, t := range teams {
				fmt.Fprintf(tw, "%d\t%s\n", t.ID, t.Name)
			}
			return tw.Flush()
		},
	}
	list.Flags().Int64Var(&listLeague, "league", 0, "league id")
	_ = list.MarkFlagRequired("league")

	c.AddCommand(create, list, &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.taxonomy().DeleteTeam(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted team %d\n", id)
			return nil
		},
	})
	return c
}
