package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sportsdesk/internal/domain/entity"
	"sportsdesk/internal/usecase/user"
)

func usersCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts",
	}

	c.AddCommand(usersCreateCmd(a), usersRoleCmd(a), usersDeleteCmd(a), usersListCmd(a))
	return c
}

func usersCreateCmd(a *app) *cobra.Command {
	var email, password, role string

	cmd := &cobra.Command{
		Use:   "create <username>",
		Short: "Create an account with any role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := entity.ParseRole(role)
			if err != nil {
				return err
			}
			if password == "" {
				// パスワードはフラグに残さないよう標準入力からも受け付ける
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password from stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}

			u, err := a.users().CreateUser(cmd.Context(), user.RegisterInput{
				Username: args[0],
				Email:    email,
				Password: password,
			}, r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d %s (%s)\n", u.ID, u.Username, u.Role.Label())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password (read from stdin when omitted)")
	cmd.Flags().StringVar(&role, "role", string(entity.RoleReader), "READER, JOURNALIST or EDITOR")
	return cmd
}

func usersRoleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "role <username> <role>",
		Short: "Change an account's role",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := entity.ParseRole(args[1])
			if err != nil {
				return err
			}
			svc := a.users()
			u, err := svc.GetByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := svc.ChangeRole(cmd.Context(), u.ID, r); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", u.Username, r.Label())
			return nil
		},
	}
}

func usersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete an account with its articles and newsletters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.users()
			u, err := svc.GetByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), u.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted user %s\n", u.Username)
			return nil
		},
	}
}

func usersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := a.users().List(cmd.Context())
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no users)")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.Email)
			}
			return tw.Flush()
		},
	}
}
