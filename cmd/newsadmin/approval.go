package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// approvalCmd builds "approve" or "unapprove". The acting editor is named
// explicitly so the approval is attributed to a real account.
func approvalCmd(a *app, approve bool) *cobra.Command {
	var editor string

	use, short := "approve <article-id>", "Approve an article"
	if !approve {
		use, short = "unapprove <article-id>", "Withdraw an article's approval"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ed, err := a.users().GetByUsername(cmd.Context(), editor)
			if err != nil {
				return err
			}

			svc := a.articles()
			if approve {
				art, err := svc.Approve(cmd.Context(), ed, id)
				if err != nil {
					return err
				}
				// 既存の承認者がいればそちらが残る
				approver := ed
				if art.ApprovedBy != nil && *art.ApprovedBy != ed.ID {
					if approver, err = a.users().Get(cmd.Context(), *art.ApprovedBy); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "article %d approved by %s at %s\n",
					art.ID, approver.Username, art.ApprovedAt.UTC().Format("2006-01-02 15:04"))
				return nil
			}
			art, err := svc.Unapprove(cmd.Context(), ed, id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "article %d unapproved\n", art.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&editor, "editor", "", "username of the approving editor")
	_ = cmd.MarkFlagRequired("editor")
	return cmd
}
