package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/levy/internal/app"
)

func (c *cli) remindCommand() *cobra.Command {
	var (
		at     string
		listed bool
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send due and overdue reminders for unpaid demand notices",
		Long: "Sends at most one reminder per notice per stage: a week before the due date, " +
			"on the due date, and 7 and 30 days after it. Safe to run repeatedly.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()

			if at != "" {
				t, err := time.Parse(time.DateOnly, at)
				if err != nil {
					return err
				}

				now = t
			}

			return c.withApp(cmd.Context(), func(a *app.App) error {
				if listed {
					overdue, err := a.Notices.ListOverdue(cmd.Context(), now)
					if err != nil {
						return err
					}

					return printJSON(cmd.OutOrStdout(), overdue)
				}

				res, err := a.Notices.SendReminders(cmd.Context(), now)
				if err != nil {
					return err
				}

				return printJSON(cmd.OutOrStdout(), res)
			})
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "evaluate as of this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&listed, "list", false, "only list overdue notices")

	return cmd
}
