package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/levy/internal/app"
)

func (c *cli) statementCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "statement",
		Short: "Bank statement reconciliation",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file>",
		Short: "Record bank amounts from a statement export against open bank transfers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			return c.withApp(cmd.Context(), func(a *app.App) error {
				report, err := a.Statements.Reconcile(cmd.Context(), f)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d lines, %d matched, %d unmatched, %d skipped\n",
					report.Bank, report.Lines, len(report.Matches), len(report.Unmatched), len(report.Skipped))

				return printJSON(cmd.OutOrStdout(), report)
			})
		},
	})

	return cmd
}
