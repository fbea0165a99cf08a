package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/levy/internal/app"
	"github.com/MrJamesThe3rd/levy/internal/calc"
	"github.com/MrJamesThe3rd/levy/internal/render"
)

func (c *cli) calcCommand() *cobra.Command {
	var (
		revenueType string
		zone        string
		fields      []string
		asOf        string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:     "calc",
		Short:   "Calculate a levy without recording an assessment",
		Example: "  levyctl calc --type SIG --zone A --field area_sqm=12 --field faces=2",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := calc.Input{
				RevenueTypeCode: revenueType,
				ZoneID:          zone,
				Fields:          calc.Fields{},
				AsOf:            time.Now(),
			}

			for _, f := range fields {
				name, value, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("field %q must be name=value", f)
				}

				in.Fields[strings.TrimSpace(name)] = strings.TrimSpace(value)
			}

			if asOf != "" {
				t, err := time.Parse(time.DateOnly, asOf)
				if err != nil {
					return err
				}

				in.AsOf = t
			}

			return c.withApp(cmd.Context(), func(a *app.App) error {
				res, err := a.Calculator.Calculate(cmd.Context(), in)
				if err != nil {
					return err
				}

				if asJSON {
					return printJSON(cmd.OutOrStdout(), res)
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
				for _, comp := range res.Breakdown {
					fmt.Fprintf(w, "%s\t%s\t\n", comp.Name, render.FormatNaira(comp.Amount))
				}
				fmt.Fprintf(w, "total\t%s\t\n", render.FormatNaira(res.Amount))

				return w.Flush()
			})
		},
	}

	cmd.Flags().StringVar(&revenueType, "type", "", "revenue type code")
	cmd.Flags().StringVar(&zone, "zone", "", "zone id")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "application field as name=value (repeatable)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "formula date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
