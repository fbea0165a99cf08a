// Command levyctl runs operator jobs against the levy database: schema
// migrations, the reminder sweep, bank statement imports and ad hoc
// calculations.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/levy/internal/app"
	"github.com/MrJamesThe3rd/levy/internal/config"
)

type cli struct {
	cfg *config.Config
}

func newRootCommand() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "levyctl",
		Short: "Operator tooling for revenue assessment and payment reconciliation",
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			c.cfg = cfg

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		c.migrateCommand(),
		c.remindCommand(),
		c.statementCommand(),
		c.calcCommand(),
	)

	return root
}

// withApp builds the service graph for one command and tears it down after.
func (c *cli) withApp(ctx context.Context, fn func(a *app.App) error) error {
	a, err := app.New(c.cfg, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	a.Start(ctx)

	err = fn(a)

	if cerr := a.Close(); cerr != nil {
		slog.Error("failed to close resources", "error", cerr)
	}

	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
