// Command petboardingctl is the maintenance CLI of the boarding backend.
//
//	petboardingctl migrate up|down|status
//	petboardingctl seed --file fixtures.yaml [--actor UUID] [--dry-run]
//	petboardingctl audit --entity NAME --id UUID [--limit N]
//
// Configuration is read the same way as by the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/petboarding/petboarding-backend/internal/app"
	"github.com/petboarding/petboarding-backend/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "petboardingctl",
		Short:         "Maintenance commands of the pet boarding backend",
		Version:       app.BuildVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newAuditCmd(),
	)
	return root
}

// withApp loads configuration, wires the application and closes it after fn.
func withApp(ctx context.Context, fn func(a *app.App) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// CLI runs never expose collectors.
	cfg.Metrics.Enabled = false

	logger := app.NewLogger(cfg.Log)

	a, err := app.New(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
