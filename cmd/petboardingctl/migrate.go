package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"

	"github.com/petboarding/petboarding-backend/internal/app"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply, roll back or list database migrations",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					results, err := a.Migrator().Up(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrate up: %w", err)
					}
					if len(results) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "no pending migrations")
						return nil
					}
					printResults(cmd.OutOrStdout(), results)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					result, err := a.Migrator().Down(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrate down: %w", err)
					}
					printResults(cmd.OutOrStdout(), []*goose.MigrationResult{result})
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), func(a *app.App) error {
					statuses, err := a.Migrator().Status(cmd.Context())
					if err != nil {
						return fmt.Errorf("migrate status: %w", err)
					}
					printStatuses(cmd.OutOrStdout(), statuses)
					return nil
				})
			},
		},
	)

	return cmd
}

func printResults(out io.Writer, results []*goose.MigrationResult) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tDIRECTION\tFILE\tDURATION")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.Source.Version, r.Direction, r.Source.Path, r.Duration)
	}
	w.Flush()
}

func printStatuses(out io.Writer, statuses []*goose.MigrationStatus) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tFILE")
	for _, s := range statuses {
		applied := "-"
		if !s.AppliedAt.IsZero() {
			applied = s.AppliedAt.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
	}
	w.Flush()
}
