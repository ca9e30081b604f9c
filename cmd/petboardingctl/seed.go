package main

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/petboarding/petboarding-backend/internal/app"
	"github.com/petboarding/petboarding-backend/internal/app/seeder"
)

func newSeedCmd() *cobra.Command {
	var (
		file   string
		actor  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load users, pets, bookings and settings from a YAML fixture file",
		Long: "Creates the fixture records through the services, so every record is audited " +
			"and two-way relations are maintained. Without --actor the first user of the " +
			"file registers itself and acts for the rest.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := seeder.LoadFile(file)
			if err != nil {
				return err
			}

			cfg := seeder.Config{DryRun: dryRun}
			if actor != "" {
				if cfg.Actor, err = uuid.Parse(actor); err != nil {
					return fmt.Errorf("invalid --actor %q: %w", actor, err)
				}
			}

			return withApp(cmd.Context(), func(a *app.App) error {
				p := seeder.NewPipeline(a.Log, seeder.Services{
					Register: a.Register,
					Users:    a.Users,
					Pets:     a.Pets,
					Bookings: a.Bookings,
					Settings: a.Settings,
				}, cfg)

				if err := p.Run(cmd.Context(), fx); err != nil {
					return err
				}

				results := p.Results()
				phases := make([]string, 0, len(results))
				for phase := range results {
					phases = append(phases, phase)
				}
				sort.Strings(phases)
				for _, phase := range phases {
					fmt.Fprintf(cmd.OutOrStdout(), "%-9s %d\n", phase, results[phase].Inserted)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the YAML fixture file")
	cmd.Flags().StringVar(&actor, "actor", "", "User id recorded as creator of the seeded records")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the fixtures without writing")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
