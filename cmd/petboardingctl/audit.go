package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/petboarding/petboarding-backend/internal/app"
	"github.com/petboarding/petboarding-backend/internal/domain"
	"github.com/petboarding/petboarding-backend/internal/service/auditlog"
)

func newAuditCmd() *cobra.Command {
	var (
		entity string
		id     string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit history of one record, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entityID, err := uuid.Parse(id)
			if err != nil {
				return fmt.Errorf("invalid --id %q: %w", id, err)
			}

			return withApp(cmd.Context(), func(a *app.App) error {
				entries, err := a.AuditLog.History(cmd.Context(), domain.EntityName(entity), entityID, limit)
				if err != nil {
					return err
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
					return nil
				}
				return printAudit(cmd.OutOrStdout(), entries)
			})
		},
	}

	cmd.Flags().StringVarP(&entity, "entity", "e", "", "Entity name: user, pet, booking or settings")
	cmd.Flags().StringVar(&id, "id", "", "Entity id")
	cmd.Flags().IntVarP(&limit, "limit", "l", auditlog.DefaultHistoryLimit, "Maximum number of entries")
	_ = cmd.MarkFlagRequired("entity")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func printAudit(out io.Writer, entries []domain.AuditLog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tACTION\tACTOR\tVALUES")
	for _, e := range entries {
		actor := "-"
		if e.CreatedBy != nil {
			actor = e.CreatedBy.String()
		}
		values := "-"
		if e.Values != nil {
			b, err := json.Marshal(e.Values)
			if err != nil {
				return fmt.Errorf("encode values: %w", err)
			}
			values = string(b)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, actor, values)
	}
	return w.Flush()
}
