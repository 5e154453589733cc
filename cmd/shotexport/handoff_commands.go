package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"shotexport/internal/config"
	"shotexport/internal/handoff"
)

func newHandoffCommand(ctx *commandContext) *cobra.Command {
	handoffCmd := &cobra.Command{
		Use:   "handoff",
		Short: "Inspect and maintain the cross-stage handoff store",
	}
	handoffCmd.AddCommand(newHandoffListCommand(ctx))
	handoffCmd.AddCommand(newHandoffPurgeCommand(ctx))
	return handoffCmd
}

func openHandoffDatabase(cmd *cobra.Command, ctx *commandContext) (*handoff.SQLite, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Handoff.Backend != config.HandoffSQLite {
		return nil, errors.New("handoff backend is memory; nothing is persisted between runs")
	}
	return handoff.OpenSQLite(cmd.Context(), cfg.HandoffDBPath())
}

func newHandoffListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List runs that still hold handoff records",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openHandoffDatabase(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No pending handoff records")
				return nil
			}
			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.RunID,
					strconv.Itoa(run.Shots),
					run.CreatedAt.Local().Format(time.DateTime),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Run", "Shots", "Created"}, rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft}))
			return nil
		},
	}
}

func newHandoffPurgeCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Remove handoff records left behind by abandoned runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := openHandoffDatabase(cmd, ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			retention := olderThan
			if !cmd.Flags().Changed("older-than") {
				retention = time.Duration(cfg.Handoff.TTLHours) * time.Hour
			}
			removed, err := store.PurgeStale(cmd.Context(), retention)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d handoff records older than %s\n", removed, retention)
			return nil
		},
	}

	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "Retention window (defaults to handoff.ttl_hours)")
	return cmd
}
