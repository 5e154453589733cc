package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"shotexport/internal/publish"
)

func newPublishesCommand(ctx *commandContext) *cobra.Command {
	var runID string
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "publishes",
		Short: "List published files recorded in the local ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ledger, err := publish.OpenLedger(cmd.Context(), cfg.LedgerDBPath())
			if err != nil {
				return err
			}
			defer ledger.Close()

			rows, err := ledger.List(cmd.Context(), runID, limit)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No published files")
				return nil
			}
			fmt.Fprintln(out, renderLedgerTable(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Only list files published by this run")
	cmd.Flags().IntVarP(&limit, "limit", "n", 50, "Maximum number of rows")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderLedgerTable(rows []publish.LedgerRow) string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		task := row.Task
		if task == "" {
			task = "-"
		}
		version := row.Version
		if version == "" {
			version = "-"
		}
		out = append(out, []string{
			row.Shot,
			row.PublishedFileType,
			strconv.Itoa(row.VersionNumber),
			task,
			version,
			row.Path,
			row.CreatedAt.Local().Format(time.DateTime),
		})
	}
	return renderTable(
		[]string{"Shot", "Type", "Ver", "Task", "Version", "Path", "Published"},
		out,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
	)
}
