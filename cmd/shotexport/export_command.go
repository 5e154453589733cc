package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shotexport/internal/exportrun"
	"shotexport/internal/logging"
	"shotexport/internal/preflight"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var selection timelineSelection
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy collated plates, write comp scripts and publish them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			host, err := selection.load()
			if err != nil {
				return err
			}

			runCtx := cmd.Context()
			if !skipPreflight {
				if failed := preflight.Failed(preflight.RunAll(runCtx, cfg)); len(failed) > 0 {
					details := make([]string, 0, len(failed))
					for _, result := range failed {
						details = append(details, fmt.Sprintf("%s: %s", result.Name, result.Detail))
					}
					return fmt.Errorf("preflight failed: %s", strings.Join(details, "; "))
				}
			}

			backend, err := exportrun.OpenHandoff(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := backend.Close(); err != nil {
					logger.Warn("close handoff store", logging.Error(err))
				}
			}()

			publisher, closePublisher, err := exportrun.OpenPublisher(runCtx, cfg, logger)
			if err != nil {
				return err
			}
			defer func() {
				if err := closePublisher(); err != nil {
					logger.Warn("close publish ledger", logging.Error(err))
				}
			}()

			runner, err := exportrun.NewRunner(cfg, host, backend, logger, exportrun.WithPublisher(publisher))
			if err != nil {
				return err
			}
			result, runErr := runner.Run(runCtx, exportrun.Request{
				Project:  selection.project,
				Sequence: selection.sequence,
				Track:    selection.track,
			})
			if result != nil && len(result.Shots) > 0 {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderRunTable(result))
				fmt.Fprintf(out, "Run %s: %d shots, %d failed, %s\n",
					result.RunID, len(result.Shots), result.Failed(), result.Duration().Round(time.Millisecond))
			}
			if runErr != nil {
				return runErr
			}
			if failed := result.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d shots failed", failed, len(result.Shots))
			}
			return nil
		},
	}

	selection.bind(cmd)
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Start the run without checking directories and databases")
	return cmd
}

func renderRunTable(result *exportrun.Result) string {
	rows := make([][]string, 0, len(result.Shots))
	for _, shot := range result.Shots {
		detail := ""
		if shot.Err != nil {
			detail = shot.Err.Error()
		} else if len(shot.Skipped) > 0 {
			detail = "offline: " + strings.Join(shot.Skipped, ", ")
		}
		rows = append(rows, []string{
			shot.Shot,
			string(shot.Status),
			shot.Stage,
			strconv.Itoa(shot.Frames),
			strconv.Itoa(len(shot.Plates)),
			strconv.Itoa(len(shot.Scripts)),
			detail,
		})
	}
	return renderTable(
		[]string{"Shot", "Status", "Stage", "Frames", "Plates", "Scripts", "Detail"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}
