package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"shotexport/internal/collate"
	"shotexport/internal/copyexport"
	"shotexport/internal/pathtemplate"
	"shotexport/internal/timeline"
)

type collateMemberView struct {
	Shot        string `json:"shot"`
	Role        string `json:"role"`
	Track       string `json:"track"`
	ItemID      string `json:"item_id"`
	TimelineIn  int    `json:"timeline_in"`
	TimelineOut int    `json:"timeline_out"`
	SourceStart int    `json:"source_start,omitempty"`
	SourceEnd   int    `json:"source_end,omitempty"`
	TargetStart int    `json:"target_start,omitempty"`
	TargetEnd   int    `json:"target_end,omitempty"`
	Destination string `json:"destination,omitempty"`
	Error       string `json:"error,omitempty"`
}

func newCollateCommand(ctx *commandContext) *cobra.Command {
	var selection timelineSelection
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "collate",
		Short: "Show the collated shots of a track and their resolved frame ranges",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			host, err := selection.load()
			if err != nil {
				return err
			}
			project, sequence, row, err := timeline.Locate(host, selection.project, selection.sequence, selection.track)
			if err != nil {
				return err
			}
			index, err := collate.BuildIndex(sequence.Rows(), row)
			if err != nil {
				return err
			}

			scope := copyexport.Scope{Project: project.Name(), Sequence: sequence.Name()}
			policy := copyexport.PolicyFromConfig(cfg)
			views := planViews(index, scope, policy)

			if jsonOutput {
				return writeJSON(cmd, views)
			}
			out := cmd.OutOrStdout()
			if len(views) == 0 {
				fmt.Fprintf(out, "Track %s has no shots\n", row.Name())
				return nil
			}
			fmt.Fprintln(out, renderCollateTable(views))
			fmt.Fprintf(out, "%d shots, %d items\n", index.Len(), len(views))
			return nil
		},
	}

	selection.bind(cmd)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// planViews resolves each entry without copying anything. An entry that
// cannot be resolved is reported with its error instead of its ranges.
func planViews(index *collate.Index, scope copyexport.Scope, policy copyexport.Policy) []collateMemberView {
	var views []collateMemberView
	for _, entry := range index.Entries() {
		_, taskErr := copyexport.NewTask(entry, scope, policy, pathtemplate.Braces{})
		for idx, member := range entry.Members() {
			view := collateMemberView{
				Shot:        entry.Main.Item.Name,
				Role:        "main",
				Track:       member.Item.RowName,
				ItemID:      member.Item.ID,
				TimelineIn:  member.Item.TimelineIn,
				TimelineOut: member.Item.TimelineOut,
			}
			if idx > 0 {
				view.Role = "overlap"
			}
			switch {
			case member.Info != nil:
				view.SourceStart = member.Info.SourceStart
				view.SourceEnd = member.Info.SourceEnd
				view.TargetStart = member.Info.TargetStart
				view.TargetEnd = member.Info.TargetEnd
				view.Destination = member.Info.ResolvedPath
			case taskErr != nil:
				view.Error = taskErr.Error()
			}
			views = append(views, view)
		}
	}
	return views
}

func renderCollateTable(views []collateMemberView) string {
	rows := make([][]string, 0, len(views))
	for _, view := range views {
		destination := view.Destination
		source, target := "-", "-"
		if view.Error != "" {
			destination = "error: " + view.Error
		} else if view.Destination != "" {
			source = rangeLabel(view.SourceStart, view.SourceEnd)
			target = rangeLabel(view.TargetStart, view.TargetEnd)
		}
		rows = append(rows, []string{
			view.Shot,
			view.Role,
			view.Track,
			view.ItemID,
			rangeLabel(view.TimelineIn, view.TimelineOut),
			source,
			target,
			destination,
		})
	}
	return renderTable(
		[]string{"Shot", "Role", "Track", "Item", "Timeline", "Source", "Target", "Destination"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
	)
}

func rangeLabel(start, end int) string {
	return strconv.Itoa(start) + "-" + strconv.Itoa(end)
}
