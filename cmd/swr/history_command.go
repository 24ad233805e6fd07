package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"swr/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openHistory()
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				verdict := "ok"
				if run.ExitCode != 0 {
					verdict = "failed"
				}
				rows = append(rows, []string{
					run.StartedAt.Local().Format("2006-01-02 15:04"),
					run.RunKey,
					verdict,
					stageDigest(run),
					run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Started", "Window", "Result", "Stages", "Elapsed"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

// stageDigest compresses a run's stage outcomes into "fetch:ok transcribe:partial …".
func stageDigest(run history.Run) string {
	parts := make([]string, 0, len(run.Stages))
	for _, record := range run.Stages {
		parts = append(parts, record.Name+":"+record.Status)
	}
	return strings.Join(parts, " ")
}
