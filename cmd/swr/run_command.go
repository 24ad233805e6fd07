package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"swr/internal/logging"
	"swr/internal/pipeline"
	"swr/internal/runkey"
	"swr/internal/stage"
)

// errRunFailed signals a completed run with at least one failed stage. It is
// deliberately quiet: the summary table already told the story.
var errRunFailed = errors.New("pipeline finished with failures")

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts pipeline.Options
	var folder string
	var notebookID string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the weekly pipeline (or specific stages)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if folder != "" {
				key, err := runkey.Parse(folder)
				if err != nil {
					return fmt.Errorf("invalid --folder value: %w", err)
				}
				opts.Key = key
			}
			opts.NotebookID = strings.TrimSpace(notebookID)

			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openHistory()
			if err != nil {
				logger.Warn("run history unavailable", logging.Error(err))
			} else {
				defer store.Close()
			}

			summary, err := pipeline.New(cfg, store, logger).Run(cmd.Context(), opts)
			if err != nil {
				return err
			}

			printSummary(cmd, summary)
			if summary.ExitCode() != 0 {
				return errRunFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.SkipFetch, "skip-fetch", false, "Skip the fetch/download stage")
	cmd.Flags().BoolVar(&opts.SkipTranscribe, "skip-transcribe", false, "Skip the transcription stage")
	cmd.Flags().BoolVar(&opts.SkipUpload, "skip-upload", false, "Skip the NotebookLM upload stage")
	cmd.Flags().BoolVar(&opts.SkipEmail, "skip-email", false, "Skip report generation and email entirely")
	cmd.Flags().BoolVar(&opts.SkipCleanup, "skip-cleanup", false, "Skip the data cleanup stage")
	cmd.Flags().BoolVar(&opts.SaveReportOnly, "save-report-only", false, "Generate and save the report without sending email")
	cmd.Flags().StringVar(&folder, "folder", "", "Run window, e.g. 20260218-20260225 (defaults to the lookback window)")
	cmd.Flags().StringVar(&notebookID, "notebook-id", "", "Reuse an existing NotebookLM notebook ID")
	return cmd
}

func printSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		rows = append(rows, []string{statusIcon(result.Status), result.Name, string(result.Status), result.Detail})
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Run %s  window %s\n", summary.RunID, summary.Key.DisplayRange())
	fmt.Fprintln(out, renderTable(
		[]string{"", "Stage", "Status", "Detail"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}))
	if summary.NotebookURL != "" {
		fmt.Fprintf(out, "Notebook: %s\n", summary.NotebookURL)
	}
	if summary.ReportPath != "" {
		fmt.Fprintf(out, "Report:   %s\n", summary.ReportPath)
	}
	fmt.Fprintf(out, "Elapsed:  %s\n", summary.Elapsed.Round(time.Second))
}

func statusIcon(status stage.Status) string {
	switch status {
	case stage.StatusOK:
		return "✓"
	case stage.StatusFailed:
		return "✗"
	case stage.StatusSkipped:
		return "–"
	case stage.StatusPartial:
		return "◐"
	default:
		return "?"
	}
}
