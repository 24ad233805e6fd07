// Package pipeline orchestrates the weekly run: fetch, guard, transcribe,
// upload, report, cleanup. Stage outcomes are four-valued (ok, failed,
// skipped, partial); fetch, guard, or transcription failure aborts the
// content stages while cleanup still runs, and any failed stage turns the
// process exit code to 1.
package pipeline
