// Package notebooklm wraps the nlm CLI used to upload transcripts, manage
// weekly notebooks, and query section summaries for the report.
package notebooklm
