// Package upload screens transcripts for summary-worthiness and syncs the
// accepted ones into the week's NotebookLM notebook.
package upload
