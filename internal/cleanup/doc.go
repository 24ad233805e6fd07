// Package cleanup enforces the per-category retention policy over downloaded
// audio, transcripts, and saved reports.
package cleanup
