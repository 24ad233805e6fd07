// Package report assembles the weekly summary from per-section notebook
// queries, gates it on a minimum length, saves it under the run folder, and
// optionally delivers it by email.
package report
