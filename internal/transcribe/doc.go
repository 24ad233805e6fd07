// Package transcribe turns downloaded audio into validated transcripts,
// retrying flaky engine runs and verifying the full expected set on disk
// before reporting an outcome.
package transcribe
