// Package whisper wraps the faster-whisper CLI as the pipeline's opaque
// transcription collaborator.
package whisper
