package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"swr/internal/services"
)

func TestPrettyHandlerFormatsComponentAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	logger.Info("stage started",
		String(FieldComponent, "transcribe"),
		String(FieldRunKey, "20260218-20260225"),
		Int("files", 2),
	)

	out := buf.String()
	if !strings.Contains(out, "INFO transcribe: stage started") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "run_key=20260218-20260225") {
		t.Fatalf("missing run key attr: %q", out)
	}
	if !strings.Contains(out, "files=2") {
		t.Fatalf("missing int attr: %q", out)
	}
}

func TestPrettyHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	logger.Warn("transcript short", String("reason", "too few chars"))
	if !strings.Contains(buf.String(), `reason="too few chars"`) {
		t.Fatalf("expected quoted value: %q", buf.String())
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsStandardFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	base := slog.New(newPrettyHandler(&buf, lvl))

	ctx := services.WithStage(context.Background(), "upload")
	ctx = services.WithFeed(ctx, "gooaye")
	ctx = services.WithRunID(ctx, "abc-123")

	WithContext(ctx, base).Info("uploading")

	out := buf.String()
	for _, want := range []string{"stage=upload", "feed=gooaye", "run_id=abc-123"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl))

	WarnWithContext(logger, "audio file undersized", "audio_undersized")

	out := buf.String()
	if !strings.Contains(out, "event_type=audio_undersized") {
		t.Fatalf("missing event type: %q", out)
	}
	if !strings.Contains(out, "impact=") {
		t.Fatalf("missing impact: %q", out)
	}
}
