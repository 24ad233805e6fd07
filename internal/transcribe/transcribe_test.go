package transcribe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"swr/internal/logging"
	"swr/internal/manifest"
	"swr/internal/services/whisper"
	"swr/internal/stage"
)

const validText = "本週台股在外資回補下震盪走高，電子權值股領漲，傳產金融類股輪動補漲，" +
	"市場聚焦下週公布的美國通膨數據與聯準會官員談話內容，法人建議留意量能變化。"

type scriptedTranscriber struct {
	calls   int
	outputs []func() (whisper.Result, error)
}

func (s *scriptedTranscriber) Transcribe(ctx context.Context, audioPath, languageHint string) (whisper.Result, error) {
	idx := s.calls
	s.calls++
	if idx >= len(s.outputs) {
		idx = len(s.outputs) - 1
	}
	return s.outputs[idx]()
}

func succeed() (whisper.Result, error) {
	return whisper.Result{Text: validText, Language: "zh"}, nil
}

func failErr() (whisper.Result, error) {
	return whisper.Result{}, errors.New("engine crashed")
}

func shortText() (whisper.Result, error) {
	return whisper.Result{Text: "謝謝收看", Language: "zh"}, nil
}

func testItem(t *testing.T) manifest.Item {
	t.Helper()
	dir := t.TempDir()
	audio := filepath.Join(dir, "markettalk_20260220.mp3")
	if err := os.WriteFile(audio, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return manifest.Item{
		Feed:           "markettalk",
		Date:           time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		AudioPath:      audio,
		TranscriptPath: filepath.Join(dir, "transcripts", "markettalk_20260220.txt"),
	}
}

func newTestEngine(transcriber Transcriber) *Engine {
	engine := NewEngine(transcriber, "zh", logging.NewNop())
	engine.WithRetryDelay(time.Millisecond)
	return engine
}

func TestRunWritesTranscript(t *testing.T) {
	item := testItem(t)
	transcriber := &scriptedTranscriber{outputs: []func() (whisper.Result, error){succeed}}

	result := newTestEngine(transcriber).Run(context.Background(), []manifest.Item{item})
	if result.Status != stage.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	data, err := os.ReadFile(item.TranscriptPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != validText {
		t.Fatalf("unexpected transcript: %q", data)
	}
}

func TestRunRetriesThenSucceeds(t *testing.T) {
	item := testItem(t)
	transcriber := &scriptedTranscriber{outputs: []func() (whisper.Result, error){failErr, shortText, succeed}}

	result := newTestEngine(transcriber).Run(context.Background(), []manifest.Item{item})
	if result.Status != stage.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	if transcriber.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", transcriber.calls)
	}
}

func TestRunStopsAfterMaxAttempts(t *testing.T) {
	item := testItem(t)
	transcriber := &scriptedTranscriber{outputs: []func() (whisper.Result, error){failErr}}

	result := newTestEngine(transcriber).Run(context.Background(), []manifest.Item{item})
	if result.Status != stage.StatusPartial {
		t.Fatalf("episode failures degrade the stage, never fail it: %+v", result)
	}
	if result.Detail != "0/1 transcripts valid" {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
	if transcriber.calls != MaxAttempts {
		t.Fatalf("expected %d attempts, got %d", MaxAttempts, transcriber.calls)
	}
}

func TestRunSkipsValidTranscript(t *testing.T) {
	item := testItem(t)
	if err := os.MkdirAll(filepath.Dir(item.TranscriptPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(item.TranscriptPath, []byte(validText), 0o644); err != nil {
		t.Fatal(err)
	}
	transcriber := &scriptedTranscriber{outputs: []func() (whisper.Result, error){failErr}}

	result := newTestEngine(transcriber).Run(context.Background(), []manifest.Item{item})
	if result.Status != stage.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	if transcriber.calls != 0 {
		t.Fatal("valid transcript must not be re-transcribed")
	}
}

func TestRunDeletesStaleTranscriptBeforeRetry(t *testing.T) {
	item := testItem(t)
	if err := os.MkdirAll(filepath.Dir(item.TranscriptPath), 0o755); err != nil {
		t.Fatal(err)
	}
	// Too short to be valid, so it must be replaced.
	if err := os.WriteFile(item.TranscriptPath, []byte("短"), 0o644); err != nil {
		t.Fatal(err)
	}
	transcriber := &scriptedTranscriber{outputs: []func() (whisper.Result, error){succeed}}

	result := newTestEngine(transcriber).Run(context.Background(), []manifest.Item{item})
	if result.Status != stage.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	data, _ := os.ReadFile(item.TranscriptPath)
	if strings.TrimSpace(string(data)) != validText {
		t.Fatalf("stale transcript not replaced: %q", data)
	}
}

func TestRunPartialWhenSomeEpisodesFail(t *testing.T) {
	good := testItem(t)
	bad := testItem(t)

	transcriber := &scriptedTranscriber{outputs: []func() (whisper.Result, error){
		succeed, failErr, failErr, failErr,
	}}

	result := newTestEngine(transcriber).Run(context.Background(), []manifest.Item{good, bad})
	if result.Status != stage.StatusPartial {
		t.Fatalf("expected partial, got %+v", result)
	}
	if result.Detail != "1/2 transcripts valid" {
		t.Fatalf("unexpected detail: %q", result.Detail)
	}
}

func TestTranscriptValidLengthFloor(t *testing.T) {
	dir := t.TempDir()
	atFloor := filepath.Join(dir, "at_floor.txt")
	os.WriteFile(atFloor, []byte("  "+strings.Repeat("多", MinTranscriptChars)+"\n"), 0o644)
	if !TranscriptValid(atFloor) {
		t.Fatalf("%d trimmed runes must be valid", MinTranscriptChars)
	}
	underFloor := filepath.Join(dir, "under_floor.txt")
	os.WriteFile(underFloor, []byte(strings.Repeat("多", MinTranscriptChars-1)), 0o644)
	if TranscriptValid(underFloor) {
		t.Fatalf("%d trimmed runes must be invalid", MinTranscriptChars-1)
	}
}

func TestTranscriptValid(t *testing.T) {
	dir := t.TempDir()
	short := filepath.Join(dir, "short.txt")
	os.WriteFile(short, []byte("太短"), 0o644)
	if TranscriptValid(short) {
		t.Fatal("short transcript must be invalid")
	}
	if TranscriptValid(filepath.Join(dir, "absent.txt")) {
		t.Fatal("missing transcript must be invalid")
	}
	long := filepath.Join(dir, "long.txt")
	os.WriteFile(long, []byte(validText), 0o644)
	if !TranscriptValid(long) {
		t.Fatal("long transcript must be valid")
	}
}
