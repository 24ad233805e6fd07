package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRun(runKey string, exitCode int) Run {
	started := time.Date(2026, 2, 25, 8, 0, 0, 0, time.UTC)
	return Run{
		RunID:      "3f6b1d2e",
		RunKey:     runKey,
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Minute),
		ExitCode:   exitCode,
		NotebookID: "nb-1",
		ReportPath: "/data/reports/" + runKey + "/weekly_report_" + runKey + ".txt",
		Stages: []StageRecord{
			{Name: "fetch", Status: "ok", Detail: "3 downloaded, 0 existing, 0 failed", Duration: 3 * time.Minute},
			{Name: "transcribe", Status: "partial", Detail: "2/3 transcripts valid", Duration: 30 * time.Minute},
			{Name: "upload", Status: "ok", Detail: "2 uploaded, 0 rejected, 0 failed", Duration: 2 * time.Minute},
		},
	}
}

func TestRecordAndRecallRun(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.RecordRun(ctx, sampleRun("20260218-20260225", 0))
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected a row id")
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	run := runs[0]
	if run.RunKey != "20260218-20260225" || run.NotebookID != "nb-1" {
		t.Fatalf("unexpected run: %+v", run)
	}
	if len(run.Stages) != 3 {
		t.Fatalf("expected three stage records, got %d", len(run.Stages))
	}
	if run.Stages[1].Status != "partial" || run.Stages[1].Duration != 30*time.Minute {
		t.Fatalf("unexpected stage record: %+v", run.Stages[1])
	}
	if !run.FinishedAt.After(run.StartedAt) {
		t.Fatal("timestamps did not round-trip")
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"20260204-20260211", "20260211-20260218", "20260218-20260225"} {
		if _, err := store.RecordRun(ctx, sampleRun(key, 0)); err != nil {
			t.Fatal(err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("limit ignored: got %d runs", len(runs))
	}
	if runs[0].RunKey != "20260218-20260225" {
		t.Fatalf("most recent run must come first, got %s", runs[0].RunKey)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	first, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.RecordRun(context.Background(), sampleRun("20260218-20260225", 1)); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()
	runs, err := second.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ExitCode != 1 {
		t.Fatalf("existing data lost on reopen: %+v", runs)
	}
}
