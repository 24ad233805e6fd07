package cleanup

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"swr/internal/logging"
	"swr/internal/stage"
)

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	}
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunPrunesAgedAudio(t *testing.T) {
	audio := t.TempDir()
	old := filepath.Join(audio, "markettalk", "markettalk_20260101.mp3")
	fresh := filepath.Join(audio, "markettalk", "markettalk_20260820.mp3")
	writeFile(t, old)
	writeFile(t, fresh)

	cleaner := New(Policy{AudioMonths: 3}, audio, t.TempDir(), t.TempDir(), logging.NewNop())
	cleaner.WithClock(fixedClock())

	result := cleaner.Run()
	if result.Status != stage.StatusOK {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Fatal("aged file should be removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatal("fresh file must survive")
	}
}

func TestRunRemovesEmptiedFeedDir(t *testing.T) {
	audio := t.TempDir()
	old := filepath.Join(audio, "markettalk", "markettalk_20250101.mp3")
	writeFile(t, old)

	cleaner := New(Policy{AudioMonths: 3}, audio, t.TempDir(), t.TempDir(), logging.NewNop())
	cleaner.WithClock(fixedClock())
	cleaner.Run()

	if _, err := os.Stat(filepath.Join(audio, "markettalk")); !os.IsNotExist(err) {
		t.Fatal("emptied feed directory should be removed")
	}
}

func TestRunPrunesReportFoldersByWindowStart(t *testing.T) {
	reports := t.TempDir()
	oldReport := filepath.Join(reports, "20260101-20260108", "weekly_report_20260101-20260108.txt")
	freshReport := filepath.Join(reports, "20260818-20260825", "weekly_report_20260818-20260825.txt")
	stray := filepath.Join(reports, "notes", "keep.txt")
	writeFile(t, oldReport)
	writeFile(t, freshReport)
	writeFile(t, stray)

	cleaner := New(Policy{ReportsMonths: 3}, t.TempDir(), t.TempDir(), reports, logging.NewNop())
	cleaner.WithClock(fixedClock())
	cleaner.Run()

	if _, err := os.Stat(filepath.Dir(oldReport)); !os.IsNotExist(err) {
		t.Fatal("aged report folder should be removed")
	}
	if _, err := os.Stat(freshReport); err != nil {
		t.Fatal("fresh report must survive")
	}
	if _, err := os.Stat(stray); err != nil {
		t.Fatal("non run-key folders must be left alone")
	}
}

func TestRunZeroMonthsKeepsEverything(t *testing.T) {
	audio := t.TempDir()
	old := filepath.Join(audio, "markettalk", "markettalk_20200101.mp3")
	writeFile(t, old)

	cleaner := New(Policy{}, audio, t.TempDir(), t.TempDir(), logging.NewNop())
	cleaner.WithClock(fixedClock())

	result := cleaner.Run()
	if result.Status != stage.StatusSkipped {
		t.Fatalf("expected skipped, got %+v", result)
	}
	if _, err := os.Stat(old); err != nil {
		t.Fatal("retention disabled must not delete anything")
	}
}

func TestRunMissingRootsAreHarmless(t *testing.T) {
	base := t.TempDir()
	cleaner := New(Policy{AudioMonths: 1, TranscriptsMonths: 1, ReportsMonths: 1},
		filepath.Join(base, "a"), filepath.Join(base, "t"), filepath.Join(base, "r"),
		logging.NewNop())
	cleaner.WithClock(fixedClock())

	result := cleaner.Run()
	if result.Status != stage.StatusOK {
		t.Fatalf("missing roots must not fail cleanup: %+v", result)
	}
}
