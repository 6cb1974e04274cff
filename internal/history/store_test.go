package history_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"stemsplit/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.OpenPath(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := history.Run{
		ID:        uuid.NewString(),
		Tool:      "demucs",
		Model:     "htdemucs",
		InputPath: "/music/song.mp3",
		OutputDir: "/out",
		StartedAt: time.Now(),
	}
	if err := store.RecordStart(ctx, run); err != nil {
		t.Fatalf("RecordStart failed: %v", err)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != history.StatusRunning {
		t.Fatalf("expected running status, got %q", runs[0].Status)
	}
	if !runs[0].FinishedAt.IsZero() {
		t.Fatal("expected zero finish time for running run")
	}

	stemNames := []string{"bass", "drums", "other", "vocals"}
	if err := store.RecordResult(ctx, run.ID, history.StatusCompleted, stemNames, ""); err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}

	runs, err = store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	got := runs[0]
	if got.Status != history.StatusCompleted {
		t.Fatalf("expected completed status, got %q", got.Status)
	}
	if len(got.Stems) != 4 || got.Stems[3] != "vocals" {
		t.Fatalf("unexpected stems: %v", got.Stems)
	}
	if got.FinishedAt.IsZero() {
		t.Fatal("expected finish time to be set")
	}
	if got.Duration() < 0 {
		t.Fatalf("expected non-negative duration, got %v", got.Duration())
	}
}

func TestRecordResultStoresFailure(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run := history.Run{ID: uuid.NewString(), Tool: "spleeter", Model: "spleeter:2stems-16kHz"}
	if err := store.RecordStart(ctx, run); err != nil {
		t.Fatalf("RecordStart failed: %v", err)
	}
	if err := store.RecordResult(ctx, run.ID, history.StatusFailed, nil, "exit status 1: OOM"); err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}

	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if runs[0].Status != history.StatusFailed {
		t.Fatalf("expected failed status, got %q", runs[0].Status)
	}
	if runs[0].ErrorMessage != "exit status 1: OOM" {
		t.Fatalf("unexpected error message: %q", runs[0].ErrorMessage)
	}
	if len(runs[0].Stems) != 0 {
		t.Fatalf("expected no stems, got %v", runs[0].Stems)
	}
}

func TestListOrdersNewestFirstAndLimits(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	var ids []string
	for i := 0; i < 3; i++ {
		run := history.Run{
			ID:        uuid.NewString(),
			Tool:      "demucs",
			Model:     "htdemucs",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		ids = append(ids, run.ID)
		if err := store.RecordStart(ctx, run); err != nil {
			t.Fatalf("RecordStart failed: %v", err)
		}
	}

	runs, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected limit of 2, got %d", len(runs))
	}
	if runs[0].ID != ids[2] {
		t.Fatalf("expected newest run first, got %s", runs[0].ID)
	}
}

func TestPruneKeepsNewest(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		run := history.Run{
			ID:        uuid.NewString(),
			Tool:      "demucs",
			Model:     "htdemucs",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.RecordStart(ctx, run); err != nil {
			t.Fatalf("RecordStart failed: %v", err)
		}
	}

	if err := store.Prune(ctx, 2); err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs after prune, got %d", len(runs))
	}

	// maxRuns of 0 keeps everything
	if err := store.Prune(ctx, 0); err != nil {
		t.Fatalf("Prune(0) failed: %v", err)
	}
	runs, _ = store.List(ctx, 0)
	if len(runs) != 2 {
		t.Fatalf("Prune(0) must be a no-op, got %d runs", len(runs))
	}
}

func TestClear(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if err := store.RecordStart(ctx, history.Run{ID: uuid.NewString(), Tool: "demucs"}); err != nil {
		t.Fatalf("RecordStart failed: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	runs, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected empty history, got %d runs", len(runs))
	}
}

func TestRecordStartRequiresID(t *testing.T) {
	store := openStore(t)
	if err := store.RecordStart(context.Background(), history.Run{}); err == nil {
		t.Fatal("expected error for missing run id")
	}
}
