package history_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mgpai22/tala/internal/history"
)

func openStore(t *testing.T) *history.Store {
	t.Helper()
	store, err := history.Open(context.Background(), filepath.Join(t.TempDir(), "state", "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAndGet(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	run, err := store.Record(ctx, history.Run{
		AudioPath:    "/tmp/voice.wav",
		SubtitlePath: "/tmp/cues.srt",
		OutputPath:   "/tmp/cues.aligned.srt",
		Case:         "Standard",
		Silences:     3,
		Cues:         2,
		ThresholdDB:  -40,
		MinSilence:   0.3,
		Strategy:     "threshold",
		Report:       "case Standard: 3 silences, 2 cues (m = n+1)",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if run.ID == "" || run.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be assigned: %+v", run)
	}

	fetched, err := store.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if diff := cmp.Diff(run, *fetched); diff != "" {
		t.Errorf("fetched run mismatch (-want +got):\n%s", diff)
	}
}

func TestGetMissing(t *testing.T) {
	store := openStore(t)
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	for i, name := range []string{"a", "b", "c"} {
		if _, err := store.Record(ctx, history.Run{
			ID:           name,
			CreatedAt:    base.Add(time.Duration(i) * time.Minute),
			AudioPath:    name + ".wav",
			SubtitlePath: name + ".srt",
		}); err != nil {
			t.Fatalf("Record %s: %v", name, err)
		}
	}

	runs, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]string{"c", "b"}, ids); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestReopenKeepsRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	store, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Record(ctx, history.Run{ID: "keep", AudioPath: "a", SubtitlePath: "b"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := history.Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()
	if _, err := reopened.Get(ctx, "keep"); err != nil {
		t.Fatalf("expected run to survive reopen: %v", err)
	}
}
