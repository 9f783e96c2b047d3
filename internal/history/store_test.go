package history_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"wallswitch/internal/dimension"
	"wallswitch/internal/history"
	"wallswitch/internal/imagefile"
	"wallswitch/internal/monitor"
	"wallswitch/internal/partition"
)

func openStore(t *testing.T, now func() time.Time) *history.Store {
	t.Helper()
	store, err := history.Open(filepath.Join(t.TempDir(), "state", "history.db"), history.WithClock(now))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func samplePartitions() []partition.Partition {
	return []partition.Partition{
		{
			Monitor: 0,
			Plan:    monitor.Plan{Orientation: monitor.Horizontal, Pictures: 1, Resolution: dimension.Default},
			Records: []imagefile.Record{
				{Index: 1, Total: 3, Path: "/pics/a.jpg", Hash: "11", Size: 100, Dimension: dimension.Dimension{Width: 800, Height: 600}},
			},
		},
		{
			Monitor: 1,
			Plan:    monitor.Plan{Orientation: monitor.Vertical, Pictures: 2, Resolution: dimension.Default},
			Records: []imagefile.Record{
				{Index: 2, Total: 3, Path: "/pics/b.png", Hash: "22", Size: 200, Dimension: dimension.Dimension{Width: 1024, Height: 768}},
				{Index: 3, Total: 3, Path: "/pics/c.png", Hash: "33", Size: 300, Dimension: dimension.Dimension{Width: 640, Height: 480}},
			},
		},
	}
}

func TestRecordAndRecent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := openStore(t, func() time.Time { return now })
	ctx := context.Background()

	if err := store.Record(ctx, "run-1", samplePartitions()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	first := entries[0]
	if first.RunID != "run-1" || first.Cycle != 1 || first.Monitor != 0 || first.Orientation != "horizontal" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if first.Path != "/pics/a.jpg" || first.Hash != "11" || first.Size != 100 || first.Width != 800 || first.Height != 600 {
		t.Fatalf("unexpected image fields: %+v", first)
	}
	if !first.EmittedAt.Equal(now) {
		t.Fatalf("expected emitted_at %v, got %v", now, first.EmittedAt)
	}
	last := entries[2]
	if last.Monitor != 1 || last.Orientation != "vertical" || last.Index != 3 || last.Total != 3 {
		t.Fatalf("unexpected last entry: %+v", last)
	}
}

func TestRecordNumbersCyclesPerRun(t *testing.T) {
	store := openStore(t, time.Now)
	ctx := context.Background()

	for range 2 {
		if err := store.Record(ctx, "run-a", samplePartitions()[:1]); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := store.Record(ctx, "run-b", samplePartitions()[:1]); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	cycles := map[string][]int{}
	for _, entry := range entries {
		cycles[entry.RunID] = append(cycles[entry.RunID], entry.Cycle)
	}
	if got := cycles["run-b"]; len(got) != 1 || got[0] != 1 {
		t.Fatalf("expected run-b cycle 1, got %v", got)
	}
	seen := map[int]bool{}
	for _, c := range cycles["run-a"] {
		seen[c] = true
	}
	if !seen[1] || !seen[2] || len(seen) != 2 {
		t.Fatalf("expected run-a cycles 1 and 2, got %v", cycles["run-a"])
	}
}

func TestRecentLimit(t *testing.T) {
	store := openStore(t, time.Now)
	ctx := context.Background()
	if err := store.Record(ctx, "run", samplePartitions()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
}

func TestPruneRemovesOlderEntries(t *testing.T) {
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := openStore(t, func() time.Time { return current })
	ctx := context.Background()

	if err := store.Record(ctx, "old", samplePartitions()[:1]); err != nil {
		t.Fatalf("Record old: %v", err)
	}
	current = current.AddDate(0, 0, 10)
	if err := store.Record(ctx, "new", samplePartitions()[:1]); err != nil {
		t.Fatalf("Record new: %v", err)
	}

	removed, err := store.PruneRetention(ctx, 5)
	if err != nil {
		t.Fatalf("PruneRetention: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 remaining, got %d", count)
	}

	removed, err = store.PruneRetention(ctx, 0)
	if err != nil || removed != 0 {
		t.Fatalf("zero retention should keep everything, removed=%d err=%v", removed, err)
	}
}

func TestClear(t *testing.T) {
	store := openStore(t, time.Now)
	ctx := context.Background()
	if err := store.Record(ctx, "run", samplePartitions()); err != nil {
		t.Fatalf("Record: %v", err)
	}
	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 removed, got %d", removed)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	_ = db.Close()

	_, err = history.Open(path)
	if !errors.Is(err, history.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to name %s, got %v", path, err)
	}
}

func TestOpenReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.Record(context.Background(), "run", samplePartitions()[:1]); err != nil {
		t.Fatalf("Record: %v", err)
	}
	_ = store.Close()

	reopened, err := history.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	count, err := reopened.Count(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("expected 1 entry after reopen, got %d err=%v", count, err)
	}
}

func TestCloseNilStore(t *testing.T) {
	var store *history.Store
	if err := store.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}
