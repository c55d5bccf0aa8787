package history

import (
	"path/filepath"
	"testing"
	"time"
)

func TestStoreSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		{RunID: "run-a", Timestamp: base, FileCount: 3, FunctionCount: 10, DecoratedCount: 4, BindingCount: 12, ConflictCount: 1},
		{RunID: "run-b", Timestamp: base.Add(time.Hour), FileCount: 3, FunctionCount: 12, DecoratedCount: 5, BindingCount: 13, ParseErrorCount: 1},
	}
	for _, snap := range snaps {
		if err := store.SaveSnapshot(snap); err != nil {
			t.Fatalf("SaveSnapshot failed: %v", err)
		}
	}

	loaded, err := store.LoadSnapshots(time.Time{})
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(loaded))
	}
	if loaded[0].RunID != "run-a" || loaded[1].RunID != "run-b" {
		t.Errorf("snapshots out of order: %s, %s", loaded[0].RunID, loaded[1].RunID)
	}
	if loaded[1].FunctionCount != 12 || loaded[1].ParseErrorCount != 1 {
		t.Errorf("unexpected counts in second snapshot: %+v", loaded[1])
	}

	since, err := store.LoadSnapshots(base.Add(30 * time.Minute))
	if err != nil {
		t.Fatalf("LoadSnapshots(since) failed: %v", err)
	}
	if len(since) != 1 || since[0].RunID != "run-b" {
		t.Errorf("since filter returned %d snapshots", len(since))
	}
}

func TestStoreUpsertByRunID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	snap := Snapshot{RunID: "run-x", Timestamp: time.Now().UTC(), FunctionCount: 5}
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	snap.FunctionCount = 8
	if err := store.SaveSnapshot(snap); err != nil {
		t.Fatalf("SaveSnapshot (update) failed: %v", err)
	}

	loaded, err := store.LoadSnapshots(time.Time{})
	if err != nil {
		t.Fatalf("LoadSnapshots failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("expected 1 snapshot after upsert, got %d", len(loaded))
	}
	if loaded[0].FunctionCount != 8 {
		t.Errorf("expected updated function count 8, got %d", loaded[0].FunctionCount)
	}
}

func TestSaveSnapshotValidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if err := store.SaveSnapshot(Snapshot{}); err == nil {
		t.Error("expected error for empty run id")
	}
	if err := store.SaveSnapshot(Snapshot{RunID: "r", SchemaVersion: 99}); err == nil {
		t.Error("expected error for unsupported schema version")
	}
}

func TestBuildTrendReport(t *testing.T) {
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	snaps := []Snapshot{
		{RunID: "a", Timestamp: base, FunctionCount: 10, ConflictCount: 2},
		{RunID: "b", Timestamp: base.Add(time.Hour), FunctionCount: 14, ConflictCount: 4},
	}

	report, err := BuildTrendReport(snaps, 24*time.Hour)
	if err != nil {
		t.Fatalf("BuildTrendReport failed: %v", err)
	}
	if report.ScanCount != 2 {
		t.Fatalf("expected 2 points, got %d", report.ScanCount)
	}
	if report.Points[1].DeltaFunctions != 4 {
		t.Errorf("DeltaFunctions = %d, want 4", report.Points[1].DeltaFunctions)
	}
	if report.Points[1].AvgConflicts != 3 {
		t.Errorf("AvgConflicts = %v, want 3", report.Points[1].AvgConflicts)
	}

	if _, err := BuildTrendReport(nil, time.Hour); err == nil {
		t.Error("expected error for empty snapshot slice")
	}
}
