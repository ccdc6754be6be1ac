package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"grimdelve/internal/boss"
	"grimdelve/internal/encounter"
)

func newStore(t *testing.T) *SnapshotStore {
	t.Helper()
	db, err := InitSQLite(filepath.Join(t.TempDir(), "nested", "grimdelve.db"))
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewSnapshotStore(db)
}

func sampleSnapshot(runID string) encounter.Snapshot {
	return encounter.Snapshot{
		RunID:           runID,
		OpenedInstances: []string{"chest_1", "chest_2"},
		ActiveBosses: []boss.Summary{{
			BossID: "goblin_king", InstanceID: "room_5", Level: 5,
			Phase: "ENRAGED", PhaseIndex: 1, CurrentHP: 80, MaxHP: 192, TurnCount: 4,
		}},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	snap := sampleSnapshot("run-1")

	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}
	got, err := store.Load(ctx, "run-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("loaded %+v, want %+v", got, snap)
	}
}

func TestSaveReplaces(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	snap := sampleSnapshot("run-1")
	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}
	snap.OpenedInstances = append(snap.OpenedInstances, "chest_3")
	snap.ActiveBosses = nil
	if err := store.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].OpenedCount != 3 || runs[0].ActiveBosses != 0 {
		t.Errorf("unexpected runs %+v", runs)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	for _, id := range []string{"old", "mid", "new"} {
		if err := store.Save(ctx, sampleSnapshot(id)); err != nil {
			t.Fatal(err)
		}
		clock = clock.Add(time.Minute)
	}
	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 3 || runs[0].RunID != "new" || runs[2].RunID != "old" {
		t.Fatalf("unexpected order %+v", runs)
	}
	if !runs[2].SavedAt.Equal(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("saved_at = %v", runs[2].SavedAt)
	}
}

func TestLoadMissingAndDelete(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	if _, err := store.Load(ctx, "ghost"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("expected ErrSnapshotNotFound, got %v", err)
	}
	if err := store.Save(ctx, sampleSnapshot("run-1")); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "run-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Load(ctx, "run-1"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Errorf("deleted run still loads: %v", err)
	}
	if err := store.Delete(ctx, "run-1"); err != nil {
		t.Errorf("deleting twice should be fine: %v", err)
	}
}

func TestSaveRequiresRunID(t *testing.T) {
	if err := newStore(t).Save(context.Background(), encounter.Snapshot{}); err == nil {
		t.Error("expected error for empty run id")
	}
}

func TestImportYAML(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	snap := sampleSnapshot("run-yaml")
	data, err := snap.MarshalYAMLBytes()
	if err != nil {
		t.Fatal(err)
	}

	imported, err := store.ImportYAML(ctx, data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(imported, snap) {
		t.Errorf("imported %+v, want %+v", imported, snap)
	}
	loaded, err := store.Load(ctx, "run-yaml")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(loaded, snap) {
		t.Errorf("stored %+v, want %+v", loaded, snap)
	}

	if _, err := store.ImportYAML(ctx, []byte("run_id: [")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := store.ImportYAML(ctx, []byte("opened_instances: [a]\n")); err == nil {
		t.Error("snapshot without run id should be rejected")
	}
}
