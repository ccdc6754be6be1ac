package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"grimdelve/internal/encounter"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a run.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// RunInfo describes a stored snapshot without decoding it.
type RunInfo struct {
	RunID        string
	OpenedCount  int
	ActiveBosses int
	SavedAt      time.Time
}

// SnapshotStore keeps one registry snapshot per run id.
type SnapshotStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db, now: time.Now}
}

// Save writes the snapshot, replacing any earlier one for the same run.
func (s *SnapshotStore) Save(ctx context.Context, snap encounter.Snapshot) error {
	if snap.RunID == "" {
		return errors.New("snapshot has no run id")
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	query := `
		INSERT INTO snapshots (run_id, payload, opened_count, active_bosses, saved_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			payload=excluded.payload,
			opened_count=excluded.opened_count,
			active_bosses=excluded.active_bosses,
			saved_at=excluded.saved_at
	`
	_, err = s.db.ExecContext(ctx, query,
		snap.RunID, string(payload), len(snap.OpenedInstances), len(snap.ActiveBosses), s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", snap.RunID, err)
	}
	return nil
}

// Load reads the snapshot for runID.
func (s *SnapshotStore) Load(ctx context.Context, runID string) (encounter.Snapshot, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE run_id = ?`, runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return encounter.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, runID)
	}
	if err != nil {
		return encounter.Snapshot{}, fmt.Errorf("failed to load snapshot %s: %w", runID, err)
	}

	var snap encounter.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return encounter.Snapshot{}, fmt.Errorf("failed to decode snapshot %s: %w", runID, err)
	}
	return snap, nil
}

// ImportYAML stores a snapshot exported as YAML and returns it.
func (s *SnapshotStore) ImportYAML(ctx context.Context, data []byte) (encounter.Snapshot, error) {
	snap, err := encounter.ParseSnapshotYAML(data)
	if err != nil {
		return encounter.Snapshot{}, err
	}
	if err := s.Save(ctx, snap); err != nil {
		return encounter.Snapshot{}, err
	}
	return snap, nil
}

// Delete removes the snapshot for runID. Deleting a missing run is not an
// error.
func (s *SnapshotStore) Delete(ctx context.Context, runID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("failed to delete snapshot %s: %w", runID, err)
	}
	return nil
}

// ListRuns returns stored runs, newest first.
func (s *SnapshotStore) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, opened_count, active_bosses, saved_at FROM snapshots ORDER BY saved_at DESC, run_id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var savedAt int64
		if err := rows.Scan(&info.RunID, &info.OpenedCount, &info.ActiveBosses, &savedAt); err != nil {
			return nil, err
		}
		info.SavedAt = time.UnixMilli(savedAt).UTC()
		runs = append(runs, info)
	}
	return runs, rows.Err()
}
