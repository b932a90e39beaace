package repository

import (
	"context"
	"database/sql"
	"errors"
)

// SnapshotRepo stores whole-collection payloads under a key.
type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo { return &SnapshotRepo{db: db} }

// Get returns the snapshot for key, or nil when none was ever written.
func (r *SnapshotRepo) Get(ctx context.Context, key string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT key, payload, updated_at FROM snapshots WHERE key = ?`, key)
	var s Snapshot
	if err := row.Scan(&s.Key, &s.Payload, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Put replaces the payload stored under key.
func (r *SnapshotRepo) Put(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO snapshots(key, payload, updated_at)
	VALUES (?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(key) DO UPDATE SET
	 payload=excluded.payload,
	 updated_at=CURRENT_TIMESTAMP;
	`, key, payload)
	return err
}
