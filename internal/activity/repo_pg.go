package activity

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// PGRecorder persists activity entries in Postgres.
type PGRecorder struct {
	db *sql.DB
}

// NewPGRecorder constructs a PGRecorder.
func NewPGRecorder(db *sql.DB) *PGRecorder {
	return &PGRecorder{db: db}
}

// Append stores one entry.
func (r *PGRecorder) Append(ctx context.Context, entry Activity) error {
	var metadata []byte
	if entry.Metadata != nil {
		b, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal activity metadata: %w", err)
		}
		metadata = b
	}

	const q = `
		INSERT INTO activities (id, owner_id, type, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := r.db.ExecContext(ctx, q,
		entry.ID,
		entry.OwnerID,
		entry.Type,
		entry.Description,
		metadata,
		entry.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListByOwner returns entries for an owner, newest first.
func (r *PGRecorder) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Activity, error) {
	q := `
		SELECT id, owner_id, type, description, metadata, created_at
		FROM activities
		WHERE owner_id = $1
		ORDER BY created_at DESC, id DESC
	`
	args := []any{ownerID}
	if limit > 0 {
		q += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	out := make([]Activity, 0)
	for rows.Next() {
		var (
			entry    Activity
			metadata []byte
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.Type,
			&entry.Description,
			&metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
				return nil, fmt.Errorf("decode activity metadata: %w", err)
			}
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activities: %w", err)
	}
	return out, nil
}

var _ Recorder = (*PGRecorder)(nil)
