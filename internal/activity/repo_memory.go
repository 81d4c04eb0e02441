package activity

import (
	"context"
	"sync"
)

// MemoryRecorder is an in-memory implementation of Recorder.
type MemoryRecorder struct {
	mu   sync.RWMutex
	data map[string][]Activity // ownerID -> entries, append order
}

// NewMemoryRecorder constructs a MemoryRecorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{
		data: make(map[string][]Activity),
	}
}

// Append stores one entry.
func (r *MemoryRecorder) Append(ctx context.Context, entry Activity) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[entry.OwnerID] = append(r.data[entry.OwnerID], entry)
	return nil
}

// ListByOwner returns entries for an owner, newest first.
func (r *MemoryRecorder) ListByOwner(ctx context.Context, ownerID string, limit int) ([]Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.data[ownerID]
	out := make([]Activity, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		out = append(out, entries[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

var _ Recorder = (*MemoryRecorder)(nil)
