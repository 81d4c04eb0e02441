package activity

import "context"

// Recorder defines persistence operations for the activity feed.
type Recorder interface {
	Append(ctx context.Context, entry Activity) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]Activity, error)
}
