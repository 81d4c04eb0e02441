package documents

import (
	"context"
	"time"

	"claims-backend/internal/analyzer"
)

// DocumentsRepo defines persistence operations for documents.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, documentID string) (Document, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Document, error)
	ListNonTerminal(ctx context.Context) ([]Document, error)
	SetStatus(ctx context.Context, documentID, status string) error
	UpdateResult(ctx context.Context, documentID, status string, extractedText *string, analysis *analyzer.Analysis, processedAt time.Time) error
	Delete(ctx context.Context, documentID string) (bool, error)
}
