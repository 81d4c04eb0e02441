package documents

import (
	"time"

	"claims-backend/internal/analyzer"
)

// Document lifecycle statuses. A document starts pending, moves to
// processing once the pipeline picks it up, and lands on exactly one
// terminal status.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusProcessed  = "processed"
	StatusFailed     = "failed"
)

// Document represents an uploaded customer document and its processing state.
type Document struct {
	ID            string
	OwnerID       string
	StorageRef    string
	OriginalName  string
	MediaType     string
	ByteSize      int64
	DocumentType  string
	Status        string
	ExtractedText *string
	Analysis      *analyzer.Analysis
	Tags          []string
	UploadedAt    time.Time
	ProcessedAt   *time.Time
}

// Terminal reports whether the document has reached a final status.
func (d Document) Terminal() bool {
	return d.Status == StatusProcessed || d.Status == StatusFailed
}
