package activity

import "time"

// Activity is one append-only entry in the customer activity feed.
type Activity struct {
	ID          string         `json:"id"`
	OwnerID     string         `json:"ownerId"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// TypeDocumentProcessed marks a document that reached a terminal state.
const TypeDocumentProcessed = "document_processed"
