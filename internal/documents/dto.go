package documents

import (
	"time"

	"claims-backend/internal/analyzer"
)

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID    string             `json:"documentId"`
	OwnerID       string             `json:"ownerId"`
	FileName      string             `json:"fileName"`
	MediaType     string             `json:"mediaType"`
	SizeBytes     int64              `json:"sizeBytes"`
	DocumentType  string             `json:"documentType"`
	Status        string             `json:"status"`
	ExtractedText *string            `json:"extractedText,omitempty"`
	Analysis      *analyzer.Analysis `json:"analysis,omitempty"`
	Tags          []string           `json:"tags,omitempty"`
	UploadedAt    time.Time          `json:"uploadedAt"`
	ProcessedAt   *time.Time         `json:"processedAt,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:    doc.ID,
		OwnerID:       doc.OwnerID,
		FileName:      doc.OriginalName,
		MediaType:     doc.MediaType,
		SizeBytes:     doc.ByteSize,
		DocumentType:  doc.DocumentType,
		Status:        doc.Status,
		ExtractedText: doc.ExtractedText,
		Analysis:      doc.Analysis,
		Tags:          doc.Tags,
		UploadedAt:    doc.UploadedAt,
		ProcessedAt:   doc.ProcessedAt,
	}
}
