package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"strings"
	"time"

	"github.com/google/uuid"

	"claims-backend/internal/activity"
	"claims-backend/internal/analyzer"
	"claims-backend/internal/extract"
	"claims-backend/internal/shared/metrics"
	"claims-backend/internal/shared/storage/object"
	"claims-backend/internal/shared/telemetry"
)

// Service contains the intake pipeline for customer documents. Submit runs
// the full lifecycle synchronously: validate, store, extract, analyze, and
// record a terminal status before returning.
type Service struct {
	Store      object.ObjectStore
	Repo       DocumentsRepo
	Dispatcher *extract.Dispatcher
	Analyzer   analyzer.Analyzer
	Activity   activity.Recorder

	MaxUploadBytes    int64
	AllowedMediaTypes []string
}

// SubmitInput carries one upload into the pipeline.
type SubmitInput struct {
	OwnerID      string
	FileName     string
	MediaType    string
	DocumentType string
	Tags         []string
	Body         io.Reader
}

// Submit validates and persists an upload, then processes it to a terminal
// status. Extraction and analysis failures are absorbed; only storage or
// repository errors fail the document.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Document, error) {
	if in.OwnerID == "" || in.FileName == "" || in.DocumentType == "" {
		return Document{}, ErrInvalidInput
	}

	mediaType := normalizeMediaType(in.MediaType)
	if !s.allowed(mediaType) {
		return Document{}, ErrUnsupportedMediaType
	}

	data, err := s.readBounded(in.Body)
	if err != nil {
		return Document{}, err
	}

	storageRef, size, _, err := s.Store.Put(ctx, in.OwnerID, in.FileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:           uuid.NewString(),
		OwnerID:      in.OwnerID,
		StorageRef:   storageRef,
		OriginalName: in.FileName,
		MediaType:    mediaType,
		ByteSize:     size,
		DocumentType: in.DocumentType,
		Status:       StatusPending,
		Tags:         in.Tags,
		UploadedAt:   time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		if delErr := s.Store.Delete(ctx, storageRef); delErr != nil {
			telemetry.Warn("documents.orphan_blob", map[string]any{
				"storage_ref": storageRef,
				"error":       delErr.Error(),
			})
		}
		return Document{}, err
	}

	metrics.IncDocumentSubmitted()
	telemetry.Info("documents.submitted", map[string]any{
		"document_id": doc.ID,
		"owner_id":    doc.OwnerID,
		"media_type":  doc.MediaType,
		"byte_size":   doc.ByteSize,
	})

	return s.process(ctx, doc, data)
}

// process drives a pending document to a terminal status.
func (s *Service) process(ctx context.Context, doc Document, data []byte) (Document, error) {
	started := time.Now()

	if err := s.Repo.SetStatus(ctx, doc.ID, StatusProcessing); err != nil {
		return s.fail(ctx, doc, err)
	}
	doc.Status = StatusProcessing

	text := s.Dispatcher.Dispatch(ctx, doc.MediaType, data)

	result, err := s.Analyzer.Analyze(ctx, text, doc.DocumentType)
	if err != nil {
		return s.fail(ctx, doc, err)
	}
	result = analyzer.Normalize(result)

	processedAt := time.Now().UTC()
	if err := s.Repo.UpdateResult(ctx, doc.ID, StatusProcessed, &text, &result, processedAt); err != nil {
		return s.fail(ctx, doc, err)
	}

	doc.Status = StatusProcessed
	doc.ExtractedText = &text
	doc.Analysis = &result
	doc.ProcessedAt = &processedAt

	s.recordActivity(ctx, doc, result)

	metrics.IncDocumentProcessed()
	metrics.ObserveProcessingDurationMs(float64(time.Since(started).Milliseconds()))
	telemetry.Info("documents.processed", map[string]any{
		"document_id": doc.ID,
		"owner_id":    doc.OwnerID,
		"duration_ms": time.Since(started).Milliseconds(),
	})

	return doc, nil
}

// fail marks the terminal failed status and reports the fatal error.
func (s *Service) fail(ctx context.Context, doc Document, cause error) (Document, error) {
	processedAt := time.Now().UTC()
	if err := s.Repo.UpdateResult(ctx, doc.ID, StatusFailed, doc.ExtractedText, nil, processedAt); err != nil {
		telemetry.Error("documents.fail_transition", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
	} else {
		doc.Status = StatusFailed
		doc.ProcessedAt = &processedAt
	}

	metrics.IncDocumentFailed()
	telemetry.Error("documents.failed", map[string]any{
		"document_id": doc.ID,
		"owner_id":    doc.OwnerID,
		"error":       cause.Error(),
	})
	return doc, cause
}

func (s *Service) recordActivity(ctx context.Context, doc Document, result analyzer.Analysis) {
	if s.Activity == nil {
		return
	}
	entry := activity.Activity{
		ID:          uuid.NewString(),
		OwnerID:     doc.OwnerID,
		Type:        activity.TypeDocumentProcessed,
		Description: "Processed document: " + doc.OriginalName,
		Metadata: map[string]any{
			"documentId":   doc.ID,
			"documentType": doc.DocumentType,
			"byteSize":     doc.ByteSize,
			"summary":      result.Summary,
		},
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Activity.Append(ctx, entry); err != nil {
		telemetry.Warn("documents.activity_append", map[string]any{
			"document_id": doc.ID,
			"error":       err.Error(),
		})
	}
}

// Get returns a document by ID.
func (s *Service) Get(ctx context.Context, documentID string) (Document, error) {
	if documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, documentID)
}

// List returns documents for an owner, newest upload first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Document, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

// Delete removes a document and releases its stored bytes. The first call
// for an existing document returns true; later calls return false.
func (s *Service) Delete(ctx context.Context, documentID string) (bool, error) {
	if documentID == "" {
		return false, ErrInvalidInput
	}

	doc, err := s.Repo.GetByID(ctx, documentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	if err := s.Store.Delete(ctx, doc.StorageRef); err != nil {
		return false, err
	}

	deleted, err := s.Repo.Delete(ctx, documentID)
	if err != nil {
		return false, err
	}
	if deleted {
		telemetry.Info("documents.deleted", map[string]any{
			"document_id": documentID,
			"owner_id":    doc.OwnerID,
		})
	}
	return deleted, nil
}

func (s *Service) allowed(mediaType string) bool {
	if mediaType == "" {
		return false
	}
	for _, allowed := range s.AllowedMediaTypes {
		if mediaType == strings.ToLower(allowed) {
			return true
		}
	}
	return false
}

func (s *Service) readBounded(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, ErrInvalidInput
	}
	max := s.MaxUploadBytes
	if max <= 0 {
		max = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, ErrPayloadTooLarge
	}
	return data, nil
}

func normalizeMediaType(raw string) string {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(raw); err == nil {
		return parsed
	}
	if i := strings.Index(raw, ";"); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	return raw
}
