package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"claims-backend/internal/analyzer"
)

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const documentColumns = `id, owner_id, storage_ref, original_name, media_type, byte_size, document_type, status, extracted_text, analysis, tags, uploaded_at, processed_at`

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    owner_id,
    storage_ref,
    original_name,
    media_type,
    byte_size,
    document_type,
    status,
    extracted_text,
    analysis,
    tags,
    uploaded_at,
    processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	status := doc.Status
	if status == "" {
		status = StatusPending
	}

	extracted := nullString(doc.ExtractedText)

	analysisJSON, err := marshalAnalysis(doc.Analysis)
	if err != nil {
		return err
	}
	tagsJSON, err := marshalTags(doc.Tags)
	if err != nil {
		return err
	}

	var processedAt sql.NullTime
	if doc.ProcessedAt != nil {
		processedAt = sql.NullTime{Time: *doc.ProcessedAt, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.OwnerID,
		doc.StorageRef,
		doc.OriginalName,
		doc.MediaType,
		doc.ByteSize,
		doc.DocumentType,
		status,
		extracted,
		analysisJSON,
		tagsJSON,
		doc.UploadedAt,
		processedAt,
	)
	return err
}

// GetByID fetches a document by ID.
func (r *PGRepo) GetByID(ctx context.Context, documentID string) (Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE id = $1
LIMIT 1`
	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, documentID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListByOwner lists documents for an owner, newest upload first.
func (r *PGRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE owner_id = $1
ORDER BY uploaded_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// ListNonTerminal returns documents still pending or processing.
func (r *PGRepo) ListNonTerminal(ctx context.Context) ([]Document, error) {
	query := `
SELECT ` + documentColumns + `
FROM documents
WHERE status IN ($1, $2)
ORDER BY uploaded_at ASC`

	rows, err := r.DB.QueryContext(ctx, query, StatusPending, StatusProcessing)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// SetStatus updates the lifecycle status of a document.
func (r *PGRepo) SetStatus(ctx context.Context, documentID, status string) error {
	const query = `
UPDATE documents
SET status = $1
WHERE id = $2`
	res, err := r.DB.ExecContext(ctx, query, status, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateResult records the terminal outcome of processing.
func (r *PGRepo) UpdateResult(ctx context.Context, documentID, status string, extractedText *string, analysis *analyzer.Analysis, processedAt time.Time) error {
	const query = `
UPDATE documents
SET status = $1, extracted_text = $2, analysis = $3, processed_at = $4
WHERE id = $5`

	analysisJSON, err := marshalAnalysis(analysis)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, query, status, nullString(extractedText), analysisJSON, processedAt, documentID)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a document. Returns false when no record existed.
func (r *PGRepo) Delete(ctx context.Context, documentID string) (bool, error) {
	const query = `DELETE FROM documents WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, documentID)
	if err != nil {
		return false, err
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var (
		doc          Document
		extracted    sql.NullString
		analysisJSON []byte
		tagsJSON     []byte
		processedAt  sql.NullTime
	)
	if err := row.Scan(
		&doc.ID,
		&doc.OwnerID,
		&doc.StorageRef,
		&doc.OriginalName,
		&doc.MediaType,
		&doc.ByteSize,
		&doc.DocumentType,
		&doc.Status,
		&extracted,
		&analysisJSON,
		&tagsJSON,
		&doc.UploadedAt,
		&processedAt,
	); err != nil {
		return Document{}, err
	}
	if extracted.Valid {
		doc.ExtractedText = &extracted.String
	}
	if len(analysisJSON) > 0 {
		var a analyzer.Analysis
		if err := json.Unmarshal(analysisJSON, &a); err != nil {
			return Document{}, fmt.Errorf("decode document analysis: %w", err)
		}
		doc.Analysis = &a
	}
	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &doc.Tags); err != nil {
			return Document{}, fmt.Errorf("decode document tags: %w", err)
		}
	}
	if processedAt.Valid {
		doc.ProcessedAt = &processedAt.Time
	}
	return doc, nil
}

func marshalAnalysis(a *analyzer.Analysis) ([]byte, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal document analysis: %w", err)
	}
	return b, nil
}

func marshalTags(tags []string) ([]byte, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("marshal document tags: %w", err)
	}
	return b, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ DocumentsRepo = (*PGRepo)(nil)
