package documents

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"claims-backend/internal/analyzer"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateInsertsPendingStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	doc := Document{
		ID:           "doc-1",
		OwnerID:      "cust-1",
		StorageRef:   "abc/def.pdf",
		OriginalName: "policy.pdf",
		MediaType:    "application/pdf",
		ByteSize:     2048,
		DocumentType: "policy",
		Tags:         []string{"policy"},
		UploadedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.OwnerID,
			doc.StorageRef,
			doc.OriginalName,
			doc.MediaType,
			doc.ByteSize,
			doc.DocumentType,
			StatusPending,
			nil,              // extracted_text
			nil,              // analysis
			sqlmock.AnyArg(), // tags
			doc.UploadedAt,
			nil, // processed_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetByIDScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	uploadedAt := time.Now().UTC()
	processedAt := uploadedAt.Add(2 * time.Second)
	analysisJSON := []byte(`{"summary":"Policy for Maui property","keyPoints":["wind coverage"],"relevantToInsurance":true,"extractedFields":{},"riskFactors":[],"recommendations":[]}`)

	rows := sqlmock.NewRows([]string{
		"id", "owner_id", "storage_ref", "original_name", "media_type",
		"byte_size", "document_type", "status", "extracted_text", "analysis",
		"tags", "uploaded_at", "processed_at",
	}).AddRow(
		"doc-1", "cust-1", "abc/def.pdf", "policy.pdf", "application/pdf",
		int64(2048), "policy", StatusProcessed, "full text", analysisJSON,
		[]byte(`["policy","maui"]`), uploadedAt, processedAt,
	)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.Status != StatusProcessed {
		t.Fatalf("expected processed, got %s", doc.Status)
	}
	if doc.ExtractedText == nil || *doc.ExtractedText != "full text" {
		t.Fatalf("expected extracted text, got %v", doc.ExtractedText)
	}
	if doc.Analysis == nil || doc.Analysis.Summary != "Policy for Maui property" {
		t.Fatalf("expected decoded analysis, got %+v", doc.Analysis)
	}
	if len(doc.Tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", doc.Tags)
	}
	if doc.ProcessedAt == nil || !doc.ProcessedAt.Equal(processedAt) {
		t.Fatalf("expected processedAt %v, got %v", processedAt, doc.ProcessedAt)
	}
}

func TestPGRepoGetByIDMapsMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, err := repo.GetByID(context.Background(), "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoUpdateResultReportsMissingDocument(t *testing.T) {
	repo, mock := newMockRepo(t)

	text := "extracted"
	result := analyzer.Analysis{Summary: "ok"}

	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusProcessed, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateResult(context.Background(), "missing", StatusProcessed, &text, &result, time.Now().UTC())
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteReportsAffectedRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("DELETE FROM documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if !deleted {
		t.Fatalf("expected first delete to report true")
	}

	deleted, err = repo.Delete(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if deleted {
		t.Fatalf("expected second delete to report false")
	}
}
