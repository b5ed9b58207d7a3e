// Package letters implements the sea service letter domain: document upload,
// text acquisition, extraction into service periods, duplicate screening, and
// persistence of the letter with its records.
package letters

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/crewledger/seatime/internal/parsing"
	"github.com/crewledger/seatime/internal/records"
)

// Letter represents a processed sea service letter with its extraction audit
// metadata and blob storage reference.
type Letter struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	PageCount   *int      `json:"page_count"`
	StorageKey  string    `json:"storage_key"`

	RawText           string             `json:"raw_text,omitempty"`
	Format            parsing.Format     `json:"format"`
	OverallConfidence parsing.Confidence `json:"overall_confidence"`
	NeedsManualReview bool               `json:"needs_manual_review"`

	ProcessedAt time.Time `json:"processed_at"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the data needed to upload and process a letter.
// Data holds the raw file bytes. Text, when non-empty, is pre-extracted
// letter text and bypasses the OCR service. PageCount is optional and may be
// extracted by the caller for PDF files.
type CreateCommand struct {
	UserID      uuid.UUID
	Data        []byte
	Filename    string
	ContentType string
	Text        string
	PageCount   *int
}

// ProcessResult reports the full outcome of processing one letter. Duplicate
// periods are returned for visibility but never persisted as records.
type ProcessResult struct {
	Letter     *Letter                 `json:"letter"`
	Records    []records.ServiceRecord `json:"records"`
	Duplicates []parsing.ServicePeriod `json:"duplicates,omitempty"`
}

// BatchResult reports the outcome of a single file within a batch upload.
type BatchResult struct {
	Filename string         `json:"filename"`
	Result   *ProcessResult `json:"result,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// RecordStore is the slice of the records domain the letter pipeline needs:
// transactional period persistence and the duplicate guard.
// records.System satisfies it.
type RecordStore interface {
	InsertTx(
		ctx context.Context,
		tx *sql.Tx,
		userID uuid.UUID,
		letterID uuid.UUID,
		period parsing.ServicePeriod,
	) (*records.ServiceRecord, error)

	IsDuplicate(
		ctx context.Context,
		userID uuid.UUID,
		vesselName string,
		signOn, signOff time.Time,
	) (bool, error)
}
