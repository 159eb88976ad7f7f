package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

const (
	DocumentTypePhoto         = "photo"
	DocumentTypeIdentityProof = "identity_proof"

	DocumentStatusPending  = "pending"
	DocumentStatusVerified = "verified"
	DocumentStatusRejected = "rejected"
)

type Document struct {
	ID                 string         `db:"id"`
	ApplicationID      string         `db:"application_id"`
	DocumentType       string         `db:"document_type"`
	DocumentName       string         `db:"document_name"`
	FilePath           string         `db:"file_path"`
	FileURL            sql.NullString `db:"file_url"`
	FileSize           int64          `db:"file_size"`
	MimeType           string         `db:"mime_type"`
	OcrExtractedData   []byte         `db:"ocr_extracted_data"`
	VerificationStatus string         `db:"verification_status"`
	VerificationNotes  sql.NullString `db:"verification_notes"`
	VerifiedAt         sql.NullTime   `db:"verified_at"`
	CreatedAt          time.Time      `db:"created_at"`
}

// OcrPayload is the structured OCR result stored against a document row.
// It mirrors the OCR provider's output so the decision engine never has to
// re-run extraction.
type OcrPayload struct {
	IsValid           bool              `json:"is_valid"`
	Confidence        float64           `json:"confidence"`
	CompletenessScore float64           `json:"completeness_score"`
	DetectedType      string            `json:"detected_type,omitempty"`
	MissingFields     []string          `json:"missing_fields,omitempty"`
	ExtractedFields   map[string]string `json:"extracted_fields,omitempty"`
}

func (d *Document) Ocr() (*OcrPayload, error) {
	if len(d.OcrExtractedData) == 0 {
		return nil, nil
	}

	var payload OcrPayload
	if err := json.Unmarshal(d.OcrExtractedData, &payload); err != nil {
		return nil, err
	}

	return &payload, nil
}
