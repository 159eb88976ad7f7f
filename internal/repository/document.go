package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

type DocumentRepository interface {
	Insert(document *models.Document, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.Document, bool, error)
	ListByApplication(applicationID string) ([]models.Document, error)
	GetLatestByType(applicationID, documentType string) (*models.Document, bool, error)
	UpdateVerification(id, status, notes string, tx *sqlx.Tx) error
	UpdateOcrData(id string, data []byte) error
	UpdateFileURL(id, url string) error
}

type DocumentRepositoryImpl struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

func (repo *DocumentRepositoryImpl) Insert(document *models.Document, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO documents (
			application_id, document_type, document_name, file_path, file_url,
			file_size, mime_type, ocr_extracted_data, verification_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	args := []any{
		document.ApplicationID,
		document.DocumentType,
		document.DocumentName,
		document.FilePath,
		document.FileURL,
		document.FileSize,
		document.MimeType,
		document.OcrExtractedData,
		models.DocumentStatusPending,
	}

	if tx != nil {
		err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query, args...)
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *DocumentRepositoryImpl) GetOne(id string) (*models.Document, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var document models.Document

	query := `SELECT * FROM documents WHERE id = $1`

	err := repo.db.GetContext(ctx, &document, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &document, true, err
}

func (repo *DocumentRepositoryImpl) ListByApplication(applicationID string) ([]models.Document, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	documents := []models.Document{}

	query := `
		SELECT * FROM documents
		WHERE application_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &documents, query, applicationID)
	if err != nil {
		return nil, err
	}

	return documents, nil
}

// GetLatestByType returns the most recently uploaded document of a type.
// Resubmissions add new rows rather than replacing old ones, so only the
// newest upload counts towards validation.
func (repo *DocumentRepositoryImpl) GetLatestByType(applicationID, documentType string) (*models.Document, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var document models.Document

	query := `
		SELECT * FROM documents
		WHERE application_id = $1 AND document_type = $2
		ORDER BY created_at DESC
		LIMIT 1`

	err := repo.db.GetContext(ctx, &document, query, applicationID, documentType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &document, true, err
}

func (repo *DocumentRepositoryImpl) UpdateVerification(id, status, notes string, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE documents SET
			verification_status = $1,
			verification_notes = NULLIF($2, ''),
			verified_at = $3
		WHERE id = $4`

	args := []any{status, notes, time.Now(), id}

	if tx != nil {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query, args...)
	return err
}

func (repo *DocumentRepositoryImpl) UpdateFileURL(id, url string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE documents SET file_url = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, url, id)
	return err
}

func (repo *DocumentRepositoryImpl) UpdateOcrData(id string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE documents SET ocr_extracted_data = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, data, id)
	return err
}
