package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

type ValidationRepository interface {
	Insert(result *models.ValidationResult, tx *sqlx.Tx) (string, error)
	GetLatestByApplication(applicationID string) (*models.ValidationResult, bool, error)
	ListByApplication(applicationID string) ([]models.ValidationResult, error)
	ListRecentRejections(maxScore float64, limit int) ([]models.ValidationResult, error)
}

type ValidationRepositoryImpl struct {
	db *sqlx.DB
}

func NewValidationRepository(db *sqlx.DB) ValidationRepository {
	return &ValidationRepositoryImpl{db: db}
}

func (repo *ValidationRepositoryImpl) Insert(result *models.ValidationResult, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO validation_results (
			application_id, policy, overall_score, decision, photo_score,
			address_score, identity_doc_score, photo_doc_score, issues,
			started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`

	args := []any{
		result.ApplicationID,
		result.Policy,
		result.OverallScore,
		result.Decision,
		result.PhotoScore,
		result.AddressScore,
		result.IdentityDocScore,
		result.PhotoDocScore,
		result.Issues,
		result.StartedAt,
		result.FinishedAt,
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

func (repo *ValidationRepositoryImpl) GetLatestByApplication(applicationID string) (*models.ValidationResult, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var result models.ValidationResult

	query := `
		SELECT * FROM validation_results
		WHERE application_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := repo.db.GetContext(ctx, &result, query, applicationID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &result, true, err
}

// ListRecentRejections surfaces the lowest-scoring automated rejections for
// the fraud-alert view.
func (repo *ValidationRepositoryImpl) ListRecentRejections(maxScore float64, limit int) ([]models.ValidationResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	results := []models.ValidationResult{}

	query := `
		SELECT * FROM validation_results
		WHERE decision = 'rejected' AND overall_score <= $1
		ORDER BY created_at DESC
		LIMIT $2`

	err := repo.db.SelectContext(ctx, &results, query, maxScore, limit)
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (repo *ValidationRepositoryImpl) ListByApplication(applicationID string) ([]models.ValidationResult, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	results := []models.ValidationResult{}

	query := `
		SELECT * FROM validation_results
		WHERE application_id = $1
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &results, query, applicationID)
	if err != nil {
		return nil, err
	}

	return results, nil
}
