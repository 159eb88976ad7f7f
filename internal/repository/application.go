package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

type ApplicationRepository interface {
	Insert(application *models.KycApplication, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.KycApplication, bool, error)
	GetLatestByCustomer(customerID string) (*models.KycApplication, bool, error)
	GetOpenByCustomer(customerID string) (*models.KycApplication, bool, error)
	ListSummaries(status string, limit, offset int) ([]models.ApplicationSummary, error)
	CountByStatus() (map[string]int, error)
	UpdateStatus(id, status string, tx *sqlx.Tx) error
	RecordDecision(id, status, verifiedBy, rejectionReason, notes string, tx *sqlx.Tx) error
	AppendNotes(id, notes string, tx *sqlx.Tx) error
}

type ApplicationRepositoryImpl struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

func (repo *ApplicationRepositoryImpl) Insert(application *models.KycApplication, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO kyc_applications (customer_id, status, submission_date)
		VALUES ($1, $2, $3)
		RETURNING id`

	args := []any{
		application.CustomerID,
		models.ApplicationStatusSubmitted,
		time.Now(),
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

func (repo *ApplicationRepositoryImpl) GetOne(id string) (*models.KycApplication, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var application models.KycApplication

	query := `SELECT * FROM kyc_applications WHERE id = $1`

	err := repo.db.GetContext(ctx, &application, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &application, true, err
}

func (repo *ApplicationRepositoryImpl) GetLatestByCustomer(customerID string) (*models.KycApplication, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var application models.KycApplication

	query := `
		SELECT * FROM kyc_applications
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := repo.db.GetContext(ctx, &application, query, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &application, true, err
}

// GetOpenByCustomer returns the customer's in-flight application, if any.
// A customer can only have one application outside the terminal states.
func (repo *ApplicationRepositoryImpl) GetOpenByCustomer(customerID string) (*models.KycApplication, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var application models.KycApplication

	query := `
		SELECT * FROM kyc_applications
		WHERE customer_id = $1 AND status NOT IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1`

	err := repo.db.GetContext(ctx, &application, query,
		customerID,
		models.ApplicationStatusApproved,
		models.ApplicationStatusRejected,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &application, true, err
}

func (repo *ApplicationRepositoryImpl) ListSummaries(status string, limit, offset int) ([]models.ApplicationSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	summaries := []models.ApplicationSummary{}

	query := `
		SELECT
			a.id AS application_id,
			c.id AS customer_id,
			c.full_name,
			u.email,
			c.phone_number,
			a.status,
			a.submission_date,
			a.notes,
			a.rejection_reason,
			c.kyc_status,
			COUNT(d.id) AS document_count,
			COUNT(d.id) FILTER (WHERE d.verification_status = 'verified') AS verified_count,
			COUNT(d.id) FILTER (WHERE d.verification_status = 'rejected') AS rejected_count,
			COUNT(d.id) FILTER (WHERE d.verification_status = 'pending') AS pending_count
		FROM kyc_applications a
		JOIN customers c ON c.id = a.customer_id
		JOIN users u ON u.id = c.user_id
		LEFT JOIN documents d ON d.application_id = a.id
		WHERE ($1 = '' OR a.status = $1)
		GROUP BY a.id, c.id, u.email
		ORDER BY a.submission_date DESC
		LIMIT $2 OFFSET $3`

	err := repo.db.SelectContext(ctx, &summaries, query, status, limit, offset)
	if err != nil {
		return nil, err
	}

	return summaries, nil
}

func (repo *ApplicationRepositoryImpl) CountByStatus() (map[string]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}

	query := `SELECT status, COUNT(*) AS count FROM kyc_applications GROUP BY status`

	err := repo.db.SelectContext(ctx, &rows, query)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

func (repo *ApplicationRepositoryImpl) UpdateStatus(id, status string, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE kyc_applications SET status = $1, updated_at = now() WHERE id = $2`

	if tx != nil {
		_, err := tx.ExecContext(ctx, query, status, id)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}

// RecordDecision stamps a final or intermediate decision on the application.
// rejectionReason and notes may be empty; empty values clear nothing, they are
// written as NULL only when the decision is an approval.
func (repo *ApplicationRepositoryImpl) RecordDecision(id, status, verifiedBy, rejectionReason, notes string, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE kyc_applications SET
			status = $1,
			verification_date = $2,
			verified_by = NULLIF($3, ''),
			rejection_reason = NULLIF($4, ''),
			notes = NULLIF($5, ''),
			updated_at = now()
		WHERE id = $6`

	args := []any{status, time.Now(), verifiedBy, rejectionReason, notes, id}

	if tx != nil {
		_, err := tx.ExecContext(ctx, query, args...)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query, args...)
	return err
}

func (repo *ApplicationRepositoryImpl) AppendNotes(id, notes string, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE kyc_applications SET
			notes = TRIM(BOTH E'\n' FROM COALESCE(notes, '') || E'\n' || $1),
			updated_at = now()
		WHERE id = $2`

	if tx != nil {
		_, err := tx.ExecContext(ctx, query, notes, id)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query, notes, id)
	return err
}
