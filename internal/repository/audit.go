package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

// Audit action types recorded across the system. Handlers and workers pass
// these rather than ad-hoc strings so that report filters stay meaningful.
const (
	AuditActionRegistration   = "registration"
	AuditActionLogin          = "login"
	AuditActionFailedLogin    = "failed_login"
	AuditActionAccountLocked  = "account_locked"
	AuditActionKycSubmission  = "kyc_submission"
	AuditActionDocumentUpload = "document_upload"
	AuditActionValidationRun  = "validation_run"
	AuditActionAdminOverride  = "admin_override"
	AuditActionDocumentReject = "document_reject"
	AuditActionRevalidation   = "revalidation"
)

type AuditFilter struct {
	UserID     string
	ActionType string
	From       time.Time
	To         time.Time
	Limit      int
	Offset     int
}

type AuditRepository interface {
	Insert(log *models.AuditLog, tx *sqlx.Tx) (string, error)
	List(filter AuditFilter) ([]models.AuditLogRow, error)
	CountByAction(from, to time.Time) (map[string]int, error)
	CountConsecutiveFailedLogins(userID string) int
}

type AuditRepositoryImpl struct {
	db *sqlx.DB
}

func NewAuditRepository(db *sqlx.DB) AuditRepository {
	return &AuditRepositoryImpl{db: db}
}

func (repo *AuditRepositoryImpl) Insert(log *models.AuditLog, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO audit_logs (user_id, action_type, entity, entity_id, description, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	args := []any{
		log.UserID,
		log.ActionType,
		log.Entity,
		log.EntityID,
		log.Description,
		log.IpAddress,
		log.UserAgent,
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

func (repo *AuditRepositoryImpl) List(filter AuditFilter) ([]models.AuditLogRow, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.To.IsZero() {
		filter.To = time.Now()
	}

	rows := []models.AuditLogRow{}

	query := `
		SELECT
			l.id, l.created_at, u.username, u.email, l.action_type,
			l.entity, l.entity_id, l.description, l.ip_address
		FROM audit_logs l
		LEFT JOIN users u ON u.id = l.user_id
		WHERE ($1 = '' OR l.user_id::text = $1)
		  AND ($2 = '' OR l.action_type = $2)
		  AND l.created_at >= $3
		  AND l.created_at <= $4
		ORDER BY l.created_at DESC
		LIMIT $5 OFFSET $6`

	err := repo.db.SelectContext(ctx, &rows, query,
		filter.UserID,
		filter.ActionType,
		filter.From,
		filter.To,
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}

	return rows, nil
}

// CountConsecutiveFailedLogins counts the user's most recent login-related
// audit entries and stops at the first success. Three consecutive failures
// lock the account.
func (repo *AuditRepositoryImpl) CountConsecutiveFailedLogins(userID string) int {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var actions []string

	query := `
		SELECT action_type
		FROM audit_logs
		WHERE user_id = $1 AND action_type IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 3`

	err := repo.db.SelectContext(ctx, &actions, query, userID, AuditActionFailedLogin, AuditActionLogin)
	if err != nil {
		return 0
	}

	count := 0
	for _, action := range actions {
		if action != AuditActionFailedLogin {
			break
		}
		count++
	}

	return count
}

func (repo *AuditRepositoryImpl) CountByAction(from, to time.Time) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if to.IsZero() {
		to = time.Now()
	}

	rows := []struct {
		ActionType string `db:"action_type"`
		Count      int    `db:"count"`
	}{}

	query := `
		SELECT action_type, COUNT(*) AS count
		FROM audit_logs
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY action_type`

	err := repo.db.SelectContext(ctx, &rows, query, from, to)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ActionType] = row.Count
	}

	return counts, nil
}
