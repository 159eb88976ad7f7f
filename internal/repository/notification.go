package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

type NotificationRepository interface {
	Insert(notification *models.Notification, tx *sqlx.Tx) (string, error)
	ListByCustomer(customerID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(id string) error
	MarkSent(id string) error
}

type NotificationRepositoryImpl struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (repo *NotificationRepositoryImpl) Insert(notification *models.Notification, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO notifications (customer_id, notification_type, title, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	args := []any{
		notification.CustomerID,
		notification.Type,
		notification.Title,
		notification.Message,
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

func (repo *NotificationRepositoryImpl) ListByCustomer(customerID string, unreadOnly bool) ([]models.Notification, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	notifications := []models.Notification{}

	query := `
		SELECT * FROM notifications
		WHERE customer_id = $1 AND ($2 = false OR is_read = false)
		ORDER BY created_at DESC`

	err := repo.db.SelectContext(ctx, &notifications, query, customerID, unreadOnly)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (repo *NotificationRepositoryImpl) MarkRead(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE notifications SET is_read = true WHERE id = $1`

	_, err := repo.db.ExecContext(ctx, query, id)
	return err
}

func (repo *NotificationRepositoryImpl) MarkSent(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE notifications SET sent_at = $1 WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, time.Now(), id)
	return err
}
