package models

import (
	"database/sql"
	"time"
)

const (
	NotificationTypeKycDecision  = "kyc_decision"
	NotificationTypeResubmission = "resubmission_required"
	NotificationTypeWelcome      = "welcome"
)

type Notification struct {
	ID         string       `db:"id"`
	CustomerID string       `db:"customer_id"`
	Type       string       `db:"notification_type"`
	Title      string       `db:"title"`
	Message    string       `db:"message"`
	IsRead     bool         `db:"is_read"`
	SentAt     sql.NullTime `db:"sent_at"`
	CreatedAt  time.Time    `db:"created_at"`
}
