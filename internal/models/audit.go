package models

import (
	"database/sql"
	"time"
)

type AuditLog struct {
	ID          string         `db:"id"`
	UserID      sql.NullString `db:"user_id"`
	ActionType  string         `db:"action_type"`
	Entity      string         `db:"entity"`
	EntityID    sql.NullString `db:"entity_id"`
	Description string         `db:"description"`
	IpAddress   sql.NullString `db:"ip_address"`
	UserAgent   sql.NullString `db:"user_agent"`
	CreatedAt   time.Time      `db:"created_at"`
}

// AuditLogRow is the reporting view of an audit entry, joined with the acting
// user for export and display.
type AuditLogRow struct {
	ID          string         `db:"id"`
	CreatedAt   time.Time      `db:"created_at"`
	Username    sql.NullString `db:"username"`
	Email       sql.NullString `db:"email"`
	ActionType  string         `db:"action_type"`
	Entity      string         `db:"entity"`
	EntityID    sql.NullString `db:"entity_id"`
	Description string         `db:"description"`
	IpAddress   sql.NullString `db:"ip_address"`
}
