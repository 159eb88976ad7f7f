package models

import (
	"database/sql"
	"time"
)

const (
	ApplicationStatusSubmitted            = "submitted"
	ApplicationStatusUnderReview          = "under_review"
	ApplicationStatusDocumentVerification = "document_verification"
	ApplicationStatusPendingResubmission  = "pending_resubmission"
	ApplicationStatusApproved             = "approved"
	ApplicationStatusRejected             = "rejected"
)

type KycApplication struct {
	ID               string         `db:"id"`
	CustomerID       string         `db:"customer_id"`
	Status           string         `db:"status"`
	SubmissionDate   time.Time      `db:"submission_date"`
	VerificationDate sql.NullTime   `db:"verification_date"`
	VerifiedBy       sql.NullString `db:"verified_by"`
	RejectionReason  sql.NullString `db:"rejection_reason"`
	Notes            sql.NullString `db:"notes"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

// IsTerminal reports whether the application has reached a final decision.
// Admin overrides are refused from terminal states so that an approve cannot
// silently overwrite a reject, or the other way around.
func (a *KycApplication) IsTerminal() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusRejected
}

// ApplicationSummary is the admin console's queue row: the application joined
// with its customer and per-status document counts.
type ApplicationSummary struct {
	ApplicationID   string         `db:"application_id"`
	CustomerID      string         `db:"customer_id"`
	FullName        string         `db:"full_name"`
	Email           string         `db:"email"`
	PhoneNumber     string         `db:"phone_number"`
	Status          string         `db:"status"`
	SubmissionDate  time.Time      `db:"submission_date"`
	DocumentCount   int            `db:"document_count"`
	VerifiedCount   int            `db:"verified_count"`
	RejectedCount   int            `db:"rejected_count"`
	PendingCount    int            `db:"pending_count"`
	Notes           sql.NullString `db:"notes"`
	RejectionReason sql.NullString `db:"rejection_reason"`
	KycStatus       string         `db:"kyc_status"`
}
