package models

import (
	"database/sql"
	"time"
)

// KYC statuses follow the customer through the onboarding lifecycle.
// Registration creates the customer as KycStatusNotSubmitted; the decision
// engine and admin actions move it through the remaining states.
const (
	KycStatusNotSubmitted        = "not_submitted"
	KycStatusSubmitted           = "submitted"
	KycStatusUnderReview         = "under_review"
	KycStatusPendingResubmission = "pending_resubmission"
	KycStatusApproved            = "approved"
	KycStatusRejected            = "rejected"
)

type Customer struct {
	ID            string          `db:"id"`
	UserID        string          `db:"user_id"`
	FirstName     string          `db:"first_name"`
	LastName      string          `db:"last_name"`
	FullName      string          `db:"full_name"`
	DateOfBirth   time.Time       `db:"date_of_birth"`
	Gender        sql.NullString  `db:"gender"`
	MaritalStatus sql.NullString  `db:"marital_status"`
	Address       string          `db:"address"`
	CityTown      string          `db:"city_town"`
	Pincode       string          `db:"pincode"`
	PanCard       sql.NullString  `db:"pan_card"`
	AadharNo      sql.NullString  `db:"aadhar_no"`
	PhoneNumber   string          `db:"phone_number"`
	AnnualIncome  sql.NullFloat64 `db:"annual_income"`
	Occupation    sql.NullString  `db:"occupation"`
	PhotoPath     sql.NullString  `db:"photo_path"`
	KycStatus     string          `db:"kyc_status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

// DeclaredDocumentType reports which identity document the customer claims to
// hold, based on the profile fields they filled in. Customers that declared
// both are treated as PAN-first, matching the onboarding form's field order.
func (c *Customer) DeclaredDocumentType() string {
	if c.PanCard.Valid && c.PanCard.String != "" {
		return "PAN"
	}
	if c.AadharNo.Valid && c.AadharNo.String != "" {
		return "AADHAR"
	}
	return ""
}
