package models

import (
	"encoding/json"
	"time"
)

// ValidationResult is the persisted outcome of one decision-engine run.
// The numeric breakdown lives here as typed columns; the human-readable
// summary written into the application notes is rendered from this record
// and is never parsed back.
type ValidationResult struct {
	ID               string    `db:"id"`
	ApplicationID    string    `db:"application_id"`
	Policy           string    `db:"policy"`
	OverallScore     float64   `db:"overall_score"`
	Decision         string    `db:"decision"`
	PhotoScore       float64   `db:"photo_score"`
	AddressScore     float64   `db:"address_score"`
	IdentityDocScore float64   `db:"identity_doc_score"`
	PhotoDocScore    float64   `db:"photo_doc_score"`
	Issues           []byte    `db:"issues"`
	StartedAt        time.Time `db:"started_at"`
	FinishedAt       time.Time `db:"finished_at"`
	CreatedAt        time.Time `db:"created_at"`
}

func (v *ValidationResult) IssueList() ([]string, error) {
	if len(v.Issues) == 0 {
		return nil, nil
	}

	var issues []string
	if err := json.Unmarshal(v.Issues, &issues); err != nil {
		return nil, err
	}

	return issues, nil
}
