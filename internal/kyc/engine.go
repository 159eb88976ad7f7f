package kyc

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/cache"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/imaging"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
)

// ErrValidationInProgress is returned when another validation run holds the
// lock for the same application.
var ErrValidationInProgress = errors.New("validation already in progress for this application")

const (
	validationLockTTL    = 2 * time.Minute
	validationLockPrefix = "kyc:validation:"
	writeBackTimeout     = 10 * time.Second
)

type Engine struct {
	db       repository.Database
	cache    *cache.Cache
	analyzer *imaging.Analyzer
	policy   Policy
	logger   *slog.Logger

	photoValidator    *PhotoValidator
	documentValidator *DocumentValidator
}

func NewEngine(db repository.Database, cache *cache.Cache, analyzer *imaging.Analyzer, policy Policy, logger *slog.Logger) *Engine {
	return &Engine{
		db:                db,
		cache:             cache,
		analyzer:          analyzer,
		policy:            policy,
		logger:            logger,
		photoValidator:    NewPhotoValidator(analyzer),
		documentValidator: NewDocumentValidator(analyzer),
	}
}

// Run validates one application end to end: it takes the per-application
// lock, scores every artifact, decides under the configured policy, and
// writes all side effects in a single transaction. It always produces a
// decision; provider failures degrade to conservative sub-results rather
// than aborting the run.
func (e *Engine) Run(applicationID, customerID string) (*Summary, error) {
	lockKey := validationLockPrefix + applicationID
	locked, err := e.cache.AcquireLock(lockKey, validationLockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire validation lock: %w", err)
	}
	if !locked {
		return nil, ErrValidationInProgress
	}
	defer func() {
		if err := e.cache.ReleaseLock(lockKey); err != nil {
			e.logger.Error("release validation lock", "key", lockKey, "error", err)
		}
	}()

	startedAt := time.Now()

	customer, found, err := e.db.Customer().GetOne(customerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("customer %s not found", customerID)
	}

	application, found, err := e.db.Application().GetOne(applicationID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("application %s not found", applicationID)
	}

	photoDoc, _, err := e.db.Document().GetLatestByType(applicationID, models.DocumentTypePhoto)
	if err != nil {
		return nil, err
	}
	identityDoc, _, err := e.db.Document().GetLatestByType(applicationID, models.DocumentTypeIdentityProof)
	if err != nil {
		return nil, err
	}

	photoPath := ""
	if customer.PhotoPath.Valid {
		photoPath = customer.PhotoPath.String
	} else if photoDoc != nil {
		photoPath = photoDoc.FilePath
	}

	photoResult := e.photoValidator.Validate(photoPath, true)

	ocrAddress := ""
	if identityDoc != nil {
		if payload, err := identityDoc.Ocr(); err == nil && payload != nil {
			ocrAddress = payload.ExtractedFields["address"]
		}
	}
	addressResult := ValidateAddress(customer, ocrAddress)

	identityResult := e.documentValidator.Validate(identityDoc, customer.DeclaredDocumentType())
	photoDocResult := e.documentValidator.Validate(photoDoc, "")

	gates, faceMatchScore := e.runFaceMatch(photoPath, identityDoc)

	summary := Combine(e.policy, photoResult, addressResult, identityResult, photoDocResult, gates)
	summary.FaceMatchScore = faceMatchScore
	summary.StartedAt = startedAt
	summary.FinishedAt = time.Now()

	if err := e.writeBack(application, customer, identityDoc, photoDoc, &summary); err != nil {
		return nil, fmt.Errorf("persist validation result: %w", err)
	}

	e.logger.Info("kyc validation completed",
		slog.Group("validation",
			"application_id", applicationID,
			"customer_id", customerID,
			"policy", string(summary.Policy),
			"overall_score", summary.OverallScore.StringFixed(2),
			"decision", summary.Decision,
			"issue_count", len(summary.Issues),
		),
	)

	return &summary, nil
}

func (e *Engine) runFaceMatch(photoPath string, identityDoc *models.Document) (Gates, float64) {
	if e.policy != PolicyStrict {
		return Gates{FaceMatched: true, FaceMatchKnown: true}, 0
	}

	if photoPath == "" || identityDoc == nil {
		return Gates{FaceMatchKnown: false}, 0
	}

	score, matched, err := e.analyzer.FaceMatch(photoPath, identityDoc.FilePath)
	if err != nil {
		e.logger.Warn("face match unavailable", "error", err)
		return Gates{FaceMatchKnown: false}, 0
	}

	return Gates{FaceMatched: matched, FaceMatchKnown: true}, score
}

// writeBack commits every side effect of the decision in one transaction:
// the validation result row, the application decision, the customer status,
// per-document statuses from their own sub-results, the audit entry, and
// the customer notification.
func (e *Engine) writeBack(application *models.KycApplication, customer *models.Customer, identityDoc, photoDoc *models.Document, summary *Summary) error {
	issuesJSON, err := json.Marshal(summary.Issues)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeBackTimeout)
	defer cancel()

	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	overallScore, _ := summary.OverallScore.Float64()
	result := &models.ValidationResult{
		ApplicationID:    application.ID,
		Policy:           string(summary.Policy),
		OverallScore:     overallScore,
		Decision:         summary.Decision,
		PhotoScore:       summary.Photo.Score,
		AddressScore:     summary.Address.Score,
		IdentityDocScore: summary.IdentityDoc.Score,
		PhotoDocScore:    summary.PhotoDoc.Score,
		Issues:           issuesJSON,
		StartedAt:        summary.StartedAt,
		FinishedAt:       summary.FinishedAt,
	}

	if _, err := e.db.Validation().Insert(result, tx); err != nil {
		return err
	}

	rejectionReason := ""
	if summary.Decision == DecisionRejected {
		rejectionReason = "Automated KYC validation failed"
	}
	if err := e.db.Application().RecordDecision(application.ID, summary.Decision, "", rejectionReason, summary.RenderNotes(), tx); err != nil {
		return err
	}

	customerStatus := models.KycStatusApproved
	if summary.Decision == DecisionRejected {
		customerStatus = models.KycStatusRejected
	}
	if err := e.db.Customer().UpdateKycStatus(customer.ID, customerStatus, tx); err != nil {
		return err
	}

	// Each document's status follows its own sub-validator, not the overall
	// decision.
	if identityDoc != nil {
		if err := e.updateDocumentStatus(identityDoc, summary.IdentityDoc, tx); err != nil {
			return err
		}
	}
	if photoDoc != nil {
		if err := e.updateDocumentStatus(photoDoc, summary.PhotoDoc, tx); err != nil {
			return err
		}
	}

	audit := &models.AuditLog{
		ActionType:  repository.AuditActionValidationRun,
		Entity:      "kyc_application",
		EntityID:    sql.NullString{String: application.ID, Valid: true},
		Description: fmt.Sprintf("Automated validation scored %s%%, decision %s", summary.OverallScore.StringFixed(2), summary.Decision),
	}
	if _, err := e.db.Audit().Insert(audit, tx); err != nil {
		return err
	}

	notification := &models.Notification{
		CustomerID: customer.ID,
		Type:       models.NotificationTypeKycDecision,
		Title:      "KYC Verification Update",
		Message:    fmt.Sprintf("Your KYC application has been %s.", summary.Decision),
	}
	if _, err := e.db.Notification().Insert(notification, tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (e *Engine) updateDocumentStatus(document *models.Document, result CheckResult, tx *sqlx.Tx) error {
	status := models.DocumentStatusVerified
	notes := "Auto-verified by KYC validation"
	if !result.Valid {
		status = models.DocumentStatusRejected
		notes = fmt.Sprintf("Rejected by KYC validation. Score: %.2f%%", result.Score)
	}

	return e.db.Document().UpdateVerification(document.ID, status, notes, tx)
}
