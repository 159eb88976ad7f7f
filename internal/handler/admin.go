package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/context"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/ocr"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/request"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/response"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/stream"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/validator"
)

type AdminHandler struct {
	DB repository.Database

	Ocr        *ocr.Processor
	Kafka      *stream.KafkaStream
	Helper     *helper.HelperRepository
	ErrHandler *errHandler.ErrorHandler
}

func NewAdminHandler(handler *AdminHandler) *AdminHandler {
	return &AdminHandler{
		DB:         handler.DB,
		Ocr:        handler.Ocr,
		Kafka:      handler.Kafka,
		Helper:     handler.Helper,
		ErrHandler: handler.ErrHandler,
	}
}

type ApplicationSummaryResponse struct {
	ApplicationID  string `json:"application_id"`
	CustomerID     string `json:"customer_id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phone_number"`
	Status         string `json:"status"`
	KycStatus      string `json:"kyc_status"`
	SubmissionDate string `json:"submission_date"`
	DocumentCount  int    `json:"document_count"`
	VerifiedCount  int    `json:"verified_count"`
	RejectedCount  int    `json:"rejected_count"`
	PendingCount   int    `json:"pending_count"`
}

func (h *AdminHandler) HandlePendingApplications(w http.ResponseWriter, r *http.Request) {
	queryValues := retrieveUrlQueryValues(r)

	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.ApplicationStatusUnderReview
	}

	summaries, err := h.DB.Application().ListSummaries(status, queryValues.Limit, queryValues.Offset)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]ApplicationSummaryResponse, len(summaries))
	for i, summary := range summaries {
		data[i] = ApplicationSummaryResponse{
			ApplicationID:  summary.ApplicationID,
			CustomerID:     summary.CustomerID,
			FullName:       summary.FullName,
			Email:          summary.Email,
			PhoneNumber:    summary.PhoneNumber,
			Status:         summary.Status,
			KycStatus:      summary.KycStatus,
			SubmissionDate: summary.SubmissionDate.Format(time.RFC3339),
			DocumentCount:  summary.DocumentCount,
			VerifiedCount:  summary.VerifiedCount,
			RejectedCount:  summary.RejectedCount,
			PendingCount:   summary.PendingCount,
		}
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleApplicationApprove overrides the engine and approves outright: the
// application, the customer, and every pending document. Terminal
// applications are refused; an approve must not silently overwrite a reject.
func (h *AdminHandler) HandleApplicationApprove(w http.ResponseWriter, r *http.Request) {
	admin := context.ContextGetAuthenticatedUser(r)
	applicationID := r.PathValue("id")

	application, found, err := h.DB.Application().GetOne(applicationID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}
	if application.IsTerminal() {
		h.ErrHandler.UnprocessableEntity(w, r, fmt.Sprintf("Application has already been %s", application.Status))
		return
	}

	var input struct {
		Notes string `json:"notes"`
	}
	if err := request.DecodeJSON(w, r, &input); err != nil && r.ContentLength > 0 {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	tx, err := h.DB.BeginTx(r.Context(), nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	defer tx.Rollback()

	if err := h.DB.Application().RecordDecision(applicationID, models.ApplicationStatusApproved, admin.ID, "", input.Notes, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.DB.Customer().UpdateKycStatus(application.CustomerID, models.KycStatusApproved, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	documents, err := h.DB.Document().ListByApplication(applicationID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	for _, doc := range documents {
		if doc.VerificationStatus != models.DocumentStatusPending {
			continue
		}
		if err := h.DB.Document().UpdateVerification(doc.ID, models.DocumentStatusVerified, "Verified by admin override", tx); err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	audit := newAuditEntry(r, admin.ID, repository.AuditActionAdminOverride,
		"kyc_application", applicationID, "Application approved by admin override")
	if _, err := h.DB.Audit().Insert(audit, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	notification := &models.Notification{
		CustomerID: application.CustomerID,
		Type:       models.NotificationTypeKycDecision,
		Title:      "KYC Verification Update",
		Message:    "Your KYC application has been approved.",
	}
	if _, err := h.DB.Notification().Insert(notification, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := tx.Commit(); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Application approved"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleApplicationReject overrides the engine and rejects the application
// with a required reason. Terminal applications are refused.
func (h *AdminHandler) HandleApplicationReject(w http.ResponseWriter, r *http.Request) {
	admin := context.ContextGetAuthenticatedUser(r)
	applicationID := r.PathValue("id")

	var input struct {
		Reason    string              `json:"reason"`
		Validator validator.Validator `json:"-"`
	}
	if err := request.DecodeJSON(w, r, &input); err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Reason), "Rejection reason is required")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	application, found, err := h.DB.Application().GetOne(applicationID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}
	if application.IsTerminal() {
		h.ErrHandler.UnprocessableEntity(w, r, fmt.Sprintf("Application has already been %s", application.Status))
		return
	}

	tx, err := h.DB.BeginTx(r.Context(), nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	defer tx.Rollback()

	if err := h.DB.Application().RecordDecision(applicationID, models.ApplicationStatusRejected, admin.ID, input.Reason, "", tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.DB.Customer().UpdateKycStatus(application.CustomerID, models.KycStatusRejected, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	audit := newAuditEntry(r, admin.ID, repository.AuditActionAdminOverride,
		"kyc_application", applicationID, fmt.Sprintf("Application rejected by admin override: %s", input.Reason))
	if _, err := h.DB.Audit().Insert(audit, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	notification := &models.Notification{
		CustomerID: application.CustomerID,
		Type:       models.NotificationTypeKycDecision,
		Title:      "KYC Verification Update",
		Message:    fmt.Sprintf("Your KYC application has been rejected. Reason: %s", input.Reason),
	}
	if _, err := h.DB.Notification().Insert(notification, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := tx.Commit(); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Application rejected"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleDocumentReject rejects one document and moves the application and
// customer to pending_resubmission so the customer can upload a replacement.
func (h *AdminHandler) HandleDocumentReject(w http.ResponseWriter, r *http.Request) {
	admin := context.ContextGetAuthenticatedUser(r)
	documentID := r.PathValue("id")

	var input struct {
		Reason    string              `json:"reason"`
		Validator validator.Validator `json:"-"`
	}
	if err := request.DecodeJSON(w, r, &input); err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Reason), "Rejection reason is required")
	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	document, found, err := h.DB.Document().GetOne(documentID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	application, found, err := h.DB.Application().GetOne(document.ApplicationID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}
	if application.IsTerminal() {
		h.ErrHandler.UnprocessableEntity(w, r, fmt.Sprintf("Application has already been %s", application.Status))
		return
	}

	tx, err := h.DB.BeginTx(r.Context(), nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	defer tx.Rollback()

	if err := h.DB.Document().UpdateVerification(documentID, models.DocumentStatusRejected, input.Reason, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.DB.Application().UpdateStatus(application.ID, models.ApplicationStatusPendingResubmission, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.DB.Customer().UpdateKycStatus(application.CustomerID, models.KycStatusPendingResubmission, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	// Leave the reviewer's reason on the application itself; the status alone
	// does not say which document sent it back.
	note := fmt.Sprintf("Document %s rejected: %s", document.DocumentType, input.Reason)
	if err := h.DB.Application().AppendNotes(application.ID, note, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	audit := newAuditEntry(r, admin.ID, repository.AuditActionDocumentReject,
		"document", documentID, fmt.Sprintf("Document rejected: %s", input.Reason))
	if _, err := h.DB.Audit().Insert(audit, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	notification := &models.Notification{
		CustomerID: application.CustomerID,
		Type:       models.NotificationTypeResubmission,
		Title:      "Document Resubmission Required",
		Message:    fmt.Sprintf("Your %s document was rejected: %s. Please upload a replacement.", document.DocumentType, input.Reason),
	}
	if _, err := h.DB.Notification().Insert(notification, tx); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := tx.Commit(); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Document rejected; customer asked to resubmit"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleApplicationRevalidate re-queues a non-terminal application for the
// validation worker.
func (h *AdminHandler) HandleApplicationRevalidate(w http.ResponseWriter, r *http.Request) {
	admin := context.ContextGetAuthenticatedUser(r)
	applicationID := r.PathValue("id")

	application, found, err := h.DB.Application().GetOne(applicationID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}
	if application.IsTerminal() {
		h.ErrHandler.UnprocessableEntity(w, r, fmt.Sprintf("Application has already been %s", application.Status))
		return
	}

	// An OCR outage at upload time leaves the document without a payload and
	// the engine scores it as a critical failure. Revalidation is the repair
	// point: re-run extraction before queueing so the new run sees real data.
	if err := h.repairOcrPayload(application); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := requestValidation(h.Kafka, h.DB.Application(), h.DB.Customer(), application.ID, application.CustomerID); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.DB.Audit().Insert(newAuditEntry(r, admin.ID,
			repository.AuditActionRevalidation, "kyc_application", applicationID,
			"Revalidation requested by admin"), nil)
		if err != nil {
			log.Printf("Error logging revalidation request: %v", err)
			return err
		}

		return nil
	})

	message := "Revalidation requested"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// repairOcrPayload re-runs OCR on the latest identity proof when its stored
// payload is absent. Extraction failures are logged, not fatal; the engine
// already degrades missing payloads conservatively.
func (h *AdminHandler) repairOcrPayload(application *models.KycApplication) error {
	document, found, err := h.DB.Document().GetLatestByType(application.ID, models.DocumentTypeIdentityProof)
	if err != nil {
		return err
	}
	if !found || len(document.OcrExtractedData) > 0 {
		return nil
	}

	declaredType := ""
	customer, found, err := h.DB.Customer().GetOne(application.CustomerID)
	if err != nil {
		return err
	}
	if found {
		declaredType = customer.DeclaredDocumentType()
	}

	ocrResult, err := h.Ocr.Process(document.FilePath, document.MimeType, declaredType)
	if err != nil {
		log.Printf("Error re-running OCR on %s: %v", document.FilePath, err)
		return nil
	}

	payload, err := json.Marshal(ocrResult)
	if err != nil {
		return err
	}

	return h.DB.Document().UpdateOcrData(document.ID, payload)
}

type FraudAlertResponse struct {
	ApplicationID string   `json:"application_id"`
	OverallScore  string   `json:"overall_score"`
	Policy        string   `json:"policy"`
	Issues        []string `json:"issues"`
	FlaggedAt     string   `json:"flagged_at"`
}

// HandleFraudAlerts lists the lowest-scoring automated rejections; scores
// this far below the threshold usually mean forged or badly corrupted
// artifacts rather than poor photography.
func (h *AdminHandler) HandleFraudAlerts(w http.ResponseWriter, r *http.Request) {
	queryValues := retrieveUrlQueryValues(r)

	results, err := h.DB.Validation().ListRecentRejections(30, queryValues.Limit)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]FraudAlertResponse, len(results))
	for i, result := range results {
		issues, err := result.IssueList()
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		data[i] = FraudAlertResponse{
			ApplicationID: result.ApplicationID,
			OverallScore:  formatScore(result.OverallScore),
			Policy:        result.Policy,
			Issues:        issues,
			FlaggedAt:     result.CreatedAt.Format(time.RFC3339),
		}
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleSystemHealth reports the application pipeline's shape: counts per
// application status and audit activity over the last 24 hours.
func (h *AdminHandler) HandleSystemHealth(w http.ResponseWriter, r *http.Request) {
	statusCounts, err := h.DB.Application().CountByStatus()
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	actionCounts, err := h.DB.Audit().CountByAction(time.Now().Add(-24*time.Hour), time.Now())
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]any{
		"applications_by_status": statusCounts,
		"audit_actions_24h":      actionCounts,
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
