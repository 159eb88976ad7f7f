package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/context"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/response"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/stream"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/validator"
)

// KycValidationRequestedTopic carries requests for the validation worker;
// KycDecisionCompletedTopic carries finished decisions for notification.
const (
	KycValidationRequestedTopic = "kyc.validation.requested"
	KycDecisionCompletedTopic   = "kyc.decision.completed"
)

// ValidationRequest is the payload produced to the validation topic.
type ValidationRequest struct {
	ApplicationID string `json:"application_id"`
	CustomerID    string `json:"customer_id"`
}

// DecisionCompleted is the payload produced once a decision has been made.
type DecisionCompleted struct {
	ApplicationID string  `json:"application_id"`
	CustomerID    string  `json:"customer_id"`
	Decision      string  `json:"decision"`
	OverallScore  float64 `json:"overall_score"`
}

type ApplicationStatusResponse struct {
	ApplicationID   string  `json:"application_id"`
	FullName        string  `json:"full_name"`
	Status          string  `json:"status"`
	KycStatus       string  `json:"kyc_status"`
	SubmissionDate  string  `json:"submission_date"`
	DocumentCount   int     `json:"document_count"`
	VerifiedCount   int     `json:"verified_count"`
	RejectedCount   int     `json:"rejected_count"`
	PendingCount    int     `json:"pending_count"`
	OverallScore    *string `json:"overall_score,omitempty"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

type ApplicationHandler struct {
	CustomerRepo    repository.CustomerRepository
	ApplicationRepo repository.ApplicationRepository
	DocumentRepo    repository.DocumentRepository
	ValidationRepo  repository.ValidationRepository
	AuditRepo       repository.AuditRepository

	Kafka      *stream.KafkaStream
	Helper     *helper.HelperRepository
	ErrHandler *errHandler.ErrorHandler
}

func NewApplicationHandler(handler *ApplicationHandler) *ApplicationHandler {
	return &ApplicationHandler{
		CustomerRepo:    handler.CustomerRepo,
		ApplicationRepo: handler.ApplicationRepo,
		DocumentRepo:    handler.DocumentRepo,
		ValidationRepo:  handler.ValidationRepo,
		AuditRepo:       handler.AuditRepo,
		Kafka:           handler.Kafka,
		Helper:          handler.Helper,
		ErrHandler:      handler.ErrHandler,
	}
}

// HandleApplicationSubmit opens a new KYC application for the authenticated
// customer. A customer can only carry one application outside the terminal
// states; resubmission after a rejection opens a fresh one.
func (h *ApplicationHandler) HandleApplicationSubmit(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	customer, found, err := h.CustomerRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.UnprocessableEntity(w, r, "Complete your profile before submitting a KYC application")
		return
	}

	_, open, err := h.ApplicationRepo.GetOpenByCustomer(customer.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if open {
		h.ErrHandler.Conflict(w, r, "An application is already in progress")
		return
	}

	application := &models.KycApplication{CustomerID: customer.ID}
	applicationID, err := h.ApplicationRepo.Insert(application, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if err := h.CustomerRepo.UpdateKycStatus(customer.ID, models.KycStatusSubmitted, nil); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.AuditRepo.Insert(newAuditEntry(r, user.ID,
			repository.AuditActionKycSubmission, "kyc_application", applicationID,
			"KYC application submitted"), nil)
		if err != nil {
			log.Printf("Error logging application submission: %v", err)
			return err
		}

		return nil
	})

	message := "Application submitted successfully. Upload your photo and identity document to start verification."
	err = response.JSONCreatedResponse(w, map[string]string{"id": applicationID}, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// HandleApplicationStatus is the public status tracker: it accepts the
// registered email or phone number and returns the latest application's
// progress with per-status document counts.
func (h *ApplicationHandler) HandleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	identifier := r.URL.Query().Get("identifier")

	var v validator.Validator
	v.Check(validator.NotBlank(identifier), "Identifier (email or phone number) is required")
	if v.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, v.Errors)
		return
	}

	customer, found, err := h.CustomerRepo.GetByEmailOrPhone(identifier)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	application, found, err := h.ApplicationRepo.GetLatestByCustomer(customer.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	documents, err := h.DocumentRepo.ListByApplication(application.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := &ApplicationStatusResponse{
		ApplicationID:  application.ID,
		FullName:       customer.FullName,
		Status:         application.Status,
		KycStatus:      customer.KycStatus,
		SubmissionDate: application.SubmissionDate.Format(time.RFC3339),
		DocumentCount:  len(documents),
	}
	for _, doc := range documents {
		switch doc.VerificationStatus {
		case models.DocumentStatusVerified:
			data.VerifiedCount++
		case models.DocumentStatusRejected:
			data.RejectedCount++
		default:
			data.PendingCount++
		}
	}
	if application.RejectionReason.Valid {
		data.RejectionReason = &application.RejectionReason.String
	}

	result, found, err := h.ValidationRepo.GetLatestByApplication(application.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if found {
		score := formatScore(result.OverallScore)
		data.OverallScore = &score
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// requestValidation moves the application into review and asks the
// validation worker to score it. Document upload and admin revalidation both
// go through here.
func requestValidation(kafka *stream.KafkaStream, applicationRepo repository.ApplicationRepository, customerRepo repository.CustomerRepository, applicationID, customerID string) error {
	if err := applicationRepo.UpdateStatus(applicationID, models.ApplicationStatusUnderReview, nil); err != nil {
		return err
	}
	if err := customerRepo.UpdateKycStatus(customerID, models.KycStatusUnderReview, nil); err != nil {
		return err
	}

	payload, err := json.Marshal(&ValidationRequest{
		ApplicationID: applicationID,
		CustomerID:    customerID,
	})
	if err != nil {
		return err
	}

	return kafka.ProduceMessage(KycValidationRequestedTopic, string(payload))
}
