package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/context"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/file"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/ocr"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/response"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/stream"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/validator"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 10 << 20

type DocumentHandler struct {
	CustomerRepo    repository.CustomerRepository
	ApplicationRepo repository.ApplicationRepository
	DocumentRepo    repository.DocumentRepository
	AuditRepo       repository.AuditRepository

	Ocr          *ocr.Processor
	Kafka        *stream.KafkaStream
	FileUploader *file.FileUploader
	UploadsDir   string
	Helper       *helper.HelperRepository
	ErrHandler   *errHandler.ErrorHandler
}

func NewDocumentHandler(handler *DocumentHandler) *DocumentHandler {
	return &DocumentHandler{
		CustomerRepo:    handler.CustomerRepo,
		ApplicationRepo: handler.ApplicationRepo,
		DocumentRepo:    handler.DocumentRepo,
		AuditRepo:       handler.AuditRepo,
		Ocr:             handler.Ocr,
		Kafka:           handler.Kafka,
		FileUploader:    handler.FileUploader,
		UploadsDir:      handler.UploadsDir,
		Helper:          handler.Helper,
		ErrHandler:      handler.ErrHandler,
	}
}

// HandleDocumentUpload stores one uploaded artifact: the file is saved under
// the uploads directory, pushed to cloud storage in the background, run
// through OCR, and recorded against the application. Once both required
// document types are present, validation is requested automatically.
func (h *DocumentHandler) HandleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)
	applicationID := r.PathValue("id")

	customer, found, err := h.CustomerRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	application, found, err := h.ApplicationRepo.GetOne(applicationID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found || application.CustomerID != customer.ID {
		h.ErrHandler.NotFound(w, r)
		return
	}
	if application.IsTerminal() {
		h.ErrHandler.UnprocessableEntity(w, r, "This application has already been decided")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	documentType := r.FormValue("document_type")

	var v validator.Validator
	v.Check(validator.In(documentType, models.DocumentTypePhoto, models.DocumentTypeIdentityProof),
		"Document type must be one of: photo, identity_proof")
	if v.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, v.Errors)
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		h.ErrHandler.BadRequest(w, r, fmt.Errorf("a file is required"))
		return
	}
	defer upload.Close()

	storedName := uuid.NewString() + filepath.Ext(header.Filename)
	storedPath := filepath.Join(h.UploadsDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	size, err := io.Copy(dst, upload)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	mimeType := header.Header.Get("Content-Type")

	declaredType := ""
	if documentType == models.DocumentTypeIdentityProof {
		declaredType = customer.DeclaredDocumentType()
	}

	var ocrData []byte
	ocrResult, err := h.Ocr.Process(storedPath, mimeType, declaredType)
	if err != nil {
		// OCR unavailability is recorded as an absent payload; the decision
		// engine treats that conservatively rather than failing the upload.
		log.Printf("Error running OCR on %s: %v", storedPath, err)
	} else {
		ocrData, err = json.Marshal(ocrResult)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	document := &models.Document{
		ApplicationID:    application.ID,
		DocumentType:     documentType,
		DocumentName:     header.Filename,
		FilePath:         storedPath,
		FileSize:         size,
		MimeType:         mimeType,
		OcrExtractedData: ocrData,
	}

	documentID, err := h.DocumentRepo.Insert(document, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if documentType == models.DocumentTypePhoto {
		if err := h.CustomerRepo.UpdatePhotoPath(customer.ID, storedPath); err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}
	}

	h.Helper.BackgroundTask(r, func() error {
		url, err := h.FileUploader.UploadFile(storedPath, "kyc/documents")
		if err != nil {
			log.Printf("Error uploading document to cloud storage: %v", err)
			return err
		}

		return h.DocumentRepo.UpdateFileURL(documentID, url)
	})

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.AuditRepo.Insert(newAuditEntry(r, user.ID,
			repository.AuditActionDocumentUpload, "document", documentID,
			fmt.Sprintf("Uploaded %s document %q", documentType, header.Filename)), nil)
		if err != nil {
			log.Printf("Error logging document upload: %v", err)
			return err
		}

		return nil
	})

	validationRequested, err := h.maybeRequestValidation(application, customer.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Document uploaded successfully"
	if validationRequested {
		message = "Document uploaded successfully. Verification has started."
	}

	data := map[string]any{
		"id":                   documentID,
		"validation_requested": validationRequested,
	}
	err = response.JSONCreatedResponse(w, data, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

// maybeRequestValidation kicks off scoring once the application holds both a
// photo and an identity proof.
func (h *DocumentHandler) maybeRequestValidation(application *models.KycApplication, customerID string) (bool, error) {
	_, hasPhoto, err := h.DocumentRepo.GetLatestByType(application.ID, models.DocumentTypePhoto)
	if err != nil {
		return false, err
	}
	_, hasIdentity, err := h.DocumentRepo.GetLatestByType(application.ID, models.DocumentTypeIdentityProof)
	if err != nil {
		return false, err
	}

	if !hasPhoto || !hasIdentity {
		return false, nil
	}

	if err := requestValidation(h.Kafka, h.ApplicationRepo, h.CustomerRepo, application.ID, customerID); err != nil {
		return false, err
	}

	return true, nil
}
