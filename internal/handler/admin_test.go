package handler

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	reqcontext "github.com/ramkumar0561/Banking-kyc-validation-repo/internal/context"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/ocr"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/stream"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// noopTxDriver backs a *sqlx.DB whose transactions commit and roll back
// without a server. Repository calls are mocked; only the handlers'
// transaction plumbing runs against it.
type noopTxDriver struct{}

func (noopTxDriver) Open(string) (driver.Conn, error) { return &noopTxConn{}, nil }

type noopTxConn struct{}

func (*noopTxConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("statements are not supported")
}
func (*noopTxConn) Close() error              { return nil }
func (*noopTxConn) Begin() (driver.Tx, error) { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var (
	txDBOnce sync.Once
	txDB     *sqlx.DB
)

func testTxDB() *sqlx.DB {
	txDBOnce.Do(func() {
		sql.Register("nooptx", noopTxDriver{})
		db, _ := sql.Open("nooptx", "")
		txDB = sqlx.NewDb(db, "nooptx")
	})
	return txDB
}

type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Insert(customer *models.Customer, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockCustomerRepo) GetOne(id string) (*models.Customer, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Customer), args.Bool(1), args.Error(2)
}

func (m *MockCustomerRepo) GetByUserID(userID string) (*models.Customer, bool, error) {
	return nil, false, nil
}

func (m *MockCustomerRepo) GetByEmailOrPhone(identifier string) (*models.Customer, bool, error) {
	return nil, false, nil
}

func (m *MockCustomerRepo) CheckIfPhoneNumberExist(phoneNumber string) (bool, error) {
	return false, nil
}

func (m *MockCustomerRepo) UpdateProfile(customer *models.Customer) error {
	return nil
}

func (m *MockCustomerRepo) UpdateKycStatus(id, status string, tx *sqlx.Tx) error {
	args := m.Called(id, status, tx)
	return args.Error(0)
}

func (m *MockCustomerRepo) UpdatePhotoPath(id, path string) error {
	return nil
}

type MockApplicationRepo struct {
	mock.Mock
}

func (m *MockApplicationRepo) Insert(application *models.KycApplication, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockApplicationRepo) GetOne(id string) (*models.KycApplication, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.KycApplication), args.Bool(1), args.Error(2)
}

func (m *MockApplicationRepo) GetLatestByCustomer(customerID string) (*models.KycApplication, bool, error) {
	return nil, false, nil
}

func (m *MockApplicationRepo) GetOpenByCustomer(customerID string) (*models.KycApplication, bool, error) {
	return nil, false, nil
}

func (m *MockApplicationRepo) ListSummaries(status string, limit, offset int) ([]models.ApplicationSummary, error) {
	return nil, nil
}

func (m *MockApplicationRepo) CountByStatus() (map[string]int, error) {
	return nil, nil
}

func (m *MockApplicationRepo) UpdateStatus(id, status string, tx *sqlx.Tx) error {
	args := m.Called(id, status, tx)
	return args.Error(0)
}

func (m *MockApplicationRepo) RecordDecision(id, status, verifiedBy, rejectionReason, notes string, tx *sqlx.Tx) error {
	return nil
}

func (m *MockApplicationRepo) AppendNotes(id, notes string, tx *sqlx.Tx) error {
	args := m.Called(id, notes, tx)
	return args.Error(0)
}

type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Insert(document *models.Document, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockDocumentRepo) GetOne(id string) (*models.Document, bool, error) {
	args := m.Called(id)
	return args.Get(0).(*models.Document), args.Bool(1), args.Error(2)
}

func (m *MockDocumentRepo) ListByApplication(applicationID string) ([]models.Document, error) {
	return nil, nil
}

func (m *MockDocumentRepo) GetLatestByType(applicationID, documentType string) (*models.Document, bool, error) {
	args := m.Called(applicationID, documentType)
	return args.Get(0).(*models.Document), args.Bool(1), args.Error(2)
}

func (m *MockDocumentRepo) UpdateVerification(id, status, notes string, tx *sqlx.Tx) error {
	args := m.Called(id, status, notes, tx)
	return args.Error(0)
}

func (m *MockDocumentRepo) UpdateOcrData(id string, data []byte) error {
	args := m.Called(id, data)
	return args.Error(0)
}

func (m *MockDocumentRepo) UpdateFileURL(id, url string) error {
	return nil
}

type MockValidationRepo struct {
	mock.Mock
}

func (m *MockValidationRepo) Insert(result *models.ValidationResult, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockValidationRepo) GetLatestByApplication(applicationID string) (*models.ValidationResult, bool, error) {
	return nil, false, nil
}

func (m *MockValidationRepo) ListByApplication(applicationID string) ([]models.ValidationResult, error) {
	return nil, nil
}

func (m *MockValidationRepo) ListRecentRejections(maxScore float64, limit int) ([]models.ValidationResult, error) {
	return nil, nil
}

type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Insert(notification *models.Notification, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockNotificationRepo) ListByCustomer(customerID string, unreadOnly bool) ([]models.Notification, error) {
	return nil, nil
}

func (m *MockNotificationRepo) MarkRead(id string) error {
	return nil
}

func (m *MockNotificationRepo) MarkSent(id string) error {
	return nil
}

type MockDatabase struct {
	UserRepo         *MockUserRepo
	CustomerRepo     *MockCustomerRepo
	ApplicationRepo  *MockApplicationRepo
	DocumentRepo     *MockDocumentRepo
	ValidationRepo   *MockValidationRepo
	AuditRepo        *MockAuditRepo
	NotificationRepo *MockNotificationRepo
	TxDB             *sqlx.DB
}

func newMockDatabase() *MockDatabase {
	return &MockDatabase{
		UserRepo:         new(MockUserRepo),
		CustomerRepo:     new(MockCustomerRepo),
		ApplicationRepo:  new(MockApplicationRepo),
		DocumentRepo:     new(MockDocumentRepo),
		ValidationRepo:   new(MockValidationRepo),
		AuditRepo:        new(MockAuditRepo),
		NotificationRepo: new(MockNotificationRepo),
		TxDB:             testTxDB(),
	}
}

func (d *MockDatabase) User() repository.UserRepository                 { return d.UserRepo }
func (d *MockDatabase) Customer() repository.CustomerRepository         { return d.CustomerRepo }
func (d *MockDatabase) Application() repository.ApplicationRepository   { return d.ApplicationRepo }
func (d *MockDatabase) Document() repository.DocumentRepository         { return d.DocumentRepo }
func (d *MockDatabase) Validation() repository.ValidationRepository     { return d.ValidationRepo }
func (d *MockDatabase) Audit() repository.AuditRepository               { return d.AuditRepo }
func (d *MockDatabase) Notification() repository.NotificationRepository { return d.NotificationRepo }
func (d *MockDatabase) Close() error                                    { return nil }

func (d *MockDatabase) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return d.TxDB.BeginTxx(ctx, opts)
}

func TestHandleApplicationRevalidate_RepairsMissingOcrPayload(t *testing.T) {
	db := newMockDatabase()

	application := &models.KycApplication{
		ID:         "app-1",
		CustomerID: "cust-1",
		Status:     models.ApplicationStatusSubmitted,
	}
	db.ApplicationRepo.On("GetOne", "app-1").Return(application, true, nil)

	docPath := filepath.Join(t.TempDir(), "pan_card.png")
	require.NoError(t, os.WriteFile(docPath, []byte("x"), 0o644))

	document := &models.Document{
		ID:            "doc-1",
		ApplicationID: "app-1",
		DocumentType:  models.DocumentTypeIdentityProof,
		FilePath:      docPath,
		MimeType:      "image/png",
	}
	db.DocumentRepo.On("GetLatestByType", "app-1", models.DocumentTypeIdentityProof).Return(document, true, nil)

	customer := &models.Customer{
		ID:      "cust-1",
		PanCard: sql.NullString{String: "ABCDE1234F", Valid: true},
	}
	db.CustomerRepo.On("GetOne", "cust-1").Return(customer, true, nil)

	var storedPayload []byte
	db.DocumentRepo.On("UpdateOcrData", "doc-1", mock.Anything).Run(func(args mock.Arguments) {
		storedPayload = args.Get(1).([]byte)
	}).Return(nil)

	db.ApplicationRepo.On("UpdateStatus", "app-1", models.ApplicationStatusUnderReview, (*sqlx.Tx)(nil)).Return(nil)
	db.CustomerRepo.On("UpdateKycStatus", "cust-1", models.KycStatusUnderReview, (*sqlx.Tx)(nil)).Return(nil)

	var baseURL string = "http://localhost"
	var wg sync.WaitGroup
	testErrHandler := newTestErrorHandler()

	adminHandler := NewAdminHandler(&AdminHandler{
		DB:         db,
		Ocr:        ocr.NewProcessor(ocr.NewStubEngine()),
		Kafka:      stream.New("localhost:9092"),
		Helper:     helper.New(&baseURL, &wg, testErrHandler),
		ErrHandler: testErrHandler,
	})

	req, err := http.NewRequest("POST", "/admin/applications/app-1/revalidate", nil)
	require.NoError(t, err)
	req.SetPathValue("id", "app-1")
	req = reqcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "admin-1", Role: models.UserRoleAdmin})

	rr := httptest.NewRecorder()
	adminHandler.HandleApplicationRevalidate(rr, req)
	wg.Wait()

	require.Equal(t, http.StatusOK, rr.Code)

	var payload models.OcrPayload
	require.NoError(t, json.Unmarshal(storedPayload, &payload))
	require.Equal(t, "PAN", payload.DetectedType)
	require.NotEmpty(t, payload.ExtractedFields["pan_number"])

	db.ApplicationRepo.AssertExpectations(t)
	db.DocumentRepo.AssertExpectations(t)
	db.CustomerRepo.AssertExpectations(t)
}

func TestHandleDocumentReject_RecordsReasonOnApplication(t *testing.T) {
	db := newMockDatabase()

	document := &models.Document{
		ID:                 "doc-1",
		ApplicationID:      "app-1",
		DocumentType:       models.DocumentTypeIdentityProof,
		VerificationStatus: models.DocumentStatusPending,
	}
	db.DocumentRepo.On("GetOne", "doc-1").Return(document, true, nil)

	application := &models.KycApplication{
		ID:         "app-1",
		CustomerID: "cust-1",
		Status:     models.ApplicationStatusUnderReview,
	}
	db.ApplicationRepo.On("GetOne", "app-1").Return(application, true, nil)

	db.DocumentRepo.On("UpdateVerification", "doc-1", models.DocumentStatusRejected, "Scan is unreadable", mock.Anything).Return(nil)
	db.ApplicationRepo.On("UpdateStatus", "app-1", models.ApplicationStatusPendingResubmission, mock.Anything).Return(nil)
	db.CustomerRepo.On("UpdateKycStatus", "cust-1", models.KycStatusPendingResubmission, mock.Anything).Return(nil)
	db.ApplicationRepo.On("AppendNotes", "app-1", "Document identity_proof rejected: Scan is unreadable", mock.Anything).Return(nil)

	var baseURL string = "http://localhost"
	var wg sync.WaitGroup
	testErrHandler := newTestErrorHandler()

	adminHandler := NewAdminHandler(&AdminHandler{
		DB:         db,
		Helper:     helper.New(&baseURL, &wg, testErrHandler),
		ErrHandler: testErrHandler,
	})

	requestBody, _ := json.Marshal(map[string]string{"reason": "Scan is unreadable"})

	req, err := http.NewRequest("POST", "/admin/documents/doc-1/reject", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", "doc-1")
	req = reqcontext.ContextSetAuthenticatedUser(req, &models.User{ID: "admin-1", Role: models.UserRoleAdmin})

	rr := httptest.NewRecorder()
	adminHandler.HandleDocumentReject(rr, req)
	wg.Wait()

	require.Equal(t, http.StatusOK, rr.Code)

	db.DocumentRepo.AssertExpectations(t)
	db.ApplicationRepo.AssertExpectations(t)
	db.CustomerRepo.AssertExpectations(t)
}
