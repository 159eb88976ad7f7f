package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/config"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepo implements UserRepository but only mocks the needed methods.
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Insert(user *models.User, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockUserRepo) GetOne(id string) (*models.User, bool, error) {
	return nil, false, nil
}

func (m *MockUserRepo) GetByEmail(email string) (*models.User, bool, error) {
	args := m.Called(email)
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockUserRepo) GetByUsername(username string) (*models.User, bool, error) {
	return nil, false, nil
}

func (m *MockUserRepo) CheckIfEmailExist(email string) (bool, error) {
	return false, nil
}

func (m *MockUserRepo) UpdatePassword(id, password string) error {
	return nil
}

func (m *MockUserRepo) RecordLogin(id string) error {
	return nil
}

func (m *MockUserRepo) Lock(id string) error {
	return nil
}

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) Insert(log *models.AuditLog, tx *sqlx.Tx) (string, error) {
	return "", nil
}

func (m *MockAuditRepo) List(filter repository.AuditFilter) ([]models.AuditLogRow, error) {
	return nil, nil
}

func (m *MockAuditRepo) CountByAction(from, to time.Time) (map[string]int, error) {
	return nil, nil
}

func (m *MockAuditRepo) CountConsecutiveFailedLogins(userID string) int {
	return 0
}

func newTestConfig() *config.Config {
	cfg := &config.Config{
		BaseURL:  "http://localhost",
		HttpPort: 8080,
	}
	cfg.Jwt.SecretKey = "test_secret"
	return cfg
}

func newTestErrorHandler() *errHandler.ErrorHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	baseURL := "http://localhost"
	return errHandler.New("", nil, logger, &baseURL)
}

func TestHandleAuthLogin_ValidCredentials(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepo)
	mockAuditRepo := new(MockAuditRepo)

	var baseURL string = "http://localhost"
	var wg sync.WaitGroup
	testErrHandler := newTestErrorHandler()
	testHelper := helper.New(&baseURL, &wg, testErrHandler)

	testUser := &models.User{
		ID:             "123",
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountActiveStatus,
	}

	mockUserRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		AuditRepo:  mockAuditRepo,
		Config:     newTestConfig(),
		Helper:     testHelper,
		ErrHandler: testErrHandler,
	})

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "correctpassword",
	})

	req, err := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()

	// Act
	authHandler.HandleAuthLogin(rr, req)

	// Assert
	require.Equal(t, http.StatusOK, rr.Code)

	var response map[string]interface{}
	err = json.Unmarshal(rr.Body.Bytes(), &response)
	require.NoError(t, err)

	require.Contains(t, response, "data")

	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "Expected response['data'] to be a map")

	require.Contains(t, data, "auth_token")
	require.Contains(t, data, "token_expiry")
	require.NotEmpty(t, data["auth_token"])

	mockUserRepo.AssertExpectations(t)
}

func TestHandleAuthLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepo)
	mockAuditRepo := new(MockAuditRepo)

	var baseURL string = "http://localhost"
	var wg sync.WaitGroup
	testErrHandler := newTestErrorHandler()
	testHelper := helper.New(&baseURL, &wg, testErrHandler)

	testUser := &models.User{
		ID:             "123",
		Email:          "test@example.com",
		HashedPassword: "$2a$10$oiIYEECpY/GRNs9Fi7Yh1.o4Dw2fTD26eu5z48KYgXkMuOiWlSvqG",
		Status:         repository.UserAccountActiveStatus,
	}

	mockUserRepo.On("GetByEmail", "test@example.com").Return(testUser, true, nil)

	authHandler := NewAuthHandler(&AuthHandler{
		UserRepo:   mockUserRepo,
		AuditRepo:  mockAuditRepo,
		Config:     newTestConfig(),
		Helper:     testHelper,
		ErrHandler: testErrHandler,
	})

	requestBody, _ := json.Marshal(map[string]string{
		"email":    "test@example.com",
		"password": "wrongpassword",
	})

	req, err := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(requestBody))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()

	authHandler.HandleAuthLogin(rr, req)

	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	mockUserRepo.AssertExpectations(t)
}
