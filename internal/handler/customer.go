package handler

import (
	"database/sql"
	"log"
	"net/http"
	"time"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/context"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/request"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/response"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/validator"
)

type CustomerResponseData struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	DateOfBirth string  `json:"date_of_birth"`
	Address     string  `json:"address"`
	CityTown    string  `json:"city_town"`
	Pincode     string  `json:"pincode"`
	PhoneNumber string  `json:"phone_number"`
	PanCard     *string `json:"pan_card,omitempty"`
	AadharNo    *string `json:"aadhar_no,omitempty"`
	Occupation  *string `json:"occupation,omitempty"`
	KycStatus   string  `json:"kyc_status"`
}

type CustomerHandler struct {
	CustomerRepo repository.CustomerRepository
	AuditRepo    repository.AuditRepository

	Helper     *helper.HelperRepository
	ErrHandler *errHandler.ErrorHandler
}

func NewCustomerHandler(handler *CustomerHandler) *CustomerHandler {
	return &CustomerHandler{
		CustomerRepo: handler.CustomerRepo,
		AuditRepo:    handler.AuditRepo,
		Helper:       handler.Helper,
		ErrHandler:   handler.ErrHandler,
	}
}

// HandleCustomerCreate records the onboarding profile (the KYC form). The
// customer starts as not_submitted; submitting an application is a separate
// step once documents are ready.
func (h *CustomerHandler) HandleCustomerCreate(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	var input struct {
		FirstName     string              `json:"first_name"`
		LastName      string              `json:"last_name"`
		DateOfBirth   string              `json:"date_of_birth"`
		Gender        string              `json:"gender"`
		MaritalStatus string              `json:"marital_status"`
		Address       string              `json:"address"`
		CityTown      string              `json:"city_town"`
		Pincode       string              `json:"pincode"`
		PanCard       string              `json:"pan_card"`
		AadharNo      string              `json:"aadhar_no"`
		PhoneNumber   string              `json:"phone_number"`
		AnnualIncome  float64             `json:"annual_income"`
		Occupation    string              `json:"occupation"`
		Validator     validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	_, exists, err := h.CustomerRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if exists {
		h.ErrHandler.Conflict(w, r, "A profile already exists for this account")
		return
	}

	dob, dobErr := time.Parse("2006-01-02", input.DateOfBirth)

	input.Validator.Check(validator.NotBlank(input.FirstName), "First name is required")
	input.Validator.Check(validator.NotBlank(input.LastName), "Last name is required")
	input.Validator.Check(dobErr == nil, "Date of birth must be in YYYY-MM-DD format")
	if dobErr == nil {
		input.Validator.Check(dob.Before(time.Now().AddDate(-18, 0, 0)), "Customer must be at least 18 years old")
	}

	input.Validator.Check(validator.NotBlank(input.Address), "Address is required")
	input.Validator.Check(validator.NotBlank(input.CityTown), "City/Town is required")
	input.Validator.Check(validator.Matches(input.Pincode, validator.RgxPincode), "Pincode must be 6 digits")

	input.Validator.Check(validator.NotBlank(input.PhoneNumber), "Phone number is required")
	input.Validator.Check(validator.Matches(input.PhoneNumber, validator.RgxPhoneNumber), "Phone number must be a valid 10-digit mobile number")

	input.Validator.Check(input.PanCard != "" || input.AadharNo != "", "Either PAN or Aadhar number is required")
	if input.PanCard != "" {
		input.Validator.Check(validator.Matches(input.PanCard, validator.RgxPanNumber), "PAN must match the format ABCDE1234F")
	}
	if input.AadharNo != "" {
		input.Validator.Check(validator.Matches(input.AadharNo, validator.RgxAadharNumber), "Aadhar number must be 12 digits")
	}

	phoneTaken, err := h.CustomerRepo.CheckIfPhoneNumberExist(input.PhoneNumber)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	input.Validator.Check(!phoneTaken, "Phone number has been registered")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	customer := &models.Customer{
		UserID:      user.ID,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		FullName:    input.FirstName + " " + input.LastName,
		DateOfBirth: dob,
		Address:     input.Address,
		CityTown:    input.CityTown,
		Pincode:     input.Pincode,
		PhoneNumber: input.PhoneNumber,
	}
	if input.Gender != "" {
		customer.Gender = sql.NullString{String: input.Gender, Valid: true}
	}
	if input.MaritalStatus != "" {
		customer.MaritalStatus = sql.NullString{String: input.MaritalStatus, Valid: true}
	}
	if input.PanCard != "" {
		customer.PanCard = sql.NullString{String: input.PanCard, Valid: true}
	}
	if input.AadharNo != "" {
		customer.AadharNo = sql.NullString{String: input.AadharNo, Valid: true}
	}
	if input.AnnualIncome > 0 {
		customer.AnnualIncome = sql.NullFloat64{Float64: input.AnnualIncome, Valid: true}
	}
	if input.Occupation != "" {
		customer.Occupation = sql.NullString{String: input.Occupation, Valid: true}
	}

	customerID, err := h.CustomerRepo.Insert(customer, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.AuditRepo.Insert(newAuditEntry(r, user.ID,
			repository.AuditActionKycSubmission, "customer", customerID,
			"Customer profile created"), nil)
		if err != nil {
			log.Printf("Error logging customer profile creation: %v", err)
			return err
		}

		return nil
	})

	message := "Profile created successfully"
	err = response.JSONCreatedResponse(w, map[string]string{"id": customerID}, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *CustomerHandler) HandleCustomerMe(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)

	customer, found, err := h.CustomerRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, customerResponse(customer), message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func customerResponse(customer *models.Customer) *CustomerResponseData {
	data := &CustomerResponseData{
		ID:          customer.ID,
		FullName:    customer.FullName,
		DateOfBirth: customer.DateOfBirth.Format("2006-01-02"),
		Address:     customer.Address,
		CityTown:    customer.CityTown,
		Pincode:     customer.Pincode,
		PhoneNumber: customer.PhoneNumber,
		KycStatus:   customer.KycStatus,
	}
	if customer.PanCard.Valid {
		data.PanCard = &customer.PanCard.String
	}
	if customer.AadharNo.Valid {
		data.AadharNo = &customer.AadharNo.String
	}
	if customer.Occupation.Valid {
		data.Occupation = &customer.Occupation.String
	}
	return data
}
