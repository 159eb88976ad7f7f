package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/config"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/helper"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/request"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/response"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/smtp"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/validator"

	"github.com/cradoe/gopass"
	"github.com/pascaldekloe/jwt"
)

type AuthHandler struct {
	UserRepo  repository.UserRepository
	AuditRepo repository.AuditRepository

	Config     *config.Config
	Helper     *helper.HelperRepository
	Mailer     smtp.MailerInterface
	ErrHandler *errHandler.ErrorHandler
}

func NewAuthHandler(handler *AuthHandler) *AuthHandler {
	return &AuthHandler{
		UserRepo:   handler.UserRepo,
		AuditRepo:  handler.AuditRepo,
		Config:     handler.Config,
		Helper:     handler.Helper,
		Mailer:     handler.Mailer,
		ErrHandler: handler.ErrHandler,
	}
}

// New user registration involves input validation, a uniqueness check on the
// email, and inserting the user row. The customer profile (the KYC form) is
// created separately once the user completes onboarding.
func (h *AuthHandler) HandleAuthRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username  string              `json:"username"`
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	// we need to validate the password to make sure it meets the minimum requirements
	_, errs := gopass.Validate(input.Password)
	if errs != nil {
		h.ErrHandler.FailedValidation(w, r, errs)
		return
	}

	emailTaken, err := h.UserRepo.CheckIfEmailExist(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	_, usernameTaken, err := h.UserRepo.GetByUsername(input.Username)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(!emailTaken, "Email is already in use")

	input.Validator.Check(validator.NotBlank(input.Username), "Username is required")
	input.Validator.Check(len(input.Username) >= 3, "Username is too short")
	input.Validator.Check(!usernameTaken, "Username is already taken")

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	hashedPassword, err := gopass.Hash(input.Password)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	createdUser := &models.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: hashedPassword,
		Role:           models.UserRoleCustomer,
		Status:         repository.UserAccountActiveStatus,
	}

	userID, err := h.UserRepo.Insert(createdUser, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.AuditRepo.Insert(newAuditEntry(r, userID,
			repository.AuditActionRegistration, "user", userID,
			"New account registered"), nil)
		if err != nil {
			log.Printf("Error logging user registration action: %v", err)
			return err
		}

		return nil
	})

	h.Helper.BackgroundTask(r, func() error {
		emailData := h.Helper.NewEmailData()
		emailData["Username"] = createdUser.Username

		err := h.Mailer.Send(createdUser.Email, emailData, "welcome.tmpl")
		if err != nil {
			log.Printf("Error sending welcome email: %v", err)
			return err
		}

		return nil
	})

	message := "Account created successfully"

	err = response.JSONCreatedResponse(w, map[string]string{"id": userID}, message)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AuthHandler) HandleAuthLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email     string              `json:"email"`
		Password  string              `json:"password"`
		Validator validator.Validator `json:"-"`
	}

	err := request.DecodeJSON(w, r, &input)
	if err != nil {
		h.ErrHandler.BadRequest(w, r, err)
		return
	}

	user, found, err := h.UserRepo.GetByEmail(input.Email)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	input.Validator.Check(validator.NotBlank(input.Email), "Email is required")
	input.Validator.Check(validator.IsEmail(input.Email), "Must be a valid email address")
	input.Validator.Check(found, "Incorrect email/password")

	if found {
		passwordMatches, err := gopass.ComparePasswordAndHash(input.Password, user.HashedPassword)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
			return
		}

		input.Validator.Check(validator.NotBlank(input.Password), "Password is required")
		input.Validator.Check(passwordMatches, "Incorrect email/password")

		if !passwordMatches {
			h.Helper.BackgroundTask(r, func() error {
				_, err := h.AuditRepo.Insert(newAuditEntry(r, user.ID,
					repository.AuditActionFailedLogin, "user", user.ID,
					"Failed login attempt"), nil)
				if err != nil {
					log.Printf("Error logging failed login action: %v", err)
					return err
				}

				return nil
			})

			// lock the account after 3 consecutive failed attempts
			count := h.AuditRepo.CountConsecutiveFailedLogins(user.ID)
			// check if we already have 2 failed login attempts before this one.
			if count >= 2 {
				h.Helper.BackgroundTask(r, func() error {
					err := h.UserRepo.Lock(user.ID)
					if err != nil {
						log.Printf("Error locking account after failed logins: %v", err)
						return err
					}

					return nil
				})

				h.Helper.BackgroundTask(r, func() error {
					_, err := h.AuditRepo.Insert(newAuditEntry(r, user.ID,
						repository.AuditActionAccountLocked, "user", user.ID,
						"Account locked after consecutive failed logins"), nil)
					if err != nil {
						log.Printf("Error logging account lock: %v", err)
						return err
					}

					return nil
				})

				h.ErrHandler.FailedValidation(w, r, []string{"Account has been locked. Please contact support"})
				return
			}
		}
	}

	if input.Validator.HasErrors() {
		h.ErrHandler.FailedValidation(w, r, input.Validator.Errors)
		return
	}

	// check that account is active
	if user.Status != repository.UserAccountActiveStatus {
		message := "Account has been locked. Please contact support"

		err = response.JSONErrorResponse(w, nil, message, http.StatusForbidden, nil)
		if err != nil {
			h.ErrHandler.ServerError(w, r, err)
		}
		return
	}

	h.Helper.BackgroundTask(r, func() error {
		_, err := h.AuditRepo.Insert(newAuditEntry(r, user.ID,
			repository.AuditActionLogin, "user", user.ID,
			"Successful login"), nil)
		if err != nil {
			log.Printf("Error logging successful login action: %v", err)
			return err
		}

		return nil
	})

	h.Helper.BackgroundTask(r, func() error {
		return h.UserRepo.RecordLogin(user.ID)
	})

	var claims jwt.Claims
	claims.Subject = user.ID

	expiry := time.Now().Add(24 * time.Hour)
	claims.Issued = jwt.NewNumericTime(time.Now())
	claims.NotBefore = jwt.NewNumericTime(time.Now())
	claims.Expires = jwt.NewNumericTime(expiry)

	claims.Issuer = h.Config.BaseURL
	claims.Audiences = []string{h.Config.BaseURL}

	jwtBytes, err := claims.HMACSign(jwt.HS256, []byte(h.Config.Jwt.SecretKey))
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := map[string]string{
		"auth_token":   string(jwtBytes),
		"token_expiry": expiry.Format(time.RFC3339),
	}
	message := "Login succesful"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
