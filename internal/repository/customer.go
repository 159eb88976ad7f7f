package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

type CustomerRepository interface {
	Insert(customer *models.Customer, tx *sqlx.Tx) (string, error)
	GetOne(id string) (*models.Customer, bool, error)
	GetByUserID(userID string) (*models.Customer, bool, error)
	GetByEmailOrPhone(identifier string) (*models.Customer, bool, error)
	CheckIfPhoneNumberExist(phoneNumber string) (bool, error)
	UpdateProfile(customer *models.Customer) error
	UpdateKycStatus(id, status string, tx *sqlx.Tx) error
	UpdatePhotoPath(id, path string) error
}

type CustomerRepositoryImpl struct {
	db *sqlx.DB
}

func NewCustomerRepository(db *sqlx.DB) CustomerRepository {
	return &CustomerRepositoryImpl{db: db}
}

func (repo *CustomerRepositoryImpl) Insert(customer *models.Customer, tx *sqlx.Tx) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var id string
	query := `
		INSERT INTO customers (
			user_id, first_name, last_name, full_name, date_of_birth, gender,
			marital_status, address, city_town, pincode, pan_card, aadhar_no,
			phone_number, annual_income, occupation, kyc_status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	args := []any{
		customer.UserID,
		customer.FirstName,
		customer.LastName,
		customer.FullName,
		customer.DateOfBirth,
		customer.Gender,
		customer.MaritalStatus,
		customer.Address,
		customer.CityTown,
		customer.Pincode,
		customer.PanCard,
		customer.AadharNo,
		customer.PhoneNumber,
		customer.AnnualIncome,
		customer.Occupation,
		models.KycStatusNotSubmitted,
	}

	if tx != nil {
		err := tx.QueryRowContext(ctx, query, args...).Scan(&id)
		if err != nil {
			return "", err
		}
	} else {
		err := repo.db.GetContext(ctx, &id, query, args...)
		if err != nil {
			return "", err
		}
	}

	return id, nil
}

func (repo *CustomerRepositoryImpl) GetOne(id string) (*models.Customer, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var customer models.Customer

	query := `SELECT * FROM customers WHERE id = $1`

	err := repo.db.GetContext(ctx, &customer, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &customer, true, err
}

func (repo *CustomerRepositoryImpl) GetByUserID(userID string) (*models.Customer, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var customer models.Customer

	query := `SELECT * FROM customers WHERE user_id = $1`

	err := repo.db.GetContext(ctx, &customer, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &customer, true, err
}

// GetByEmailOrPhone resolves a customer from the public status-tracker lookup,
// which accepts either the registered email or the phone number.
func (repo *CustomerRepositoryImpl) GetByEmailOrPhone(identifier string) (*models.Customer, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var customer models.Customer

	query := `
		SELECT c.* FROM customers c
		JOIN users u ON u.id = c.user_id
		WHERE u.email = $1 OR c.phone_number = $1`

	err := repo.db.GetContext(ctx, &customer, query, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}

	return &customer, true, err
}

func (repo *CustomerRepositoryImpl) CheckIfPhoneNumberExist(phoneNumber string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	var exists bool

	query := `SELECT EXISTS(SELECT 1 FROM customers WHERE phone_number = $1)`

	err := repo.db.GetContext(ctx, &exists, query, phoneNumber)
	if err != nil {
		return false, err
	}

	return exists, nil
}

func (repo *CustomerRepositoryImpl) UpdateProfile(customer *models.Customer) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `
		UPDATE customers SET
			first_name = $1, last_name = $2, full_name = $3, date_of_birth = $4,
			gender = $5, marital_status = $6, address = $7, city_town = $8,
			pincode = $9, pan_card = $10, aadhar_no = $11, phone_number = $12,
			annual_income = $13, occupation = $14, updated_at = now()
		WHERE id = $15`

	_, err := repo.db.ExecContext(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.FullName,
		customer.DateOfBirth,
		customer.Gender,
		customer.MaritalStatus,
		customer.Address,
		customer.CityTown,
		customer.Pincode,
		customer.PanCard,
		customer.AadharNo,
		customer.PhoneNumber,
		customer.AnnualIncome,
		customer.Occupation,
		customer.ID,
	)
	return err
}

func (repo *CustomerRepositoryImpl) UpdateKycStatus(id, status string, tx *sqlx.Tx) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE customers SET kyc_status = $1, updated_at = now() WHERE id = $2`

	if tx != nil {
		_, err := tx.ExecContext(ctx, query, status, id)
		return err
	}

	_, err := repo.db.ExecContext(ctx, query, status, id)
	return err
}

func (repo *CustomerRepositoryImpl) UpdatePhotoPath(id, path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	query := `UPDATE customers SET photo_path = $1, updated_at = now() WHERE id = $2`

	_, err := repo.db.ExecContext(ctx, query, path, id)
	return err
}
