package main

import (
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/cradoe/gopass"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/app"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
)

// Seeds a development database with an admin account and a demo customer so
// the review console has something to show. Safe to re-run; existing rows are
// left alone.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	application, err := app.NewApplication(logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}
	defer application.DB.Close()

	if err := seedAdmin(application); err != nil {
		logger.Error("failed to seed admin account", "error", err)
		os.Exit(1)
	}

	if err := seedDemoCustomer(application); err != nil {
		logger.Error("failed to seed demo customer", "error", err)
		os.Exit(1)
	}

	logger.Info("seeding completed")
}

func seedAdmin(application *app.Application) error {
	exists, err := application.DB.User().CheckIfEmailExist("admin@horizonbank.test")
	if err != nil || exists {
		return err
	}

	hashedPassword, err := gopass.Hash("Admin@123")
	if err != nil {
		return err
	}

	_, err = application.DB.User().Insert(&models.User{
		Username:       "admin",
		Email:          "admin@horizonbank.test",
		HashedPassword: hashedPassword,
		Role:           models.UserRoleAdmin,
		Status:         "active",
	}, nil)

	return err
}

func seedDemoCustomer(application *app.Application) error {
	exists, err := application.DB.User().CheckIfEmailExist("ramesh.kumar@example.test")
	if err != nil || exists {
		return err
	}

	hashedPassword, err := gopass.Hash("Customer@123")
	if err != nil {
		return err
	}

	userID, err := application.DB.User().Insert(&models.User{
		Username:       "ramesh.kumar",
		Email:          "ramesh.kumar@example.test",
		HashedPassword: hashedPassword,
		Role:           models.UserRoleCustomer,
		Status:         "active",
	}, nil)
	if err != nil {
		return err
	}

	customerID, err := application.DB.Customer().Insert(&models.Customer{
		UserID:      userID,
		FirstName:   "Ramesh",
		LastName:    "Kumar",
		FullName:    "Ramesh Kumar",
		DateOfBirth: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
		Gender:      sql.NullString{String: "male", Valid: true},
		Address:     "42 MG Road, Indiranagar",
		CityTown:    "Bengaluru",
		Pincode:     "560038",
		PanCard:     sql.NullString{String: "ABCDE1234F", Valid: true},
		PhoneNumber: "9876543210",
		Occupation:  sql.NullString{String: "Software Engineer", Valid: true},
	}, nil)
	if err != nil {
		return err
	}

	_, err = application.DB.Application().Insert(&models.KycApplication{CustomerID: customerID}, nil)
	return err
}
