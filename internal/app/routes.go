package app

import (
	"net/http"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/handler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/middleware"
)

func (app *Application) routes() http.Handler {
	mux := http.NewServeMux()

	middlewareRepo := middleware.New(app.errorHandler, app.Logger, app.DB.User(), &app.Config)

	healthHandler := handler.NewHealthCheckHandler(app.errorHandler)

	authHandler := handler.NewAuthHandler(&handler.AuthHandler{
		UserRepo:   app.DB.User(),
		AuditRepo:  app.DB.Audit(),
		Config:     &app.Config,
		Helper:     app.helper,
		Mailer:     app.Mailer,
		ErrHandler: app.errorHandler,
	})

	customerHandler := handler.NewCustomerHandler(&handler.CustomerHandler{
		CustomerRepo: app.DB.Customer(),
		AuditRepo:    app.DB.Audit(),
		Helper:       app.helper,
		ErrHandler:   app.errorHandler,
	})

	applicationHandler := handler.NewApplicationHandler(&handler.ApplicationHandler{
		CustomerRepo:    app.DB.Customer(),
		ApplicationRepo: app.DB.Application(),
		DocumentRepo:    app.DB.Document(),
		ValidationRepo:  app.DB.Validation(),
		AuditRepo:       app.DB.Audit(),
		Kafka:           app.Kafka,
		Helper:          app.helper,
		ErrHandler:      app.errorHandler,
	})

	documentHandler := handler.NewDocumentHandler(&handler.DocumentHandler{
		CustomerRepo:    app.DB.Customer(),
		ApplicationRepo: app.DB.Application(),
		DocumentRepo:    app.DB.Document(),
		AuditRepo:       app.DB.Audit(),
		Ocr:             app.Ocr,
		Kafka:           app.Kafka,
		FileUploader:    app.FileUploader,
		UploadsDir:      app.Config.Uploads.Dir,
		Helper:          app.helper,
		ErrHandler:      app.errorHandler,
	})

	notificationHandler := handler.NewNotificationHandler(&handler.NotificationHandler{
		CustomerRepo:     app.DB.Customer(),
		NotificationRepo: app.DB.Notification(),
		ErrHandler:       app.errorHandler,
	})

	adminHandler := handler.NewAdminHandler(&handler.AdminHandler{
		DB:         app.DB,
		Ocr:        app.Ocr,
		Kafka:      app.Kafka,
		Helper:     app.helper,
		ErrHandler: app.errorHandler,
	})

	auditHandler := handler.NewAuditHandler(&handler.AuditHandler{
		AuditRepo:  app.DB.Audit(),
		ErrHandler: app.errorHandler,
	})

	mux.HandleFunc("GET /status", healthHandler.HandleHealthCheck)

	mux.HandleFunc("POST /auth/register", authHandler.HandleAuthRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleAuthLogin)

	// Public status tracker; looked up by email or phone number.
	mux.HandleFunc("GET /applications/status", applicationHandler.HandleApplicationStatus)

	mux.Handle("POST /customers", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(customerHandler.HandleCustomerCreate)))
	mux.Handle("GET /customers/me", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(customerHandler.HandleCustomerMe)))

	mux.Handle("POST /applications", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(applicationHandler.HandleApplicationSubmit)))
	mux.Handle("POST /applications/{id}/documents", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(documentHandler.HandleDocumentUpload)))

	mux.Handle("GET /notifications", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(notificationHandler.HandleNotificationList)))
	mux.Handle("POST /notifications/{id}/read", middlewareRepo.RequireAuthenticatedUser(http.HandlerFunc(notificationHandler.HandleNotificationMarkRead)))

	mux.Handle("GET /admin/applications", middlewareRepo.RequireAdminUser(http.HandlerFunc(adminHandler.HandlePendingApplications)))
	mux.Handle("POST /admin/applications/{id}/approve", middlewareRepo.RequireAdminUser(http.HandlerFunc(adminHandler.HandleApplicationApprove)))
	mux.Handle("POST /admin/applications/{id}/reject", middlewareRepo.RequireAdminUser(http.HandlerFunc(adminHandler.HandleApplicationReject)))
	mux.Handle("POST /admin/applications/{id}/revalidate", middlewareRepo.RequireAdminUser(http.HandlerFunc(adminHandler.HandleApplicationRevalidate)))
	mux.Handle("POST /admin/documents/{id}/reject", middlewareRepo.RequireAdminUser(http.HandlerFunc(adminHandler.HandleDocumentReject)))
	mux.Handle("GET /admin/fraud-alerts", middlewareRepo.RequireAdminUser(http.HandlerFunc(adminHandler.HandleFraudAlerts)))
	mux.Handle("GET /admin/system-health", middlewareRepo.RequireAdminUser(http.HandlerFunc(adminHandler.HandleSystemHealth)))
	mux.Handle("GET /admin/audit-logs", middlewareRepo.RequireAdminUser(http.HandlerFunc(auditHandler.HandleAuditLogList)))

	return middlewareRepo.LogAccess(middlewareRepo.RecoverPanic(middlewareRepo.Authenticate(mux)))
}
