package handler

import (
	"net/http"
	"time"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/context"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/response"
)

type NotificationHandler struct {
	CustomerRepo     repository.CustomerRepository
	NotificationRepo repository.NotificationRepository
	ErrHandler       *errHandler.ErrorHandler
}

func NewNotificationHandler(handler *NotificationHandler) *NotificationHandler {
	return &NotificationHandler{
		CustomerRepo:     handler.CustomerRepo,
		NotificationRepo: handler.NotificationRepo,
		ErrHandler:       handler.ErrHandler,
	}
}

type NotificationResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

func (h *NotificationHandler) HandleNotificationList(w http.ResponseWriter, r *http.Request) {
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

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.NotificationRepo.ListByCustomer(customer.ID, unreadOnly)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	data := make([]NotificationResponse, len(notifications))
	for i, notification := range notifications {
		data[i] = NotificationResponse{
			ID:        notification.ID,
			Type:      notification.Type,
			Title:     notification.Title,
			Message:   notification.Message,
			IsRead:    notification.IsRead,
			CreatedAt: notification.CreatedAt.Format(time.RFC3339),
		}
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *NotificationHandler) HandleNotificationMarkRead(w http.ResponseWriter, r *http.Request) {
	user := context.ContextGetAuthenticatedUser(r)
	notificationID := r.PathValue("id")

	customer, found, err := h.CustomerRepo.GetByUserID(user.ID)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}
	if !found {
		h.ErrHandler.NotFound(w, r)
		return
	}

	// Ownership check: a customer can only acknowledge their own rows.
	notifications, err := h.NotificationRepo.ListByCustomer(customer.ID, false)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	owned := false
	for _, notification := range notifications {
		if notification.ID == notificationID {
			owned = true
			break
		}
	}
	if !owned {
		h.ErrHandler.NotFound(w, r)
		return
	}

	if err := h.NotificationRepo.MarkRead(notificationID); err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	message := "Notification marked as read"
	err = response.JSONOkResponse(w, nil, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}
