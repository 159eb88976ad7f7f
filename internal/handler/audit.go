package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/errHandler"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/repository"
	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/response"
)

type AuditHandler struct {
	AuditRepo  repository.AuditRepository
	ErrHandler *errHandler.ErrorHandler
}

func NewAuditHandler(handler *AuditHandler) *AuditHandler {
	return &AuditHandler{
		AuditRepo:  handler.AuditRepo,
		ErrHandler: handler.ErrHandler,
	}
}

type AuditLogResponse struct {
	ID          string `json:"id"`
	CreatedAt   string `json:"created_at"`
	Username    string `json:"username,omitempty"`
	Email       string `json:"email,omitempty"`
	ActionType  string `json:"action_type"`
	Entity      string `json:"entity"`
	EntityID    string `json:"entity_id,omitempty"`
	Description string `json:"description"`
	IpAddress   string `json:"ip_address,omitempty"`
}

// HandleAuditLogList returns filtered audit entries as JSON, or as a CSV
// export when ?format=csv is set.
func (h *AuditHandler) HandleAuditLogList(w http.ResponseWriter, r *http.Request) {
	queryValues := retrieveUrlQueryValues(r)

	filter := repository.AuditFilter{
		UserID:     r.URL.Query().Get("user_id"),
		ActionType: r.URL.Query().Get("action_type"),
		Limit:      queryValues.Limit,
		Offset:     queryValues.Offset,
	}
	if queryValues.StartDate != nil {
		filter.From = *queryValues.StartDate
	}
	if queryValues.EndDate != nil {
		// Inclusive end date: extend to the end of the named day.
		filter.To = queryValues.EndDate.Add(24*time.Hour - time.Second)
	}

	rows, err := h.AuditRepo.List(filter)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		h.writeCSV(w, r, rows)
		return
	}

	data := make([]AuditLogResponse, len(rows))
	for i, row := range rows {
		data[i] = AuditLogResponse{
			ID:          row.ID,
			CreatedAt:   row.CreatedAt.Format(time.RFC3339),
			Username:    row.Username.String,
			Email:       row.Email.String,
			ActionType:  row.ActionType,
			Entity:      row.Entity,
			EntityID:    row.EntityID.String,
			Description: row.Description,
			IpAddress:   row.IpAddress.String,
		}
	}

	message := "Data retrieved successfully"
	err = response.JSONOkResponse(w, data, message, nil)
	if err != nil {
		h.ErrHandler.ServerError(w, r, err)
	}
}

func (h *AuditHandler) writeCSV(w http.ResponseWriter, r *http.Request, rows []models.AuditLogRow) {
	fileName := fmt.Sprintf("audit-logs-%s.csv", time.Now().Format("2006-01-02"))

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "created_at", "username", "email", "action_type", "entity", "entity_id", "description", "ip_address"}); err != nil {
		h.ErrHandler.ReportServerError(r, err)
		return
	}

	for _, row := range rows {
		record := []string{
			row.ID,
			row.CreatedAt.Format(time.RFC3339),
			row.Username.String,
			row.Email.String,
			row.ActionType,
			row.Entity,
			row.EntityID.String,
			row.Description,
			row.IpAddress.String,
		}
		if err := cw.Write(record); err != nil {
			h.ErrHandler.ReportServerError(r, err)
			return
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		h.ErrHandler.ReportServerError(r, err)
	}
}
