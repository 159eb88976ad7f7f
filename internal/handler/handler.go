package handler

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/ramkumar0561/Banking-kyc-validation-repo/internal/models"
	"github.com/tomasen/realip"
)

type queryStringValues struct {
	StartDate *time.Time
	EndDate   *time.Time
	Search    string
	Limit     int
	Offset    int
}

func retrieveUrlQueryValues(r *http.Request) *queryStringValues {
	var queryValues = &queryStringValues{}

	// Parse start_date if provided
	startDateStr := r.URL.Query().Get("start_date")
	if startDateStr != "" {
		parsedStart, err := time.Parse("2006-01-02", startDateStr)
		if err == nil {
			queryValues.StartDate = &parsedStart
		}
	}

	// Parse end_date if provided
	endDateStr := r.URL.Query().Get("end_date")
	if endDateStr != "" {
		parsedEnd, err := time.Parse("2006-01-02", endDateStr)
		if err == nil {
			queryValues.EndDate = &parsedEnd
		}
	}

	// Parse pagination params
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("page")

	// Default pagination values
	offset := 0
	limit := 10

	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}
	queryValues.Limit = limit

	if offsetStr != "" {
		if parsedOffset, err := strconv.Atoi(offsetStr); err == nil && parsedOffset >= 1 {
			offset = (parsedOffset - 1) * limit
		}
	}
	queryValues.Offset = offset

	// search params
	searchQuery := r.URL.Query().Get("search")
	queryValues.Search = searchQuery

	return queryValues
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 2, 64) + "%"
}

// newAuditEntry fills the request-derived fields every audit row carries.
func newAuditEntry(r *http.Request, userID, actionType, entity, entityID, description string) *models.AuditLog {
	entry := &models.AuditLog{
		ActionType:  actionType,
		Entity:      entity,
		Description: description,
		IpAddress:   sql.NullString{String: realip.FromRequest(r), Valid: true},
		UserAgent:   sql.NullString{String: r.UserAgent(), Valid: r.UserAgent() != ""},
	}
	if userID != "" {
		entry.UserID = sql.NullString{String: userID, Valid: true}
	}
	if entityID != "" {
		entry.EntityID = sql.NullString{String: entityID, Valid: true}
	}
	return entry
}
