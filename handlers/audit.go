package handlers

import (
	"net/http"
	"strconv"

	"lindel.lk/lims/config"
	"lindel.lk/lims/models"
)

// ListAuditLogs returns the trail newest first. Filterable by module
// and username, capped at 500 entries per page.
func ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := config.DB.Order("timestamp desc")
	if module := q.Get("module"); module != "" {
		query = query.Where("module = ?", module)
	}
	if username := q.Get("username"); username != "" {
		query = query.Where("username = ?", username)
	}

	limit := 100
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}
	offset := 0
	if raw := q.Get("offset"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			offset = n
		}
	}

	var logs []models.AuditLog
	if err := query.Limit(limit).Offset(offset).Find(&logs).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}
