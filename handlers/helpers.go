package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"lindel.lk/lims/config"
	"lindel.lk/lims/middleware"
	"lindel.lk/lims/models"
	"lindel.lk/lims/store"
)

// Store is the workflow engine behind every handler, assigned at boot.
var Store *store.Store

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// storeError translates the engine's sentinel errors to HTTP statuses.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrLocked):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrOutOfSequence):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrInvalidReference):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, store.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// crfIDVar reads the {id} path variable and restores the slashes that
// minted ids carry: the client sends CS-25-001 for CS/25/001. Request
// ids (REQ-…) pass through untouched.
func crfIDVar(r *http.Request) string {
	id := mux.Vars(r)["id"]
	if strings.HasPrefix(id, "REQ-") {
		return id
	}
	return strings.ReplaceAll(id, "-", "/")
}

// audit records who did what. Best effort: a failed audit write never
// fails the request, and without a database it only logs.
func audit(r *http.Request, action, module, details string) {
	username := middleware.GetUserName(r)
	if username == "" {
		username = "anonymous"
	}
	entry := models.AuditLog{
		Username:  username,
		Action:    action,
		Module:    module,
		Details:   details,
		IPAddress: middleware.ClientIP(r),
		Status:    "success",
	}
	if config.DB == nil {
		log.Printf("[AUDIT] user=%s action=%s module=%s %s", username, action, module, details)
		return
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		log.Printf("audit write failed: %v", err)
	}
}
