package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"lindel.lk/lims/models"
)

func CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	created, err := Store.AddRequest(req)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "create", "requests", fmt.Sprintf("created request %s for %s", created.RequestID, created.Customer))
	writeJSON(w, http.StatusCreated, created)
}

func ListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		writeJSON(w, http.StatusOK, Store.ListRequestsByStatus(models.RequestStatus(status)))
		return
	}
	if customer := q.Get("customer"); customer != "" {
		writeJSON(w, http.StatusOK, Store.ListRequestsByCustomer(customer))
		return
	}
	writeJSON(w, http.StatusOK, Store.ListRequests())
}

func RequestsByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.RequestStatus(mux.Vars(r)["status"])
	writeJSON(w, http.StatusOK, Store.ListRequestsByStatus(status))
}

// ConfirmedRequests lists the requests eligible for quotation and CRF
// creation.
func ConfirmedRequests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Store.ConfirmedRequests())
}

func GetRequest(w http.ResponseWriter, r *http.Request) {
	req, err := Store.GetRequest(mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type statusPayload struct {
	Status string `json:"status"`
	Force  bool   `json:"force,omitempty"`
}

func UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	req, err := Store.UpdateRequestStatus(id, models.RequestStatus(payload.Status), payload.Force)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "status", "requests", fmt.Sprintf("request %s -> %s", id, payload.Status))
	writeJSON(w, http.StatusOK, req)
}
