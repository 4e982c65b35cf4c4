package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"lindel.lk/lims/models"
	"lindel.lk/lims/store"
)

func CreateCRF(w http.ResponseWriter, r *http.Request) {
	var crf models.CRF
	if err := json.NewDecoder(r.Body).Decode(&crf); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	created, err := Store.AddCRF(crf)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "create", "crfs", fmt.Sprintf("created %s (%d samples) for %s", created.CRFID, len(created.Samples), created.Customer))
	writeJSON(w, http.StatusCreated, created)
}

// PrefillCRF returns an unsaved CRF draft built from an approved
// quotation, for the front desk to adjust before creation.
func PrefillCRF(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get("requestId")
	if requestID == "" {
		http.Error(w, "requestId query parameter is required", http.StatusBadRequest)
		return
	}
	draft, err := Store.PrefillCRF(requestID)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func ListCRFs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if status := q.Get("status"); status != "" {
		writeJSON(w, http.StatusOK, Store.ListCRFsByStatus(models.CRFStatus(status)))
		return
	}
	if customer := q.Get("customer"); customer != "" {
		writeJSON(w, http.StatusOK, Store.ListCRFsByCustomer(customer))
		return
	}
	writeJSON(w, http.StatusOK, Store.ListCRFs())
}

func CRFsByStatus(w http.ResponseWriter, r *http.Request) {
	status := models.CRFStatus(mux.Vars(r)["status"])
	writeJSON(w, http.StatusOK, Store.ListCRFsByStatus(status))
}

func CRFsByCustomer(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Store.ListCRFsByCustomer(mux.Vars(r)["customer"]))
}

func GetCRF(w http.ResponseWriter, r *http.Request) {
	crf, err := Store.GetCRF(crfIDVar(r))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, crf)
}

func UpdateCRF(w http.ResponseWriter, r *http.Request) {
	id := crfIDVar(r)
	var upd store.CRFUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	crf, err := Store.UpdateCRF(id, upd)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "update", "crfs", "updated "+id)
	writeJSON(w, http.StatusOK, crf)
}

func UpdateCRFStatus(w http.ResponseWriter, r *http.Request) {
	id := crfIDVar(r)
	var payload statusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	crf, err := Store.UpdateCRFStatus(id, models.CRFStatus(payload.Status), payload.Force)
	if err != nil {
		storeError(w, err)
		return
	}
	action := "status"
	if payload.Force {
		action = "status-forced"
	}
	audit(r, action, "crfs", fmt.Sprintf("%s -> %s", id, payload.Status))
	writeJSON(w, http.StatusOK, crf)
}

// NextCRFStatuses tells the UI which transitions are currently legal.
func NextCRFStatuses(w http.ResponseWriter, r *http.Request) {
	crf, err := Store.GetCRF(crfIDVar(r))
	if err != nil {
		storeError(w, err)
		return
	}
	next := crf.Status.NextStatuses()
	if next == nil {
		next = []models.CRFStatus{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"crfId":  crf.CRFID,
		"status": crf.Status,
		"next":   next,
	})
}
