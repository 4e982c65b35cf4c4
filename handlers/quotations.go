package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"
	"lindel.lk/lims/models"
)

func CreateQuotation(w http.ResponseWriter, r *http.Request) {
	var q models.Quotation
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	created, err := Store.CreateQuotation(q)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "create", "quotations", fmt.Sprintf("quotation for request %s, total %.2f", created.RequestID, created.GrandTotal))
	writeJSON(w, http.StatusCreated, created)
}

func ListQuotations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Store.ListQuotations())
}

func GetQuotation(w http.ResponseWriter, r *http.Request) {
	q, err := Store.GetQuotation(mux.Vars(r)["id"])
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

type quotationUpdatePayload struct {
	Items     []models.QuotationItem `json:"items"`
	Signature datatypes.JSON         `json:"signature,omitempty"`
}

func UpdateQuotation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var payload quotationUpdatePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	q, err := Store.UpdateQuotation(id, payload.Items, payload.Signature)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "update", "quotations", fmt.Sprintf("quotation for request %s, total %.2f", id, q.GrandTotal))
	writeJSON(w, http.StatusOK, q)
}

func ApproveQuotation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	q, err := Store.ApproveQuotation(id)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "approve", "quotations", "approved quotation for request "+id)
	writeJSON(w, http.StatusOK, q)
}
