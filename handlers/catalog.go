package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"lindel.lk/lims/models"
)

func ListParameters(w http.ResponseWriter, r *http.Request) {
	if sampleType := r.URL.Query().Get("sampleType"); sampleType != "" {
		writeJSON(w, http.StatusOK, Store.ParametersForSampleType(sampleType))
		return
	}
	writeJSON(w, http.StatusOK, Store.Parameters())
}

func ParametersForSampleType(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, Store.ParametersForSampleType(mux.Vars(r)["type"]))
}

func GetParameter(w http.ResponseWriter, r *http.Request) {
	p, err := Store.GetParameter(mux.Vars(r)["name"])
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpsertParameter lets administrators maintain the analysis catalog:
// price changes, new methods, retiring parameters.
func UpsertParameter(w http.ResponseWriter, r *http.Request) {
	var p models.TestParameter
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	// PUT addresses the parameter by path, the body cannot rename it.
	if name := mux.Vars(r)["name"]; name != "" {
		p.Name = name
	}
	if err := Store.UpsertParameter(p); err != nil {
		storeError(w, err)
		return
	}
	audit(r, "upsert", "catalog", "parameter "+p.Name)
	writeJSON(w, http.StatusOK, p)
}
