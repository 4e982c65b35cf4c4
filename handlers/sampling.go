package handlers

import (
	"encoding/json"
	"net/http"

	"lindel.lk/lims/config"
	"lindel.lk/lims/middleware"
	"lindel.lk/lims/models"
	"lindel.lk/lims/utils"
)

// SubmitSampling records an environmental sampling session under its
// CRF: the map reference and the marked collection points. Points are
// validated before anything is stored.
func SubmitSampling(w http.ResponseWriter, r *http.Request) {
	crfID := crfIDVar(r)
	if _, err := Store.GetCRF(crfID); err != nil {
		storeError(w, err)
		return
	}
	var sampling models.EnvironmentalSampling
	if err := json.NewDecoder(r.Body).Decode(&sampling); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	sampling.CRFID = crfID
	if _, err := utils.ParseSamplingPoints(sampling.SamplingPointsData); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if sampling.SubmittedBy == "" {
		sampling.SubmittedBy = middleware.GetUserName(r)
	}
	if err := config.DB.Create(&sampling).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	audit(r, "create", "sampling", "sampling session for "+sampling.CRFID)
	writeJSON(w, http.StatusCreated, sampling)
}

// ListSampling returns the sampling sessions recorded for one CRF.
func ListSampling(w http.ResponseWriter, r *http.Request) {
	crfID := crfIDVar(r)
	if _, err := Store.GetCRF(crfID); err != nil {
		storeError(w, err)
		return
	}
	var sessions []models.EnvironmentalSampling
	if err := config.DB.Order("submitted_at desc").Where("crf_id = ?", crfID).Find(&sessions).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// SamplingGeoJSON renders one session's points as GeoJSON for the map
// overlay.
func SamplingGeoJSON(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	var session models.EnvironmentalSampling
	if err := config.DB.First(&session, "id = ?", id).Error; err != nil {
		http.Error(w, "sampling session not found", http.StatusNotFound)
		return
	}
	points, err := utils.ParseSamplingPoints(session.SamplingPointsData)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	raw, err := utils.SamplingPointsToGeoJSON(points)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(raw)
}
