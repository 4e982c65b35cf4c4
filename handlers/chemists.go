package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"lindel.lk/lims/config"
	"lindel.lk/lims/models"
)

func ListChemists(w http.ResponseWriter, r *http.Request) {
	var chemists []models.Chemist
	query := config.DB.Order("name")
	if r.URL.Query().Get("active") == "true" {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&chemists).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, chemists)
}

func CreateChemist(w http.ResponseWriter, r *http.Request) {
	var c models.Chemist
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if c.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	c.Active = true
	if err := config.DB.Create(&c).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	audit(r, "create", "chemists", "added chemist "+c.Name)
	writeJSON(w, http.StatusCreated, c)
}

func UpdateChemist(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var existing models.Chemist
	if err := config.DB.First(&existing, "id = ?", id).Error; err != nil {
		http.Error(w, "chemist not found", http.StatusNotFound)
		return
	}
	var payload models.Chemist
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	existing.Name = payload.Name
	existing.Email = payload.Email
	existing.Specialization = payload.Specialization
	existing.Active = payload.Active
	if err := config.DB.Save(&existing).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	audit(r, "update", "chemists", "updated chemist "+existing.Name)
	writeJSON(w, http.StatusOK, existing)
}

// ChemistWorkload reports per-chemist open and completed task counts
// for the assignment page's load balancing view.
func ChemistWorkload(w http.ResponseWriter, r *http.Request) {
	var chemists []models.Chemist
	if err := config.DB.Where("active = ?", true).Order("active_tasks desc").Find(&chemists).Error; err != nil {
		http.Error(w, "db error: "+err.Error(), http.StatusInternalServerError)
		return
	}
	type workload struct {
		ChemistID      string `json:"chemistId"`
		ChemistName    string `json:"chemistName"`
		ActiveTasks    int    `json:"activeTasks"`
		CompletedTasks int    `json:"completedTasks"`
	}
	out := make([]workload, 0, len(chemists))
	for _, c := range chemists {
		out = append(out, workload{
			ChemistID:      c.ID.String(),
			ChemistName:    c.Name,
			ActiveTasks:    c.ActiveTasks,
			CompletedTasks: c.CompletedTasks,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
