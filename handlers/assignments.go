package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gorm.io/gorm"
	"lindel.lk/lims/config"
	"lindel.lk/lims/models"
)

func SetAssignments(w http.ResponseWriter, r *http.Request) {
	id := crfIDVar(r)
	var assignments []models.ParameterAssignment
	if err := json.NewDecoder(r.Body).Decode(&assignments); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := Store.SetAssignments(id, assignments); err != nil {
		storeError(w, err)
		return
	}
	updateChemistWorkload(assignments)
	audit(r, "assign", "assignments", fmt.Sprintf("%d assignments on %s", len(assignments), id))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func ListAssignments(w http.ResponseWriter, r *http.Request) {
	assignments, err := Store.Assignments(crfIDVar(r))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignments)
}

// LockAssignments flips the CRF's one-way latch. There is no unlock
// endpoint on purpose.
func LockAssignments(w http.ResponseWriter, r *http.Request) {
	id := crfIDVar(r)
	if err := Store.LockAssignments(id); err != nil {
		storeError(w, err)
		return
	}
	audit(r, "lock", "assignments", "locked assignments on "+id)
	writeJSON(w, http.StatusOK, map[string]string{"status": "locked"})
}

// updateChemistWorkload bumps the active task counters on the roster.
// Best effort; the roster is advisory, not part of the workflow state.
func updateChemistWorkload(assignments []models.ParameterAssignment) {
	if config.DB == nil {
		return
	}
	perChemist := make(map[string]int)
	for _, a := range assignments {
		perChemist[a.Chemist]++
	}
	for name, n := range perChemist {
		config.DB.Model(&models.Chemist{}).
			Where("name = ?", name).
			Update("active_tasks", gorm.Expr("active_tasks + ?", n))
	}
}

// chemistForTriple finds who a sample/parameter pair is assigned to.
func chemistForTriple(assignments []models.ParameterAssignment, sampleID, parameter string) string {
	for _, a := range assignments {
		if a.SampleID == sampleID && a.Parameter == parameter {
			return a.Chemist
		}
	}
	return ""
}

// completeChemistTask moves one task on the roster from active to
// completed when its result first lands. Best effort, like
// updateChemistWorkload.
func completeChemistTask(crfID, sampleID, parameter string) {
	if config.DB == nil {
		return
	}
	assignments, err := Store.Assignments(crfID)
	if err != nil {
		return
	}
	name := chemistForTriple(assignments, sampleID, parameter)
	if name == "" {
		return
	}
	config.DB.Model(&models.Chemist{}).
		Where("name = ?", name).
		Updates(map[string]interface{}{
			"active_tasks":    gorm.Expr("GREATEST(active_tasks - 1, 0)"),
			"completed_tasks": gorm.Expr("completed_tasks + 1"),
		})
}
