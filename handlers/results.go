package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lindel.lk/lims/middleware"
	"lindel.lk/lims/models"
)

func SubmitTestResult(w http.ResponseWriter, r *http.Request) {
	id := crfIDVar(r)
	var res models.TestResult
	if err := json.NewDecoder(r.Body).Decode(&res); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	res.CRFID = id
	if res.TestedBy == "" {
		res.TestedBy = middleware.GetUserName(r)
	}
	saved, err := Store.UpsertTestResult(res)
	if err != nil {
		storeError(w, err)
		return
	}
	// A fresh result retires the task on the roster; a resubmission of
	// the same triple does not count twice.
	if saved.CreatedAt.Equal(saved.UpdatedAt) {
		completeChemistTask(id, saved.SampleID, saved.Parameter)
	}
	audit(r, "result", "results", fmt.Sprintf("%s %s %s = %s", id, saved.SampleID, saved.Parameter, saved.TestValue))
	writeJSON(w, http.StatusOK, saved)
}

func ListTestResults(w http.ResponseWriter, r *http.Request) {
	results, err := Store.Results(crfIDVar(r))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
