package handlers

import (
	"net/http"

	"lindel.lk/lims/models"
)

func GetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := Store.Progress(crfIDVar(r))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DashboardStats aggregates the landing-page numbers from live state.
func DashboardStats(w http.ResponseWriter, r *http.Request) {
	byStatus := Store.CountCRFsByStatus()
	total := 0
	for _, n := range byStatus {
		total += n
	}
	inProgress := byStatus[models.CRFTesting] + byStatus[models.CRFAssigned] + byStatus[models.CRFSubmitted]

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"totalCrfs":       total,
		"byStatus":        byStatus,
		"inProgress":      inProgress,
		"awaitingReview":  byStatus[models.CRFReview],
		"completed":       byStatus[models.CRFCompleted],
		"pendingRequests": len(Store.ListRequestsByStatus(models.RequestPending)),
	})
}
