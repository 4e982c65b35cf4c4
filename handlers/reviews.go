package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"lindel.lk/lims/middleware"
	"lindel.lk/lims/models"
)

// SubmitReview files the supervisory decision for a CRF sitting in
// review. An approved review moves it to approved, a rejected one sends
// it back to testing.
func SubmitReview(w http.ResponseWriter, r *http.Request) {
	id := crfIDVar(r)
	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	review.CRFID = id
	if review.ReviewedBy == "" {
		review.ReviewedBy = middleware.GetUserName(r)
	}
	saved, err := Store.AddReview(review)
	if err != nil {
		storeError(w, err)
		return
	}
	audit(r, "review", "reviews", fmt.Sprintf("%s reviewed as %s", id, saved.Status))
	writeJSON(w, http.StatusCreated, saved)
}

func ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := Store.Reviews(crfIDVar(r))
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}
