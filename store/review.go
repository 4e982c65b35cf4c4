package store

import (
	"fmt"

	"github.com/google/uuid"
	"lindel.lk/lims/models"
)

// AddReview records a supervisory review of a CRF in review status and
// applies its outcome: an approved review advances the CRF to approved,
// a rejected one returns it to testing. Review history is append-only;
// an old rejection never reopens a stage.
func (s *Store) AddReview(review models.Review) (*models.Review, error) {
	if !models.ValidReviewStatus(review.Status) {
		return nil, fmt.Errorf("unknown review status %q: %w", review.Status, ErrInvalidInput)
	}
	if review.ReviewedBy == "" {
		return nil, fmt.Errorf("reviewer is required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	crf, ok := s.crfs[review.CRFID]
	if !ok {
		return nil, fmt.Errorf("crf %s: %w", review.CRFID, ErrNotFound)
	}
	if crf.Status != models.CRFReview {
		return nil, fmt.Errorf("crf %s is in %s, not review: %w", review.CRFID, crf.Status, ErrInvalidTransition)
	}

	now := s.now()
	review.ID = uuid.New()
	review.CreatedAt = now
	if review.ReviewDate.IsZero() {
		review.ReviewDate = models.JSONTime(now)
	}

	if s.persist != nil {
		if err := s.persist.SaveReview(&review); err != nil {
			return nil, fmt.Errorf("persist review: %w", err)
		}
	}
	s.reviews[review.CRFID] = append(s.reviews[review.CRFID], review)

	next := models.CRFApproved
	if review.Status == models.ReviewRejected {
		next = models.CRFTesting
	}
	if _, err := s.transitionCRF(review.CRFID, next, false); err != nil {
		return nil, err
	}

	out := review
	return &out, nil
}

// Reviews returns the review history for a CRF, oldest first.
func (s *Store) Reviews(crfID string) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.crfs[crfID]; !ok {
		return nil, fmt.Errorf("crf %s: %w", crfID, ErrNotFound)
	}
	out := make([]models.Review, len(s.reviews[crfID]))
	copy(out, s.reviews[crfID])
	return out, nil
}

// latestReviewOutcome returns the outcome of the most recent review for
// a CRF. Caller holds the lock.
func (s *Store) latestReviewOutcome(crfID string) (models.ReviewStatus, bool) {
	history := s.reviews[crfID]
	if len(history) == 0 {
		return "", false
	}
	return history[len(history)-1].Status, true
}
