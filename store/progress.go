package store

import (
	"fmt"

	"lindel.lk/lims/models"
)

// StageProgress is the derived workflow-completion view for one CRF's
// pipeline, used by dashboards and timelines. It holds no state of its
// own and is recomputed on every query.
type StageProgress struct {
	CRFID             string `json:"crfId"`
	RequestConfirmed  bool   `json:"requestConfirmed"`
	QuotationApproved bool   `json:"quotationApproved"`
	CRFApproved       bool   `json:"crfApproved"`
	AssignmentsLocked bool   `json:"assignmentsLocked"`
	ResultsSubmitted  bool   `json:"resultsSubmitted"`
	ReviewApproved    bool   `json:"reviewApproved"`
}

// Progress derives the stage-completion view for a CRF purely from the
// current entity state.
//
// A walk-in (LS) CRF has no request or quotation stage; those flags stay
// false rather than vacuously true so the timeline renders the stages as
// skipped. Results count as submitted when every (sample, parameter)
// pair on the CRF has a recorded result.
func (s *Store) Progress(crfID string) (*StageProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	crf, ok := s.crfs[crfID]
	if !ok {
		return nil, fmt.Errorf("crf %s: %w", crfID, ErrNotFound)
	}

	p := &StageProgress{CRFID: crfID}

	if crf.QuotationRef != "" {
		if q, ok := s.quotations[crf.QuotationRef]; ok {
			p.QuotationApproved = q.Approved
			if req, ok := s.requests[q.RequestID]; ok {
				p.RequestConfirmed = req.Status == models.RequestConfirmed
			}
		}
	}

	p.CRFApproved = crf.Status == models.CRFApproved || crf.Status == models.CRFCompleted
	p.AssignmentsLocked = crf.AssignmentsLocked

	expected := len(crf.Samples) * len(crf.TestParameters)
	p.ResultsSubmitted = expected > 0 && s.resultCount(crfID) >= expected

	if outcome, ok := s.latestReviewOutcome(crfID); ok {
		p.ReviewApproved = outcome == models.ReviewApproved
	}

	return p, nil
}
