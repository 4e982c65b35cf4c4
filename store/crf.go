package store

import (
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"lindel.lk/lims/models"
)

// AddCRF creates a Customer Request Form and its embedded samples
// atomically. The CRF id is minted from the type's CRF counter and the
// samples from a contiguous block of the type's sample counter; both
// reservations happen under the write lock, so two concurrent creations
// of the same type get disjoint, gap-free blocks.
//
// A CS-type CRF carrying a quotation reference must point at an existing
// approved quotation. Samples always start in draft status with
// generated descriptions unless the caller provided its own.
func (s *Store) AddCRF(crf models.CRF) (*models.CRF, error) {
	if !models.ValidCRFType(crf.CRFType) {
		return nil, fmt.Errorf("unknown CRF type %q: %w", crf.CRFType, ErrInvalidInput)
	}
	if crf.NumberOfSamples <= 0 {
		return nil, fmt.Errorf("number of samples must be positive: %w", ErrInvalidInput)
	}
	if crf.Customer == "" || crf.SampleType == "" {
		return nil, fmt.Errorf("customer and sample type are required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if crf.QuotationRef != "" {
		if crf.CRFType != models.CRFTypeCS {
			return nil, fmt.Errorf("only CS CRFs may reference a quotation: %w", ErrInvalidReference)
		}
		q, ok := s.quotations[crf.QuotationRef]
		if !ok {
			return nil, fmt.Errorf("quotation %s: %w", crf.QuotationRef, ErrNotFound)
		}
		if !q.Approved {
			return nil, fmt.Errorf("quotation %s is not approved: %w", crf.QuotationRef, ErrInvalidReference)
		}
	}

	now := s.now()
	yy := now.Year() % 100

	crfKey := counterKey{scopeCRF, crf.CRFType, yy}
	sampleKey := counterKey{scopeSample, crf.CRFType, yy}
	if err := s.checkCapacity(crfKey, 1); err != nil {
		return nil, err
	}
	if err := s.checkCapacity(sampleKey, crf.NumberOfSamples); err != nil {
		return nil, err
	}
	crfSeq, err := s.nextSequence(crfKey, 1)
	if err != nil {
		return nil, err
	}
	firstSampleSeq, err := s.nextSequence(sampleKey, crf.NumberOfSamples)
	if err != nil {
		return nil, err
	}

	crf.CRFID = mintID(crf.CRFType, yy, crfSeq)
	if _, exists := s.crfs[crf.CRFID]; exists {
		// Counters are the sole id source; a duplicate means the
		// store's invariants are broken, not a bad request.
		log.Printf("FATAL invariant violation: duplicate minted CRF id %s", crf.CRFID)
		return nil, fmt.Errorf("duplicate minted CRF id %s", crf.CRFID)
	}

	provided := crf.Samples
	crf.Samples = make([]models.Sample, crf.NumberOfSamples)
	for i := 0; i < crf.NumberOfSamples; i++ {
		sample := models.Sample{
			SampleID:    mintID(crf.CRFType, yy, firstSampleSeq+i),
			CRFID:       crf.CRFID,
			Description: fmt.Sprintf("Sample %d for %s", i+1, crf.Customer),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if i < len(provided) {
			if provided[i].Description != "" {
				sample.Description = provided[i].Description
			}
			sample.SubmissionDetail = provided[i].SubmissionDetail
			sample.Image = provided[i].Image
		}
		crf.Samples[i] = sample
	}

	crf.Status = models.CRFDraft
	crf.AssignmentsLocked = false
	if crf.ReceptionDate.IsZero() {
		crf.ReceptionDate = models.JSONTime(now)
	}
	crf.CreatedAt = now
	crf.UpdatedAt = now

	if s.persist != nil {
		if err := s.persist.SaveCRF(&crf); err != nil {
			return nil, fmt.Errorf("persist crf: %w", err)
		}
	}
	s.crfs[crf.CRFID] = &crf
	s.crfOrder = append(s.crfOrder, crf.CRFID)

	out := cloneCRF(&crf)
	return &out, nil
}

// PrefillCRF builds an unsaved CS-type CRF from an approved quotation,
// copying customer fields, parameter list, sample type, sample count and
// priority verbatim at this instant. The copy is a snapshot: later edits
// to the quotation or its request do not propagate.
func (s *Store) PrefillCRF(requestID string) (*models.CRF, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotations[requestID]
	if !ok {
		return nil, fmt.Errorf("quotation for request %s: %w", requestID, ErrNotFound)
	}
	if !q.Approved {
		return nil, fmt.Errorf("quotation %s is not approved: %w", requestID, ErrInvalidReference)
	}
	req, ok := s.requests[requestID]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", requestID, ErrNotFound)
	}

	return &models.CRF{
		CRFType:         models.CRFTypeCS,
		Customer:        q.Customer,
		Address:         q.Address,
		Contact:         q.Contact,
		Email:           q.Email,
		SampleType:      req.SampleType,
		TestParameters:  append(pq.StringArray{}, q.ParameterNames()...),
		NumberOfSamples: req.NumberOfSamples,
		SamplingType:    req.SamplingType,
		Priority:        req.Priority,
		QuotationRef:    requestID,
	}, nil
}

// CRFUpdate carries the mutable CRF fields; nil means leave unchanged.
// Status is deliberately absent: transitions go through UpdateCRFStatus.
type CRFUpdate struct {
	Customer       *string
	Address        *string
	Contact        *string
	Email          *string
	SampleType     *string
	TestParameters []string
	SamplingType   *string
	ReceptionDate  *models.JSONTime
	ReceivedBy     *string
	Signature      datatypes.JSON
	SubmissionDate *models.JSONTime
	Priority       *string
	SampleImages   datatypes.JSON
}

// UpdateCRF applies a partial update. Changing the sample type clears
// the previously chosen parameters (they are type-scoped) unless the
// same update supplies a new parameter list.
func (s *Store) UpdateCRF(id string, upd CRFUpdate) (*models.CRF, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	crf, ok := s.crfs[id]
	if !ok {
		return nil, fmt.Errorf("crf %s: %w", id, ErrNotFound)
	}

	updated := cloneCRF(crf)
	if upd.Customer != nil {
		updated.Customer = *upd.Customer
	}
	if upd.Address != nil {
		updated.Address = *upd.Address
	}
	if upd.Contact != nil {
		updated.Contact = *upd.Contact
	}
	if upd.Email != nil {
		updated.Email = *upd.Email
	}
	if upd.SampleType != nil && *upd.SampleType != updated.SampleType {
		updated.SampleType = *upd.SampleType
		updated.TestParameters = nil
	}
	if upd.TestParameters != nil {
		updated.TestParameters = append(pq.StringArray{}, upd.TestParameters...)
	}
	if upd.SamplingType != nil {
		updated.SamplingType = *upd.SamplingType
	}
	if upd.ReceptionDate != nil {
		updated.ReceptionDate = *upd.ReceptionDate
	}
	if upd.ReceivedBy != nil {
		updated.ReceivedBy = *upd.ReceivedBy
	}
	if upd.Signature != nil {
		updated.Signature = upd.Signature
	}
	if upd.SubmissionDate != nil {
		updated.SubmissionDate = *upd.SubmissionDate
	}
	if upd.Priority != nil {
		updated.Priority = *upd.Priority
	}
	if upd.SampleImages != nil {
		updated.SampleImages = upd.SampleImages
	}
	updated.UpdatedAt = s.now()

	if s.persist != nil {
		if err := s.persist.SaveCRF(&updated); err != nil {
			return nil, fmt.Errorf("persist crf: %w", err)
		}
	}
	*crf = cloneCRF(&updated)

	return &updated, nil
}

// UpdateCRFStatus moves a CRF along the strict transition table. The two
// edges out of review additionally require a matching review outcome on
// record, since they are driven by the supervisory decision. force is
// the administrative override and bypasses the table entirely.
func (s *Store) UpdateCRFStatus(id string, next models.CRFStatus, force bool) (*models.CRF, error) {
	if !models.ValidCRFStatus(next) {
		return nil, fmt.Errorf("unknown CRF status %q: %w", next, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transitionCRF(id, next, force)
}

// transitionCRF is the locked core of UpdateCRFStatus, shared with
// AddReview.
func (s *Store) transitionCRF(id string, next models.CRFStatus, force bool) (*models.CRF, error) {
	crf, ok := s.crfs[id]
	if !ok {
		return nil, fmt.Errorf("crf %s: %w", id, ErrNotFound)
	}
	if crf.Status == next {
		out := cloneCRF(crf)
		return &out, nil
	}
	if !force {
		if !crf.Status.CanTransition(next) {
			return nil, fmt.Errorf("crf %s: %s -> %s: %w", id, crf.Status, next, ErrInvalidTransition)
		}
		if crf.Status == models.CRFReview {
			outcome, ok := s.latestReviewOutcome(id)
			switch {
			case next == models.CRFApproved && (!ok || outcome != models.ReviewApproved):
				return nil, fmt.Errorf("crf %s: approval requires an approved review: %w", id, ErrInvalidTransition)
			case next == models.CRFTesting && (!ok || outcome != models.ReviewRejected):
				return nil, fmt.Errorf("crf %s: return to testing requires a rejected review: %w", id, ErrInvalidTransition)
			}
		}
	}

	updated := cloneCRF(crf)
	updated.Status = next
	updated.UpdatedAt = s.now()
	if s.persist != nil {
		if err := s.persist.SaveCRF(&updated); err != nil {
			return nil, fmt.Errorf("persist crf: %w", err)
		}
	}
	*crf = cloneCRF(&updated)

	return &updated, nil
}

// GetCRF returns the CRF with the given minted id.
func (s *Store) GetCRF(id string) (*models.CRF, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	crf, ok := s.crfs[id]
	if !ok {
		return nil, fmt.Errorf("crf %s: %w", id, ErrNotFound)
	}
	out := cloneCRF(crf)
	return &out, nil
}

// ListCRFs returns all CRFs in creation order.
func (s *Store) ListCRFs() []models.CRF {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.CRF, 0, len(s.crfOrder))
	for _, id := range s.crfOrder {
		out = append(out, cloneCRF(s.crfs[id]))
	}
	return out
}

// ListCRFsByStatus filters CRFs by workflow status.
func (s *Store) ListCRFsByStatus(status models.CRFStatus) []models.CRF {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CRF
	for _, id := range s.crfOrder {
		if s.crfs[id].Status == status {
			out = append(out, cloneCRF(s.crfs[id]))
		}
	}
	return out
}

// ListCRFsByCustomer filters CRFs by customer name, case-insensitive
// substring match.
func (s *Store) ListCRFsByCustomer(customer string) []models.CRF {
	needle := strings.ToLower(customer)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.CRF
	for _, id := range s.crfOrder {
		if strings.Contains(strings.ToLower(s.crfs[id].Customer), needle) {
			out = append(out, cloneCRF(s.crfs[id]))
		}
	}
	return out
}

// CountCRFsByStatus returns per-status CRF counts for dashboards.
func (s *Store) CountCRFsByStatus() map[models.CRFStatus]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.CRFStatus]int)
	for _, crf := range s.crfs {
		counts[crf.Status]++
	}
	return counts
}

func cloneCRF(c *models.CRF) models.CRF {
	out := *c
	out.Samples = make([]models.Sample, len(c.Samples))
	copy(out.Samples, c.Samples)
	out.TestParameters = append(pq.StringArray{}, c.TestParameters...)
	return out
}
