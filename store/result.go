package store

import (
	"fmt"
	"sort"

	"lindel.lk/lims/models"
)

// UpsertTestResult records the measured value for one (CRF, sample,
// parameter) triple. One result per triple: writing again overwrites.
// The value and remarks are mirrored onto the embedded sample so the
// CRF aggregate reads complete on its own.
func (s *Store) UpsertTestResult(res models.TestResult) (*models.TestResult, error) {
	if res.TestValue == "" {
		return nil, fmt.Errorf("test value is required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	crf, ok := s.crfs[res.CRFID]
	if !ok {
		return nil, fmt.Errorf("crf %s: %w", res.CRFID, ErrNotFound)
	}
	if err := s.checkTriple(crf, res.CRFID, res.SampleID, res.Parameter); err != nil {
		return nil, err
	}

	now := s.now()
	key := resultKey{res.CRFID, res.SampleID, res.Parameter}
	if existing, ok := s.results[key]; ok {
		res.CreatedAt = existing.CreatedAt
	} else {
		res.CreatedAt = now
	}
	res.UpdatedAt = now
	if res.TestedDate.IsZero() {
		res.TestedDate = models.JSONTime(now)
	}

	// Stage both writes on copies and persist before touching the maps,
	// so a failed persist leaves neither the result nor the mirrored
	// sample visible.
	updated := cloneCRF(crf)
	sample := updated.SampleByID(res.SampleID)
	sample.TestValue = res.TestValue
	sample.Remarks = res.Remarks
	sample.UpdatedAt = now
	if s.persist != nil {
		if err := s.persist.SaveResult(&res); err != nil {
			return nil, fmt.Errorf("persist result: %w", err)
		}
		if err := s.persist.SaveCRF(&updated); err != nil {
			return nil, fmt.Errorf("persist crf: %w", err)
		}
	}
	s.results[key] = &res
	*crf = cloneCRF(&updated)

	out := res
	return &out, nil
}

// Results returns all results recorded for a CRF, ordered by sample id
// then parameter.
func (s *Store) Results(crfID string) ([]models.TestResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.crfs[crfID]; !ok {
		return nil, fmt.Errorf("crf %s: %w", crfID, ErrNotFound)
	}
	var out []models.TestResult
	for key, res := range s.results {
		if key.crfID == crfID {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SampleID != out[j].SampleID {
			return out[i].SampleID < out[j].SampleID
		}
		return out[i].Parameter < out[j].Parameter
	})
	return out, nil
}

// resultCount returns the number of results recorded for a CRF. Caller
// holds the lock.
func (s *Store) resultCount(crfID string) int {
	n := 0
	for key := range s.results {
		if key.crfID == crfID {
			n++
		}
	}
	return n
}
