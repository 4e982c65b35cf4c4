package store

import (
	"fmt"

	"lindel.lk/lims/models"
)

// SetAssignments replaces the parameter assignments for a CRF. Every
// triple must reference a sample embedded in that CRF and a parameter in
// its test parameter set. Rejected entirely once the CRF's assignment
// latch is locked.
func (s *Store) SetAssignments(crfID string, assignments []models.ParameterAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	crf, ok := s.crfs[crfID]
	if !ok {
		return fmt.Errorf("crf %s: %w", crfID, ErrNotFound)
	}
	if crf.AssignmentsLocked {
		return fmt.Errorf("crf %s: %w", crfID, ErrLocked)
	}

	now := s.now()
	stored := make([]models.ParameterAssignment, len(assignments))
	for i, a := range assignments {
		if a.Chemist == "" {
			return fmt.Errorf("assignment %s/%s needs a chemist: %w", a.SampleID, a.Parameter, ErrInvalidInput)
		}
		if err := s.checkTriple(crf, crfID, a.SampleID, a.Parameter); err != nil {
			return err
		}
		a.CRFID = crfID
		a.CreatedAt = now
		a.UpdatedAt = now
		stored[i] = a
	}

	if s.persist != nil {
		if err := s.persist.SaveAssignments(crfID, stored); err != nil {
			return fmt.Errorf("persist assignments: %w", err)
		}
	}
	s.assignments[crfID] = stored
	return nil
}

// LockAssignments sets the one-way latch for a CRF. Idempotent: locking
// twice is the same as locking once, and there is no unlock.
func (s *Store) LockAssignments(crfID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	crf, ok := s.crfs[crfID]
	if !ok {
		return fmt.Errorf("crf %s: %w", crfID, ErrNotFound)
	}
	if crf.AssignmentsLocked {
		return nil
	}

	updated := cloneCRF(crf)
	updated.AssignmentsLocked = true
	updated.UpdatedAt = s.now()
	if s.persist != nil {
		if err := s.persist.SaveCRF(&updated); err != nil {
			return fmt.Errorf("persist crf: %w", err)
		}
	}
	*crf = cloneCRF(&updated)
	return nil
}

// Assignments returns the assignment set for a CRF.
func (s *Store) Assignments(crfID string) ([]models.ParameterAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.crfs[crfID]; !ok {
		return nil, fmt.Errorf("crf %s: %w", crfID, ErrNotFound)
	}
	out := make([]models.ParameterAssignment, len(s.assignments[crfID]))
	copy(out, s.assignments[crfID])
	return out, nil
}

// checkTriple validates that (crfID, sampleID, parameter) points inside
// the CRF. Caller holds the lock.
func (s *Store) checkTriple(crf *models.CRF, crfID, sampleID, parameter string) error {
	if crf.SampleByID(sampleID) == nil {
		return fmt.Errorf("sample %s is not part of crf %s: %w", sampleID, crfID, ErrInvalidReference)
	}
	if !crf.HasParameter(parameter) {
		return fmt.Errorf("parameter %q is not on crf %s: %w", parameter, crfID, ErrInvalidReference)
	}
	return nil
}
