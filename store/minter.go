package store

import (
	"fmt"

	"lindel.lk/lims/models"
)

// maxSequence is the ceiling of the 3-digit sequence field.
const maxSequence = 999

// Counter scopes. CRF ids and sample ids draw from disjoint counters so
// a CRF id can never collide with a sample id block; the legacy system
// conflated the two.
const (
	scopeCRF    = "crf"
	scopeSample = "sample"
)

type counterKey struct {
	scope   string
	crfType models.CRFType
	year    int
}

// mintID formats a human-readable sequence identifier, e.g. "CS/25/007".
func mintID(kind models.CRFType, yearTwoDigit, seq int) string {
	return fmt.Sprintf("%s/%02d/%03d", kind, yearTwoDigit, seq)
}

// checkCapacity reports whether the named counter can still yield n
// values. Creations pre-check every counter they touch so a failure
// never leaves a gap in an already-advanced sibling counter.
func (s *Store) checkCapacity(key counterKey, n int) error {
	if s.counters[key]+n > maxSequence {
		return fmt.Errorf("%s counter %s/%02d at %d, need %d more: %w",
			key.scope, key.crfType, key.year, s.counters[key], n, ErrOutOfSequence)
	}
	return nil
}

// nextSequence reserves n consecutive values from the named counter and
// returns the first of them. The caller must hold the store's write
// lock; counters are the shared state the single-writer discipline
// exists for.
func (s *Store) nextSequence(key counterKey, n int) (int, error) {
	current := s.counters[key]
	if current+n > maxSequence {
		return 0, fmt.Errorf("%s counter %s/%02d at %d, need %d more: %w",
			key.scope, key.crfType, key.year, current, n, ErrOutOfSequence)
	}
	s.counters[key] = current + n
	if s.persist != nil {
		if err := s.persist.SaveCounter(models.SequenceCounter{
			Scope:   key.scope,
			CRFType: key.crfType,
			Year:    key.year,
			Value:   current + n,
		}); err != nil {
			s.counters[key] = current
			return 0, fmt.Errorf("persist counter: %w", err)
		}
	}
	return current + 1, nil
}
