package store

import (
	"fmt"

	"github.com/lib/pq"
	"lindel.lk/lims/models"
)

// UpsertParameter adds or replaces a catalog entry. The catalog drives
// parameter auto-population: forms offer exactly the active parameters
// applicable to the chosen sample type.
func (s *Store) UpsertParameter(p models.TestParameter) error {
	if p.Name == "" {
		return fmt.Errorf("parameter name is required: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.persist != nil {
		if err := s.persist.SaveParameter(&p); err != nil {
			return fmt.Errorf("persist parameter: %w", err)
		}
	}
	if _, ok := s.catalog[p.Name]; !ok {
		s.catalogOrder = append(s.catalogOrder, p.Name)
	}
	s.catalog[p.Name] = &p
	return nil
}

// Parameters returns the full catalog in insertion order.
func (s *Store) Parameters() []models.TestParameter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TestParameter, 0, len(s.catalogOrder))
	for _, name := range s.catalogOrder {
		out = append(out, cloneParameter(s.catalog[name]))
	}
	return out
}

// GetParameter returns one catalog entry by name.
func (s *Store) GetParameter(name string) (*models.TestParameter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.catalog[name]
	if !ok {
		return nil, fmt.Errorf("parameter %q: %w", name, ErrNotFound)
	}
	out := cloneParameter(p)
	return &out, nil
}

// ParametersForSampleType returns the active catalog entries applicable
// to a sample type; this is the legal parameter set a form may offer.
func (s *Store) ParametersForSampleType(sampleType string) []models.TestParameter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.TestParameter
	for _, name := range s.catalogOrder {
		p := s.catalog[name]
		if p.Active && p.AppliesTo(sampleType) {
			out = append(out, cloneParameter(p))
		}
	}
	return out
}

func cloneParameter(p *models.TestParameter) models.TestParameter {
	out := *p
	out.ApplicableSampleTypes = append(pq.StringArray{}, p.ApplicableSampleTypes...)
	return out
}
