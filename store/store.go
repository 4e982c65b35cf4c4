package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/datatypes"
	"lindel.lk/lims/models"
)

// Store is the authoritative in-memory collection of workflow entities.
// It is the sole mutator of Request, Quotation, CRF, assignment, result
// and review records; every operation takes the single write lock, which
// also serializes identifier minting so concurrent creations can never
// be issued overlapping id blocks.
//
// When a Persister is attached, every accepted mutation is written
// through before the lock is released. Nothing is ever physically
// deleted by the workflow; status transitions model removal.
type Store struct {
	mu sync.RWMutex

	requests     map[string]*models.Request
	requestOrder []string

	quotations map[string]*models.Quotation // keyed by request id

	crfs     map[string]*models.CRF
	crfOrder []string

	assignments map[string][]models.ParameterAssignment // keyed by CRF id
	results     map[resultKey]*models.TestResult
	reviews     map[string][]models.Review // keyed by CRF id, append-only

	catalog      map[string]*models.TestParameter
	catalogOrder []string

	counters map[counterKey]int

	persist Persister
	now     func() time.Time
}

type resultKey struct {
	crfID     string
	sampleID  string
	parameter string
}

// New returns an empty store with the real clock and no persister.
func New() *Store {
	return &Store{
		requests:    make(map[string]*models.Request),
		quotations:  make(map[string]*models.Quotation),
		crfs:        make(map[string]*models.CRF),
		assignments: make(map[string][]models.ParameterAssignment),
		results:     make(map[resultKey]*models.TestResult),
		reviews:     make(map[string][]models.Review),
		catalog:     make(map[string]*models.TestParameter),
		counters:    make(map[counterKey]int),
		now:         time.Now,
	}
}

// WithPersister attaches a write-through persister.
func (s *Store) WithPersister(p Persister) *Store {
	s.persist = p
	return s
}

// WithClock overrides the store's clock. Tests pin it so minted years
// and timestamps are stable.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// ---- Requests ----

// AddRequest registers a new customer request in status pending. The id
// is derived from the clock and is opaque to callers.
func (s *Store) AddRequest(req models.Request) (*models.Request, error) {
	if req.Customer == "" || req.SampleType == "" {
		return nil, fmt.Errorf("customer and sample type are required: %w", ErrInvalidInput)
	}
	if req.NumberOfSamples <= 0 {
		return nil, fmt.Errorf("number of samples must be positive: %w", ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	req.RequestID = models.NewRequestID(now)
	for s.requests[req.RequestID] != nil {
		now = now.Add(time.Millisecond)
		req.RequestID = models.NewRequestID(now)
	}
	req.Status = models.RequestPending
	req.CreatedAt = now
	req.UpdatedAt = now

	if s.persist != nil {
		if err := s.persist.SaveRequest(&req); err != nil {
			return nil, fmt.Errorf("persist request: %w", err)
		}
	}
	s.requests[req.RequestID] = &req
	s.requestOrder = append(s.requestOrder, req.RequestID)

	out := req
	return &out, nil
}

// UpdateRequestStatus moves a request along pending -> confirmed. Any
// other change requires force, the administrative override.
func (s *Store) UpdateRequestStatus(id string, status models.RequestStatus, force bool) (*models.Request, error) {
	if !models.ValidRequestStatus(status) {
		return nil, fmt.Errorf("unknown request status %q: %w", status, ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	if req.Status == status {
		out := *req
		return &out, nil
	}
	if !force && !req.Status.CanTransition(status) {
		return nil, fmt.Errorf("request %s: %s -> %s: %w", id, req.Status, status, ErrInvalidTransition)
	}

	updated := *req
	updated.Status = status
	updated.UpdatedAt = s.now()
	if s.persist != nil {
		if err := s.persist.SaveRequest(&updated); err != nil {
			return nil, fmt.Errorf("persist request: %w", err)
		}
	}
	*req = updated

	out := updated
	return &out, nil
}

// GetRequest returns the request with the given id.
func (s *Store) GetRequest(id string) (*models.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", id, ErrNotFound)
	}
	out := *req
	return &out, nil
}

// ListRequests returns all requests in creation order.
func (s *Store) ListRequests() []models.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Request, 0, len(s.requestOrder))
	for _, id := range s.requestOrder {
		out = append(out, *s.requests[id])
	}
	return out
}

// ListRequestsByStatus filters requests by status, creation order.
func (s *Store) ListRequestsByStatus(status models.RequestStatus) []models.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Request
	for _, id := range s.requestOrder {
		if s.requests[id].Status == status {
			out = append(out, *s.requests[id])
		}
	}
	return out
}

// ConfirmedRequests returns requests ready for quotation.
func (s *Store) ConfirmedRequests() []models.Request {
	return s.ListRequestsByStatus(models.RequestConfirmed)
}

// ListRequestsByCustomer filters requests by customer name,
// case-insensitive substring match.
func (s *Store) ListRequestsByCustomer(customer string) []models.Request {
	needle := strings.ToLower(customer)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Request
	for _, id := range s.requestOrder {
		if strings.Contains(strings.ToLower(s.requests[id].Customer), needle) {
			out = append(out, *s.requests[id])
		}
	}
	return out
}

// ---- Quotations ----

// CreateQuotation prices a request. One active quotation per request:
// creating again replaces the previous one. Customer fields are snapshot
// copied from the request at this instant, and totals are recomputed
// before the quotation is accepted.
func (s *Store) CreateQuotation(q models.Quotation) (*models.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.requests[q.RequestID]
	if !ok {
		return nil, fmt.Errorf("request %s: %w", q.RequestID, ErrNotFound)
	}

	// Snapshot copy, not a live link. Later edits to the request do
	// not reach the quotation.
	q.Customer = req.Customer
	q.Address = req.Address
	q.Contact = req.Contact
	q.Email = req.Email
	q.Recalculate()

	now := s.now()
	q.CreatedAt = now
	q.UpdatedAt = now
	for i := range q.Items {
		q.Items[i].QuotationID = q.RequestID
	}

	if s.persist != nil {
		if err := s.persist.SaveQuotation(&q); err != nil {
			return nil, fmt.Errorf("persist quotation: %w", err)
		}
	}
	s.quotations[q.RequestID] = &q

	out := cloneQuotation(&q)
	return &out, nil
}

// UpdateQuotation replaces the items and signature of the quotation for
// a request. Totals are recomputed on every edit so grandTotal can never
// drift from the sum of line totals.
func (s *Store) UpdateQuotation(requestID string, items []models.QuotationItem, signature datatypes.JSON) (*models.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotations[requestID]
	if !ok {
		return nil, fmt.Errorf("quotation for request %s: %w", requestID, ErrNotFound)
	}

	updated := cloneQuotation(q)
	updated.Items = make([]models.QuotationItem, len(items))
	copy(updated.Items, items)
	for i := range updated.Items {
		updated.Items[i].QuotationID = requestID
	}
	if signature != nil {
		updated.Signature = signature
	}
	updated.Recalculate()
	updated.UpdatedAt = s.now()

	if s.persist != nil {
		if err := s.persist.SaveQuotation(&updated); err != nil {
			return nil, fmt.Errorf("persist quotation: %w", err)
		}
	}
	*q = cloneQuotation(&updated)

	return &updated, nil
}

// ApproveQuotation marks the quotation for a request as approved.
func (s *Store) ApproveQuotation(requestID string) (*models.Quotation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotations[requestID]
	if !ok {
		return nil, fmt.Errorf("quotation for request %s: %w", requestID, ErrNotFound)
	}
	if q.Approved {
		out := cloneQuotation(q)
		return &out, nil
	}

	updated := cloneQuotation(q)
	updated.Approved = true
	updated.UpdatedAt = s.now()
	if s.persist != nil {
		if err := s.persist.SaveQuotation(&updated); err != nil {
			return nil, fmt.Errorf("persist quotation: %w", err)
		}
	}
	*q = cloneQuotation(&updated)

	return &updated, nil
}

// GetQuotation returns the active quotation for a request.
func (s *Store) GetQuotation(requestID string) (*models.Quotation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotations[requestID]
	if !ok {
		return nil, fmt.Errorf("quotation for request %s: %w", requestID, ErrNotFound)
	}
	out := cloneQuotation(q)
	return &out, nil
}

// ListQuotations returns all active quotations ordered by request id.
func (s *Store) ListQuotations() []models.Quotation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.quotations))
	for id := range s.quotations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]models.Quotation, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneQuotation(s.quotations[id]))
	}
	return out
}

func cloneQuotation(q *models.Quotation) models.Quotation {
	out := *q
	out.Items = make([]models.QuotationItem, len(q.Items))
	copy(out.Items, q.Items)
	return out
}
