package store

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/lib/pq"
	"lindel.lk/lims/models"
)

func makeCRF(crfType models.CRFType, n int) models.CRF {
	return models.CRF{
		CRFType:         crfType,
		Customer:        "Green Valley Industries",
		SampleType:      "Wastewater",
		TestParameters:  pq.StringArray{"COD", "pH"},
		NumberOfSamples: n,
		Priority:        "Normal",
	}
}

func addTestCRF(t *testing.T, s *Store, crfType models.CRFType, n int) *models.CRF {
	t.Helper()
	crf, err := s.AddCRF(makeCRF(crfType, n))
	if err != nil {
		t.Fatalf("AddCRF: %v", err)
	}
	return crf
}

func TestAddCRFMintsSampleBlock(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeCS, 3)

	if crf.CRFID != "CS/25/001" {
		t.Errorf("crf id = %q, want CS/25/001", crf.CRFID)
	}
	if crf.Status != models.CRFDraft {
		t.Errorf("new crf status = %q, want draft", crf.Status)
	}
	if len(crf.Samples) != crf.NumberOfSamples {
		t.Fatalf("len(samples) = %d, want %d", len(crf.Samples), crf.NumberOfSamples)
	}
	want := []string{"CS/25/001", "CS/25/002", "CS/25/003"}
	for i, sample := range crf.Samples {
		if sample.SampleID != want[i] {
			t.Errorf("sample %d id = %q, want %q", i, sample.SampleID, want[i])
		}
		if sample.CRFID != crf.CRFID {
			t.Errorf("sample %d parent = %q, want %q", i, sample.CRFID, crf.CRFID)
		}
	}
}

func TestSampleSequencesIncreaseAcrossCreations(t *testing.T) {
	s := newTestStore()

	first := addTestCRF(t, s, models.CRFTypeCS, 2)
	second := addTestCRF(t, s, models.CRFTypeCS, 2)

	if second.CRFID != "CS/25/002" {
		t.Errorf("second crf id = %q, want CS/25/002", second.CRFID)
	}
	if got := second.Samples[0].SampleID; got != "CS/25/003" {
		t.Errorf("second block starts at %q, want CS/25/003 (continues after %q)",
			got, first.Samples[len(first.Samples)-1].SampleID)
	}

	// LS runs its own counters, starting at 1 independently.
	walkIn := addTestCRF(t, s, models.CRFTypeLS, 1)
	if walkIn.CRFID != "LS/25/001" || walkIn.Samples[0].SampleID != "LS/25/001" {
		t.Errorf("LS ids = %q / %q, want LS/25/001 for both counters", walkIn.CRFID, walkIn.Samples[0].SampleID)
	}
}

func TestAddCRFValidation(t *testing.T) {
	s := newTestStore()
	tests := []struct {
		name    string
		mutate  func(*models.CRF)
		wantErr error
	}{
		{"zero samples", func(c *models.CRF) { c.NumberOfSamples = 0 }, ErrInvalidInput},
		{"negative samples", func(c *models.CRF) { c.NumberOfSamples = -1 }, ErrInvalidInput},
		{"unknown type", func(c *models.CRF) { c.CRFType = "XX" }, ErrInvalidInput},
		{"missing customer", func(c *models.CRF) { c.Customer = "" }, ErrInvalidInput},
		{"LS with quotation", func(c *models.CRF) { c.CRFType = models.CRFTypeLS; c.QuotationRef = "REQ-1" }, ErrInvalidReference},
		{"dangling quotation", func(c *models.CRF) { c.QuotationRef = "REQ-1" }, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crf := makeCRF(models.CRFTypeCS, 2)
			tt.mutate(&crf)
			if _, err := s.AddCRF(crf); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddCRF error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddCRFRequiresApprovedQuotation(t *testing.T) {
	s := newTestStore()
	req := addTestRequest(t, s)
	if _, err := s.CreateQuotation(makeQuotation(req.RequestID)); err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}

	crf := makeCRF(models.CRFTypeCS, 1)
	crf.QuotationRef = req.RequestID
	if _, err := s.AddCRF(crf); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("unapproved quotation error = %v, want ErrInvalidReference", err)
	}

	if _, err := s.ApproveQuotation(req.RequestID); err != nil {
		t.Fatalf("ApproveQuotation: %v", err)
	}
	if _, err := s.AddCRF(crf); err != nil {
		t.Errorf("AddCRF with approved quotation: %v", err)
	}
}

func TestSequenceOverflow(t *testing.T) {
	s := newTestStore()
	// Drain the CS sample counter close to its ceiling.
	key := counterKey{scopeSample, models.CRFTypeCS, 25}
	s.counters[key] = maxSequence - 1

	if _, err := s.AddCRF(makeCRF(models.CRFTypeCS, 2)); !errors.Is(err, ErrOutOfSequence) {
		t.Fatalf("overflow error = %v, want ErrOutOfSequence", err)
	}
	// The failed creation must not have consumed the CRF counter.
	crf, err := s.AddCRF(makeCRF(models.CRFTypeCS, 1))
	if err != nil {
		t.Fatalf("AddCRF after failed overflow: %v", err)
	}
	if crf.CRFID != "CS/25/001" {
		t.Errorf("crf id = %q, want CS/25/001 (no gap from failed creation)", crf.CRFID)
	}
}

func TestPrefillCRFIsSnapshot(t *testing.T) {
	s := newTestStore()
	req := addTestRequest(t, s)
	if _, err := s.CreateQuotation(makeQuotation(req.RequestID)); err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}

	if _, err := s.PrefillCRF(req.RequestID); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("prefill from unapproved quotation error = %v, want ErrInvalidReference", err)
	}
	if _, err := s.ApproveQuotation(req.RequestID); err != nil {
		t.Fatalf("ApproveQuotation: %v", err)
	}

	draft, err := s.PrefillCRF(req.RequestID)
	if err != nil {
		t.Fatalf("PrefillCRF: %v", err)
	}
	if draft.Customer != "Edinburgh Products (Pvt) Ltd" || draft.NumberOfSamples != 3 {
		t.Errorf("prefill copied %q/%d, want customer and sample count from quotation chain", draft.Customer, draft.NumberOfSamples)
	}

	crf, err := s.AddCRF(*draft)
	if err != nil {
		t.Fatalf("AddCRF: %v", err)
	}

	// Mutating the quotation afterwards must not touch the created CRF.
	if _, err := s.UpdateQuotation(req.RequestID, []models.QuotationItem{{Parameter: "Turbidity", UnitPrice: 800, Quantity: 1}}, nil); err != nil {
		t.Fatalf("UpdateQuotation: %v", err)
	}
	got, err := s.GetCRF(crf.CRFID)
	if err != nil {
		t.Fatalf("GetCRF: %v", err)
	}
	if len(got.TestParameters) != 3 || got.TestParameters[0] != "COD" {
		t.Errorf("crf parameters changed after quotation edit: %v", got.TestParameters)
	}
}

func TestScenarioEdinburghWastewater(t *testing.T) {
	s := newTestStore()

	req := addTestRequest(t, s)
	if _, err := s.UpdateRequestStatus(req.RequestID, models.RequestConfirmed, false); err != nil {
		t.Fatalf("confirm request: %v", err)
	}
	if _, err := s.CreateQuotation(makeQuotation(req.RequestID)); err != nil {
		t.Fatalf("CreateQuotation: %v", err)
	}
	if _, err := s.ApproveQuotation(req.RequestID); err != nil {
		t.Fatalf("ApproveQuotation: %v", err)
	}

	draft, err := s.PrefillCRF(req.RequestID)
	if err != nil {
		t.Fatalf("PrefillCRF: %v", err)
	}
	crf, err := s.AddCRF(*draft)
	if err != nil {
		t.Fatalf("AddCRF: %v", err)
	}

	want := []string{"CS/25/001", "CS/25/002", "CS/25/003"}
	for i, sample := range crf.Samples {
		if sample.SampleID != want[i] {
			t.Errorf("sample %d = %q, want %q", i, sample.SampleID, want[i])
		}
	}
	if crf.Customer != "Edinburgh Products (Pvt) Ltd" {
		t.Errorf("crf customer = %q, want snapshot from quotation", crf.Customer)
	}
	if crf.SampleType != "Wastewater" {
		t.Errorf("crf sample type = %q, want Wastewater", crf.SampleType)
	}
}

func TestUpdateCRFSampleTypeResetsParameters(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeCS, 1)

	soil := "Soil"
	updated, err := s.UpdateCRF(crf.CRFID, CRFUpdate{SampleType: &soil})
	if err != nil {
		t.Fatalf("UpdateCRF: %v", err)
	}
	if len(updated.TestParameters) != 0 {
		t.Errorf("parameters after sample type change = %v, want cleared", updated.TestParameters)
	}

	// Supplying a new list with the type change keeps the new list.
	water := "Drinking Water"
	updated, err = s.UpdateCRF(crf.CRFID, CRFUpdate{SampleType: &water, TestParameters: []string{"Turbidity"}})
	if err != nil {
		t.Fatalf("UpdateCRF: %v", err)
	}
	if len(updated.TestParameters) != 1 || updated.TestParameters[0] != "Turbidity" {
		t.Errorf("parameters = %v, want [Turbidity]", updated.TestParameters)
	}
}

func TestCRFStatusPath(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeLS, 1)

	// The forward chain is the only reachable path without a review.
	forward := []models.CRFStatus{
		models.CRFSubmitted, models.CRFAssigned, models.CRFTesting, models.CRFReview,
	}
	for _, next := range forward {
		if _, err := s.UpdateCRFStatus(crf.CRFID, next, false); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	// Approval out of review needs an approved review on record.
	if _, err := s.UpdateCRFStatus(crf.CRFID, models.CRFApproved, false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("approve without review error = %v, want ErrInvalidTransition", err)
	}
	if _, err := s.AddReview(models.Review{CRFID: crf.CRFID, ReviewedBy: "Dr. Perera", Status: models.ReviewApproved}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	got, err := s.GetCRF(crf.CRFID)
	if err != nil {
		t.Fatalf("GetCRF: %v", err)
	}
	if got.Status != models.CRFApproved {
		t.Errorf("status after approved review = %q, want approved", got.Status)
	}
	if _, err := s.UpdateCRFStatus(crf.CRFID, models.CRFCompleted, false); err != nil {
		t.Fatalf("complete: %v", err)
	}
}

func TestCRFStatusRejectsIllegalJumps(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeLS, 1)

	jumps := []models.CRFStatus{models.CRFTesting, models.CRFReview, models.CRFApproved, models.CRFCompleted, models.CRFAssigned}
	for _, next := range jumps {
		if _, err := s.UpdateCRFStatus(crf.CRFID, next, false); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("draft -> %s error = %v, want ErrInvalidTransition", next, err)
		}
	}

	// force is the explicit administrative override.
	if _, err := s.UpdateCRFStatus(crf.CRFID, models.CRFTesting, true); err != nil {
		t.Errorf("forced jump: %v", err)
	}
}

func TestRejectedReviewReturnsToTesting(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeLS, 1)
	for _, next := range []models.CRFStatus{models.CRFSubmitted, models.CRFAssigned, models.CRFTesting, models.CRFReview} {
		if _, err := s.UpdateCRFStatus(crf.CRFID, next, false); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	if _, err := s.AddReview(models.Review{CRFID: crf.CRFID, ReviewedBy: "Dr. Perera", Status: models.ReviewRejected, Comments: "COD out of range"}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}
	got, err := s.GetCRF(crf.CRFID)
	if err != nil {
		t.Fatalf("GetCRF: %v", err)
	}
	if got.Status != models.CRFTesting {
		t.Errorf("status after rejection = %q, want testing", got.Status)
	}

	// A review can only be filed while the CRF sits in review.
	if _, err := s.AddReview(models.Review{CRFID: crf.CRFID, ReviewedBy: "Dr. Perera", Status: models.ReviewApproved}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("review outside review status error = %v, want ErrInvalidTransition", err)
	}

	history, err := s.Reviews(crf.CRFID)
	if err != nil {
		t.Fatalf("Reviews: %v", err)
	}
	if len(history) != 1 || history[0].Status != models.ReviewRejected {
		t.Errorf("review history = %+v, want the single rejection retained", history)
	}
}

func TestConcurrentCreationsMintDisjointBlocks(t *testing.T) {
	s := newTestStore()

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.AddCRF(makeCRF(models.CRFTypeCS, 2)); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent AddCRF: %v", err)
	}

	seen := make(map[string]bool)
	total := 0
	for _, crf := range s.ListCRFs() {
		for _, sample := range crf.Samples {
			if seen[sample.SampleID] {
				t.Errorf("duplicate sample id %s", sample.SampleID)
			}
			seen[sample.SampleID] = true
			total++
		}
	}
	if total != workers*2 {
		t.Fatalf("minted %d sample ids, want %d", total, workers*2)
	}
	// No duplicates and no gaps: exactly 001..016.
	for seq := 1; seq <= total; seq++ {
		id := fmt.Sprintf("CS/25/%03d", seq)
		if !seen[id] {
			t.Errorf("gap in sample sequence: missing %s", id)
		}
	}
}
