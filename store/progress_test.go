package store

import (
	"errors"
	"testing"

	"lindel.lk/lims/models"
)

func TestProgressFullPipeline(t *testing.T) {
	s := newTestStore()

	req := addTestRequest(t, s)
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

	p, err := s.Progress(crf.CRFID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if !p.QuotationApproved {
		t.Error("QuotationApproved = false, want true")
	}
	if p.RequestConfirmed {
		t.Error("RequestConfirmed = true before confirmation")
	}
	if p.CRFApproved || p.AssignmentsLocked || p.ResultsSubmitted || p.ReviewApproved {
		t.Errorf("later stages reported complete on a fresh crf: %+v", p)
	}

	// Confirming the request flips the first stage even after the CRF
	// exists; progress is derived, not recorded.
	if _, err := s.UpdateRequestStatus(req.RequestID, models.RequestConfirmed, false); err != nil {
		t.Fatalf("confirm request: %v", err)
	}

	for _, next := range []models.CRFStatus{models.CRFSubmitted, models.CRFAssigned} {
		if _, err := s.UpdateCRFStatus(crf.CRFID, next, false); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	assignAll(t, s, crf, "K. Fernando")
	if err := s.LockAssignments(crf.CRFID); err != nil {
		t.Fatalf("LockAssignments: %v", err)
	}
	if _, err := s.UpdateCRFStatus(crf.CRFID, models.CRFTesting, false); err != nil {
		t.Fatalf("transition to testing: %v", err)
	}

	// Results for all but one pair: still not submitted.
	pairs := 0
	for _, sample := range crf.Samples {
		for _, param := range crf.TestParameters {
			pairs++
			if pairs == len(crf.Samples)*len(crf.TestParameters) {
				break
			}
			if _, err := s.UpsertTestResult(models.TestResult{
				CRFID: crf.CRFID, SampleID: sample.SampleID, Parameter: param,
				TestValue: "ok", TestedBy: "K. Fernando",
			}); err != nil {
				t.Fatalf("UpsertTestResult: %v", err)
			}
		}
	}
	p, err = s.Progress(crf.CRFID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.ResultsSubmitted {
		t.Error("ResultsSubmitted = true with one pair missing")
	}
	if !p.RequestConfirmed || !p.AssignmentsLocked {
		t.Errorf("progress mid-pipeline = %+v, want request and latch stages complete", p)
	}

	last := crf.Samples[len(crf.Samples)-1]
	lastParam := crf.TestParameters[len(crf.TestParameters)-1]
	if _, err := s.UpsertTestResult(models.TestResult{
		CRFID: crf.CRFID, SampleID: last.SampleID, Parameter: lastParam,
		TestValue: "ok", TestedBy: "K. Fernando",
	}); err != nil {
		t.Fatalf("UpsertTestResult: %v", err)
	}

	if _, err := s.UpdateCRFStatus(crf.CRFID, models.CRFReview, false); err != nil {
		t.Fatalf("transition to review: %v", err)
	}
	if _, err := s.AddReview(models.Review{CRFID: crf.CRFID, ReviewedBy: "Dr. Perera", Status: models.ReviewApproved}); err != nil {
		t.Fatalf("AddReview: %v", err)
	}

	p, err = s.Progress(crf.CRFID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	want := StageProgress{
		CRFID:             crf.CRFID,
		RequestConfirmed:  true,
		QuotationApproved: true,
		CRFApproved:       true,
		AssignmentsLocked: true,
		ResultsSubmitted:  true,
		ReviewApproved:    true,
	}
	if *p != want {
		t.Errorf("final progress = %+v, want %+v", *p, want)
	}
}

func TestProgressWalkInSkipsCommercialStages(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeLS, 1)

	p, err := s.Progress(crf.CRFID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.RequestConfirmed || p.QuotationApproved {
		t.Errorf("walk-in progress reports commercial stages: %+v", p)
	}
}

func TestProgressUnknownCRF(t *testing.T) {
	s := newTestStore()
	if _, err := s.Progress("CS/25/404"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Progress error = %v, want ErrNotFound", err)
	}
}
