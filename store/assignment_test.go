package store

import (
	"errors"
	"testing"

	"lindel.lk/lims/models"
)

func assignAll(t *testing.T, s *Store, crf *models.CRF, chemist string) {
	t.Helper()
	var set []models.ParameterAssignment
	for _, sample := range crf.Samples {
		for _, param := range crf.TestParameters {
			set = append(set, models.ParameterAssignment{
				SampleID:  sample.SampleID,
				Parameter: param,
				Chemist:   chemist,
			})
		}
	}
	if err := s.SetAssignments(crf.CRFID, set); err != nil {
		t.Fatalf("SetAssignments: %v", err)
	}
}

func TestSetAssignmentsReplacesSet(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeCS, 2)

	assignAll(t, s, crf, "K. Fernando")
	got, err := s.Assignments(crf.CRFID)
	if err != nil {
		t.Fatalf("Assignments: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len(assignments) = %d, want 4", len(got))
	}

	// A second call replaces the whole set, it does not append.
	one := []models.ParameterAssignment{{
		SampleID:  crf.Samples[0].SampleID,
		Parameter: "COD",
		Chemist:   "S. Jayasinghe",
		Method:    "APHA 5220 D",
	}}
	if err := s.SetAssignments(crf.CRFID, one); err != nil {
		t.Fatalf("SetAssignments: %v", err)
	}
	got, err = s.Assignments(crf.CRFID)
	if err != nil {
		t.Fatalf("Assignments: %v", err)
	}
	if len(got) != 1 || got[0].Chemist != "S. Jayasinghe" {
		t.Errorf("assignments after replace = %+v, want the single new entry", got)
	}
	if got[0].CRFID != crf.CRFID {
		t.Errorf("assignment crf = %q, want %q", got[0].CRFID, crf.CRFID)
	}
}

func TestSetAssignmentsValidatesTriples(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeCS, 1)

	tests := []struct {
		name    string
		entry   models.ParameterAssignment
		wantErr error
	}{
		{"foreign sample", models.ParameterAssignment{SampleID: "CS/25/099", Parameter: "COD", Chemist: "K. Fernando"}, ErrInvalidReference},
		{"parameter not on crf", models.ParameterAssignment{SampleID: crf.Samples[0].SampleID, Parameter: "Turbidity", Chemist: "K. Fernando"}, ErrInvalidReference},
		{"missing chemist", models.ParameterAssignment{SampleID: crf.Samples[0].SampleID, Parameter: "COD"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.SetAssignments(crf.CRFID, []models.ParameterAssignment{tt.entry})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetAssignments error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := s.SetAssignments("CS/25/404", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown crf error = %v, want ErrNotFound", err)
	}
}

func TestLockAssignmentsIsOneWay(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeCS, 1)
	assignAll(t, s, crf, "K. Fernando")

	if err := s.LockAssignments(crf.CRFID); err != nil {
		t.Fatalf("LockAssignments: %v", err)
	}
	// Idempotent.
	if err := s.LockAssignments(crf.CRFID); err != nil {
		t.Fatalf("second LockAssignments: %v", err)
	}
	got, err := s.GetCRF(crf.CRFID)
	if err != nil {
		t.Fatalf("GetCRF: %v", err)
	}
	if !got.AssignmentsLocked {
		t.Fatal("latch not set after LockAssignments")
	}

	err = s.SetAssignments(crf.CRFID, []models.ParameterAssignment{{
		SampleID: crf.Samples[0].SampleID, Parameter: "COD", Chemist: "S. Jayasinghe",
	}})
	if !errors.Is(err, ErrLocked) {
		t.Errorf("SetAssignments on locked crf error = %v, want ErrLocked", err)
	}

	// Results stay writable after the latch; only the assignment set is frozen.
	if _, err := s.UpsertTestResult(models.TestResult{
		CRFID: crf.CRFID, SampleID: crf.Samples[0].SampleID, Parameter: "COD",
		TestValue: "412 mg/L", TestedBy: "K. Fernando",
	}); err != nil {
		t.Errorf("UpsertTestResult after lock: %v", err)
	}
}

func TestUpsertTestResultOverwrites(t *testing.T) {
	s := newTestStore()
	crf := addTestCRF(t, s, models.CRFTypeCS, 1)
	sampleID := crf.Samples[0].SampleID

	first, err := s.UpsertTestResult(models.TestResult{
		CRFID: crf.CRFID, SampleID: sampleID, Parameter: "COD",
		TestValue: "412 mg/L", TestedBy: "K. Fernando",
	})
	if err != nil {
		t.Fatalf("UpsertTestResult: %v", err)
	}
	second, err := s.UpsertTestResult(models.TestResult{
		CRFID: crf.CRFID, SampleID: sampleID, Parameter: "COD",
		TestValue: "398 mg/L", Remarks: "re-run after dilution", TestedBy: "K. Fernando",
	})
	if err != nil {
		t.Fatalf("second UpsertTestResult: %v", err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("overwrite changed CreatedAt: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	// A resubmission is distinguishable from a first submission; the
	// roster completion hook keys on this.
	if second.UpdatedAt.Equal(second.CreatedAt) {
		t.Errorf("overwrite left UpdatedAt == CreatedAt (%v)", second.UpdatedAt)
	}

	results, err := s.Results(crf.CRFID)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if len(results) != 1 || results[0].TestValue != "398 mg/L" {
		t.Errorf("results = %+v, want single overwritten entry", results)
	}

	// The value is mirrored onto the embedded sample.
	got, err := s.GetCRF(crf.CRFID)
	if err != nil {
		t.Fatalf("GetCRF: %v", err)
	}
	if got.Samples[0].TestValue != "398 mg/L" || got.Samples[0].Remarks != "re-run after dilution" {
		t.Errorf("sample mirror = %q/%q, want latest result", got.Samples[0].TestValue, got.Samples[0].Remarks)
	}

	if _, err := s.UpsertTestResult(models.TestResult{
		CRFID: crf.CRFID, SampleID: sampleID, Parameter: "COD",
	}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty value error = %v, want ErrInvalidInput", err)
	}
	if _, err := s.UpsertTestResult(models.TestResult{
		CRFID: crf.CRFID, SampleID: "CS/25/099", Parameter: "COD", TestValue: "1",
	}); !errors.Is(err, ErrInvalidReference) {
		t.Errorf("foreign sample error = %v, want ErrInvalidReference", err)
	}
}
