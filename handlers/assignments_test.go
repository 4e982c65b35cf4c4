package handlers

import (
	"testing"

	"lindel.lk/lims/models"
)

func TestChemistForTriple(t *testing.T) {
	assignments := []models.ParameterAssignment{
		{SampleID: "CS/25/002", Parameter: "COD", Chemist: "W.M. Perera"},
		{SampleID: "CS/25/002", Parameter: "pH", Chemist: "D.H.S. Costa"},
		{SampleID: "CS/25/003", Parameter: "COD", Chemist: "D.H.S. Costa"},
	}

	tests := []struct {
		name      string
		sampleID  string
		parameter string
		want      string
	}{
		{"assigned pair", "CS/25/002", "COD", "W.M. Perera"},
		{"same sample other parameter", "CS/25/002", "pH", "D.H.S. Costa"},
		{"same parameter other sample", "CS/25/003", "COD", "D.H.S. Costa"},
		{"unassigned pair", "CS/25/003", "pH", ""},
		{"unknown sample", "CS/25/099", "COD", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := chemistForTriple(assignments, tt.sampleID, tt.parameter); got != tt.want {
				t.Errorf("chemistForTriple(%s, %s) = %q, want %q", tt.sampleID, tt.parameter, got, tt.want)
			}
		})
	}
}
