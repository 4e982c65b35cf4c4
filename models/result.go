package models

import "time"

// TestResult holds the measured value for one (CRF, sample, parameter)
// triple. One result per triple; writes are upserts keyed on the triple.
type TestResult struct {
	CRFID      string   `gorm:"primaryKey;size:20"  json:"crfId"`
	SampleID   string   `gorm:"primaryKey;size:20"  json:"sampleId"`
	Parameter  string   `gorm:"primaryKey;size:120" json:"parameter"`
	TestValue  string   `gorm:"size:100;not null"   json:"testValue"`
	Remarks    string   `gorm:"size:500"            json:"remarks,omitempty"`
	TestedBy   string   `gorm:"size:100;not null"   json:"testedBy"`
	TestedDate JSONTime `gorm:"column:tested_date"  json:"testedDate"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (TestResult) TableName() string {
	return "test_results"
}
