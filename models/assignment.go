package models

import "time"

// ParameterAssignment maps one (CRF, sample, parameter) triple to the
// chemist, method and due date for its test. The whole set for a CRF
// becomes immutable once the CRF's assignment latch is locked.
type ParameterAssignment struct {
	CRFID     string   `gorm:"primaryKey;size:20"  json:"crfId"`
	SampleID  string   `gorm:"primaryKey;size:20"  json:"sampleId"`
	Parameter string   `gorm:"primaryKey;size:120" json:"parameter"`
	Unit      string   `gorm:"size:50"             json:"unit"`
	Method    string   `gorm:"size:100"            json:"method"`
	Chemist   string   `gorm:"size:100;not null"   json:"chemist"`
	DueDate   JSONTime `gorm:"column:due_date"     json:"dueDate"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ParameterAssignment) TableName() string {
	return "parameter_assignments"
}
