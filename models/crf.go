package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// CRFType distinguishes customer-submitted (quotation-backed) intakes
// from lab-service walk-ins.
type CRFType string

const (
	CRFTypeCS CRFType = "CS" // customer submission
	CRFTypeLS CRFType = "LS" // lab service / walk-in
)

// ValidCRFType reports whether t is a known CRF type.
func ValidCRFType(t CRFType) bool {
	return t == CRFTypeCS || t == CRFTypeLS
}

// CRFStatus is the workflow status of a Customer Request Form.
type CRFStatus string

const (
	CRFDraft     CRFStatus = "draft"
	CRFSubmitted CRFStatus = "submitted"
	CRFAssigned  CRFStatus = "assigned"
	CRFTesting   CRFStatus = "testing"
	CRFReview    CRFStatus = "review"
	CRFApproved  CRFStatus = "approved"
	CRFCompleted CRFStatus = "completed"
)

// crfTransitions is the closed transition table. The only edge outside
// the forward chain is review -> testing, taken when a supervisor
// rejects the results.
var crfTransitions = map[CRFStatus][]CRFStatus{
	CRFDraft:     {CRFSubmitted},
	CRFSubmitted: {CRFAssigned},
	CRFAssigned:  {CRFTesting},
	CRFTesting:   {CRFReview},
	CRFReview:    {CRFApproved, CRFTesting},
	CRFApproved:  {CRFCompleted},
	CRFCompleted: {},
}

// ValidCRFStatus reports whether s is a known CRF status.
func ValidCRFStatus(s CRFStatus) bool {
	_, ok := crfTransitions[s]
	return ok
}

// CanTransition reports whether a CRF may move from its current status
// to next under the strict transition table.
func (s CRFStatus) CanTransition(next CRFStatus) bool {
	for _, allowed := range crfTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable in one step from s.
func (s CRFStatus) NextStatuses() []CRFStatus {
	out := make([]CRFStatus, len(crfTransitions[s]))
	copy(out, crfTransitions[s])
	return out
}

// Sample is one physical sample received under a CRF. Samples are
// created atomically with their parent and their count never changes;
// test value and remarks are filled in by data entry.
type Sample struct {
	SampleID         string         `gorm:"primaryKey;size:20"     json:"sampleId"`
	CRFID            string         `gorm:"size:20;index;not null" json:"crfId"`
	Description      string         `gorm:"size:300;not null"      json:"description"`
	SubmissionDetail string         `gorm:"size:300"               json:"submissionDetail"`
	TestValue        string         `gorm:"size:100"               json:"testValue,omitempty"`
	Remarks          string         `gorm:"size:500"               json:"remarks,omitempty"`
	Image            datatypes.JSON `gorm:"type:jsonb"             json:"image,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Sample) TableName() string {
	return "samples"
}

// CRF is the Customer Request Form, the aggregate governing one intake
// batch of samples through the laboratory workflow.
type CRF struct {
	CRFID           string         `gorm:"primaryKey;size:20"       json:"crfId"`
	CRFType         CRFType        `gorm:"size:4;not null"          json:"crfType"`
	Customer        string         `gorm:"size:200;not null;index"  json:"customer"`
	Address         string         `gorm:"size:300"                 json:"address"`
	Contact         string         `gorm:"size:100"                 json:"contact"`
	Email           string         `gorm:"size:100"                 json:"email"`
	SampleType      string         `gorm:"size:100;not null"        json:"sampleType"`
	TestParameters  pq.StringArray `gorm:"type:text[]"              json:"testParameters"`
	NumberOfSamples int            `gorm:"not null"                 json:"numberOfSamples"`
	Samples         []Sample       `gorm:"foreignKey:CRFID"         json:"samples"`
	SamplingType    string         `gorm:"size:50"                  json:"samplingType"`
	ReceptionDate   JSONTime       `gorm:"column:reception_date"    json:"receptionDate"`
	ReceivedBy      string         `gorm:"size:100"                 json:"receivedBy"`
	Signature       datatypes.JSON `gorm:"type:jsonb"               json:"signature,omitempty"`
	SubmissionDate  JSONTime       `gorm:"column:submission_date"   json:"submissionDate"`
	Priority        string         `gorm:"size:20;not null"         json:"priority"`
	QuotationRef    string         `gorm:"size:40"                  json:"quotationRef,omitempty"`
	SampleImages    datatypes.JSON `gorm:"type:jsonb"               json:"sampleImages,omitempty"`
	Status          CRFStatus      `gorm:"size:20;not null;index"   json:"status"`

	// AssignmentsLocked is the one-way latch: once set, parameter
	// assignments under this CRF are immutable.
	AssignmentsLocked bool `gorm:"not null;default:false" json:"assignmentsLocked"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (CRF) TableName() string {
	return "crfs"
}

// HasParameter reports whether name is in the CRF's test parameter set.
func (c *CRF) HasParameter(name string) bool {
	for _, p := range c.TestParameters {
		if p == name {
			return true
		}
	}
	return false
}

// SampleByID returns the embedded sample with the given id, or nil.
func (c *CRF) SampleByID(sampleID string) *Sample {
	for i := range c.Samples {
		if c.Samples[i].SampleID == sampleID {
			return &c.Samples[i]
		}
	}
	return nil
}
