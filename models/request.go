package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

// RequestStatus is the lifecycle status of a customer test request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestConfirmed RequestStatus = "confirmed"
)

// ValidRequestStatus reports whether s is a known request status.
func ValidRequestStatus(s RequestStatus) bool {
	return s == RequestPending || s == RequestConfirmed
}

// CanTransition reports whether the request may move from its current
// status to next. Confirmation is one-way; reversal is an administrative
// override, not a workflow step.
func (s RequestStatus) CanTransition(next RequestStatus) bool {
	return s == RequestPending && next == RequestConfirmed
}

// Request is a customer's initial testing request, captured by intake
// staff before any quotation or CRF exists.
type Request struct {
	RequestID       string         `gorm:"primaryKey;size:40"            json:"requestId"`
	Customer        string         `gorm:"size:200;not null;index"       json:"customer"`
	Address         string         `gorm:"size:300"                      json:"address"`
	Contact         string         `gorm:"size:100"                      json:"contact"`
	Email           string         `gorm:"size:100"                      json:"email"`
	SampleType      string         `gorm:"size:100;not null"             json:"sampleType"`
	TestParameters  pq.StringArray `gorm:"type:text[]"                   json:"testParameters"`
	NumberOfSamples int            `gorm:"not null"                      json:"numberOfSamples"`
	SamplingType    string         `gorm:"size:50"                       json:"samplingType"`
	RequestedDate   JSONTime       `gorm:"column:requested_date"         json:"requestedDate"`
	Priority        string         `gorm:"size:20;not null"              json:"priority"`
	Status          RequestStatus  `gorm:"size:20;not null;index"        json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Request) TableName() string {
	return "requests"
}

// NewRequestID derives a request id from the wall clock. Request ids are
// opaque; only CRF and sample ids carry the minted year/sequence format.
func NewRequestID(now time.Time) string {
	return fmt.Sprintf("REQ-%d", now.UnixMilli())
}
