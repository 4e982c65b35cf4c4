package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReviewStatus is the outcome of a supervisory review.
type ReviewStatus string

const (
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ValidReviewStatus reports whether s is a known review outcome.
func ValidReviewStatus(s ReviewStatus) bool {
	return s == ReviewApproved || s == ReviewRejected
}

// Review records one supervisory review of a CRF's results. The latest
// review drives the CRF's status; earlier rejected reviews are retained
// as history and never reopen completed stages.
type Review struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"   json:"id"`
	CRFID      string         `gorm:"size:20;index;not null" json:"crfId"`
	ReviewedBy string         `gorm:"size:100;not null"      json:"reviewedBy"`
	Signature  datatypes.JSON `gorm:"type:jsonb"             json:"signature,omitempty"`
	Status     ReviewStatus   `gorm:"size:20;not null"       json:"status"`
	Comments   string         `gorm:"size:1000"              json:"comments,omitempty"`
	ReviewDate JSONTime       `gorm:"column:review_date"     json:"reviewDate"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return
}

func (Review) TableName() string {
	return "reviews"
}
