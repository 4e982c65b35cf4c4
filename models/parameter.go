package models

import (
	"time"

	"github.com/lib/pq"
)

// TestParameter is one entry in the laboratory's analysis catalog. The
// applicable sample types drive parameter auto-population on request and
// CRF forms: selecting a sample type offers exactly the parameters whose
// ApplicableSampleTypes contain it.
type TestParameter struct {
	Name                  string         `gorm:"primaryKey;size:120"    json:"name"`
	Unit                  string         `gorm:"size:50"                json:"unit"`
	Method                string         `gorm:"size:100"               json:"method"`
	DefaultPrice          float64        `gorm:"not null"               json:"defaultPrice"`
	ApplicableSampleTypes pq.StringArray `gorm:"type:text[]"            json:"applicableSampleTypes"`
	Category              string         `gorm:"size:50"                json:"category,omitempty"`
	Active                bool           `gorm:"not null;default:true"  json:"active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (TestParameter) TableName() string {
	return "test_parameters"
}

// AppliesTo reports whether the parameter is offered for sampleType.
func (p *TestParameter) AppliesTo(sampleType string) bool {
	for _, t := range p.ApplicableSampleTypes {
		if t == sampleType {
			return true
		}
	}
	return false
}
