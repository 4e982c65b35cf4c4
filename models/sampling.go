package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnvironmentalSampling stores the capture-layer payload for on-site
// sampling under a CRF: the annotated map or floor plan and the marked
// sampling points. Point data is stored verbatim; the core only checks
// coordinate sanity before accepting it.
type EnvironmentalSampling struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey"   json:"id"`
	CRFID              string         `gorm:"size:20;index;not null" json:"crfId"`
	MapType            string         `gorm:"size:50;not null"       json:"mapType"`
	SamplingPointsData datatypes.JSON `gorm:"type:jsonb;not null"    json:"samplingPointsData"`
	MapImage           datatypes.JSON `gorm:"type:jsonb"             json:"mapImage,omitempty"`
	SubmittedBy        string         `gorm:"size:100"               json:"submittedBy"`
	SubmittedAt        time.Time      `gorm:"autoCreateTime"         json:"submittedAt"`
}

func (e *EnvironmentalSampling) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return
}

func (EnvironmentalSampling) TableName() string {
	return "environmental_sampling"
}
