package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog records one operator action against a workflow module.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:100;not null"    json:"username"`
	Action    string    `gorm:"size:50;not null"     json:"action"` // CREATE, UPDATE, TRANSITION, LOCK, ...
	Module    string    `gorm:"size:50;not null;index" json:"module"`
	Details   string    `gorm:"size:2000"            json:"details,omitempty"`
	IPAddress string    `gorm:"size:50"              json:"ipAddress,omitempty"`
	Status    string    `gorm:"size:20;not null"     json:"status"` // Success, Failed
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
