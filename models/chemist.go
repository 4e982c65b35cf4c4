package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Chemist is a bench analyst who can be assigned test parameters. The
// workload counters are adjusted when assignments are set and when
// results come in, so the assignment page can balance load.
type Chemist struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name           string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Email          string    `gorm:"size:100"                  json:"email,omitempty"`
	Specialization string    `gorm:"size:100"                  json:"specialization,omitempty"`
	ActiveTasks    int       `gorm:"not null;default:0"        json:"activeTasks"`
	CompletedTasks int       `gorm:"not null;default:0"        json:"completedTasks"`
	Active         bool      `gorm:"not null;default:true"     json:"active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (c *Chemist) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return
}

func (Chemist) TableName() string {
	return "chemists"
}
