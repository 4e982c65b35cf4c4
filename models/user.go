package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operator roles. The core performs no authorization; the role only
// labels who performed an action.
const (
	RoleAdmin      = "admin"
	RoleFrontDesk  = "frontdesk"
	RoleChemist    = "chemist"
	RoleSupervisor = "supervisor"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Role         string    `gorm:"size:30;not null"`
	IsActive     bool      `gorm:"default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

func (User) TableName() string {
	return "users"
}
