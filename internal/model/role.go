package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fixed store role names, seeded at migration time.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// Role is one of three fixed positions within a store. Roles are global rows;
// the store scope comes from the user they are assigned to.
type Role struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// UserRole links a store user to a role. Deletion cascades from either side.
type UserRole struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User       User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;" json:"-"`
	RoleID     uuid.UUID `gorm:"type:uuid;not null;index" json:"role_id"`
	Role       Role      `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE;" json:"role"`
	AssignedAt time.Time `gorm:"autoCreateTime" json:"assigned_at"`
}

func (ur *UserRole) BeforeCreate(tx *gorm.DB) error {
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	return nil
}
