package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Account type values for User.Role.
const (
	AccountTypeCustomer = "customer"
	AccountTypeStore    = "store"
)

// User represents both customers and store staff. Store accounts carry a StoreID
// and exactly one role assignment (enforced by the service layer, not the schema).
type User struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Username       string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string     `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string     `gorm:"type:varchar(255)" json:"full_name"`
	Role           string     `gorm:"type:varchar(50);not null" json:"role"` // customer, store
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	StoreID        *uuid.UUID `gorm:"type:uuid;index" json:"store_id,omitempty"`
	Store          *Store     `gorm:"foreignKey:StoreID;constraint:OnDelete:SET NULL;" json:"-"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`

	UserRoles []UserRole `gorm:"foreignKey:UserID" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// PasswordResetToken is a single-use token tied to an email address.
type PasswordResetToken struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	Email     string     `gorm:"type:varchar(255);not null;index" json:"email"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
