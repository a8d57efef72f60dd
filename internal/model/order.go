package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order status values. The canonical lifecycle is
// pending -> ready -> completed, with cancellation possible from pending only.
const (
	StatusPending   = "pending"
	StatusReady     = "ready"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// AllStatuses lists every valid status, in lifecycle order.
var AllStatuses = []string{StatusPending, StatusReady, StatusCompleted, StatusCancelled}

// IsValidStatus reports whether s is one of the known order statuses.
func IsValidStatus(s string) bool {
	for _, v := range AllStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order records a purchase of one menu item. TotalPrice is snapshotted from the
// menu price at creation and never changes afterwards. Orders are never deleted;
// the store scope must always equal the menu's store.
type Order struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User         User      `gorm:"foreignKey:UserID" json:"-"`
	MenuID       uuid.UUID `gorm:"type:uuid;not null;index" json:"menu_id"`
	Menu         Menu      `gorm:"foreignKey:MenuID" json:"-"`
	StoreID      uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	Store        Store     `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE;" json:"-"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	TotalPrice   int       `gorm:"not null" json:"total_price"`
	Status       string    `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	DeliveryTime string    `gorm:"type:varchar(5)" json:"delivery_time,omitempty"` // "HH:MM"
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	OrderedAt    time.Time `gorm:"autoCreateTime;index" json:"ordered_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
