package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Menu is a single sellable item. Price is in the smallest currency unit.
type Menu struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       int       `gorm:"not null" json:"price"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"type:varchar(512)" json:"image_url"`
	IsAvailable bool      `gorm:"default:true" json:"is_available"`
	StoreID     uuid.UUID `gorm:"type:uuid;not null;index" json:"store_id"`
	Store       Store     `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
