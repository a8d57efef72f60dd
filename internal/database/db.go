package database

import (
	"log"

	"github.com/ichi1107/bento-order-system/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}

// Migrate auto-migrates all core models and seeds the fixed roles.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Store{},
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.Menu{},
		&model.Order{},
		&model.PasswordResetToken{},
	); err != nil {
		return err
	}
	return SeedRoles(db)
}

// SeedRoles ensures the three fixed store roles exist. Existing rows are left
// untouched so descriptions can be edited in place.
func SeedRoles(db *gorm.DB) error {
	roles := []model.Role{
		{Name: model.RoleOwner, Description: "Store owner with full control"},
		{Name: model.RoleManager, Description: "Manages menus and orders"},
		{Name: model.RoleStaff, Description: "Handles day-to-day orders"},
	}
	for _, r := range roles {
		var count int64
		if err := db.Model(&model.Role{}).Where("name = ?", r.Name).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			if err := db.Create(&r).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
