package service

import (
	"testing"
	"time"

	"github.com/ichi1107/bento-order-system/internal/database"
	"github.com/ichi1107/bento-order-system/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createStore(t *testing.T, db *gorm.DB, name string) *model.Store {
	t.Helper()
	store := &model.Store{
		Name:     name,
		Email:    name + "@example.com",
		IsActive: true,
	}
	require.NoError(t, db.Create(store).Error)
	return store
}

func createCustomer(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		FullName:       username,
		Role:           model.AccountTypeCustomer,
		IsActive:       true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createStaff(t *testing.T, db *gorm.DB, username string, storeID uuid.UUID) *model.User {
	t.Helper()
	user := &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		FullName:       username,
		Role:           model.AccountTypeStore,
		IsActive:       true,
		StoreID:        &storeID,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createMenu(t *testing.T, db *gorm.DB, storeID uuid.UUID, name string, price int) *model.Menu {
	t.Helper()
	menu := &model.Menu{
		Name:        name,
		Price:       price,
		IsAvailable: true,
		StoreID:     storeID,
	}
	require.NoError(t, db.Create(menu).Error)
	return menu
}

// createOrderAt inserts an order directly, bypassing the service, so tests can
// control the status and timestamp.
func createOrderAt(t *testing.T, db *gorm.DB, user *model.User, menu *model.Menu, quantity int, status string, orderedAt time.Time) *model.Order {
	t.Helper()
	order := &model.Order{
		UserID:     user.ID,
		MenuID:     menu.ID,
		StoreID:    menu.StoreID,
		Quantity:   quantity,
		TotalPrice: menu.Price * quantity,
		Status:     status,
		OrderedAt:  orderedAt,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}
