package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ichi1107/bento-order-system/internal/database"
	"github.com/ichi1107/bento-order-system/internal/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
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

func newUser(username string) *model.User {
	return &model.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		Role:           model.AccountTypeCustomer,
		IsActive:       true,
	}
}

func TestRunInTx_CommitsOnSuccess(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	tm := NewTransactionManager(db)

	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		return users.Create(txCtx, newUser("alice"))
	})
	require.NoError(t, err)

	_, err = users.GetByUsername(context.Background(), "alice")
	assert.NoError(t, err)
}

func TestRunInTx_RollsBackAllWritesOnError(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	tm := NewTransactionManager(db)

	boom := errors.New("boom")
	err := tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		if err := users.Create(txCtx, newUser("alice")); err != nil {
			return err
		}
		if err := users.Create(txCtx, newUser("bob")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetDB_JoinsRunningTransaction(t *testing.T) {
	db := newTestDB(t)
	tm := NewTransactionManager(db)

	require.NoError(t, tm.RunInTx(context.Background(), func(txCtx context.Context) error {
		handle := GetDB(txCtx, db)
		if err := handle.Create(newUser("alice")).Error; err != nil {
			return err
		}
		// The write must be visible inside the same transaction.
		var count int64
		if err := handle.Model(&model.User{}).Count(&count).Error; err != nil {
			return err
		}
		assert.Equal(t, int64(1), count)
		return nil
	}))
}

func TestGetDB_FallsBackToRootConnection(t *testing.T) {
	db := newTestDB(t)

	handle := GetDB(context.Background(), db)
	require.NoError(t, handle.Create(newUser("alice")).Error)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
