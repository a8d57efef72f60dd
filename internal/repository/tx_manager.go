package repository

import (
	"context"

	"gorm.io/gorm"
)

type txContextKey struct{}

// TransactionManager runs a group of repository writes as one database
// transaction. Order placement, password resets and role assignment each touch
// more than one table and must never be half-applied.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTransactionManager(db *gorm.DB) TransactionManager {
	return &txManager{db: db}
}

// RunInTx opens a transaction and hands fn a context carrying it. Repository
// calls made with that context join the transaction through GetDB. An error
// from fn rolls the whole batch back.
func (m *txManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// GetDB resolves the handle a repository method should use: the transaction
// carried by ctx when the caller is inside RunInTx, the root connection
// otherwise. Write paths (user, order, role, password reset) go through here
// so the same repository code serves both cases.
func GetDB(ctx context.Context, rootDB *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return rootDB.WithContext(ctx)
}
