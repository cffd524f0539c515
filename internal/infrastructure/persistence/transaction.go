package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/gestionale/backend/internal/domain/shared"
)

type txContextKey struct{}

// GormTransactionManager runs functions inside a gorm transaction. The
// transactional handle travels in the context, so repositories built on the
// same Database transparently join the transaction.
type GormTransactionManager struct {
	db *gorm.DB
}

// NewGormTransactionManager creates a transaction manager
func NewGormTransactionManager(db *gorm.DB) *GormTransactionManager {
	return &GormTransactionManager{db: db}
}

var _ shared.TransactionManager = (*GormTransactionManager)(nil)

// WithinTransaction runs fn inside one transaction. A nested call reuses the
// transaction already carried by the context.
func (m *GormTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txContextKey{}, tx))
	})
}

// dbFromContext returns the transactional handle carried by the context, or
// the fallback connection.
func dbFromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txContextKey{}).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
