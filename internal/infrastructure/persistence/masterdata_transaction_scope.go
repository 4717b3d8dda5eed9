package persistence

import (
	"context"

	appmasterdata "github.com/bizcore/backend/internal/application/masterdata"
	"github.com/bizcore/backend/internal/domain/masterdata"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appmasterdata.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Records returns the record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Records() masterdata.RecordRepository {
	return NewGormRecordRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appmasterdata.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appmasterdata.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
