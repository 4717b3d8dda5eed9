package masterdata

import (
	"context"

	"github.com/bizcore/backend/internal/domain/masterdata"
)

// TransactionScope provides transactional access to the record repository.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories taking part
// in a mutation. Everything returned shares the same underlying database
// transaction, so the flag clear, code allocation, record write and child
// reconciliation all commit or roll back together.
type TransactionalRepositories interface {
	// Records returns the record repository scoped to the current transaction
	Records() masterdata.RecordRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. This is useful for testing or when transaction support is
// not required.
type NoOpTransactionScope struct {
	records masterdata.RecordRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repository.
func NewNoOpTransactionScope(records masterdata.RecordRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{records: records}
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Records returns the record repository.
func (s *NoOpTransactionScope) Records() masterdata.RecordRepository {
	return s.records
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
