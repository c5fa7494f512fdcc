package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/petshop/backend/internal/domain/catalog"
	"github.com/petshop/backend/internal/domain/order"
)

// TransactionScope runs order placement atomically: stock decrements and
// the order row commit together or not at all.
type TransactionScope interface {
	// Execute runs fn within a database transaction. A returned error rolls
	// the transaction back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// StockRepository loads products for a stock change and persists them.
// LockByIDs holds row locks until the transaction ends.
type StockRepository interface {
	LockByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error)
	Save(ctx context.Context, product *catalog.Product) error
}

// TransactionalRepositories provides repositories sharing one transaction
type TransactionalRepositories interface {
	ProductRepo() StockRepository
	OrderRepo() order.OrderRepository
}

// NoOpTransactionScope runs fn without a transaction. Used in tests.
type NoOpTransactionScope struct {
	productRepo StockRepository
	orderRepo   order.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(productRepo StockRepository, orderRepo order.OrderRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{productRepo: productRepo, orderRepo: orderRepo}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ProductRepo() StockRepository {
	return s.productRepo
}

func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
