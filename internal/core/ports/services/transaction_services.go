package services

import (
	"context"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionEngineSvc performs the balance mutations. Each call either
// applies completely or leaves no trace.
type TransactionEngineSvc interface {
	Deposit(ctx context.Context, username string, amount decimal.Decimal) (*domain.OperationResult, error)
	Withdraw(ctx context.Context, username string, amount decimal.Decimal) (*domain.OperationResult, error)
	// Transfer moves amount between two accounts. An empty description gets a default.
	Transfer(ctx context.Context, fromUsername, toUsername string, amount decimal.Decimal, description string) (*domain.OperationResult, error)
}
