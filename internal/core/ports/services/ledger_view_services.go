package services

import (
	"context"

	"github.com/SscSPs/bank_app/internal/core/domain"
)

// ViewProjectorSvc derives read-only views of a user's ledger.
type ViewProjectorSvc interface {
	AccountSummary(ctx context.Context, username string) (*domain.AccountSummary, error)
	LedgerFor(ctx context.Context, username string) ([]domain.LedgerEntry, error)
	LedgerPage(ctx context.Context, username string, limit int, nextToken *string) (*domain.LedgerPage, error)
	AggregateCounts(ctx context.Context, username string) (domain.AggregateCounts, error)
}
