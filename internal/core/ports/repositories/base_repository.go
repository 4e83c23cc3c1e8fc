package repositories

import (
	"context"
)

// TxStores exposes the stores bound to a single unit of work.
type TxStores interface {
	Accounts() AccountTransactionSupport
	Ledger() LedgerWriter
}

// UnitOfWork runs a function atomically against transaction scoped stores.
// If fn returns an error nothing it wrote is kept. A failed commit is
// reported as apperrors.ErrStoreUnavailable.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores TxStores) error) error
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
