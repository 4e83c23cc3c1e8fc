package pgsql

import (
	"context"

	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxUnitOfWork runs a function inside one database transaction.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// pgxTxStores binds the account and ledger operations to a pgx.Tx.
type pgxTxStores struct {
	tx pgx.Tx
}

var (
	_ portsrepo.TxStores                  = (*pgxTxStores)(nil)
	_ portsrepo.AccountTransactionSupport = (*pgxTxStores)(nil)
	_ portsrepo.LedgerWriter              = (*pgxTxStores)(nil)
)

func (s *pgxTxStores) Accounts() portsrepo.AccountTransactionSupport { return s }
func (s *pgxTxStores) Ledger() portsrepo.LedgerWriter                { return s }

func (s *pgxTxStores) FindAccountsByUsernamesForUpdate(ctx context.Context, usernames []string) (map[string]domain.Account, error) {
	return findAccountsByUsernamesForUpdate(ctx, s.tx, usernames)
}

func (s *pgxTxStores) SetBalance(ctx context.Context, accountID string, expected, newBalance decimal.Decimal) error {
	return setBalance(ctx, s.tx, accountID, expected, newBalance)
}

func (s *pgxTxStores) AppendTransaction(ctx context.Context, entry domain.Transaction) (*domain.Transaction, error) {
	return appendTransaction(ctx, s.tx, entry)
}

// Do begins a transaction, runs fn and commits. Any error from fn rolls back.
func (u *PgxUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores portsrepo.TxStores) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	// Will be ignored if transaction is committed successfully
	defer u.Rollback(ctx, tx)

	if err := fn(ctx, &pgxTxStores{tx: tx}); err != nil {
		return err
	}

	// The AppError returned on failure unwraps to apperrors.ErrStoreUnavailable.
	return u.Commit(ctx, tx)
}
