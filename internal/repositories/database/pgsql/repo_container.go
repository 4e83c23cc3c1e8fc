package pgsql

import (
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	unitOfWork := newPgxUnitOfWork(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		LedgerRepo:  ledgerRepo,
		UnitOfWork:  unitOfWork,
		Health:      &BaseRepository{Pool: dbPool},
	}
}
