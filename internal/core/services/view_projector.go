package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bank_app/internal/core/ports/services"
	"github.com/SscSPs/bank_app/internal/utils/accounting"
)

// viewProjector derives the dashboard, ledger and count views. It never writes.
type viewProjector struct {
	BaseService
	accountRepo portsrepo.AccountReader
	ledgerRepo  portsrepo.LedgerReader
}

// NewViewProjector creates the read-side service.
func NewViewProjector(accountRepo portsrepo.AccountReader, ledgerRepo portsrepo.LedgerReader, storeTimeout time.Duration) portssvc.ViewProjectorSvc {
	return &viewProjector{
		BaseService: BaseService{StoreTimeout: storeTimeout},
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

var _ portssvc.ViewProjectorSvc = (*viewProjector)(nil)

func (p *viewProjector) AccountSummary(ctx context.Context, username string) (*domain.AccountSummary, error) {
	ctx, cancel := p.WithTimeout(ctx)
	defer cancel()

	account, entries, err := p.ledgerOf(ctx, username)
	if err != nil {
		return nil, err
	}

	recent := entries
	if len(recent) > domain.RecentTransactionsLimit {
		recent = recent[:domain.RecentTransactionsLimit]
	}
	return &domain.AccountSummary{
		Account:            *account,
		Balance:            account.Balance,
		RecentTransactions: recent,
		TotalCount:         len(entries),
	}, nil
}

func (p *viewProjector) LedgerFor(ctx context.Context, username string) ([]domain.LedgerEntry, error) {
	ctx, cancel := p.WithTimeout(ctx)
	defer cancel()

	_, entries, err := p.ledgerOf(ctx, username)
	return entries, err
}

func (p *viewProjector) LedgerPage(ctx context.Context, username string, limit int, nextToken *string) (*domain.LedgerPage, error) {
	ctx, cancel := p.WithTimeout(ctx)
	defer cancel()

	account, err := p.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	txns, next, err := p.ledgerRepo.ListTransactionsByAccountOrUserPage(ctx, account.AccountNumber, account.Username, limit, nextToken)
	if err != nil {
		err = storeErr(ctx, err)
		p.LogFailure(ctx, err, "Failed to page ledger", slog.String("username", account.Username))
		return nil, err
	}
	return &domain.LedgerPage{
		Entries:   accounting.Project(txns, account.AccountNumber),
		NextToken: next,
	}, nil
}

func (p *viewProjector) AggregateCounts(ctx context.Context, username string) (domain.AggregateCounts, error) {
	ctx, cancel := p.WithTimeout(ctx)
	defer cancel()

	_, entries, err := p.ledgerOf(ctx, username)
	if err != nil {
		return domain.AggregateCounts{}, err
	}
	return accounting.CountBuckets(entries), nil
}

func (p *viewProjector) resolve(ctx context.Context, username string) (*domain.Account, error) {
	username = normalizeUsername(username)
	account, err := p.accountRepo.FindAccountByUsername(ctx, username)
	if err != nil {
		err = storeErr(ctx, err)
		p.LogError(ctx, err, "Failed to find account", slog.String("username", username))
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, username)
	}
	return account, nil
}

func (p *viewProjector) ledgerOf(ctx context.Context, username string) (*domain.Account, []domain.LedgerEntry, error) {
	account, err := p.resolve(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	txns, err := p.ledgerRepo.ListTransactionsByAccountOrUser(ctx, account.AccountNumber, account.Username)
	if err != nil {
		err = storeErr(ctx, err)
		p.LogError(ctx, err, "Failed to list ledger", slog.String("username", account.Username))
		return nil, nil, err
	}
	return account, accounting.Project(txns, account.AccountNumber), nil
}
