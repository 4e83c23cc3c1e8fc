package memory

import (
	"context"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// txStores stages writes made inside a unit of work. Nothing reaches the Store
// until the unit's function returns without error.
type txStores struct {
	s        *Store
	balances map[string]decimal.Decimal // staged balances by account id
	appended []domain.Transaction
}

var (
	_ repositories.TxStores                  = (*txStores)(nil)
	_ repositories.AccountTransactionSupport = (*txStores)(nil)
	_ repositories.LedgerWriter              = (*txStores)(nil)
)

func (t *txStores) Accounts() repositories.AccountTransactionSupport { return t }
func (t *txStores) Ledger() repositories.LedgerWriter                { return t }

func (t *txStores) balanceOf(acc domain.Account) decimal.Decimal {
	if b, ok := t.balances[acc.AccountID]; ok {
		return b
	}
	return acc.Balance
}

func (t *txStores) FindAccountsByUsernamesForUpdate(ctx context.Context, usernames []string) (map[string]domain.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	out := make(map[string]domain.Account, len(usernames))
	for _, u := range usernames {
		id, ok := t.s.idByUsername[normalizeUsername(u)]
		if !ok {
			continue
		}
		acc := t.s.accounts[id]
		acc.Balance = t.balanceOf(acc)
		out[acc.Username] = acc
	}
	return out, nil
}

func (t *txStores) SetBalance(ctx context.Context, accountID string, expected, newBalance decimal.Decimal) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	acc, ok := t.s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !t.balanceOf(acc).Equal(expected) {
		return apperrors.ErrConcurrentUpdate
	}
	t.balances[accountID] = newBalance
	return nil
}

func (t *txStores) AppendTransaction(ctx context.Context, entry domain.Transaction) (*domain.Transaction, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	stored := t.s.stampLocked(entry)
	t.appended = append(t.appended, stored)
	return &stored, nil
}

// Do runs fn while holding the store lock and applies its staged writes only
// when fn succeeds and the context is still live.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, stores repositories.TxStores) error) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txStores{s: s, balances: make(map[string]decimal.Decimal)}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	// Commit point.
	if err := ctxErr(ctx); err != nil {
		return err
	}

	now := s.now().UTC()
	for id, bal := range tx.balances {
		acc := s.accounts[id]
		acc.Balance = bal
		acc.LastUpdatedAt = now
		s.accounts[id] = acc
	}
	s.ledger = append(s.ledger, tx.appended...)
	return nil
}
