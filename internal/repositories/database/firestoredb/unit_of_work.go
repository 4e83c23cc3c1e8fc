package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_app/internal/models"
	"github.com/SscSPs/bank_app/internal/utils/mapping"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// txHandle is the part of *firestore.Transaction a unit of work uses.
type txHandle interface {
	Get(dr *firestore.DocumentRef) (*firestore.DocumentSnapshot, error)
	Documents(q firestore.Queryer) *firestore.DocumentIterator
	Update(dr *firestore.DocumentRef, data []firestore.Update, opts ...firestore.Precondition) error
	Create(dr *firestore.DocumentRef, data interface{}) error
}

var _ txHandle = (*firestore.Transaction)(nil)

// lockedAccount is an account read inside the unit together with its
// ledger sequence counter. Staged changes are applied to it in place.
type lockedAccount struct {
	domain.Account
	ledgerSeq int64
}

type stagedCreate struct {
	ref *firestore.DocumentRef
	doc models.TransactionDocument
}

// txStores reads through the Firestore transaction immediately but queues
// writes, because Firestore rejects reads issued after the first write.
// The queue is flushed once the unit's function has returned.
//
// Ledger sequences live on the account documents: an entry takes one more
// than the highest counter of the accounts it touches, and those counters
// move up to it. Every entry in an account's ledger touches that account,
// so sequences grow strictly within each ledger, and the only documents
// contended are the ones the unit already writes.
type txStores struct {
	s  *Store
	tx txHandle

	accounts map[string]*lockedAccount // by account id
	byNumber map[string]string         // account number to account id
	dirty    []string                  // account ids with staged changes, first touch first
	creates  []stagedCreate
}

var (
	_ portsrepo.TxStores                  = (*txStores)(nil)
	_ portsrepo.AccountTransactionSupport = (*txStores)(nil)
	_ portsrepo.LedgerWriter              = (*txStores)(nil)
)

func newTxStores(s *Store, tx txHandle) *txStores {
	return &txStores{
		s:        s,
		tx:       tx,
		accounts: make(map[string]*lockedAccount),
		byNumber: make(map[string]string),
	}
}

func (t *txStores) Accounts() portsrepo.AccountTransactionSupport { return t }
func (t *txStores) Ledger() portsrepo.LedgerWriter                { return t }

// remember records a freshly read account. An account already held keeps its staged state.
func (t *txStores) remember(acc domain.Account, ledgerSeq int64) *lockedAccount {
	if held, ok := t.accounts[acc.AccountID]; ok {
		return held
	}
	held := &lockedAccount{Account: acc, ledgerSeq: ledgerSeq}
	t.accounts[acc.AccountID] = held
	t.byNumber[acc.AccountNumber] = acc.AccountID
	return held
}

func (t *txStores) rememberSnapshot(snap *firestore.DocumentSnapshot) (*lockedAccount, error) {
	acc, seq, err := decodeAccountWithSeq(snap)
	if err != nil {
		return nil, err
	}
	return t.remember(acc, seq), nil
}

func (t *txStores) markDirty(accountID string) {
	for _, id := range t.dirty {
		if id == accountID {
			return
		}
	}
	t.dirty = append(t.dirty, accountID)
}

func (t *txStores) FindAccountsByUsernamesForUpdate(ctx context.Context, usernames []string) (map[string]domain.Account, error) {
	out := make(map[string]domain.Account, len(usernames))
	for _, u := range usernames {
		q := t.s.users().Where("username", "==", strings.TrimSpace(u)).Limit(1)
		snap, err := firstSnapshot(t.tx.Documents(q))
		if err != nil {
			return nil, fmt.Errorf("failed to read account %s: %w", u, err)
		}
		if snap == nil {
			continue
		}
		held, err := t.rememberSnapshot(snap)
		if err != nil {
			return nil, err
		}
		out[held.Username] = held.Account
	}
	return out, nil
}

func (t *txStores) load(accountID string) (*lockedAccount, error) {
	if held, ok := t.accounts[accountID]; ok {
		return held, nil
	}
	snap, err := t.tx.Get(t.s.users().Doc(accountID))
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storeErr(err)
	}
	return t.rememberSnapshot(snap)
}

func (t *txStores) loadByNumber(accountNumber string) (*lockedAccount, error) {
	if id, ok := t.byNumber[accountNumber]; ok {
		return t.accounts[id], nil
	}
	q := t.s.users().Where("accountNumber", "==", accountNumber).Limit(1)
	snap, err := firstSnapshot(t.tx.Documents(q))
	if err != nil {
		return nil, fmt.Errorf("failed to read account %s: %w", accountNumber, err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountNumber)
	}
	return t.rememberSnapshot(snap)
}

func (t *txStores) SetBalance(ctx context.Context, accountID string, expected, newBalance decimal.Decimal) error {
	held, err := t.load(accountID)
	if err != nil {
		return err
	}
	if !held.Balance.Equal(expected) {
		return apperrors.ErrConcurrentUpdate
	}
	held.Balance = newBalance
	t.markDirty(accountID)
	return nil
}

func (t *txStores) AppendTransaction(ctx context.Context, entry domain.Transaction) (*domain.Transaction, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	var touched []*lockedAccount
	for _, number := range []string{entry.FromAccount, entry.ToAccount} {
		if number == "" {
			continue
		}
		held, err := t.loadByNumber(number)
		if err != nil {
			return nil, err
		}
		touched = append(touched, held)
	}

	var seq int64
	for _, held := range touched {
		seq = max(seq, held.ledgerSeq)
	}
	seq++
	for _, held := range touched {
		held.ledgerSeq = seq
		t.markDirty(held.AccountID)
	}

	entry.TransactionID = uuid.NewString()
	entry.Sequence = seq
	entry.Timestamp = t.s.now().UTC()

	t.creates = append(t.creates, stagedCreate{
		ref: t.s.transactions().Doc(entry.TransactionID),
		doc: mapping.ToTransactionDocument(entry),
	})
	return &entry, nil
}

// flush issues the queued writes: one update per changed account, then the new entries.
func (t *txStores) flush() error {
	now := t.s.now().UTC()
	for _, id := range t.dirty {
		held := t.accounts[id]
		err := t.tx.Update(t.s.users().Doc(id), []firestore.Update{
			{Path: "balance", Value: held.Balance.StringFixed(domain.AmountScale)},
			{Path: "ledgerSeq", Value: held.ledgerSeq},
			{Path: "lastUpdatedAt", Value: now},
		})
		if err != nil {
			return err
		}
	}
	for _, c := range t.creates {
		if err := t.tx.Create(c.ref, c.doc); err != nil {
			return err
		}
	}
	return nil
}

// Do runs fn inside Firestore's RunTransaction. Firestore may re-run fn on
// contention, each time with fresh reads; a fresh txStores is built per attempt.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, stores portsrepo.TxStores) error) error {
	var fnErr error
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		stores := newTxStores(s, tx)
		if fnErr = fn(ctx, stores); fnErr != nil {
			return fnErr
		}
		return stores.flush()
	})
	return txError(err, fnErr)
}

// txError classifies what RunTransaction returned. Errors produced by the
// unit's function pass through untouched; anything else failed in the store.
func txError(err, fnErr error) error {
	if err == nil {
		return nil
	}
	if fnErr != nil && errors.Is(err, fnErr) {
		return fnErr
	}
	mapped := storeErr(err)
	if errors.Is(mapped, apperrors.ErrStoreUnavailable) || errors.Is(mapped, apperrors.ErrNotFound) {
		return fmt.Errorf("transaction failed: %w", mapped)
	}
	return fmt.Errorf("%w: transaction failed: %w", apperrors.ErrStoreUnavailable, err)
}
