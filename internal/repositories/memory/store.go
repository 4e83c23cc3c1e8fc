// Package memory is an in-process Account and Ledger store. It is the default
// backend for development and the backend the service tests run against.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/SscSPs/bank_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store keeps accounts and ledger entries in maps guarded by one mutex.
// A unit of work holds the mutex for its whole duration, so units are serialised.
type Store struct {
	mu sync.Mutex

	accounts     map[string]domain.Account // by account id
	idByUsername map[string]string
	idByNumber   map[string]string

	ledger  []domain.Transaction // append order
	nextSeq int64

	now              func() time.Time
	newAccountNumber func() (string, error)
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithAccountNumberGenerator overrides how account numbers are generated.
func WithAccountNumberGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newAccountNumber = gen }
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		accounts:     make(map[string]domain.Account),
		idByUsername: make(map[string]string),
		idByNumber:   make(map[string]string),
		now:          time.Now,
		newAccountNumber: func() (string, error) {
			return utils.GenerateAccountNumber(domain.AccountNumberLength)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var (
	_ repositories.AccountRepositoryFacade = (*Store)(nil)
	_ repositories.LedgerRepositoryFacade  = (*Store)(nil)
	_ repositories.UnitOfWork              = (*Store)(nil)
	_ repositories.HealthChecker           = (*Store)(nil)
)

// Provider wires a Store into every slot of a RepositoryProvider.
func (s *Store) Provider() repositories.RepositoryProvider {
	return repositories.RepositoryProvider{
		AccountRepo: s,
		LedgerRepo:  s,
		UnitOfWork:  s,
		Health:      s,
	}
}

func ctxErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

// Usernames are unique regardless of case.
func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// Ping always succeeds unless the context is done.
func (s *Store) Ping(ctx context.Context) error {
	return ctxErr(ctx)
}

// FindAccountByUsername returns nil, nil when the username is unknown.
func (s *Store) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.idByUsername[normalizeUsername(username)]
	if !ok {
		return nil, nil
	}
	acc := s.accounts[id]
	return &acc, nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) CreateAccount(ctx context.Context, candidate domain.NewAccount) (*domain.Account, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	username := normalizeUsername(candidate.Username)
	if _, exists := s.idByUsername[username]; exists {
		return nil, apperrors.ErrDuplicateUsername
	}

	number, err := s.uniqueAccountNumber()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	acc := domain.Account{
		AccountID:        uuid.NewString(),
		Username:         username,
		AccountNumber:    number,
		FullName:         candidate.FullName,
		Email:            candidate.Email,
		CredentialSecret: candidate.CredentialSecret,
		Balance:          decimal.Zero,
		AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
	}
	s.accounts[acc.AccountID] = acc
	s.idByUsername[username] = acc.AccountID
	s.idByNumber[number] = acc.AccountID
	return &acc, nil
}

func (s *Store) uniqueAccountNumber() (string, error) {
	for attempt := 0; attempt < domain.MaxAccountNumberAttempts; attempt++ {
		number, err := s.newAccountNumber()
		if err != nil {
			return "", fmt.Errorf("%w: generating account number: %v", apperrors.ErrStoreUnavailable, err)
		}
		if _, taken := s.idByNumber[number]; !taken {
			return number, nil
		}
	}
	return "", fmt.Errorf("%w: could not allocate a unique account number after %d attempts",
		apperrors.ErrStoreUnavailable, domain.MaxAccountNumberAttempts)
}

func (s *Store) UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) error {
	if update.TouchesImmutable() {
		return apperrors.ErrImmutableField
	}
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if update.FullName != nil {
		acc.FullName = *update.FullName
	}
	if update.Email != nil {
		acc.Email = *update.Email
	}
	if update.CredentialSecret != nil {
		acc.CredentialSecret = *update.CredentialSecret
	}
	acc.LastUpdatedAt = s.now().UTC()
	s.accounts[accountID] = acc
	return nil
}

func (s *Store) SetBalance(ctx context.Context, accountID string, expected, newBalance decimal.Decimal) error {
	if err := ctxErr(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setBalanceLocked(accountID, expected, newBalance)
}

func (s *Store) setBalanceLocked(accountID string, expected, newBalance decimal.Decimal) error {
	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !acc.Balance.Equal(expected) {
		return apperrors.ErrConcurrentUpdate
	}
	acc.Balance = newBalance
	acc.LastUpdatedAt = s.now().UTC()
	s.accounts[accountID] = acc
	return nil
}

func (s *Store) AppendTransaction(ctx context.Context, entry domain.Transaction) (*domain.Transaction, error) {
	if err := entry.Validate(); err != nil {
		return nil, err
	}
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.stampLocked(entry)
	s.ledger = append(s.ledger, stored)
	return &stored, nil
}

// stampLocked assigns id, sequence and timestamp. The sequence is consumed even
// if the owning unit later rolls back, which only leaves gaps.
func (s *Store) stampLocked(entry domain.Transaction) domain.Transaction {
	s.nextSeq++
	entry.TransactionID = uuid.NewString()
	entry.Sequence = s.nextSeq
	entry.Timestamp = s.now().UTC()
	return entry
}

func (s *Store) ListTransactionsByAccountOrUser(ctx context.Context, accountNumber, username string) ([]domain.Transaction, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Transaction
	for _, tx := range s.ledger {
		if tx.Involves(accountNumber, username) {
			out = append(out, tx)
		}
	}
	domain.SortTransactions(out)
	return out, nil
}

func (s *Store) ListTransactionsByAccountOrUserPage(ctx context.Context, accountNumber, username string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	all, err := s.ListTransactionsByAccountOrUser(ctx, accountNumber, username)
	if err != nil {
		return nil, nil, err
	}
	return pagination.PageTransactions(all, limit, nextToken)
}
