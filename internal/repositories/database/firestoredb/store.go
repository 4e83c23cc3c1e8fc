// Package firestoredb stores accounts and ledger entries in Cloud Firestore,
// using the users and transactions collections.
package firestoredb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_app/internal/models"
	"github.com/SscSPs/bank_app/internal/utils"
	"github.com/SscSPs/bank_app/internal/utils/mapping"
	"github.com/SscSPs/bank_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/api/iterator"
)

const (
	UsersCollection        = "users"
	TransactionsCollection = "transactions"
)

// Store implements the account, ledger and unit of work ports on Firestore.
type Store struct {
	client           *firestore.Client
	newAccountNumber func() (string, error)
	now              func() time.Time
}

// NewStore wraps an open Firestore client.
func NewStore(client *firestore.Client) *Store {
	return &Store{
		client: client,
		newAccountNumber: func() (string, error) {
			return utils.GenerateAccountNumber(domain.AccountNumberLength)
		},
		now: time.Now,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade  = (*Store)(nil)
	_ portsrepo.UnitOfWork              = (*Store)(nil)
	_ portsrepo.HealthChecker           = (*Store)(nil)
)

// NewRepositoryProvider wires a Store into every slot of a RepositoryProvider.
func NewRepositoryProvider(client *firestore.Client) portsrepo.RepositoryProvider {
	s := NewStore(client)
	return portsrepo.RepositoryProvider{
		AccountRepo: s,
		LedgerRepo:  s,
		UnitOfWork:  s,
		Health:      s,
	}
}

func (s *Store) users() *firestore.CollectionRef {
	return s.client.Collection(UsersCollection)
}

func (s *Store) transactions() *firestore.CollectionRef {
	return s.client.Collection(TransactionsCollection)
}

// Ping reads a single user document, which proves connectivity and credentials.
func (s *Store) Ping(ctx context.Context) error {
	iter := s.users().Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return nil
}

func decodeAccount(snap *firestore.DocumentSnapshot) (domain.Account, error) {
	acc, _, err := decodeAccountWithSeq(snap)
	return acc, err
}

// decodeAccountWithSeq also returns the account's ledger sequence counter.
func decodeAccountWithSeq(snap *firestore.DocumentSnapshot) (domain.Account, int64, error) {
	var doc models.AccountDocument
	if err := snap.DataTo(&doc); err != nil {
		return domain.Account{}, 0, fmt.Errorf("failed to decode account %s: %w", snap.Ref.ID, err)
	}
	acc, err := mapping.FromAccountDocument(snap.Ref.ID, doc)
	return acc, doc.LedgerSeq, err
}

func decodeTransaction(snap *firestore.DocumentSnapshot) (domain.Transaction, error) {
	var doc models.TransactionDocument
	if err := snap.DataTo(&doc); err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to decode transaction %s: %w", snap.Ref.ID, err)
	}
	return mapping.FromTransactionDocument(snap.Ref.ID, doc)
}

// firstSnapshot drains at most one document from iter. A miss is nil, nil.
func firstSnapshot(iter *firestore.DocumentIterator) (*firestore.DocumentSnapshot, error) {
	defer iter.Stop()
	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return snap, nil
}

func firstAccount(iter *firestore.DocumentIterator) (*domain.Account, error) {
	snap, err := firstSnapshot(iter)
	if err != nil || snap == nil {
		return nil, err
	}
	acc, err := decodeAccount(snap)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Store) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	q := s.users().Where("username", "==", strings.TrimSpace(username)).Limit(1)
	acc, err := firstAccount(q.Documents(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to find account by username %s: %w", username, err)
	}
	return acc, nil
}

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	snap, err := s.users().Doc(accountID).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, storeErr(err))
	}
	acc, err := decodeAccount(snap)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// CreateAccount checks username and account number uniqueness inside a
// transaction so that two concurrent registrations cannot both succeed.
func (s *Store) CreateAccount(ctx context.Context, candidate domain.NewAccount) (*domain.Account, error) {
	username := strings.TrimSpace(candidate.Username)
	var created domain.Account

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := firstAccount(tx.Documents(s.users().Where("username", "==", username).Limit(1)))
		if err != nil {
			return err
		}
		if existing != nil {
			return apperrors.ErrDuplicateUsername
		}

		number, err := s.uniqueAccountNumber(tx)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		created = domain.Account{
			AccountID:        uuid.NewString(),
			Username:         username,
			AccountNumber:    number,
			FullName:         candidate.FullName,
			Email:            candidate.Email,
			CredentialSecret: candidate.CredentialSecret,
			Balance:          decimal.Zero,
			AuditFields:      domain.AuditFields{CreatedAt: now, LastUpdatedAt: now},
		}
		return tx.Create(s.users().Doc(created.AccountID), mapping.ToAccountDocument(created))
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicateUsername) || errors.Is(err, apperrors.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to save account %s: %w", username, storeErr(err))
	}
	return &created, nil
}

func (s *Store) uniqueAccountNumber(tx *firestore.Transaction) (string, error) {
	for attempt := 0; attempt < domain.MaxAccountNumberAttempts; attempt++ {
		number, err := s.newAccountNumber()
		if err != nil {
			return "", fmt.Errorf("%w: generating account number: %w", apperrors.ErrStoreUnavailable, err)
		}
		taken, err := firstAccount(tx.Documents(s.users().Where("accountNumber", "==", number).Limit(1)))
		if err != nil {
			return "", err
		}
		if taken == nil {
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

	updates := []firestore.Update{{Path: "lastUpdatedAt", Value: s.now().UTC()}}
	if update.FullName != nil {
		updates = append(updates, firestore.Update{Path: "fullName", Value: *update.FullName})
	}
	if update.Email != nil {
		updates = append(updates, firestore.Update{Path: "email", Value: *update.Email})
	}
	if update.CredentialSecret != nil {
		updates = append(updates, firestore.Update{Path: "credentialHash", Value: *update.CredentialSecret})
	}

	// Update fails with NotFound when the document does not exist.
	if _, err := s.users().Doc(accountID).Update(ctx, updates); err != nil {
		if isNotFound(err) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update profile for account %s: %w", accountID, storeErr(err))
	}
	return nil
}

// SetBalance runs its compare-and-swap in a transaction of its own.
func (s *Store) SetBalance(ctx context.Context, accountID string, expected, newBalance decimal.Decimal) error {
	return s.Do(ctx, func(ctx context.Context, stores portsrepo.TxStores) error {
		return stores.Accounts().SetBalance(ctx, accountID, expected, newBalance)
	})
}

// AppendTransaction appends in a transaction of its own so the accounts'
// sequence counters stay consistent with the entry.
func (s *Store) AppendTransaction(ctx context.Context, entry domain.Transaction) (*domain.Transaction, error) {
	var stored *domain.Transaction
	err := s.Do(ctx, func(ctx context.Context, stores portsrepo.TxStores) error {
		var err error
		stored, err = stores.Ledger().AppendTransaction(ctx, entry)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ListTransactionsByAccountOrUser merges three equality queries because
// Firestore cannot OR across different fields in one query.
func (s *Store) ListTransactionsByAccountOrUser(ctx context.Context, accountNumber, username string) ([]domain.Transaction, error) {
	var queries []firestore.Query
	if accountNumber != "" {
		queries = append(queries,
			s.transactions().Where("fromAccount", "==", accountNumber),
			s.transactions().Where("toAccount", "==", accountNumber))
	}
	if username = strings.TrimSpace(username); username != "" {
		queries = append(queries, s.transactions().Where("userId", "==", username))
	}

	seen := make(map[string]struct{})
	var out []domain.Transaction
	for _, q := range queries {
		iter := q.Documents(ctx)
		for {
			snap, err := iter.Next()
			if errors.Is(err, iterator.Done) {
				break
			}
			if err != nil {
				iter.Stop()
				return nil, fmt.Errorf("failed to list ledger for %s: %w", username, storeErr(err))
			}
			if _, dup := seen[snap.Ref.ID]; dup {
				continue
			}
			tx, err := decodeTransaction(snap)
			if err != nil {
				iter.Stop()
				return nil, err
			}
			seen[snap.Ref.ID] = struct{}{}
			out = append(out, tx)
		}
		iter.Stop()
	}

	domain.SortTransactions(out)
	return out, nil
}

// ListTransactionsByAccountOrUserPage pages over the merged ledger in memory.
func (s *Store) ListTransactionsByAccountOrUserPage(ctx context.Context, accountNumber, username string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	all, err := s.ListTransactionsByAccountOrUser(ctx, accountNumber, username)
	if err != nil {
		return nil, nil, err
	}
	return pagination.PageTransactions(all, limit, nextToken)
}
