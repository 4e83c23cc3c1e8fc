package firestoredb

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/SscSPs/bank_app/internal/apperrors"
	"github.com/SscSPs/bank_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_app/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// FirestoreIntegrationSuite runs against the emulator named by FIRESTORE_EMULATOR_HOST.
type FirestoreIntegrationSuite struct {
	suite.Suite
	ctx   context.Context
	store *Store
}

func TestFirestoreIntegrationSuite(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set; skipping firestore integration tests")
	}
	suite.Run(t, new(FirestoreIntegrationSuite))
}

func (s *FirestoreIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	client, err := database.NewFirestoreClient(s.ctx, "bank-app-test", "")
	s.Require().NoError(err)
	s.store = NewStore(client)
}

func (s *FirestoreIntegrationSuite) TearDownSuite() {
	database.CloseFirestoreClient(s.store.client)
}

func (s *FirestoreIntegrationSuite) create(prefix string) *domain.Account {
	acc, err := s.store.CreateAccount(s.ctx, domain.NewAccount{
		Username:         prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12],
		FullName:         "Emulator " + prefix,
		Email:            prefix + "@example.com",
		CredentialSecret: "hash",
	})
	s.Require().NoError(err)
	return acc
}

func (s *FirestoreIntegrationSuite) TestAccountLifecycle() {
	acc := s.create("alice")

	found, err := s.store.FindAccountByUsername(s.ctx, acc.Username)
	s.Require().NoError(err)
	s.Require().NotNil(found)
	s.Equal(acc.AccountNumber, found.AccountNumber)

	_, err = s.store.CreateAccount(s.ctx, domain.NewAccount{Username: acc.Username})
	s.ErrorIs(err, apperrors.ErrDuplicateUsername)

	email := "new@example.com"
	s.Require().NoError(s.store.UpdateProfile(s.ctx, acc.AccountID, domain.ProfileUpdate{Email: &email}))
	byID, err := s.store.FindAccountByID(s.ctx, acc.AccountID)
	s.Require().NoError(err)
	s.Equal(email, byID.Email)

	s.ErrorIs(s.store.UpdateProfile(s.ctx, uuid.NewString(), domain.ProfileUpdate{Email: &email}), apperrors.ErrNotFound)
}

func (s *FirestoreIntegrationSuite) TestUnitOfWork() {
	alice := s.create("uowa")
	bob := s.create("uowb")
	boom := errors.New("boom")

	err := s.store.Do(s.ctx, func(ctx context.Context, stores portsrepo.TxStores) error {
		if err := stores.Accounts().SetBalance(ctx, alice.AccountID, decimal.Zero, decimal.NewFromInt(5)); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)
	found, _ := s.store.FindAccountByID(s.ctx, alice.AccountID)
	s.True(found.Balance.IsZero())

	s.Require().NoError(s.store.SetBalance(s.ctx, alice.AccountID, decimal.Zero, decimal.NewFromInt(40)))
	s.ErrorIs(s.store.SetBalance(s.ctx, alice.AccountID, decimal.Zero, decimal.NewFromInt(1)), apperrors.ErrConcurrentUpdate)

	err = s.store.Do(s.ctx, func(ctx context.Context, stores portsrepo.TxStores) error {
		accs, err := stores.Accounts().FindAccountsByUsernamesForUpdate(ctx, []string{alice.Username, bob.Username})
		if err != nil {
			return err
		}
		a, b := accs[alice.Username], accs[bob.Username]
		if err := stores.Accounts().SetBalance(ctx, a.AccountID, a.Balance, a.Balance.Sub(decimal.NewFromInt(15))); err != nil {
			return err
		}
		if err := stores.Accounts().SetBalance(ctx, b.AccountID, b.Balance, b.Balance.Add(decimal.NewFromInt(15))); err != nil {
			return err
		}
		_, err = stores.Ledger().AppendTransaction(ctx, domain.Transaction{
			Type: domain.Transfer, Amount: decimal.NewFromInt(15), FromAccount: a.AccountNumber, ToAccount: b.AccountNumber, UserID: a.Username,
		})
		return err
	})
	s.Require().NoError(err)

	a, _ := s.store.FindAccountByID(s.ctx, alice.AccountID)
	b, _ := s.store.FindAccountByID(s.ctx, bob.AccountID)
	s.True(a.Balance.Equal(decimal.NewFromInt(25)))
	s.True(b.Balance.Equal(decimal.NewFromInt(15)))

	ledger, err := s.store.ListTransactionsByAccountOrUser(s.ctx, bob.AccountNumber, bob.Username)
	s.Require().NoError(err)
	s.Require().Len(ledger, 1)
	s.Equal(alice.AccountNumber, ledger[0].FromAccount)
	s.Positive(ledger[0].Sequence)
}
