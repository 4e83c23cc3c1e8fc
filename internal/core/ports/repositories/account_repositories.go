package repositories

import (
	"context"

	"github.com/SscSPs/bank_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByUsername returns the account for username, or nil and no error when there is none.
	FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	// FindAccountByID retrieves an account by its store id. A miss is apperrors.ErrNotFound.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// CreateAccount persists a new account with a zero balance and a freshly generated
	// account number. A taken username is apperrors.ErrDuplicateUsername.
	CreateAccount(ctx context.Context, candidate domain.NewAccount) (*domain.Account, error)

	// UpdateProfile changes the mutable profile fields of an account.
	UpdateProfile(ctx context.Context, accountID string, update domain.ProfileUpdate) error

	AccountBalanceWriter
}

// AccountBalanceWriter is the single balance mutation primitive.
type AccountBalanceWriter interface {
	// SetBalance stores newBalance only if the stored balance still equals expected.
	// It returns apperrors.ErrNotFound for a missing account and
	// apperrors.ErrConcurrentUpdate when the balance moved underneath the caller.
	SetBalance(ctx context.Context, accountID string, expected, newBalance decimal.Decimal) error
}

// AccountTransactionSupport defines operations only available inside a unit of work.
type AccountTransactionSupport interface {
	// FindAccountsByUsernamesForUpdate re-reads the named accounts inside the unit,
	// locking them where the backend supports it. Missing usernames are absent from the map.
	FindAccountsByUsernamesForUpdate(ctx context.Context, usernames []string) (map[string]domain.Account, error)

	AccountBalanceWriter
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
