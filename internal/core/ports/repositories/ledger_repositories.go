package repositories

import (
	"context"

	"github.com/SscSPs/bank_app/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// ListTransactionsByAccountOrUser returns every entry whose fromAccount or toAccount
	// is accountNumber, or whose userId is username, newest first.
	ListTransactionsByAccountOrUser(ctx context.Context, accountNumber, username string) ([]domain.Transaction, error)

	// ListTransactionsByAccountOrUserPage is the paginated form of ListTransactionsByAccountOrUser.
	// It returns the entries, a token for the next page, and an error.
	ListTransactionsByAccountOrUserPage(ctx context.Context, accountNumber, username string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// LedgerWriter defines write operations for ledger entries
type LedgerWriter interface {
	// AppendTransaction stores a new entry, assigning its id, sequence and timestamp.
	AppendTransaction(ctx context.Context, entry domain.Transaction) (*domain.Transaction, error)
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
