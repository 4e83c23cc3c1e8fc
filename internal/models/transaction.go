package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType mirrors the ledger_transactions.type column.
type TransactionType string

// Transaction is a row of the ledger_transactions table.
// FromAccount and ToAccount are nullable.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	Sequence      int64           `db:"sequence"`
	Type          TransactionType `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Description   string          `db:"description"`
	Timestamp     time.Time       `db:"timestamp"`
	FromAccount   *string         `db:"from_account"`
	ToAccount     *string         `db:"to_account"`
	UserID        string          `db:"user_id"`
}

// TransactionDocument is a ledger entry in the Firestore transactions collection.
type TransactionDocument struct {
	Type        string    `firestore:"type"`
	Amount      string    `firestore:"amount"`
	Description string    `firestore:"description"`
	Timestamp   time.Time `firestore:"timestamp"`
	Sequence    int64     `firestore:"sequence"`
	FromAccount string    `firestore:"fromAccount,omitempty"`
	ToAccount   string    `firestore:"toAccount,omitempty"`
	UserID      string    `firestore:"userId"`
}
