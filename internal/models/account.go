package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields are the timestamp columns shared by persisted rows.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	Username       string          `db:"username"`
	AccountNumber  string          `db:"account_number"`
	FullName       string          `db:"full_name"`
	Email          string          `db:"email"`
	CredentialHash string          `db:"credential_hash"`
	Balance        decimal.Decimal `db:"balance"`
	AuditFields
}

// AccountDocument is an account as stored in the Firestore users collection.
// Field names follow the collection's existing layout. Money is kept as a decimal string.
type AccountDocument struct {
	Username       string    `firestore:"username"`
	AccountNumber  string    `firestore:"accountNumber"`
	FullName       string    `firestore:"fullName"`
	Email          string    `firestore:"email"`
	CredentialHash string    `firestore:"credentialHash"`
	Balance        string    `firestore:"balance"`
	LedgerSeq      int64     `firestore:"ledgerSeq"` // Sequence of the newest ledger entry touching this account
	CreatedAt      time.Time `firestore:"createdAt"`
	LastUpdatedAt  time.Time `firestore:"lastUpdatedAt"`
}
