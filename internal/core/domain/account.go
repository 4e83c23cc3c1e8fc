package domain

import (
	"github.com/shopspring/decimal"
)

// AccountNumberLength is the number of decimal digits in a generated account number.
const AccountNumberLength = 10

// Account represents a customer's bank account within the core domain.
// Username and AccountNumber are immutable once the account exists.
type Account struct {
	AccountID        string          `json:"accountID"`     // Opaque store id (UUID)
	Username         string          `json:"username"`      // Unique login name
	AccountNumber    string          `json:"accountNumber"` // Unique, 10 digits, store assigned
	FullName         string          `json:"fullName"`
	Email            string          `json:"email"`
	CredentialSecret string          `json:"-"` // Hashed secret, never serialised
	Balance          decimal.Decimal `json:"balance"`
	AuditFields
}

// NewAccount is the candidate handed to the store on registration.
// The store assigns identity, account number, timestamps and a zero balance.
type NewAccount struct {
	Username         string
	FullName         string
	Email            string
	CredentialSecret string
}

// ProfileUpdate carries the fields to change on an account. Nil means unchanged.
// Username and AccountNumber exist only so that stores can reject them.
type ProfileUpdate struct {
	FullName         *string
	Email            *string
	CredentialSecret *string

	Username      *string
	AccountNumber *string
}

// TouchesImmutable reports whether the update tries to change an identity field.
func (p ProfileUpdate) TouchesImmutable() bool {
	return p.Username != nil || p.AccountNumber != nil
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.FullName == nil && p.Email == nil && p.CredentialSecret == nil && !p.TouchesImmutable()
}

// MaxAccountNumberAttempts bounds how often a store regenerates a colliding account number.
const MaxAccountNumberAttempts = 5
